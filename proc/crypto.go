package proc

import "strings"

// CryptoBlock is one algorithm block of /proc/crypto. Blocks are separated
// by blank lines; each line is a "key : value" pair. Keys specific to one
// algorithm type (blocksize, digestsize, ivsize...) land in Extra.
type CryptoBlock struct {
	Name     string
	Driver   string
	Module   string
	Priority int64
	RefCnt   int64
	// SelfTestPassed reflects the selftest line ("passed"/"unknown").
	SelfTestPassed bool
	Internal       bool
	FipsEnabled    bool
	Type           string

	Extra map[string]string
}

// ParseCrypto parses /proc/crypto content into its algorithm blocks.
func ParseCrypto(source string, data []byte) ([]CryptoBlock, error) {
	var blocks []CryptoBlock
	var cur map[string]string
	var order []string

	flush := func() error {
		if cur == nil {
			return nil
		}
		block, err := buildCryptoBlock(source, cur, order)
		if err != nil {
			return err
		}
		blocks = append(blocks, block)
		cur = nil
		order = nil
		return nil
	}

	for _, line := range lines(data) {
		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		key, value, ok := splitKeyValue(line)
		if !ok {
			return nil, malformedf(source, "", "line %q has no key separator", line)
		}
		if cur == nil {
			cur = make(map[string]string)
		}
		cur[key] = value
		order = append(order, key)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return blocks, nil
}

func buildCryptoBlock(source string, kv map[string]string, order []string) (CryptoBlock, error) {
	var b CryptoBlock
	mandatory := []struct {
		key string
		dst *string
	}{
		{"name", &b.Name},
		{"driver", &b.Driver},
		{"module", &b.Module},
		{"type", &b.Type},
	}
	for _, m := range mandatory {
		v, ok := kv[m.key]
		if !ok {
			return b, missing(source, m.key)
		}
		*m.dst = v
	}

	var err error
	priority, ok := kv["priority"]
	if !ok {
		return b, missing(source, "priority")
	}
	if b.Priority, err = parseInt(source, "priority", priority, 64); err != nil {
		return b, err
	}
	refcnt, ok := kv["refcnt"]
	if !ok {
		return b, missing(source, "refcnt")
	}
	if b.RefCnt, err = parseInt(source, "refcnt", refcnt, 64); err != nil {
		return b, err
	}
	if st, ok := kv["selftest"]; ok {
		b.SelfTestPassed = st == "passed"
	}
	if v, ok := kv["internal"]; ok {
		b.Internal = v == "yes"
	}
	if v, ok := kv["fips"]; ok {
		b.FipsEnabled = v == "yes"
	}

	known := map[string]bool{
		"name": true, "driver": true, "module": true, "type": true,
		"priority": true, "refcnt": true, "selftest": true,
		"internal": true, "fips": true,
	}
	for _, key := range order {
		if !known[key] {
			if b.Extra == nil {
				b.Extra = make(map[string]string)
			}
			b.Extra[key] = kv[key]
		}
	}
	return b, nil
}
