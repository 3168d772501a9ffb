package proc

// Meminfo is the parsed /proc/meminfo block. Sizes are normalized to bytes;
// unitless counters (the HugePages family) stay raw counts. Every key, named
// or not, is also available in All for forward compatibility.
type Meminfo struct {
	MemTotal     uint64
	MemFree      uint64
	MemAvailable *uint64 // since 3.14

	Buffers    uint64
	Cached     uint64
	SwapCached uint64
	Active     uint64
	Inactive   uint64
	SwapTotal  uint64
	SwapFree   uint64
	Dirty      uint64
	Writeback  uint64
	AnonPages  uint64
	Mapped     uint64
	Shmem      uint64
	Slab       uint64

	CommitLimit uint64
	CommittedAS uint64

	// All maps every key in the file to its byte (or raw count) value.
	All map[string]uint64
}

// ParseMeminfo parses /proc/meminfo content. Unit strings are validated: a
// value suffixed with anything other than kB is a hard parse error.
func ParseMeminfo(source string, data []byte, f Features) (*Meminfo, error) {
	mi := &Meminfo{All: make(map[string]uint64)}
	for _, line := range lines(data) {
		if line == "" {
			continue
		}
		key, value, ok := splitKeyValue(line)
		if !ok {
			return nil, malformedf(source, "", "line %q has no key separator", line)
		}
		v, err := parseKBValue(source, key, value)
		if err != nil {
			return nil, err
		}
		mi.All[key] = v
	}

	mandatory := []struct {
		key string
		dst *uint64
	}{
		{"MemTotal", &mi.MemTotal},
		{"MemFree", &mi.MemFree},
		{"Buffers", &mi.Buffers},
		{"Cached", &mi.Cached},
		{"SwapCached", &mi.SwapCached},
		{"Active", &mi.Active},
		{"Inactive", &mi.Inactive},
		{"SwapTotal", &mi.SwapTotal},
		{"SwapFree", &mi.SwapFree},
		{"Dirty", &mi.Dirty},
		{"Writeback", &mi.Writeback},
		{"AnonPages", &mi.AnonPages},
		{"Mapped", &mi.Mapped},
		{"Shmem", &mi.Shmem},
		{"Slab", &mi.Slab},
		{"CommitLimit", &mi.CommitLimit},
		{"Committed_AS", &mi.CommittedAS},
	}
	for _, m := range mandatory {
		v, ok := mi.All[m.key]
		if !ok {
			return nil, missing(source, m.key)
		}
		*m.dst = v
	}

	if v, ok := mi.All["MemAvailable"]; ok {
		mi.MemAvailable = &v
	} else if f.expects(verMemAvailable) {
		return nil, missing(source, "MemAvailable")
	}
	return mi, nil
}
