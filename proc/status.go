package proc

import "strings"

// Status is the parsed key:value block from /proc/[pid]/status. It overlaps
// Stat but adds credential and memory detail. Pointer fields are only
// emitted by newer kernels or under certain configs; keys this package does
// not recognize are preserved verbatim in Rest.
type Status struct {
	Name      string
	Umask     *uint32 // since 4.7
	State     State
	StateCode byte
	Tgid      int
	Pid       int
	PPid      int
	TracerPid int

	// UIDs and GIDs hold real, effective, saved and filesystem ids.
	UIDs [4]uint32
	GIDs [4]uint32

	FDSize uint64
	Groups []uint32

	VmPeak   *uint64 // bytes
	VmSize   *uint64
	VmLck    *uint64
	VmPin    *uint64 // since 3.2
	VmHWM    *uint64
	VmRSS    *uint64
	RssAnon  *uint64 // since 4.5
	RssFile  *uint64 // since 4.5
	RssShmem *uint64 // since 4.5
	VmData   *uint64
	VmStk    *uint64
	VmExe    *uint64
	VmLib    *uint64
	VmPTE    *uint64
	VmSwap   *uint64 // since 2.6.34

	Threads uint64

	// SigQPending and SigQLimit come from the "SigQ: pending/limit" pair.
	SigQPending uint64
	SigQLimit   uint64

	SigPnd uint64
	ShdPnd uint64
	SigBlk uint64
	SigIgn uint64
	SigCgt uint64

	CapInh uint64
	CapPrm uint64
	CapEff uint64
	CapBnd uint64
	CapAmb *uint64 // since 4.3

	NoNewPrivs  *bool // since 4.10
	Seccomp     *int  // since 3.8, requires CONFIG_SECCOMP
	CoreDumping *bool // since 4.15

	VoluntaryCtxtSwitches    *uint64
	NonvoluntaryCtxtSwitches *uint64

	// Rest holds unrecognized keys so newer kernels degrade gracefully.
	Rest map[string]string
}

// statusMandatoryKeys are present on every supported kernel; a block missing
// one of them is malformed, not merely old.
var statusMandatoryKeys = []string{
	"Name", "State", "Tgid", "Pid", "PPid", "TracerPid",
	"Uid", "Gid", "FDSize", "Threads",
}

// ParseStatus parses a /proc/[pid]/status block. Lines split on the first
// colon only, values are whitespace-trimmed, and kB-suffixed sizes are
// normalized to bytes with the unit validated.
func ParseStatus(source string, data []byte, f Features) (*Status, error) {
	st := &Status{Rest: make(map[string]string)}
	seen := make(map[string]bool)

	for _, line := range lines(data) {
		if line == "" {
			continue
		}
		key, value, ok := splitKeyValue(line)
		if !ok {
			return nil, malformedf(source, "", "line %q has no key separator", line)
		}
		seen[key] = true
		if err := st.setField(source, key, value); err != nil {
			return nil, err
		}
	}

	for _, key := range statusMandatoryKeys {
		if !seen[key] {
			return nil, missing(source, key)
		}
	}
	if f.expects(verStatusRssSplit) && st.RssAnon == nil && st.State != StateZombie {
		return nil, missing(source, "RssAnon")
	}
	return st, nil
}

func (st *Status) setField(source, key, value string) error {
	size := func(dst **uint64) error {
		v, err := parseKBValue(source, key, value)
		if err != nil {
			return err
		}
		*dst = &v
		return nil
	}
	mask := func(dst *uint64) error {
		v, err := parseHexUint(source, key, value, 64)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}

	var err error
	switch key {
	case "Name":
		st.Name = value
	case "Umask":
		var v uint64
		// The umask is printed in octal.
		if v, err = parseOctalUint(source, key, value); err == nil {
			u := uint32(v)
			st.Umask = &u
		}
	case "State":
		if value == "" {
			return missing(source, key)
		}
		st.StateCode = value[0]
		st.State = stateFromCode(st.StateCode)
	case "Tgid", "Pid", "PPid", "TracerPid":
		var v int64
		if v, err = parseInt(source, key, value, 64); err == nil {
			switch key {
			case "Tgid":
				st.Tgid = int(v)
			case "Pid":
				st.Pid = int(v)
			case "PPid":
				st.PPid = int(v)
			case "TracerPid":
				st.TracerPid = int(v)
			}
		}
	case "Uid", "Gid":
		ids, idErr := parseIDQuad(source, key, value)
		if idErr != nil {
			return idErr
		}
		if key == "Uid" {
			st.UIDs = ids
		} else {
			st.GIDs = ids
		}
	case "FDSize":
		st.FDSize, err = parseUint(source, key, value, 64)
	case "Groups":
		for _, tok := range strings.Fields(value) {
			g, gErr := parseUint(source, key, tok, 32)
			if gErr != nil {
				return gErr
			}
			st.Groups = append(st.Groups, uint32(g))
		}
	case "VmPeak":
		err = size(&st.VmPeak)
	case "VmSize":
		err = size(&st.VmSize)
	case "VmLck":
		err = size(&st.VmLck)
	case "VmPin":
		err = size(&st.VmPin)
	case "VmHWM":
		err = size(&st.VmHWM)
	case "VmRSS":
		err = size(&st.VmRSS)
	case "RssAnon":
		err = size(&st.RssAnon)
	case "RssFile":
		err = size(&st.RssFile)
	case "RssShmem":
		err = size(&st.RssShmem)
	case "VmData":
		err = size(&st.VmData)
	case "VmStk":
		err = size(&st.VmStk)
	case "VmExe":
		err = size(&st.VmExe)
	case "VmLib":
		err = size(&st.VmLib)
	case "VmPTE":
		err = size(&st.VmPTE)
	case "VmSwap":
		err = size(&st.VmSwap)
	case "Threads":
		st.Threads, err = parseUint(source, key, value, 64)
	case "SigQ":
		pending, limit, ok := strings.Cut(value, "/")
		if !ok {
			return malformedf(source, key, "%q is not a pending/limit pair", value)
		}
		if st.SigQPending, err = parseUint(source, key, pending, 64); err != nil {
			return err
		}
		st.SigQLimit, err = parseUint(source, key, limit, 64)
	case "SigPnd":
		err = mask(&st.SigPnd)
	case "ShdPnd":
		err = mask(&st.ShdPnd)
	case "SigBlk":
		err = mask(&st.SigBlk)
	case "SigIgn":
		err = mask(&st.SigIgn)
	case "SigCgt":
		err = mask(&st.SigCgt)
	case "CapInh":
		err = mask(&st.CapInh)
	case "CapPrm":
		err = mask(&st.CapPrm)
	case "CapEff":
		err = mask(&st.CapEff)
	case "CapBnd":
		err = mask(&st.CapBnd)
	case "CapAmb":
		var v uint64
		if v, err = parseHexUint(source, key, value, 64); err == nil {
			st.CapAmb = &v
		}
	case "NoNewPrivs", "CoreDumping":
		var v uint64
		if v, err = parseUint(source, key, value, 64); err == nil {
			b := v != 0
			if key == "NoNewPrivs" {
				st.NoNewPrivs = &b
			} else {
				st.CoreDumping = &b
			}
		}
	case "Seccomp":
		var v int64
		if v, err = parseInt(source, key, value, 64); err == nil {
			mode := int(v)
			st.Seccomp = &mode
		}
	case "voluntary_ctxt_switches", "nonvoluntary_ctxt_switches":
		var v uint64
		if v, err = parseUint(source, key, value, 64); err == nil {
			if key == "voluntary_ctxt_switches" {
				st.VoluntaryCtxtSwitches = &v
			} else {
				st.NonvoluntaryCtxtSwitches = &v
			}
		}
	default:
		st.Rest[key] = value
	}
	return err
}

// parseIDQuad parses the four-column Uid/Gid values (real, effective, saved,
// filesystem).
func parseIDQuad(source, field, value string) ([4]uint32, error) {
	var ids [4]uint32
	toks := strings.Fields(value)
	if len(toks) != 4 {
		return ids, malformedf(source, field, "expected 4 ids, got %d", len(toks))
	}
	for i, tok := range toks {
		v, err := parseUint(source, field, tok, 32)
		if err != nil {
			return ids, err
		}
		ids[i] = uint32(v)
	}
	return ids, nil
}
