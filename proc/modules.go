package proc

import "strings"

// ModuleState is the state column of /proc/modules. New states would not be
// a kernel ABI break, so an unknown word maps to ModuleStateUnknown with the
// raw string preserved on the record.
type ModuleState int

const (
	ModuleStateUnknown ModuleState = iota
	ModuleLive
	ModuleLoading
	ModuleUnloading
)

func (s ModuleState) String() string {
	switch s {
	case ModuleLive:
		return "Live"
	case ModuleLoading:
		return "Loading"
	case ModuleUnloading:
		return "Unloading"
	default:
		return "Unknown"
	}
}

// Module is one row of /proc/modules.
type Module struct {
	Name     string
	Size     uint64
	Refcount uint64
	// UsedBy lists dependent modules; empty when the column is "-".
	UsedBy   []string
	State    ModuleState
	RawState string
	Offset   uint64
}

// ParseModules parses /proc/modules content.
func ParseModules(source string, data []byte) ([]Module, error) {
	var modules []Module
	for _, line := range lines(data) {
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 6 {
			return nil, missing(source, "offset")
		}
		m := Module{Name: fields[0], RawState: fields[4]}
		var err error
		if m.Size, err = parseUint(source, "size", fields[1], 64); err != nil {
			return nil, err
		}
		if m.Refcount, err = parseUint(source, "refcount", fields[2], 64); err != nil {
			return nil, err
		}
		if fields[3] != "-" {
			for _, dep := range strings.Split(strings.TrimSuffix(fields[3], ","), ",") {
				if dep != "" {
					m.UsedBy = append(m.UsedBy, dep)
				}
			}
		}
		switch fields[4] {
		case "Live":
			m.State = ModuleLive
		case "Loading":
			m.State = ModuleLoading
		case "Unloading":
			m.State = ModuleUnloading
		default:
			m.State = ModuleStateUnknown
		}
		if m.Offset, err = parseHexUint(source, "offset", strings.TrimPrefix(fields[5], "0x"), 64); err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, nil
}
