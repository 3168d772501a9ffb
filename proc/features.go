package proc

import (
	"fmt"
	"strconv"
	"strings"
)

// Version identifies a kernel release for feature gating.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses a kernel release string such as "6.1.0-13-amd64".
// Anything after the patch number is ignored.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "-+ "); i >= 0 {
		s = s[:i]
	}
	parts := strings.SplitN(s, ".", 3)
	if len(parts) < 2 {
		return Version{}, fmt.Errorf("malformed kernel version %q", s)
	}
	var v Version
	var err error
	if v.Major, err = strconv.Atoi(parts[0]); err != nil {
		return Version{}, fmt.Errorf("malformed kernel version %q", s)
	}
	if v.Minor, err = strconv.Atoi(parts[1]); err != nil {
		return Version{}, fmt.Errorf("malformed kernel version %q", s)
	}
	if len(parts) == 3 {
		if v.Patch, err = strconv.Atoi(parts[2]); err != nil {
			return Version{}, fmt.Errorf("malformed kernel version %q", s)
		}
	}
	return v, nil
}

// AtLeast reports whether v is o or newer.
func (v Version) AtLeast(o Version) bool {
	if v.Major != o.Major {
		return v.Major > o.Major
	}
	if v.Minor != o.Minor {
		return v.Minor > o.Minor
	}
	return v.Patch >= o.Patch
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Features describes which optional fields the running kernel is expected to
// expose. The zero value means the kernel version is unknown: parsers then
// tolerate any structural absence, and nothing is reported as unsupported.
type Features struct {
	Kernel Version
}

// Known reports whether the kernel version has been determined.
func (f Features) Known() bool { return f.Kernel != (Version{}) }

// expects reports whether the kernel is known to be at least v, meaning a
// field introduced in v must be present in a well-formed record.
func (f Features) expects(v Version) bool {
	return f.Known() && f.Kernel.AtLeast(v)
}

// before reports whether the kernel is known to predate v.
func (f Features) before(v Version) bool {
	return f.Known() && !f.Kernel.AtLeast(v)
}

// PressureUnsupported reports whether the kernel is known to predate
// /proc/pressure (introduced in 4.20). An unknown kernel reports false and
// the caller finds out by reading.
func (f Features) PressureUnsupported() bool { return f.before(verPressure) }

// Kernel versions that introduced version-gated fields and files.
var (
	verStatExtended   = Version{Major: 3, Minor: 5}  // arg_start..exit_code in stat
	verDiscardStats   = Version{Major: 4, Minor: 18} // discard columns in diskstats
	verFlushStats     = Version{Major: 5, Minor: 5}  // flush columns in diskstats
	verPressure       = Version{Major: 4, Minor: 20} // /proc/pressure
	verCPUFullLine    = Version{Major: 5, Minor: 13} // full line in cpu pressure
	verMemAvailable   = Version{Major: 3, Minor: 14} // MemAvailable in meminfo
	verStatusRssSplit = Version{Major: 4, Minor: 5}  // RssAnon/RssFile/RssShmem
)
