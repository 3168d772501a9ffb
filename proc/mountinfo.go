package proc

import "strings"

// Mount is one line of /proc/[pid]/mountinfo. Option strings are kept both
// verbatim (ordered, for round-trip fidelity) and as a parsed key=value map;
// flag-style options appear in the map with an empty value. Per-mount and
// superblock options are kept apart because the kernel does not document a
// merge precedence between them.
type Mount struct {
	MountID  int
	ParentID int
	Dev      Dev

	// Root is the root of the mount within its filesystem; MountPoint is
	// where it appears in the mount namespace. Octal escapes are decoded.
	Root       string
	MountPoint string

	Options    []string
	OptionsMap map[string]string

	// OptionalFields holds the tagged fields before the separator, such as
	// shared:2 or master:1. A bare tag maps to an empty value.
	OptionalFields map[string]string

	FSType string
	Source string

	SuperOptions    []string
	SuperOptionsMap map[string]string
}

// ParseMountInfo parses /proc/[pid]/mountinfo content.
func ParseMountInfo(source string, data []byte) ([]Mount, error) {
	var mounts []Mount
	for _, line := range lines(data) {
		if line == "" {
			continue
		}
		m, err := parseMountInfoLine(source, line)
		if err != nil {
			return nil, err
		}
		mounts = append(mounts, m)
	}
	return mounts, nil
}

func parseMountInfoLine(source, line string) (Mount, error) {
	var m Mount
	fields := strings.Fields(line)
	if len(fields) < 10 {
		return m, missing(source, "super options")
	}

	id, err := parseInt(source, "mount id", fields[0], 64)
	if err != nil {
		return m, err
	}
	m.MountID = int(id)
	parent, err := parseInt(source, "parent id", fields[1], 64)
	if err != nil {
		return m, err
	}
	m.ParentID = int(parent)
	if m.Dev, err = parseDevPair(source, "major:minor", fields[2], 10); err != nil {
		return m, err
	}
	m.Root = unescapeOctal(fields[3])
	m.MountPoint = unescapeOctal(fields[4])
	m.Options, m.OptionsMap = parseMountOptions(fields[5])

	// Zero or more optional tagged fields run until the "-" separator.
	m.OptionalFields = make(map[string]string)
	i := 6
	for ; i < len(fields); i++ {
		if fields[i] == "-" {
			i++
			break
		}
		tag, value, _ := strings.Cut(fields[i], ":")
		m.OptionalFields[tag] = value
	}
	if len(fields) < i+3 {
		return m, missing(source, "super options")
	}
	m.FSType = fields[i]
	m.Source = unescapeOctal(fields[i+1])
	m.SuperOptions, m.SuperOptionsMap = parseMountOptions(fields[i+2])
	return m, nil
}

// parseMountOptions splits a comma-separated option string, preserving the
// full original list and additionally splitting recognized key=value forms.
func parseMountOptions(s string) ([]string, map[string]string) {
	opts := strings.Split(s, ",")
	parsed := make(map[string]string, len(opts))
	for _, opt := range opts {
		key, value, _ := strings.Cut(opt, "=")
		parsed[key] = value
	}
	return opts, parsed
}
