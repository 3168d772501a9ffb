package proc

import "strings"

// DiskStat is one row of /proc/diskstats. The first fourteen columns exist
// on every supported kernel; Discard and Flush blocks are version-gated and
// absent structurally on older kernels.
type DiskStat struct {
	Dev  Dev
	Name string

	ReadsCompleted  uint64
	ReadsMerged     uint64
	SectorsRead     uint64
	ReadMillis      uint64
	WritesCompleted uint64
	WritesMerged    uint64
	SectorsWritten  uint64
	WriteMillis     uint64

	IOsInProgress    uint64
	IOMillis         uint64
	WeightedIOMillis uint64

	// Discard accounting, since 4.18.
	DiscardsCompleted *uint64
	DiscardsMerged    *uint64
	SectorsDiscarded  *uint64
	DiscardMillis     *uint64

	// Flush accounting, since 5.5.
	FlushesCompleted *uint64
	FlushMillis      *uint64
}

const diskStatMinFields = 14

// ParseDiskStats parses /proc/diskstats content. If the feature context
// marks the kernel new enough for discard or flush columns, their absence is
// an error; otherwise shorter rows are accepted as-is.
func ParseDiskStats(source string, data []byte, f Features) ([]DiskStat, error) {
	var stats []DiskStat
	for _, line := range lines(data) {
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < diskStatMinFields {
			return nil, missing(source, "weighted io millis")
		}
		if f.expects(verDiscardStats) && len(fields) < diskStatMinFields+4 {
			return nil, missing(source, "discard millis")
		}
		if f.expects(verFlushStats) && len(fields) < diskStatMinFields+6 {
			return nil, missing(source, "flush millis")
		}

		var d DiskStat
		maj, err := parseUint(source, "major", fields[0], 32)
		if err != nil {
			return nil, err
		}
		min, err := parseUint(source, "minor", fields[1], 32)
		if err != nil {
			return nil, err
		}
		d.Dev = Dev{Major: uint32(maj), Minor: uint32(min)}
		d.Name = fields[2]

		dsts := []struct {
			name string
			dst  *uint64
		}{
			{"reads completed", &d.ReadsCompleted},
			{"reads merged", &d.ReadsMerged},
			{"sectors read", &d.SectorsRead},
			{"read millis", &d.ReadMillis},
			{"writes completed", &d.WritesCompleted},
			{"writes merged", &d.WritesMerged},
			{"sectors written", &d.SectorsWritten},
			{"write millis", &d.WriteMillis},
			{"ios in progress", &d.IOsInProgress},
			{"io millis", &d.IOMillis},
			{"weighted io millis", &d.WeightedIOMillis},
		}
		for i, fld := range dsts {
			if *fld.dst, err = parseUint(source, fld.name, fields[3+i], 64); err != nil {
				return nil, err
			}
		}

		optional := []struct {
			name string
			dst  **uint64
		}{
			{"discards completed", &d.DiscardsCompleted},
			{"discards merged", &d.DiscardsMerged},
			{"sectors discarded", &d.SectorsDiscarded},
			{"discard millis", &d.DiscardMillis},
			{"flushes completed", &d.FlushesCompleted},
			{"flush millis", &d.FlushMillis},
		}
		for i, fld := range optional {
			if diskStatMinFields+i >= len(fields) {
				break
			}
			v, err := parseUint(source, fld.name, fields[diskStatMinFields+i], 64)
			if err != nil {
				return nil, err
			}
			*fld.dst = &v
		}
		stats = append(stats, d)
	}
	return stats, nil
}
