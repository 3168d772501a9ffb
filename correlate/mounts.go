package correlate

import (
	"sort"

	"github.com/mrzor/procsnap/proc"
)

// MountIO attributes one disk's statistics to a mountpoint.
type MountIO struct {
	MountPoint string
	FSType     string
	Disk       proc.DiskStat
}

// IOAttribution is the join of diskstats against the mount table. Devices
// with no matching mount (raw partitions, device-mapper members) are kept in
// Unmounted rather than dropped.
type IOAttribution struct {
	Mounted   []MountIO
	Unmounted []proc.DiskStat
}

// AttributeIO joins disk statistics to mountpoints by (major, minor) device
// number. When the same device backs several mounts (bind mounts), the mount
// with the lowest mount id, i.e. the earliest attached, wins.
func AttributeIO(disks []proc.DiskStat, mounts []proc.Mount) IOAttribution {
	byDev := make(map[proc.Dev]proc.Mount, len(mounts))
	for _, m := range mounts {
		if existing, ok := byDev[m.Dev]; !ok || m.MountID < existing.MountID {
			byDev[m.Dev] = m
		}
	}

	var out IOAttribution
	for _, d := range disks {
		if m, ok := byDev[d.Dev]; ok {
			out.Mounted = append(out.Mounted, MountIO{
				MountPoint: m.MountPoint,
				FSType:     m.FSType,
				Disk:       d,
			})
		} else {
			out.Unmounted = append(out.Unmounted, d)
		}
	}
	sort.Slice(out.Mounted, func(i, j int) bool { return out.Mounted[i].MountPoint < out.Mounted[j].MountPoint })
	return out
}
