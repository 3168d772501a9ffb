package snapshot

import (
	"fmt"
	"time"

	"github.com/tklauser/go-sysconf"

	"github.com/mrzor/procsnap/proc"
)

// Environment carries the ambient values conversions depend on: the CPU
// accounting tick rate, the memory page size and the system boot time. It is
// captured once and passed around explicitly so the parsers and derivations
// stay free of process-wide state.
type Environment struct {
	TicksPerSecond uint64
	PageSize       uint64
	BootTime       time.Time
}

// DetectEnvironment queries the operating environment through sysconf and
// the given reader (for /proc/stat's btime).
func DetectEnvironment(r proc.Reader) (Environment, error) {
	clktck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil {
		return Environment{}, fmt.Errorf("querying clock tick rate: %w", err)
	}
	pageSize, err := sysconf.Sysconf(sysconf.SC_PAGESIZE)
	if err != nil {
		return Environment{}, fmt.Errorf("querying page size: %w", err)
	}

	data, err := r.ReadFile("stat")
	if err != nil {
		return Environment{}, err
	}
	ks, err := proc.ParseKernelStat("stat", data)
	if err != nil {
		return Environment{}, err
	}
	return Environment{
		TicksPerSecond: uint64(clktck),
		PageSize:       uint64(pageSize),
		BootTime:       ks.BootTime,
	}, nil
}

// TickDuration converts a raw tick count into a wall-clock duration.
func TickDuration(ticks, ticksPerSecond uint64) time.Duration {
	if ticksPerSecond == 0 {
		return 0
	}
	return time.Duration(ticks) * time.Second / time.Duration(ticksPerSecond)
}

// TimeFromBoot converts a ticks-since-boot value (such as a process start
// time) into an absolute time.
func TimeFromBoot(boot time.Time, ticks, ticksPerSecond uint64) time.Time {
	return boot.Add(TickDuration(ticks, ticksPerSecond))
}

// PagesToBytes converts a page count into bytes. Negative counts (the rss
// field is nominally signed) clamp to zero.
func PagesToBytes(pages int64, pageSize uint64) uint64 {
	if pages < 0 {
		return 0
	}
	return uint64(pages) * pageSize
}
