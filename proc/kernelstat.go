package proc

import (
	"strconv"
	"strings"
	"time"
)

// CPUTicks is one cpu line of /proc/stat. All values are raw ticks; the
// columns past softirq appeared gradually (steal 2.6.11, guest 2.6.24,
// guest_nice 2.6.33) and read as zero rather than absent, matching the
// kernel's own padding.
type CPUTicks struct {
	User      uint64
	Nice      uint64
	System    uint64
	Idle      uint64
	IOWait    uint64
	IRQ       uint64
	SoftIRQ   uint64
	Steal     uint64
	Guest     uint64
	GuestNice uint64
}

// KernelStat is the parsed system-wide /proc/stat file.
type KernelStat struct {
	Total CPUTicks
	// PerCPU is indexed by cpu number; gaps from offlined cpus stay zero.
	PerCPU []CPUTicks

	ContextSwitches uint64
	BootTime        time.Time
	Processes       uint64
	ProcsRunning    uint64
	ProcsBlocked    uint64
}

// ParseKernelStat parses system-wide /proc/stat content. Unknown line keys
// (intr, softirq, newer additions) are skipped for forward compatibility.
func ParseKernelStat(source string, data []byte) (*KernelStat, error) {
	ks := &KernelStat{}
	var sawCPU bool
	for _, line := range lines(data) {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		key := fields[0]
		switch {
		case key == "cpu":
			ticks, err := parseCPUTicks(source, fields[1:])
			if err != nil {
				return nil, err
			}
			ks.Total = ticks
			sawCPU = true
		case strings.HasPrefix(key, "cpu"):
			n, err := strconv.Atoi(strings.TrimPrefix(key, "cpu"))
			if err != nil || n < 0 {
				return nil, malformedf(source, "cpu", "bad cpu line key %q", key)
			}
			ticks, err := parseCPUTicks(source, fields[1:])
			if err != nil {
				return nil, err
			}
			for len(ks.PerCPU) <= n {
				ks.PerCPU = append(ks.PerCPU, CPUTicks{})
			}
			ks.PerCPU[n] = ticks
		case key == "ctxt":
			v, err := parseUint(source, "ctxt", fields[1], 64)
			if err != nil {
				return nil, err
			}
			ks.ContextSwitches = v
		case key == "btime":
			v, err := parseInt(source, "btime", fields[1], 64)
			if err != nil {
				return nil, err
			}
			ks.BootTime = time.Unix(v, 0)
		case key == "processes":
			v, err := parseUint(source, "processes", fields[1], 64)
			if err != nil {
				return nil, err
			}
			ks.Processes = v
		case key == "procs_running":
			v, err := parseUint(source, "procs_running", fields[1], 64)
			if err != nil {
				return nil, err
			}
			ks.ProcsRunning = v
		case key == "procs_blocked":
			v, err := parseUint(source, "procs_blocked", fields[1], 64)
			if err != nil {
				return nil, err
			}
			ks.ProcsBlocked = v
		}
	}
	if !sawCPU {
		return nil, missing(source, "cpu")
	}
	if ks.BootTime.IsZero() {
		return nil, missing(source, "btime")
	}
	return ks, nil
}

func parseCPUTicks(source string, fields []string) (CPUTicks, error) {
	var t CPUTicks
	dsts := []*uint64{
		&t.User, &t.Nice, &t.System, &t.Idle, &t.IOWait,
		&t.IRQ, &t.SoftIRQ, &t.Steal, &t.Guest, &t.GuestNice,
	}
	if len(fields) < 4 {
		return t, missing(source, "idle")
	}
	for i, dst := range dsts {
		if i >= len(fields) {
			break
		}
		v, err := parseUint(source, "cpu ticks", fields[i], 64)
		if err != nil {
			return t, err
		}
		*dst = v
	}
	return t, nil
}
