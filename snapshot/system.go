package snapshot

import (
	"strconv"

	"github.com/mrzor/procsnap/correlate"
	"github.com/mrzor/procsnap/proc"
)

// System is a whole-machine view assembled from the system-wide proc files.
// Fields for files the kernel does not expose (pressure without CONFIG_PSI,
// crypto without the API compiled in) are left nil rather than failing the
// whole assembly.
type System struct {
	KernelStat *proc.KernelStat
	Meminfo    *proc.Meminfo
	LoadAvg    *proc.LoadAvg

	Disks  []proc.DiskStat
	Mounts []proc.Mount

	CPUPressure    *proc.Pressure
	MemoryPressure *proc.Pressure
	IOPressure     *proc.Pressure

	Modules []proc.Module
	Crypto  []proc.CryptoBlock

	Sockets correlate.SocketTables
}

// System assembles a whole-machine view. The mandatory files (stat, meminfo,
// loadavg, diskstats, mountinfo) must parse; optional subsystems missing
// from this kernel are skipped.
func (c *Collector) System() (*System, error) {
	s := &System{}

	data, err := c.reader.ReadFile("stat")
	if err != nil {
		return nil, err
	}
	if s.KernelStat, err = proc.ParseKernelStat("stat", data); err != nil {
		return nil, err
	}

	if data, err = c.reader.ReadFile("meminfo"); err != nil {
		return nil, err
	}
	if s.Meminfo, err = proc.ParseMeminfo("meminfo", data, c.features); err != nil {
		return nil, err
	}

	if data, err = c.reader.ReadFile("loadavg"); err != nil {
		return nil, err
	}
	if s.LoadAvg, err = proc.ParseLoadAvg("loadavg", data); err != nil {
		return nil, err
	}

	if data, err = c.reader.ReadFile("diskstats"); err != nil {
		return nil, err
	}
	if s.Disks, err = proc.ParseDiskStats("diskstats", data, c.features); err != nil {
		return nil, err
	}

	// The self mountinfo shows the collector's own mount namespace, the
	// closest system-wide table procfs offers.
	if data, err = c.reader.ReadFile("self/mountinfo"); err != nil {
		return nil, err
	}
	if s.Mounts, err = proc.ParseMountInfo("self/mountinfo", data); err != nil {
		return nil, err
	}

	for _, kind := range []string{"cpu", "memory", "io"} {
		p, err := c.Pressure(kind)
		if err != nil {
			if k := proc.KindOf(err); k == proc.KindVanished || k == proc.KindUnsupportedOnKernel {
				continue
			}
			return nil, err
		}
		switch kind {
		case "cpu":
			s.CPUPressure = p
		case "memory":
			s.MemoryPressure = p
		case "io":
			s.IOPressure = p
		}
	}

	if data, err = c.reader.ReadFile("modules"); err == nil {
		if s.Modules, err = proc.ParseModules("modules", data); err != nil {
			return nil, err
		}
	} else if !proc.IsVanished(err) {
		return nil, err
	}

	if data, err = c.reader.ReadFile("crypto"); err == nil {
		if s.Crypto, err = proc.ParseCrypto("crypto", data); err != nil {
			return nil, err
		}
	} else if !proc.IsVanished(err) {
		return nil, err
	}

	if s.Sockets, err = c.SocketTables(); err != nil {
		return nil, err
	}
	return s, nil
}

// Pressure reads one /proc/pressure file. On kernels known to predate
// pressure stall information the read is not attempted and the error kind is
// UnsupportedOnKernel, distinct from the file merely being absent.
func (c *Collector) Pressure(kind string) (*proc.Pressure, error) {
	source := "pressure/" + kind
	if unsupported := c.features.PressureUnsupported(); unsupported {
		return nil, &proc.Error{Kind: proc.KindUnsupportedOnKernel, Source: source}
	}
	data, err := c.reader.ReadFile(source)
	if err != nil {
		return nil, err
	}
	return proc.ParsePressure(source, data, c.features)
}

// SocketTables reads every /proc/net socket table. Tables the kernel does
// not expose (no IPv6, say) are left nil.
func (c *Collector) SocketTables() (correlate.SocketTables, error) {
	var t correlate.SocketTables

	readTCP := func(name string, dst *[]proc.TCPEntry) error {
		data, err := c.reader.ReadFile("net/" + name)
		if err != nil {
			if proc.IsVanished(err) {
				return nil
			}
			return err
		}
		*dst, err = proc.ParseTCP("net/"+name, data)
		return err
	}
	readUDP := func(name string, dst *[]proc.UDPEntry) error {
		data, err := c.reader.ReadFile("net/" + name)
		if err != nil {
			if proc.IsVanished(err) {
				return nil
			}
			return err
		}
		*dst, err = proc.ParseUDP("net/"+name, data)
		return err
	}

	if err := readTCP("tcp", &t.TCP); err != nil {
		return t, err
	}
	if err := readTCP("tcp6", &t.TCP6); err != nil {
		return t, err
	}
	if err := readUDP("udp", &t.UDP); err != nil {
		return t, err
	}
	if err := readUDP("udp6", &t.UDP6); err != nil {
		return t, err
	}

	data, err := c.reader.ReadFile("net/unix")
	if err != nil {
		if proc.IsVanished(err) {
			return t, nil
		}
		return t, err
	}
	if t.Unix, err = proc.ParseUnix("net/unix", data); err != nil {
		return t, err
	}
	return t, nil
}

// FDTables reads and classifies the fd tables of the given pids, skipping
// processes that vanish while iterating. The result feeds
// correlate.JoinSocketOwners.
func (c *Collector) FDTables(pids []int) (map[int][]proc.FDInfo, error) {
	tables := make(map[int][]proc.FDInfo, len(pids))
	for _, pid := range pids {
		fds, err := c.FDTable(pid)
		if err != nil {
			if proc.IsVanished(err) {
				continue
			}
			return nil, err
		}
		tables[pid] = fds
	}
	return tables, nil
}

// ParentPIDs reads the stat file of each pid and returns the pid→parent
// mapping that feeds correlate.BuildTree. Processes that vanish while
// iterating are skipped; the tree build tolerates the resulting gaps.
func (c *Collector) ParentPIDs(pids []int) (map[int]int, error) {
	parents := make(map[int]int, len(pids))
	for _, pid := range pids {
		source := strconv.Itoa(pid) + "/stat"
		data, err := c.reader.ReadFile(source)
		if err != nil {
			if proc.IsVanished(err) {
				continue
			}
			return nil, err
		}
		st, err := proc.ParseStat(source, data, c.features)
		if err != nil {
			return nil, err
		}
		parents[pid] = st.PPID
	}
	return parents, nil
}
