package snapshot

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/mrzor/procsnap/proc"
)

// Process is one process's assembled view. Each record is an immutable
// decode of a single read; see the package comment for the consistency
// contract between them.
type Process struct {
	PID     int
	Stat    *proc.Stat
	Status  *proc.Status
	Cmdline []string
	Maps    []proc.MemMapEntry
	FDs     []proc.FDInfo
}

// CPUTime is the process's combined user and system time.
func (p *Process) CPUTime(env Environment) time.Duration {
	return TickDuration(p.Stat.UTime+p.Stat.STime, env.TicksPerSecond)
}

// StartedAt is the absolute time the process started.
func (p *Process) StartedAt(env Environment) time.Time {
	return TimeFromBoot(env.BootTime, p.Stat.StartTime, env.TicksPerSecond)
}

// ResidentBytes is the resident set size in bytes.
func (p *Process) ResidentBytes(env Environment) uint64 {
	return PagesToBytes(p.Stat.RSS, env.PageSize)
}

// Collector reads process and system views through a proc.Reader.
type Collector struct {
	reader   proc.Reader
	features proc.Features
}

// NewCollector returns a collector over r. The feature context may be the
// zero value when the kernel version is unknown.
func NewCollector(r proc.Reader, f proc.Features) *Collector {
	return &Collector{reader: r, features: f}
}

// PIDs enumerates the numeric directories of the proc mount, sorted.
func (c *Collector) PIDs() ([]int, error) {
	names, err := c.reader.ListDir(".")
	if err != nil {
		return nil, err
	}
	var pids []int
	for _, name := range names {
		if pid, err := strconv.Atoi(name); err == nil && pid > 0 {
			pids = append(pids, pid)
		}
	}
	sort.Ints(pids)
	return pids, nil
}

// Process assembles the view of one pid. If any individual read reports the
// process as vanished, assembly stops and that error is returned: a
// partially populated view is useless to callers. Structurally malformed
// content is likewise propagated, distinguishable by its error kind.
func (c *Collector) Process(pid int) (*Process, error) {
	dir := strconv.Itoa(pid)
	p := &Process{PID: pid}

	statSrc := dir + "/stat"
	data, err := c.reader.ReadFile(statSrc)
	if err != nil {
		return nil, err
	}
	if p.Stat, err = proc.ParseStat(statSrc, data, c.features); err != nil {
		return nil, err
	}

	statusSrc := dir + "/status"
	if data, err = c.reader.ReadFile(statusSrc); err != nil {
		return nil, err
	}
	if p.Status, err = proc.ParseStatus(statusSrc, data, c.features); err != nil {
		return nil, err
	}

	if data, err = c.reader.ReadFile(dir + "/cmdline"); err != nil {
		return nil, err
	}
	p.Cmdline = proc.ParseNulList(data)

	mapsSrc := dir + "/maps"
	if data, err = c.reader.ReadFile(mapsSrc); err != nil {
		return nil, err
	}
	if p.Maps, err = proc.ParseMaps(mapsSrc, data); err != nil {
		return nil, err
	}

	if p.FDs, err = c.FDTable(pid); err != nil {
		return nil, err
	}
	return p, nil
}

// FDTable reads and classifies one process's file-descriptor table.
// Individual descriptors that close between the directory listing and the
// readlink are skipped; the whole table vanishing is still an error.
func (c *Collector) FDTable(pid int) ([]proc.FDInfo, error) {
	dir := strconv.Itoa(pid) + "/fd"
	names, err := c.reader.ListDir(dir)
	if err != nil {
		return nil, err
	}

	fds := make([]proc.FDInfo, 0, len(names))
	for _, name := range names {
		fd, err := strconv.Atoi(name)
		if err != nil {
			return nil, &proc.Error{
				Kind:   proc.KindMalformedField,
				Source: dir,
				Field:  "fd",
				Err:    fmt.Errorf("unexpected entry %q: %w", name, err),
			}
		}
		source := dir + "/" + name
		target, err := c.reader.ReadLink(source)
		if err != nil {
			if proc.IsVanished(err) {
				continue
			}
			return nil, err
		}
		info, err := proc.ParseFDTarget(source, fd, target)
		if err != nil {
			return nil, err
		}
		fds = append(fds, info)
	}
	sort.Slice(fds, func(i, j int) bool { return fds[i].FD < fds[j].FD })
	return fds, nil
}

// Environ reads and parses one process's environment. It is not part of the
// default Process view because environ is often unreadable without matching
// credentials.
func (c *Collector) Environ(pid int) (map[string]string, error) {
	data, err := c.reader.ReadFile(strconv.Itoa(pid) + "/environ")
	if err != nil {
		return nil, err
	}
	return proc.ParseEnviron(data), nil
}

// Pagemap reads and decodes the pagemap records of one process.
func (c *Collector) Pagemap(pid int) ([]proc.PageInfo, error) {
	source := strconv.Itoa(pid) + "/pagemap"
	data, err := c.reader.ReadFile(source)
	if err != nil {
		return nil, err
	}
	return proc.ParsePagemap(source, data)
}
