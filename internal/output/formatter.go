package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mrzor/procsnap/correlate"
	"github.com/mrzor/procsnap/proc"
	"github.com/mrzor/procsnap/snapshot"
)

// Formatter renders views to a writer.
type Formatter struct {
	w    io.Writer
	json bool
}

// New returns a formatter. With asJSON set, every Print call emits one
// indented JSON document instead of text.
func New(w io.Writer, asJSON bool) *Formatter {
	return &Formatter{w: w, json: asJSON}
}

func (f *Formatter) printJSON(v interface{}) error {
	enc := json.NewEncoder(f.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintProcess renders one process view.
func (f *Formatter) PrintProcess(p *snapshot.Process, env snapshot.Environment) error {
	if f.json {
		return f.printJSON(p)
	}

	fmt.Fprintf(f.w, "pid %d (%s) %s\n", p.PID, p.Stat.Comm, p.Stat.State)
	if len(p.Cmdline) > 0 {
		fmt.Fprintf(f.w, "  cmdline: %s\n", strings.Join(p.Cmdline, " "))
	}
	fmt.Fprintf(f.w, "  parent: %d  pgrp: %d  session: %d", p.Stat.PPID, p.Stat.PGrp, p.Stat.Session)
	if !p.Stat.TTY.IsZero() {
		fmt.Fprintf(f.w, "  tty: %s", p.Stat.TTY)
	}
	fmt.Fprintln(f.w)
	fmt.Fprintf(f.w, "  cpu: %s  started: %s\n",
		p.CPUTime(env), p.StartedAt(env).Format("2006-01-02 15:04:05"))
	fmt.Fprintf(f.w, "  vsize: %d  rss: %d bytes  threads: %d\n",
		p.Stat.VSize, p.ResidentBytes(env), p.Stat.NumThreads)
	fmt.Fprintf(f.w, "  uid: %d  gid: %d\n", p.Status.UIDs[0], p.Status.GIDs[0])
	fmt.Fprintf(f.w, "  mappings: %d  fds: %d\n", len(p.Maps), len(p.FDs))
	return nil
}

// systemReport is the JSON shape of a system view plus its joins.
type systemReport struct {
	System    *snapshot.System        `json:"system"`
	IO        correlate.IOAttribution `json:"io"`
	Ownership *correlate.Ownership    `json:"socket_ownership,omitempty"`
}

// PrintSystem renders the system view with its mount I/O attribution and,
// when present, the process tree and socket ownership join.
func (f *Formatter) PrintSystem(s *snapshot.System, tree *correlate.Tree, own *correlate.Ownership) error {
	attr := correlate.AttributeIO(s.Disks, s.Mounts)
	if f.json {
		return f.printJSON(systemReport{System: s, IO: attr, Ownership: own})
	}

	mi := s.Meminfo
	fmt.Fprintf(f.w, "memory: %d total, %d free", mi.MemTotal, mi.MemFree)
	if mi.MemAvailable != nil {
		fmt.Fprintf(f.w, ", %d available", *mi.MemAvailable)
	}
	fmt.Fprintln(f.w)
	fmt.Fprintf(f.w, "load: %.2f %.2f %.2f (%d/%d entities)\n",
		s.LoadAvg.Load1, s.LoadAvg.Load5, s.LoadAvg.Load15,
		s.LoadAvg.RunnableEntities, s.LoadAvg.TotalEntities)
	fmt.Fprintf(f.w, "boot: %s  processes forked: %d\n",
		s.KernelStat.BootTime.Format("2006-01-02 15:04:05"), s.KernelStat.Processes)

	f.printPressure("cpu", s.CPUPressure)
	f.printPressure("memory", s.MemoryPressure)
	f.printPressure("io", s.IOPressure)

	fmt.Fprintln(f.w, "disk i/o by mountpoint:")
	for _, m := range attr.Mounted {
		fmt.Fprintf(f.w, "  %-20s %-8s reads %d  writes %d\n",
			m.MountPoint, m.FSType, m.Disk.ReadsCompleted, m.Disk.WritesCompleted)
	}
	for _, d := range attr.Unmounted {
		fmt.Fprintf(f.w, "  (unmounted) %-8s %s  reads %d  writes %d\n",
			d.Name, d.Dev, d.ReadsCompleted, d.WritesCompleted)
	}

	if tree != nil {
		fmt.Fprintln(f.w, "process tree:")
		tree.Walk(func(n *correlate.TreeNode, depth int) {
			fmt.Fprintf(f.w, "  %s%d\n", strings.Repeat("  ", depth), n.PID)
		})
		if len(tree.Orphans) > 0 {
			fmt.Fprintf(f.w, "  (%d orphaned)\n", len(tree.Orphans))
		}
	}

	if own != nil {
		fmt.Fprintln(f.w, "sockets by process:")
		pids := make([]int, 0, len(own.ByPID))
		for pid := range own.ByPID {
			pids = append(pids, pid)
		}
		sort.Ints(pids)
		for _, pid := range pids {
			for _, sock := range own.ByPID[pid] {
				fmt.Fprintf(f.w, "  pid %-7d %-5s %-21s %-21s %s\n",
					pid, sock.Protocol, sock.Local, sock.Remote, sock.State)
			}
		}
		for _, sock := range own.Unowned {
			fmt.Fprintf(f.w, "  (unowned)   %-5s %-21s %-21s %s\n",
				sock.Protocol, sock.Local, sock.Remote, sock.State)
		}
	}
	return nil
}

func (f *Formatter) printPressure(name string, p *proc.Pressure) {
	if p == nil {
		return
	}
	fmt.Fprintf(f.w, "%s pressure: some avg10 %.2f%%", name, p.Some.Avg10)
	if p.Full != nil {
		fmt.Fprintf(f.w, ", full avg10 %.2f%%", p.Full.Avg10)
	}
	fmt.Fprintln(f.w)
}
