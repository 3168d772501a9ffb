package correlate

import (
	"fmt"
	"sort"

	"github.com/mrzor/procsnap/proc"
)

// SocketTables bundles the per-transport socket tables read from /proc/net.
// Any slice may be nil when its table was not collected.
type SocketTables struct {
	TCP  []proc.TCPEntry
	TCP6 []proc.TCPEntry
	UDP  []proc.UDPEntry
	UDP6 []proc.UDPEntry
	Unix []proc.UnixEntry
}

// Socket is the transport-independent view of one socket row, enough to
// attribute it to a process and display it.
type Socket struct {
	// Protocol is "tcp", "tcp6", "udp", "udp6" or "unix".
	Protocol string
	// Local and Remote are formatted addr:port endpoints; for unix sockets
	// Local holds the bound path (possibly empty) and Remote is empty.
	Local  string
	Remote string
	State  string
	UID    uint32
	Inode  uint64
}

// SocketIndex maps socket inode numbers to their records across all
// transports. Inodes are unique across the tables, so a collision would mean
// the tables disagree; later tables win, matching read order.
type SocketIndex map[uint64]Socket

// BuildSocketIndex flattens the per-transport tables into an inode-keyed
// index. Rows with inode zero (sockets in closing states that already
// dropped their inode) are skipped since nothing can reference them.
func BuildSocketIndex(tables SocketTables) SocketIndex {
	idx := make(SocketIndex)
	add := func(s Socket) {
		if s.Inode != 0 {
			idx[s.Inode] = s
		}
	}
	for proto, entries := range map[string][]proc.TCPEntry{"tcp": tables.TCP, "tcp6": tables.TCP6} {
		for _, e := range entries {
			add(Socket{
				Protocol: proto,
				Local:    fmt.Sprintf("%s:%d", e.LocalAddr, e.LocalPort),
				Remote:   fmt.Sprintf("%s:%d", e.RemoteAddr, e.RemotePort),
				State:    e.State.String(),
				UID:      e.UID,
				Inode:    e.Inode,
			})
		}
	}
	for proto, entries := range map[string][]proc.UDPEntry{"udp": tables.UDP, "udp6": tables.UDP6} {
		for _, e := range entries {
			add(Socket{
				Protocol: proto,
				Local:    fmt.Sprintf("%s:%d", e.LocalAddr, e.LocalPort),
				Remote:   fmt.Sprintf("%s:%d", e.RemoteAddr, e.RemotePort),
				State:    e.State.String(),
				UID:      e.UID,
				Inode:    e.Inode,
			})
		}
	}
	for _, e := range tables.Unix {
		add(Socket{
			Protocol: "unix",
			Local:    e.Path,
			State:    e.State.String(),
			Inode:    e.Inode,
		})
	}
	return idx
}

// Ownership is the result of joining a socket index against per-process fd
// tables. A socket may appear under several pids (shared after fork), and a
// socket nobody currently owns is kept in Unowned rather than dropped.
type Ownership struct {
	// ByPID maps each pid to the sockets its fd table references, ordered
	// by inode for deterministic output.
	ByPID map[int][]Socket
	// Unowned holds sockets no enumerated process references, ordered by
	// inode.
	Unowned []Socket
}

// JoinSocketOwners attributes each socket in idx to the processes whose fd
// tables reference its inode. fdTables maps pid to that process's classified
// fd entries; non-socket entries are ignored.
func JoinSocketOwners(idx SocketIndex, fdTables map[int][]proc.FDInfo) Ownership {
	own := Ownership{ByPID: make(map[int][]Socket)}
	owned := make(map[uint64]bool)

	for pid, fds := range fdTables {
		for _, fd := range fds {
			if fd.Kind != proc.FDSocket {
				continue
			}
			sock, ok := idx[fd.Inode]
			if !ok {
				// The fd table references an inode the socket tables never
				// saw: the socket appeared between the two reads. There is
				// no record to attribute, so it is skipped.
				continue
			}
			own.ByPID[pid] = append(own.ByPID[pid], sock)
			owned[fd.Inode] = true
		}
	}
	for pid := range own.ByPID {
		socks := own.ByPID[pid]
		sort.Slice(socks, func(i, j int) bool { return socks[i].Inode < socks[j].Inode })
	}

	for inode, sock := range idx {
		if !owned[inode] {
			own.Unowned = append(own.Unowned, sock)
		}
	}
	sort.Slice(own.Unowned, func(i, j int) bool { return own.Unowned[i].Inode < own.Unowned[j].Inode })
	return own
}
