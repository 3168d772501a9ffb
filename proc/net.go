package proc

import (
	"fmt"
	"net"
	"strings"
)

// TCPState is the kernel's TCP state machine. The enumeration is closed and
// stable, so an unknown code is a parse error rather than a residual.
type TCPState int

const (
	TCPEstablished TCPState = iota + 1
	TCPSynSent
	TCPSynRecv
	TCPFinWait1
	TCPFinWait2
	TCPTimeWait
	TCPClose
	TCPCloseWait
	TCPLastAck
	TCPListen
	TCPClosing
	TCPNewSynRecv
)

var tcpStateNames = map[TCPState]string{
	TCPEstablished: "ESTABLISHED",
	TCPSynSent:     "SYN_SENT",
	TCPSynRecv:     "SYN_RECV",
	TCPFinWait1:    "FIN_WAIT1",
	TCPFinWait2:    "FIN_WAIT2",
	TCPTimeWait:    "TIME_WAIT",
	TCPClose:       "CLOSE",
	TCPCloseWait:   "CLOSE_WAIT",
	TCPLastAck:     "LAST_ACK",
	TCPListen:      "LISTEN",
	TCPClosing:     "CLOSING",
	TCPNewSynRecv:  "NEW_SYN_RECV",
}

func (s TCPState) String() string {
	if name, ok := tcpStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("TCPState(%d)", int(s))
}

// tcpStateFromCode maps the two-hex-digit state column (01..0C).
func tcpStateFromCode(source string, code uint64) (TCPState, error) {
	if code < 1 || code > uint64(TCPNewSynRecv) {
		return 0, badEnum(source, "st", fmt.Sprintf("%02X", code))
	}
	return TCPState(code), nil
}

// UDPState is the state column of the UDP tables. UDP sockets only report
// established (connected) and close (unconnected).
type UDPState int

const (
	UDPEstablished UDPState = 1
	UDPClose       UDPState = 7
)

func (s UDPState) String() string {
	switch s {
	case UDPEstablished:
		return "ESTABLISHED"
	case UDPClose:
		return "CLOSE"
	default:
		return fmt.Sprintf("UDPState(%d)", int(s))
	}
}

// UnixState is the state column of /proc/net/unix.
type UnixState int

const (
	UnixEstablished UnixState = 1
	UnixListening   UnixState = 3
)

func (s UnixState) String() string {
	switch s {
	case UnixEstablished:
		return "ESTABLISHED"
	case UnixListening:
		return "LISTENING"
	default:
		return fmt.Sprintf("UnixState(%d)", int(s))
	}
}

// UnixSockType is the socket type column of /proc/net/unix.
type UnixSockType int

const (
	UnixStream    UnixSockType = 1
	UnixDgram     UnixSockType = 2
	UnixSeqpacket UnixSockType = 5
)

// TCPEntry is one row of /proc/net/tcp or tcp6.
type TCPEntry struct {
	LocalAddr  net.IP
	LocalPort  uint16
	RemoteAddr net.IP
	RemotePort uint16
	State      TCPState
	TXQueue    uint64
	RXQueue    uint64
	UID        uint32
	Inode      uint64
}

// UDPEntry is one row of /proc/net/udp or udp6.
type UDPEntry struct {
	LocalAddr  net.IP
	LocalPort  uint16
	RemoteAddr net.IP
	RemotePort uint16
	State      UDPState
	TXQueue    uint64
	RXQueue    uint64
	UID        uint32
	Inode      uint64
}

// UnixEntry is one row of /proc/net/unix. Path is empty for unbound sockets
// and starts with '@' for abstract addresses.
type UnixEntry struct {
	RefCount uint64
	Flags    uint64
	Type     UnixSockType
	State    UnixState
	Inode    uint64
	Path     string
}

// netRowMinFields covers sl through inode in the tcp/udp tables.
const netRowMinFields = 10

// ParseTCP parses a /proc/net/tcp or tcp6 table, header line included.
// An unassigned state code (such as FF) is an UnrecognizedEnumCode error
// because the TCP state enumeration is closed.
func ParseTCP(source string, data []byte) ([]TCPEntry, error) {
	var entries []TCPEntry
	err := eachNetRow(source, data, func(fields []string) error {
		var e TCPEntry
		var err error
		if e.LocalAddr, e.LocalPort, err = parseHexAddrPort(source, "local_address", fields[1]); err != nil {
			return err
		}
		if e.RemoteAddr, e.RemotePort, err = parseHexAddrPort(source, "rem_address", fields[2]); err != nil {
			return err
		}
		code, err := parseHexUint(source, "st", fields[3], 8)
		if err != nil {
			return err
		}
		if e.State, err = tcpStateFromCode(source, code); err != nil {
			return err
		}
		if e.TXQueue, e.RXQueue, err = parseQueuePair(source, fields[4]); err != nil {
			return err
		}
		uid, err := parseUint(source, "uid", fields[7], 32)
		if err != nil {
			return err
		}
		e.UID = uint32(uid)
		if e.Inode, err = parseUint(source, "inode", fields[9], 64); err != nil {
			return err
		}
		entries = append(entries, e)
		return nil
	})
	return entries, err
}

// ParseUDP parses a /proc/net/udp or udp6 table. An unknown state code is
// preserved in the entry rather than rejected: the UDP column reuses the TCP
// numbering and has historically been laxer.
func ParseUDP(source string, data []byte) ([]UDPEntry, error) {
	var entries []UDPEntry
	err := eachNetRow(source, data, func(fields []string) error {
		var e UDPEntry
		var err error
		if e.LocalAddr, e.LocalPort, err = parseHexAddrPort(source, "local_address", fields[1]); err != nil {
			return err
		}
		if e.RemoteAddr, e.RemotePort, err = parseHexAddrPort(source, "rem_address", fields[2]); err != nil {
			return err
		}
		code, err := parseHexUint(source, "st", fields[3], 8)
		if err != nil {
			return err
		}
		e.State = UDPState(code)
		if e.TXQueue, e.RXQueue, err = parseQueuePair(source, fields[4]); err != nil {
			return err
		}
		uid, err := parseUint(source, "uid", fields[7], 32)
		if err != nil {
			return err
		}
		e.UID = uint32(uid)
		if e.Inode, err = parseUint(source, "inode", fields[9], 64); err != nil {
			return err
		}
		entries = append(entries, e)
		return nil
	})
	return entries, err
}

// unixRowMinFields covers Num through Inode; the Path column is optional.
const unixRowMinFields = 7

// ParseUnix parses /proc/net/unix, header line included.
func ParseUnix(source string, data []byte) ([]UnixEntry, error) {
	ls := lines(data)
	if len(ls) == 0 {
		return nil, missing(source, "header")
	}
	var entries []UnixEntry
	for _, line := range ls[1:] {
		if line == "" {
			continue
		}
		fields := splitFieldsN(line, 8)
		if len(fields) < unixRowMinFields {
			return nil, missing(source, "inode")
		}
		var e UnixEntry
		var err error
		if e.RefCount, err = parseHexUint(source, "refcount", fields[1], 64); err != nil {
			return nil, err
		}
		if e.Flags, err = parseHexUint(source, "flags", fields[3], 64); err != nil {
			return nil, err
		}
		typ, err := parseHexUint(source, "type", fields[4], 16)
		if err != nil {
			return nil, err
		}
		e.Type = UnixSockType(typ)
		st, err := parseHexUint(source, "st", fields[5], 8)
		if err != nil {
			return nil, err
		}
		e.State = UnixState(st)
		if e.Inode, err = parseUint(source, "inode", fields[6], 64); err != nil {
			return nil, err
		}
		if len(fields) == 8 {
			e.Path = strings.TrimSpace(fields[7])
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// eachNetRow iterates the data rows of a tcp/udp style table, skipping the
// header and validating the minimum column count. Extra trailing columns are
// tolerated for forward compatibility.
func eachNetRow(source string, data []byte, fn func(fields []string) error) error {
	ls := lines(data)
	if len(ls) == 0 {
		return missing(source, "header")
	}
	for _, line := range ls[1:] {
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < netRowMinFields {
			return missing(source, "inode")
		}
		if err := fn(fields); err != nil {
			return err
		}
	}
	return nil
}

// parseQueuePair splits the "tx_queue:rx_queue" hex pair.
func parseQueuePair(source, tok string) (tx, rx uint64, err error) {
	txStr, rxStr, ok := strings.Cut(tok, ":")
	if !ok {
		return 0, 0, malformedf(source, "tx_queue:rx_queue", "%q is not a queue pair", tok)
	}
	if tx, err = parseHexUint(source, "tx_queue", txStr, 64); err != nil {
		return 0, 0, err
	}
	if rx, err = parseHexUint(source, "rx_queue", rxStr, 64); err != nil {
		return 0, 0, err
	}
	return tx, rx, nil
}
