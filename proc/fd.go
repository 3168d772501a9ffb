package proc

import "strings"

// FDKind classifies what an fd symlink under /proc/[pid]/fd points at.
type FDKind int

const (
	// FDPath is a plain filesystem path.
	FDPath FDKind = iota
	// FDSocket is a "socket:[inode]" target; Inode is set.
	FDSocket
	// FDPipe is a "pipe:[inode]" target; Inode is set.
	FDPipe
	// FDAnon is an "anon_inode:<kind>" target (eventfd, epoll, timerfd...);
	// the kind string is kept in Path.
	FDAnon
)

// FDInfo is one classified entry of a process's file-descriptor table. It is
// built from the already-read symlink target string; reading the link is the
// Reader's job.
type FDInfo struct {
	FD    int
	Kind  FDKind
	Inode uint64
	Path  string
}

// ParseFDTarget classifies a single fd symlink target.
func ParseFDTarget(source string, fd int, target string) (FDInfo, error) {
	info := FDInfo{FD: fd}
	switch {
	case strings.HasPrefix(target, "socket:["):
		inode, err := parseBracketInode(source, "socket inode", target, "socket:[")
		if err != nil {
			return info, err
		}
		info.Kind = FDSocket
		info.Inode = inode
	case strings.HasPrefix(target, "pipe:["):
		inode, err := parseBracketInode(source, "pipe inode", target, "pipe:[")
		if err != nil {
			return info, err
		}
		info.Kind = FDPipe
		info.Inode = inode
	case strings.HasPrefix(target, "anon_inode:"):
		info.Kind = FDAnon
		info.Path = strings.TrimPrefix(target, "anon_inode:")
	default:
		info.Kind = FDPath
		info.Path = target
	}
	return info, nil
}

// SocketInode extracts the inode from a "socket:[inode]" target, reporting
// ok false for any other target shape.
func SocketInode(target string) (inode uint64, ok bool) {
	info, err := ParseFDTarget("", 0, target)
	if err != nil || info.Kind != FDSocket {
		return 0, false
	}
	return info.Inode, true
}

func parseBracketInode(source, field, target, prefix string) (uint64, error) {
	rest := strings.TrimPrefix(target, prefix)
	rest, ok := strings.CutSuffix(rest, "]")
	if !ok {
		return 0, malformedf(source, field, "target %q has no closing bracket", target)
	}
	return parseUint(source, field, rest, 64)
}
