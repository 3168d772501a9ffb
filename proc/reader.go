package proc

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Reader supplies raw content from a proc mount. Implementations must
// classify failures: a path that existed at enumeration time but is gone at
// read time yields a *Error with KindVanished, anything else KindIoFailure.
//
// The parsers in this package never read files themselves; a Reader is how
// the snapshot layer feeds them.
type Reader interface {
	// ReadFile returns the full content of the named file, relative to the
	// proc mount root.
	ReadFile(name string) ([]byte, error)
	// ReadLink returns the target of the named symlink.
	ReadLink(name string) (string, error)
	// ListDir returns the entry names of the named directory.
	ListDir(name string) ([]string, error)
}

// OSReader reads from a procfs mount on the local filesystem.
type OSReader struct {
	// Root is the mount point, normally /proc.
	Root string
}

// NewOSReader returns a reader over the standard /proc mount.
func NewOSReader() *OSReader { return &OSReader{Root: "/proc"} }

func (r *OSReader) path(name string) string { return filepath.Join(r.Root, name) }

func (r *OSReader) ReadFile(name string) ([]byte, error) {
	b, err := os.ReadFile(r.path(name))
	if err != nil {
		return nil, classifyReadError(name, err)
	}
	return b, nil
}

func (r *OSReader) ReadLink(name string) (string, error) {
	target, err := os.Readlink(r.path(name))
	if err != nil {
		return "", classifyReadError(name, err)
	}
	return target, nil
}

func (r *OSReader) ListDir(name string) ([]string, error) {
	entries, err := os.ReadDir(r.path(name))
	if err != nil {
		return nil, classifyReadError(name, err)
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

// classifyReadError distinguishes "the subject is gone" from other I/O
// failures. Reads under /proc/[pid] fail with ENOENT once the directory is
// gone, or ESRCH when the file was opened before the process exited.
func classifyReadError(source string, err error) *Error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, unix.ESRCH) {
		return &Error{Kind: KindVanished, Source: source, Err: err}
	}
	return &Error{Kind: KindIoFailure, Source: source, Err: err}
}
