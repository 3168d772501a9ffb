package correlate

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrzor/procsnap/proc"
)

func sampleTables() SocketTables {
	return SocketTables{
		TCP: []proc.TCPEntry{
			{
				LocalAddr: net.IPv4(127, 0, 0, 1).To4(), LocalPort: 8080,
				RemoteAddr: net.IPv4(0, 0, 0, 0).To4(), RemotePort: 0,
				State: proc.TCPListen, UID: 1000, Inode: 12345,
			},
			{
				LocalAddr: net.IPv4(10, 0, 2, 15).To4(), LocalPort: 22,
				RemoteAddr: net.IPv4(10, 0, 2, 2).To4(), RemotePort: 53924,
				State: proc.TCPEstablished, Inode: 67890,
			},
		},
		UDP: []proc.UDPEntry{
			{
				LocalAddr: net.IPv4(127, 0, 0, 1).To4(), LocalPort: 53,
				RemoteAddr: net.IPv4(0, 0, 0, 0).To4(),
				State:      proc.UDPClose, UID: 101, Inode: 999,
			},
		},
		Unix: []proc.UnixEntry{
			{RefCount: 2, Type: proc.UnixStream, State: proc.UnixListening, Inode: 31024, Path: "/run/app.sock"},
			{RefCount: 1, Type: proc.UnixDgram, State: proc.UnixEstablished, Inode: 0},
		},
	}
}

func TestBuildSocketIndex(t *testing.T) {
	idx := BuildSocketIndex(sampleTables())

	require.Len(t, idx, 4, "inode zero rows are dropped")

	s := idx[12345]
	assert.Equal(t, "tcp", s.Protocol)
	assert.Equal(t, "127.0.0.1:8080", s.Local)
	assert.Equal(t, "0.0.0.0:0", s.Remote)
	assert.Equal(t, "LISTEN", s.State)
	assert.Equal(t, uint32(1000), s.UID)

	s = idx[999]
	assert.Equal(t, "udp", s.Protocol)
	assert.Equal(t, "CLOSE", s.State)

	s = idx[31024]
	assert.Equal(t, "unix", s.Protocol)
	assert.Equal(t, "/run/app.sock", s.Local)
	assert.Equal(t, "", s.Remote)
	assert.Equal(t, "LISTENING", s.State)
}

func TestJoinSocketOwners(t *testing.T) {
	idx := BuildSocketIndex(sampleTables())
	fdTables := map[int][]proc.FDInfo{
		42: {
			{FD: 0, Kind: proc.FDPath, Path: "/dev/null"},
			{FD: 3, Kind: proc.FDSocket, Inode: 12345},
			{FD: 4, Kind: proc.FDPipe, Inode: 777},
		},
		43: {
			{FD: 5, Kind: proc.FDSocket, Inode: 67890},
			{FD: 6, Kind: proc.FDSocket, Inode: 31024},
		},
	}

	own := JoinSocketOwners(idx, fdTables)

	require.Len(t, own.ByPID[42], 1)
	assert.Equal(t, uint64(12345), own.ByPID[42][0].Inode)

	require.Len(t, own.ByPID[43], 2)
	assert.Equal(t, uint64(31024), own.ByPID[43][0].Inode, "per-pid sockets are inode-ordered")
	assert.Equal(t, uint64(67890), own.ByPID[43][1].Inode)

	require.Len(t, own.Unowned, 1)
	assert.Equal(t, uint64(999), own.Unowned[0].Inode)
}

func TestJoinSocketOwners_SharedAfterFork(t *testing.T) {
	idx := BuildSocketIndex(sampleTables())
	fdTables := map[int][]proc.FDInfo{
		42: {{FD: 3, Kind: proc.FDSocket, Inode: 12345}},
		43: {{FD: 3, Kind: proc.FDSocket, Inode: 12345}},
	}

	own := JoinSocketOwners(idx, fdTables)

	assert.Len(t, own.ByPID[42], 1)
	assert.Len(t, own.ByPID[43], 1, "a shared socket appears under every owner")
	for _, s := range own.Unowned {
		assert.NotEqual(t, uint64(12345), s.Inode)
	}
}

func TestJoinSocketOwners_UnknownInodeSkipped(t *testing.T) {
	idx := BuildSocketIndex(sampleTables())
	fdTables := map[int][]proc.FDInfo{
		42: {{FD: 3, Kind: proc.FDSocket, Inode: 55555}},
	}

	own := JoinSocketOwners(idx, fdTables)

	assert.Empty(t, own.ByPID[42], "an fd pointing at a socket the tables never saw has no record to attach")
}

func TestJoinSocketOwners_NoFDTables(t *testing.T) {
	idx := BuildSocketIndex(sampleTables())

	own := JoinSocketOwners(idx, nil)

	assert.Empty(t, own.ByPID)
	assert.Len(t, own.Unowned, len(idx), "everything is unowned")
}
