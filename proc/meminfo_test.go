package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const meminfoContent = `MemTotal:       16316980 kB
MemFree:         7553260 kB
MemAvailable:   12208624 kB
Buffers:          310224 kB
Cached:          4754996 kB
SwapCached:            0 kB
Active:          3259036 kB
Inactive:        4425884 kB
SwapTotal:       2097148 kB
SwapFree:        2097148 kB
Dirty:               320 kB
Writeback:             0 kB
AnonPages:       2619704 kB
Mapped:           838604 kB
Shmem:            226732 kB
Slab:             355996 kB
CommitLimit:    10255636 kB
Committed_AS:    9605864 kB
HugePages_Total:       0
HugePages_Free:        0
Hugepagesize:       2048 kB
`

func TestParseMeminfo(t *testing.T) {
	mi, err := ParseMeminfo("meminfo", []byte(meminfoContent), Features{Kernel: Version{Major: 6, Minor: 1}})

	require.NoError(t, err)
	assert.Equal(t, uint64(16316980*1024), mi.MemTotal, "kB values normalize to bytes")
	assert.Equal(t, uint64(7553260*1024), mi.MemFree)
	assert.Equal(t, uint64(9605864*1024), mi.CommittedAS)
	assert.Equal(t, uint64(355996*1024), mi.Slab)

	require.NotNil(t, mi.MemAvailable)
	assert.Equal(t, uint64(12208624*1024), *mi.MemAvailable)

	assert.Equal(t, uint64(0), mi.All["HugePages_Total"], "unitless counters stay raw")
	assert.Equal(t, uint64(2048*1024), mi.All["Hugepagesize"])
}

func TestParseMeminfo_MissingMandatoryKey(t *testing.T) {
	_, err := ParseMeminfo("meminfo", []byte("MemFree: 100 kB\n"), Features{})

	require.Error(t, err)
	assert.Equal(t, KindMissingMandatoryField, KindOf(err))

	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "MemTotal", pe.Field)
}

func TestParseMeminfo_MemAvailableGated(t *testing.T) {
	content := []byte(`MemTotal: 100 kB
MemFree: 50 kB
Buffers: 0 kB
Cached: 0 kB
SwapCached: 0 kB
Active: 0 kB
Inactive: 0 kB
SwapTotal: 0 kB
SwapFree: 0 kB
Dirty: 0 kB
Writeback: 0 kB
AnonPages: 0 kB
Mapped: 0 kB
Shmem: 0 kB
Slab: 0 kB
CommitLimit: 0 kB
Committed_AS: 0 kB
`)

	mi, err := ParseMeminfo("meminfo", content, Features{Kernel: Version{Major: 3, Minor: 10}})
	require.NoError(t, err, "a 3.10 kernel has no MemAvailable")
	assert.Nil(t, mi.MemAvailable)

	_, err = ParseMeminfo("meminfo", content, Features{Kernel: Version{Major: 6, Minor: 1}})
	require.Error(t, err, "a 6.x kernel must emit MemAvailable")
	assert.Equal(t, KindMissingMandatoryField, KindOf(err))
}

func TestParseMeminfo_WrongUnit(t *testing.T) {
	_, err := ParseMeminfo("meminfo", []byte("MemTotal: 16 GB\n"), Features{})

	require.Error(t, err)
	assert.Equal(t, KindMalformedField, KindOf(err))
}
