package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statusBlock = `Name:	nginx
Umask:	0022
State:	S (sleeping)
Tgid:	1234
Ngid:	0
Pid:	1234
PPid:	1
TracerPid:	0
Uid:	33	33	33	33
Gid:	33	33	33	33
FDSize:	64
Groups:	33 100
VmPeak:	   55344 kB
VmSize:	   55344 kB
VmRSS:	    5432 kB
RssAnon:	    1200 kB
RssFile:	    4232 kB
RssShmem:	       0 kB
VmSwap:	       0 kB
Threads:	1
SigQ:	0/62844
SigPnd:	0000000000000000
ShdPnd:	0000000000000000
SigBlk:	0000000000000000
SigIgn:	0000000040001000
SigCgt:	0000000198016a07
CapInh:	0000000000000000
CapPrm:	0000000000000000
CapEff:	0000000000000000
CapBnd:	000001ffffffffff
CapAmb:	0000000000000000
NoNewPrivs:	0
Seccomp:	2
CoreDumping:	0
voluntary_ctxt_switches:	613
nonvoluntary_ctxt_switches:	27
`

func TestParseStatus_Full(t *testing.T) {
	st, err := ParseStatus("1234/status", []byte(statusBlock), Features{Kernel: Version{Major: 6, Minor: 1}})

	require.NoError(t, err)
	assert.Equal(t, "nginx", st.Name)
	assert.Equal(t, StateSleeping, st.State)
	assert.Equal(t, 1234, st.Tgid)
	assert.Equal(t, 1234, st.Pid)
	assert.Equal(t, 1, st.PPid)
	assert.Equal(t, 0, st.TracerPid)
	assert.Equal(t, [4]uint32{33, 33, 33, 33}, st.UIDs)
	assert.Equal(t, [4]uint32{33, 33, 33, 33}, st.GIDs)
	assert.Equal(t, uint64(64), st.FDSize)
	assert.Equal(t, []uint32{33, 100}, st.Groups)
	assert.Equal(t, uint64(1), st.Threads)

	require.NotNil(t, st.Umask)
	assert.Equal(t, uint32(0o022), *st.Umask)

	require.NotNil(t, st.VmRSS)
	assert.Equal(t, uint64(5432*1024), *st.VmRSS, "kB values normalize to bytes")
	require.NotNil(t, st.RssAnon)
	assert.Equal(t, uint64(1200*1024), *st.RssAnon)

	assert.Equal(t, uint64(0), st.SigQPending)
	assert.Equal(t, uint64(62844), st.SigQLimit)
	assert.Equal(t, uint64(0x0000000040001000), st.SigIgn)
	assert.Equal(t, uint64(0x000001ffffffffff), st.CapBnd)

	require.NotNil(t, st.Seccomp)
	assert.Equal(t, 2, *st.Seccomp)
	require.NotNil(t, st.NoNewPrivs)
	assert.False(t, *st.NoNewPrivs)
	require.NotNil(t, st.VoluntaryCtxtSwitches)
	assert.Equal(t, uint64(613), *st.VoluntaryCtxtSwitches)

	// Ngid is not modeled, so it lands in Rest.
	assert.Equal(t, "0", st.Rest["Ngid"])
}

func TestParseStatus_MissingMandatoryKey(t *testing.T) {
	block := "Name:\tx\nState:\tR (running)\nTgid:\t1\nPid:\t1\nPPid:\t0\n" +
		"Uid:\t0\t0\t0\t0\nGid:\t0\t0\t0\t0\nFDSize:\t32\nThreads:\t1\n"

	_, err := ParseStatus("1/status", []byte(block), Features{})

	require.Error(t, err)
	assert.Equal(t, KindMissingMandatoryField, KindOf(err))

	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "TracerPid", pe.Field)
}

func TestParseStatus_BadUidQuad(t *testing.T) {
	block := "Name:\tx\nState:\tR (running)\nTgid:\t1\nPid:\t1\nPPid:\t0\nTracerPid:\t0\n" +
		"Uid:\t0\t0\nGid:\t0\t0\t0\t0\nFDSize:\t32\nThreads:\t1\n"

	_, err := ParseStatus("1/status", []byte(block), Features{})

	require.Error(t, err)
	assert.Equal(t, KindMalformedField, KindOf(err))
}

func TestParseStatus_RssSplitExpectedButAbsent(t *testing.T) {
	block := "Name:\tx\nState:\tR (running)\nTgid:\t1\nPid:\t1\nPPid:\t0\nTracerPid:\t0\n" +
		"Uid:\t0\t0\t0\t0\nGid:\t0\t0\t0\t0\nFDSize:\t32\nVmRSS:\t100 kB\nThreads:\t1\n"

	_, err := ParseStatus("1/status", []byte(block), Features{Kernel: Version{Major: 6, Minor: 1}})

	require.Error(t, err)
	assert.Equal(t, KindMissingMandatoryField, KindOf(err))
}

func TestParseStatus_ZombieSkipsRssSplit(t *testing.T) {
	// Zombies have no memory detail at all; the rss split gate must not
	// fire for them even on modern kernels.
	block := "Name:\tdefunct\nState:\tZ (zombie)\nTgid:\t9\nPid:\t9\nPPid:\t1\nTracerPid:\t0\n" +
		"Uid:\t0\t0\t0\t0\nGid:\t0\t0\t0\t0\nFDSize:\t0\nThreads:\t1\n"

	st, err := ParseStatus("9/status", []byte(block), Features{Kernel: Version{Major: 6, Minor: 1}})

	require.NoError(t, err)
	assert.Equal(t, StateZombie, st.State)
	assert.Nil(t, st.VmRSS)
}

func TestParseStatus_OldKernelTolerated(t *testing.T) {
	// No RssAnon, no Umask, no Seccomp: fine when the kernel is unknown.
	block := "Name:\told\nState:\tS (sleeping)\nTgid:\t5\nPid:\t5\nPPid:\t1\nTracerPid:\t0\n" +
		"Uid:\t0\t0\t0\t0\nGid:\t0\t0\t0\t0\nFDSize:\t32\nVmRSS:\t100 kB\nThreads:\t1\n"

	st, err := ParseStatus("5/status", []byte(block), Features{})

	require.NoError(t, err)
	assert.Nil(t, st.Umask)
	assert.Nil(t, st.RssAnon)
	assert.Nil(t, st.Seccomp)
}
