package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statLineFull = "1 (systemd) S 0 1 1 0 -1 4194560 " +
	"1000 2000 10 20 150 70 5 3 20 0 1 0 100 169639936 2786 " +
	"18446744073709551615 1 1 0 0 0 0 0 671173123 4096 1 0 0 " +
	"17 3 0 0 5 0 0 94000000000000 94000000001000 94000000002000 " +
	"140720000000000 140720000000100 140720000000200 140720000000300 0\n"

func TestParseStat_FullLine(t *testing.T) {
	s, err := ParseStat("1/stat", []byte(statLineFull), Features{Kernel: Version{Major: 6, Minor: 1}})

	require.NoError(t, err)
	assert.Equal(t, 1, s.PID)
	assert.Equal(t, "systemd", s.Comm)
	assert.Equal(t, StateSleeping, s.State)
	assert.Equal(t, byte('S'), s.StateCode)
	assert.Equal(t, 0, s.PPID)
	assert.Equal(t, 1, s.PGrp)
	assert.Equal(t, 1, s.Session)
	assert.True(t, s.TTY.IsZero())
	assert.Equal(t, -1, s.TPGID)
	assert.Equal(t, uint32(4194560), s.Flags)
	assert.Equal(t, uint64(150), s.UTime)
	assert.Equal(t, uint64(70), s.STime)
	assert.Equal(t, int64(5), s.CUTime)
	assert.Equal(t, int64(3), s.CSTime)
	assert.Equal(t, int64(20), s.Priority)
	assert.Equal(t, int64(0), s.Nice)
	assert.Equal(t, int64(1), s.NumThreads)
	assert.Equal(t, uint64(100), s.StartTime)
	assert.Equal(t, uint64(169639936), s.VSize)
	assert.Equal(t, int64(2786), s.RSS)
	assert.Equal(t, uint64(18446744073709551615), s.RSSLim)
	assert.Equal(t, uint64(671173123), s.SigIgnore)

	require.NotNil(t, s.ExitSignal)
	assert.Equal(t, int32(17), *s.ExitSignal)
	require.NotNil(t, s.Processor)
	assert.Equal(t, int32(3), *s.Processor)
	require.NotNil(t, s.DelayAcctBlkIOTicks)
	assert.Equal(t, uint64(5), *s.DelayAcctBlkIOTicks)
	require.NotNil(t, s.ArgStart)
	assert.Equal(t, uint64(140720000000000), *s.ArgStart)
	require.NotNil(t, s.ExitCode)
	assert.Equal(t, int32(0), *s.ExitCode)
}

func TestParseStat_ParensInComm(t *testing.T) {
	line := "42 (my (weird) proc) R 1 42 42 0 -1 0 " +
		"0 0 0 0 1 1 0 0 20 0 1 0 50 4096 1 " +
		"0 0 0 0 0 0 0 0 0 0 0 0 0\n"

	s, err := ParseStat("42/stat", []byte(line), Features{})

	require.NoError(t, err)
	assert.Equal(t, 42, s.PID)
	assert.Equal(t, "my (weird) proc", s.Comm)
	assert.Equal(t, StateRunning, s.State)
}

func TestParseStat_MinimalLineUnknownKernel(t *testing.T) {
	// 35 fields after comm, nothing version-gated: fine when the kernel
	// version is unknown.
	line := "7 (kthreadd) S 0 0 0 0 -1 2129984 " +
		"0 0 0 0 0 0 0 0 20 0 1 0 2 0 0 " +
		"18446744073709551615 0 0 0 0 0 0 0 0 0 0 0 0\n"

	s, err := ParseStat("7/stat", []byte(line), Features{})

	require.NoError(t, err)
	assert.Nil(t, s.ExitSignal)
	assert.Nil(t, s.ExitCode)
}

func TestParseStat_MinimalLineModernKernel(t *testing.T) {
	line := "7 (kthreadd) S 0 0 0 0 -1 2129984 " +
		"0 0 0 0 0 0 0 0 20 0 1 0 2 0 0 " +
		"18446744073709551615 0 0 0 0 0 0 0 0 0 0 0 0\n"

	_, err := ParseStat("7/stat", []byte(line), Features{Kernel: Version{Major: 6, Minor: 1}})

	require.Error(t, err, "a 6.x kernel must emit the extended tail")
	assert.Equal(t, KindMissingMandatoryField, KindOf(err))
}

func TestParseStat_TruncatedLine(t *testing.T) {
	_, err := ParseStat("9/stat", []byte("9 (short) S 0 1\n"), Features{})

	require.Error(t, err)
	assert.Equal(t, KindMissingMandatoryField, KindOf(err))
}

func TestParseStat_GarbageField(t *testing.T) {
	line := "1 (bad) S zero 1 1 0 -1 0 " +
		"0 0 0 0 0 0 0 0 20 0 1 0 2 0 0 " +
		"0 0 0 0 0 0 0 0 0 0 0 0 0\n"

	_, err := ParseStat("1/stat", []byte(line), Features{})

	require.Error(t, err)
	assert.Equal(t, KindMalformedField, KindOf(err))

	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "ppid", pe.Field)
}

func TestParseStat_UnknownStateCode(t *testing.T) {
	line := "1 (odd) Q 0 1 1 0 -1 0 " +
		"0 0 0 0 0 0 0 0 20 0 1 0 2 0 0 " +
		"0 0 0 0 0 0 0 0 0 0 0 0 0\n"

	s, err := ParseStat("1/stat", []byte(line), Features{})

	require.NoError(t, err, "new state characters must not break parsing")
	assert.Equal(t, StateUnknown, s.State)
	assert.Equal(t, byte('Q'), s.StateCode)
}

func TestParseStat_TTYDecoded(t *testing.T) {
	// tty_nr 34818 packs pts/2 (136:2).
	line := "100 (bash) S 1 100 100 34818 100 4194304 " +
		"0 0 0 0 0 0 0 0 20 0 1 0 2 0 0 " +
		"0 0 0 0 0 0 0 0 0 0 0 0 0\n"

	s, err := ParseStat("100/stat", []byte(line), Features{})

	require.NoError(t, err)
	assert.Equal(t, Dev{Major: 136, Minor: 2}, s.TTY)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "zombie", StateZombie.String())
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "unknown", StateUnknown.String())
}
