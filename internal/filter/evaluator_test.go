package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrzor/procsnap/proc"
	"github.com/mrzor/procsnap/snapshot"
)

func sampleProcess() *snapshot.Process {
	return &snapshot.Process{
		PID: 42,
		Stat: &proc.Stat{
			PID:        42,
			Comm:       "nginx",
			State:      proc.StateSleeping,
			PPID:       1,
			NumThreads: 4,
			RSS:        256, // pages
		},
		Status: &proc.Status{
			UIDs: [4]uint32{33, 33, 33, 33},
		},
		Cmdline: []string{"nginx", "-g", "daemon off;"},
	}
}

func sampleEnv() snapshot.Environment {
	return snapshot.Environment{TicksPerSecond: 100, PageSize: 4096}
}

func TestEvaluator_MatchByComm(t *testing.T) {
	e, err := New(`comm == "nginx"`)
	require.NoError(t, err)

	matched, err := e.Match(sampleProcess(), sampleEnv())

	require.NoError(t, err)
	assert.True(t, matched)
}

func TestEvaluator_NoMatch(t *testing.T) {
	e, err := New(`comm == "postgres"`)
	require.NoError(t, err)

	matched, err := e.Match(sampleProcess(), sampleEnv())

	require.NoError(t, err)
	assert.False(t, matched)
}

func TestEvaluator_NumericBindings(t *testing.T) {
	e, err := New(`pid == 42 && ppid == 1 && threads >= 4`)
	require.NoError(t, err)

	matched, err := e.Match(sampleProcess(), sampleEnv())

	require.NoError(t, err)
	assert.True(t, matched)
}

func TestEvaluator_RssInBytes(t *testing.T) {
	e, err := New(`rss == 256 * 4096`)
	require.NoError(t, err)

	matched, err := e.Match(sampleProcess(), sampleEnv())

	require.NoError(t, err)
	assert.True(t, matched, "rss binds as bytes, pages times page size")
}

func TestEvaluator_StateAndCmdline(t *testing.T) {
	e, err := New(`state == "sleeping" && cmdline contains "daemon off"`)
	require.NoError(t, err)

	matched, err := e.Match(sampleProcess(), sampleEnv())

	require.NoError(t, err)
	assert.True(t, matched)
}

func TestNew_CompileError(t *testing.T) {
	_, err := New(`comm ==`)
	assert.Error(t, err)
}

func TestNew_NonBooleanExpression(t *testing.T) {
	_, err := New(`pid + 1`)
	assert.Error(t, err, "expressions must evaluate to a boolean")
}

func TestNew_UnknownIdentifier(t *testing.T) {
	_, err := New(`nope == 1`)
	assert.Error(t, err)
}
