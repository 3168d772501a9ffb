package proc

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	err := &Error{
		Kind:   KindMalformedField,
		Source: "1/stat",
		Field:  "ppid",
		Err:    errors.New("bad digit"),
	}

	assert.Equal(t, "1/stat: malformed field: field ppid: bad digit", err.Error())
}

func TestError_MessageMinimal(t *testing.T) {
	err := &Error{Kind: KindVanished}
	assert.Equal(t, "vanished", err.Error())
}

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &Error{Kind: KindIoFailure, Err: inner}

	assert.ErrorIs(t, err, inner)
}

func TestKindOf(t *testing.T) {
	err := &Error{Kind: KindUnrecognizedEnumCode, Source: "net/tcp"}

	assert.Equal(t, KindUnrecognizedEnumCode, KindOf(err))
	assert.Equal(t, KindUnrecognizedEnumCode, KindOf(fmt.Errorf("reading table: %w", err)), "wrapping preserves the kind")
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(0), KindOf(nil))
}

func TestIsVanished(t *testing.T) {
	assert.True(t, IsVanished(&Error{Kind: KindVanished, Source: "42/stat"}))
	assert.False(t, IsVanished(&Error{Kind: KindIoFailure}))
	assert.False(t, IsVanished(nil))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "malformed field", KindMalformedField.String())
	assert.Equal(t, "unsupported on this kernel", KindUnsupportedOnKernel.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestOSReader_VanishedClassification(t *testing.T) {
	r := &OSReader{Root: t.TempDir()}

	_, err := r.ReadFile("12345/stat")

	require.Error(t, err)
	assert.True(t, IsVanished(err))
}

func TestOSReader_ReadsRelativeToRoot(t *testing.T) {
	root := t.TempDir()
	r := &OSReader{Root: root}
	writeTestFile(t, root+"/loadavg", "0.00 0.01 0.05 1/100 321\n")

	data, err := r.ReadFile("loadavg")

	require.NoError(t, err)
	assert.Equal(t, "0.00 0.01 0.05 1/100 321\n", string(data))

	names, err := r.ListDir(".")
	require.NoError(t, err)
	assert.Equal(t, []string{"loadavg"}, names)
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
