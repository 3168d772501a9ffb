package proc

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUint_Overflow(t *testing.T) {
	_, err := parseUint("stat", "flags", "4294967296", 32)

	require.Error(t, err)
	assert.Equal(t, KindMalformedField, KindOf(err))
}

func TestParseUint_Empty(t *testing.T) {
	_, err := parseUint("stat", "flags", "", 32)

	require.Error(t, err)
	assert.Equal(t, KindMissingMandatoryField, KindOf(err))
}

func TestParseInt_Negative(t *testing.T) {
	v, err := parseInt("stat", "nice", "-20", 64)

	require.NoError(t, err)
	assert.Equal(t, int64(-20), v)
}

func TestParseOctalUint(t *testing.T) {
	v, err := parseOctalUint("status", "Umask", "0022")

	require.NoError(t, err)
	assert.Equal(t, uint64(0o022), v)
}

func TestDevFromPacked(t *testing.T) {
	// 136:2 packs into the classic low bits (0x8802).
	assert.Equal(t, Dev{Major: 136, Minor: 2}, devFromPacked(0x8802))

	// Minor numbers above 255 spill into bits 20 and up.
	assert.Equal(t, Dev{Major: 259, Minor: 0x100}, devFromPacked(0x100<<12|259<<8))

	assert.Equal(t, Dev{}, devFromPacked(0))
}

func TestDevString(t *testing.T) {
	assert.Equal(t, "8:16", Dev{Major: 8, Minor: 16}.String())
	assert.True(t, Dev{}.IsZero())
	assert.False(t, Dev{Major: 1}.IsZero())
}

func TestParseDevPair_Decimal(t *testing.T) {
	d, err := parseDevPair("mountinfo", "dev", "259:3", 10)

	require.NoError(t, err)
	assert.Equal(t, Dev{Major: 259, Minor: 3}, d)
}

func TestParseDevPair_Hex(t *testing.T) {
	d, err := parseDevPair("maps", "dev", "fd:01", 16)

	require.NoError(t, err)
	assert.Equal(t, Dev{Major: 0xfd, Minor: 1}, d)
}

func TestParseDevPair_NoColon(t *testing.T) {
	_, err := parseDevPair("mountinfo", "dev", "259", 10)

	require.Error(t, err)
	assert.Equal(t, KindMalformedField, KindOf(err))
}

func TestParseKBValue(t *testing.T) {
	v, err := parseKBValue("meminfo", "MemTotal", "16316980 kB")

	require.NoError(t, err)
	assert.Equal(t, uint64(16316980*1024), v)
}

func TestParseKBValue_Unitless(t *testing.T) {
	v, err := parseKBValue("meminfo", "HugePages_Total", "4")

	require.NoError(t, err)
	assert.Equal(t, uint64(4), v)
}

func TestParseKBValue_WrongUnit(t *testing.T) {
	_, err := parseKBValue("meminfo", "MemTotal", "16 MB")

	require.Error(t, err)
	assert.Equal(t, KindMalformedField, KindOf(err), "unexpected units are never converted silently")
}

func TestParseHexIP_V4LittleEndian(t *testing.T) {
	ip, err := parseHexIP("net/tcp", "local_address", "0100007F")

	require.NoError(t, err)
	assert.Equal(t, net.IPv4(127, 0, 0, 1).To4(), ip)
}

func TestParseHexIP_V6GroupwiseLittleEndian(t *testing.T) {
	// ::1 as the kernel writes it: four little-endian 32-bit groups.
	ip, err := parseHexIP("net/tcp6", "local_address", "00000000000000000000000001000000")

	require.NoError(t, err)
	assert.Equal(t, net.IPv6loopback, ip)
}

func TestParseHexIP_BadLength(t *testing.T) {
	_, err := parseHexIP("net/tcp", "local_address", "007F")

	require.Error(t, err)
	assert.Equal(t, KindMalformedField, KindOf(err))
}

func TestParseHexAddrPort(t *testing.T) {
	ip, port, err := parseHexAddrPort("net/tcp", "local_address", "0100007F:1F90")

	require.NoError(t, err)
	assert.Equal(t, net.IPv4(127, 0, 0, 1).To4(), ip)
	assert.Equal(t, uint16(8080), port)
}
