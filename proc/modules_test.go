package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const modulesContent = `nf_conntrack 172032 2 nf_nat,xt_conntrack, Live 0xffffffffc0a40000
xt_conntrack 16384 1 - Live 0xffffffffc09e3000
dm_mod 184320 0 - Unloading 0xffffffffc0100000
`

func TestParseModules(t *testing.T) {
	modules, err := ParseModules("modules", []byte(modulesContent))

	require.NoError(t, err)
	require.Len(t, modules, 3)

	m := modules[0]
	assert.Equal(t, "nf_conntrack", m.Name)
	assert.Equal(t, uint64(172032), m.Size)
	assert.Equal(t, uint64(2), m.Refcount)
	assert.Equal(t, []string{"nf_nat", "xt_conntrack"}, m.UsedBy, "trailing comma is dropped")
	assert.Equal(t, ModuleLive, m.State)
	assert.Equal(t, uint64(0xffffffffc0a40000), m.Offset)

	assert.Nil(t, modules[1].UsedBy, `"-" means no dependents`)
	assert.Equal(t, ModuleUnloading, modules[2].State)
}

func TestParseModules_UnknownState(t *testing.T) {
	row := "foo 4096 0 - Weird 0xffffffffc0000000\n"

	modules, err := ParseModules("modules", []byte(row))

	require.NoError(t, err, "new state words must not break parsing")
	assert.Equal(t, ModuleStateUnknown, modules[0].State)
	assert.Equal(t, "Weird", modules[0].RawState)
	assert.Equal(t, "Unknown", modules[0].State.String())
}

func TestParseModules_ShortRow(t *testing.T) {
	_, err := ParseModules("modules", []byte("foo 4096 0\n"))

	require.Error(t, err)
	assert.Equal(t, KindMissingMandatoryField, KindOf(err))
}
