package binding_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Relics97/ControllerEmulator/binding"
	"github.com/Relics97/ControllerEmulator/device/xbox360"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	tbl := binding.Default()
	assert.Equal(t, len(binding.DefaultBindings), tbl.Len())

	tests := []struct {
		in   binding.Input
		want binding.Action
	}{
		{in: "space", want: binding.ButtonAction(xbox360.ButtonA)},
		{in: "tab", want: binding.ButtonAction(xbox360.ButtonBack)},
		{in: "alt_l", want: binding.ButtonAction(xbox360.ButtonDPadDown)},
		{in: "w", want: binding.DirectionAction(binding.DirUp)},
		{in: "d", want: binding.DirectionAction(binding.DirRight)},
		{in: "mouse_left", want: binding.TriggerAction(binding.SideRight)},
		{in: "mouse_right", want: binding.TriggerAction(binding.SideLeft)},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			got, ok := tbl.Lookup(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := tbl.Lookup("t")
	assert.False(t, ok, "toggle key must not be bound by default")
}

func TestNewTableRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]string
	}{
		{name: "unknown input", raw: map[string]string{"hyperkey": "a"}},
		{name: "unknown action", raw: map[string]string{"w": "jump"}},
		{name: "duplicate after normalizing", raw: map[string]string{"W": "a", "w": "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := binding.NewTable(tt.raw)
			assert.ErrorIs(t, err, binding.ErrInvalidBinding)
		})
	}
}

func TestNilTable(t *testing.T) {
	var tbl *binding.Table
	_, ok := tbl.Lookup("w")
	assert.False(t, ok)
	assert.Zero(t, tbl.Len())
	assert.Empty(t, tbl.Map())
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name   string
		format string
		data   string
	}{
		{name: "yaml", format: "yaml", data: "w: move_up\nspace: a\nmouse_left: rt\n"},
		{name: "toml", format: "toml", data: "w = \"move_up\"\nspace = \"a\"\nmouse_left = \"rt\"\n"},
		{name: "json", format: "json", data: `{"w":"move_up","space":"a","mouse_left":"rt"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := binding.Parse([]byte(tt.data), tt.format)
			require.NoError(t, err)
			assert.Equal(t, map[string]string{"w": "move_up", "space": "a", "mouse_left": "rt"}, tbl.Map())
		})
	}
}

func TestParseRejectsNonStringAction(t *testing.T) {
	_, err := binding.Parse([]byte("w: 3\n"), "yaml")
	assert.ErrorIs(t, err, binding.ErrInvalidBinding)

	_, err = binding.Parse([]byte("w: [\n"), "yaml")
	assert.ErrorIs(t, err, binding.ErrInvalidBinding)
}

func TestLoadAndMarshal(t *testing.T) {
	dir := t.TempDir()
	for _, format := range []string{"yaml", "toml", "json"} {
		t.Run(format, func(t *testing.T) {
			data, err := binding.Marshal(binding.Default(), format)
			require.NoError(t, err)

			path := filepath.Join(dir, "bindings."+format)
			require.NoError(t, os.WriteFile(path, data, 0o644))

			tbl, err := binding.Load(path)
			require.NoError(t, err)
			assert.Equal(t, binding.DefaultBindings, tbl.Map())
		})
	}
}

func TestKeyCodes(t *testing.T) {
	code, ok := binding.Code("w")
	require.True(t, ok)
	assert.Equal(t, uint16(17), code)

	in, ok := binding.InputForCode(0x110)
	require.True(t, ok)
	assert.Equal(t, binding.Input("mouse_left"), in)

	_, ok = binding.InputForCode(0xffff)
	assert.False(t, ok)
}
