//go:build !(cgo && xkbcommon)

package keymap_test

import (
	"testing"

	"deedles.dev/wlkbd/keymap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	t.Setenv("XKB_CONFIG_ROOT", fakeXKB(t))

	tests := []struct {
		name     string
		names    keymap.Names
		keycodes string
		symbols  string
	}{
		{
			name:     "Default",
			names:    keymap.DefaultNames(keymap.EnglishUs),
			keycodes: `include "evdev+aliases(qwerty)"`,
			symbols:  `include "pc+us+inet(evdev)"`,
		},
		{
			name: "Variant",
			names: keymap.Names{
				Rules:   "evdev",
				Model:   "pc104",
				Layout:  keymap.EnglishUs,
				Variant: "dvorak",
				Options: []string{"ctrl:nocaps", "bogus", "compose:ralt"},
			},
			keycodes: `include "evdev+aliases(qwerty)"`,
			symbols:  `include "pc+us(dvorak)+inet(evdev)+ctrl(nocaps)+compose(ralt)"`,
		},
		{
			name:     "Azerty",
			names:    keymap.DefaultNames(keymap.French),
			keycodes: `include "evdev+aliases(azerty)"`,
			symbols:  `include "pc+fr+inet(evdev)"`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			km, err := keymap.Compile(test.names)
			require.NoError(t, err)

			text := km.String()
			assert.Contains(t, text, "xkb_keymap {")
			assert.Contains(t, text, test.keycodes)
			assert.Contains(t, text, test.symbols)
			assert.Contains(t, text, `xkb_types     { include "complete" };`)
		})
	}
}

func TestCompileMissing(t *testing.T) {
	t.Setenv("XKB_CONFIG_ROOT", fakeXKB(t))

	names := keymap.DefaultNames(keymap.German)
	names.Variant = "colemak"
	_, err := keymap.Compile(names)
	var lerr keymap.UnsupportedLayoutError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "de", lerr.Layout)
	assert.Equal(t, "colemak", lerr.Variant)

	// Without any keyboard data installed, the layout is trusted.
	t.Setenv("XKB_CONFIG_ROOT", t.TempDir())
	_, err = keymap.Compile(names)
	assert.NoError(t, err)
}
