package keys_test

import (
	"testing"

	"deedles.dev/wlkbd/internal/keys"
	"github.com/stretchr/testify/assert"
)

func TestModifierOf(t *testing.T) {
	tests := []struct {
		code keys.Code
		mod  keys.Modifier
	}{
		{keys.CapsLock, keys.Lock},
		{keys.LeftShift, keys.Shift},
		{keys.RightShift, keys.Shift},
		{keys.LeftCtrl, keys.Control},
		{keys.RightCtrl, keys.Control},
		{keys.LeftAlt, keys.Alt},
		{keys.RightAlt, keys.Alt},
		{keys.LeftMeta, keys.Super},
		{keys.RightMeta, keys.Super},
		{keys.Compose, keys.Super},
		{keys.A, keys.NoModifier},
		{keys.Space, keys.NoModifier},
	}

	for _, test := range tests {
		assert.Equal(t, test.mod, keys.ModifierOf(test.code), "code %v", test.code)
	}
}

func TestModifiers(t *testing.T) {
	var mods keys.Modifiers
	assert.Equal(t, "none", mods.String())

	mods = mods.Toggle(keys.Shift)
	assert.True(t, mods.Has(keys.Shift))
	assert.True(t, mods.Shifted())
	assert.False(t, mods.Has(keys.NoModifier))

	mods = mods.Toggle(keys.Lock)
	assert.False(t, mods.Shifted())
	assert.Equal(t, "shift+caps", mods.String())

	mods = mods.Toggle(keys.Shift).Toggle(keys.Lock)
	assert.Equal(t, keys.Modifiers(0), mods)

	assert.Equal(t, keys.Modifiers(keys.Control|keys.Super), keys.Modifiers(keys.Control).Union(keys.Modifiers(keys.Super)))
	assert.Equal(t, keys.Modifiers(0), mods.Toggle(keys.NoModifier))
}
