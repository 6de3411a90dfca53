package layout_test

import (
	"image"
	"testing"

	"deedles.dev/wlkbd/internal/keys"
	"deedles.dev/wlkbd/internal/layout"
	"deedles.dev/wlkbd/keymap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeometry(t *testing.T) {
	g := layout.Geometry{Width: 480, Height: 300}
	assert.Equal(t, 100, g.Step())
	assert.Equal(t, 80, g.Left())
	assert.Equal(t, 380, g.Right())
	assert.Equal(t, image.Rect(380, 100, 480, 200), g.ToggleRect())
	assert.Equal(t, image.Rect(80, 0, 230, 100), g.KeyRect(0, 0, 2))
	assert.Equal(t, image.Rect(230, 200, 380, 300), g.KeyRect(2, 1, 2))
}

func TestHitTest(t *testing.T) {
	kl := layout.For(keymap.EnglishUs)
	g := layout.Geometry{Width: 480, Height: 300}

	tests := []struct {
		name string
		p    image.Point
		code keys.Code
		ok   bool
	}{
		{"Toggle", image.Pt(500, 150), layout.ToggleMinimize, true},
		{"LeftOfGrid", image.Pt(50, 150), 0, false},
		{"RightTop", image.Pt(400, 50), 0, false},
		{"RightBottom", image.Pt(400, 250), 0, false},
		{"FirstKey", image.Pt(80, 0), keys.Q, true},
		{"Backspace", image.Pt(379, 10), keys.Backspace, true},
		{"CapsLock", image.Pt(81, 150), keys.CapsLock, true},
		{"Enter", image.Pt(380, 150), keys.Enter, true},
		{"Shift", image.Pt(81, 250), keys.LeftShift, true},
		{"Space", image.Pt(379, 299), keys.Space, true},
		{"BelowSurface", image.Pt(81, 1000), keys.LeftShift, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			code, ok := kl.HitTest(g, test.p)
			assert.Equal(t, test.ok, ok)
			assert.Equal(t, test.code, code)
		})
	}
}

func TestHitTestEmpty(t *testing.T) {
	kl := layout.For(keymap.EnglishUs)
	_, ok := kl.HitTest(layout.Geometry{Width: 480, Height: 2}, image.Pt(10, 1))
	assert.False(t, ok)
}

func TestRows(t *testing.T) {
	for _, l := range keymap.Layouts() {
		t.Run(l.Name(), func(t *testing.T) {
			kl := layout.For(l)
			require.Equal(t, l, kl.Layout())

			seen := make(map[keys.Code]struct{})
			for i := range layout.Rows {
				row := kl.Row(i)
				require.NotEmpty(t, row)
				for _, k := range row {
					assert.NotEqual(t, layout.ToggleMinimize, k.Code)
					assert.True(t, (k.Label != "") || (k.Icon != layout.NoIcon), "key %v has no label", k.Code)
					_, dup := seen[k.Code]
					assert.False(t, dup, "duplicate key %v", k.Code)
					seen[k.Code] = struct{}{}
				}
			}
		})
	}
}

func TestLabels(t *testing.T) {
	de := layout.For(keymap.German)
	assert.Equal(t, "z", de.Row(0)[5].Label)
	assert.Equal(t, "ü", de.Row(0)[10].Label)
	assert.Equal(t, "Ü", de.Row(0)[10].Text(keys.Modifiers(keys.Shift)))
	assert.Equal(t, "ü", de.Row(0)[10].Text(keys.Modifiers(keys.Shift|keys.Lock)))

	fr := layout.For(keymap.French)
	comma := fr.Row(2)[7]
	assert.Equal(t, keys.M, comma.Code)
	assert.Equal(t, ",", comma.Text(0))
	assert.Equal(t, "?", comma.Text(keys.Modifiers(keys.Lock)))

	us := layout.For(keymap.EnglishUs)
	assert.Equal(t, keys.Shift, us.Row(2)[0].Modifier())
	assert.Equal(t, keys.NoModifier, us.Row(0)[0].Modifier())
}
