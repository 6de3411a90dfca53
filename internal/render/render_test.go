package render_test

import (
	"image"
	"testing"

	"deedles.dev/wlkbd/internal/keys"
	"deedles.dev/wlkbd/internal/layout"
	"deedles.dev/wlkbd/internal/render"
	"deedles.dev/wlkbd/keymap"
	"deedles.dev/wlkbd/shm/shmimage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T) *render.Renderer {
	r, err := render.New(layout.For(keymap.EnglishUs))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRenderSize(t *testing.T) {
	r := newRenderer(t)

	img, err := r.Render(image.Pt(480, 300), 0)
	require.NoError(t, err)
	assert.Len(t, img.Pix, 480*300*4)
	assert.Equal(t, 480*4, img.Stride)
	assert.Equal(t, image.Rect(0, 0, 480, 300), img.Bounds())
}

func TestRenderPure(t *testing.T) {
	r := newRenderer(t)

	a, err := r.Render(image.Pt(480, 300), keys.Modifiers(keys.Shift))
	require.NoError(t, err)
	b, err := r.Render(image.Pt(480, 300), keys.Modifiers(keys.Shift))
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix)

	other := newRenderer(t)
	c, err := other.Render(image.Pt(480, 300), keys.Modifiers(keys.Shift))
	require.NoError(t, err)
	assert.Equal(t, a.Pix, c.Pix)
}

func TestRenderModifiers(t *testing.T) {
	r := newRenderer(t)

	plain, err := r.Render(image.Pt(480, 300), 0)
	require.NoError(t, err)
	shifted, err := r.Render(image.Pt(480, 300), keys.Modifiers(keys.Shift))
	require.NoError(t, err)
	assert.NotEqual(t, plain.Pix, shifted.Pix)

	// The shift cap is highlighted. Its top is clear of the icon.
	g := layout.Geometry{Width: 480, Height: 300}
	rect := g.KeyRect(2, 0, len(layout.For(keymap.EnglishUs).Row(2)))
	p := rect.Min.Add(image.Pt(rect.Dx()/2, 15))
	assert.NotEqual(t, plain.ARGB8888At(p.X, p.Y), shifted.ARGB8888At(p.X, p.Y))
}

func TestRenderWhite(t *testing.T) {
	r := newRenderer(t)

	img, err := r.Render(image.Pt(480, 300), 0)
	require.NoError(t, err)

	// Left of the grid is background only.
	assert.Equal(t, render.Transparent, img.ARGB8888At(10, 10))
	assert.Equal(t, []byte{50, 50, 50, 50}, img.Pix[:4])

	for y := range 300 {
		for x := range 480 {
			c := img.ARGB8888At(x, y)
			if (c.R() == 255) && (c.G() == 255) && (c.B() == 255) {
				t.Fatalf("white pixel at (%v, %v)", x, y)
			}
		}
	}

	// Key caps are opaque.
	g := layout.Geometry{Width: 480, Height: 300}
	c := img.ARGB8888At(g.Left()+20, 50)
	assert.Equal(t, uint8(255), c.A())
	assert.NotEqual(t, render.Transparent, c)
}

func TestRenderEmpty(t *testing.T) {
	r := newRenderer(t)

	img, err := r.Render(image.Pt(10, 2), 0)
	require.NoError(t, err)
	for y := range 2 {
		for x := range 10 {
			assert.Equal(t, render.Transparent, img.ARGB8888At(x, y))
		}
	}
}

func TestDrawMinimized(t *testing.T) {
	r := newRenderer(t)

	img := shmimage.NewARGB8888(image.Rect(0, 0, 480, 30))
	require.NoError(t, r.DrawMinimized(img))
	assert.Equal(t, render.Transparent, img.ARGB8888At(10, 15))
	assert.Equal(t, uint8(255), img.ARGB8888At(410, 15).A())
}
