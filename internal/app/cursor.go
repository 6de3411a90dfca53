package app

import (
	"errors"
	"fmt"
	"image"

	wl "deedles.dev/wlkbd/client"
	"deedles.dev/wlkbd/shm"
	"deedles.dev/ximage/xcursor"
)

// cursor is a themed left_ptr cursor that is shown while the pointer
// is over the keyboard.
type cursor struct {
	surface *wl.Surface
	buffer  *shm.ImageBuffer
	hot     image.Point
}

func loadCursor(compositor *wl.Compositor, allocator *wl.Shm, theme string, size int) (*cursor, error) {
	t, err := xcursor.LoadTheme(theme)
	if err != nil {
		return nil, fmt.Errorf("load cursor theme: %w", err)
	}

	cursors, ok := t.Cursors["left_ptr"]
	if !ok {
		return nil, errors.New("no left_ptr cursor in theme")
	}
	images := cursors.Images[cursors.BestSize(size)]
	if len(images) == 0 {
		return nil, fmt.Errorf("no left_ptr image near size %v", size)
	}
	cimg := images[0]

	w, h := cimg.Image.Rect.Dx(), cimg.Image.Rect.Dy()
	buffer, err := shm.NewImageBuffer(allocator, int32(w), int32(h))
	if err != nil {
		return nil, fmt.Errorf("create cursor buffer: %w", err)
	}

	dst, stride := buffer.Pix(), int(buffer.Stride())
	for y := 0; y < h; y++ {
		src := cimg.Image.Pix[y*cimg.Image.Stride():]
		copy(dst[y*stride:(y+1)*stride], src[:w*4])
	}

	c := cursor{
		surface: compositor.CreateSurface(),
		buffer:  buffer,
		hot:     cimg.Hot,
	}
	c.buffer.Attach(c.surface)
	c.surface.Commit()

	return &c, nil
}

func (c *cursor) set(p *wl.Pointer, serial uint32) {
	p.SetCursor(serial, c.surface, int32(c.hot.X), int32(c.hot.Y))
}

func (c *cursor) destroy() {
	c.surface.Destroy()
	c.buffer.Destroy()
}
