// Package surface manages the layer surface that the keyboard is shown
// on and the shared memory buffers that are attached to it.
package surface

import (
	"errors"
	"fmt"
	"image"
	"slices"

	wl "deedles.dev/wlkbd/client"
	"deedles.dev/wlkbd/protocols/layershell"
	"deedles.dev/wlkbd/shm"
	"deedles.dev/wlkbd/shm/shmimage"
	"github.com/charmbracelet/log"
)

// ErrNotConfigured is returned by Submit before the compositor has
// configured the surface.
var ErrNotConfigured = errors.New("surface has not been configured")

// Anchor is the set of edges that the overlay is attached to.
const Anchor = layershell.AnchorBottom | layershell.AnchorLeft | layershell.AnchorRight

type Config struct {
	Namespace string

	// Height is the height of the keyboard. MinimizedHeight is the
	// height of the bar that is left while it is minimized.
	Height          int32
	MinimizedHeight int32
}

type Listener interface {
	// Configure is called after a configure event has been
	// acknowledged. The next buffer must have the given size.
	Configure(size image.Point)
	Closed()
}

// Overlay is a layer surface on the overlay layer that is anchored to
// the bottom of an output and spans its width.
type Overlay struct {
	Listener Listener

	logger    *log.Logger
	shm       *wl.Shm
	surface   *wl.Surface
	layer     *layershell.Surface
	cfg       Config
	size      image.Point
	minimized bool
	buffers   []*shm.ImageBuffer
	frames    uint64
}

// Init creates the overlay on output, or on an output chosen by the
// compositor if output is nil, and commits its initial state. Nothing
// can be drawn until the resulting configure event has been handled.
func Init(compositor *wl.Compositor, shell *layershell.Shell, allocator *wl.Shm, output *wl.Output, cfg Config, logger *log.Logger) (*Overlay, error) {
	if (cfg.Height <= 0) || (cfg.MinimizedHeight <= 0) {
		return nil, fmt.Errorf("invalid overlay height %v (minimized %v)", cfg.Height, cfg.MinimizedHeight)
	}

	o := Overlay{
		logger: logger,
		shm:    allocator,
		cfg:    cfg,
	}

	o.surface = compositor.CreateSurface()
	o.layer = shell.GetLayerSurface(o.surface, output, layershell.LayerOverlay, cfg.Namespace)
	o.layer.Listener = (*layerListener)(&o)

	o.layer.SetAnchor(Anchor)
	o.layer.SetKeyboardInteractivity(layershell.KeyboardInteractivityNone)
	o.resize(cfg.Height)

	return &o, nil
}

func (o *Overlay) resize(height int32) {
	o.layer.SetExclusiveZone(height)
	o.layer.SetSize(0, uint32(height))
	o.surface.Commit()
}

// Surface returns the underlying wl_surface.
func (o *Overlay) Surface() *wl.Surface {
	return o.surface
}

// Size returns the most recently configured size. It is empty until
// the first configure event.
func (o *Overlay) Size() image.Point {
	return o.size
}

func (o *Overlay) Minimized() bool {
	return o.minimized
}

// Minimize shrinks the overlay to the minimized bar.
func (o *Overlay) Minimize() {
	if o.minimized {
		return
	}
	o.minimized = true
	o.resize(o.cfg.MinimizedHeight)
}

// Restore returns the overlay to its full height.
func (o *Overlay) Restore() {
	if !o.minimized {
		return
	}
	o.minimized = false
	o.resize(o.cfg.Height)
}

// Toggle minimizes the overlay if it is shown and restores it
// otherwise.
func (o *Overlay) Toggle() {
	if o.minimized {
		o.Restore()
		return
	}
	o.Minimize()
}

// Presented returns the number of submitted frames that the compositor
// has presented.
func (o *Overlay) Presented() uint64 {
	return o.frames
}

// Submit draws into a free buffer of the configured size with draw and
// then attaches it, damages the whole surface, requests a frame
// callback and commits, in that order.
func (o *Overlay) Submit(draw func(*shmimage.ARGB8888) error) error {
	if o.size.Eq(image.Point{}) {
		return ErrNotConfigured
	}

	buf, err := o.buffer()
	if err != nil {
		return err
	}

	err = draw(buf.Image())
	if err != nil {
		return fmt.Errorf("draw: %w", err)
	}

	buf.Attach(o.surface)
	o.surface.DamageBuffer(0, 0, int32(o.size.X), int32(o.size.Y))
	o.surface.Frame().Listener = wl.CallbackFunc(func(uint32) { o.frames++ })
	o.surface.Commit()

	return nil
}

// buffer returns a buffer of the current size that the compositor is
// not reading from, allocating one if necessary. Free buffers of any
// other size are destroyed.
func (o *Overlay) buffer() (*shm.ImageBuffer, error) {
	var free *shm.ImageBuffer
	o.buffers = slices.DeleteFunc(o.buffers, func(buf *shm.ImageBuffer) bool {
		if buf.Busy() {
			return false
		}
		if buf.Bounds().Size() != o.size {
			buf.Destroy()
			return true
		}
		if free == nil {
			free = buf
		}
		return false
	})
	if free != nil {
		return free, nil
	}

	buf, err := shm.NewImageBuffer(o.shm, int32(o.size.X), int32(o.size.Y))
	if err != nil {
		return nil, fmt.Errorf("allocate buffer: %w", err)
	}
	o.buffers = append(o.buffers, buf)
	o.logger.Debug("allocated buffer", "size", o.size, "buffers", len(o.buffers))

	return buf, nil
}

// Destroy destroys the overlay and all of its buffers.
func (o *Overlay) Destroy() {
	for _, buf := range o.buffers {
		buf.Destroy()
	}
	o.buffers = nil

	o.layer.Destroy()
	o.surface.Destroy()
}

type layerListener Overlay

func (lis *layerListener) Configure(serial, width, height uint32) {
	o := (*Overlay)(lis)

	o.layer.AckConfigure(serial)
	if height == 0 {
		height = uint32(o.cfg.Height)
		if o.minimized {
			height = uint32(o.cfg.MinimizedHeight)
		}
	}
	o.size = image.Pt(int(width), int(height))
	o.logger.Debug("configured", "serial", serial, "size", o.size)

	if o.Listener != nil {
		o.Listener.Configure(o.size)
	}
}

func (lis *layerListener) Closed() {
	if lis.Listener != nil {
		lis.Listener.Closed()
	}
}
