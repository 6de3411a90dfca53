package shm

import (
	"fmt"
	"image"
	"os"

	wl "deedles.dev/wlkbd/client"
	"deedles.dev/wlkbd/shm/shmimage"
	"golang.org/x/sys/unix"
)

// ImageBuffer is an ARGB8888 wl_buffer backed by its own pool. It
// tracks whether the compositor is still reading from it.
type ImageBuffer struct {
	w, h int32
	pool *wl.ShmPool
	buf  *wl.Buffer
	file *os.File
	mmap Mmap
	busy bool
}

func NewImageBuffer(shm *wl.Shm, w, h int32) (s *ImageBuffer, err error) {
	if (w <= 0) || (h <= 0) {
		return nil, fmt.Errorf("invalid buffer size %vx%v", w, h)
	}

	s = &ImageBuffer{
		w: w,
		h: h,
	}
	defer func() {
		if err != nil {
			s.Destroy()
		}
	}()

	file, err := Create("wlkbd-buffer", int64(s.Len()))
	if err != nil {
		return s, fmt.Errorf("create SHM file: %w", err)
	}
	s.file = file

	mmap, err := Map(file, int(s.Len()), unix.PROT_READ|unix.PROT_WRITE)
	if err != nil {
		return s, fmt.Errorf("mmap SHM file: %w", err)
	}
	s.mmap = mmap

	s.pool = shm.CreatePool(file, s.Len())
	s.buf = s.pool.CreateBuffer(0, w, h, s.Stride(), wl.ShmFormatArgb8888)
	s.buf.Listener = wl.BufferFunc(s.release)

	return s, nil
}

// Destroy destroys the buffer and its pool and releases the memory.
func (s *ImageBuffer) Destroy() {
	if s.mmap != nil {
		s.mmap.Unmap()
		s.mmap = nil
	}
	if s.file != nil {
		s.file.Close()
		s.file = nil
	}
	if s.buf != nil {
		s.buf.Destroy()
		s.buf = nil
	}
	if s.pool != nil {
		s.pool.Destroy()
		s.pool = nil
	}
}

func (s *ImageBuffer) Buffer() *wl.Buffer {
	return s.buf
}

func (s *ImageBuffer) Stride() int32 {
	return s.w * 4
}

func (s *ImageBuffer) Len() int32 {
	return s.Stride() * s.h
}

func (s *ImageBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(s.w), int(s.h))
}

// Busy reports whether the buffer has been attached to a surface and
// not yet released by the compositor. A busy buffer must not be
// written to.
func (s *ImageBuffer) Busy() bool {
	return s.busy
}

// Pix returns the mapped memory of the buffer.
func (s *ImageBuffer) Pix() []byte {
	return s.mmap
}

// Image returns an image that draws directly into the buffer.
func (s *ImageBuffer) Image() *shmimage.ARGB8888 {
	return &shmimage.ARGB8888{
		Pix:    s.mmap,
		Stride: int(s.Stride()),
		Rect:   s.Bounds(),
	}
}

// Attach attaches the buffer to surface and marks it as busy until the
// compositor releases it.
func (s *ImageBuffer) Attach(surface *wl.Surface) {
	surface.Attach(s.buf, 0, 0)
	s.busy = true
}

func (s *ImageBuffer) release() {
	s.busy = false
}
