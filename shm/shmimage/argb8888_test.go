package shmimage_test

import (
	"image"
	"image/color"
	"testing"

	"deedles.dev/wlkbd/shm/shmimage"
	"github.com/stretchr/testify/assert"
)

func TestARGB8888(t *testing.T) {
	img := shmimage.NewARGB8888(image.Rect(0, 0, 2, 2))
	img.Set(1, 0, color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xFF})

	assert.Equal(t, []byte{0x33, 0x22, 0x11, 0xFF}, img.Pix[4:8])
	assert.Equal(t, shmimage.NewARGB8888Color(0x11, 0x22, 0x33, 0xFF), img.ARGB8888At(1, 0))
	assert.Equal(t, shmimage.ARGB8888Color(0), img.ARGB8888At(5, 5))

	r, g, b, a := img.At(1, 0).RGBA()
	assert.Equal(t, [4]uint32{0x1111, 0x2222, 0x3333, 0xFFFF}, [4]uint32{r, g, b, a})

	sub := img.SubImage(image.Rect(1, 0, 2, 1))
	assert.Equal(t, img.At(1, 0), sub.At(1, 0))
	assert.Equal(t, image.Rect(1, 0, 2, 1), sub.Bounds())
}

func TestColorModel(t *testing.T) {
	transparent := shmimage.ARGB8888Model.Convert(color.Transparent)
	assert.Equal(t, shmimage.ARGB8888Color(0), transparent)

	half := shmimage.ARGB8888Model.Convert(color.NRGBA{R: 0xFF, A: 0x80}).(shmimage.ARGB8888Color)
	assert.Equal(t, uint8(0x80), half.A())
	assert.Equal(t, uint8(0x80), half.R())
}
