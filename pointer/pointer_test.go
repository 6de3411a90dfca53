package pointer_test

import (
	"image"
	"testing"

	"deedles.dev/wlkbd/pointer"
	"deedles.dev/wlkbd/wire"
	"github.com/stretchr/testify/assert"
)

func TestButton(t *testing.T) {
	assert.Equal(t, pointer.Button(0x110), pointer.ButtonLeft)
	assert.Equal(t, "middle", pointer.ButtonMiddle.String())
	assert.Equal(t, "unknown", pointer.Button(1).String())
}

func TestPoint(t *testing.T) {
	assert.Equal(t, image.Pt(10, 150), pointer.Point(wire.FixedFloat(10.75), wire.FixedInt(150)))
	assert.Equal(t, image.Pt(-1, 0), pointer.Point(wire.FixedFloat(-0.5), 0))
}
