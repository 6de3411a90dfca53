// Package pointer contains utilities for handling pointer and touch
// input.
package pointer

import (
	"image"

	"deedles.dev/wlkbd/wire"
)

// Button indicates a mouse button.
type Button uint32

// These values were pulled from linux/input-event-codes.h.
const (
	ButtonLeft Button = 0x110 + iota
	ButtonRight
	ButtonMiddle
	ButtonSide
	ButtonExtra
	ButtonForward
	ButtonBack
	ButtonTask
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	case ButtonSide:
		return "side"
	case ButtonExtra:
		return "extra"
	case ButtonForward:
		return "forward"
	case ButtonBack:
		return "back"
	case ButtonTask:
		return "task"
	}

	return "unknown"
}

// Point converts surface-local coordinates to the pixel that contains
// them.
func Point(x, y wire.Fixed) image.Point {
	return image.Pt(x.Int(), y.Int())
}
