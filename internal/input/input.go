// Package input turns pointer and touch input on the keyboard surface
// into key events for a virtual keyboard.
package input

import (
	"image"

	"deedles.dev/wlkbd/internal/keys"
	"deedles.dev/wlkbd/internal/layout"
	"deedles.dev/wlkbd/pointer"
	"deedles.dev/wlkbd/protocols/virtualkeyboard"
	"deedles.dev/wlkbd/wire"
	"github.com/charmbracelet/log"
)

// Injector receives the synthesized key events. It is usually a
// *virtualkeyboard.Keyboard.
type Injector interface {
	Key(time, key uint32, state virtualkeyboard.KeyState)
	Modifiers(depressed, latched, locked, group uint32)
}

type Listener interface {
	// ModifiersChanged is called when the latched modifiers have
	// changed and the keyboard needs to be redrawn.
	ModifiersChanged(mods keys.Modifiers)

	// ToggleMinimize is called when the minimize button is released.
	ToggleMinimize()
}

// source identifies whatever pressed a key. The pointer is -1. Touch
// points use their IDs, which are never negative.
type source int64

const pointerSource source = -1

// Pipeline tracks pointer and touch positions over the keyboard and
// the latched modifiers.
type Pipeline struct {
	Listener Listener

	// Minimized is set while the keyboard is minimized. Any press
	// then acts on the minimize button.
	Minimized bool

	injector Injector
	layout   *layout.KeyLayout
	logger   *log.Logger
	geometry layout.Geometry
	mods     keys.Modifiers
	pointer  image.Point
	touches  map[int32]image.Point
	pressed  map[source]keys.Code
}

func New(injector Injector, kl *layout.KeyLayout, logger *log.Logger) *Pipeline {
	return &Pipeline{
		injector: injector,
		layout:   kl,
		logger:   logger,
		touches:  make(map[int32]image.Point),
		pressed:  make(map[source]keys.Code),
	}
}

// Resize sets the size of the surface that positions are relative to.
func (p *Pipeline) Resize(size image.Point) {
	p.geometry = layout.Geometry{Width: size.X, Height: size.Y}
}

// Modifiers returns the latched modifiers.
func (p *Pipeline) Modifiers() keys.Modifiers {
	return p.mods
}

// HitTest returns the key at the given surface position.
func (p *Pipeline) HitTest(pos image.Point) (keys.Code, bool) {
	if p.Minimized {
		return layout.ToggleMinimize, true
	}
	return p.layout.HitTest(p.geometry, pos)
}

// PointerMotion records the pointer position.
func (p *Pipeline) PointerMotion(x, y wire.Fixed) {
	p.pointer = pointer.Point(x, y)
}

// PointerButton handles a button event at the last recorded pointer
// position. Only the left button presses keys.
func (p *Pipeline) PointerButton(time uint32, button pointer.Button, pressed bool) {
	if button != pointer.ButtonLeft {
		return
	}
	if pressed {
		p.down(time, pointerSource, p.pointer)
		return
	}
	p.up(time, pointerSource)
}

// PointerLeave releases any key that the pointer is holding.
func (p *Pipeline) PointerLeave(time uint32) {
	p.up(time, pointerSource)
}

func (p *Pipeline) TouchDown(time uint32, id int32, x, y wire.Fixed) {
	pos := pointer.Point(x, y)
	p.touches[id] = pos
	p.down(time, source(id), pos)
}

// TouchMotion records the position of a touch point.
func (p *Pipeline) TouchMotion(id int32, x, y wire.Fixed) {
	p.touches[id] = pointer.Point(x, y)
}

func (p *Pipeline) TouchUp(time uint32, id int32) {
	delete(p.touches, id)
	p.up(time, source(id))
}

// TouchCancel releases every key held by a touch point.
func (p *Pipeline) TouchCancel(time uint32) {
	for id := range p.touches {
		p.TouchUp(time, id)
	}
}

func (p *Pipeline) down(time uint32, src source, pos image.Point) {
	code, ok := p.HitTest(pos)
	if !ok {
		return
	}
	if prev, ok := p.pressed[src]; ok {
		p.logger.Debug("press without release", "source", src, "code", prev)
		p.up(time, src)
	}

	p.pressed[src] = code
	if code == layout.ToggleMinimize {
		return
	}
	p.Press(time, code)
}

func (p *Pipeline) up(time uint32, src source) {
	code, ok := p.pressed[src]
	if !ok {
		return
	}
	delete(p.pressed, src)

	if code == layout.ToggleMinimize {
		if p.Listener != nil {
			p.Listener.ToggleMinimize()
		}
		return
	}
	if p.Release(time, code) && (p.Listener != nil) {
		p.Listener.ModifiersChanged(p.mods)
	}
}

// Press sends a key press. It does not change the modifiers.
func (p *Pipeline) Press(time uint32, code keys.Code) {
	p.logger.Debug("press", "code", code)
	p.injector.Key(time, uint32(code), virtualkeyboard.KeyStatePressed)
}

// Release sends a key release. If code is a modifier key, its modifier
// is toggled and the new modifier state is sent, in which case Release
// returns true.
func (p *Pipeline) Release(time uint32, code keys.Code) bool {
	p.logger.Debug("release", "code", code)
	p.injector.Key(time, uint32(code), virtualkeyboard.KeyStateReleased)

	m := keys.ModifierOf(code)
	if m == keys.NoModifier {
		return false
	}

	mods := p.mods.Toggle(m)
	if mods == p.mods {
		return false
	}
	p.mods = mods
	p.logger.Debug("modifiers", "mods", mods)
	p.injector.Modifiers(uint32(mods), 0, 0, 0)
	return true
}
