package wl

import "deedles.dev/wlkbd/wire"

const (
	PointerInterface = "wl_pointer"
	PointerVersion   = 5
)

const (
	pointerSetCursor = 0
	pointerRelease   = 1

	pointerEnter        = 0
	pointerLeave        = 1
	pointerMotion       = 2
	pointerButton       = 3
	pointerAxis         = 4
	pointerFrame        = 5
	pointerAxisSource   = 6
	pointerAxisStop     = 7
	pointerAxisDiscrete = 8
)

type PointerButtonState uint32

const (
	PointerButtonStateReleased PointerButtonState = iota
	PointerButtonStatePressed
)

func (s PointerButtonState) String() string {
	switch s {
	case PointerButtonStateReleased:
		return "released"
	case PointerButtonStatePressed:
		return "pressed"
	}

	return "unknown"
}

type PointerAxis uint32

const (
	PointerAxisVerticalScroll PointerAxis = iota
	PointerAxisHorizontalScroll
)

type PointerAxisSource uint32

const (
	PointerAxisSourceWheel PointerAxisSource = iota
	PointerAxisSourceFinger
	PointerAxisSourceContinuous
	PointerAxisSourceWheelTilt
)

type PointerListener interface {
	Enter(serial uint32, surface *Surface, surfaceX, surfaceY wire.Fixed)
	Leave(serial uint32, surface *Surface)
	Motion(time uint32, surfaceX, surfaceY wire.Fixed)
	Button(serial, time uint32, button uint32, state PointerButtonState)
	Axis(time uint32, axis PointerAxis, value wire.Fixed)
	Frame()
	AxisSource(axisSource PointerAxisSource)
	AxisStop(time uint32, axis PointerAxis)
	AxisDiscrete(axis PointerAxis, discrete int32)
}

type Pointer struct {
	Proxy
	Listener PointerListener
}

func (p *Pointer) Interface() string {
	return PointerInterface
}

// SetCursor sets the pointer image while it is over one of the
// client's surfaces. serial must be that of the latest enter event.
func (p *Pointer) SetCursor(serial uint32, surface *Surface, hotspotX, hotspotY int32) {
	msg := wire.NewMessage(p, pointerSetCursor)
	msg.WriteUint(serial)
	if surface == nil {
		msg.WriteObject(nil)
	} else {
		msg.WriteObject(surface)
	}
	msg.WriteInt(hotspotX)
	msg.WriteInt(hotspotY)
	p.client.Enqueue(msg)
}

func (p *Pointer) Release() {
	p.client.Enqueue(wire.NewMessage(p, pointerRelease))
	p.client.Destroy(p)
}

func (p *Pointer) surface(id uint32) *Surface {
	s, _ := p.client.Get(id).(*Surface)
	return s
}

func (p *Pointer) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case pointerEnter:
		serial := msg.ReadUint()
		surface := msg.ReadUint()
		x := msg.ReadFixed()
		y := msg.ReadFixed()
		if err := msg.Err(); err != nil {
			return err
		}
		if p.Listener != nil {
			p.Listener.Enter(serial, p.surface(surface), x, y)
		}

	case pointerLeave:
		serial := msg.ReadUint()
		surface := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		if p.Listener != nil {
			p.Listener.Leave(serial, p.surface(surface))
		}

	case pointerMotion:
		time := msg.ReadUint()
		x := msg.ReadFixed()
		y := msg.ReadFixed()
		if err := msg.Err(); err != nil {
			return err
		}
		if p.Listener != nil {
			p.Listener.Motion(time, x, y)
		}

	case pointerButton:
		serial := msg.ReadUint()
		time := msg.ReadUint()
		button := msg.ReadUint()
		state := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		if p.Listener != nil {
			p.Listener.Button(serial, time, button, PointerButtonState(state))
		}

	case pointerAxis:
		time := msg.ReadUint()
		axis := msg.ReadUint()
		value := msg.ReadFixed()
		if err := msg.Err(); err != nil {
			return err
		}
		if p.Listener != nil {
			p.Listener.Axis(time, PointerAxis(axis), value)
		}

	case pointerFrame:
		if p.Listener != nil {
			p.Listener.Frame()
		}

	case pointerAxisSource:
		source := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		if p.Listener != nil {
			p.Listener.AxisSource(PointerAxisSource(source))
		}

	case pointerAxisStop:
		time := msg.ReadUint()
		axis := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}
		if p.Listener != nil {
			p.Listener.AxisStop(time, PointerAxis(axis))
		}

	case pointerAxisDiscrete:
		axis := msg.ReadUint()
		discrete := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		if p.Listener != nil {
			p.Listener.AxisDiscrete(PointerAxis(axis), discrete)
		}

	default:
		return wire.UnknownOpError{Interface: PointerInterface, Type: "event", Op: msg.Op()}
	}

	return nil
}
