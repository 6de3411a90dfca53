package wl

import "deedles.dev/wlkbd/wire"

const (
	TouchInterface = "wl_touch"
	TouchVersion   = 5
)

const (
	touchRelease = 0

	touchDown   = 0
	touchUp     = 1
	touchMotion = 2
	touchFrame  = 3
	touchCancel = 4
)

type TouchListener interface {
	Down(serial, time uint32, surface *Surface, id int32, x, y wire.Fixed)
	Up(serial, time uint32, id int32)
	Motion(time uint32, id int32, x, y wire.Fixed)
	Frame()
	Cancel()
}

type Touch struct {
	Proxy
	Listener TouchListener
}

func (t *Touch) Interface() string {
	return TouchInterface
}

func (t *Touch) Release() {
	t.client.Enqueue(wire.NewMessage(t, touchRelease))
	t.client.Destroy(t)
}

func (t *Touch) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case touchDown:
		serial := msg.ReadUint()
		time := msg.ReadUint()
		surface := msg.ReadUint()
		id := msg.ReadInt()
		x := msg.ReadFixed()
		y := msg.ReadFixed()
		if err := msg.Err(); err != nil {
			return err
		}
		if t.Listener != nil {
			s, _ := t.client.Get(surface).(*Surface)
			t.Listener.Down(serial, time, s, id, x, y)
		}

	case touchUp:
		serial := msg.ReadUint()
		time := msg.ReadUint()
		id := msg.ReadInt()
		if err := msg.Err(); err != nil {
			return err
		}
		if t.Listener != nil {
			t.Listener.Up(serial, time, id)
		}

	case touchMotion:
		time := msg.ReadUint()
		id := msg.ReadInt()
		x := msg.ReadFixed()
		y := msg.ReadFixed()
		if err := msg.Err(); err != nil {
			return err
		}
		if t.Listener != nil {
			t.Listener.Motion(time, id, x, y)
		}

	case touchFrame:
		if t.Listener != nil {
			t.Listener.Frame()
		}

	case touchCancel:
		if t.Listener != nil {
			t.Listener.Cancel()
		}

	default:
		return wire.UnknownOpError{Interface: TouchInterface, Type: "event", Op: msg.Op()}
	}

	return nil
}
