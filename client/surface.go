package wl

import "deedles.dev/wlkbd/wire"

const (
	SurfaceInterface = "wl_surface"
	SurfaceVersion   = 4
)

const (
	surfaceDestroy            = 0
	surfaceAttach             = 1
	surfaceDamage             = 2
	surfaceFrame              = 3
	surfaceSetOpaqueRegion    = 4
	surfaceSetInputRegion     = 5
	surfaceCommit             = 6
	surfaceSetBufferTransform = 7
	surfaceSetBufferScale     = 8
	surfaceDamageBuffer       = 9

	surfaceEnter = 0
	surfaceLeave = 1
)

type SurfaceListener interface {
	Enter(output *Output)
	Leave(output *Output)
}

type Surface struct {
	Proxy
	Listener SurfaceListener
}

func (s *Surface) Interface() string {
	return SurfaceInterface
}

func (s *Surface) Destroy() {
	s.client.Enqueue(wire.NewMessage(s, surfaceDestroy))
	s.client.Destroy(s)
}

// Attach attaches buf as the surface's pending content. A nil buf
// removes the surface's content on the next commit.
func (s *Surface) Attach(buf *Buffer, x, y int32) {
	msg := wire.NewMessage(s, surfaceAttach)
	if buf == nil {
		msg.WriteObject(nil)
	} else {
		msg.WriteObject(buf)
	}
	msg.WriteInt(x)
	msg.WriteInt(y)
	s.client.Enqueue(msg)
}

func (s *Surface) Damage(x, y, width, height int32) {
	msg := wire.NewMessage(s, surfaceDamage)
	msg.WriteInt(x)
	msg.WriteInt(y)
	msg.WriteInt(width)
	msg.WriteInt(height)
	s.client.Enqueue(msg)
}

// Frame requests a callback that fires when it is a good time to draw
// the next frame.
func (s *Surface) Frame() *Callback {
	cb := &Callback{Proxy: NewProxy(s.client)}
	s.client.Add(cb)

	msg := wire.NewMessage(s, surfaceFrame)
	msg.WriteUint(cb.ID())
	s.client.Enqueue(msg)

	return cb
}

func (s *Surface) Commit() {
	s.client.Enqueue(wire.NewMessage(s, surfaceCommit))
}

func (s *Surface) SetBufferScale(scale int32) {
	msg := wire.NewMessage(s, surfaceSetBufferScale)
	msg.WriteInt(scale)
	s.client.Enqueue(msg)
}

// DamageBuffer is like Damage but uses buffer coordinates.
func (s *Surface) DamageBuffer(x, y, width, height int32) {
	msg := wire.NewMessage(s, surfaceDamageBuffer)
	msg.WriteInt(x)
	msg.WriteInt(y)
	msg.WriteInt(width)
	msg.WriteInt(height)
	s.client.Enqueue(msg)
}

func (s *Surface) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case surfaceEnter, surfaceLeave:
		id := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}

		output, _ := s.client.Get(id).(*Output)
		if s.Listener == nil {
			return nil
		}
		if msg.Op() == surfaceEnter {
			s.Listener.Enter(output)
		} else {
			s.Listener.Leave(output)
		}
		return nil

	default:
		return wire.UnknownOpError{Interface: SurfaceInterface, Type: "event", Op: msg.Op()}
	}
}
