package wl

import (
	"strings"

	"deedles.dev/wlkbd/wire"
)

const (
	SeatInterface = "wl_seat"
	SeatVersion   = 5
)

const (
	seatGetPointer  = 0
	seatGetKeyboard = 1
	seatGetTouch    = 2
	seatRelease     = 3

	seatCapabilities = 0
	seatName         = 1
)

type SeatCapability uint32

const (
	SeatCapabilityPointer SeatCapability = 1 << iota
	SeatCapabilityKeyboard
	SeatCapabilityTouch
)

func (c SeatCapability) Has(other SeatCapability) bool {
	return c&other == other
}

func (c SeatCapability) String() string {
	var caps []string
	if c.Has(SeatCapabilityPointer) {
		caps = append(caps, "pointer")
	}
	if c.Has(SeatCapabilityKeyboard) {
		caps = append(caps, "keyboard")
	}
	if c.Has(SeatCapabilityTouch) {
		caps = append(caps, "touch")
	}
	return strings.Join(caps, "|")
}

type SeatListener interface {
	Capabilities(caps SeatCapability)
	Name(name string)
}

type Seat struct {
	Proxy
	Listener SeatListener
}

func BindSeat(client *Client, registry *Registry, name, version uint32) *Seat {
	seat := &Seat{Proxy: NewProxy(client)}
	registry.Bind(name, seat, min(version, SeatVersion))
	return seat
}

func (seat *Seat) Interface() string {
	return SeatInterface
}

func (seat *Seat) GetPointer() *Pointer {
	p := &Pointer{Proxy: NewProxy(seat.client)}
	seat.client.Add(p)

	msg := wire.NewMessage(seat, seatGetPointer)
	msg.WriteUint(p.ID())
	seat.client.Enqueue(msg)

	return p
}

func (seat *Seat) GetTouch() *Touch {
	t := &Touch{Proxy: NewProxy(seat.client)}
	seat.client.Add(t)

	msg := wire.NewMessage(seat, seatGetTouch)
	msg.WriteUint(t.ID())
	seat.client.Enqueue(msg)

	return t
}

func (seat *Seat) Release() {
	seat.client.Enqueue(wire.NewMessage(seat, seatRelease))
	seat.client.Destroy(seat)
}

func (seat *Seat) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case seatCapabilities:
		caps := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}

		if seat.Listener != nil {
			seat.Listener.Capabilities(SeatCapability(caps))
		}
		return nil

	case seatName:
		name := msg.ReadString()
		if err := msg.Err(); err != nil {
			return err
		}

		if seat.Listener != nil {
			seat.Listener.Name(name)
		}
		return nil

	default:
		return wire.UnknownOpError{Interface: SeatInterface, Type: "event", Op: msg.Op()}
	}
}
