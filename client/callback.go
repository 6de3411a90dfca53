package wl

import "deedles.dev/wlkbd/wire"

const (
	CallbackInterface = "wl_callback"
	CallbackVersion   = 1
)

const callbackDone = 0

type CallbackListener interface {
	Done(data uint32)
}

// CallbackFunc adapts a function to a CallbackListener.
type CallbackFunc func(data uint32)

func (f CallbackFunc) Done(data uint32) {
	f(data)
}

type Callback struct {
	Proxy
	Listener CallbackListener
}

func (cb *Callback) Interface() string {
	return CallbackInterface
}

func (cb *Callback) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case callbackDone:
		data := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}

		if cb.Listener != nil {
			cb.Listener.Done(data)
		}
		return nil

	default:
		return wire.UnknownOpError{Interface: CallbackInterface, Type: "event", Op: msg.Op()}
	}
}
