package wl

import "deedles.dev/wlkbd/wire"

const (
	BufferInterface = "wl_buffer"
	BufferVersion   = 1
)

const (
	bufferDestroy = 0

	bufferRelease = 0
)

type BufferListener interface {
	Release()
}

// BufferFunc adapts a function to a BufferListener.
type BufferFunc func()

func (f BufferFunc) Release() {
	f()
}

type Buffer struct {
	Proxy
	Listener BufferListener
}

func (buf *Buffer) Interface() string {
	return BufferInterface
}

func (buf *Buffer) Destroy() {
	buf.client.Enqueue(wire.NewMessage(buf, bufferDestroy))
	buf.client.Destroy(buf)
}

func (buf *Buffer) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case bufferRelease:
		if buf.Listener != nil {
			buf.Listener.Release()
		}
		return nil

	default:
		return wire.UnknownOpError{Interface: BufferInterface, Type: "event", Op: msg.Op()}
	}
}
