// Package wire defines types helpful for dealing with the Wayland
// wire protocol. It is primarly intended for usage by the protocol
// bindings in this module.
package wire

import (
	"encoding/binary"
	"errors"
	"io"
	"net"
	"unsafe"

	"golang.org/x/sys/unix"
)

// MaxFDs is the maximum number of file descriptors that will be
// accepted alongside a single read from the socket. It matches the
// limit used by libwayland.
const MaxFDs = 28

// byteOrder is the host byte order.
var byteOrder binary.ByteOrder = binary.LittleEndian

func init() {
	n := uint32(1)
	b := (*[4]byte)(unsafe.Pointer(&n))
	if b[0] == 0 {
		byteOrder = binary.BigEndian
	}
}

// Object represents a Wayland protocol object.
type Object interface {
	// ID returns the object's ID. An ID of zero means that the object
	// has not been registered yet.
	ID() uint32

	// SetID is called when the object is registered.
	SetID(id uint32)

	// Interface returns the name of the protocol interface that the
	// object implements, such as "wl_surface".
	Interface() string

	// Dispatch pertforms the operation requested by the message in the
	// buffer.
	Dispatch(msg *MessageBuffer) error

	// Delete is called when the object's ID has been released.
	Delete()
}

// NewID is an untyped new_id argument, such as the one used by
// wl_registry.bind.
type NewID struct {
	Interface string
	Version   uint32
	ID        uint32
}

func read[T ~int32 | ~uint32](r io.Reader) (T, error) {
	var data [4]byte
	_, err := io.ReadFull(r, data[:])
	if err != nil {
		return 0, err
	}

	v := byteOrder.Uint32(data[:])
	return T(v), nil
}

func write[T ~int32 | ~uint32](w io.Writer, v T) error {
	var data [4]byte
	byteOrder.PutUint32(data[:], uint32(v))
	n, err := w.Write(data[:])
	if (err == nil) && (n < len(data)) {
		return io.ErrShortWrite
	}
	return err
}

// padding returns the number of bytes needed to pad length bytes out
// to a 32-bit boundary.
func padding(length uint32) uint32 {
	return (4 - (length % 4)) % 4
}

// unixTee reads from c, but also reads out-of-band data
// simultaneously, writing it into oob.
type unixTee struct {
	c   *net.UnixConn
	oob io.Writer
}

func (t unixTee) Read(buf []byte) (int, error) {
	oob := make([]byte, unix.CmsgSpace(MaxFDs*4))
	n, oobn, _, _, err := t.c.ReadMsgUnix(buf, oob)
	if (n == 0) && (err == nil) {
		err = io.EOF
	}
	if _, ooberr := t.oob.Write(oob[:oobn]); ooberr != nil {
		return n, errors.Join(err, ooberr)
	}
	return n, err
}
