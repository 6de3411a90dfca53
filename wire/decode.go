package wire

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// MessageBuffer holds message data that has been read from the socket
// but not yet decoded.
type MessageBuffer struct {
	sender  uint32
	op      uint16
	size    uint16
	data    bytes.Reader
	fds     []int
	fdindex int
	err     error
	args    []any
}

// ReadMessage reads message data from the socket into a buffer.
func ReadMessage(c *Conn) (*MessageBuffer, error) {
	var mr MessageBuffer

	var oob bytes.Buffer
	r := unixTee{c: c.conn, oob: &oob}

	sender, err := read[uint32](r)
	if err != nil {
		return nil, fmt.Errorf("read message sender: %w", err)
	}
	mr.sender = sender

	so, err := read[uint32](r)
	if err != nil {
		return nil, fmt.Errorf("read message size and opcode: %w", err)
	}
	mr.size = uint16(so >> 16)
	mr.op = uint16(so & 0xFFFF)
	if mr.size < 8 {
		return nil, fmt.Errorf("invalid message size %v for object %v", mr.size, mr.sender)
	}

	data := bytes.NewBuffer(make([]byte, 0, mr.size-8))
	_, err = io.CopyN(data, r, int64(mr.size)-8)
	if err != nil {
		return nil, fmt.Errorf("copy data to buffer: %w", err)
	}

	cmsgs, err := unix.ParseSocketControlMessage(oob.Bytes())
	if err != nil {
		return nil, fmt.Errorf("parse socket control messages: %w", err)
	}
	for _, cmsg := range cmsgs {
		fds, err := unix.ParseUnixRights(&cmsg)
		if err != nil {
			if errors.Is(err, unix.EINVAL) {
				continue
			}
			return nil, fmt.Errorf("parse unix control message: %w", err)
		}
		mr.fds = append(mr.fds, fds...)
	}

	mr.data.Reset(data.Bytes())

	return &mr, nil
}

// Sender is the object ID of the sender of the message.
func (r *MessageBuffer) Sender() uint32 {
	return r.sender
}

// Op is the opcode of the message.
func (r *MessageBuffer) Op() uint16 {
	return r.op
}

// Size is the total size of the message, including the 8 byte header.
func (r *MessageBuffer) Size() uint16 {
	return r.size
}

// Err returns the first error encountered while decoding arguments.
func (r *MessageBuffer) Err() error {
	if errors.Is(r.err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return r.err
}

// Args returns the arguments that have been decoded so far. It is
// intended for debugging output.
func (r *MessageBuffer) Args() []any {
	return r.args
}

func (r *MessageBuffer) ReadInt() (v int32) {
	if r.err != nil {
		return
	}

	v, r.err = read[int32](&r.data)
	r.args = append(r.args, v)
	return v
}

func (r *MessageBuffer) ReadUint() (v uint32) {
	if r.err != nil {
		return
	}

	v, r.err = read[uint32](&r.data)
	r.args = append(r.args, v)
	return v
}

func (r *MessageBuffer) ReadNewID() NewID {
	return NewID{
		Interface: r.ReadString(),
		Version:   r.ReadUint(),
		ID:        r.ReadUint(),
	}
}

func (r *MessageBuffer) ReadFixed() (v Fixed) {
	if r.err != nil {
		return
	}

	v, r.err = read[Fixed](&r.data)
	r.args = append(r.args, v)
	return v
}

func (r *MessageBuffer) ReadString() string {
	if r.err != nil {
		return ""
	}

	length, err := read[uint32](&r.data)
	if err != nil {
		r.err = err
		return ""
	}
	if length == 0 {
		r.args = append(r.args, nil)
		return ""
	}
	if r.err = r.checkLength("string", length); r.err != nil {
		return ""
	}

	buf := make([]byte, length+padding(length))
	_, r.err = io.ReadFull(&r.data, buf)
	if r.err != nil {
		return ""
	}
	if buf[length-1] != 0 {
		r.err = errors.New("string is not null-terminated")
		return ""
	}

	v := string(buf[:length-1])
	r.args = append(r.args, v)
	return v
}

func (r *MessageBuffer) ReadArray() []byte {
	if r.err != nil {
		return nil
	}

	length, err := read[uint32](&r.data)
	if err != nil {
		r.err = err
		return nil
	}
	if r.err = r.checkLength("array", length); r.err != nil {
		return nil
	}

	buf := make([]byte, length+padding(length))
	_, r.err = io.ReadFull(&r.data, buf)
	if r.err != nil {
		return nil
	}

	r.args = append(r.args, buf[:length])
	return buf[:length]
}

// checkLength rejects a length prefix that is longer than what is
// left of the message.
func (r *MessageBuffer) checkLength(kind string, length uint32) error {
	if int64(length) > int64(r.data.Len()) {
		return fmt.Errorf("%v length %v exceeds remaining message size %v", kind, length, r.data.Len())
	}
	return nil
}

func (r *MessageBuffer) ReadFile() *os.File {
	if r.err != nil {
		return nil
	}

	if r.fdindex >= len(r.fds) {
		r.err = errors.New("no more file descriptors")
		return nil
	}

	f := os.NewFile(uintptr(r.fds[r.fdindex]), "")
	r.fdindex++
	r.args = append(r.args, f)
	return f
}

// Close closes any file descriptors that were received with the
// message but never claimed with ReadFile.
func (r *MessageBuffer) Close() error {
	var errs []error
	for _, fd := range r.fds[r.fdindex:] {
		errs = append(errs, unix.Close(fd))
	}
	r.fdindex = len(r.fds)
	return errors.Join(errs...)
}

// FormatArgs formats a list of decoded or encoded arguments the way
// WAYLAND_DEBUG output usually shows them.
func FormatArgs(args []any) string {
	strs := make([]string, 0, len(args))
	for _, arg := range args {
		switch arg := arg.(type) {
		case nil:
			strs = append(strs, "nil")
		case string:
			strs = append(strs, strconv.Quote(arg))
		case *os.File:
			strs = append(strs, fmt.Sprintf("fd %v", arg.Fd()))
		case []byte:
			strs = append(strs, fmt.Sprintf("array[%v]", len(arg)))
		case Object:
			if isNil(arg) {
				strs = append(strs, "nil")
				continue
			}
			strs = append(strs, fmt.Sprintf("%v@%v", arg.Interface(), arg.ID()))
		default:
			strs = append(strs, fmt.Sprint(arg))
		}
	}
	return strings.Join(strs, ", ")
}
