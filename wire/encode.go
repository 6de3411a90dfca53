package wire

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// MessageBuilder is a message that is under construction.
type MessageBuilder struct {
	// Method is the name of the method being called. It is included
	// purely for debugging purposes.
	Method string

	sender Object
	op     uint16
	data   bytes.Buffer
	fds    []int
	args   []any
	err    error
}

func NewMessage(sender Object, op uint16) *MessageBuilder {
	return &MessageBuilder{
		sender: sender,
		op:     op,
	}
}

func (mb *MessageBuilder) Sender() Object {
	return mb.sender
}

func (mb *MessageBuilder) Op() uint16 {
	return mb.op
}

// Args returns the arguments that have been written so far.
func (mb *MessageBuilder) Args() []any {
	return mb.args
}

// Err returns the first error encountered while building the message.
func (mb *MessageBuilder) Err() error {
	return mb.err
}

func (mb *MessageBuilder) WriteInt(v int32) {
	if mb.err != nil {
		return
	}

	mb.err = write(&mb.data, v)
	mb.args = append(mb.args, v)
}

func (mb *MessageBuilder) WriteUint(v uint32) {
	if mb.err != nil {
		return
	}

	mb.err = write(&mb.data, v)
	mb.args = append(mb.args, v)
}

func (mb *MessageBuilder) WriteObject(v Object) {
	if mb.err != nil {
		return
	}

	var id uint32
	if !isNil(v) {
		id = v.ID()
	}
	mb.err = write(&mb.data, id)
	mb.args = append(mb.args, v)
}

func (mb *MessageBuilder) WriteNewID(v NewID) {
	mb.WriteString(v.Interface)
	mb.WriteUint(v.Version)
	mb.WriteUint(v.ID)
}

func (mb *MessageBuilder) WriteFixed(v Fixed) {
	if mb.err != nil {
		return
	}

	mb.err = write(&mb.data, v)
	mb.args = append(mb.args, v)
}

func (mb *MessageBuilder) WriteString(v string) {
	if mb.err != nil {
		return
	}

	length := uint32(len(v) + 1)
	mb.err = write(&mb.data, length)
	mb.data.WriteString(v)
	mb.data.WriteByte(0)
	mb.data.Write(make([]byte, padding(length)))
	mb.args = append(mb.args, v)
}

func (mb *MessageBuilder) WriteArray(v []byte) {
	if mb.err != nil {
		return
	}

	length := uint32(len(v))
	mb.err = write(&mb.data, length)
	mb.data.Write(v)
	mb.data.Write(make([]byte, padding(length)))
	mb.args = append(mb.args, v)
}

// WriteFile duplicates the file descriptor of v and attaches the
// duplicate to the message. The caller remains responsible for
// closing v.
func (mb *MessageBuilder) WriteFile(v *os.File) {
	if mb.err != nil {
		return
	}

	fd, err := unix.FcntlInt(v.Fd(), unix.F_DUPFD_CLOEXEC, 0)
	if err != nil {
		mb.err = fmt.Errorf("dup fd: %w", err)
		return
	}

	mb.fds = append(mb.fds, fd)
	mb.args = append(mb.args, v)
}

// Build builds the message and sends it to c. The MessageBuilder
// should not be used again after this method is called.
func (mb *MessageBuilder) Build(c *Conn) error {
	defer mb.close()

	if mb.err != nil {
		return mb.err
	}

	length := uint32(8 + mb.data.Len())
	if length > 0xFFFF {
		return fmt.Errorf("message too large: %v bytes", length)
	}

	msg := bytes.NewBuffer(make([]byte, 0, length))
	write(msg, mb.sender.ID())
	write(msg, (length<<16)|uint32(mb.op))
	msg.Write(mb.data.Bytes())

	var oob []byte
	if len(mb.fds) > 0 {
		oob = unix.UnixRights(mb.fds...)
	}

	_, _, err := c.conn.WriteMsgUnix(msg.Bytes(), oob, nil)
	return err
}

// Discard releases the resources held by a message that will not be
// sent.
func (mb *MessageBuilder) Discard() {
	mb.close()
}

func (mb *MessageBuilder) close() {
	errs := make([]error, 0, len(mb.fds))
	for _, fd := range mb.fds {
		errs = append(errs, unix.Close(fd))
	}
	if mb.err == nil {
		mb.err = errors.Join(errs...)
	}
	mb.fds = nil
}

func (mb *MessageBuilder) String() string {
	return fmt.Sprintf("%v@%v.%v(%v)", mb.sender.Interface(), mb.sender.ID(), mb.Method, FormatArgs(mb.args))
}

func isNil(v any) bool {
	return (v == nil) || ((*[2]uintptr)(unsafe.Pointer(&v))[1] == 0)
}
