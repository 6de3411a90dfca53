// Package wltest provides an in-process fake compositor for tests. It
// speaks the wire protocol over a socket pair and implements just
// enough compositor behavior to drive a client through setup and a
// few frames.
package wltest

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"testing"

	"deedles.dev/wlkbd/protocol"
	"deedles.dev/wlkbd/wire"
)

// Global is a global that the server announces.
type Global struct {
	Interface string
	Version   uint32
}

// Output describes an output that the server announces.
type Output struct {
	Name          string
	Width, Height int32

	// LogicalWidth and LogicalHeight are reported through xdg-output.
	// If they are zero, the mode size is used.
	LogicalWidth, LogicalHeight int32
}

// Config configures a Server.
type Config struct {
	Globals []Global
	Outputs []Output

	// PingOnBind makes the server ping every xdg_wm_base as soon as it
	// is bound.
	PingOnBind bool

	// NoOutputDone stops the server from ever sending a done event for
	// an output's properties.
	NoOutputDone bool
}

// DefaultGlobals returns every global a keyboard overlay needs.
func DefaultGlobals() []Global {
	return []Global{
		{"wl_compositor", 4},
		{"wl_shm", 1},
		{"wl_seat", 5},
		{"zwlr_layer_shell_v1", 4},
		{"xdg_wm_base", 2},
		{"zxdg_output_manager_v1", 3},
		{"zwp_virtual_keyboard_manager_v1", 1},
	}
}

// Request is a request that the server has received.
type Request struct {
	Interface string
	ID        uint32
	Method    string
	Args      []any
}

type object struct {
	id      uint32
	iface   string
	version uint32
	data    any
}

func (obj *object) ID() uint32                          { return obj.id }
func (obj *object) SetID(id uint32)                     { obj.id = id }
func (obj *object) Interface() string                   { return obj.iface }
func (obj *object) Dispatch(*wire.MessageBuffer) error { return nil }
func (obj *object) Delete()                             {}

type surfaceState struct {
	pending   uint32
	committed uint32
	frames    []uint32
	layer     uint32
}

type layerState struct {
	surface uint32
	output  uint32
	width   uint32
	height  uint32
	sent    bool
	sentW   uint32
	sentH   uint32
	serial  uint32
	acked   uint32
}

// Server is a fake compositor.
type Server struct {
	t    testing.TB
	conn *wire.Conn
	cfg  Config

	m        sync.Mutex
	objects  map[uint32]*object
	globals  map[uint32]Global
	requests []Request
	files    []*os.File
	serial   uint32
	err      error
	done     chan struct{}
}

// NewServer starts a fake compositor and returns it along with the
// client end of the connection.
func NewServer(t testing.TB, cfg Config) (*Server, *wire.Conn) {
	client, server, err := wire.Pipe()
	if err != nil {
		t.Fatalf("create pipe: %v", err)
	}

	s := Server{
		t:       t,
		conn:    server,
		cfg:     cfg,
		objects: make(map[uint32]*object),
		globals: make(map[uint32]Global),
		done:    make(chan struct{}),
	}
	s.objects[1] = &object{id: 1, iface: "wl_display", version: 1}

	var name uint32 = 1
	for _, g := range cfg.Globals {
		s.globals[name] = g
		name++
	}
	for range cfg.Outputs {
		s.globals[name] = Global{Interface: "wl_output", Version: 4}
		name++
	}

	go s.run()
	t.Cleanup(func() {
		client.Close()
		server.Close()
		<-s.done
		s.m.Lock()
		defer s.m.Unlock()
		for _, f := range s.files {
			f.Close()
		}
	})

	return &s, client
}

func (s *Server) run() {
	defer close(s.done)

	for {
		msg, err := wire.ReadMessage(s.conn)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				s.fail(err)
			}
			return
		}

		err = s.handle(msg)
		msg.Close()
		if err != nil {
			s.fail(err)
			return
		}
	}
}

func (s *Server) fail(err error) {
	s.m.Lock()
	defer s.m.Unlock()

	if s.err == nil {
		s.err = err
	}
}

// Err returns the first error that the server encountered, such as a
// malformed request.
func (s *Server) Err() error {
	s.m.Lock()
	defer s.m.Unlock()

	return s.err
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.m.Lock()
	defer s.m.Unlock()

	return append([]Request(nil), s.requests...)
}

// Find returns the requests with the given interface and method.
func (s *Server) Find(iface, method string) []Request {
	var found []Request
	for _, r := range s.Requests() {
		if (r.Interface == iface) && (r.Method == method) {
			found = append(found, r)
		}
	}
	return found
}

// Objects returns the IDs of all live objects implementing iface.
func (s *Server) Objects(iface string) []uint32 {
	s.m.Lock()
	defer s.m.Unlock()

	var ids []uint32
	for id, obj := range s.objects {
		if obj.iface == iface {
			ids = append(ids, id)
		}
	}
	return ids
}

// Send sends an event from the object with the given ID. Arguments are
// encoded according to their Go types.
func (s *Server) Send(id uint32, event string, args ...any) {
	s.m.Lock()
	defer s.m.Unlock()

	err := s.send(id, event, args...)
	if err != nil {
		s.t.Errorf("send %v: %v", event, err)
	}
}

func (s *Server) send(id uint32, event string, args ...any) error {
	obj, ok := s.objects[id]
	if !ok {
		return fmt.Errorf("no object with ID %v", id)
	}

	iface, ok := protocol.Lookup(obj.iface)
	if !ok {
		return fmt.Errorf("unknown interface %q", obj.iface)
	}
	op, ok := iface.Event(event)
	if !ok {
		return fmt.Errorf("unknown event %v.%v", obj.iface, event)
	}

	msg := wire.NewMessage(obj, op)
	msg.Method = event
	for _, arg := range args {
		switch arg := arg.(type) {
		case int32:
			msg.WriteInt(arg)
		case uint32:
			msg.WriteUint(arg)
		case wire.Fixed:
			msg.WriteFixed(arg)
		case string:
			msg.WriteString(arg)
		case []byte:
			msg.WriteArray(arg)
		case *os.File:
			msg.WriteFile(arg)
		default:
			msg.Discard()
			return fmt.Errorf("unsupported argument type %T", arg)
		}
	}
	return msg.Build(s.conn)
}

func (s *Server) nextSerial() uint32 {
	s.serial++
	return s.serial
}

func (s *Server) handle(msg *wire.MessageBuffer) error {
	s.m.Lock()
	defer s.m.Unlock()

	obj, ok := s.objects[msg.Sender()]
	if !ok {
		return wire.UnknownSenderIDError{Msg: msg}
	}

	iface, ok := protocol.Lookup(obj.iface)
	if !ok || int(msg.Op()) >= len(iface.Requests) {
		return wire.UnknownOpError{Interface: obj.iface, Type: "request", Op: msg.Op()}
	}
	op := iface.Requests[msg.Op()]

	args := make([]any, 0, len(op.Args))
	for _, arg := range op.Args {
		switch arg.Type {
		case "int":
			args = append(args, msg.ReadInt())
		case "uint", "object":
			args = append(args, msg.ReadUint())
		case "fixed":
			args = append(args, msg.ReadFixed())
		case "string":
			args = append(args, msg.ReadString())
		case "array":
			args = append(args, msg.ReadArray())
		case "fd":
			f := msg.ReadFile()
			if f != nil {
				s.files = append(s.files, f)
			}
			args = append(args, f)
		case "new_id":
			if arg.Interface == "" {
				nid := msg.ReadNewID()
				s.objects[nid.ID] = &object{id: nid.ID, iface: nid.Interface, version: nid.Version}
				args = append(args, nid)
				continue
			}
			id := msg.ReadUint()
			s.objects[id] = &object{id: id, iface: arg.Interface, version: obj.version}
			args = append(args, id)
		default:
			return fmt.Errorf("unsupported argument type %q", arg.Type)
		}
	}
	if err := msg.Err(); err != nil {
		return fmt.Errorf("decode %v.%v: %w", obj.iface, op.Name, err)
	}

	s.requests = append(s.requests, Request{
		Interface: obj.iface,
		ID:        obj.id,
		Method:    op.Name,
		Args:      args,
	})

	err := s.respond(obj, op.Name, args)
	if err != nil {
		return fmt.Errorf("respond to %v.%v: %w", obj.iface, op.Name, err)
	}

	if op.Destructor() {
		delete(s.objects, obj.id)
		return s.send(1, "delete_id", obj.id)
	}
	return nil
}
