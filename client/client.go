// Package wl implements the client side of the core Wayland protocol.
package wl

import (
	"fmt"

	"deedles.dev/wlkbd/internal/debug"
	"deedles.dev/wlkbd/internal/objstore"
	"deedles.dev/wlkbd/protocol"
	"deedles.dev/wlkbd/wire"
)

// Client is a connection to a Wayland compositor. It is not safe for
// concurrent use. All events are dispatched on the goroutine that
// calls Dispatch or RoundTrip.
type Client struct {
	conn    *wire.Conn
	objects *objstore.Store
	queue   []*wire.MessageBuilder
	display *Display
	err     error
}

// Dial connects to the compositor specified by the environment.
func Dial() (*Client, error) {
	c, err := wire.Dial()
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}

	return NewClient(c), nil
}

// NewClient creates a client that communicates over conn.
func NewClient(conn *wire.Conn) *Client {
	client := Client{
		conn:    conn,
		objects: objstore.New(1),
	}
	client.display = &Display{Proxy: NewProxy(&client)}
	client.Add(client.display)

	return &client
}

// Display returns the wl_display singleton, which always has the ID 1.
func (c *Client) Display() *Display {
	return c.display
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Add registers obj with the client, assigning it a new ID.
func (c *Client) Add(obj wire.Object) {
	c.objects.Add(obj)
}

// Get returns the live object with the given ID.
func (c *Client) Get(id uint32) wire.Object {
	return c.objects.Get(id)
}

// Delete releases the given ID. It is called in response to
// wl_display.delete_id.
func (c *Client) Delete(id uint32) {
	c.objects.Delete(id)
}

// Destroy marks obj as destroyed. Events sent to it before the
// compositor acknowledges the destruction are discarded.
func (c *Client) Destroy(obj wire.Object) {
	c.objects.Zombify(obj.ID())
}

// Enqueue queues a request to be sent on the next Flush.
func (c *Client) Enqueue(msg *wire.MessageBuilder) {
	if msg.Method == "" {
		msg.Method = protocol.RequestName(msg.Sender().Interface(), msg.Op())
	}
	c.queue = append(c.queue, msg)
}

// Flush sends all queued requests.
func (c *Client) Flush() error {
	queue := c.queue
	c.queue = nil

	for i, msg := range queue {
		debug.Printf(" -> %v", msg)
		err := msg.Build(c.conn)
		if err != nil {
			for _, msg := range queue[i+1:] {
				msg.Discard()
			}
			return fmt.Errorf("send %v: %w", msg.Method, err)
		}
	}
	return nil
}

// Dispatch flushes pending requests and then blocks until a single
// event has been received and handled. If the compositor has reported
// a protocol error, it is returned.
func (c *Client) Dispatch() error {
	if c.err != nil {
		return c.err
	}

	err := c.Flush()
	if err != nil {
		return err
	}

	msg, err := wire.ReadMessage(c.conn)
	if err != nil {
		return fmt.Errorf("read message: %w", err)
	}
	defer msg.Close()

	obj := c.objects.Get(msg.Sender())
	if obj == nil {
		if c.objects.IsZombie(msg.Sender()) {
			debug.Printf("discarding event %v for destroyed object %v", msg.Op(), msg.Sender())
			return nil
		}
		return wire.UnknownSenderIDError{Msg: msg}
	}

	err = obj.Dispatch(msg)
	if debug.Enabled() {
		debug.Printf("<-  %v@%v.%v(%v)", obj.Interface(), msg.Sender(), protocol.EventName(obj.Interface(), msg.Op()), wire.FormatArgs(msg.Args()))
	}
	if err != nil {
		return err
	}
	return c.err
}

// RoundTrip blocks until the compositor has processed every request
// sent so far, dispatching events as they arrive.
func (c *Client) RoundTrip() error {
	var done bool
	cb := c.display.Sync()
	cb.Listener = CallbackFunc(func(uint32) { done = true })

	for !done {
		err := c.Dispatch()
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// Proxy is embedded by every protocol object to provide the common
// parts of wire.Object.
type Proxy struct {
	id     uint32
	client *Client
}

// NewProxy returns a Proxy that belongs to c.
func NewProxy(c *Client) Proxy {
	return Proxy{client: c}
}

func (p *Proxy) ID() uint32 {
	return p.id
}

func (p *Proxy) SetID(id uint32) {
	p.id = id
}

// Client returns the client that the object belongs to.
func (p *Proxy) Client() *Client {
	return p.client
}

// Delete implements wire.Object. It does nothing by default.
func (p *Proxy) Delete() {}
