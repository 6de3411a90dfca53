package wire

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sys/unix"
)

// RuntimeDir returns $XDG_RUNTIME_DIR, falling back to the
// conventional per-user directory if it is not set.
func RuntimeDir() string {
	dir, ok := os.LookupEnv("XDG_RUNTIME_DIR")
	if ok {
		return dir
	}
	return fmt.Sprintf("/var/run/user/%v", os.Getuid())
}

// SocketPath determines the path to the Wayland Unix domain socket
// based on the contents of the $WAYLAND_DISPLAY environment variable.
// It does not attempt to determine if the value corresponds to an
// actual socket.
func SocketPath() string {
	v, ok := os.LookupEnv("WAYLAND_DISPLAY")
	if !ok {
		v = "wayland-0"
	}
	if filepath.IsAbs(v) {
		return v
	}

	return filepath.Join(RuntimeDir(), v)
}

// Conn represents a low-level Wayland connection. It is not generally
// used directly, instead being handled automatically by a Client.
type Conn struct {
	conn *net.UnixConn
}

// NewConn creates a new Conn that wraps c. After this is called, use
// the provided Close method to close c instead of calling its own
// Close method.
func NewConn(c *net.UnixConn) *Conn {
	return &Conn{
		conn: c,
	}
}

// Pipe returns a pair of connected Conns backed by a Unix socket pair.
// It is mostly useful for tests.
func Pipe() (*Conn, *Conn, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("socketpair: %w", err)
	}

	c1, err := fileConn(fds[0], "wayland-client")
	if err != nil {
		unix.Close(fds[1])
		return nil, nil, err
	}
	c2, err := fileConn(fds[1], "wayland-server")
	if err != nil {
		c1.Close()
		return nil, nil, err
	}
	return c1, c2, nil
}

func fileConn(fd int, name string) (*Conn, error) {
	file := os.NewFile(uintptr(fd), name)
	defer file.Close()

	c, err := net.FileConn(file)
	if err != nil {
		return nil, fmt.Errorf("open %v connection: %w", name, err)
	}
	return NewConn(c.(*net.UnixConn)), nil
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// Dial opens a connection to the Wayland socket based on the current
// environment. It follows the procedure outlined at
// https://wayland-book.com/protocol-design/wire-protocol.html#transports
func Dial() (*Conn, error) {
	if v, ok := os.LookupEnv("WAYLAND_SOCKET"); ok {
		fd, err := strconv.ParseInt(v, 10, 0)
		if err != nil {
			return nil, fmt.Errorf("parse WAYLAND_SOCKET fd: %w", err)
		}
		return fileConn(int(fd), "WAYLAND_SOCKET")
	}

	s, err := net.Dial("unix", SocketPath())
	if err != nil {
		return nil, err
	}
	return NewConn(s.(*net.UnixConn)), nil
}
