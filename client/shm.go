package wl

import (
	"os"

	"deedles.dev/wlkbd/wire"
)

const (
	ShmInterface = "wl_shm"
	ShmVersion   = 1
)

const (
	shmCreatePool = 0

	shmFormat = 0
)

// ShmFormat is a pixel format. Only the two formats that every
// compositor must support are named here.
type ShmFormat uint32

const (
	ShmFormatArgb8888 ShmFormat = 0
	ShmFormatXrgb8888 ShmFormat = 1
)

func (f ShmFormat) String() string {
	switch f {
	case ShmFormatArgb8888:
		return "argb8888"
	case ShmFormatXrgb8888:
		return "xrgb8888"
	}

	return "unknown"
}

type ShmListener interface {
	Format(format ShmFormat)
}

type Shm struct {
	Proxy
	Listener ShmListener
}

func BindShm(client *Client, registry *Registry, name, version uint32) *Shm {
	shm := &Shm{Proxy: NewProxy(client)}
	registry.Bind(name, shm, min(version, ShmVersion))
	return shm
}

func (shm *Shm) Interface() string {
	return ShmInterface
}

// CreatePool creates a pool backed by file. The file can be closed
// once the request has been flushed.
func (shm *Shm) CreatePool(file *os.File, size int32) *ShmPool {
	pool := &ShmPool{Proxy: NewProxy(shm.client)}
	shm.client.Add(pool)

	msg := wire.NewMessage(shm, shmCreatePool)
	msg.WriteUint(pool.ID())
	msg.WriteFile(file)
	msg.WriteInt(size)
	shm.client.Enqueue(msg)

	return pool
}

func (shm *Shm) Dispatch(msg *wire.MessageBuffer) error {
	switch msg.Op() {
	case shmFormat:
		format := msg.ReadUint()
		if err := msg.Err(); err != nil {
			return err
		}

		if shm.Listener != nil {
			shm.Listener.Format(ShmFormat(format))
		}
		return nil

	default:
		return wire.UnknownOpError{Interface: ShmInterface, Type: "event", Op: msg.Op()}
	}
}
