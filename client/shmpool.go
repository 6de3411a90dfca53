package wl

import "deedles.dev/wlkbd/wire"

const (
	ShmPoolInterface = "wl_shm_pool"
	ShmPoolVersion   = 1
)

const (
	shmPoolCreateBuffer = 0
	shmPoolDestroy      = 1
	shmPoolResize       = 2
)

type ShmPool struct {
	Proxy
}

func (pool *ShmPool) Interface() string {
	return ShmPoolInterface
}

func (pool *ShmPool) CreateBuffer(offset, width, height, stride int32, format ShmFormat) *Buffer {
	buf := &Buffer{Proxy: NewProxy(pool.client)}
	pool.client.Add(buf)

	msg := wire.NewMessage(pool, shmPoolCreateBuffer)
	msg.WriteUint(buf.ID())
	msg.WriteInt(offset)
	msg.WriteInt(width)
	msg.WriteInt(height)
	msg.WriteInt(stride)
	msg.WriteUint(uint32(format))
	pool.client.Enqueue(msg)

	return buf
}

// Destroy destroys the pool. Buffers created from it remain valid.
func (pool *ShmPool) Destroy() {
	pool.client.Enqueue(wire.NewMessage(pool, shmPoolDestroy))
	pool.client.Destroy(pool)
}

// Resize grows the pool. Pools can never shrink.
func (pool *ShmPool) Resize(size int32) {
	msg := wire.NewMessage(pool, shmPoolResize)
	msg.WriteInt(size)
	pool.client.Enqueue(msg)
}

func (pool *ShmPool) Dispatch(msg *wire.MessageBuffer) error {
	return wire.UnknownOpError{Interface: ShmPoolInterface, Type: "event", Op: msg.Op()}
}
