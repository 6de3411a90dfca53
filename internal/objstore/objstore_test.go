package objstore_test

import (
	"testing"

	"deedles.dev/wlkbd/internal/objstore"
	"deedles.dev/wlkbd/wire"
	"github.com/stretchr/testify/assert"
)

type object struct {
	id      uint32
	deleted bool
}

func (obj *object) ID() uint32                          { return obj.id }
func (obj *object) SetID(id uint32)                     { obj.id = id }
func (obj *object) Interface() string                   { return "test" }
func (obj *object) Dispatch(*wire.MessageBuffer) error { return nil }
func (obj *object) Delete()                             { obj.deleted = true }

func TestStore(t *testing.T) {
	s := objstore.New(1)

	a, b := &object{}, &object{}
	s.Add(a)
	s.Add(b)
	assert.Equal(t, uint32(1), a.ID())
	assert.Equal(t, uint32(2), b.ID())
	assert.Same(t, b, s.Get(2))

	s.Zombify(2)
	assert.Nil(t, s.Get(2))
	assert.True(t, s.IsZombie(2))
	assert.Equal(t, 2, s.Len())

	s.Delete(2)
	assert.True(t, b.deleted)
	assert.False(t, s.IsZombie(2))
	assert.Equal(t, 1, s.Len())

	server := &object{id: 0xFF000000}
	s.Add(server)
	assert.Same(t, server, s.Get(0xFF000000))
}
