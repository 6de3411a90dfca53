// Package objstore tracks the protocol objects known to one side of a
// connection.
package objstore

import (
	"deedles.dev/wlkbd/internal/set"
	"deedles.dev/wlkbd/wire"
)

type Store struct {
	objects map[uint32]wire.Object
	zombies set.Set[uint32]
	nextID  uint32
}

func New(start uint32) *Store {
	return &Store{
		objects: make(map[uint32]wire.Object),
		zombies: set.New[uint32](),
		nextID:  start,
	}
}

// Add registers obj, assigning it the next free ID if it doesn't
// already have one.
func (s *Store) Add(obj wire.Object) {
	id := obj.ID()
	if id == 0 {
		id = s.nextID
		obj.SetID(id)
		s.nextID++
	}

	s.objects[id] = obj
}

// Get returns the live object with the given ID, or nil if there isn't
// one.
func (s *Store) Get(id uint32) wire.Object {
	if s.zombies.Has(id) {
		return nil
	}
	return s.objects[id]
}

// Zombify marks an object as destroyed by this side of the connection.
// Its ID remains reserved until the other side confirms the deletion.
func (s *Store) Zombify(id uint32) {
	if _, ok := s.objects[id]; ok {
		s.zombies.Add(id)
	}
}

// IsZombie reports whether id belongs to an object that has been
// destroyed but not yet deleted.
func (s *Store) IsZombie(id uint32) bool {
	return s.zombies.Has(id)
}

// Delete releases an ID, calling the object's Delete method.
func (s *Store) Delete(id uint32) {
	obj := s.objects[id]
	delete(s.objects, id)
	s.zombies.Delete(id)
	if obj != nil {
		obj.Delete()
	}
}

// Len returns the number of IDs in use, including zombies.
func (s *Store) Len() int {
	return len(s.objects)
}
