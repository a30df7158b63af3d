package ecs

// ComponentID is the slot a pool or tag occupies in a World's registry and
// in every entity's mask.
type ComponentID uint8

// storage is what the World needs from a pool to destroy entities.
type storage interface {
	erase(e Entity)
	reset()
}

// Component is implemented by *Pool[T] and *Tag. Filters are built from it.
type Component interface {
	ID() ComponentID
	members() *sparseSet
}

// sparseSet tracks which entities belong to one pool. dense holds the owners
// packed; sparse maps an entity ID to its dense index plus one, so the zero
// value means absent and the slice can grow without initialisation.
type sparseSet struct {
	world   *World
	dense   []Entity
	sparse  []uint32
	version uint32 // bumped on every membership change
	id      ComponentID
}

func (s *sparseSet) index(e Entity) int {
	if int(e.ID) >= len(s.sparse) {
		return -1
	}
	i := s.sparse[e.ID]
	if i == 0 || s.dense[i-1] != e {
		return -1
	}
	return int(i - 1)
}

// insert appends e and returns its dense index. e must not be present.
func (s *sparseSet) insert(e Entity) int {
	if int(e.ID) >= len(s.sparse) {
		n := max(int(e.ID)+1, 2*len(s.sparse))
		grown := make([]uint32, n)
		copy(grown, s.sparse)
		s.sparse = grown
	}
	s.dense = append(s.dense, e)
	s.sparse[e.ID] = uint32(len(s.dense))
	s.world.entities.metas[e.ID].mask.set(s.id)
	s.version++
	return len(s.dense) - 1
}

// remove swaps the last member into e's slot. It returns the vacated index
// and the index that was moved into it, or -1 when e was absent.
func (s *sparseSet) remove(e Entity) (at, last int) {
	at = s.index(e)
	if at < 0 {
		return -1, -1
	}
	last = len(s.dense) - 1
	if at != last {
		moved := s.dense[last]
		s.dense[at] = moved
		s.sparse[moved.ID] = uint32(at + 1)
	}
	s.dense = s.dense[:last]
	s.sparse[e.ID] = 0
	if int(e.ID) < len(s.world.entities.metas) {
		s.world.entities.metas[e.ID].mask.unset(s.id)
	}
	s.version++
	return at, last
}

func (s *sparseSet) clear() {
	for _, e := range s.dense {
		s.sparse[e.ID] = 0
	}
	s.dense = s.dense[:0]
	s.version++
}
