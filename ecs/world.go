// Package ecs is the entity store behind lazytween: generation-checked
// entity handles, per-type sparse component pools, value-less tags, cached
// filters and a small typed event bus.
//
// The store is single-threaded. Nothing in it locks; callers that share a
// World across goroutines must serialise access themselves.
package ecs

import "fmt"

// MaxComponentTypes defines the maximum number of pools and tags that can be
// registered in a World. This value is fixed at 256.
const MaxComponentTypes = 256

// Entity represents a unique identifier for an object in the World. It combines
// a 32-bit ID with a 32-bit version to ensure that recycled IDs are not confused
// with new entities.
type Entity struct {
	// ID is the unique, recyclable identifier for the entity.
	ID uint32
	// Version is a generation counter to protect against stale entity references.
	// Every created entity receives a fresh version; 0 is never handed out.
	Version uint32
}

// IsZero reports whether e is the zero handle, which never resolves.
func (e Entity) IsZero() bool {
	return e.Version == 0
}

// String formats the entity as id@version.
func (e Entity) String() string {
	return fmt.Sprintf("%d@%d", e.ID, e.Version)
}

// entityMeta holds the per-slot state of an entity.
type entityMeta struct {
	mask    bitmask256 // which pools and tags hold this entity
	version uint32     // current version, 0 if the slot is free
}

// entityRegistry owns slot allocation and recycling.
type entityRegistry struct {
	freeIDs         []uint32     // stack of recycled entity IDs
	metas           []entityMeta // stores metadata for each entity, indexed by entity ID
	capacity        int          // current maximum number of entities
	initialCapacity int          // initial capacity, used for expansion
	nextEntityVer   uint32       // version for the next created entity
	alive           int          // number of live entities
}

// componentRegistry maps component IDs to their storage.
type componentRegistry struct {
	stores [MaxComponentTypes]storage
	names  [MaxComponentTypes]string
	nextID uint16
}

// World owns every entity slot and every registered pool. Pools and tags are
// created against a World and live exactly as long as it does.
type World struct {
	entities   entityRegistry
	components componentRegistry
}

// NewWorld creates and initializes a new World with a specified initial
// capacity for entities. It pre-allocates memory for the entity metadata and
// free ID list so that steady-state creation does not allocate.
//
// Parameters:
//   - initialCapacity: The number of entities to pre-allocate memory for.
//
// Returns:
//   - The newly created World.
func NewWorld(initialCapacity int) *World {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	w := &World{
		entities: entityRegistry{
			capacity:        initialCapacity,
			initialCapacity: initialCapacity,
			freeIDs:         make([]uint32, initialCapacity),
			metas:           make([]entityMeta, initialCapacity),
			nextEntityVer:   1,
		},
	}
	for i := range w.entities.freeIDs {
		w.entities.freeIDs[i] = uint32(initialCapacity - 1 - i)
	}
	return w
}

// register assigns the next component ID to s.
func (w *World) register(s storage, name string) ComponentID {
	if w.components.nextID >= MaxComponentTypes {
		panic("ecs: too many component types")
	}
	id := ComponentID(w.components.nextID)
	w.components.stores[id] = s
	w.components.names[id] = name
	w.components.nextID++
	return id
}

// ComponentName returns the diagnostic name a pool or tag was registered with.
func (w *World) ComponentName(id ComponentID) string {
	return w.components.names[id]
}

// expand automatically increases capacity when full.
func (w *World) expand(additional int) {
	oldCap := w.entities.capacity
	newCap := oldCap * 2
	if newCap == 0 {
		newCap = 1
	}
	if newCap < oldCap+additional {
		newCap = oldCap + additional
	}
	delta := newCap - oldCap
	w.entities.metas = append(w.entities.metas, make([]entityMeta, delta)...)
	newFree := make([]uint32, delta)
	for i := range delta {
		newFree[i] = uint32(newCap - 1 - i)
	}
	w.entities.freeIDs = append(w.entities.freeIDs, newFree...)
	w.entities.capacity = newCap
}

// CreateEntity creates a new entity with no components.
func (w *World) CreateEntity() Entity {
	if len(w.entities.freeIDs) == 0 {
		w.expand(1)
	}
	last := len(w.entities.freeIDs) - 1
	id := w.entities.freeIDs[last]
	w.entities.freeIDs = w.entities.freeIDs[:last]
	meta := &w.entities.metas[id]
	meta.version = w.entities.nextEntityVer
	meta.mask = bitmask256{}
	w.entities.nextEntityVer++
	if w.entities.nextEntityVer == 0 {
		w.entities.nextEntityVer = 1
	}
	w.entities.alive++
	return Entity{ID: id, Version: meta.version}
}

// CreateEntities creates a batch of entities with no components and returns
// their handles.
func (w *World) CreateEntities(count int) []Entity {
	if count <= 0 {
		return nil
	}
	if len(w.entities.freeIDs) < count {
		w.expand(count - len(w.entities.freeIDs))
	}
	ents := make([]Entity, count)
	for i := range ents {
		ents[i] = w.CreateEntity()
	}
	return ents
}

// RemoveEntity destroys e: every component it holds is dropped from its pool,
// the slot's version is invalidated and the ID is recycled. Stale handles are
// ignored.
func (w *World) RemoveEntity(e Entity) {
	if !w.IsValid(e) {
		return
	}
	meta := &w.entities.metas[e.ID]
	mask := meta.mask
	mask.forEach(func(id ComponentID) {
		w.components.stores[id].erase(e)
	})
	meta.mask = bitmask256{}
	meta.version = 0
	w.entities.freeIDs = append(w.entities.freeIDs, e.ID)
	w.entities.alive--
}

// IsValid checks if the entity is currently alive in the world. An entity is
// valid if its ID is within bounds and its version matches the world's current
// version for that ID.
func (w *World) IsValid(e Entity) bool {
	if int(e.ID) >= len(w.entities.metas) {
		return false
	}
	meta := w.entities.metas[e.ID]
	return meta.version != 0 && meta.version == e.Version
}

// Resolve maps a handle to its slot index. It fails softly: stale or unknown
// handles return false instead of panicking.
func (w *World) Resolve(e Entity) (uint32, bool) {
	if !w.IsValid(e) {
		return 0, false
	}
	return e.ID, true
}

// Has reports whether e holds the pool or tag registered under id.
func (w *World) Has(e Entity, id ComponentID) bool {
	if !w.IsValid(e) {
		return false
	}
	return w.entities.metas[e.ID].mask.containsBit(id)
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return w.entities.alive
}

// ClearEntities removes all entities from the world and empties every pool.
// Registered pools stay usable. Versions keep counting up, so handles taken
// before the clear never resolve afterwards.
func (w *World) ClearEntities() {
	for i := range w.entities.metas {
		w.entities.metas[i] = entityMeta{}
	}
	w.entities.freeIDs = w.entities.freeIDs[:0]
	for i := w.entities.capacity - 1; i >= 0; i-- {
		w.entities.freeIDs = append(w.entities.freeIDs, uint32(i))
	}
	for id := 0; id < int(w.components.nextID); id++ {
		w.components.stores[id].reset()
	}
	w.entities.alive = 0
}
