package ecs

import "reflect"

// Pool stores one component of type T per entity in a packed slice. Add,
// Get, Has and Remove are O(1). Removal moves the last element into the freed
// slot, so a pointer returned by Get is only valid until the next Remove on
// the same pool.
type Pool[T any] struct {
	set    sparseSet
	values []T
}

// NewPool registers a pool for T in w. Each call creates a distinct pool, so
// the same Go type may back several independent components.
//
// Parameters:
//   - w: The World the pool belongs to.
//
// Returns:
//   - A pointer to the newly registered `Pool[T]`.
func NewPool[T any](w *World) *Pool[T] {
	p := &Pool[T]{}
	p.set.world = w
	p.set.id = w.register(p, reflect.TypeFor[T]().String())
	return p
}

// ID returns the component ID of the pool.
func (p *Pool[T]) ID() ComponentID {
	return p.set.id
}

func (p *Pool[T]) members() *sparseSet {
	return &p.set
}

// Add attaches val to e, or overwrites the existing value. It returns a
// pointer to the stored value, or nil when e is not alive.
func (p *Pool[T]) Add(e Entity, val T) *T {
	if !p.set.world.IsValid(e) {
		return nil
	}
	if i := p.set.index(e); i >= 0 {
		p.values[i] = val
		return &p.values[i]
	}
	p.set.insert(e)
	p.values = append(p.values, val)
	return &p.values[len(p.values)-1]
}

// Get returns a pointer to e's component, or nil if e does not have one or is
// not alive.
func (p *Pool[T]) Get(e Entity) *T {
	if !p.set.world.IsValid(e) {
		return nil
	}
	i := p.set.index(e)
	if i < 0 {
		return nil
	}
	return &p.values[i]
}

// Has reports whether e currently holds a component in this pool.
func (p *Pool[T]) Has(e Entity) bool {
	return p.set.world.IsValid(e) && p.set.index(e) >= 0
}

// Remove detaches e's component. It reports whether anything was removed.
func (p *Pool[T]) Remove(e Entity) bool {
	at, last := p.set.remove(e)
	if at < 0 {
		return false
	}
	if at != last {
		p.values[at] = p.values[last]
	}
	var zero T
	p.values[last] = zero
	p.values = p.values[:last]
	return true
}

// Len returns the number of entities holding this component.
func (p *Pool[T]) Len() int {
	return len(p.set.dense)
}

// Entities returns the owners of the pool in storage order.
// Note: The returned slice is owned by the Pool and is invalidated by the next
// Add or Remove. Copy it before mutating the pool.
func (p *Pool[T]) Entities() []Entity {
	return p.set.dense
}

func (p *Pool[T]) erase(e Entity) {
	p.Remove(e)
}

func (p *Pool[T]) reset() {
	p.set.clear()
	clear(p.values)
	p.values = p.values[:0]
}

// Tag is a value-less component: membership is the whole payload.
type Tag struct {
	set sparseSet
}

// NewTag registers a tag in w under the given diagnostic name.
func NewTag(w *World, name string) *Tag {
	t := &Tag{}
	t.set.world = w
	t.set.id = w.register(t, name)
	return t
}

// ID returns the component ID of the tag.
func (t *Tag) ID() ComponentID {
	return t.set.id
}

func (t *Tag) members() *sparseSet {
	return &t.set
}

// Add marks e. It reports false when e is not alive; adding twice is a no-op.
func (t *Tag) Add(e Entity) bool {
	if !t.set.world.IsValid(e) {
		return false
	}
	if t.set.index(e) < 0 {
		t.set.insert(e)
	}
	return true
}

// Has reports whether e carries the tag.
func (t *Tag) Has(e Entity) bool {
	return t.set.world.IsValid(e) && t.set.index(e) >= 0
}

// Remove clears the tag from e and reports whether it was present.
func (t *Tag) Remove(e Entity) bool {
	at, _ := t.set.remove(e)
	return at >= 0
}

// Len returns the number of tagged entities.
func (t *Tag) Len() int {
	return len(t.set.dense)
}

// Entities returns the tagged entities. The slice is owned by the Tag.
func (t *Tag) Entities() []Entity {
	return t.set.dense
}

func (t *Tag) erase(e Entity) {
	t.set.remove(e)
}

func (t *Tag) reset() {
	t.set.clear()
}
