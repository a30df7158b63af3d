package ecs

// Builder2 creates entities that start with a fixed pair of components, so
// the common shape of an entity is spelled out once.
type Builder2[T1 any, T2 any] struct {
	world *World
	p1    *Pool[T1]
	p2    *Pool[T2]
	tags  []*Tag
}

// NewBuilder2 returns a builder attaching components from p1 and p2, plus any
// of the given tags, to every entity it creates.
func NewBuilder2[T1 any, T2 any](w *World, p1 *Pool[T1], p2 *Pool[T2], tags ...*Tag) *Builder2[T1, T2] {
	if p1.ID() == p2.ID() {
		panic("ecs: duplicate component types in Builder2")
	}
	return &Builder2[T1, T2]{world: w, p1: p1, p2: p2, tags: tags}
}

// NewEntity creates an entity holding v1 and v2 and the builder's tags.
func (b *Builder2[T1, T2]) NewEntity(v1 T1, v2 T2) Entity {
	e := b.world.CreateEntity()
	b.p1.Add(e, v1)
	b.p2.Add(e, v2)
	for _, t := range b.tags {
		t.Add(e)
	}
	return e
}

// NewEntities creates count entities sharing the same initial values.
func (b *Builder2[T1, T2]) NewEntities(count int, v1 T1, v2 T2) []Entity {
	if count <= 0 {
		return nil
	}
	ents := b.world.CreateEntities(count)
	for _, e := range ents {
		b.p1.Add(e, v1)
		b.p2.Add(e, v2)
		for _, t := range b.tags {
			t.Add(e)
		}
	}
	return ents
}

// Get returns pointers to both components of e, or nils when e lacks either.
func (b *Builder2[T1, T2]) Get(e Entity) (*T1, *T2) {
	c1 := b.p1.Get(e)
	c2 := b.p2.Get(e)
	if c1 == nil || c2 == nil {
		return nil, nil
	}
	return c1, c2
}
