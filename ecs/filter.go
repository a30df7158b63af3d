package ecs

// queryCache keeps the last result of a filter together with the membership
// versions of the sets it was computed from.
type queryCache struct {
	entities []Entity
	versions []uint32
	built    bool
}

// Filter selects the entities that hold every included component and none of
// the excluded ones. Results are cached: Entities rebuilds the snapshot only
// after one of the defining sets gained or lost a member, so adding an
// unrelated component never invalidates it.
type Filter struct {
	queryCache
	world   *World
	include []*sparseSet
	exclude []*sparseSet
	incMask bitmask256
	excMask bitmask256
}

// NewFilter creates a filter over the given components. At least one include
// component is required.
//
// Example:
//
//	moving := ecs.NewFilter(world, positions, velocities).Without(frozen)
//	for _, e := range moving.Entities() {
//	    // ... process entity
//	}
func NewFilter(w *World, include ...Component) *Filter {
	if len(include) == 0 {
		panic("ecs: filter needs at least one component")
	}
	f := &Filter{world: w}
	for _, c := range include {
		s := c.members()
		if f.incMask.containsBit(s.id) {
			panic("ecs: duplicate component types in filter")
		}
		f.incMask.set(s.id)
		f.include = append(f.include, s)
	}
	return f
}

// Without excludes entities holding any of the given components.
func (f *Filter) Without(exclude ...Component) *Filter {
	for _, c := range exclude {
		s := c.members()
		if f.incMask.containsBit(s.id) {
			panic("ecs: component both included and excluded")
		}
		if f.excMask.containsBit(s.id) {
			continue
		}
		f.excMask.set(s.id)
		f.exclude = append(f.exclude, s)
	}
	f.built = false
	return f
}

// IsStale reports whether the cached snapshot no longer reflects the pools.
func (f *Filter) IsStale() bool {
	if !f.built {
		return true
	}
	i := 0
	for _, s := range f.include {
		if f.versions[i] != s.version {
			return true
		}
		i++
	}
	for _, s := range f.exclude {
		if f.versions[i] != s.version {
			return true
		}
		i++
	}
	return false
}

// Entities returns all entities that match the filter.
// Note: The returned slice is owned by the Filter and is overwritten by the
// next rebuild. Copy it if the pools may change while you iterate.
func (f *Filter) Entities() []Entity {
	if f.IsStale() {
		f.rebuild()
	}
	return f.entities
}

// Len returns the number of matching entities.
func (f *Filter) Len() int {
	return len(f.Entities())
}

// Matches reports whether e currently satisfies the filter, without touching
// the cache.
func (f *Filter) Matches(e Entity) bool {
	if !f.world.IsValid(e) {
		return false
	}
	mask := f.world.entities.metas[e.ID].mask
	return mask.contains(f.incMask) && !mask.intersects(f.excMask)
}

func (f *Filter) rebuild() {
	smallest := f.include[0]
	for _, s := range f.include[1:] {
		if len(s.dense) < len(smallest.dense) {
			smallest = s
		}
	}
	f.entities = f.entities[:0]
	metas := f.world.entities.metas
	for _, e := range smallest.dense {
		mask := metas[e.ID].mask
		if mask.contains(f.incMask) && !mask.intersects(f.excMask) {
			f.entities = append(f.entities, e)
		}
	}
	f.versions = f.versions[:0]
	for _, s := range f.include {
		f.versions = append(f.versions, s.version)
	}
	for _, s := range f.exclude {
		f.versions = append(f.versions, s.version)
	}
	f.built = true
}
