package ecs

import "math/bits"

// bitmask256 represents a set of up to 256 component IDs. Every live entity
// carries one, so filters can test membership without touching the pools.
type bitmask256 [4]uint64

// set enables the bit corresponding to the given component ID.
func (m *bitmask256) set(bit ComponentID) {
	i := bit >> 6 // (bit / 64) to find the uint64 index
	o := bit & 63 // (bit % 64) to find the bit offset
	m[i] |= uint64(1) << uint64(o)
}

// unset disables the bit corresponding to the given component ID.
func (m *bitmask256) unset(bit ComponentID) {
	i := bit >> 6
	o := bit & 63
	m[i] &= ^(uint64(1) << uint64(o))
}

// contains checks if all the bits set in the `sub` bitmask are also set in the
// receiver bitmask `m`.
func (m bitmask256) contains(sub bitmask256) bool {
	return (m[0]&sub[0]) == sub[0] &&
		(m[1]&sub[1]) == sub[1] &&
		(m[2]&sub[2]) == sub[2] &&
		(m[3]&sub[3]) == sub[3]
}

// intersects reports whether the two masks share at least one bit.
func (m bitmask256) intersects(other bitmask256) bool {
	return (m[0]&other[0] != 0) ||
		(m[1]&other[1] != 0) ||
		(m[2]&other[2] != 0) ||
		(m[3]&other[3] != 0)
}

// containsBit checks if a specific bit is set in the mask.
func (m bitmask256) containsBit(bit ComponentID) bool {
	i := bit >> 6
	o := bit & 63
	return (m[i] & (uint64(1) << uint64(o))) != 0
}

// forEach calls fn for every set bit in ascending order.
func (m bitmask256) forEach(fn func(bit ComponentID)) {
	for word := 0; word < 4; word++ {
		w := m[word]
		for w != 0 {
			o := bits.TrailingZeros64(w)
			fn(ComponentID(word<<6 | o))
			w &= w - 1
		}
	}
}
