package lazytween

import (
	"github.com/edwinsyarief/lazytween/ecs"
)

// CallbackKind names a subscriber list of a tween.
type CallbackKind uint8

const (
	KindUpdate CallbackKind = iota
	KindLoop
	KindComplete
	KindKill
	KindChange
)

const callbackPools = int(KindKill) + 1

func (k CallbackKind) String() string {
	switch k {
	case KindUpdate:
		return "OnUpdate"
	case KindLoop:
		return "OnLoop"
	case KindComplete:
		return "OnComplete"
	case KindKill:
		return "OnKill"
	case KindChange:
		return "OnChange"
	}
	return "unknown"
}

// Subscription identifies one subscriber for later removal.
type Subscription struct {
	Kind   CallbackKind
	Entity ecs.Entity
	id     uint32
	slot   int
}

// IsZero reports whether sub was never issued.
func (sub Subscription) IsZero() bool {
	return sub.id == 0
}

type subscriber[A any] struct {
	fn func(A)
	id uint32
}

// multicast is an ordered subscriber list. Removal leaves a tombstone so an
// iteration in progress keeps its indices; tombstones are compacted into a
// fresh array once they outnumber live entries.
type multicast[A any] struct {
	entries []subscriber[A]
	live    int
}

func (m *multicast[A]) add(fn func(A), id uint32) int {
	m.entries = append(m.entries, subscriber[A]{fn: fn, id: id})
	m.live++
	return len(m.entries) - 1
}

func (m *multicast[A]) remove(id uint32, slot int) bool {
	i := -1
	if slot >= 0 && slot < len(m.entries) && m.entries[slot].id == id {
		i = slot
	} else {
		for j := range m.entries {
			if m.entries[j].id == id {
				i = j
				break
			}
		}
	}
	if i < 0 || m.entries[i].fn == nil {
		return false
	}
	m.entries[i].fn = nil
	m.live--
	if m.live == 0 {
		m.entries = nil
		return true
	}
	if dead := len(m.entries) - m.live; dead > 8 && dead > m.live {
		packed := make([]subscriber[A], 0, m.live)
		for _, s := range m.entries {
			if s.fn != nil {
				packed = append(packed, s)
			}
		}
		m.entries = packed
	}
	return true
}

func (m *multicast[A]) len() int {
	return m.live
}
