package ecs

import "reflect"

// MaxEventTypes defines the maximum number of unique event types that can be
// registered in the EventBus. This value is fixed at 256.
const MaxEventTypes = 256

// Subscription identifies one handler registered on an EventBus.
type Subscription struct {
	typeID uint8
	id     uint32
}

type handler struct {
	fn any
	id uint32
}

// EventBus provides a type-safe event bus for decoupled communication. Systems
// subscribe to an event type and publishers reach every listener without
// knowing about them.
//
// Handlers run synchronously in subscription order. Unsubscribing from inside
// a handler is safe; the removed handler is skipped for the rest of the
// current Publish if it has not run yet.
type EventBus struct {
	eventTypeMap    map[reflect.Type]uint8
	handlers        [MaxEventTypes][]handler
	nextEventTypeID uint16
	nextHandlerID   uint32
}

// Subscribe registers a handler function to be called when an event of type `T`
// is published.
//
// Parameters:
//   - bus: The EventBus instance to subscribe to.
//   - fn: A function that takes a single argument of type `T`.
//
// Returns:
//   - A Subscription usable with Unsubscribe.
func Subscribe[T any](bus *EventBus, fn func(T)) Subscription {
	id := bus.getEventTypeID(reflect.TypeFor[T]())
	if cap(bus.handlers[id]) == 0 {
		bus.handlers[id] = make([]handler, 0, 4) // Preallocate small capacity to reduce reallocs
	}
	bus.nextHandlerID++
	bus.handlers[id] = append(bus.handlers[id], handler{fn: fn, id: bus.nextHandlerID})
	return Subscription{typeID: id, id: bus.nextHandlerID}
}

// Unsubscribe removes the handler behind sub. It reports whether a handler was
// removed.
func (bus *EventBus) Unsubscribe(sub Subscription) bool {
	hs := bus.handlers[sub.typeID]
	for i, h := range hs {
		if h.id != sub.id {
			continue
		}
		// Build a fresh slice so a Publish iterating the old one is unaffected.
		next := make([]handler, 0, len(hs)-1)
		next = append(next, hs[:i]...)
		next = append(next, hs[i+1:]...)
		hs[i].fn = nil
		bus.handlers[sub.typeID] = next
		return true
	}
	return false
}

// Publish broadcasts an event of type `T` to all registered handlers for that
// type.
func Publish[T any](bus *EventBus, event T) {
	if bus.eventTypeMap == nil {
		return
	}
	if id, ok := bus.eventTypeMap[reflect.TypeFor[T]()]; ok {
		for _, h := range bus.handlers[id] {
			if h.fn == nil {
				continue
			}
			h.fn.(func(T))(event)
		}
	}
}

// HasSubscribers reports whether any handler listens for T.
func HasSubscribers[T any](bus *EventBus) bool {
	if bus.eventTypeMap == nil {
		return false
	}
	id, ok := bus.eventTypeMap[reflect.TypeFor[T]()]
	return ok && len(bus.handlers[id]) > 0
}

// getEventTypeID retrieves or assigns an ID for the event type.
func (bus *EventBus) getEventTypeID(t reflect.Type) uint8 {
	if bus.eventTypeMap == nil {
		bus.eventTypeMap = make(map[reflect.Type]uint8)
	}
	if id, ok := bus.eventTypeMap[t]; ok {
		return id
	}
	if bus.nextEventTypeID >= MaxEventTypes {
		panic("ecs: too many event types")
	}
	id := uint8(bus.nextEventTypeID)
	bus.nextEventTypeID++
	bus.eventTypeMap[t] = id
	return id
}
