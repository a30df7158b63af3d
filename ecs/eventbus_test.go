package ecs

import (
	"testing"
)

// EventBus test events
type TestEvent struct {
	Value int
}

type otherEvent struct {
	X float32
}

func TestEventBusSubscribeAndPublish(t *testing.T) {
	bus := &EventBus{}
	received := 0
	Subscribe(bus, func(e TestEvent) {
		received += e.Value
	})
	Subscribe(bus, func(e TestEvent) {
		received += e.Value * 2
	})
	Publish(bus, TestEvent{Value: 1})
	if received != 3 {
		t.Errorf("expected received 3, got %d", received)
	}
	Publish(bus, TestEvent{Value: 2})
	if received != 3+6 {
		t.Errorf("expected received 9, got %d", received)
	}
}

func TestEventBusMultipleTypes(t *testing.T) {
	bus := &EventBus{}
	received1 := 0
	received2 := 0
	Subscribe(bus, func(e TestEvent) {
		received1 += e.Value
	})
	Subscribe(bus, func(o otherEvent) {
		received2 += int(o.X)
	})
	Publish(bus, TestEvent{Value: 42})
	Publish(bus, otherEvent{X: 10})
	if received1 != 42 {
		t.Errorf("expected received1 42, got %d", received1)
	}
	if received2 != 10 {
		t.Errorf("expected received2 10, got %d", received2)
	}
}

func TestEventBusNoHandlers(t *testing.T) {
	bus := &EventBus{}
	// No panic expected
	Publish(bus, TestEvent{Value: 42})
	if HasSubscribers[TestEvent](bus) {
		t.Error("empty bus reports subscribers")
	}
}

func TestEventBusUnsubscribe(t *testing.T) {
	bus := &EventBus{}
	var order []int
	var second Subscription
	Subscribe(bus, func(TestEvent) {
		order = append(order, 1)
		bus.Unsubscribe(second)
	})
	second = Subscribe(bus, func(TestEvent) {
		order = append(order, 2)
	})
	Subscribe(bus, func(TestEvent) {
		order = append(order, 3)
	})

	Publish(bus, TestEvent{})
	if len(order) != 2 || order[0] != 1 || order[1] != 3 {
		t.Fatalf("expected [1 3], got %v", order)
	}
	if bus.Unsubscribe(second) {
		t.Error("second Unsubscribe reported success")
	}
}
