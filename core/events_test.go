package core

import (
	"testing"
	"time"
)

func TestBroker(t *testing.T) {
	broker := NewBroker()

	all := broker.Subscribe()
	lessonsOnly := broker.Subscribe(CollLessons)
	defer broker.Unsubscribe(all)
	defer broker.Unsubscribe(lessonsOnly)

	broker.Publish(CollStudents)
	broker.Publish(CollLessons)

	recv := func(sub *Subscription) []Event {
		events := make([]Event, 0)
		for {
			select {
			case evt := <-sub.C:
				events = append(events, evt)
			case <-time.After(50 * time.Millisecond):
				return events
			}
		}
	}

	if events := recv(all); len(events) != 2 {
		t.Errorf("all subscriber got %d events, want 2", len(events))
	}
	events := recv(lessonsOnly)
	if len(events) != 1 {
		t.Fatalf("lessons subscriber got %d events, want 1", len(events))
	}
	if events[0].Collection != CollLessons {
		t.Errorf("event collection = %s, want %s", events[0].Collection, CollLessons)
	}
}

func TestBroker_nilSafe(t *testing.T) {
	var broker *Broker
	broker.Publish(CollStudents) // must not panic
}

func TestBroker_fullSubscriberDoesNotBlock(t *testing.T) {
	broker := NewBroker()
	sub := broker.Subscribe(CollTodos)
	defer broker.Unsubscribe(sub)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			broker.Publish(CollTodos)
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish() blocked on a slow subscriber")
	}
}
