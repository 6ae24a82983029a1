package core

import "sync"

// Collections of the persistent store. Repositories publish on these names
// after every committed write so that read-side consumers can re-query.
const (
	CollStudents  = "students"
	CollLessons   = "lessons"
	CollScoreLogs = "score_logs"
	CollTodos     = "todos"
)

type Event struct {
	Collection string
}

// Subscription receives one Event per committed write to any of its
// collections. Delivery is best-effort: when C's buffer is full, pending
// notifications coalesce into the ones already queued.
type Subscription struct {
	C chan Event

	collections map[string]bool
}

func (sub *Subscription) matches(collection string) bool {
	return len(sub.collections) == 0 || sub.collections[collection]
}

// Broker is the in-process publish/subscribe channel keyed by collection
// name. A nil *Broker is valid and drops all events.
type Broker struct {
	mu   sync.Mutex
	subs map[*Subscription]bool
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[*Subscription]bool)}
}

// Subscribe registers interest in the named collections; no collections means
// all of them.
func (b *Broker) Subscribe(collections ...string) *Subscription {
	sub := &Subscription{
		C:           make(chan Event, 16),
		collections: make(map[string]bool, len(collections)),
	}
	for _, coll := range collections {
		sub.collections[coll] = true
	}

	b.mu.Lock()
	b.subs[sub] = true
	b.mu.Unlock()
	return sub
}

func (b *Broker) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	delete(b.subs, sub)
	b.mu.Unlock()
}

func (b *Broker) Publish(collections ...string) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs {
		for _, coll := range collections {
			if !sub.matches(coll) {
				continue
			}
			select {
			case sub.C <- Event{Collection: coll}:
			default: // subscriber is behind; it will re-query anyway
			}
		}
	}
}
