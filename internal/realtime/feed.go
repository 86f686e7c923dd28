package realtime

import (
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/mlazaro/bahay/internal/logger"
)

var log = logger.New("realtime")

// NotifyChannel is the Postgres NOTIFY channel the schema trigger fires
// on every insert. The payload is the inserted row's table name.
const NotifyChannel = "row_inserted"

// InsertEvent signals that a row was inserted into a table. Subscribers
// refetch in full on receipt; the event intentionally carries no row
// data, so latest state always wins and nothing is merged incrementally.
type InsertEvent struct {
	Table string
	At    time.Time
}

// Subscription is one registration on the feed. Events arrives on C
// until Unsubscribe closes it. A subscription that stops draining C is
// dropped rather than allowed to block the feed.
type Subscription struct {
	C     chan InsertEvent
	id    uint64
	table string
}

// Feed fans insert notifications out to subscribers, filtered by table.
type Feed struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]*Subscription
	done   chan struct{}
}

// NewFeed creates an empty feed. Call Run with an event source to start
// delivery.
func NewFeed() *Feed {
	return &Feed{
		subs: make(map[uint64]*Subscription),
		done: make(chan struct{}),
	}
}

// Subscribe registers interest in inserts on a table. The returned
// subscription must be released with Unsubscribe when the consumer is
// torn down, or the registration leaks.
func (f *Feed) Subscribe(table string, buffer int) *Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	sub := &Subscription{
		C:     make(chan InsertEvent, buffer),
		id:    f.nextID,
		table: table,
	}
	f.subs[sub.id] = sub
	log.Debug("Subscription %d registered for table %q", sub.id, table)
	return sub
}

// Unsubscribe releases a subscription and closes its channel.
func (f *Feed) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.subs[sub.id]; ok {
		delete(f.subs, sub.id)
		close(sub.C)
		log.Debug("Subscription %d released", sub.id)
	}
}

// Publish delivers an event to every subscriber watching the table.
// Delivery is non-blocking: a subscriber with a full buffer misses the
// event, which is acceptable because every event means the same thing
// (refetch everything).
func (f *Feed) Publish(event InsertEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, sub := range f.subs {
		if sub.table != event.Table {
			continue
		}
		select {
		case sub.C <- event:
		default:
			log.Warn("Subscription %d not draining, dropping %s event", sub.id, event.Table)
		}
	}
}

// Close drops all subscriptions and stops Run.
func (f *Feed) Close() {
	f.mu.Lock()
	for id, sub := range f.subs {
		delete(f.subs, id)
		close(sub.C)
	}
	f.mu.Unlock()

	select {
	case <-f.done:
	default:
		close(f.done)
	}
}

// Run consumes Postgres notifications and publishes them until the
// listener or feed is closed. Intended to run as a goroutine.
func (f *Feed) Run(listener *pq.Listener) {
	if err := listener.Listen(NotifyChannel); err != nil {
		log.Error("Failed to LISTEN on %s: %v", NotifyChannel, err)
		return
	}
	log.Info("Listening for inserts on channel %q", NotifyChannel)

	for {
		select {
		case n, ok := <-listener.Notify:
			if !ok {
				log.Info("Listener closed, stopping feed")
				return
			}
			// lib/pq delivers a nil notification after a reconnect.
			if n == nil {
				continue
			}
			f.Publish(InsertEvent{Table: n.Extra, At: time.Now().UTC()})
		case <-f.done:
			return
		}
	}
}

// NewListener builds a pq.Listener for the feed with the reconnect
// windows lib/pq recommends.
func NewListener(connStr string) *pq.Listener {
	return pq.NewListener(connStr, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Error("Listener event %d: %v", ev, err)
		}
	})
}
