package chat

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/mlazaro/bahay/internal/models"
	"github.com/mlazaro/bahay/internal/realtime"
)

// Snapshot is the full messaging view state pushed to a client after
// every reconciliation: the conversation list plus the open thread, if
// any. Snapshots replace each other wholesale; there is nothing to
// merge on the receiving side.
type Snapshot struct {
	Conversations []ConversationSummary `json:"conversations"`
	Counterpart   uuid.UUID             `json:"counterpart,omitempty"`
	Thread        []*models.Message     `json:"thread,omitempty"`
}

// Session is one mounted messaging view: it owns the conversation list,
// at most one open thread, and exactly one feed subscription, released
// on Close. Every insert on the messages table triggers an
// unconditional full refresh of both: no pair filtering, no
// coalescing; one event, one refresh.
type Session struct {
	userID uuid.UUID
	agg    *Aggregator
	thread *Thread
	feed   *realtime.Feed
	sub    *realtime.Subscription

	mu            sync.Mutex
	conversations []ConversationSummary

	updates   chan Snapshot
	done      chan struct{}
	closeOnce sync.Once
	refreshes uint64
}

// NewSession builds a session for a user over the given store and feed.
// Call Start to subscribe and begin reacting to inserts.
func NewSession(st MessageStore, feed *realtime.Feed, userID uuid.UUID) *Session {
	return &Session{
		userID:  userID,
		agg:     NewAggregator(st),
		thread:  NewThread(st, userID),
		feed:    feed,
		updates: make(chan Snapshot, 8),
		done:    make(chan struct{}),
	}
}

// Start loads the initial conversation list, subscribes to message
// inserts, and begins the reconcile loop.
func (s *Session) Start() error {
	convs, err := s.agg.Conversations(s.userID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.conversations = convs
	s.mu.Unlock()

	s.sub = s.feed.Subscribe("messages", 16)
	go s.run()
	s.push()
	return nil
}

func (s *Session) run() {
	for {
		select {
		case _, ok := <-s.sub.C:
			if !ok {
				return
			}
			s.Reconcile()
		case <-s.done:
			return
		}
	}
}

// Reconcile re-fetches the conversation list and the open thread in
// full. On fetch failure the previously displayed state is retained and
// the error swallowed; the next event or user action tries again.
func (s *Session) Reconcile() {
	atomic.AddUint64(&s.refreshes, 1)

	convs, err := s.agg.Conversations(s.userID)
	if err == nil {
		s.mu.Lock()
		s.conversations = convs
		s.mu.Unlock()
	}

	if s.thread.State() != StateClosed {
		_ = s.thread.Refresh()
	}

	s.push()
}

// OpenThread selects a counterpart, loads the thread, and pushes the
// fresh view. The conversation list is refreshed too because the load
// sweeps messages read, which changes unread markers.
func (s *Session) OpenThread(counterpartID uuid.UUID, propertyID *uuid.UUID) error {
	if err := s.thread.Open(counterpartID, propertyID); err != nil {
		return err
	}

	convs, err := s.agg.Conversations(s.userID)
	if err == nil {
		s.mu.Lock()
		s.conversations = convs
		s.mu.Unlock()
	}

	s.push()
	return nil
}

// Send appends a message to the open thread.
func (s *Session) Send(body string) (*models.Message, error) {
	msg, err := s.thread.Send(body)
	if err != nil {
		return nil, err
	}
	s.push()
	return msg, nil
}

// CloseThread closes the open thread, keeping the session alive.
func (s *Session) CloseThread() {
	s.thread.Close()
	s.push()
}

// Updates delivers a snapshot after every reconciliation. Slow
// consumers miss intermediate snapshots, never the ordering of them.
func (s *Session) Updates() <-chan Snapshot {
	return s.updates
}

// Conversations returns the last successfully aggregated list.
func (s *Session) Conversations() []ConversationSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ConversationSummary, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// Thread exposes the thread controller, mainly for state inspection.
func (s *Session) Thread() *Thread {
	return s.thread
}

// Refreshes counts reconciliations since Start.
func (s *Session) Refreshes() uint64 {
	return atomic.LoadUint64(&s.refreshes)
}

func (s *Session) push() {
	snap := Snapshot{
		Conversations: s.Conversations(),
	}
	if s.thread.State() != StateClosed {
		snap.Counterpart = s.thread.Counterpart()
		snap.Thread = s.thread.Messages()
	}

	select {
	case s.updates <- snap:
	default:
		// Consumer lagging; the next snapshot supersedes this one.
	}
}

// Close releases the feed subscription and stops the reconcile loop.
// Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.sub != nil {
			s.feed.Unsubscribe(s.sub)
		}
		s.thread.Close()
	})
}
