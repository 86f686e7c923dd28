package chat

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mlazaro/bahay/internal/logger"
	"github.com/mlazaro/bahay/internal/models"
)

var log = logger.New("chat")

// ThreadState is the lifecycle of an open message thread.
type ThreadState int

const (
	StateClosed ThreadState = iota
	StateLoading
	StateLoaded
	StateSending
)

func (s ThreadState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateSending:
		return "sending"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Thread controls one open conversation between the current user and a
// counterpart: it loads history, sweeps incoming messages read, appends
// outgoing messages, and refreshes itself when the feed reports inserts.
//
// Refreshes carry a sequence number so an early fetch that completes
// late cannot overwrite newer state: last-issued wins, not
// last-completed.
type Thread struct {
	store  MessageStore
	userID uuid.UUID

	mu          sync.Mutex
	state       ThreadState
	counterpart uuid.UUID
	propertyID  *uuid.UUID
	messages    []*models.Message
	issued      uint64
	applied     uint64
}

// NewThread creates a closed thread controller for a user.
func NewThread(st MessageStore, userID uuid.UUID) *Thread {
	return &Thread{store: st, userID: userID, state: StateClosed}
}

// State reports the current lifecycle state.
func (t *Thread) State() ThreadState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Counterpart reports who the open thread is with, or uuid.Nil.
func (t *Thread) Counterpart() uuid.UUID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counterpart
}

// Messages returns the loaded history, oldest first.
func (t *Thread) Messages() []*models.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*models.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Open selects a counterpart and loads the full thread with them,
// oldest first, then sweeps every message they sent the current user to
// read. On fetch failure the controller returns to its prior stable
// state with its prior contents. The optional property id is carried
// into subsequent sends as conversation context.
func (t *Thread) Open(counterpartID uuid.UUID, propertyID *uuid.UUID) error {
	t.mu.Lock()
	prevState := t.state
	prevCounterpart := t.counterpart
	t.state = StateLoading
	t.mu.Unlock()

	msgs, err := t.store.GetThread(t.userID, counterpartID)

	t.mu.Lock()
	if err != nil {
		// Back to where we were: Loaded on the old counterpart, or
		// Closed if nothing was open.
		t.state = prevState
		t.counterpart = prevCounterpart
		if prevState == StateLoading || prevState == StateSending {
			t.state = StateClosed
		}
		t.mu.Unlock()
		return fmt.Errorf("failed to load thread: %w", err)
	}
	t.counterpart = counterpartID
	t.propertyID = propertyID
	t.messages = msgs
	t.issued++
	t.applied = t.issued
	t.state = StateLoaded
	t.mu.Unlock()

	// Entering Loaded triggers the mark-read sweep. The sweep is
	// idempotent; a failure here leaves unread flags behind but the
	// thread itself is usable, so it is logged rather than fatal.
	if err := t.store.MarkThreadRead(t.userID, counterpartID); err != nil {
		log.Warn("Mark-read sweep failed for thread with %s: %v", counterpartID, err)
	}

	return nil
}

// Send appends a message to the open thread. A body that trims to
// nothing is rejected before any store call. On success the thread
// re-fetches itself rather than appending locally, trading a round trip
// for never diverging from the store.
func (t *Thread) Send(body string) (*models.Message, error) {
	content := strings.TrimSpace(body)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	t.mu.Lock()
	if t.state != StateLoaded {
		t.mu.Unlock()
		return nil, ErrThreadNotLoaded
	}
	t.state = StateSending
	counterpart := t.counterpart
	propertyID := t.propertyID
	t.mu.Unlock()

	msg, err := t.store.CreateMessage(t.userID, counterpart, content, propertyID)

	t.mu.Lock()
	if t.state == StateSending {
		t.state = StateLoaded
	}
	t.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	if err := t.Refresh(); err != nil {
		// The message is durably stored; only the local view is stale.
		return msg, err
	}
	return msg, nil
}

// Refresh re-fetches the open thread in full. A no-op on a closed
// thread. Responses are applied in issue order: a response for an older
// fetch than the last applied one is discarded.
func (t *Thread) Refresh() error {
	t.mu.Lock()
	if t.state == StateClosed {
		t.mu.Unlock()
		return nil
	}
	t.issued++
	seq := t.issued
	counterpart := t.counterpart
	t.mu.Unlock()

	msgs, err := t.store.GetThread(t.userID, counterpart)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to refresh thread: %w", err)
	}
	if seq < t.applied {
		log.Debug("Discarding stale thread fetch %d (applied %d)", seq, t.applied)
		return nil
	}
	if t.state == StateClosed || t.counterpart != counterpart {
		return nil
	}
	t.applied = seq
	t.messages = msgs
	return nil
}

// Close tears the thread down and forgets its contents.
func (t *Thread) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = StateClosed
	t.counterpart = uuid.Nil
	t.propertyID = nil
	t.messages = nil
}
