package chat

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mlazaro/bahay/internal/models"
)

// ConversationSummary is one entry in a user's conversation list: the
// other participant, the newest message exchanged with them, and
// whether that newest message is waiting to be read.
type ConversationSummary struct {
	Counterpart models.UserSummary `json:"counterpart"`
	LastMessage *models.Message    `json:"last_message"`
	HasUnread   bool               `json:"has_unread"`
}

// Aggregate derives the conversation list from a user's messages, which
// must be ordered newest-first. Each counterpart appears exactly once,
// keyed to the first message seen for them; the descending order is what
// makes first-seen the most recent.
//
// HasUnread only inspects that newest message: an older unread message
// behind a read one does not light the indicator. That mirrors the
// product's current behavior and is deliberate.
func Aggregate(currentUser uuid.UUID, msgs []*models.Message) []ConversationSummary {
	seen := make(map[uuid.UUID]bool, len(msgs))
	var entries []ConversationSummary

	for _, msg := range msgs {
		other := msg.Counterpart(currentUser)
		if seen[other] {
			continue
		}
		seen[other] = true
		entries = append(entries, ConversationSummary{
			Counterpart: models.UserSummary{ID: other},
			LastMessage: msg,
			HasUnread:   msg.ReceiverID == currentUser && !msg.IsRead,
		})
	}

	return entries
}

// Aggregator builds conversation lists from the store.
type Aggregator struct {
	store MessageStore
}

// NewAggregator creates an aggregator over the given store.
func NewAggregator(st MessageStore) *Aggregator {
	return &Aggregator{store: st}
}

// Conversations fetches the user's messages and derives their
// conversation list with counterpart profiles resolved. On any fetch
// failure the result is empty, never partial.
func (a *Aggregator) Conversations(userID uuid.UUID) ([]ConversationSummary, error) {
	msgs, err := a.store.ListUserMessages(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	entries := Aggregate(userID, msgs)

	ids := make([]uuid.UUID, len(entries))
	for i, entry := range entries {
		ids[i] = entry.Counterpart.ID
	}

	summaries, err := a.store.GetUserSummaries(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve counterparts: %w", err)
	}

	for i := range entries {
		if summary, ok := summaries[entries[i].Counterpart.ID]; ok {
			entries[i].Counterpart = summary
		}
	}

	return entries, nil
}
