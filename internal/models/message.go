package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a direct message between two users, optionally tied to a
// property the conversation started from. Messages are append-only;
// the only field that ever changes is IsRead (false to true).
type Message struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	SenderID   uuid.UUID  `json:"sender_id" db:"sender_id"`
	ReceiverID uuid.UUID  `json:"receiver_id" db:"receiver_id"`
	Content    string     `json:"content" db:"content"`
	PropertyID *uuid.UUID `json:"property_id,omitempty" db:"property_id"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	IsRead     bool       `json:"is_read" db:"is_read"`
}

// Counterpart returns the other participant of the message relative to
// the given user.
func (m *Message) Counterpart(userID uuid.UUID) uuid.UUID {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// MessageRequest is the structure for message creation requests
type MessageRequest struct {
	ReceiverID uuid.UUID  `json:"receiver_id" binding:"required"`
	Content    string     `json:"content" binding:"required,min=1"`
	PropertyID *uuid.UUID `json:"property_id,omitempty"`
}
