package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NotificationType classifies what a notification is about.
type NotificationType string

const (
	NotificationBooking NotificationType = "booking"
	NotificationPayment NotificationType = "payment"
	NotificationMessage NotificationType = "message"
	NotificationReview  NotificationType = "review"
	NotificationSystem  NotificationType = "system"
)

// ParseNotificationType rejects values outside the known set.
func ParseNotificationType(s string) (NotificationType, error) {
	switch NotificationType(s) {
	case NotificationBooking, NotificationPayment, NotificationMessage,
		NotificationReview, NotificationSystem:
		return NotificationType(s), nil
	default:
		return "", fmt.Errorf("unknown notification type %q", s)
	}
}

// Notification is an append-only dashboard alert for a single user.
// Only IsRead ever mutates, false to true.
type Notification struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	UserID    uuid.UUID        `json:"user_id" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Link      string           `json:"link,omitempty" db:"link"`
	IsRead    bool             `json:"is_read" db:"is_read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}
