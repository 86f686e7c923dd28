package chat

import (
	"errors"

	"github.com/google/uuid"

	"github.com/mlazaro/bahay/internal/models"
)

var (
	// ErrEmptyMessage is returned before any store call when a message
	// body trims down to nothing.
	ErrEmptyMessage = errors.New("message body is empty")
	// ErrThreadNotLoaded is returned when Send is called without an
	// open, loaded thread.
	ErrThreadNotLoaded = errors.New("thread is not loaded")
)

// MessageStore is the slice of the persistence layer the messaging core
// reads and writes. *store.PostgresStore satisfies it.
type MessageStore interface {
	CreateMessage(senderID, receiverID uuid.UUID, content string, propertyID *uuid.UUID) (*models.Message, error)
	ListUserMessages(userID uuid.UUID) ([]*models.Message, error)
	GetThread(userID, counterpartID uuid.UUID) ([]*models.Message, error)
	MarkThreadRead(receiverID, senderID uuid.UUID) error
	GetUserSummaries(ids []uuid.UUID) (map[uuid.UUID]models.UserSummary, error)
}
