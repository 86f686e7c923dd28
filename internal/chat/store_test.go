package chat

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mlazaro/bahay/internal/models"
)

// fakeStore is an in-memory MessageStore for exercising the messaging
// core without a database.
type fakeStore struct {
	mu       sync.Mutex
	messages []*models.Message
	users    map[uuid.UUID]models.UserSummary

	listErr   error
	threadErr error
	createErr error
	markErr   error

	listCalls   int
	threadCalls int
	createCalls int
	markCalls   int

	// threadHook runs inside GetThread after the result snapshot is
	// taken, with the 1-based call number. Lets tests interleave
	// overlapping fetches deterministically.
	threadHook func(call int)

	now time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[uuid.UUID]models.UserSummary),
		now:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) addUser(name string) uuid.UUID {
	id := uuid.New()
	f.users[id] = models.UserSummary{ID: id, FullName: name, Email: name + "@example.com"}
	return id
}

func (f *fakeStore) addMessage(sender, receiver uuid.UUID, content string, isRead bool) *models.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(time.Minute)
	msg := &models.Message{
		ID:         uuid.New(),
		SenderID:   sender,
		ReceiverID: receiver,
		Content:    content,
		CreatedAt:  f.now,
		IsRead:     isRead,
	}
	f.messages = append(f.messages, msg)
	return msg
}

func (f *fakeStore) CreateMessage(senderID, receiverID uuid.UUID, content string, propertyID *uuid.UUID) (*models.Message, error) {
	f.mu.Lock()
	f.createCalls++
	err := f.createErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	msg := f.addMessage(senderID, receiverID, content, false)
	msg.PropertyID = propertyID
	return msg, nil
}

func (f *fakeStore) ListUserMessages(userID uuid.UUID) ([]*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}

	var out []*models.Message
	for _, msg := range f.messages {
		if msg.SenderID == userID || msg.ReceiverID == userID {
			copied := *msg
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeStore) GetThread(userID, counterpartID uuid.UUID) ([]*models.Message, error) {
	f.mu.Lock()
	f.threadCalls++
	call := f.threadCalls
	err := f.threadErr
	var out []*models.Message
	if err == nil {
		for _, msg := range f.messages {
			pair := (msg.SenderID == userID && msg.ReceiverID == counterpartID) ||
				(msg.SenderID == counterpartID && msg.ReceiverID == userID)
			if pair {
				copied := *msg
				out = append(out, &copied)
			}
		}
		sort.Slice(out, func(i, j int) bool {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	}
	hook := f.threadHook
	f.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (f *fakeStore) MarkThreadRead(receiverID, senderID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markCalls++
	if f.markErr != nil {
		return f.markErr
	}
	for _, msg := range f.messages {
		if msg.ReceiverID == receiverID && msg.SenderID == senderID {
			msg.IsRead = true
		}
	}
	return nil
}

func (f *fakeStore) GetUserSummaries(ids []uuid.UUID) (map[uuid.UUID]models.UserSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[uuid.UUID]models.UserSummary, len(ids))
	for _, id := range ids {
		if summary, ok := f.users[id]; ok {
			out[id] = summary
		}
	}
	return out, nil
}
