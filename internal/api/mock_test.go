package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mlazaro/bahay/internal/models"
	"github.com/mlazaro/bahay/internal/store"
)

// MockStore implements store.Store for handler tests.
type MockStore struct {
	mock.Mock
}

// CreateUser mocks creating a user
func (m *MockStore) CreateUser(email, passwordHash, fullName string, role models.Role) (*models.User, error) {
	args := m.Called(email, passwordHash, fullName, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// GetUserByEmail mocks retrieving a user by email
func (m *MockStore) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// GetUserByID mocks retrieving a user by ID
func (m *MockStore) GetUserByID(id uuid.UUID) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// GetUserSummaries mocks resolving slim profiles for a set of IDs
func (m *MockStore) GetUserSummaries(ids []uuid.UUID) (map[uuid.UUID]models.UserSummary, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]models.UserSummary), args.Error(1)
}

// ListUsers mocks listing every account except one
func (m *MockStore) ListUsers(excludeUserID uuid.UUID) ([]*models.User, error) {
	args := m.Called(excludeUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

// CreateMessage mocks persisting a message
func (m *MockStore) CreateMessage(senderID, receiverID uuid.UUID, content string, propertyID *uuid.UUID) (*models.Message, error) {
	args := m.Called(senderID, receiverID, content, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

// ListUserMessages mocks retrieving all messages involving a user
func (m *MockStore) ListUserMessages(userID uuid.UUID) ([]*models.Message, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Message), args.Error(1)
}

// GetThread mocks retrieving the conversation between two users
func (m *MockStore) GetThread(userID, counterpartID uuid.UUID) ([]*models.Message, error) {
	args := m.Called(userID, counterpartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Message), args.Error(1)
}

// MarkThreadRead mocks the incoming-side read sweep
func (m *MockStore) MarkThreadRead(receiverID, senderID uuid.UUID) error {
	args := m.Called(receiverID, senderID)
	return args.Error(0)
}

// CreateNotification mocks recording a notification
func (m *MockStore) CreateNotification(userID uuid.UUID, typ models.NotificationType, title, message, link string) (*models.Notification, error) {
	args := m.Called(userID, typ, title, message, link)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

// ListNotifications mocks listing a user's notifications
func (m *MockStore) ListNotifications(userID uuid.UUID, limit int) ([]*models.Notification, error) {
	args := m.Called(userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}

// MarkNotificationRead mocks flipping a notification read
func (m *MockStore) MarkNotificationRead(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

// CreateProperty mocks creating a listing
func (m *MockStore) CreateProperty(landlordID uuid.UUID, req *models.PropertyRequest) (*models.Property, error) {
	args := m.Called(landlordID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

// GetPropertyByID mocks retrieving a listing
func (m *MockStore) GetPropertyByID(id uuid.UUID) (*models.Property, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

// ListProperties mocks the public browse query
func (m *MockStore) ListProperties(filter models.PropertyFilter) ([]*models.Property, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Property), args.Error(1)
}

// CreateReservation mocks submitting a booking
func (m *MockStore) CreateReservation(tenantID uuid.UUID, req *models.ReservationRequest) (*models.Reservation, error) {
	args := m.Called(tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

// GetReservationByID mocks retrieving a reservation
func (m *MockStore) GetReservationByID(id uuid.UUID) (*models.Reservation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

// SetReservationStatus mocks the landlord decision
func (m *MockStore) SetReservationStatus(id uuid.UUID, status models.ReservationStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

// ListReservationsByTenant mocks listing a tenant's bookings
func (m *MockStore) ListReservationsByTenant(tenantID uuid.UUID) ([]*models.Reservation, error) {
	args := m.Called(tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}

// ListReservationsForLandlord mocks listing bookings against a landlord's properties
func (m *MockStore) ListReservationsForLandlord(landlordID uuid.UUID) ([]*models.Reservation, error) {
	args := m.Called(landlordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Reservation), args.Error(1)
}

// CreatePayment mocks recording a payment
func (m *MockStore) CreatePayment(req *models.PaymentRequest, method models.PaymentMethod) (*models.Payment, error) {
	args := m.Called(req, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

// GetPaymentByID mocks retrieving a payment
func (m *MockStore) GetPaymentByID(id uuid.UUID) (*models.Payment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

// VerifyPayment mocks the landlord's verification decision
func (m *MockStore) VerifyPayment(id uuid.UUID, verified bool, verifierID uuid.UUID) error {
	args := m.Called(id, verified, verifierID)
	return args.Error(0)
}

// ListPaymentsByTenant mocks listing a tenant's payments
func (m *MockStore) ListPaymentsByTenant(tenantID uuid.UUID) ([]*models.Payment, error) {
	args := m.Called(tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

// ListPaymentsForLandlord mocks listing payments toward a landlord's properties
func (m *MockStore) ListPaymentsForLandlord(landlordID uuid.UUID) ([]*models.Payment, error) {
	args := m.Called(landlordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

// CreateReview mocks submitting a review
func (m *MockStore) CreateReview(tenantID uuid.UUID, req *models.ReviewRequest) (*models.Review, error) {
	args := m.Called(tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

// GetReviewByID mocks fetching one review
func (m *MockStore) GetReviewByID(id uuid.UUID) (*models.Review, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

// SetReviewApproval mocks the admin moderation decision
func (m *MockStore) SetReviewApproval(id uuid.UUID, approved bool) error {
	args := m.Called(id, approved)
	return args.Error(0)
}

// ListPendingReviews mocks listing reviews awaiting moderation
func (m *MockStore) ListPendingReviews() ([]*models.Review, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Review), args.Error(1)
}

// ListApprovedReviews mocks listing a property's visible reviews
func (m *MockStore) ListApprovedReviews(propertyID uuid.UUID) ([]*models.Review, error) {
	args := m.Called(propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Review), args.Error(1)
}

// CountOverview mocks the admin dashboard counts
func (m *MockStore) CountOverview() (*store.Overview, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Overview), args.Error(1)
}

// Close mocks closing the store
func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockPusher is a mock websocket manager for notification push tests.
type MockPusher struct {
	mock.Mock
}

// SendToUser mocks pushing a payload to a connected user
func (m *MockPusher) SendToUser(userID uuid.UUID, payload []byte) {
	m.Called(userID, payload)
}

// authAs returns middleware that injects an authenticated identity the
// way AuthMiddleware would after validating a token.
func authAs(userID uuid.UUID, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("email", "test@example.com")
		c.Set("role", role)
		c.Next()
	}
}
