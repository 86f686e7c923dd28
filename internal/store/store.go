package store

import (
	"errors"

	"github.com/google/uuid"

	"github.com/mlazaro/bahay/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrNotFound          = errors.New("record not found")
)

// Overview is the admin dashboard's count summary.
type Overview struct {
	TotalUsers        int `json:"total_users" db:"total_users"`
	TotalProperties   int `json:"total_properties" db:"total_properties"`
	TotalReservations int `json:"total_reservations" db:"total_reservations"`
	TotalPayments     int `json:"total_payments" db:"total_payments"`
	PendingReviews    int `json:"pending_reviews" db:"pending_reviews"`
}

// Store is the persistence surface the application is written against.
// Row-level authorization beyond what these methods encode is the
// caller's responsibility.
type Store interface {
	// User methods
	CreateUser(email, passwordHash, fullName string, role models.Role) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uuid.UUID) (*models.User, error)
	GetUserSummaries(ids []uuid.UUID) (map[uuid.UUID]models.UserSummary, error)
	ListUsers(excludeUserID uuid.UUID) ([]*models.User, error)

	// Message methods. ListUserMessages returns newest-first (the order
	// the conversation aggregator depends on); GetThread returns
	// oldest-first for chronological display.
	CreateMessage(senderID, receiverID uuid.UUID, content string, propertyID *uuid.UUID) (*models.Message, error)
	ListUserMessages(userID uuid.UUID) ([]*models.Message, error)
	GetThread(userID, counterpartID uuid.UUID) ([]*models.Message, error)
	MarkThreadRead(receiverID, senderID uuid.UUID) error

	// Notification methods
	CreateNotification(userID uuid.UUID, typ models.NotificationType, title, message, link string) (*models.Notification, error)
	ListNotifications(userID uuid.UUID, limit int) ([]*models.Notification, error)
	MarkNotificationRead(id uuid.UUID) error

	// Property methods
	CreateProperty(landlordID uuid.UUID, req *models.PropertyRequest) (*models.Property, error)
	GetPropertyByID(id uuid.UUID) (*models.Property, error)
	ListProperties(filter models.PropertyFilter) ([]*models.Property, error)

	// Reservation methods
	CreateReservation(tenantID uuid.UUID, req *models.ReservationRequest) (*models.Reservation, error)
	GetReservationByID(id uuid.UUID) (*models.Reservation, error)
	SetReservationStatus(id uuid.UUID, status models.ReservationStatus) error
	ListReservationsByTenant(tenantID uuid.UUID) ([]*models.Reservation, error)
	ListReservationsForLandlord(landlordID uuid.UUID) ([]*models.Reservation, error)

	// Payment methods
	CreatePayment(req *models.PaymentRequest, method models.PaymentMethod) (*models.Payment, error)
	GetPaymentByID(id uuid.UUID) (*models.Payment, error)
	VerifyPayment(id uuid.UUID, verified bool, verifierID uuid.UUID) error
	ListPaymentsByTenant(tenantID uuid.UUID) ([]*models.Payment, error)
	ListPaymentsForLandlord(landlordID uuid.UUID) ([]*models.Payment, error)

	// Review methods
	CreateReview(tenantID uuid.UUID, req *models.ReviewRequest) (*models.Review, error)
	GetReviewByID(id uuid.UUID) (*models.Review, error)
	SetReviewApproval(id uuid.UUID, approved bool) error
	ListPendingReviews() ([]*models.Review, error)
	ListApprovedReviews(propertyID uuid.UUID) ([]*models.Review, error)

	// Admin methods
	CountOverview() (*Overview, error)

	Close() error
}
