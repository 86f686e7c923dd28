package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/mlazaro/bahay/internal/models"
)

// PostgresStore implements Store over a PostgreSQL database.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore opens and pings a PostgreSQL connection.
func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

// DB exposes the underlying connection for the realtime listener, which
// needs the raw connection string semantics of lib/pq.
func (s *PostgresStore) DB() *sqlx.DB {
	return s.db
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// --- Users ---

func (s *PostgresStore) CreateUser(email, passwordHash, fullName string, role models.Role) (*models.User, error) {
	var count int
	if err := s.db.Get(&count, "SELECT COUNT(*) FROM users WHERE email = $1", email); err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUserAlreadyExists
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := s.db.Exec(
		`INSERT INTO users (id, email, password_hash, full_name, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.Role, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return user, nil
}

const userColumns = `id, email, password_hash,
	COALESCE(full_name, '') AS full_name, COALESCE(phone, '') AS phone,
	COALESCE(bio, '') AS bio, COALESCE(avatar_url, '') AS avatar_url,
	role, created_at, updated_at`

func (s *PostgresStore) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Get(&user, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := models.ParseRole(string(user.Role)); err != nil {
		return nil, fmt.Errorf("user %s: %w", user.ID, err)
	}
	return &user, nil
}

func (s *PostgresStore) GetUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.Get(&user, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := models.ParseRole(string(user.Role)); err != nil {
		return nil, fmt.Errorf("user %s: %w", user.ID, err)
	}
	return &user, nil
}

func (s *PostgresStore) GetUserSummaries(ids []uuid.UUID) (map[uuid.UUID]models.UserSummary, error) {
	summaries := make(map[uuid.UUID]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return summaries, nil
	}

	var rows []models.UserSummary
	err := s.db.Select(&rows,
		`SELECT id, COALESCE(full_name, '') AS full_name, email
		 FROM users WHERE id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		summaries[row.ID] = row
	}
	return summaries, nil
}

func (s *PostgresStore) ListUsers(excludeUserID uuid.UUID) ([]*models.User, error) {
	var users []*models.User
	err := s.db.Select(&users,
		"SELECT "+userColumns+" FROM users WHERE id != $1 ORDER BY full_name",
		excludeUserID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	return users, nil
}

// --- Messages ---

func (s *PostgresStore) CreateMessage(senderID, receiverID uuid.UUID, content string, propertyID *uuid.UUID) (*models.Message, error) {
	if _, err := s.GetUserByID(receiverID); err != nil {
		return nil, err
	}

	message := &models.Message{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		PropertyID: propertyID,
		CreatedAt:  time.Now().UTC(),
		IsRead:     false,
	}

	_, err := s.db.Exec(
		`INSERT INTO messages (id, sender_id, receiver_id, content, property_id, created_at, is_read)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		message.ID, message.SenderID, message.ReceiverID, message.Content,
		message.PropertyID, message.CreatedAt, message.IsRead,
	)
	if err != nil {
		return nil, err
	}

	return message, nil
}

func (s *PostgresStore) ListUserMessages(userID uuid.UUID) ([]*models.Message, error) {
	var messages []*models.Message
	err := s.db.Select(&messages,
		`SELECT id, sender_id, receiver_id, content, property_id, created_at, is_read
		 FROM messages
		 WHERE sender_id = $1 OR receiver_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *PostgresStore) GetThread(userID, counterpartID uuid.UUID) ([]*models.Message, error) {
	var messages []*models.Message
	err := s.db.Select(&messages,
		`SELECT id, sender_id, receiver_id, content, property_id, created_at, is_read
		 FROM messages
		 WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		 ORDER BY created_at ASC`,
		userID, counterpartID,
	)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkThreadRead flips every unread message from sender to receiver.
// Re-running the sweep is a no-op.
func (s *PostgresStore) MarkThreadRead(receiverID, senderID uuid.UUID) error {
	_, err := s.db.Exec(
		`UPDATE messages SET is_read = true
		 WHERE receiver_id = $1 AND sender_id = $2 AND is_read = false`,
		receiverID, senderID,
	)
	return err
}

// --- Notifications ---

func (s *PostgresStore) CreateNotification(userID uuid.UUID, typ models.NotificationType, title, message, link string) (*models.Notification, error) {
	n := &models.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Link:      link,
		IsRead:    false,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO notifications (id, user_id, type, title, message, link, is_read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, n.UserID, n.Type, n.Title, n.Message, n.Link, n.IsRead, n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return n, nil
}

func (s *PostgresStore) ListNotifications(userID uuid.UUID, limit int) ([]*models.Notification, error) {
	var notifications []*models.Notification
	err := s.db.Select(&notifications,
		`SELECT id, user_id, type, title, message, COALESCE(link, '') AS link, is_read, created_at
		 FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (s *PostgresStore) MarkNotificationRead(id uuid.UUID) error {
	result, err := s.db.Exec("UPDATE notifications SET is_read = true WHERE id = $1", id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Properties ---

func (s *PostgresStore) CreateProperty(landlordID uuid.UUID, req *models.PropertyRequest) (*models.Property, error) {
	now := time.Now().UTC()
	p := &models.Property{
		ID:          uuid.New(),
		LandlordID:  landlordID,
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		Rent:        req.Rent,
		Deposit:     req.Deposit,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		AreaSqm:     req.AreaSqm,
		Facilities:  pq.StringArray(req.Facilities),
		Images:      pq.StringArray(req.Images),
		Status:      models.PropertyAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := s.db.Exec(
		`INSERT INTO properties (id, landlord_id, title, description, address, city, rent, deposit,
		                         bedrooms, bathrooms, area_sqm, facilities, images, status, featured,
		                         created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		p.ID, p.LandlordID, p.Title, p.Description, p.Address, p.City, p.Rent, p.Deposit,
		p.Bedrooms, p.Bathrooms, p.AreaSqm, p.Facilities, p.Images, p.Status, p.Featured,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return p, nil
}

const propertyColumns = `id, landlord_id, title, COALESCE(description, '') AS description,
	address, city, rent, COALESCE(deposit, 0) AS deposit,
	COALESCE(bedrooms, 0) AS bedrooms, COALESCE(bathrooms, 0) AS bathrooms,
	COALESCE(area_sqm, 0) AS area_sqm, facilities, images, status, featured,
	created_at, updated_at`

func (s *PostgresStore) GetPropertyByID(id uuid.UUID) (*models.Property, error) {
	var p models.Property
	err := s.db.Get(&p, "SELECT "+propertyColumns+" FROM properties WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) ListProperties(filter models.PropertyFilter) ([]*models.Property, error) {
	query := "SELECT " + propertyColumns + " FROM properties WHERE 1=1"
	args := []interface{}{}

	if filter.City != "" {
		args = append(args, filter.City)
		query += fmt.Sprintf(" AND city = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY featured DESC, created_at DESC"

	var properties []*models.Property
	if err := s.db.Select(&properties, query, args...); err != nil {
		return nil, err
	}
	return properties, nil
}

// --- Reservations ---

func (s *PostgresStore) CreateReservation(tenantID uuid.UUID, req *models.ReservationRequest) (*models.Reservation, error) {
	now := time.Now().UTC()
	r := &models.Reservation{
		ID:         uuid.New(),
		PropertyID: req.PropertyID,
		TenantID:   tenantID,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Notes:      req.Notes,
		Status:     models.ReservationPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := s.db.Exec(
		`INSERT INTO reservations (id, property_id, tenant_id, check_in, check_out, notes, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID, r.PropertyID, r.TenantID, r.CheckIn, r.CheckOut, r.Notes, r.Status, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return r, nil
}

const reservationColumns = `id, property_id, tenant_id, check_in, check_out,
	COALESCE(notes, '') AS notes, status, created_at, updated_at`

func (s *PostgresStore) GetReservationByID(id uuid.UUID) (*models.Reservation, error) {
	var r models.Reservation
	err := s.db.Get(&r, "SELECT "+reservationColumns+" FROM reservations WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *PostgresStore) SetReservationStatus(id uuid.UUID, status models.ReservationStatus) error {
	result, err := s.db.Exec(
		"UPDATE reservations SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListReservationsByTenant(tenantID uuid.UUID) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	err := s.db.Select(&reservations,
		"SELECT "+reservationColumns+" FROM reservations WHERE tenant_id = $1 ORDER BY created_at DESC",
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (s *PostgresStore) ListReservationsForLandlord(landlordID uuid.UUID) ([]*models.Reservation, error) {
	var reservations []*models.Reservation
	err := s.db.Select(&reservations,
		`SELECT r.id, r.property_id, r.tenant_id, r.check_in, r.check_out,
		        COALESCE(r.notes, '') AS notes, r.status, r.created_at, r.updated_at
		 FROM reservations r
		 JOIN properties p ON p.id = r.property_id
		 WHERE p.landlord_id = $1
		 ORDER BY r.created_at DESC`,
		landlordID,
	)
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// --- Payments ---

func (s *PostgresStore) CreatePayment(req *models.PaymentRequest, method models.PaymentMethod) (*models.Payment, error) {
	p := &models.Payment{
		ID:              uuid.New(),
		ReservationID:   req.ReservationID,
		Amount:          req.Amount,
		Method:          method,
		ReferenceNumber: req.ReferenceNumber,
		ReceiptURL:      req.ReceiptURL,
		Notes:           req.Notes,
		Status:          models.PaymentPending,
		CreatedAt:       time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO payments (id, reservation_id, amount, method, reference_number, receipt_url, notes, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.ReservationID, p.Amount, p.Method, p.ReferenceNumber, p.ReceiptURL, p.Notes, p.Status, p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return p, nil
}

const paymentColumns = `id, reservation_id, amount, method,
	COALESCE(reference_number, '') AS reference_number,
	COALESCE(receipt_url, '') AS receipt_url, COALESCE(notes, '') AS notes,
	status, verified_at, verified_by, created_at`

func (s *PostgresStore) GetPaymentByID(id uuid.UUID) (*models.Payment, error) {
	var p models.Payment
	err := s.db.Get(&p, "SELECT "+paymentColumns+" FROM payments WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) VerifyPayment(id uuid.UUID, verified bool, verifierID uuid.UUID) error {
	status := models.PaymentVerified
	if !verified {
		status = models.PaymentDeclined
	}

	result, err := s.db.Exec(
		"UPDATE payments SET status = $1, verified_at = $2, verified_by = $3 WHERE id = $4",
		status, time.Now().UTC(), verifierID, id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListPaymentsByTenant(tenantID uuid.UUID) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := s.db.Select(&payments,
		`SELECT p.id, p.reservation_id, p.amount, p.method,
		        COALESCE(p.reference_number, '') AS reference_number,
		        COALESCE(p.receipt_url, '') AS receipt_url, COALESCE(p.notes, '') AS notes,
		        p.status, p.verified_at, p.verified_by, p.created_at
		 FROM payments p
		 JOIN reservations r ON r.id = p.reservation_id
		 WHERE r.tenant_id = $1
		 ORDER BY p.created_at DESC`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (s *PostgresStore) ListPaymentsForLandlord(landlordID uuid.UUID) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := s.db.Select(&payments,
		`SELECT p.id, p.reservation_id, p.amount, p.method,
		        COALESCE(p.reference_number, '') AS reference_number,
		        COALESCE(p.receipt_url, '') AS receipt_url, COALESCE(p.notes, '') AS notes,
		        p.status, p.verified_at, p.verified_by, p.created_at
		 FROM payments p
		 JOIN reservations r ON r.id = p.reservation_id
		 JOIN properties pr ON pr.id = r.property_id
		 WHERE pr.landlord_id = $1
		 ORDER BY p.created_at DESC`,
		landlordID,
	)
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// --- Reviews ---

func (s *PostgresStore) CreateReview(tenantID uuid.UUID, req *models.ReviewRequest) (*models.Review, error) {
	r := &models.Review{
		ID:         uuid.New(),
		PropertyID: req.PropertyID,
		TenantID:   tenantID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		IsApproved: false,
		CreatedAt:  time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO reviews (id, property_id, tenant_id, rating, comment, is_approved, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.PropertyID, r.TenantID, r.Rating, r.Comment, r.IsApproved, r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return r, nil
}

const reviewColumns = `id, property_id, tenant_id, rating,
	COALESCE(comment, '') AS comment, is_approved, created_at`

func (s *PostgresStore) GetReviewByID(id uuid.UUID) (*models.Review, error) {
	var r models.Review
	err := s.db.Get(&r, "SELECT "+reviewColumns+" FROM reviews WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *PostgresStore) SetReviewApproval(id uuid.UUID, approved bool) error {
	result, err := s.db.Exec("UPDATE reviews SET is_approved = $1 WHERE id = $2", approved, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListPendingReviews() ([]*models.Review, error) {
	var reviews []*models.Review
	err := s.db.Select(&reviews,
		"SELECT "+reviewColumns+" FROM reviews WHERE is_approved = false ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *PostgresStore) ListApprovedReviews(propertyID uuid.UUID) ([]*models.Review, error) {
	var reviews []*models.Review
	err := s.db.Select(&reviews,
		"SELECT "+reviewColumns+" FROM reviews WHERE property_id = $1 AND is_approved = true ORDER BY created_at DESC",
		propertyID,
	)
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// --- Admin ---

func (s *PostgresStore) CountOverview() (*Overview, error) {
	var o Overview
	err := s.db.Get(&o, `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM properties) AS total_properties,
			(SELECT COUNT(*) FROM reservations) AS total_reservations,
			(SELECT COUNT(*) FROM payments) AS total_payments,
			(SELECT COUNT(*) FROM reviews WHERE is_approved = false) AS pending_reviews`,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
