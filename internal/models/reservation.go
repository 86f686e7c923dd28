package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReservationStatus follows the booking lifecycle: a tenant submits a
// pending request, the landlord approves or declines it.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationApproved  ReservationStatus = "approved"
	ReservationDeclined  ReservationStatus = "declined"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

// ParseReservationStatus rejects values outside the known set.
func ParseReservationStatus(s string) (ReservationStatus, error) {
	switch ReservationStatus(s) {
	case ReservationPending, ReservationApproved, ReservationDeclined,
		ReservationCancelled, ReservationCompleted:
		return ReservationStatus(s), nil
	default:
		return "", fmt.Errorf("unknown reservation status %q", s)
	}
}

// Reservation is a tenant's booking request for a property.
type Reservation struct {
	ID         uuid.UUID         `json:"id" db:"id"`
	PropertyID uuid.UUID         `json:"property_id" db:"property_id"`
	TenantID   uuid.UUID         `json:"tenant_id" db:"tenant_id"`
	CheckIn    time.Time         `json:"check_in" db:"check_in"`
	CheckOut   *time.Time        `json:"check_out,omitempty" db:"check_out"`
	Notes      string            `json:"notes,omitempty" db:"notes"`
	Status     ReservationStatus `json:"status" db:"status"`
	CreatedAt  time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at" db:"updated_at"`
}

// ReservationRequest is the payload for a booking submission.
type ReservationRequest struct {
	PropertyID uuid.UUID  `json:"property_id" binding:"required"`
	CheckIn    time.Time  `json:"check_in" binding:"required"`
	CheckOut   *time.Time `json:"check_out,omitempty"`
	Notes      string     `json:"notes"`
}

// ReservationStatusRequest carries a landlord's approve/decline decision.
type ReservationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
