package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PaymentMethod is how the tenant settled the amount.
type PaymentMethod string

const (
	PaymentGcash        PaymentMethod = "gcash"
	PaymentPaymaya      PaymentMethod = "paymaya"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCash         PaymentMethod = "cash"
)

// ParsePaymentMethod rejects values outside the known set.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentGcash, PaymentPaymaya, PaymentBankTransfer, PaymentCash:
		return PaymentMethod(s), nil
	default:
		return "", fmt.Errorf("unknown payment method %q", s)
	}
}

// PaymentStatus tracks landlord verification of a submitted payment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentVerified PaymentStatus = "verified"
	PaymentDeclined PaymentStatus = "declined"
)

// ParsePaymentStatus rejects values outside the known set.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentVerified, PaymentDeclined:
		return PaymentStatus(s), nil
	default:
		return "", fmt.Errorf("unknown payment status %q", s)
	}
}

// Payment is a tenant's payment record against a reservation, verified
// manually by the landlord.
type Payment struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	ReservationID   uuid.UUID     `json:"reservation_id" db:"reservation_id"`
	Amount          float64       `json:"amount" db:"amount"`
	Method          PaymentMethod `json:"method" db:"method"`
	ReferenceNumber string        `json:"reference_number,omitempty" db:"reference_number"`
	ReceiptURL      string        `json:"receipt_url,omitempty" db:"receipt_url"`
	Notes           string        `json:"notes,omitempty" db:"notes"`
	Status          PaymentStatus `json:"status" db:"status"`
	VerifiedAt      *time.Time    `json:"verified_at,omitempty" db:"verified_at"`
	VerifiedBy      *uuid.UUID    `json:"verified_by,omitempty" db:"verified_by"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
}

// PaymentRequest is the payload for submitting a payment.
type PaymentRequest struct {
	ReservationID   uuid.UUID `json:"reservation_id" binding:"required"`
	Amount          float64   `json:"amount" binding:"required,gt=0"`
	Method          string    `json:"method" binding:"required"`
	ReferenceNumber string    `json:"reference_number"`
	ReceiptURL      string    `json:"receipt_url"`
	Notes           string    `json:"notes"`
}

// PaymentVerifyRequest carries the landlord's verify/decline decision.
type PaymentVerifyRequest struct {
	Verified bool `json:"verified"`
}
