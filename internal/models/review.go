package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a tenant's rating of a property. Reviews stay hidden from
// public listings until an admin approves them.
type Review struct {
	ID         uuid.UUID `json:"id" db:"id"`
	PropertyID uuid.UUID `json:"property_id" db:"property_id"`
	TenantID   uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Rating     int       `json:"rating" db:"rating"`
	Comment    string    `json:"comment,omitempty" db:"comment"`
	IsApproved bool      `json:"is_approved" db:"is_approved"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// ReviewRequest is the payload for submitting a review.
type ReviewRequest struct {
	PropertyID uuid.UUID `json:"property_id" binding:"required"`
	Rating     int       `json:"rating" binding:"required,min=1,max=5"`
	Comment    string    `json:"comment"`
}

// ReviewApproveRequest carries the admin's moderation decision.
type ReviewApproveRequest struct {
	Approved bool `json:"approved"`
}
