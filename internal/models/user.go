package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role determines which dashboard and workflow actions a user may access.
type Role string

const (
	RoleTenant   Role = "tenant"
	RoleLandlord Role = "landlord"
	RoleAdmin    Role = "admin"
)

// ParseRole validates a role string coming from the database or a request.
// Unknown values are rejected rather than passed through.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleTenant, RoleLandlord, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// User represents an account in the marketplace
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never send to client
	FullName     string    `json:"full_name,omitempty" db:"full_name"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	Bio          string    `json:"bio,omitempty" db:"bio"`
	AvatarURL    string    `json:"avatar_url,omitempty" db:"avatar_url"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserSummary is the slim profile shape attached to conversations
// and public listings.
type UserSummary struct {
	ID       uuid.UUID `json:"id" db:"id"`
	FullName string    `json:"full_name,omitempty" db:"full_name"`
	Email    string    `json:"email" db:"email"`
}

// Summary trims a user down to the fields safe to show other users.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, FullName: u.FullName, Email: u.Email}
}

// UserRegistration contains data needed for user registration
type UserRegistration struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required,min=2,max=100"`
	Role     string `json:"role"`
}

// UserLogin contains data needed for user login
type UserLogin struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is what we return to the client
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Response converts a user into its client-facing shape.
func (u *User) Response() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Phone:     u.Phone,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
