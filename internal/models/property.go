package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PropertyStatus tracks whether a listing can currently be booked.
type PropertyStatus string

const (
	PropertyAvailable   PropertyStatus = "available"
	PropertyOccupied    PropertyStatus = "occupied"
	PropertyMaintenance PropertyStatus = "maintenance"
)

// ParsePropertyStatus rejects values outside the known set.
func ParsePropertyStatus(s string) (PropertyStatus, error) {
	switch PropertyStatus(s) {
	case PropertyAvailable, PropertyOccupied, PropertyMaintenance:
		return PropertyStatus(s), nil
	default:
		return "", fmt.Errorf("unknown property status %q", s)
	}
}

// Property is a boarding house listing owned by a landlord.
type Property struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	LandlordID  uuid.UUID      `json:"landlord_id" db:"landlord_id"`
	Title       string         `json:"title" db:"title"`
	Description string         `json:"description,omitempty" db:"description"`
	Address     string         `json:"address" db:"address"`
	City        string         `json:"city" db:"city"`
	Rent        float64        `json:"rent" db:"rent"`
	Deposit     float64        `json:"deposit" db:"deposit"`
	Bedrooms    int            `json:"bedrooms" db:"bedrooms"`
	Bathrooms   int            `json:"bathrooms" db:"bathrooms"`
	AreaSqm     float64        `json:"area_sqm" db:"area_sqm"`
	Facilities  pq.StringArray `json:"facilities" db:"facilities"`
	Images      pq.StringArray `json:"images" db:"images"`
	Status      PropertyStatus `json:"status" db:"status"`
	Featured    bool           `json:"featured" db:"featured"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// PropertyRequest is the payload for creating a listing.
type PropertyRequest struct {
	Title       string   `json:"title" binding:"required,min=3,max=200"`
	Description string   `json:"description"`
	Address     string   `json:"address" binding:"required"`
	City        string   `json:"city" binding:"required"`
	Rent        float64  `json:"rent" binding:"required,gt=0"`
	Deposit     float64  `json:"deposit" binding:"gte=0"`
	Bedrooms    int      `json:"bedrooms" binding:"gte=0"`
	Bathrooms   int      `json:"bathrooms" binding:"gte=0"`
	AreaSqm     float64  `json:"area_sqm" binding:"gte=0"`
	Facilities  []string `json:"facilities"`
	Images      []string `json:"images"`
}

// PropertyFilter narrows the public listing query.
type PropertyFilter struct {
	City   string
	Status PropertyStatus
}
