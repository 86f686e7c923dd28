package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mlazaro/bahay/internal/models"
	"github.com/mlazaro/bahay/internal/store"
)

// PropertyHandler handles property listing routes
type PropertyHandler struct {
	Store store.Store
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(st store.Store) *PropertyHandler {
	return &PropertyHandler{Store: st}
}

// ListProperties is the public browse endpoint, filterable by city and
// status. An unrecognized status filter is rejected, not ignored.
func (h *PropertyHandler) ListProperties(c *gin.Context) {
	filter := models.PropertyFilter{City: c.Query("city")}

	if raw := c.Query("status"); raw != "" {
		status, err := models.ParsePropertyStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		filter.Status = status
	}

	properties, err := h.Store.ListProperties(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load properties"})
		return
	}

	if properties == nil {
		properties = []*models.Property{}
	}
	c.JSON(http.StatusOK, properties)
}

// GetProperty is the public detail endpoint, including approved reviews.
func (h *PropertyHandler) GetProperty(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("propertyID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID"})
		return
	}

	property, err := h.Store.GetPropertyByID(propertyID)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load property"})
		return
	}

	reviews, err := h.Store.ListApprovedReviews(propertyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reviews"})
		return
	}
	if reviews == nil {
		reviews = []*models.Review{}
	}

	c.JSON(http.StatusOK, gin.H{
		"property": property,
		"reviews":  reviews,
	})
}

// CreateProperty adds a listing owned by the authenticated landlord.
func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	landlordID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.PropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	property, err := h.Store.CreateProperty(landlordID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create property"})
		return
	}

	c.JSON(http.StatusCreated, property)
}
