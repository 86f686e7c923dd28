package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mlazaro/bahay/internal/store"
)

// AdminHandler serves the admin dashboard overview.
type AdminHandler struct {
	Store store.Store
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(st store.Store) *AdminHandler {
	return &AdminHandler{Store: st}
}

// GetOverview returns marketplace-wide counts for the admin dashboard.
func (h *AdminHandler) GetOverview(c *gin.Context) {
	overview, err := h.Store.CountOverview()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load overview"})
		return
	}

	c.JSON(http.StatusOK, overview)
}
