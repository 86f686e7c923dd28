package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mlazaro/bahay/internal/models"
	"github.com/mlazaro/bahay/internal/store"
)

// ReviewHandler handles review routes
type ReviewHandler struct {
	Store store.Store
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(st store.Store) *ReviewHandler {
	return &ReviewHandler{Store: st}
}

// CreateReview submits a tenant's review, which stays hidden until an
// admin approves it.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	tenantID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.Store.GetPropertyByID(req.PropertyID); err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load property"})
		return
	}

	review, err := h.Store.CreateReview(tenantID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}

	c.JSON(http.StatusCreated, review)
}

// ListPendingReviews returns reviews awaiting moderation. Admin only.
func (h *ReviewHandler) ListPendingReviews(c *gin.Context) {
	reviews, err := h.Store.ListPendingReviews()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reviews"})
		return
	}

	if reviews == nil {
		reviews = []*models.Review{}
	}
	c.JSON(http.StatusOK, reviews)
}

// ApproveReview records the admin's moderation decision and notifies
// the review's author.
func (h *ReviewHandler) ApproveReview(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("reviewID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	var req models.ReviewApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.Store.GetReviewByID(reviewID)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load review"})
		return
	}

	if err := h.Store.SetReviewApproval(reviewID, req.Approved); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update review"})
		return
	}

	outcome := "approved"
	if !req.Approved {
		outcome = "rejected"
	}
	notifyUser(h.Store, review.TenantID, models.NotificationReview,
		"Review "+outcome,
		"Your review was "+outcome,
		"/dashboard/tenant")

	c.JSON(http.StatusOK, gin.H{"message": "Review " + outcome})
}
