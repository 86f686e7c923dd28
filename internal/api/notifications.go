package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mlazaro/bahay/internal/models"
	"github.com/mlazaro/bahay/internal/store"
)

// Dashboard shows the most recent notifications only.
const notificationLimit = 20

// NotificationHandler handles notification routes
type NotificationHandler struct {
	Store store.Store
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(st store.Store) *NotificationHandler {
	return &NotificationHandler{Store: st}
}

// GetNotifications lists the user's notifications, newest first.
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	notifications, err := h.Store.ListNotifications(userID, notificationLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load notifications"})
		return
	}

	if notifications == nil {
		notifications = []*models.Notification{}
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead flips a notification read and returns the
// refreshed list so the dashboard can re-render in one round trip.
// There is no batching and no undo.
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	notificationID, err := uuid.Parse(c.Param("notificationID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	if err := h.Store.MarkNotificationRead(notificationID); err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	notifications, err := h.Store.ListNotifications(userID, notificationLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}
