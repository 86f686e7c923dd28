package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mlazaro/bahay/internal/chat"
	"github.com/mlazaro/bahay/internal/store"
)

// MessageHandler handles message-related routes
type MessageHandler struct {
	Store store.Store
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(st store.Store) *MessageHandler {
	return &MessageHandler{Store: st}
}

// GetConversations returns the authenticated user's conversation list:
// one entry per counterpart with the newest message and unread marker.
func (h *MessageHandler) GetConversations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conversations, err := chat.NewAggregator(h.Store).Conversations(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load conversations"})
		return
	}

	if conversations == nil {
		conversations = []chat.ConversationSummary{}
	}
	c.JSON(http.StatusOK, conversations)
}

// GetConversation opens the thread with another user: full history in
// chronological order, with the incoming side swept read.
func (h *MessageHandler) GetConversation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	counterpartID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var propertyID *uuid.UUID
	if raw := c.Query("property"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			propertyID = &id
		}
	}

	thread := chat.NewThread(h.Store, userID)
	if err := thread.Open(counterpartID, propertyID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load conversation"})
		return
	}

	c.JSON(http.StatusOK, thread.Messages())
}

// SendMessage handles the creation of a new message
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		ReceiverID uuid.UUID  `json:"receiver_id" binding:"required"`
		Content    string     `json:"content" binding:"required"`
		PropertyID *uuid.UUID `json:"property_id,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Whitespace-only bodies never reach the store.
	content := strings.TrimSpace(req.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message body is empty"})
		return
	}

	message, err := h.Store.CreateMessage(userID, req.ReceiverID, content, req.PropertyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, message)
}

// MarkConversationRead sweeps every message the counterpart sent the
// authenticated user to read. Idempotent.
func (h *MessageHandler) MarkConversationRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	counterpartID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if err := h.Store.MarkThreadRead(userID, counterpartID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Conversation marked as read"})
}
