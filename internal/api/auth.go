package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mlazaro/bahay/internal/auth"
	"github.com/mlazaro/bahay/internal/models"
	"github.com/mlazaro/bahay/internal/store"
)

// AuthHandler handles authentication routes
type AuthHandler struct {
	Store store.Store
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(st store.Store) *AuthHandler {
	return &AuthHandler{Store: st}
}

// Register handles user registration. Accounts register as tenants or
// landlords; admin accounts are provisioned out of band.
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.UserRegistration

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.RoleTenant
	if input.Role != "" {
		parsed, err := models.ParseRole(input.Role)
		if err != nil || parsed == models.RoleAdmin {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		role = parsed
	}

	hashedPassword, err := auth.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
		return
	}

	user, err := h.Store.CreateUser(input.Email, hashedPassword, input.FullName, role)
	if err == store.ErrUserAlreadyExists {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		return
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user.Response())
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.UserLogin

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Store.GetUserByEmail(input.Email)
	if err == store.ErrUserNotFound {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}

	if !auth.CheckPasswordHash(input.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, expiry, err := auth.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"expiry": expiry,
		"user":   user.Response(),
	})
}

// GetMe gets the current user profile
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.Store.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}

	c.JSON(http.StatusOK, user.Response())
}

// GetAllUsers lists every other account, used to start a conversation.
func (h *AuthHandler) GetAllUsers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	users, err := h.Store.ListUsers(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	responses := make([]models.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.Response()
	}

	c.JSON(http.StatusOK, responses)
}
