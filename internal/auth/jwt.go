package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/mlazaro/bahay/internal/logger"
	"github.com/mlazaro/bahay/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	// Initialized from the environment or explicitly via InitJWTKey
	// once configuration has been loaded.
	jwtKey = []byte(os.Getenv("JWT_SECRET"))
	log    = logger.New("auth")
)

// InitJWTKey initializes the JWT key with the provided secret.
// Call after environment variables are loaded, or from tests.
func InitJWTKey(key []byte) {
	jwtKey = key
}

// JWTClaims represents the claims in the JWT
type JWTClaims struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken creates a new JWT token for a user
func GenerateToken(user *models.User) (string, time.Time, error) {
	if user == nil {
		return "", time.Time{}, errors.New("user cannot be nil")
	}

	if user.ID == uuid.Nil {
		return "", time.Time{}, errors.New("user ID cannot be empty")
	}

	expirationTime := time.Now().Add(24 * time.Hour)

	claims := &JWTClaims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtKey)

	return tokenString, expirationTime, err
}

// ValidateToken validates a JWT token and returns the claims
func ValidateToken(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			log.Error("Unexpected signing method: %v", token.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtKey, nil
	})

	if err != nil {
		log.Debug("Token validation error: %v", err)
		return nil, err
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	// Reject tokens carrying a role outside the known set.
	if _, err := models.ParseRole(string(claims.Role)); err != nil {
		log.Warn("Token with invalid role for user %s", claims.UserID)
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GetUserIDFromToken extracts the UserID from claims
func GetUserIDFromToken(claims *JWTClaims) (uuid.UUID, error) {
	if claims == nil {
		return uuid.Nil, errors.New("claims cannot be nil")
	}
	return uuid.Parse(claims.UserID)
}
