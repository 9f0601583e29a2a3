package middleware

import (
	"errors"
	"net/http"
	"strings"

	"deckboard/internal/apperr"
	"deckboard/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserIDKey holds the authenticated user's uuid.UUID in the gin context.
const UserIDKey = "user_id"

// JWTAuthMiddleware verifies the bearer token signed with secret.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return Authenticate(auth.NewTokenManager(secret, 0))
}

func Authenticate(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" && c.Query("access_token") != "" {
			// browsers cannot set headers on websocket upgrades
			header = "Bearer " + c.Query("access_token")
		}
		if header == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			abortUnauthorized(c, "Authorization header format must be Bearer {token}")
			return
		}

		identity, err := tokens.ParseToken(parts[1])
		switch {
		case errors.Is(err, auth.ErrInvalidUserID):
			abortUnauthorized(c, "Invalid user ID in token")
			return
		case err != nil:
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(UserIDKey, identity.UserID)
		c.Next()
	}
}

// UserID returns the caller set by the auth middleware.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    apperr.KindAuth.String(),
			"message": message,
		},
	})
}
