package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ratescope/api/internal/config"
	"ratescope/api/internal/models"
	"ratescope/api/internal/security"
)

const (
	ContextUserKey  = "current_user"
	ContextTokenKey = "access_token"
)

type userSource interface {
	GetByID(ctx context.Context, id string) (models.User, error)
}

type tokenSource interface {
	FindLive(ctx context.Context, tokenHash []byte) (models.RefreshToken, error)
}

// Auth gates protected endpoints. A token is accepted only when its signature
// and expiry verify and its hash still exists in the owner's refresh-token
// list, so logout revokes access immediately. The gate never mutates state.
func Auth(cfg *config.AppConfig, users userSource, tokens tokenSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized: No token"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := security.ParseSessionToken(tokenStr, cfg.Security.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token verification failed"})
			return
		}

		record, err := tokens.FindLive(c.Request.Context(), security.HashSessionToken(tokenStr))
		if err != nil || record.UserID != claims.UserID {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token verification failed"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized: User not found"})
			return
		}
		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized: User not found"})
			return
		}

		c.Set(ContextTokenKey, tokenStr)
		c.Set(ContextUserKey, user)

		c.Next()
	}
}
