package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"user_manager/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	AuthAccountKey = "authAccount"
	AuthEmailKey   = "authEmail"
)

// TokenAuthMiddleware rejects requests without a fresh session token
func TokenAuthMiddleware(tokenUtil *utils.TokenUtil, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		claims, err := tokenUtil.ValidateToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
				return
			}
			log.Debug("rejected session token", "path", c.FullPath(), "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(AuthAccountKey, claims.AccountID)
		c.Set(AuthEmailKey, claims.Email)

		c.Next()
	}
}
