package middleware

import (
	"errors"
	"strings"

	"finance_tracker/internal/auth"
	"finance_tracker/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthMiddleware is the authorization gate for /api routes: it extracts
// the bearer token, verifies it, resolves the identity and attaches it to
// the request context. Every failure path rejects the request; only a
// user that no longer exists is reported as 404, everything else is 401.
func AuthMiddleware(secret string, users user.UserServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(401, gin.H{"message": "Authorization token missing or invalid"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := auth.ValidateToken(tokenString, secret)
		if err != nil {
			c.JSON(401, gin.H{"message": "Invalid token"})
			c.Abort()
			return
		}

		resolved, err := users.GetUserByID(claims.UserID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				c.JSON(404, gin.H{"message": "User not found"})
			} else {
				// Fail closed on unexpected store faults.
				logrus.WithError(err).Error("Auth identity resolution failed")
				c.JSON(401, gin.H{"message": "Unauthorized access"})
			}
			c.Abort()
			return
		}

		c.Set(auth.UserIDKey, resolved.ID)
		c.Set(auth.CurrentUserKey, resolved.Public())
		c.Next()
	}
}
