package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ArowuTest/scratchcard-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Context keys set by JWTAuthMiddleware
const (
	ContextAdminID       = "adminID"
	ContextAdminUsername = "adminUsername"
)

// JWTAuthMiddleware rejects requests without a valid admin bearer token
func JWTAuthMiddleware(tokens *jwt.AdminTokenService, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const bearerSchema = "Bearer "
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authorization header is required"})
			return
		}
		if !strings.HasPrefix(authHeader, bearerSchema) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(authHeader[len(bearerSchema):]))
		if err != nil {
			log.WithError(err).WithField("path", c.FullPath()).Warn("admin token rejected")
			if errors.Is(err, jwt.ErrExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Token has expired"})
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid token"})
			}
			return
		}

		c.Set(ContextAdminID, claims.Subject)
		c.Set(ContextAdminUsername, claims.Username)
		c.Next()
	}
}
