package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys set by AuthMiddleware.
const (
	InternalKey = "internal"
	UserIDKey   = "userID"
	RoleKey     = "role"
)

// AuthMiddleware authenticates requests. Two credential forms are accepted:
// the internal service token as a bearer credential (trusted callers such as
// the checkout function), or the X-User-ID / X-User-Role headers injected by
// the API gateway for authenticated end users.
func AuthMiddleware(serviceToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if serviceToken != "" && auth == "Bearer "+serviceToken {
			c.Set(InternalKey, true)
			c.Next()
			return
		}

		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
				"code":  "UNAUTHORIZED",
			})
			return
		}
		c.Set(UserIDKey, userID)
		c.Set(RoleKey, strings.ToLower(c.GetHeader("X-User-Role")))
		c.Next()
	}
}

// IsInternal reports whether the request carries the internal service token.
func IsInternal(c *gin.Context) bool {
	return c.GetBool(InternalKey)
}

// IsAdmin reports whether the authenticated user has the admin role.
func IsAdmin(c *gin.Context) bool {
	return c.GetString(RoleKey) == "admin"
}

// GetUserID returns the authenticated user's id, when present and valid.
func GetUserID(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.GetString(UserIDKey)
	if raw == "" {
		return nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, false
	}
	return &id, true
}

// AdminOnly rejects requests from non-admin end users. Internal callers pass.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsInternal(c) || IsAdmin(c) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "Admin access required",
			"code":  "FORBIDDEN",
		})
	}
}
