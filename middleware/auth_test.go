package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/benmed00/lucid-web-craftsman-sub003/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func setupAuthRouter(serviceToken string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.AuthMiddleware(serviceToken))
	r.GET("/whoami", func(c *gin.Context) {
		userID := ""
		if id, ok := middleware.GetUserID(c); ok {
			userID = id.String()
		}
		c.JSON(http.StatusOK, gin.H{
			"internal": middleware.IsInternal(c),
			"admin":    middleware.IsAdmin(c),
			"user_id":  userID,
		})
	})
	r.GET("/admin", middleware.AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func get(r *gin.Engine, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_NoCredentials(t *testing.T) {
	r := setupAuthRouter("secret")
	w := get(r, "/whoami", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ServiceToken(t *testing.T) {
	r := setupAuthRouter("secret")
	w := get(r, "/whoami", map[string]string{"Authorization": "Bearer secret"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"internal":true`)
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	r := setupAuthRouter("secret")
	w := get(r, "/whoami", map[string]string{"Authorization": "Bearer wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_EmptyConfiguredTokenNeverMatches(t *testing.T) {
	r := setupAuthRouter("")
	w := get(r, "/whoami", map[string]string{"Authorization": "Bearer "})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_UserHeaders(t *testing.T) {
	r := setupAuthRouter("secret")
	userID := uuid.NewString()
	w := get(r, "/whoami", map[string]string{"X-User-ID": userID, "X-User-Role": "Admin"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID)
	assert.Contains(t, w.Body.String(), `"admin":true`)
}

func TestAdminOnly(t *testing.T) {
	r := setupAuthRouter("secret")

	asCustomer := get(r, "/admin", map[string]string{"X-User-ID": uuid.NewString()})
	assert.Equal(t, http.StatusForbidden, asCustomer.Code)

	asAdmin := get(r, "/admin", map[string]string{"X-User-ID": uuid.NewString(), "X-User-Role": "admin"})
	assert.Equal(t, http.StatusOK, asAdmin.Code)

	asService := get(r, "/admin", map[string]string{"Authorization": "Bearer secret"})
	assert.Equal(t, http.StatusOK, asService.Code)
}
