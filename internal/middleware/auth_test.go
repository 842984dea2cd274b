// internal/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/staffhub/staffhub-backend/internal/utils"
)

func setupAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret")

	r := gin.New()
	r.GET("/me", AuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":   c.GetString("user_id"),
			"user_type": c.GetString("user_type"),
		})
	})
	r.GET("/admin", AuthRequired(), AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequiredWithValidToken(t *testing.T) {
	r := setupAuthRouter(t)

	token, err := utils.GenerateJWT(uuid.New(), "testbureau", "bureau", uuid.New().String(), 1)
	assert.NoError(t, err)

	w := doRequest(r, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bureau")
}

func TestAuthRequiredRejections(t *testing.T) {
	r := setupAuthRouter(t)

	w := doRequest(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, "/me", "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, "/me", "Bearer not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Token signed with a different secret
	utils.SetJWTSecret("other-secret")
	token, err := utils.GenerateJWT(uuid.New(), "testuser", "company", "", 1)
	assert.NoError(t, err)
	utils.SetJWTSecret("test-secret")

	w = doRequest(r, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRequired(t *testing.T) {
	r := setupAuthRouter(t)

	adminToken, err := utils.GenerateJWT(uuid.New(), "admin", "admin", "", 1)
	assert.NoError(t, err)
	w := doRequest(r, "/admin", "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, w.Code)

	companyToken, err := utils.GenerateJWT(uuid.New(), "acme", "company", uuid.New().String(), 1)
	assert.NoError(t, err)
	w = doRequest(r, "/admin", "Bearer "+companyToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
