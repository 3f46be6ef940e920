package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/personascape/backend/internal/middleware"
	"github.com/personascape/backend/internal/service"
	"github.com/personascape/backend/internal/testhelpers"
	"github.com/personascape/backend/internal/types"
)

func setupAuthTest(t *testing.T) (*gin.Engine, *service.AuthService, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDatabase(t)
	authService := service.NewAuthService(db, "test-secret")
	user := testhelpers.CreateTestUser(t, db, "alice")

	token, err := authService.GenerateToken(&types.TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
	})
	require.NoError(t, err)

	router := gin.New()
	return router, authService, token
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	router, authService, token := setupAuthTest(t)

	router.GET("/protected", middleware.AuthMiddleware(authService), func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"userId": userID, "username": c.GetString("username")})
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestAuthMiddlewareRejectsMissingAndBadTokens(t *testing.T) {
	router, authService, _ := setupAuthTest(t)

	router.GET("/protected", middleware.AuthMiddleware(authService), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	cases := map[string]string{
		"no header":      "",
		"not bearer":     "Basic abc123",
		"garbage token":  "Bearer not-a-jwt",
		"empty bearer":   "Bearer ",
		"wrong ordering": "abc Bearer",
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	router, authService, token := setupAuthTest(t)

	router.GET("/open", middleware.OptionalAuthMiddleware(authService), func(c *gin.Context) {
		if userID, ok := middleware.CurrentUserID(c); ok {
			c.JSON(http.StatusOK, gin.H{"userId": userID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"anonymous": true})
	})

	// Anonymous requests pass through.
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")

	// A valid token identifies the caller.
	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "userId")

	// A malformed token is still rejected.
	req = httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
