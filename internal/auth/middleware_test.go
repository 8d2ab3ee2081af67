package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/bookwriter/internal/config"
	"github.com/mrlokans/bookwriter/internal/entities"
)

func setupMiddlewareTest(t *testing.T) (*Service, *TokenIssuer, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Auth{
		JWTSecret:       "test-signing-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
		BcryptCost:      bcrypt.MinCost,
	}
	service := NewService(setupTestDB(t), cfg)
	tokens := NewTokenIssuer(cfg)
	middleware := NewMiddleware(service, nil, tokens)

	router := gin.New()
	router.Use(middleware.Handler())
	router.GET("/api/books/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  GetUserID(c),
			"username": GetUsername(c),
			"role":     GetUserRole(c),
		})
	})
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.POST("/api/sections/", middleware.RequireRole(entities.RoleAuthor), func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	return service, tokens, router
}

func TestMiddleware_PublicPathSkipsAuth(t *testing.T) {
	_, _, router := setupMiddlewareTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddleware_Unauthenticated(t *testing.T) {
	_, _, router := setupMiddlewareTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/books/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"authentication required"}`, w.Body.String())
}

func TestMiddleware_BearerToken(t *testing.T) {
	service, tokens, router := setupMiddlewareTest(t)

	user, err := service.Register("alice", "alice@example.com", "pw", entities.RoleAuthor)
	require.NoError(t, err)
	access, _, err := tokens.IssuePair(user)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/books/", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
	assert.Contains(t, w.Body.String(), `"role":"author"`)
}

func TestMiddleware_BearerToken_Malformed(t *testing.T) {
	_, _, router := setupMiddlewareTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/books/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_RefreshTokenRejectedAsBearer(t *testing.T) {
	service, tokens, router := setupMiddlewareTest(t)

	user, err := service.Register("alice", "alice@example.com", "pw", entities.RoleAuthor)
	require.NoError(t, err)
	_, refresh, err := tokens.IssuePair(user)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/books/", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole_AllowsAuthor(t *testing.T) {
	service, tokens, router := setupMiddlewareTest(t)

	user, err := service.Register("alice", "alice@example.com", "pw", entities.RoleAuthor)
	require.NoError(t, err)
	access, _, err := tokens.IssuePair(user)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sections/", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRequireRole_RejectsCollaborator(t *testing.T) {
	service, tokens, router := setupMiddlewareTest(t)

	user, err := service.Register("bob", "bob@example.com", "pw", entities.RoleCollaborator)
	require.NoError(t, err)
	access, _, err := tokens.IssuePair(user)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sections/", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"insufficient permissions"}`, w.Body.String())
}

// Role comes from the profile on every request, so a role change takes
// effect without reissuing tokens.
func TestMiddleware_RoleReadFromProfile(t *testing.T) {
	service, tokens, router := setupMiddlewareTest(t)

	user, err := service.Register("bob", "bob@example.com", "pw", entities.RoleCollaborator)
	require.NoError(t, err)
	access, _, err := tokens.IssuePair(user)
	require.NoError(t, err)

	err = service.db.Model(&entities.UserProfile{}).
		Where("user_id = ?", user.ID).
		Update("role", entities.RoleAuthor).Error
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sections/", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}
