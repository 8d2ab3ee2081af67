package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookwriter/internal/entities"
)

// Context keys for user data
const (
	ContextKeyUserID   = "auth_user_id"
	ContextKeyUsername = "auth_username"
	ContextKeyRole     = "auth_role"
	ContextKeyAuthType = "auth_type" // "session", "bearer", or "none"
)

// AuthType indicates how the user was authenticated
type AuthType string

const (
	AuthTypeNone    AuthType = "none"
	AuthTypeSession AuthType = "session"
	AuthTypeBearer  AuthType = "bearer"
)

// Middleware handles authentication for HTTP requests.
type Middleware struct {
	service        *Service
	sessionManager *SessionManager
	tokens         *TokenIssuer
	publicPaths    map[string]bool
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(service *Service, sessionManager *SessionManager, tokens *TokenIssuer) *Middleware {
	publicPaths := map[string]bool{
		"/health":            true,
		"/ping":              true,
		"/api/signup":        true,
		"/api/login":         true,
		"/api/token/refresh": true,
		// Logout is idempotent: a second call carries no session and must
		// still succeed, so it skips the authentication requirement.
		"/api/logout": true,
	}

	return &Middleware{
		service:        service,
		sessionManager: sessionManager,
		tokens:         tokens,
		publicPaths:    publicPaths,
	}
}

// Handler returns a Gin middleware handler that authenticates requests.
// Bearer access tokens are tried first, then the session cookie.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.publicPaths[c.Request.URL.Path] {
			c.Set(ContextKeyAuthType, AuthTypeNone)
			c.Next()
			return
		}

		if user, role := m.tryBearerAuth(c); user != nil {
			m.setUserContext(c, user, role, AuthTypeBearer)
			c.Next()
			return
		}

		if user, role := m.trySessionAuth(c); user != nil {
			m.setUserContext(c, user, role, AuthTypeSession)
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "authentication required",
		})
	}
}

// tryBearerAuth attempts to authenticate using a Bearer access token.
func (m *Middleware) tryBearerAuth(c *gin.Context) (*entities.User, entities.Role) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, ""
	}

	// Extract token from "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, ""
	}

	claims, err := m.tokens.ParseAccess(parts[1])
	if err != nil {
		return nil, ""
	}

	user, err := m.service.GetUserByID(claims.UserID)
	if err != nil {
		return nil, ""
	}

	role, err := m.service.GetRoleForUser(user.ID)
	if err != nil {
		return nil, ""
	}

	return user, role
}

// trySessionAuth attempts to authenticate using the session cookie.
func (m *Middleware) trySessionAuth(c *gin.Context) (*entities.User, entities.Role) {
	if m.sessionManager == nil {
		return nil, ""
	}

	userID := m.sessionManager.GetUserID(c.Request)
	if userID == 0 {
		return nil, ""
	}

	user, err := m.service.GetUserByID(userID)
	if err != nil {
		return nil, ""
	}

	// The role in the session is a snapshot from login; read the profile so
	// an admin-side role change takes effect on the next request.
	role, err := m.service.GetRoleForUser(user.ID)
	if err != nil {
		return nil, ""
	}

	return user, role
}

// setUserContext stores user information in the Gin context.
func (m *Middleware) setUserContext(c *gin.Context, user *entities.User, role entities.Role, authType AuthType) {
	c.Set(ContextKeyUserID, user.ID)
	c.Set(ContextKeyUsername, user.Username)
	c.Set(ContextKeyRole, role)
	c.Set(ContextKeyAuthType, authType)
}

// RequireRole returns a middleware that requires one of the given roles.
// Must run after Handler so the requester's identity is resolved.
func (m *Middleware) RequireRole(roles ...entities.Role) gin.HandlerFunc {
	roleSet := make(map[entities.Role]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		if !roleSet[GetUserRole(c)] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "insufficient permissions",
			})
			return
		}
		c.Next()
	}
}

// Helper functions to extract auth data from Gin context

// GetUserID retrieves the authenticated user's ID from the context.
// Returns 0 if not authenticated.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextKeyUserID); exists {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return 0
}

// GetUsername retrieves the authenticated user's username from the context.
func GetUsername(c *gin.Context) string {
	if name, exists := c.Get(ContextKeyUsername); exists {
		if username, ok := name.(string); ok {
			return username
		}
	}
	return ""
}

// GetUserRole retrieves the authenticated user's role from the context.
func GetUserRole(c *gin.Context) entities.Role {
	if r, exists := c.Get(ContextKeyRole); exists {
		if role, ok := r.(entities.Role); ok {
			return role
		}
	}
	return ""
}

// GetAuthType retrieves the authentication method used.
func GetAuthType(c *gin.Context) AuthType {
	if t, exists := c.Get(ContextKeyAuthType); exists {
		if authType, ok := t.(AuthType); ok {
			return authType
		}
	}
	return AuthTypeNone
}

// IsAuthenticated returns true if the request is authenticated.
func IsAuthenticated(c *gin.Context) bool {
	return GetUserID(c) != 0
}
