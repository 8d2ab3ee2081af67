package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookwriter/internal/entities"
)

// Controller handles the authentication HTTP endpoints.
type Controller struct {
	service        *Service
	sessionManager *SessionManager
	tokens         *TokenIssuer
}

// NewController creates a new authentication controller.
func NewController(service *Service, sessionManager *SessionManager, tokens *TokenIssuer) *Controller {
	return &Controller{
		service:        service,
		sessionManager: sessionManager,
		tokens:         tokens,
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *Controller) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/signup", ac.Signup)
	router.POST("/api/login", ac.Login)
	router.POST("/api/logout", ac.Logout)
	router.POST("/api/token/refresh", ac.Refresh)
}

// Signup registers a new user and its profile.
// POST /api/signup
func (ac *Controller) Signup(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Role == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrRoleRequired.Error()})
		return
	}
	role, ok := entities.ParseRole(req.Role)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrInvalidRole.Error()})
		return
	}

	user, err := ac.service.Register(req.Username, req.Email, req.Password, role)
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists."})
			return
		}
		switch {
		case errors.Is(err, ErrUsernameRequired),
			errors.Is(err, ErrEmailRequired),
			errors.Is(err, ErrPasswordRequired),
			errors.Is(err, ErrUsernameInvalid),
			errors.Is(err, ErrEmailInvalid),
			errors.Is(err, ErrPasswordTooLong),
			errors.Is(err, ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("Internal error (signup): %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": "User created successfully.",
		"response": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     role,
		},
	})
}

// Login verifies credentials, establishes a session and issues the
// access/refresh token pair.
// POST /api/login
func (ac *Controller) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := ac.service.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials."})
			return
		}
		log.Printf("Internal error (login): %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	role, err := ac.service.GetRoleForUser(user.ID)
	if err != nil {
		log.Printf("Internal error (login role lookup): %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if ac.sessionManager != nil {
		if err := ac.sessionManager.CreateSession(c.Request, user, role); err != nil {
			log.Printf("Internal error (login session): %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
	}

	access, refresh, err := ac.tokens.IssuePair(user)
	if err != nil {
		log.Printf("Internal error (login tokens): %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"detail": "Login successful.",
		"response": gin.H{
			"id":            user.ID,
			"email":         user.Email,
			"access_token":  access,
			"refresh_token": refresh,
		},
	})
}

// Logout clears the current session. Idempotent: a request without a
// session still succeeds.
// POST /api/logout
func (ac *Controller) Logout(c *gin.Context) {
	if ac.sessionManager != nil && ac.sessionManager.IsAuthenticated(c.Request) {
		if err := ac.sessionManager.DestroySession(c.Request); err != nil {
			log.Printf("Internal error (logout): %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Logout successful."})
}

// Refresh exchanges a valid refresh token for a new access token.
// POST /api/token/refresh
func (ac *Controller) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "refresh_token is required"})
		return
	}

	claims, err := ac.tokens.ParseRefresh(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	user, err := ac.service.GetUserByID(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	access, err := ac.tokens.issue(user, TokenTypeAccess, ac.tokens.accessTTL)
	if err != nil {
		log.Printf("Internal error (token refresh): %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": access})
}
