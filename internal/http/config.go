package http

import (
	"github.com/mrlokans/bookwriter/internal/auth"
	"github.com/mrlokans/bookwriter/internal/database"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
// This replaces a long parameter list in NewRouter.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database

	// Resource stores
	BookStore          BookStore
	SectionStore       SectionStore
	SubsectionStore    SubsectionStore
	CollaborationStore CollaborationStore

	// Authentication
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	TokenIssuer    *auth.TokenIssuer

	// Application info
	Version string
}
