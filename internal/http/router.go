package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookwriter/internal/auth"
	"github.com/mrlokans/bookwriter/internal/entities"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// Session middleware must run before the auth middleware so the session
	// context is available when identity is resolved
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}
	router.Use(cfg.AuthMiddleware.Handler())

	// Auth endpoints (signup/login/logout/refresh)
	authController := auth.NewController(cfg.AuthService, cfg.SessionManager, cfg.TokenIssuer)
	authController.RegisterRoutes(router)

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	booksController := NewBooksController(cfg.BookStore)
	sectionsController := NewSectionsController(cfg.SectionStore)
	subsectionsController := NewSubsectionsController(cfg.SubsectionStore)
	collaborationsController := NewCollaborationsController(cfg.CollaborationStore)

	requireAuthor := cfg.AuthMiddleware.RequireRole(entities.RoleAuthor)
	requireAuthorOrCollaborator := cfg.AuthMiddleware.RequireRole(entities.RoleAuthor, entities.RoleCollaborator)

	// Book endpoints
	router.GET("/api/books/", booksController.ListBooks)
	router.POST("/api/books/", booksController.CreateBook)
	router.GET("/api/books/:id/", booksController.GetBook)
	router.PUT("/api/books/:id/", booksController.UpdateBook)
	router.PATCH("/api/books/:id/", booksController.PatchBook)
	router.DELETE("/api/books/:id/", booksController.DeleteBook)

	// Section endpoints; creation is author-only, detail ops need the
	// author or collaborator role
	router.GET("/api/sections/", sectionsController.ListSections)
	router.POST("/api/sections/", requireAuthor, sectionsController.CreateSection)
	router.GET("/api/sections/:id/", requireAuthorOrCollaborator, sectionsController.GetSection)
	router.PUT("/api/sections/:id/", requireAuthorOrCollaborator, sectionsController.UpdateSection)
	router.PATCH("/api/sections/:id/", requireAuthorOrCollaborator, sectionsController.PatchSection)
	router.DELETE("/api/sections/:id/", requireAuthorOrCollaborator, sectionsController.DeleteSection)

	// Subsection endpoints
	router.GET("/api/subsections/", subsectionsController.ListSubsections)
	router.POST("/api/subsections/", subsectionsController.CreateSubsection)
	router.GET("/api/subsections/:id/", subsectionsController.GetSubsection)
	router.PUT("/api/subsections/:id/", subsectionsController.UpdateSubsection)
	router.PATCH("/api/subsections/:id/", subsectionsController.PatchSubsection)
	router.DELETE("/api/subsections/:id/", subsectionsController.DeleteSubsection)

	// Collaboration endpoints
	router.GET("/api/collaborations/", collaborationsController.ListCollaborations)
	router.POST("/api/collaborations/", collaborationsController.CreateCollaboration)
	router.GET("/api/collaborations/:id/", collaborationsController.GetCollaboration)
	router.PUT("/api/collaborations/:id/", collaborationsController.UpdateCollaboration)
	router.PATCH("/api/collaborations/:id/", collaborationsController.PatchCollaboration)
	router.DELETE("/api/collaborations/:id/", collaborationsController.DeleteCollaboration)

	// Access management; author-only
	router.PUT("/api/grant-access/", requireAuthor, collaborationsController.GrantAccess)
	router.PUT("/api/revoke-access/", requireAuthor, collaborationsController.RevokeAccess)

	return router
}
