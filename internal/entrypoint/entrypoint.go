package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookwriter/internal/auth"
	"github.com/mrlokans/bookwriter/internal/config"
	"github.com/mrlokans/bookwriter/internal/database"
	"github.com/mrlokans/bookwriter/internal/database/books"
	"github.com/mrlokans/bookwriter/internal/database/collaborations"
	"github.com/mrlokans/bookwriter/internal/database/sections"
	http_controllers "github.com/mrlokans/bookwriter/internal/http"
	"github.com/mrlokans/bookwriter/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the purge scheduler)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Bookwriter v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Token signing secret; generated per boot when not configured, which
	// invalidates outstanding tokens across restarts
	if cfg.Auth.JWTSecret == "" {
		secret, err := auth.GenerateSigningSecret()
		if err != nil {
			log.Fatalf("Failed to generate signing secret: %v", err)
		}
		cfg.Auth.JWTSecret = secret
		log.Printf("Generated token signing secret (set AUTH_JWT_SECRET to persist)")
	}

	authService := auth.NewService(db.DB, cfg.Auth)
	tokenIssuer := auth.NewTokenIssuer(cfg.Auth)

	// Get underlying SQL DB for the session store and purge job
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}

	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	authMiddleware := auth.NewMiddleware(authService, sessionManager, tokenIssuer)

	// Schedule expired-session purging
	purger, err := tasks.NewSessionPurger(sqlDB, cfg.Sessions.PurgeSchedule)
	if err != nil {
		log.Fatalf("Failed to initialize session purger: %v", err)
	}
	purger.Start()
	if purged, err := purger.Purge(); err != nil {
		log.Printf("Initial session purge failed: %v", err)
	} else if purged > 0 {
		log.Printf("Purged %d expired sessions on startup", purged)
	}

	routerCfg := http_controllers.RouterConfig{
		Database:           db,
		BookStore:          books.NewRepository(db.DB),
		SectionStore:       sections.NewRepository(db.DB),
		SubsectionStore:    sections.NewRepository(db.DB),
		CollaborationStore: collaborations.NewRepository(db.DB),
		AuthService:        authService,
		AuthMiddleware:     authMiddleware,
		SessionManager:     sessionManager,
		TokenIssuer:        tokenIssuer,
		Version:            version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		purger.Stop(ctx)
	}

	Serve(router, cfg, onShutdown)
}
