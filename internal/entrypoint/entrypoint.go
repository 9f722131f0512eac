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

	"github.com/mrlokans/bookcatalog/internal/auth"
	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/database"
	"github.com/mrlokans/bookcatalog/internal/database/books"
	"github.com/mrlokans/bookcatalog/internal/database/categories"
	"github.com/mrlokans/bookcatalog/internal/database/tokens"
	"github.com/mrlokans/bookcatalog/internal/database/users"
	http_controllers "github.com/mrlokans/bookcatalog/internal/http"
)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down within
// the configured timeout so in-flight requests can finish.
func Serve(router *gin.Engine, cfg *config.Config) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires the store, gate and synchronizer together and serves HTTP.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting bookcatalog v%s", version)

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	userRepo := users.NewRepository(db.DB)
	bookRepo := books.NewRepository(db.DB)
	categoryRepo := categories.NewRepository(db.DB)
	tokenRepo := tokens.NewRepository(db.DB)

	authService := auth.NewService(userRepo, tokenRepo, cfg.Auth)
	synchronizer := catalog.NewSynchronizer(categoryRepo)

	// Bootstrap administrator; mirrors the original seed migration.
	adminPassword := cfg.Auth.AdminPassword
	if adminPassword == "" {
		adminPassword, err = auth.GenerateTokenValue()
		if err != nil {
			log.Fatalf("Failed to generate admin password: %v", err)
		}
		log.Printf("Generated admin password: %s (set ADMIN_PASSWORD to persist)", adminPassword)
	}
	adminHash, err := auth.HashPassword(adminPassword, cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}
	if err := db.SeedAdmin("admin", "Admin", adminHash); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Database.Driver, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Books:         bookRepo,
		Users:         userRepo,
		Categories:    categoryRepo,
		Synchronizer:  synchronizer,
		AuthService:   authService,
		Sessions:      sessionManager,
		TemplatesPath: cfg.UI.TemplatesPath,
		Version:       version,
	})

	Serve(router, cfg)
}
