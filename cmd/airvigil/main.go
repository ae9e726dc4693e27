package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm/logger"

	"github.com/airvigil/airvigil/internal/alerts"
	"github.com/airvigil/airvigil/internal/config"
	"github.com/airvigil/airvigil/internal/database"
	"github.com/airvigil/airvigil/internal/handlers"
	"github.com/airvigil/airvigil/internal/middleware"
	"github.com/airvigil/airvigil/internal/services"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading it (this is fine if using environment variables): %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting AirVigil barrier API...")

	if cfg.AdminPassword == "" {
		log.Fatalf("ADMIN_PASSWORD is not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatalf("JWT_SECRET is not set")
	}

	// Hash the admin password
	passwordHash, err := middleware.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	// Dashboard authentication guards /admin/*; everything else is either
	// public or covered by the service API key layer below.
	jwtAuthMiddleware := middleware.NewJWTAuthMiddleware(&middleware.JWTAuthConfig{
		AdminUsername:     cfg.AdminUsername,
		AdminPasswordHash: passwordHash,
		JWTSecret:         cfg.JWTSecret,
		JWTExpiryHours:    cfg.JWTExpiryHours,
		SkipPaths: []string{
			"/health",
			"/api/*",
			"/auth/*",
			"/ws/*",
		},
	})
	log.Printf("JWT authentication enabled for user: %s", cfg.AdminUsername)

	// Service credentials guard /api/*
	apiKeyMiddleware := middleware.NewAPIKeyMiddleware(&middleware.APIKeyConfig{
		SkipPaths: []string{
			"/health",
			"/auth/*",
			"/admin/*",
			"/ws/*",
		},
	})

	// Initialize database connection
	if err := database.Connect(cfg.DatabaseURL, logger.Warn); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Printf("Database connection established")

	// Run database migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	if err := apiKeyMiddleware.LoadClientsFromDB(); err != nil {
		log.Fatalf("Failed to load service credentials: %v", err)
	}

	// Initialize services
	db := database.GetDB()
	alertService := services.NewAlertService(db, alerts.FixedLimits{})
	stationService := services.NewStationService(db)
	log.Printf("Alert and station services initialized")

	// Initialize handlers
	httpHandler := handlers.NewHTTPHandler(
		handlers.NewIngestHandler(stationService),
		handlers.NewAlertHandler(alertService),
		handlers.NewStatsHandler(alertService, stationService),
		handlers.NewAdminHandler(db, apiKeyMiddleware),
		handlers.NewAuthHandler(jwtAuthMiddleware),
		handlers.NewLiveHandler(stationService, 30*time.Second),
	)

	// Set up HTTP server routes
	mux := http.NewServeMux()
	httpHandler.SetupRoutes(mux)

	wrapped := middleware.RequestIDMiddleware(jwtAuthMiddleware.Wrap(apiKeyMiddleware.Wrap(mux)))

	// Start HTTP server in goroutine
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: wrapped,
	}

	go func() {
		log.Printf("Starting HTTP server on port %d", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	log.Printf("Ingest endpoint: http://localhost:%d/api/ingest", cfg.HTTPPort)
	log.Printf("Health check endpoint: http://localhost:%d/health", cfg.HTTPPort)

	// Set up graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Received shutdown signal, cleaning up...")
	if err := httpServer.Close(); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}
	if err := database.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
	log.Println("Shutdown complete")
}
