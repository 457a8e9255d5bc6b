package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"weeklymemories/internal/clock"
	"weeklymemories/internal/config"
	"weeklymemories/internal/database"
	"weeklymemories/internal/handlers"
	"weeklymemories/internal/repository"
	"weeklymemories/internal/scheduler"
	"weeklymemories/internal/security"
	"weeklymemories/internal/service"
	"weeklymemories/internal/tokens"
	"weeklymemories/internal/window"
)

func main() {
	// Load .env if present; real environment variables win
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg := config.Load()

	loc, err := time.LoadLocation(cfg.TZKey)
	if err != nil {
		log.Fatalf("Failed to load timezone %q: %v", cfg.TZKey, err)
	}

	clk := clock.New(loc, cfg.TestNow)
	if cfg.TestNow != "" {
		log.Printf("Clock pinned to %s", clk.Now().Format(time.RFC3339))
	}

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	secret, err := security.LoadOrCreateSecret(cfg.SecretFile)
	if err != nil {
		log.Fatalf("Failed to load signing secret: %v", err)
	}

	codec := tokens.NewCodec(secret, cfg.Authors)
	policy := window.New(loc, cfg.ActiveYear, cfg.AllowAnyDay)
	if cfg.AllowAnyDay {
		log.Println("Warning: write window override active, entries accepted on any day")
	}

	// Repositories
	tokenRepo := repository.NewTokenRepository(db)
	memoryRepo := repository.NewMemoryRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	unlinkedRepo := repository.NewUnlinkedRepository(db)

	// Services
	tokenService := service.NewTokenService(tokenRepo, clk)
	memoryService := service.NewMemoryService(memoryRepo, policy)
	authService := service.NewAuthService(codec, tokenService, clk, cfg.Authors,
		secret, cfg.AdminUsername, cfg.AdminPasswordHash, cfg.SessionDuration)

	emailService, err := service.NewEmailService(context.Background(),
		cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.EmailsEnabled)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	if !emailService.IsEnabled() {
		log.Println("Email delivery disabled, reminder links will be logged instead")
	}

	reminderService := service.NewReminderService(cfg.Authors, cfg.EmailRecipients,
		tokenService, memoryService, codec, emailService, policy, clk, cfg.ExternalBaseURL)

	// Handlers
	limiter := security.NewRateLimiter(10, time.Minute)
	middleware := handlers.NewMiddleware(authService, limiter)
	tokenHandler := handlers.NewTokenHandler(tokenService, cfg.ExternalBaseURL)
	memoryHandler := handlers.NewMemoryHandler(memoryService, clk)
	goalHandler := handlers.NewGoalHandler(goalRepo, clk)
	unlinkedHandler := handlers.NewUnlinkedHandler(unlinkedRepo, clk)
	adminHandler := handlers.NewAdminHandler(authService, reminderService)

	// Setup routes
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("GET /token/{token}", tokenHandler.ValidateToken)
	mux.HandleFunc("GET /weeks", memoryHandler.ListWeeks)
	mux.HandleFunc("POST /admin/login", middleware.RateLimit(adminHandler.Login))

	// Author routes
	mux.HandleFunc("POST /weekly-memory", middleware.RequireAuthor(memoryHandler.CreateWeeklyMemory))
	mux.HandleFunc("GET /goals", middleware.RequireAuthor(goalHandler.List))
	mux.HandleFunc("POST /goals", middleware.RequireAuthor(goalHandler.Create))
	mux.HandleFunc("DELETE /goals/{id}", middleware.RequireAuthor(goalHandler.Delete))
	mux.HandleFunc("GET /unlinked", middleware.RequireAuthor(unlinkedHandler.List))
	mux.HandleFunc("POST /unlinked", middleware.RequireAuthor(unlinkedHandler.Create))
	mux.HandleFunc("DELETE /unlinked/{id}", middleware.RequireAuthor(unlinkedHandler.Delete))

	// Admin routes
	mux.HandleFunc("GET /admin/ping", middleware.RequireAdmin(adminHandler.Ping))
	mux.HandleFunc("POST /admin/send-test-emails", middleware.RequireAdmin(adminHandler.SendTestEmails))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Weekly reminder dispatch, Sundays at the configured local hour
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reminders := scheduler.New(loc, time.Sunday, cfg.ReminderHour, cfg.EmailsEnabled,
		func(ctx context.Context) {
			for _, result := range reminderService.SendWeeklyReminders(ctx) {
				if result.Error != "" {
					log.Printf("Reminder for %s failed: %s", result.Author, result.Error)
					continue
				}
				log.Printf("Reminder for %s: sent=%v skipped=%v", result.Author, result.Sent, result.Skipped)
			}
		})
	reminders.Start(ctx)
	defer reminders.Stop()

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
