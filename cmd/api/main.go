package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mhersel/vitae/internal/auth"
	"github.com/mhersel/vitae/internal/background"
	"github.com/mhersel/vitae/internal/config"
	"github.com/mhersel/vitae/internal/database"
	"github.com/mhersel/vitae/internal/handlers"
	middlewareCustom "github.com/mhersel/vitae/internal/middleware"
	"github.com/mhersel/vitae/internal/repositories"
	"github.com/mhersel/vitae/internal/routes"
	"github.com/mhersel/vitae/internal/services"
	pkghttp "github.com/mhersel/vitae/pkg/http"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Run migrations before taking traffic
	if err := database.Migrate(&cfg.Database, logger); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize repositories
	endorsementRepo := repositories.NewEndorsementRepository(db)
	challengeRepo := repositories.NewChallengeRepository(db)

	// Session and admin token plumbing
	sessionCodec := auth.NewSessionCodec([]byte(cfg.Auth.SessionSecret))
	tokenManager := auth.NewTokenManager(cfg.Auth.AdminSecret, cfg.Auth.AdminTokenExpiry)
	cookies := auth.CookieConfig{Secure: cfg.Server.Env == "production"}

	// Timing delay for the access endpoints
	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:    cfg.Auth.TimingDelayBaseMs,
		RandomDelayMs:  cfg.Auth.TimingDelayRandomMs,
		DelayOnSuccess: true,
	})

	// AWS SES email service
	emailService, err := services.NewAWSSESEmailService(
		cfg.Email.AWSRegion,
		cfg.Email.FromAddress,
		cfg.Email.SiteBaseURL,
		logger,
	)
	if err != nil {
		logger.Error("failed to initialize email service", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize services
	rateLimitService := services.NewRateLimitService(logger)
	challengeService := services.NewChallengeService(
		challengeRepo,
		[]byte(cfg.Auth.OTPPepper),
		services.ChallengeConfig{
			CodeTTL:         cfg.Auth.CodeTTL,
			MaxAttempts:     cfg.Auth.MaxCodeAttempts,
			LockoutDuration: cfg.Auth.CodeLockout,
		},
		logger,
	)
	accessService := services.NewAccessService(
		endorsementRepo,
		challengeService,
		emailService,
		sessionCodec,
		cfg.Auth.CodeTTL,
		cfg.Auth.SessionTTL,
		logger,
	)
	endorsementService := services.NewEndorsementService(endorsementRepo, logger)
	adminService := services.NewAdminService(
		cfg.Admin.OwnerEmail,
		cfg.Admin.OwnerPasswordHash,
		cfg.Admin.OwnerTOTPSecret,
		tokenManager,
		timingDelay,
		logger,
	)

	if !adminService.Enabled() {
		logger.Warn("owner credentials not configured, moderation endpoints will reject all logins")
	}

	// Initialize handlers
	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}
	accessHandler := handlers.NewAccessHandler(
		accessService,
		rateLimitService,
		timingDelay,
		cookies,
		cfg.Auth.SessionTTL,
		ipConfig,
		logger,
	)
	endorsementHandler := handlers.NewEndorsementHandler(
		endorsementService,
		accessService,
		rateLimitService,
		cookies,
		ipConfig,
		logger,
	)
	adminHandler := handlers.NewAdminHandler(adminService, endorsementService, logger)

	// Background challenge cleanup
	cleanupManager := background.NewCleanupManager(challengeService, logger, cfg.Auth.CleanupInterval)

	// Setup router
	corsConfig := middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(router, endorsementHandler, accessHandler, adminHandler, sessionCodec, cookies, tokenManager)

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start cleanup task
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
