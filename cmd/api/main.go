package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adityarathore/fintrack-api/internal/auth"
	"github.com/adityarathore/fintrack-api/internal/config"
	"github.com/adityarathore/fintrack-api/internal/database"
	"github.com/adityarathore/fintrack-api/internal/handlers"
	middlewareCustom "github.com/adityarathore/fintrack-api/internal/middleware"
	"github.com/adityarathore/fintrack-api/internal/repositories"
	"github.com/adityarathore/fintrack-api/internal/routes"
	"github.com/adityarathore/fintrack-api/internal/services"
	pkghttp "github.com/adityarathore/fintrack-api/pkg/http"
	pkglogger "github.com/adityarathore/fintrack-api/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := db.Migrate(migrateCtx); err != nil {
		migrateCancel()
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	migrateCancel()

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	incomeRepo := repositories.NewIncomeRepository(db)
	expenseRepo := repositories.NewExpenseRepository(db)

	// Token and OTP managers
	tokenManager := auth.NewTokenManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenExpiry,
		cfg.Auth.RefreshTokenExpiry,
	)
	otpManager := auth.NewOTPManager(cfg.Auth.OTPExpiry)

	auditLogger := pkglogger.NewAuditLogger(logger)

	// Email delivery
	var emailSender services.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = services.NewSESEmailSender(cfg.Email.AWSRegion, cfg.Email.FromAddress, logger)
		if err != nil {
			logger.Error("failed to initialize email sender", slog.Any("error", err))
			os.Exit(1)
		}
	default:
		emailSender = services.NewSMTPEmailSender(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPUsername,
			cfg.Email.SMTPPassword,
			cfg.Email.FromAddress,
			logger,
		)
	}

	// Services
	authService := services.NewAuthService(userRepo, tokenManager, otpManager, emailSender, logger, auditLogger)
	passwordResetService := services.NewPasswordResetService(userRepo, otpManager, emailSender, logger, auditLogger)
	financeService := services.NewFinanceService(incomeRepo, expenseRepo, logger)

	cookies := auth.CookieConfig{
		Domain:   cfg.Auth.CookieDomain,
		Secure:   cfg.Server.Env == "production",
		SameSite: "strict",
	}

	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, tokenManager, cookies, ipConfig)
	passwordResetHandler := handlers.NewPasswordResetHandler(passwordResetService, ipConfig)
	incomeHandler := handlers.NewIncomeHandler(financeService)
	expenseHandler := handlers.NewExpenseHandler(financeService)
	dashboardHandler := handlers.NewDashboardHandler(financeService)

	corsConfig := middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(
		router,
		authHandler,
		passwordResetHandler,
		incomeHandler,
		expenseHandler,
		dashboardHandler,
		tokenManager,
		userRepo,
		cookies,
	)

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

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
