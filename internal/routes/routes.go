package routes

import (
	"github.com/adityarathore/fintrack-api/internal/auth"
	"github.com/adityarathore/fintrack-api/internal/handlers"
	"github.com/adityarathore/fintrack-api/internal/middleware"
	"github.com/adityarathore/fintrack-api/internal/repositories"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	passwordResetHandler *handlers.PasswordResetHandler,
	incomeHandler *handlers.IncomeHandler,
	expenseHandler *handlers.ExpenseHandler,
	dashboardHandler *handlers.DashboardHandler,
	tokenManager *auth.TokenManager,
	userRepo *repositories.UserRepository,
	cookies auth.CookieConfig,
) {
	rateLimitConfig := middleware.DefaultAuthRateLimit()

	// Public routes. Logout stays public so a client holding stale or
	// mangled cookies can always discard them.
	router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(rateLimitConfig))

		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/verify-otp", authHandler.VerifyOTP)
		r.Post("/auth/resend-otp", authHandler.ResendOTP)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		r.Post("/forgot-password/request-otp", passwordResetHandler.RequestOTP)
		r.Post("/forgot-password/verify-otp", passwordResetHandler.VerifyOTP)
		r.Post("/forgot-password/reset-password", passwordResetHandler.ResetPassword)
	})

	// Protected routes behind the session middleware
	router.Group(func(r chi.Router) {
		r.Use(auth.SessionMiddleware(tokenManager, userRepo, cookies))

		r.Get("/auth/me", authHandler.Me)

		r.Post("/income", incomeHandler.Add)
		r.Get("/income", incomeHandler.List)
		r.Delete("/income/{id}", incomeHandler.Delete)

		r.Post("/expense", expenseHandler.Add)
		r.Get("/expense", expenseHandler.List)
		r.Delete("/expense/{id}", expenseHandler.Delete)

		r.Get("/dashboard", dashboardHandler.Get)
	})
}
