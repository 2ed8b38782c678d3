// Package api provides the HTTP API for FitArchitect.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/api/handler"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/api/middleware"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/auth"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/billing"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/featureflags"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/notify"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/nutrition"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/planner"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/profile"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/provider/resilience"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/workout"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version            string
	BuildTime          string
	Logger             zerolog.Logger
	ServiceName        string
	Metrics            *middleware.Metrics
	DB                 handler.Pinger
	Registry           *resilience.Registry
	AuthService        *auth.Service
	ProfileService     *profile.Service
	PlannerService     *planner.Service
	PlanCache          *planner.Cache
	WorkoutService     *workout.Service
	NutritionService   *nutrition.Service
	BillingService     *billing.Service
	NotifyService      *notify.Service
	FeatureFlagService *featureflags.Service
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "fitarchitect-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.DB, cfg.Registry, cfg.FeatureFlagService)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	meHandler := handler.NewMeHandler(cfg.AuthService)
	profileHandler := handler.NewProfileHandler(cfg.ProfileService)
	plansHandler := handler.NewPlansHandler(cfg.PlannerService, cfg.ProfileService, cfg.WorkoutService)
	workoutsHandler := handler.NewWorkoutsHandler(cfg.WorkoutService)
	nutritionHandler := handler.NewNutritionHandler(cfg.NutritionService)
	billingHandler := handler.NewBillingHandler(cfg.BillingService, cfg.AuthService)
	notificationsHandler := handler.NewNotificationsHandler(cfg.NotifyService)
	adminHandler := handler.NewAdminHandler(cfg.Registry, cfg.PlanCache)
	featureFlagsHandler := handler.NewFeatureFlagsHandler(cfg.FeatureFlagService)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.AuthService)

	// Create rate limit middleware for different endpoint categories
	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)           // 10 req/min
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// The billing webhook authenticates via signature, not bearer
		// token, and carries a non-JSON content type check of its own.
		r.With(standardRateLimit).Post("/billing/webhook", billingHandler.Webhook)

		r.Group(func(r chi.Router) {
			r.Use(middleware.ContentTypeJSON) // JSON responses
			r.Use(middleware.RequireJSON)     // JSON request bodies

			// Auth endpoints (public) - strict rate limiting
			r.Route("/auth", func(r chi.Router) {
				r.Use(authRateLimit) // 10 requests per minute per IP
				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)
				r.Post("/refresh", authHandler.RefreshToken)
				r.Post("/logout", authHandler.Logout)
				// logout-all requires authentication
				r.With(authMiddleware).Post("/logout-all", authHandler.LogoutAll)
			})

			// Ops endpoints (public)
			r.Route("/ops", func(r chi.Router) {
				r.Get("/health", opsHandler.HealthCheck)
				r.Get("/ready", opsHandler.ReadinessCheck)
				// Status endpoint requires authentication
				r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
			})

			// Me endpoints (authenticated) - user-based rate limiting
			r.Route("/me", func(r chi.Router) {
				r.Use(authMiddleware)
				r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit)) // 100 req/min per user
				r.Get("/", meHandler.GetMe)
				r.Put("/", meHandler.UpdateMe)

				// Fitness profile
				r.Get("/profile", profileHandler.GetProfile)
				r.Put("/profile", profileHandler.UpsertProfile)

				// Notification preferences
				r.Get("/notifications", notificationsHandler.GetPreferences)
				r.Put("/notifications", notificationsHandler.UpdatePreferences)
				r.Post("/notifications:test", notificationsHandler.SendTest)
			})

			// Plan generation - expensive compute, strict rate limiting
			r.With(authMiddleware, expensiveRateLimit).Post("/plans:generate", plansHandler.GeneratePlan)

			// Saved plans (authenticated)
			r.Route("/plans", func(r chi.Router) {
				r.Use(authMiddleware)
				r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit))
				r.Get("/", plansHandler.ListPlans)
				r.Route("/{planId}", func(r chi.Router) {
					r.Get("/", plansHandler.GetPlan)
					r.Delete("/", plansHandler.DeletePlan)
				})
			})

			// Workout logs (authenticated)
			r.Route("/workouts", func(r chi.Router) {
				r.Use(authMiddleware)
				r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit))
				r.Get("/summary", workoutsHandler.GetSummary)
				r.Route("/logs", func(r chi.Router) {
					r.Get("/", workoutsHandler.ListLogs)
					r.Post("/", workoutsHandler.CreateLog)
					r.Get("/{logId}", workoutsHandler.GetLog)
				})
			})

			// Nutrition (authenticated)
			r.Route("/nutrition", func(r chi.Router) {
				r.Use(authMiddleware)
				r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit))
				r.Get("/foods:search", nutritionHandler.SearchFoods)
				r.Get("/foods/{barcode}", nutritionHandler.GetFood)
				r.Get("/summary", nutritionHandler.GetSummary)
				r.Route("/logs", func(r chi.Router) {
					r.Get("/", nutritionHandler.ListLogs)
					r.Post("/", nutritionHandler.CreateLog)
				})
			})

			// Billing (authenticated)
			r.Route("/billing", func(r chi.Router) {
				r.Use(authMiddleware)
				r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit))
				r.Post("/checkout", billingHandler.CreateCheckout)
				r.Get("/subscription", billingHandler.GetSubscription)
				r.Delete("/subscription", billingHandler.CancelSubscription)
			})

			// Admin endpoints (authenticated) - for internal operations
			r.Route("/admin", func(r chi.Router) {
				r.Use(authMiddleware)
				r.Use(standardRateLimit)

				r.Get("/stats", adminHandler.GetStats)
				r.Get("/providers/health", adminHandler.GetProvidersHealth)

				// Feature flags management
				r.Route("/feature-flags", func(r chi.Router) {
					r.Get("/", featureFlagsHandler.ListFeatureFlags)
					r.Put("/", featureFlagsHandler.UpsertFeatureFlags)
					r.Post("/invalidate", featureFlagsHandler.InvalidateCache)
				})
			})
		})
	})

	return r
}
