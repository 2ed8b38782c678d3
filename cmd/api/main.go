// Package main provides the entrypoint for the FitArchitect API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/api"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/api/middleware"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/auth"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/billing"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/billing/stripe"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/catalog"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/catalog/wger"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/database"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/featureflags"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/notify"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/nutrition"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/nutrition/openfoodfacts"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/planner"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/planner/openai"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/profile"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/provider/resilience"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/telemetry"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/workout"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const planCacheCapacity = 512

func main() {
	const serviceName = "fitarchitect-api"

	// Load .env for local development; in production the environment is
	// set by the deployment platform and the file does not exist.
	_ = godotenv.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting FitArchitect API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	sampleRatio := 0.0
	if v := os.Getenv("OTEL_SAMPLE_RATIO"); v != "" {
		if f, parseErr := strconv.ParseFloat(v, 64); parseErr == nil {
			sampleRatio = f
		}
	}

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
		SampleRatio:    sampleRatio,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Provider health registry shared by all external clients
	registry := resilience.NewRegistry()

	// Initialize auth repositories and service
	authUserRepo := auth.NewPostgresUserRepository(pool)
	authRefreshRepo := auth.NewPostgresRefreshTokenRepository(pool)

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
		Issuer:     "https://api.fitarchitect.app",
		Audience:   serviceName,
	})

	authService := auth.NewService(auth.ServiceConfig{
		JWTService:  jwtService,
		UserRepo:    authUserRepo,
		RefreshRepo: authRefreshRepo,
	})
	log.Info().Msg("auth service initialized")

	// Initialize profile repository and service
	profileRepo := profile.NewPostgresRepository(pool)
	profileService := profile.NewService(profileRepo)
	log.Info().Msg("profile service initialized")

	// Initialize feature flags repository and service
	ffRepo := featureflags.NewPostgresRepository(pool)
	ffService := featureflags.NewService(featureflags.ServiceConfig{
		Repository:   ffRepo,
		Logger:       log,
		CacheTTL:     1 * time.Minute,
		DefaultFlags: featureflags.DefaultFlags(),
	})
	log.Info().Msg("feature flags service initialized")

	// Initialize exercise catalog (WGER) client and service
	wgerClient := wger.NewClient(wger.ClientConfig{
		APIKey:   os.Getenv("WGER_API_KEY"),
		BaseURL:  os.Getenv("WGER_BASE_URL"),
		Registry: registry,
		Logger:   log,
	})
	catalogService := catalog.NewService(catalog.ServiceConfig{
		Provider: wgerClient,
		Logger:   log,
	})
	log.Info().Msg("catalog service initialized")

	// Initialize LLM drafting client
	openaiKey := os.Getenv("OPENAI_API_KEY")
	if openaiKey == "" {
		log.Warn().Msg("OPENAI_API_KEY not set - plan generation will use the fallback plan")
	}
	llmClient := openai.NewClient(openai.ClientConfig{
		APIKey:   openaiKey,
		BaseURL:  os.Getenv("OPENAI_BASE_URL"),
		Model:    os.Getenv("OPENAI_MODEL"),
		Registry: registry,
		Logger:   log,
	})

	// Initialize plan generation pipeline
	planCache := planner.NewCache(planCacheCapacity)
	plannerService := planner.NewService(planner.ServiceConfig{
		Catalog: catalogService,
		LLM:     llmClient,
		Cache:   planCache,
		Flags:   ffService,
		Logger:  log,
	})
	log.Info().Msg("planner service initialized")

	// Initialize workout persistence
	workoutService := workout.NewService(
		workout.NewPostgresPlanRepository(pool),
		workout.NewPostgresLogRepository(pool),
	)
	log.Info().Msg("workout service initialized")

	// Initialize nutrition (Open Food Facts) client and service
	offClient := openfoodfacts.NewClient(openfoodfacts.ClientConfig{
		BaseURL:   os.Getenv("OFF_BASE_URL"),
		UserAgent: "FitArchitect/" + Version + " (support@fitarchitect.app)",
		Registry:  registry,
		Logger:    log,
	})
	nutritionService := nutrition.NewService(nutrition.ServiceConfig{
		Provider: offClient,
		Logs:     nutrition.NewPostgresLogRepository(pool),
		Logger:   log,
	})
	log.Info().Msg("nutrition service initialized")

	// Initialize billing (Stripe) client and service
	stripeClient := stripe.NewClient(stripe.ClientConfig{
		SecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		Registry:  registry,
		Logger:    log,
	})
	billingService := billing.NewService(billing.ServiceConfig{
		Repository:    billing.NewPostgresRepository(pool),
		Processor:     stripeClient,
		WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		ProPriceID:    os.Getenv("STRIPE_PRO_PRICE_ID"),
		SuccessURL:    os.Getenv("CHECKOUT_SUCCESS_URL"),
		CancelURL:     os.Getenv("CHECKOUT_CANCEL_URL"),
		Flags:         ffService,
		Logger:        log,
	})
	log.Info().Msg("billing service initialized")

	// Initialize notifications (Telegram)
	var sender notify.Sender = notify.DisabledSender{}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		telegramSender, senderErr := notify.NewTelegramSender(token, log)
		if senderErr != nil {
			log.Error().Err(senderErr).Msg("failed to initialize Telegram sender - notifications disabled")
		} else {
			sender = telegramSender
		}
	} else {
		log.Warn().Msg("TELEGRAM_BOT_TOKEN not set - notifications disabled")
	}
	notifyService := notify.NewService(notify.ServiceConfig{
		Repository: notify.NewPostgresRepository(pool),
		Sender:     sender,
		Flags:      ffService,
		Logger:     log,
	})
	log.Info().Msg("notify service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:            Version,
		BuildTime:          BuildTime,
		Logger:             log,
		ServiceName:        serviceName,
		Metrics:            metrics,
		DB:                 pool,
		Registry:           registry,
		AuthService:        authService,
		ProfileService:     profileService,
		PlannerService:     plannerService,
		PlanCache:          planCache,
		WorkoutService:     workoutService,
		NutritionService:   nutritionService,
		BillingService:     billingService,
		NotifyService:      notifyService,
		FeatureFlagService: ffService,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
