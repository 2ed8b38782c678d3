// Package main provides the entrypoint for the FitArchitect background worker.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/catalog"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/catalog/wger"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/database"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/featureflags"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/notify"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/planner"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/planner/openai"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/profile"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/provider/resilience"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const planCacheCapacity = 512

func main() {
	const serviceName = "fitarchitect-worker"

	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting FitArchitect worker")

	// Worker also exposes a health endpoint for the container platform.
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	registry := resilience.NewRegistry()

	// Reminder dispatch wiring
	var sender notify.Sender = notify.DisabledSender{}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		telegramSender, senderErr := notify.NewTelegramSender(token, log)
		if senderErr != nil {
			log.Error().Err(senderErr).Msg("failed to initialize Telegram sender - reminders disabled")
		} else {
			sender = telegramSender
		}
	} else {
		log.Warn().Msg("TELEGRAM_BOT_TOKEN not set - reminders disabled")
	}

	ffService := featureflags.NewService(featureflags.ServiceConfig{
		Repository:   featureflags.NewPostgresRepository(pool),
		Logger:       log,
		CacheTTL:     1 * time.Minute,
		DefaultFlags: featureflags.DefaultFlags(),
	})

	notifyService := notify.NewService(notify.ServiceConfig{
		Repository: notify.NewPostgresRepository(pool),
		Sender:     sender,
		Flags:      ffService,
		Logger:     log,
	})
	reminderJob := worker.NewReminderJob(notifyService, log)

	// Cache warming wiring: the full generation pipeline with its own
	// plan cache. Warming in this process keeps provider-side caches hot;
	// the LRU here deduplicates identical profiles within a run.
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
	llmClient := openai.NewClient(openai.ClientConfig{
		APIKey:   os.Getenv("OPENAI_API_KEY"),
		BaseURL:  os.Getenv("OPENAI_BASE_URL"),
		Model:    os.Getenv("OPENAI_MODEL"),
		Registry: registry,
		Logger:   log,
	})
	plannerService := planner.NewService(planner.ServiceConfig{
		Catalog: catalogService,
		LLM:     llmClient,
		Cache:   planner.NewCache(planCacheCapacity),
		Flags:   ffService,
		Logger:  log,
	})

	warmLimit := 0
	if v := os.Getenv("CACHE_WARM_LIMIT"); v != "" {
		if n, convErr := strconv.Atoi(v); convErr == nil {
			warmLimit = n
		}
	}
	cacheWarmJob := worker.NewCacheWarmJob(worker.CacheWarmConfig{
		Profiles: profile.NewPostgresRepository(pool),
		Planner:  plannerService,
		Logger:   log,
		Limit:    warmLimit,
	})

	// Health check server
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("health server error")
		}
	}()

	// Jobs are triggered by Pub/Sub when a subscription is configured,
	// otherwise by the in-process cron scheduler.
	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	subscriptionName := os.Getenv("PUBSUB_SUBSCRIPTION")

	if projectID != "" && subscriptionName != "" {
		handler, handlerErr := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        projectID,
			SubscriptionName: subscriptionName,
			ReminderJob:      reminderJob,
			CacheWarmJob:     cacheWarmJob,
			Logger:           log,
		})
		if handlerErr != nil {
			log.Fatal().Err(handlerErr).Msg("failed to create pubsub handler")
		}
		defer handler.Close()

		go func() {
			if err := handler.Start(ctx); err != nil {
				log.Error().Err(err).Msg("pubsub handler stopped")
				cancel()
			}
		}()
	} else {
		log.Info().Msg("no pubsub subscription configured - using cron scheduler")

		scheduler, schedErr := worker.NewScheduler(ctx, worker.SchedulerConfig{
			ReminderJob:   reminderJob,
			CacheWarmJob:  cacheWarmJob,
			Logger:        log,
			ReminderSpec:  os.Getenv("REMINDER_CRON"),
			CacheWarmSpec: os.Getenv("CACHE_WARM_CRON"),
		})
		if schedErr != nil {
			log.Fatal().Err(schedErr).Msg("failed to create scheduler")
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
