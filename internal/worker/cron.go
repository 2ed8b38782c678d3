package worker

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler runs the background jobs on a fixed schedule. It is the
// fallback trigger when no Pub/Sub subscription is configured.
type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger
}

// SchedulerConfig holds configuration for the scheduler.
type SchedulerConfig struct {
	ReminderJob  *ReminderJob
	CacheWarmJob *CacheWarmJob
	Logger       zerolog.Logger

	// ReminderSpec is the cron expression for reminder dispatch
	// (default: every minute, matching reminder time granularity).
	ReminderSpec string

	// CacheWarmSpec is the cron expression for cache warming
	// (default: hourly).
	CacheWarmSpec string
}

// NewScheduler creates a scheduler with both jobs registered.
func NewScheduler(ctx context.Context, cfg SchedulerConfig) (*Scheduler, error) {
	reminderSpec := cfg.ReminderSpec
	if reminderSpec == "" {
		reminderSpec = "* * * * *"
	}
	cacheWarmSpec := cfg.CacheWarmSpec
	if cacheWarmSpec == "" {
		cacheWarmSpec = "0 * * * *"
	}

	c := cron.New()

	if _, err := c.AddFunc(reminderSpec, func() {
		if _, err := cfg.ReminderJob.Run(ctx); err != nil {
			cfg.Logger.Error().Err(err).Msg("reminder dispatch failed")
		}
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc(cacheWarmSpec, func() {
		if _, err := cfg.CacheWarmJob.Run(ctx); err != nil {
			cfg.Logger.Error().Err(err).Msg("cache warm failed")
		}
	}); err != nil {
		return nil, err
	}

	return &Scheduler{cron: c, logger: cfg.Logger}, nil
}

// Start begins running scheduled jobs in the background.
func (s *Scheduler) Start() {
	s.logger.Info().Msg("starting job scheduler")
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("job scheduler stopped")
}
