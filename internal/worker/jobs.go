// Package worker runs background jobs for FitArchitect: workout reminder
// dispatch and plan cache warming.
package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/planner"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/profile"
)

// ReminderDispatcher sends workout reminders that are due at the given time.
type ReminderDispatcher interface {
	DispatchDue(ctx context.Context, now time.Time) (int, error)
}

// ProfileLister returns recently updated fitness profiles.
type ProfileLister interface {
	ListRecentlyUpdated(ctx context.Context, limit int) ([]*profile.UserProfile, error)
}

// PlanGenerator runs the plan generation pipeline for a profile.
type PlanGenerator interface {
	Generate(ctx context.Context, p *profile.UserProfile) (*planner.GenerateResult, error)
}

// ReminderJob dispatches due workout reminders.
type ReminderJob struct {
	notifier ReminderDispatcher
	logger   zerolog.Logger
}

// NewReminderJob creates a reminder dispatch job.
func NewReminderJob(notifier ReminderDispatcher, logger zerolog.Logger) *ReminderJob {
	return &ReminderJob{notifier: notifier, logger: logger}
}

// ReminderResult summarizes a reminder dispatch run.
type ReminderResult struct {
	Sent     int
	Duration time.Duration
}

// Run dispatches every reminder due at the current minute.
func (j *ReminderJob) Run(ctx context.Context) (ReminderResult, error) {
	start := time.Now()

	sent, err := j.notifier.DispatchDue(ctx, start)
	result := ReminderResult{Sent: sent, Duration: time.Since(start)}
	if err != nil {
		return result, err
	}

	j.logger.Info().
		Int("sent", sent).
		Dur("duration", result.Duration).
		Msg("reminder dispatch completed")
	return result, nil
}

// CacheWarmConfig holds configuration for the cache warming job.
type CacheWarmConfig struct {
	Profiles ProfileLister
	Planner  PlanGenerator
	Logger   zerolog.Logger

	// Limit is how many profiles to warm per run (default: 50).
	Limit int

	// PerProfileTimeout bounds each pipeline run (default: 90s).
	PerProfileTimeout time.Duration
}

// CacheWarmJob pre-generates plans for recently active users so their next
// request is served from the plan cache.
type CacheWarmJob struct {
	profiles          ProfileLister
	planner           PlanGenerator
	limit             int
	perProfileTimeout time.Duration
	logger            zerolog.Logger
}

// NewCacheWarmJob creates a cache warming job.
func NewCacheWarmJob(cfg CacheWarmConfig) *CacheWarmJob {
	limit := cfg.Limit
	if limit <= 0 {
		limit = 50
	}
	timeout := cfg.PerProfileTimeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &CacheWarmJob{
		profiles:          cfg.Profiles,
		planner:           cfg.Planner,
		limit:             limit,
		perProfileTimeout: timeout,
		logger:            cfg.Logger,
	}
}

// CacheWarmResult summarizes a cache warming run.
type CacheWarmResult struct {
	Profiles int
	Warmed   int
	Hits     int
	Failed   int
	Duration time.Duration
}

// Run generates a plan for each recently updated profile. Profiles whose
// plan is already cached count as hits and cost nothing.
func (j *CacheWarmJob) Run(ctx context.Context) (CacheWarmResult, error) {
	start := time.Now()

	profiles, err := j.profiles.ListRecentlyUpdated(ctx, j.limit)
	if err != nil {
		return CacheWarmResult{Duration: time.Since(start)}, err
	}

	result := CacheWarmResult{Profiles: len(profiles)}
	for _, p := range profiles {
		if ctx.Err() != nil {
			break
		}

		genCtx, cancel := context.WithTimeout(ctx, j.perProfileTimeout)
		gen, genErr := j.planner.Generate(genCtx, p)
		cancel()

		switch {
		case genErr != nil:
			result.Failed++
			j.logger.Warn().
				Err(genErr).
				Str("user_id", p.UserID).
				Msg("cache warm generation failed")
		case gen.CacheHit:
			result.Hits++
		default:
			result.Warmed++
		}
	}

	result.Duration = time.Since(start)
	j.logger.Info().
		Int("profiles", result.Profiles).
		Int("warmed", result.Warmed).
		Int("hits", result.Hits).
		Int("failed", result.Failed).
		Dur("duration", result.Duration).
		Msg("cache warm completed")
	return result, nil
}
