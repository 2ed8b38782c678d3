package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/catalog"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/profile"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/provider/resilience"
)

// ErrGenerationFailed is returned when every generation attempt was
// exhausted. It is the only failure the planner surfaces to callers.
var ErrGenerationFailed = errors.New("could not generate workout plan after several attempts")

// CatalogSearcher is the catalog surface the pipeline depends on. Search
// never fails; a provider outage yields the fallback exercise list with a
// degraded source tag.
type CatalogSearcher interface {
	Search(ctx context.Context, filters catalog.Filters) *catalog.SearchResult
	FindByName(ctx context.Context, name string, filters catalog.Filters) (*catalog.Exercise, error)
}

// FeatureFlags gates individual pipeline stages at runtime.
type FeatureFlags interface {
	IsAIGenerationDisabled(ctx context.Context) bool
	IsCatalogEnrichmentDisabled(ctx context.Context) bool
	IsGapFillingDisabled(ctx context.Context) bool
}

// ServiceConfig holds configuration for the planner service.
type ServiceConfig struct {
	// Catalog is the exercise catalog service.
	Catalog CatalogSearcher

	// LLM is the drafting provider client.
	LLM LLMClient

	// Cache is the plan cache. Required; the caller owns its lifetime and
	// sizing.
	Cache *Cache

	// Flags optionally gates pipeline stages.
	Flags FeatureFlags

	// Logger for service operations.
	Logger zerolog.Logger

	// MaxAttempts is how many times generation is attempted (default: 3).
	MaxAttempts int

	// RetryBaseDelay is the base delay between attempts; attempt n waits
	// n times this value (default: 500ms).
	RetryBaseDelay time.Duration
}

// Service orchestrates the plan generation pipeline.
type Service struct {
	catalog   CatalogSearcher
	drafter   *Drafter
	enricher  *Enricher
	gapFiller *GapFiller
	cache     *Cache
	flags     FeatureFlags
	logger    zerolog.Logger

	maxAttempts    int
	retryBaseDelay time.Duration
}

// NewService creates a new planner service.
func NewService(cfg ServiceConfig) *Service {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	retryBaseDelay := cfg.RetryBaseDelay
	if retryBaseDelay <= 0 {
		retryBaseDelay = 500 * time.Millisecond
	}

	cache := cfg.Cache
	if cache == nil {
		cache = NewCache(DefaultCacheSize)
	}

	return &Service{
		catalog:        cfg.Catalog,
		drafter:        NewDrafter(cfg.LLM, cfg.Logger),
		enricher:       NewEnricher(cfg.Catalog, cfg.Logger),
		gapFiller:      NewGapFiller(cfg.LLM, cfg.Logger),
		cache:          cache,
		flags:          cfg.Flags,
		logger:         cfg.Logger,
		maxAttempts:    maxAttempts,
		retryBaseDelay: retryBaseDelay,
	}
}

// Generate produces a normalized three-week plan for the profile. A cache
// hit short-circuits the whole pipeline. Individual stage failures degrade
// the result rather than failing it; ErrGenerationFailed is returned only
// when every attempt was exhausted.
func (s *Service) Generate(ctx context.Context, p *profile.UserProfile) (*GenerateResult, error) {
	key := p.Hash()

	if plan, ok := s.cache.Get(key); ok {
		s.logger.Debug().
			Str("profile_hash", key).
			Msg("plan cache hit")
		return &GenerateResult{Plan: plan, Outcome: OutcomeOK, CacheHit: true}, nil
	}

	var result *GenerateResult
	op := func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		result = s.generateOnce(ctx, p)
		return nil
	}

	if err := resilience.RetryLinear(ctx, s.maxAttempts, s.retryBaseDelay, op); err != nil {
		s.logger.Error().Err(err).
			Str("profile_hash", key).
			Msg("plan generation attempts exhausted")
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	s.cache.Put(key, result.Plan)

	s.logger.Info().
		Str("plan_id", result.Plan.ID).
		Str("outcome", string(result.Outcome)).
		Int("degradations", len(result.Degradations)).
		Msg("plan generated")

	return result, nil
}

// generateOnce runs the pipeline stages in order: catalog fetch, drafting,
// enrichment, gap filling, normalization.
func (s *Service) generateOnce(ctx context.Context, p *profile.UserProfile) *GenerateResult {
	var degradations []Degradation
	fallbackUsed := false

	searchResult := s.catalog.Search(ctx, catalog.Filters{Equipment: p.Equipment})
	if searchResult.Degraded() {
		degradations = append(degradations, Degradation{
			Stage:  StageCatalog,
			Reason: "catalog unavailable, built-in exercise list substituted",
		})
	}

	var plan *Plan
	if s.flags != nil && s.flags.IsAIGenerationDisabled(ctx) {
		plan = FallbackPlan()
		fallbackUsed = true
		degradations = append(degradations, Degradation{Stage: StageDrafting, Reason: "ai generation disabled"})
	} else {
		var deg *Degradation
		plan, deg = s.drafter.Draft(ctx, p, searchResult.Exercises)
		if deg != nil {
			fallbackUsed = true
			degradations = append(degradations, *deg)
		}
	}

	if s.flags == nil || !s.flags.IsCatalogEnrichmentDisabled(ctx) {
		if deg := s.enricher.Enrich(ctx, plan, p.Equipment); deg != nil {
			degradations = append(degradations, *deg)
		}
	}

	if s.flags == nil || !s.flags.IsGapFillingDisabled(ctx) {
		if deg := s.gapFiller.Fill(ctx, plan); deg != nil {
			degradations = append(degradations, *deg)
		}
	}

	plan = Normalize(plan)

	outcome := OutcomeOK
	switch {
	case fallbackUsed:
		outcome = OutcomeFallback
	case len(degradations) > 0:
		outcome = OutcomeDegraded
	}

	return &GenerateResult{Plan: plan, Outcome: outcome, Degradations: degradations}
}

// InvalidateCache clears the plan cache.
func (s *Service) InvalidateCache() {
	s.cache.Purge()
}
