package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the catalog service.
type ServiceConfig struct {
	// Provider is the exercise catalog provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache catalog results (default: 1 hour).
	// Catalog content changes slowly, so a long cache is appropriate.
	CacheTTL time.Duration

	// StaleIfErrorTTL allows serving stale data on provider errors (default: 24 hours).
	StaleIfErrorTTL time.Duration

	// CleanupInterval is how often to clean up expired entries (default: 30 minutes).
	CleanupInterval time.Duration
}

// Service provides exercise catalog lookups with caching and a built-in
// fallback list. Search never fails: a provider outage degrades to the
// fallback exercises instead.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	staleIfErrorTTL time.Duration
	cleanupInterval time.Duration

	mu          sync.RWMutex
	cache       map[string]*cachedSearch
	lastCleanup time.Time
}

type cachedSearch struct {
	exercises []Exercise
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new catalog service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 1 * time.Hour
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 24 * time.Hour
	}

	cleanupInterval := cfg.CleanupInterval
	if cleanupInterval == 0 {
		cleanupInterval = 30 * time.Minute
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		staleIfErrorTTL: staleIfErrorTTL,
		cleanupInterval: cleanupInterval,
		cache:           make(map[string]*cachedSearch),
	}
}

// Search returns exercises matching the given filters. On provider failure
// the stale cache entry is served if present, otherwise the built-in
// fallback list. The result carries its source so callers can tell a clean
// result from a degraded one.
func (s *Service) Search(ctx context.Context, filters Filters) *SearchResult {
	cacheKey := s.cacheKey(filters)

	// Check cache (read lock)
	s.mu.RLock()
	if cached, ok := s.cache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		s.logger.Debug().
			Str("cache_key", cacheKey).
			Msg("cache hit for catalog search")
		return &SearchResult{Exercises: cached.exercises, Source: SourceCache}
	}
	s.mu.RUnlock()

	return s.fetchExercises(ctx, filters, cacheKey)
}

// FindByName returns the first exercise whose name matches the given name
// case-insensitively, searching with the given filters. Returns
// ErrExerciseNotFound when no exercise matches; the caller decides whether a
// miss matters.
func (s *Service) FindByName(ctx context.Context, name string, filters Filters) (*Exercise, error) {
	result := s.Search(ctx, filters)
	for i := range result.Exercises {
		if strings.EqualFold(result.Exercises[i].Name, name) {
			exercise := result.Exercises[i]
			return &exercise, nil
		}
	}
	return nil, ErrExerciseNotFound
}

// fetchExercises fetches exercises from the provider and updates the cache.
func (s *Service) fetchExercises(ctx context.Context, filters Filters, cacheKey string) *SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache (prevents thundering herd)
	if cached, ok := s.cache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		return &SearchResult{Exercises: cached.exercises, Source: SourceCache}
	}

	s.logger.Debug().
		Strs("muscles", filters.Muscles).
		Strs("equipment", filters.Equipment).
		Str("provider", s.provider.Name()).
		Msg("fetching exercises from catalog provider")

	exercises, err := s.provider.Search(ctx, filters)
	if err != nil {
		s.logger.Error().Err(err).
			Strs("muscles", filters.Muscles).
			Strs("equipment", filters.Equipment).
			Msg("failed to fetch exercises from catalog")

		// Stale-if-error: serve the last good result if recent enough.
		if cached, ok := s.cache[cacheKey]; ok {
			if time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				s.logger.Warn().
					Time("fetched_at", cached.fetchedAt).
					Str("cache_key", cacheKey).
					Msg("serving stale catalog data due to provider error")
				return &SearchResult{Exercises: cached.exercises, Source: SourceCache}
			}
		}

		s.logger.Warn().Msg("substituting built-in fallback exercise list")
		return &SearchResult{Exercises: FallbackExercises(), Source: SourceFallback}
	}

	// Update cache
	now := time.Now()
	s.cache[cacheKey] = &cachedSearch{
		exercises: exercises,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	s.cleanupIfNeeded()

	return &SearchResult{Exercises: exercises, Source: SourceProvider}
}

// cacheKey generates a stable key for a search. Filter values are sorted so
// equivalent filters share an entry regardless of order.
func (s *Service) cacheKey(filters Filters) string {
	muscles := append([]string(nil), filters.Muscles...)
	equipment := append([]string(nil), filters.Equipment...)
	sort.Strings(muscles)
	sort.Strings(equipment)
	return "m=" + strings.Join(muscles, ",") + ";e=" + strings.Join(equipment, ",")
}

// cleanupIfNeeded removes expired entries if the cleanup interval has passed.
func (s *Service) cleanupIfNeeded() {
	now := time.Now()
	if now.Sub(s.lastCleanup) < s.cleanupInterval {
		return
	}

	s.lastCleanup = now
	expired := 0

	for key, cached := range s.cache {
		if now.After(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
			delete(s.cache, key)
			expired++
		}
	}

	if expired > 0 {
		s.logger.Debug().
			Int("expired_entries", expired).
			Msg("cleaned up expired catalog cache entries")
	}
}

// InvalidateCache clears all cached search results.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedSearch)
}

// ProviderName returns the name of the underlying provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}
