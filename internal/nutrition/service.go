package nutrition

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service errors.
var (
	ErrInvalidEntry = errors.New("invalid nutrition entry")
)

// ServiceConfig holds configuration for the nutrition service.
type ServiceConfig struct {
	// Provider is the food database client.
	Provider Provider

	// Logs is the nutrition log repository.
	Logs LogRepository

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long food search results are cached (default: 1 hour).
	CacheTTL time.Duration
}

// Service provides food lookups with caching and nutrition logging.
type Service struct {
	provider Provider
	logs     LogRepository
	logger   zerolog.Logger
	cacheTTL time.Duration

	mu    sync.RWMutex
	cache map[string]*cachedFoods
}

type cachedFoods struct {
	foods     []Food
	expiresAt time.Time
}

// NewService creates a new nutrition service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 1 * time.Hour
	}

	return &Service{
		provider: cfg.Provider,
		logs:     cfg.Logs,
		logger:   cfg.Logger,
		cacheTTL: cacheTTL,
		cache:    make(map[string]*cachedFoods),
	}
}

// SearchFoods returns foods matching the query, serving repeat queries
// from cache.
func (s *Service) SearchFoods(ctx context.Context, query string, limit int) ([]Food, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if key == "" {
		return nil, fmt.Errorf("%w: empty query", ErrInvalidEntry)
	}

	s.mu.RLock()
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		return cached.foods, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache (prevents thundering herd)
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		return cached.foods, nil
	}

	foods, err := s.provider.Search(ctx, query, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("food search failed")
		return nil, err
	}

	s.cache[key] = &cachedFoods{foods: foods, expiresAt: time.Now().Add(s.cacheTTL)}
	return foods, nil
}

// GetFood returns the food for a product barcode.
func (s *Service) GetFood(ctx context.Context, barcode string) (*Food, error) {
	return s.provider.GetByBarcode(ctx, barcode)
}

// LogInput is the payload for logging consumed food.
type LogInput struct {
	FoodName  string
	Barcode   string
	QuantityG float64
	LoggedAt  time.Time

	// Macros optionally carries explicit per-quantity macros. When zero
	// and a barcode is present, macros are resolved from the food
	// database.
	Macros Macros
}

// LogFood validates and records a consumed food. When the input carries a
// barcode and no explicit macros, the database product's per-100g values
// are scaled to the logged quantity.
func (s *Service) LogFood(ctx context.Context, userID string, input *LogInput) (*LogEntry, error) {
	if strings.TrimSpace(input.FoodName) == "" && input.Barcode == "" {
		return nil, fmt.Errorf("%w: food name or barcode required", ErrInvalidEntry)
	}
	if input.QuantityG <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidEntry)
	}

	macros := input.Macros
	foodName := input.FoodName

	if input.Barcode != "" && macros == (Macros{}) {
		food, err := s.provider.GetByBarcode(ctx, input.Barcode)
		if err != nil {
			return nil, err
		}
		macros = food.Per100G.Scale(input.QuantityG)
		if foodName == "" {
			foodName = food.Name
		}
	}

	loggedAt := input.LoggedAt
	if loggedAt.IsZero() {
		loggedAt = time.Now()
	}

	entry := &LogEntry{
		ID:        "nlog_" + uuid.NewString(),
		UserID:    userID,
		FoodName:  foodName,
		Barcode:   input.Barcode,
		QuantityG: input.QuantityG,
		Macros:    macros,
		LoggedAt:  loggedAt,
		CreatedAt: time.Now(),
	}

	if err := s.logs.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListLogs retrieves the user's entries for the given day.
func (s *Service) ListLogs(ctx context.Context, userID string, day time.Time) ([]*LogEntry, error) {
	from, to := dayBounds(day)
	return s.logs.List(ctx, userID, from, to)
}

// GetDailySummary aggregates the user's intake for the given day.
func (s *Service) GetDailySummary(ctx context.Context, userID string, day time.Time) (*DailySummary, error) {
	from, to := dayBounds(day)
	entries, err := s.logs.List(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return SummarizeDay(from, entries), nil
}

// InvalidateCache clears the food search cache.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*cachedFoods)
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return from, from.Add(24 * time.Hour)
}
