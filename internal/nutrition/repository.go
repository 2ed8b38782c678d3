package nutrition

import (
	"context"
	"sort"
	"sync"
	"time"
)

// LogRepository defines the interface for nutrition log persistence.
type LogRepository interface {
	// Create persists a new log entry.
	Create(ctx context.Context, entry *LogEntry) error

	// List retrieves a user's entries logged within [from, to), newest
	// first.
	List(ctx context.Context, userID string, from, to time.Time) ([]*LogEntry, error)
}

// InMemoryLogRepository is an in-memory implementation of LogRepository.
type InMemoryLogRepository struct {
	mu      sync.RWMutex
	entries map[string]*LogEntry
}

// NewInMemoryLogRepository creates a new in-memory nutrition log repository.
func NewInMemoryLogRepository() *InMemoryLogRepository {
	return &InMemoryLogRepository{entries: make(map[string]*LogEntry)}
}

// Create persists a new log entry.
func (r *InMemoryLogRepository) Create(_ context.Context, entry *LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entryCopy := *entry
	r.entries[entry.ID] = &entryCopy
	return nil
}

// List retrieves a user's entries logged within [from, to), newest first.
func (r *InMemoryLogRepository) List(_ context.Context, userID string, from, to time.Time) ([]*LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*LogEntry
	for _, entry := range r.entries {
		if entry.UserID != userID {
			continue
		}
		if entry.LoggedAt.Before(from) || !entry.LoggedAt.Before(to) {
			continue
		}
		entryCopy := *entry
		out = append(out, &entryCopy)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LoggedAt.After(out[j].LoggedAt)
	})
	return out, nil
}
