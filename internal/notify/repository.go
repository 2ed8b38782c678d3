package notify

import (
	"context"
	"sync"
)

// Repository defines the interface for notification preference persistence.
type Repository interface {
	// Get retrieves preferences for a user. Returns
	// ErrPreferencesNotFound if the user never configured notifications.
	Get(ctx context.Context, userID string) (*Preferences, error)

	// Upsert creates or replaces the preferences for their user.
	Upsert(ctx context.Context, prefs *Preferences) error

	// ListEnabled returns all preferences with delivery enabled and a
	// chat linked.
	ListEnabled(ctx context.Context) ([]*Preferences, error)
}

// InMemoryRepository is an in-memory implementation of Repository,
// used for testing and local development.
type InMemoryRepository struct {
	mu     sync.RWMutex
	byUser map[string]*Preferences
}

// NewInMemoryRepository creates a new in-memory preferences repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byUser: make(map[string]*Preferences),
	}
}

// Get retrieves preferences for a user.
func (r *InMemoryRepository) Get(_ context.Context, userID string) (*Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prefs, ok := r.byUser[userID]
	if !ok {
		return nil, ErrPreferencesNotFound
	}
	return copyPreferences(prefs), nil
}

// Upsert creates or replaces the preferences for their user.
func (r *InMemoryRepository) Upsert(_ context.Context, prefs *Preferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byUser[prefs.UserID] = copyPreferences(prefs)
	return nil
}

// ListEnabled returns all preferences with delivery enabled and a chat linked.
func (r *InMemoryRepository) ListEnabled(_ context.Context) ([]*Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Preferences
	for _, prefs := range r.byUser {
		if prefs.Enabled && prefs.ChatID != 0 {
			out = append(out, copyPreferences(prefs))
		}
	}
	return out, nil
}

func copyPreferences(prefs *Preferences) *Preferences {
	c := *prefs
	return &c
}
