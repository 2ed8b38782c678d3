package profile

import (
	"context"
	"errors"
	"sync"
)

// Repository errors.
var (
	ErrProfileNotFound = errors.New("profile not found")
)

// Repository defines the interface for profile persistence.
type Repository interface {
	// Get retrieves a profile by user ID.
	Get(ctx context.Context, userID string) (*UserProfile, error)

	// Upsert creates or replaces a user's profile.
	Upsert(ctx context.Context, profile *UserProfile) error

	// Delete deletes a user's profile.
	Delete(ctx context.Context, userID string) error

	// ListRecentlyUpdated returns profiles updated within the given window,
	// newest first, up to limit. Used by the cache warming job.
	ListRecentlyUpdated(ctx context.Context, limit int) ([]*UserProfile, error)
}

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for MVP/testing. Production should use a database-backed implementation.
type InMemoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]*UserProfile
}

// NewInMemoryRepository creates a new in-memory profile repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		profiles: make(map[string]*UserProfile),
	}
}

// Get retrieves a profile by user ID.
func (r *InMemoryRepository) Get(_ context.Context, userID string) (*UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}

	// Return a deep copy to prevent mutation
	return copyProfile(p), nil
}

// Upsert creates or replaces a user's profile.
func (r *InMemoryRepository) Upsert(_ context.Context, profile *UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[profile.UserID] = copyProfile(profile)
	return nil
}

// Delete deletes a user's profile.
func (r *InMemoryRepository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.profiles, userID)
	return nil
}

// ListRecentlyUpdated returns up to limit profiles, newest first.
func (r *InMemoryRepository) ListRecentlyUpdated(_ context.Context, limit int) ([]*UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*UserProfile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, copyProfile(p))
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].UpdatedAt.After(out[i].UpdatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// copyProfile creates a deep copy of a profile.
func copyProfile(p *UserProfile) *UserProfile {
	if p == nil {
		return nil
	}

	profileCopy := *p
	profileCopy.Goals = append([]string(nil), p.Goals...)
	profileCopy.Equipment = append([]string(nil), p.Equipment...)
	return &profileCopy
}
