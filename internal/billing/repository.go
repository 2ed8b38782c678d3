package billing

import (
	"context"
	"sync"
)

// Repository defines the interface for subscription persistence.
type Repository interface {
	// GetByUserID retrieves the subscription for a user.
	// Returns ErrSubscriptionNotFound if none is recorded.
	GetByUserID(ctx context.Context, userID string) (*Subscription, error)

	// GetBySubscriptionID retrieves a subscription by the processor's
	// subscription identifier.
	GetBySubscriptionID(ctx context.Context, subscriptionID string) (*Subscription, error)

	// Upsert creates or replaces the subscription record for its user.
	Upsert(ctx context.Context, sub *Subscription) error
}

// InMemoryRepository is an in-memory implementation of Repository,
// used for testing and local development.
type InMemoryRepository struct {
	mu     sync.RWMutex
	byUser map[string]*Subscription
}

// NewInMemoryRepository creates a new in-memory subscription repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byUser: make(map[string]*Subscription),
	}
}

// GetByUserID retrieves the subscription for a user.
func (r *InMemoryRepository) GetByUserID(_ context.Context, userID string) (*Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, ok := r.byUser[userID]
	if !ok {
		return nil, ErrSubscriptionNotFound
	}
	return copySubscription(sub), nil
}

// GetBySubscriptionID retrieves a subscription by processor identifier.
func (r *InMemoryRepository) GetBySubscriptionID(_ context.Context, subscriptionID string) (*Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, sub := range r.byUser {
		if sub.SubscriptionID == subscriptionID {
			return copySubscription(sub), nil
		}
	}
	return nil, ErrSubscriptionNotFound
}

// Upsert creates or replaces the subscription record for its user.
func (r *InMemoryRepository) Upsert(_ context.Context, sub *Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byUser[sub.UserID] = copySubscription(sub)
	return nil
}

func copySubscription(sub *Subscription) *Subscription {
	c := *sub
	return &c
}
