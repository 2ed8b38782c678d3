package workout

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// Repository errors.
var (
	ErrPlanNotFound = errors.New("workout plan not found")
	ErrLogNotFound  = errors.New("workout log not found")
)

// PlanRepository defines the interface for saved plan persistence.
type PlanRepository interface {
	// Create persists a new saved plan.
	Create(ctx context.Context, plan *SavedPlan) error

	// Get retrieves a plan by ID, scoped to the owning user.
	Get(ctx context.Context, userID, planID string) (*SavedPlan, error)

	// List retrieves a user's plans, newest first.
	List(ctx context.Context, userID string) ([]*SavedPlan, error)

	// Delete deletes a plan, scoped to the owning user.
	Delete(ctx context.Context, userID, planID string) error
}

// LogRepository defines the interface for workout log persistence.
type LogRepository interface {
	// Create persists a new log.
	Create(ctx context.Context, log *Log) error

	// Get retrieves a log by ID, scoped to the owning user.
	Get(ctx context.Context, userID, logID string) (*Log, error)

	// List retrieves a user's logs, newest first, up to limit.
	List(ctx context.Context, userID string, limit int) ([]*Log, error)
}

// InMemoryPlanRepository is an in-memory implementation of PlanRepository.
type InMemoryPlanRepository struct {
	mu    sync.RWMutex
	plans map[string]*SavedPlan
}

// NewInMemoryPlanRepository creates a new in-memory plan repository.
func NewInMemoryPlanRepository() *InMemoryPlanRepository {
	return &InMemoryPlanRepository{plans: make(map[string]*SavedPlan)}
}

// Create persists a new saved plan.
func (r *InMemoryPlanRepository) Create(_ context.Context, plan *SavedPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans[plan.ID] = copySavedPlan(plan)
	return nil
}

// Get retrieves a plan by ID, scoped to the owning user.
func (r *InMemoryPlanRepository) Get(_ context.Context, userID, planID string) (*SavedPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plan, ok := r.plans[planID]
	if !ok || plan.UserID != userID {
		return nil, ErrPlanNotFound
	}
	return copySavedPlan(plan), nil
}

// List retrieves a user's plans, newest first.
func (r *InMemoryPlanRepository) List(_ context.Context, userID string) ([]*SavedPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*SavedPlan
	for _, plan := range r.plans {
		if plan.UserID == userID {
			out = append(out, copySavedPlan(plan))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete deletes a plan, scoped to the owning user.
func (r *InMemoryPlanRepository) Delete(_ context.Context, userID, planID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	plan, ok := r.plans[planID]
	if !ok || plan.UserID != userID {
		return ErrPlanNotFound
	}
	delete(r.plans, planID)
	return nil
}

// InMemoryLogRepository is an in-memory implementation of LogRepository.
type InMemoryLogRepository struct {
	mu   sync.RWMutex
	logs map[string]*Log
}

// NewInMemoryLogRepository creates a new in-memory log repository.
func NewInMemoryLogRepository() *InMemoryLogRepository {
	return &InMemoryLogRepository{logs: make(map[string]*Log)}
}

// Create persists a new log.
func (r *InMemoryLogRepository) Create(_ context.Context, log *Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs[log.ID] = copyLog(log)
	return nil
}

// Get retrieves a log by ID, scoped to the owning user.
func (r *InMemoryLogRepository) Get(_ context.Context, userID, logID string) (*Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	log, ok := r.logs[logID]
	if !ok || log.UserID != userID {
		return nil, ErrLogNotFound
	}
	return copyLog(log), nil
}

// List retrieves a user's logs, newest first, up to limit.
func (r *InMemoryLogRepository) List(_ context.Context, userID string, limit int) ([]*Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Log
	for _, log := range r.logs {
		if log.UserID == userID {
			out = append(out, copyLog(log))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func copySavedPlan(p *SavedPlan) *SavedPlan {
	if p == nil {
		return nil
	}
	out := *p
	out.Plan = p.Plan.Clone()
	return &out
}

func copyLog(l *Log) *Log {
	if l == nil {
		return nil
	}
	out := *l
	out.Entries = make([]LogEntry, len(l.Entries))
	for i, entry := range l.Entries {
		out.Entries[i] = entry
		out.Entries[i].Sets = append([]SetResult(nil), entry.Sets...)
	}
	if l.Rating != nil {
		rating := *l.Rating
		out.Rating = &rating
	}
	return &out
}
