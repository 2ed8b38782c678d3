package workout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/planner"
)

// Service errors.
var (
	ErrInvalidLog = errors.New("invalid workout log")
)

// DefaultLogListLimit bounds history listings.
const DefaultLogListLimit = 50

// Service provides saved plan and workout log operations.
type Service struct {
	plans PlanRepository
	logs  LogRepository
}

// NewService creates a new workout service.
func NewService(plans PlanRepository, logs LogRepository) *Service {
	return &Service{plans: plans, logs: logs}
}

// SavePlan persists a generation result for the user. Generated plan IDs
// are not unique per save (cache hits and the fallback plan reuse one
// document), so each save gets its own identifier on a copy of the plan.
func (s *Service) SavePlan(ctx context.Context, userID string, result *planner.GenerateResult) (*SavedPlan, error) {
	plan := *result.Plan
	plan.ID = "plan_" + uuid.NewString()

	saved := &SavedPlan{
		ID:        plan.ID,
		UserID:    userID,
		Plan:      &plan,
		Outcome:   result.Outcome,
		CreatedAt: time.Now(),
	}
	if err := s.plans.Create(ctx, saved); err != nil {
		return nil, err
	}
	return saved, nil
}

// GetPlan retrieves one of the user's plans.
func (s *Service) GetPlan(ctx context.Context, userID, planID string) (*SavedPlan, error) {
	return s.plans.Get(ctx, userID, planID)
}

// ListPlans retrieves the user's plans, newest first.
func (s *Service) ListPlans(ctx context.Context, userID string) ([]*SavedPlan, error) {
	return s.plans.List(ctx, userID)
}

// DeletePlan deletes one of the user's plans.
func (s *Service) DeletePlan(ctx context.Context, userID, planID string) error {
	return s.plans.Delete(ctx, userID, planID)
}

// LogInput is the payload for recording a completed workout.
type LogInput struct {
	PlanID  string
	Date    time.Time
	Entries []LogEntry
	Rating  *int
	Notes   string
}

// LogWorkout validates and records a completed workout. Logs are
// append-only.
func (s *Service) LogWorkout(ctx context.Context, userID string, input *LogInput) (*Log, error) {
	if err := validateLogInput(input); err != nil {
		return nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	log := &Log{
		ID:        "wlog_" + uuid.NewString(),
		UserID:    userID,
		PlanID:    input.PlanID,
		Date:      date,
		Entries:   input.Entries,
		Rating:    input.Rating,
		Notes:     input.Notes,
		CreatedAt: time.Now(),
	}

	if err := s.logs.Create(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

// GetLog retrieves one of the user's logs.
func (s *Service) GetLog(ctx context.Context, userID, logID string) (*Log, error) {
	return s.logs.Get(ctx, userID, logID)
}

// ListLogs retrieves the user's logs, newest first.
func (s *Service) ListLogs(ctx context.Context, userID string, limit int) ([]*Log, error) {
	if limit <= 0 || limit > DefaultLogListLimit {
		limit = DefaultLogListLimit
	}
	return s.logs.List(ctx, userID, limit)
}

// GetSummary aggregates the user's recent workout history.
func (s *Service) GetSummary(ctx context.Context, userID string) (*Summary, error) {
	logs, err := s.logs.List(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	return Summarize(logs), nil
}

func validateLogInput(input *LogInput) error {
	if len(input.Entries) == 0 {
		return fmt.Errorf("%w: no entries", ErrInvalidLog)
	}
	for i, entry := range input.Entries {
		if strings.TrimSpace(entry.ExerciseName) == "" {
			return fmt.Errorf("%w: entry %d has no exercise name", ErrInvalidLog, i)
		}
		if len(entry.Sets) == 0 {
			return fmt.Errorf("%w: entry %q has no sets", ErrInvalidLog, entry.ExerciseName)
		}
		for _, set := range entry.Sets {
			if set.Reps < 0 || set.WeightKG < 0 {
				return fmt.Errorf("%w: entry %q has negative reps or weight", ErrInvalidLog, entry.ExerciseName)
			}
		}
	}
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return fmt.Errorf("%w: rating must be 1-5, got %d", ErrInvalidLog, *input.Rating)
	}
	return nil
}
