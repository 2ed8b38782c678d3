package profile

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Service errors.
var (
	ErrInvalidProfile = errors.New("invalid profile")
)

// Service provides profile operations.
type Service struct {
	repo Repository
}

// NewService creates a new profile service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get retrieves the user's profile, falling back to defaults when none has
// been saved yet.
func (s *Service) Get(ctx context.Context, userID string) (*UserProfile, error) {
	p, err := s.repo.Get(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		return DefaultProfile(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ProfileInput is the mutable subset of a profile.
type ProfileInput struct {
	Level          FitnessLevel
	Goals          []string
	Equipment      []string
	SessionMinutes int
	DaysPerWeek    int
	HeightCM       float64
	WeightKG       float64
	Age            int
	Gender         string
}

// Upsert validates and saves the user's profile.
func (s *Service) Upsert(ctx context.Context, userID string, input *ProfileInput) (*UserProfile, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	now := time.Now()

	p, err := s.repo.Get(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		p = DefaultProfile(userID)
		p.CreatedAt = now
	} else if err != nil {
		return nil, err
	}

	p.Level = input.Level
	p.Goals = input.Goals
	p.Equipment = input.Equipment
	p.SessionMinutes = input.SessionMinutes
	p.DaysPerWeek = input.DaysPerWeek
	p.HeightCM = input.HeightCM
	p.WeightKG = input.WeightKG
	p.Age = input.Age
	p.Gender = input.Gender
	p.UpdatedAt = now

	if err := s.repo.Upsert(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// Delete deletes the user's profile.
func (s *Service) Delete(ctx context.Context, userID string) error {
	return s.repo.Delete(ctx, userID)
}

func validateInput(input *ProfileInput) error {
	if !input.Level.Valid() {
		return fmt.Errorf("%w: unknown fitness level %q", ErrInvalidProfile, input.Level)
	}
	if input.DaysPerWeek < 1 || input.DaysPerWeek > 7 {
		return fmt.Errorf("%w: days per week must be 1-7, got %d", ErrInvalidProfile, input.DaysPerWeek)
	}
	if input.SessionMinutes < 10 || input.SessionMinutes > 240 {
		return fmt.Errorf("%w: session minutes must be 10-240, got %d", ErrInvalidProfile, input.SessionMinutes)
	}
	if input.Age < 0 || input.Age > 120 {
		return fmt.Errorf("%w: implausible age %d", ErrInvalidProfile, input.Age)
	}
	return nil
}
