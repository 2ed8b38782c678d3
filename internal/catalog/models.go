// Package catalog provides the exercise catalog service.
package catalog

import (
	"context"
	"errors"
)

// Repository and provider errors.
var (
	// ErrExerciseNotFound is returned when an exercise cannot be found.
	ErrExerciseNotFound = errors.New("exercise not found")

	// ErrProviderUnavailable is returned when the catalog provider cannot be reached.
	ErrProviderUnavailable = errors.New("catalog provider unavailable")
)

// Exercise represents a catalog exercise entry.
type Exercise struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	MuscleGroups []string `json:"muscleGroups,omitempty"`
	Equipment    []string `json:"equipment,omitempty"`
	Difficulty   string   `json:"difficulty,omitempty"`
	Instructions []string `json:"instructions,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	VideoURL     string   `json:"videoUrl,omitempty"`
}

// Filters narrows a catalog search.
type Filters struct {
	// Muscles filters by targeted muscle group names (optional).
	Muscles []string

	// Equipment filters by available equipment names (optional).
	Equipment []string

	// Limit caps the number of results (optional, provider default applies).
	Limit int
}

// Provider defines the interface for exercise catalog providers.
type Provider interface {
	// Search returns exercises matching the given filters.
	Search(ctx context.Context, filters Filters) ([]Exercise, error)

	// GetByID returns a single exercise by its provider ID.
	// Returns ErrExerciseNotFound if no such exercise exists.
	GetByID(ctx context.Context, id string) (*Exercise, error)

	// Name returns the provider name for logging.
	Name() string
}

// Source identifies where a search result came from.
type Source string

const (
	// SourceProvider means the result came from the live catalog provider.
	SourceProvider Source = "provider"

	// SourceCache means the result was served from the in-memory cache.
	SourceCache Source = "cache"

	// SourceFallback means the provider failed and the built-in fallback
	// list was substituted.
	SourceFallback Source = "fallback"
)

// SearchResult carries exercises plus the source they were resolved from,
// so callers can tell a clean result from a degraded one.
type SearchResult struct {
	Exercises []Exercise
	Source    Source
}

// Degraded reports whether the result was served from the fallback list.
func (r *SearchResult) Degraded() bool {
	return r.Source == SourceFallback
}

// FallbackExercises returns the built-in exercise list substituted when the
// catalog provider is unreachable. The pipeline must never halt for lack of
// exercise data.
func FallbackExercises() []Exercise {
	return []Exercise{
		{
			ID:           "fallback-push-ups",
			Name:         "Push-ups",
			Description:  "Classic bodyweight pushing exercise for chest, shoulders and triceps.",
			MuscleGroups: []string{"chest", "shoulders", "triceps"},
			Equipment:    []string{"bodyweight"},
			Difficulty:   "beginner",
			Instructions: []string{
				"Start in a high plank with hands under shoulders.",
				"Lower your chest to just above the floor, elbows at roughly 45 degrees.",
				"Press back up to the starting position.",
			},
		},
		{
			ID:           "fallback-squats",
			Name:         "Squats",
			Description:  "Fundamental lower-body movement targeting quads, glutes and hamstrings.",
			MuscleGroups: []string{"quadriceps", "glutes", "hamstrings"},
			Equipment:    []string{"bodyweight"},
			Difficulty:   "beginner",
			Instructions: []string{
				"Stand with feet shoulder-width apart.",
				"Sit back and down until thighs are parallel to the floor.",
				"Drive through your heels to stand back up.",
			},
		},
		{
			ID:           "fallback-plank",
			Name:         "Plank",
			Description:  "Isometric core hold building trunk stability.",
			MuscleGroups: []string{"core", "shoulders"},
			Equipment:    []string{"bodyweight"},
			Difficulty:   "beginner",
			Instructions: []string{
				"Rest on forearms and toes with a straight line from head to heels.",
				"Brace your core and hold without letting the hips sag.",
			},
		},
	}
}
