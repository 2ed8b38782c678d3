// Package workout provides persistence for generated workout plans and
// append-only workout completion logs.
package workout

import (
	"time"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/planner"
)

// SavedPlan is a generated plan persisted with ownership. The plan body is
// stored as a single JSON document; it is already normalized to three weeks
// before it ever reaches this package.
type SavedPlan struct {
	// ID is the plan identifier (format: plan_XXXX).
	ID string

	// UserID is the owning user.
	UserID string

	// Plan is the full normalized plan document.
	Plan *planner.Plan

	// Outcome records how the plan was generated (ok/degraded/fallback).
	Outcome planner.Outcome

	// CreatedAt is when the plan was saved.
	CreatedAt time.Time
}

// SetResult is one completed set within a logged workout.
type SetResult struct {
	Reps      int     `json:"reps"`
	WeightKG  float64 `json:"weightKg,omitempty"`
	Completed bool    `json:"completed"`
}

// LogEntry records the actual work done for one exercise.
type LogEntry struct {
	ExerciseName string      `json:"exerciseName"`
	Sets         []SetResult `json:"sets"`
}

// Log is a completed-workout record. Logs are append-only: they are never
// updated or deleted through the service.
type Log struct {
	// ID is the log identifier (format: wlog_XXXX).
	ID string

	// UserID is the owning user.
	UserID string

	// PlanID optionally links the log to a saved plan.
	PlanID string

	// Date is the day the workout was performed.
	Date time.Time

	// Entries are the per-exercise results.
	Entries []LogEntry

	// Rating is an optional 1-5 session rating.
	Rating *int

	// Notes are optional free-text notes.
	Notes string

	// CreatedAt is when the log was recorded.
	CreatedAt time.Time
}

// Summary aggregates a user's workout history for the dashboard.
type Summary struct {
	TotalWorkouts  int        `json:"totalWorkouts"`
	TotalSets      int        `json:"totalSets"`
	CompletedSets  int        `json:"completedSets"`
	CompletionRate float64    `json:"completionRate"`
	AverageRating  float64    `json:"averageRating"`
	LastWorkoutAt  *time.Time `json:"lastWorkoutAt,omitempty"`
}

// Summarize computes the aggregate view of a set of logs.
func Summarize(logs []*Log) *Summary {
	summary := &Summary{TotalWorkouts: len(logs)}

	ratingSum := 0
	ratingCount := 0
	for _, log := range logs {
		for _, entry := range log.Entries {
			for _, set := range entry.Sets {
				summary.TotalSets++
				if set.Completed {
					summary.CompletedSets++
				}
			}
		}
		if log.Rating != nil {
			ratingSum += *log.Rating
			ratingCount++
		}
		if summary.LastWorkoutAt == nil || log.Date.After(*summary.LastWorkoutAt) {
			date := log.Date
			summary.LastWorkoutAt = &date
		}
	}

	if summary.TotalSets > 0 {
		summary.CompletionRate = float64(summary.CompletedSets) / float64(summary.TotalSets)
	}
	if ratingCount > 0 {
		summary.AverageRating = float64(ratingSum) / float64(ratingCount)
	}

	return summary
}
