// Package profile provides user fitness profile management.
//
// The profile is the read-only input to the plan generation pipeline: the
// user's fitness level, goals, available equipment and schedule shape both
// the drafting prompt and the plan cache key.
package profile

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// FitnessLevel represents the user's self-reported experience level.
type FitnessLevel string

// Fitness levels.
const (
	LevelBeginner     FitnessLevel = "beginner"
	LevelIntermediate FitnessLevel = "intermediate"
	LevelAdvanced     FitnessLevel = "advanced"
)

// Valid reports whether the level is one of the known values.
func (l FitnessLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// UserProfile represents a user's complete fitness profile.
type UserProfile struct {
	// UserID is the owning user (format: usr_XXXX).
	UserID string

	// Level is the user's fitness level.
	Level FitnessLevel

	// Goals are free-text goal tags (e.g. "strength", "weight loss").
	Goals []string

	// Equipment are free-text equipment tags available to the user.
	Equipment []string

	// SessionMinutes is the preferred workout duration in minutes.
	SessionMinutes int

	// DaysPerWeek is how many days per week the user wants to train.
	DaysPerWeek int

	// Anthropometric fields. Optional, not used by plan generation.
	HeightCM float64
	WeightKG float64
	Age      int
	Gender   string

	// CreatedAt is when the profile was created.
	CreatedAt time.Time

	// UpdatedAt is when the profile was last updated.
	UpdatedAt time.Time
}

// DefaultProfile returns a profile with sensible defaults for a new user.
func DefaultProfile(userID string) *UserProfile {
	now := time.Now()
	return &UserProfile{
		UserID:         userID,
		Level:          LevelBeginner,
		Goals:          []string{"general fitness"},
		Equipment:      []string{"bodyweight"},
		SessionMinutes: 45,
		DaysPerWeek:    3,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Hash returns a stable key for the profile fields that influence plan
// generation. Goals and equipment are sorted so that order differences in
// the stored lists do not produce distinct keys.
func (p *UserProfile) Hash() string {
	goals := normalizeTags(p.Goals)
	equipment := normalizeTags(p.Equipment)

	payload := fmt.Sprintf("goals=%s|level=%s|equipment=%s|days=%d|minutes=%d",
		strings.Join(goals, ","),
		p.Level,
		strings.Join(equipment, ","),
		p.DaysPerWeek,
		p.SessionMinutes,
	)

	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// normalizeTags lowercases, trims and sorts a tag list without mutating the
// input.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}
