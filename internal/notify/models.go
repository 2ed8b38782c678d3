// Package notify delivers workout reminders and other user-facing
// messages over Telegram.
package notify

import (
	"errors"
	"time"
)

// Domain errors.
var (
	ErrPreferencesNotFound = errors.New("notification preferences not found")
	ErrNotLinked           = errors.New("no messaging chat linked for user")
	ErrInvalidPreferences  = errors.New("invalid notification preferences")
)

// Preferences holds a user's notification settings and chat binding.
type Preferences struct {
	// UserID is the owning user.
	UserID string

	// ChatID is the bound Telegram chat. Zero means no chat is linked.
	ChatID int64

	// Enabled turns reminder delivery on or off.
	Enabled bool

	// ReminderTime is the daily reminder time in "HH:MM" 24-hour form,
	// interpreted in UTC.
	ReminderTime string

	// CreatedAt is when the preferences were first recorded.
	CreatedAt time.Time

	// UpdatedAt is when the preferences last changed.
	UpdatedAt time.Time
}

// DefaultPreferences is the implicit state for users who never configured
// notifications.
func DefaultPreferences(userID string) *Preferences {
	return &Preferences{
		UserID:       userID,
		Enabled:      false,
		ReminderTime: "08:00",
	}
}

// DueAt reports whether the reminder should fire in the minute containing t.
func (p *Preferences) DueAt(t time.Time) bool {
	if !p.Enabled || p.ChatID == 0 {
		return false
	}
	return t.UTC().Format("15:04") == p.ReminderTime
}
