package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/provider/resilience"
)

// Flags is the feature-flag surface the service consults.
type Flags interface {
	IsTelegramDisabled(ctx context.Context) bool
}

// Default delivery retry settings.
const (
	DefaultMaxAttempts    = 3
	DefaultRetryBaseDelay = 500 * time.Millisecond
)

// ServiceConfig holds configuration for the notification service.
type ServiceConfig struct {
	// Repository for preference persistence (required).
	Repository Repository

	// Sender delivers messages (required).
	Sender Sender

	// Flags gates delivery (optional).
	Flags Flags

	// MaxAttempts is the delivery attempt limit (optional, defaults to 3).
	MaxAttempts int

	// RetryBaseDelay is the linear retry base delay (optional, defaults
	// to 500ms).
	RetryBaseDelay time.Duration

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service manages notification preferences and reminder delivery.
type Service struct {
	repo           Repository
	sender         Sender
	flags          Flags
	maxAttempts    int
	retryBaseDelay time.Duration
	logger         zerolog.Logger
}

// NewService creates a new notification service.
func NewService(cfg ServiceConfig) *Service {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	retryBaseDelay := cfg.RetryBaseDelay
	if retryBaseDelay <= 0 {
		retryBaseDelay = DefaultRetryBaseDelay
	}

	return &Service{
		repo:           cfg.Repository,
		sender:         cfg.Sender,
		flags:          cfg.Flags,
		maxAttempts:    maxAttempts,
		retryBaseDelay: retryBaseDelay,
		logger:         cfg.Logger.With().Str("service", "notify").Logger(),
	}
}

// GetPreferences returns the user's notification settings. Users who never
// configured notifications get the disabled defaults.
func (s *Service) GetPreferences(ctx context.Context, userID string) (*Preferences, error) {
	prefs, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrPreferencesNotFound) {
			return DefaultPreferences(userID), nil
		}
		return nil, fmt.Errorf("getting preferences: %w", err)
	}
	return prefs, nil
}

// PreferencesInput is the payload for updating notification settings.
type PreferencesInput struct {
	ChatID       int64
	Enabled      bool
	ReminderTime string
}

// UpdatePreferences validates and saves the user's notification settings.
func (s *Service) UpdatePreferences(ctx context.Context, userID string, input PreferencesInput) (*Preferences, error) {
	reminderTime := input.ReminderTime
	if reminderTime == "" {
		reminderTime = DefaultPreferences(userID).ReminderTime
	}
	if _, err := time.Parse("15:04", reminderTime); err != nil {
		return nil, fmt.Errorf("%w: reminder time must be HH:MM", ErrInvalidPreferences)
	}
	if input.Enabled && input.ChatID == 0 {
		return nil, fmt.Errorf("%w: enabling reminders requires a linked chat", ErrNotLinked)
	}

	now := time.Now().UTC()
	prefs := &Preferences{
		UserID:       userID,
		ChatID:       input.ChatID,
		Enabled:      input.Enabled,
		ReminderTime: reminderTime,
		UpdatedAt:    now,
	}

	if existing, err := s.repo.Get(ctx, userID); err == nil {
		prefs.CreatedAt = existing.CreatedAt
	} else {
		prefs.CreatedAt = now
	}

	if err := s.repo.Upsert(ctx, prefs); err != nil {
		return nil, fmt.Errorf("saving preferences: %w", err)
	}
	return prefs, nil
}

// SendTest delivers a test message to the user's linked chat.
func (s *Service) SendTest(ctx context.Context, userID string) error {
	prefs, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return err
	}
	if prefs.ChatID == 0 {
		return ErrNotLinked
	}

	return s.deliver(ctx, prefs.ChatID, "Test notification: your reminders are set up correctly.")
}

// SendReminder delivers a workout reminder to the user's linked chat.
func (s *Service) SendReminder(ctx context.Context, userID, text string) error {
	prefs, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return err
	}
	if prefs.ChatID == 0 {
		return ErrNotLinked
	}
	return s.deliver(ctx, prefs.ChatID, text)
}

// DispatchDue sends reminders to every user whose daily reminder falls in
// the minute containing now. Per-user delivery failures are logged and do
// not block the rest of the batch. Returns the number of delivered
// reminders.
func (s *Service) DispatchDue(ctx context.Context, now time.Time) (int, error) {
	if s.flags != nil && s.flags.IsTelegramDisabled(ctx) {
		s.logger.Debug().Msg("Telegram delivery disabled, skipping dispatch")
		return 0, nil
	}

	enabled, err := s.repo.ListEnabled(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing enabled preferences: %w", err)
	}

	delivered := 0
	for _, prefs := range enabled {
		if !prefs.DueAt(now) {
			continue
		}

		err := s.deliver(ctx, prefs.ChatID, "Time to train! Open your current plan and log today's workout.")
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("user_id", prefs.UserID).
				Msg("Reminder delivery failed")
			continue
		}
		delivered++
	}

	if delivered > 0 {
		s.logger.Info().Int("delivered", delivered).Msg("Workout reminders dispatched")
	}
	return delivered, nil
}

func (s *Service) deliver(ctx context.Context, chatID int64, text string) error {
	if s.flags != nil && s.flags.IsTelegramDisabled(ctx) {
		s.logger.Debug().Int64("chat_id", chatID).Msg("Telegram delivery disabled, dropping message")
		return nil
	}

	return resilience.RetryLinear(ctx, s.maxAttempts, s.retryBaseDelay, func() error {
		return s.sender.Send(ctx, chatID, text)
	})
}
