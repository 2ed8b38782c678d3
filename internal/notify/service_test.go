package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent     []int64
	failures int
}

func (f *fakeSender) Send(_ context.Context, chatID int64, _ string) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("delivery failed")
	}
	f.sent = append(f.sent, chatID)
	return nil
}

func newTestService(sender *fakeSender) (*Service, *InMemoryRepository) {
	repo := NewInMemoryRepository()
	svc := NewService(ServiceConfig{
		Repository:     repo,
		Sender:         sender,
		RetryBaseDelay: time.Millisecond,
		Logger:         zerolog.Nop(),
	})
	return svc, repo
}

func TestService_GetPreferences_Defaults(t *testing.T) {
	svc, _ := newTestService(&fakeSender{})

	prefs, err := svc.GetPreferences(context.Background(), "usr_1")
	require.NoError(t, err)
	assert.False(t, prefs.Enabled)
	assert.Equal(t, "08:00", prefs.ReminderTime)
	assert.Zero(t, prefs.ChatID)
}

func TestService_UpdatePreferences(t *testing.T) {
	svc, _ := newTestService(&fakeSender{})

	prefs, err := svc.UpdatePreferences(context.Background(), "usr_1", PreferencesInput{
		ChatID:       12345,
		Enabled:      true,
		ReminderTime: "06:30",
	})
	require.NoError(t, err)
	assert.True(t, prefs.Enabled)
	assert.Equal(t, "06:30", prefs.ReminderTime)

	got, err := svc.GetPreferences(context.Background(), "usr_1")
	require.NoError(t, err)
	assert.Equal(t, int64(12345), got.ChatID)
}

func TestService_UpdatePreferences_Validation(t *testing.T) {
	svc, _ := newTestService(&fakeSender{})

	_, err := svc.UpdatePreferences(context.Background(), "usr_1", PreferencesInput{
		ChatID:       12345,
		ReminderTime: "25:99",
	})
	assert.ErrorIs(t, err, ErrInvalidPreferences)

	_, err = svc.UpdatePreferences(context.Background(), "usr_1", PreferencesInput{
		Enabled: true,
	})
	assert.ErrorIs(t, err, ErrNotLinked)
}

func TestService_SendTest(t *testing.T) {
	sender := &fakeSender{}
	svc, _ := newTestService(sender)

	_, err := svc.UpdatePreferences(context.Background(), "usr_1", PreferencesInput{ChatID: 42})
	require.NoError(t, err)

	require.NoError(t, svc.SendTest(context.Background(), "usr_1"))
	assert.Equal(t, []int64{42}, sender.sent)
}

func TestService_SendTest_NoChatLinked(t *testing.T) {
	svc, _ := newTestService(&fakeSender{})

	err := svc.SendTest(context.Background(), "usr_1")
	assert.ErrorIs(t, err, ErrNotLinked)
}

func TestService_Deliver_RetriesTransientFailures(t *testing.T) {
	sender := &fakeSender{failures: 2}
	svc, _ := newTestService(sender)

	_, err := svc.UpdatePreferences(context.Background(), "usr_1", PreferencesInput{ChatID: 42})
	require.NoError(t, err)

	require.NoError(t, svc.SendTest(context.Background(), "usr_1"))
	assert.Equal(t, []int64{42}, sender.sent)
}

func TestService_Deliver_ExhaustsRetries(t *testing.T) {
	sender := &fakeSender{failures: 3}
	svc, _ := newTestService(sender)

	_, err := svc.UpdatePreferences(context.Background(), "usr_1", PreferencesInput{ChatID: 42})
	require.NoError(t, err)

	assert.Error(t, svc.SendTest(context.Background(), "usr_1"))
	assert.Empty(t, sender.sent)
}

func TestService_DispatchDue(t *testing.T) {
	sender := &fakeSender{}
	svc, repo := newTestService(sender)

	now := time.Date(2026, 3, 14, 6, 30, 12, 0, time.UTC)

	for _, prefs := range []*Preferences{
		{UserID: "usr_due", ChatID: 1, Enabled: true, ReminderTime: "06:30"},
		{UserID: "usr_later", ChatID: 2, Enabled: true, ReminderTime: "18:00"},
		{UserID: "usr_off", ChatID: 3, Enabled: false, ReminderTime: "06:30"},
	} {
		require.NoError(t, repo.Upsert(context.Background(), prefs))
	}

	delivered, err := svc.DispatchDue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)
	assert.Equal(t, []int64{1}, sender.sent)
}

type stubFlags struct {
	telegramDisabled bool
}

func (f *stubFlags) IsTelegramDisabled(context.Context) bool { return f.telegramDisabled }

func TestService_DispatchDue_TelegramDisabled(t *testing.T) {
	sender := &fakeSender{}
	repo := NewInMemoryRepository()
	svc := NewService(ServiceConfig{
		Repository:     repo,
		Sender:         sender,
		Flags:          &stubFlags{telegramDisabled: true},
		RetryBaseDelay: time.Millisecond,
		Logger:         zerolog.Nop(),
	})

	require.NoError(t, repo.Upsert(context.Background(), &Preferences{
		UserID: "usr_1", ChatID: 1, Enabled: true, ReminderTime: "06:30",
	}))

	delivered, err := svc.DispatchDue(context.Background(), time.Date(2026, 3, 14, 6, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, delivered)
	assert.Empty(t, sender.sent)
}
