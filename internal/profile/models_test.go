package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashOrderIndependent(t *testing.T) {
	a := &UserProfile{
		Level:          LevelBeginner,
		Goals:          []string{"strength", "endurance"},
		Equipment:      []string{"dumbbell", "barbell"},
		SessionMinutes: 45,
		DaysPerWeek:    3,
	}
	b := &UserProfile{
		Level:          LevelBeginner,
		Goals:          []string{"endurance", "strength"},
		Equipment:      []string{"barbell", "dumbbell"},
		SessionMinutes: 45,
		DaysPerWeek:    3,
	}

	assert.Equal(t, a.Hash(), b.Hash())
}

func TestHashSensitiveToFields(t *testing.T) {
	base := &UserProfile{
		Level:          LevelBeginner,
		Goals:          []string{"strength"},
		Equipment:      []string{"bodyweight"},
		SessionMinutes: 45,
		DaysPerWeek:    3,
	}

	changed := *base
	changed.DaysPerWeek = 4
	assert.NotEqual(t, base.Hash(), changed.Hash())

	changed = *base
	changed.Level = LevelAdvanced
	assert.NotEqual(t, base.Hash(), changed.Hash())

	changed = *base
	changed.Goals = []string{"strength", "mobility"}
	assert.NotEqual(t, base.Hash(), changed.Hash())
}

func TestHashIgnoresAnthropometrics(t *testing.T) {
	a := &UserProfile{Level: LevelBeginner, Goals: []string{"strength"}, DaysPerWeek: 3, SessionMinutes: 45}
	b := *a
	b.WeightKG = 90
	b.HeightCM = 185
	b.Age = 40

	assert.Equal(t, a.Hash(), b.Hash())
}

func TestHashNormalizesCaseAndWhitespace(t *testing.T) {
	a := &UserProfile{Level: LevelBeginner, Goals: []string{"Strength "}, DaysPerWeek: 3, SessionMinutes: 45}
	b := &UserProfile{Level: LevelBeginner, Goals: []string{"strength"}, DaysPerWeek: 3, SessionMinutes: 45}

	assert.Equal(t, a.Hash(), b.Hash())
}

func TestServiceUpsertValidation(t *testing.T) {
	svc := NewService(NewInMemoryRepository())

	cases := []struct {
		name  string
		input ProfileInput
	}{
		{"unknown level", ProfileInput{Level: "expert", DaysPerWeek: 3, SessionMinutes: 45}},
		{"zero days", ProfileInput{Level: LevelBeginner, DaysPerWeek: 0, SessionMinutes: 45}},
		{"eight days", ProfileInput{Level: LevelBeginner, DaysPerWeek: 8, SessionMinutes: 45}},
		{"too short session", ProfileInput{Level: LevelBeginner, DaysPerWeek: 3, SessionMinutes: 5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Upsert(context.Background(), "usr_1", &tc.input)
			assert.ErrorIs(t, err, ErrInvalidProfile)
		})
	}
}

func TestServiceUpsertAndGet(t *testing.T) {
	svc := NewService(NewInMemoryRepository())

	saved, err := svc.Upsert(context.Background(), "usr_1", &ProfileInput{
		Level:          LevelIntermediate,
		Goals:          []string{"strength"},
		Equipment:      []string{"barbell"},
		SessionMinutes: 60,
		DaysPerWeek:    4,
	})
	require.NoError(t, err)
	assert.Equal(t, "usr_1", saved.UserID)
	assert.False(t, saved.CreatedAt.IsZero())

	got, err := svc.Get(context.Background(), "usr_1")
	require.NoError(t, err)
	assert.Equal(t, LevelIntermediate, got.Level)
	assert.Equal(t, []string{"barbell"}, got.Equipment)
}

func TestServiceGetDefaultsWhenMissing(t *testing.T) {
	svc := NewService(NewInMemoryRepository())

	got, err := svc.Get(context.Background(), "usr_new")
	require.NoError(t, err)
	assert.Equal(t, LevelBeginner, got.Level)
	assert.Equal(t, 3, got.DaysPerWeek)
}
