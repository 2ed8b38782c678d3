package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/catalog"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/profile"
)

// fakeLLM is a scripted LLMClient for pipeline tests.
type fakeLLM struct {
	jsonResponse string
	jsonErr      error
	textResponse string
	textErr      error

	jsonCalls    int
	textCalls    int
	lastUserJSON string

	// textErrFrom fails CompleteText calls from this 1-based call number
	// on; zero disables it.
	textErrFrom int
}

func (f *fakeLLM) CompleteJSON(_ context.Context, _, user string) (string, error) {
	f.jsonCalls++
	f.lastUserJSON = user
	if f.jsonErr != nil {
		return "", f.jsonErr
	}
	return f.jsonResponse, nil
}

func (f *fakeLLM) CompleteText(_ context.Context, _, _ string) (string, error) {
	f.textCalls++
	if f.textErr != nil {
		return "", f.textErr
	}
	if f.textErrFrom > 0 && f.textCalls >= f.textErrFrom {
		return "", errors.New("supplemental request failed")
	}
	if f.textResponse != "" {
		return f.textResponse, nil
	}
	return "Generated supplemental text.", nil
}

const validDraftJSON = `{
	"name": "Strength Foundation",
	"description": "A strength-focused split.",
	"duration": 1,
	"weeks": [
		{"week": 1, "days": [
			{"day": 1, "exercises": [
				{"name": "Push-ups", "sets": 3, "reps": 10, "rest": 60},
				{"name": "Squats", "sets": 3, "reps": 12, "rest": 60}
			]}
		]}
	],
	"targetMuscleGroups": ["chest", "legs"],
	"difficulty": "beginner"
}`

func testProfile() *profile.UserProfile {
	return &profile.UserProfile{
		UserID:         "usr_1",
		Level:          profile.LevelBeginner,
		Goals:          []string{"strength"},
		Equipment:      []string{"bodyweight"},
		SessionMinutes: 45,
		DaysPerWeek:    3,
	}
}

func TestDrafterDraft(t *testing.T) {
	llm := &fakeLLM{jsonResponse: validDraftJSON}
	drafter := NewDrafter(llm, zerolog.Nop())

	plan, deg := drafter.Draft(context.Background(), testProfile(), nil)

	require.Nil(t, deg)
	assert.Equal(t, "Strength Foundation", plan.Name)
	assert.NotEmpty(t, plan.ID)
	assert.False(t, plan.CreatedAt.IsZero())
	require.Len(t, plan.Weeks, 1)
	assert.Len(t, plan.Weeks[0].Days[0].Exercises, 2)
}

func TestDrafterPromptContents(t *testing.T) {
	llm := &fakeLLM{jsonResponse: validDraftJSON}
	drafter := NewDrafter(llm, zerolog.Nop())

	available := []catalog.Exercise{
		{Name: "Push-ups", Description: "A bodyweight pressing movement."},
		{Name: "Plank", MuscleGroups: []string{"core"}},
	}

	_, _ = drafter.Draft(context.Background(), testProfile(), available)

	assert.Contains(t, llm.lastUserJSON, "beginner")
	assert.Contains(t, llm.lastUserJSON, "strength")
	assert.Contains(t, llm.lastUserJSON, "3")
	assert.Contains(t, llm.lastUserJSON, "45 minutes")
	assert.Contains(t, llm.lastUserJSON, "Push-ups: A bodyweight pressing movement.")
	assert.Contains(t, llm.lastUserJSON, "Plank: core")
}

func TestDrafterFallbackOnRequestError(t *testing.T) {
	llm := &fakeLLM{jsonErr: errors.New("provider down")}
	drafter := NewDrafter(llm, zerolog.Nop())

	plan, deg := drafter.Draft(context.Background(), testProfile(), nil)

	require.NotNil(t, deg)
	assert.Equal(t, StageDrafting, deg.Stage)
	assertFallbackShape(t, plan)
}

func TestDrafterFallbackOnInvalidJSON(t *testing.T) {
	llm := &fakeLLM{jsonResponse: "this is not json"}
	drafter := NewDrafter(llm, zerolog.Nop())

	plan, deg := drafter.Draft(context.Background(), testProfile(), nil)

	require.NotNil(t, deg)
	assertFallbackShape(t, plan)
}

func TestDrafterFallbackOnSchemaViolation(t *testing.T) {
	cases := []struct {
		name string
		json string
	}{
		{"no weeks", `{"name": "Plan", "weeks": []}`},
		{"empty name", `{"name": "", "weeks": [{"week": 1, "days": [{"day": 1, "exercises": [{"name": "Squats", "sets": 3, "reps": 10}]}]}]}`},
		{"zero sets", `{"name": "Plan", "weeks": [{"week": 1, "days": [{"day": 1, "exercises": [{"name": "Squats", "sets": 0, "reps": 10}]}]}]}`},
		{"unnamed exercise", `{"name": "Plan", "weeks": [{"week": 1, "days": [{"day": 1, "exercises": [{"name": " ", "sets": 3, "reps": 10}]}]}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			llm := &fakeLLM{jsonResponse: tc.json}
			drafter := NewDrafter(llm, zerolog.Nop())

			plan, deg := drafter.Draft(context.Background(), testProfile(), nil)

			require.NotNil(t, deg)
			assertFallbackShape(t, plan)
		})
	}
}

func TestDrafterAcceptsCodeFencedJSON(t *testing.T) {
	llm := &fakeLLM{jsonResponse: "```json\n" + validDraftJSON + "\n```"}
	drafter := NewDrafter(llm, zerolog.Nop())

	plan, deg := drafter.Draft(context.Background(), testProfile(), nil)

	require.Nil(t, deg)
	assert.Equal(t, "Strength Foundation", plan.Name)
}

func TestDrafterEmptyGoalsGetDefault(t *testing.T) {
	llm := &fakeLLM{jsonResponse: validDraftJSON}
	drafter := NewDrafter(llm, zerolog.Nop())

	p := testProfile()
	p.Goals = nil
	_, _ = drafter.Draft(context.Background(), p, nil)

	assert.Contains(t, llm.lastUserJSON, "general fitness")
}

// assertFallbackShape checks the canonical fallback plan: one week, one
// day, four bodyweight exercises.
func assertFallbackShape(t *testing.T, plan *Plan) {
	t.Helper()
	require.NotNil(t, plan)
	require.Len(t, plan.Weeks, 1)
	require.Len(t, plan.Weeks[0].Days, 1)
	assert.Len(t, plan.Weeks[0].Days[0].Exercises, 4)
	for _, slot := range plan.Weeks[0].Days[0].Exercises {
		assert.NotEmpty(t, slot.Name)
		assert.Positive(t, slot.Sets)
		assert.Positive(t, slot.Reps)
	}
}
