package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/catalog"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/profile"
)

// fakeCatalog is a scripted CatalogSearcher.
type fakeCatalog struct {
	exercises   []catalog.Exercise
	source      catalog.Source
	searchCalls int
	findCalls   int
}

func (f *fakeCatalog) Search(_ context.Context, _ catalog.Filters) *catalog.SearchResult {
	f.searchCalls++
	source := f.source
	if source == "" {
		source = catalog.SourceProvider
	}
	return &catalog.SearchResult{Exercises: f.exercises, Source: source}
}

func (f *fakeCatalog) FindByName(_ context.Context, name string, _ catalog.Filters) (*catalog.Exercise, error) {
	f.findCalls++
	for i := range f.exercises {
		if f.exercises[i].Name == name {
			return &f.exercises[i], nil
		}
	}
	return nil, catalog.ErrExerciseNotFound
}

func newTestPlannerService(cat *fakeCatalog, llm *fakeLLM) *Service {
	return NewService(ServiceConfig{
		Catalog:        cat,
		LLM:            llm,
		Cache:          NewCache(16),
		Logger:         zerolog.Nop(),
		MaxAttempts:    3,
		RetryBaseDelay: time.Millisecond,
	})
}

func TestGenerateCleanRun(t *testing.T) {
	cat := &fakeCatalog{exercises: []catalog.Exercise{
		{Name: "Push-ups", Description: "Press.", MuscleGroups: []string{"chest"}, ImageURL: "img"},
		{Name: "Squats", Description: "Squat.", MuscleGroups: []string{"quadriceps"}, ImageURL: "img"},
	}}
	llm := &fakeLLM{jsonResponse: validDraftJSON, textResponse: "Filled."}

	result, err := newTestPlannerService(cat, llm).Generate(context.Background(), testProfile())
	require.NoError(t, err)

	assert.Equal(t, OutcomeOK, result.Outcome)
	assert.False(t, result.CacheHit)
	assert.Empty(t, result.Degradations)
	assert.Len(t, result.Plan.Weeks, 3)
}

func TestGenerateCacheIdempotence(t *testing.T) {
	cat := &fakeCatalog{exercises: []catalog.Exercise{
		{Name: "Squats", Description: "Squat.", ImageURL: "img"},
	}}
	llm := &fakeLLM{jsonResponse: validDraftJSON, textResponse: "Filled."}
	svc := newTestPlannerService(cat, llm)

	p1 := testProfile()
	p1.Goals = []string{"strength", "endurance"}
	p1.Equipment = []string{"dumbbell", "bodyweight"}

	first, err := svc.Generate(context.Background(), p1)
	require.NoError(t, err)
	require.False(t, first.CacheHit)

	searchCalls := cat.searchCalls
	findCalls := cat.findCalls
	jsonCalls := llm.jsonCalls
	textCalls := llm.textCalls

	// Same profile fields with goal/equipment order shuffled.
	p2 := testProfile()
	p2.Goals = []string{"endurance", "strength"}
	p2.Equipment = []string{"bodyweight", "dumbbell"}

	second, err := svc.Generate(context.Background(), p2)
	require.NoError(t, err)

	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Plan.ID, second.Plan.ID)
	assert.Equal(t, searchCalls, cat.searchCalls, "cache hit must not call the catalog")
	assert.Equal(t, findCalls, cat.findCalls)
	assert.Equal(t, jsonCalls, llm.jsonCalls, "cache hit must not call the drafting provider")
	assert.Equal(t, textCalls, llm.textCalls)
}

func TestGenerateFallbackOnTotalDraftingFailure(t *testing.T) {
	cat := &fakeCatalog{}
	llm := &fakeLLM{jsonErr: errors.New("provider down"), textResponse: "Filled."}

	result, err := newTestPlannerService(cat, llm).Generate(context.Background(), testProfile())
	require.NoError(t, err, "drafting failure must not surface as an error")

	assert.Equal(t, OutcomeFallback, result.Outcome)
	require.Len(t, result.Plan.Weeks, 3)
	// Week 1 keeps the canonical fallback shape.
	require.Len(t, result.Plan.Weeks[0].Days, 1)
	assert.Len(t, result.Plan.Weeks[0].Days[0].Exercises, 4)
}

func TestGenerateDegradedOnCatalogFallback(t *testing.T) {
	cat := &fakeCatalog{exercises: catalog.FallbackExercises(), source: catalog.SourceFallback}
	llm := &fakeLLM{jsonResponse: validDraftJSON, textResponse: "Filled."}

	result, err := newTestPlannerService(cat, llm).Generate(context.Background(), testProfile())
	require.NoError(t, err)

	assert.Equal(t, OutcomeDegraded, result.Outcome)
	require.NotEmpty(t, result.Degradations)
	assert.Equal(t, StageCatalog, result.Degradations[0].Stage)
}

func TestGenerateContextCancelled(t *testing.T) {
	cat := &fakeCatalog{}
	llm := &fakeLLM{jsonResponse: validDraftJSON}
	svc := newTestPlannerService(cat, llm)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Generate(ctx, testProfile())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestGenerateEndToEndScenario(t *testing.T) {
	// Beginner strength profile, bodyweight only, catalog of three
	// exercises, draft referencing all three across a 3-week 3-day split.
	draft := `{
		"name": "Beginner Strength",
		"description": "Bodyweight strength basics.",
		"duration": 3,
		"weeks": [
			{"week": 1, "days": [
				{"day": 1, "exercises": [{"name": "Push-ups", "sets": 3, "reps": 10, "rest": 60}]},
				{"day": 2, "exercises": [{"name": "Squats", "sets": 3, "reps": 12, "rest": 60}]},
				{"day": 3, "exercises": [{"name": "Plank", "sets": 3, "reps": 30, "rest": 60}]}
			]},
			{"week": 2, "days": [
				{"day": 1, "exercises": [{"name": "Push-ups", "sets": 3, "reps": 10, "rest": 60}]},
				{"day": 2, "exercises": [{"name": "Squats", "sets": 3, "reps": 12, "rest": 60}]},
				{"day": 3, "exercises": [{"name": "Plank", "sets": 3, "reps": 30, "rest": 60}]}
			]},
			{"week": 3, "days": [
				{"day": 1, "exercises": [{"name": "Push-ups", "sets": 3, "reps": 10, "rest": 60}]},
				{"day": 2, "exercises": [{"name": "Squats", "sets": 3, "reps": 12, "rest": 60}]},
				{"day": 3, "exercises": [{"name": "Plank", "sets": 3, "reps": 30, "rest": 60}]}
			]}
		],
		"targetMuscleGroups": ["full body"],
		"difficulty": "beginner"
	}`

	cat := &fakeCatalog{exercises: []catalog.Exercise{
		{Name: "Push-ups", Description: "Press.", MuscleGroups: []string{"chest"}, ImageURL: "img"},
		{Name: "Squats", Description: "Squat.", MuscleGroups: []string{"quadriceps"}, ImageURL: "img"},
		{Name: "Plank", Description: "Hold.", MuscleGroups: []string{"core"}, ImageURL: "img"},
	}}
	llm := &fakeLLM{jsonResponse: draft, textResponse: "Filled."}
	svc := newTestPlannerService(cat, llm)

	p := &profile.UserProfile{
		UserID:         "usr_e2e",
		Level:          profile.LevelBeginner,
		Goals:          []string{"strength"},
		Equipment:      []string{"bodyweight"},
		DaysPerWeek:    3,
		SessionMinutes: 45,
	}

	result, err := svc.Generate(context.Background(), p)
	require.NoError(t, err)

	plan := result.Plan
	require.Len(t, plan.Weeks, 3)

	// Week 1 enriched with catalog muscle tags.
	assert.Equal(t, []string{"chest"}, plan.Weeks[0].Days[0].Exercises[0].MuscleGroups)
	assert.Equal(t, []string{"quadriceps"}, plan.Weeks[0].Days[1].Exercises[0].MuscleGroups)
	assert.Equal(t, []string{"core"}, plan.Weeks[0].Days[2].Exercises[0].MuscleGroups)

	// Weeks 2 and 3 progress per the +i/+2i rule.
	pushW1 := plan.Weeks[0].Days[0].Exercises[0]
	pushW2 := plan.Weeks[1].Days[0].Exercises[0]
	pushW3 := plan.Weeks[2].Days[0].Exercises[0]
	assert.Equal(t, pushW1.Sets+1, pushW2.Sets)
	assert.Equal(t, pushW1.Reps+2, pushW2.Reps)
	assert.Equal(t, pushW1.Sets+2, pushW3.Sets)
	assert.Equal(t, pushW1.Reps+4, pushW3.Reps)

	// Cache is populated under the sorted-field profile hash.
	cached, ok := svc.cache.Get(p.Hash())
	require.True(t, ok)
	assert.Equal(t, plan.ID, cached.ID)
}

type stubFlags struct {
	aiDisabled     bool
	enrichDisabled bool
	gapsDisabled   bool
}

func (s stubFlags) IsAIGenerationDisabled(context.Context) bool      { return s.aiDisabled }
func (s stubFlags) IsCatalogEnrichmentDisabled(context.Context) bool { return s.enrichDisabled }
func (s stubFlags) IsGapFillingDisabled(context.Context) bool        { return s.gapsDisabled }

func TestGenerateFeatureFlagGating(t *testing.T) {
	cat := &fakeCatalog{exercises: []catalog.Exercise{{Name: "Squats", Description: "Squat.", ImageURL: "img"}}}
	llm := &fakeLLM{jsonResponse: validDraftJSON, textResponse: "Filled."}

	svc := NewService(ServiceConfig{
		Catalog:        cat,
		LLM:            llm,
		Cache:          NewCache(16),
		Flags:          stubFlags{aiDisabled: true, enrichDisabled: true, gapsDisabled: true},
		Logger:         zerolog.Nop(),
		RetryBaseDelay: time.Millisecond,
	})

	result, err := svc.Generate(context.Background(), testProfile())
	require.NoError(t, err)

	assert.Equal(t, OutcomeFallback, result.Outcome)
	assert.Zero(t, llm.jsonCalls, "drafting disabled")
	assert.Zero(t, llm.textCalls, "gap filling disabled")
	assert.Zero(t, cat.findCalls, "enrichment disabled")
}
