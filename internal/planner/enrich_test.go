package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/catalog"
)

// fakeFinder maps exercise names to catalog entries or errors.
type fakeFinder struct {
	exercises map[string]*catalog.Exercise
	errs      map[string]error
	calls     int
}

func (f *fakeFinder) FindByName(_ context.Context, name string, _ catalog.Filters) (*catalog.Exercise, error) {
	f.calls++
	if err, ok := f.errs[name]; ok {
		return nil, err
	}
	if ex, ok := f.exercises[name]; ok {
		return ex, nil
	}
	return nil, catalog.ErrExerciseNotFound
}

func draftedPlan(names ...string) *Plan {
	day := Day{Number: 1}
	for _, name := range names {
		day.Exercises = append(day.Exercises, Slot{Name: name, Sets: 3, Reps: 10, RestSeconds: 60})
	}
	return &Plan{
		Name:  "Drafted",
		Weeks: []Week{{Number: 1, Days: []Day{day}}},
	}
}

func TestEnricherMergesCatalogAttributes(t *testing.T) {
	finder := &fakeFinder{
		exercises: map[string]*catalog.Exercise{
			"Squats": {
				ID:           "1",
				Name:         "Squats",
				Description:  "A lower-body compound movement.",
				MuscleGroups: []string{"quadriceps", "glutes"},
				Equipment:    []string{"bodyweight"},
				Instructions: []string{"Stand with feet shoulder-width apart.", "Lower until thighs are parallel."},
				ImageURL:     "https://example.com/squats.png",
			},
		},
	}
	enricher := NewEnricher(finder, zerolog.Nop())

	plan := draftedPlan("Squats")
	deg := enricher.Enrich(context.Background(), plan, []string{"bodyweight"})

	require.Nil(t, deg)
	slot := plan.Weeks[0].Days[0].Exercises[0]
	assert.Equal(t, []string{"quadriceps", "glutes"}, slot.MuscleGroups)
	assert.Equal(t, []string{"bodyweight"}, slot.Equipment)
	assert.Len(t, slot.Instructions, 2)
	assert.Equal(t, "https://example.com/squats.png", slot.ImageURL)
	assert.Equal(t, "A lower-body compound movement.", slot.Description)
	assert.Equal(t, SourceCatalog, slot.DescriptionSource)

	// Drafted prescription is preserved.
	assert.Equal(t, 3, slot.Sets)
	assert.Equal(t, 10, slot.Reps)
	assert.Equal(t, 60, slot.RestSeconds)
}

func TestEnricherMissLeavesSlotAsDrafted(t *testing.T) {
	finder := &fakeFinder{}
	enricher := NewEnricher(finder, zerolog.Nop())

	plan := draftedPlan("Imaginary Exercise")
	deg := enricher.Enrich(context.Background(), plan, nil)

	assert.Nil(t, deg, "a plain catalog miss is not a degradation")
	slot := plan.Weeks[0].Days[0].Exercises[0]
	assert.Empty(t, slot.MuscleGroups)
	assert.Empty(t, slot.Description)
	assert.Equal(t, 3, slot.Sets)
}

func TestEnricherPerSlotFailureIndependence(t *testing.T) {
	finder := &fakeFinder{
		exercises: map[string]*catalog.Exercise{
			"Squats": {Name: "Squats", MuscleGroups: []string{"quadriceps"}},
		},
		errs: map[string]error{
			"Burpees": errors.New("catalog timeout"),
		},
	}
	enricher := NewEnricher(finder, zerolog.Nop())

	plan := draftedPlan("Squats", "Burpees")
	deg := enricher.Enrich(context.Background(), plan, nil)

	require.NotNil(t, deg)
	assert.Equal(t, StageEnrichment, deg.Stage)

	squats := plan.Weeks[0].Days[0].Exercises[0]
	burpees := plan.Weeks[0].Days[0].Exercises[1]

	assert.Equal(t, []string{"quadriceps"}, squats.MuscleGroups, "sibling slot should still be enriched")
	assert.Empty(t, burpees.MuscleGroups, "failing slot is kept as drafted")
	assert.Equal(t, "Burpees", burpees.Name, "failing slot is not dropped")
}

func TestEnricherDoesNotOverwriteExistingDescription(t *testing.T) {
	finder := &fakeFinder{
		exercises: map[string]*catalog.Exercise{
			"Squats": {Name: "Squats", Description: "Catalog description."},
		},
	}
	enricher := NewEnricher(finder, zerolog.Nop())

	plan := draftedPlan("Squats")
	plan.Weeks[0].Days[0].Exercises[0].Description = "Drafted description."

	_ = enricher.Enrich(context.Background(), plan, nil)

	slot := plan.Weeks[0].Days[0].Exercises[0]
	assert.Equal(t, "Drafted description.", slot.Description)
	assert.Empty(t, slot.DescriptionSource)
}
