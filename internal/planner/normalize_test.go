package planner

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planWithWeeks(weekCount int) *Plan {
	plan := &Plan{Name: "Test Plan", DurationWeeks: weekCount}
	for w := 1; w <= weekCount; w++ {
		plan.Weeks = append(plan.Weeks, Week{
			Number: w,
			Days: []Day{
				{
					Number: 1,
					Exercises: []Slot{
						{Name: "Squats", Sets: 3, Reps: 10, RestSeconds: 60},
						{Name: "Push-ups", Sets: 3, Reps: 12, RestSeconds: 45},
					},
				},
			},
		})
	}
	return plan
}

func TestNormalizeTotality(t *testing.T) {
	for weekCount := 0; weekCount <= 10; weekCount++ {
		t.Run(fmt.Sprintf("%d_weeks", weekCount), func(t *testing.T) {
			out := Normalize(planWithWeeks(weekCount))

			require.Len(t, out.Weeks, 3)
			assert.Equal(t, 3, out.DurationWeeks)
			for i, week := range out.Weeks {
				assert.Equal(t, i+1, week.Number)
			}
		})
	}
}

func TestNormalizeProgressionOnThreeWeekInput(t *testing.T) {
	// Three weeks in: only the unconditional +i sets / +2i reps pass runs.
	out := Normalize(planWithWeeks(3))

	for si := 0; si < 2; si++ {
		w1 := out.Weeks[0].Days[0].Exercises[si]
		w2 := out.Weeks[1].Days[0].Exercises[si]
		w3 := out.Weeks[2].Days[0].Exercises[si]

		assert.Equal(t, w1.Sets+1, w2.Sets)
		assert.Equal(t, w1.Reps+2, w2.Reps)
		assert.Equal(t, w1.Sets+2, w3.Sets)
		assert.Equal(t, w1.Reps+4, w3.Reps)
	}
}

func TestNormalizeMonotonicProgression(t *testing.T) {
	out := Normalize(planWithWeeks(3))

	for si := 0; si < 2; si++ {
		w1 := out.Weeks[0].Days[0].Exercises[si]
		w2 := out.Weeks[1].Days[0].Exercises[si]
		w3 := out.Weeks[2].Days[0].Exercises[si]

		assert.GreaterOrEqual(t, w2.Sets, w1.Sets)
		assert.GreaterOrEqual(t, w3.Sets, w2.Sets)
		assert.GreaterOrEqual(t, w2.Reps, w1.Reps)
		assert.GreaterOrEqual(t, w3.Reps, w2.Reps)
	}
}

func TestNormalizeCloneCompounding(t *testing.T) {
	// A single-week input is expanded by cloning; cloned weeks receive both
	// the clone-time +1/+2 and the unconditional pass's +i/+2i.
	out := Normalize(planWithWeeks(1))

	w1 := out.Weeks[0].Days[0].Exercises[0]
	w2 := out.Weeks[1].Days[0].Exercises[0]
	w3 := out.Weeks[2].Days[0].Exercises[0]

	assert.Equal(t, 3, w1.Sets)
	assert.Equal(t, 10, w1.Reps)

	assert.Equal(t, 5, w2.Sets)
	assert.Equal(t, 14, w2.Reps)

	assert.Equal(t, 7, w3.Sets)
	assert.Equal(t, 18, w3.Reps)
}

func TestNormalizeTruncatesExtraWeeks(t *testing.T) {
	plan := planWithWeeks(5)
	plan.Weeks[0].Days[0].Exercises[0].Notes = "first week marker"
	plan.Weeks[4].Days[0].Exercises[0].Notes = "fifth week marker"

	out := Normalize(plan)

	require.Len(t, out.Weeks, 3)
	assert.Equal(t, "first week marker", out.Weeks[0].Days[0].Exercises[0].Notes)
	for _, week := range out.Weeks {
		for _, day := range week.Days {
			for _, slot := range day.Exercises {
				assert.NotEqual(t, "fifth week marker", slot.Notes)
			}
		}
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	in := planWithWeeks(1)
	_ = Normalize(in)

	require.Len(t, in.Weeks, 1)
	assert.Equal(t, 3, in.Weeks[0].Days[0].Exercises[0].Sets)
	assert.Equal(t, 10, in.Weeks[0].Days[0].Exercises[0].Reps)
}

func TestNormalizeEmptyPlan(t *testing.T) {
	out := Normalize(&Plan{Name: "Empty"})

	require.Len(t, out.Weeks, 3)
	for _, week := range out.Weeks {
		assert.Empty(t, week.Days)
	}
}

func TestNormalizePreservesRestAndMetadata(t *testing.T) {
	plan := planWithWeeks(1)
	plan.Weeks[0].Days[0].Exercises[0].MuscleGroups = []string{"legs"}

	out := Normalize(plan)

	for _, week := range out.Weeks {
		assert.Equal(t, 60, week.Days[0].Exercises[0].RestSeconds)
		assert.Equal(t, []string{"legs"}, week.Days[0].Exercises[0].MuscleGroups)
	}
}
