// Package planner implements workout plan generation.
//
// Generation is a staged pipeline: an LLM drafts a plan skeleton, the draft
// is enriched against the exercise catalog, remaining description and image
// gaps are filled with short supplemental LLM text, and a deterministic
// normalizer forces the plan to exactly three progressive weeks. Every stage
// is independently fault tolerant: a failing stage degrades output quality
// but never aborts generation.
package planner

import (
	"time"
)

// Plan is a generated workout plan.
type Plan struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	DurationWeeks      int       `json:"duration"`
	Weeks              []Week    `json:"weeks"`
	TargetMuscleGroups []string  `json:"targetMuscleGroups"`
	Difficulty         string    `json:"difficulty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Week is one week of a plan.
type Week struct {
	Number int   `json:"week"`
	Days   []Day `json:"days"`
}

// Day is one training day within a week.
type Day struct {
	Number    int    `json:"day"`
	Exercises []Slot `json:"exercises"`
}

// Slot is a single exercise prescription within a day. Name, sets, reps and
// the optional rest/progression/notes fields come from the draft; the
// remaining fields are hydrated by enrichment and gap filling.
type Slot struct {
	Name        string `json:"name"`
	Sets        int    `json:"sets"`
	Reps        int    `json:"reps"`
	RestSeconds int    `json:"rest,omitempty"`
	Progression string `json:"progression,omitempty"`
	Notes       string `json:"notes,omitempty"`

	Description       string   `json:"description,omitempty"`
	DescriptionSource string   `json:"descriptionSource,omitempty"`
	MuscleGroups      []string `json:"muscleGroups,omitempty"`
	Equipment         []string `json:"equipment,omitempty"`
	Instructions      []string `json:"instructions,omitempty"`
	ImageURL          string   `json:"imageUrl,omitempty"`

	// FormVisualDescription is a textual stand-in for a missing exercise
	// image: a short description of what correct form looks like.
	FormVisualDescription string `json:"formVisualDescription,omitempty"`
}

// Description provenance values.
const (
	SourceCatalog   = "catalog"
	SourceGenerated = "generated"
)

// PlaceholderInfo is substituted for supplemental text when a gap-filling
// batch fails.
const PlaceholderInfo = "Information not available"

// Clone returns a deep copy of the plan.
func (p *Plan) Clone() *Plan {
	if p == nil {
		return nil
	}
	out := *p
	out.TargetMuscleGroups = append([]string(nil), p.TargetMuscleGroups...)
	out.Weeks = make([]Week, len(p.Weeks))
	for i := range p.Weeks {
		out.Weeks[i] = p.Weeks[i].clone()
	}
	return &out
}

func (w Week) clone() Week {
	out := w
	out.Days = make([]Day, len(w.Days))
	for i := range w.Days {
		out.Days[i] = w.Days[i].clone()
	}
	return out
}

func (d Day) clone() Day {
	out := d
	out.Exercises = make([]Slot, len(d.Exercises))
	for i := range d.Exercises {
		out.Exercises[i] = d.Exercises[i].clone()
	}
	return out
}

func (s Slot) clone() Slot {
	out := s
	out.MuscleGroups = append([]string(nil), s.MuscleGroups...)
	out.Equipment = append([]string(nil), s.Equipment...)
	out.Instructions = append([]string(nil), s.Instructions...)
	return out
}

// Outcome tags a generation result so callers can distinguish a clean run
// from one that succeeded via fallbacks.
type Outcome string

// Outcomes.
const (
	// OutcomeOK means every stage ran cleanly.
	OutcomeOK Outcome = "ok"

	// OutcomeDegraded means the plan was generated but one or more
	// best-effort stages fell back (catalog fallback list, gap-fill
	// placeholders).
	OutcomeDegraded Outcome = "degraded"

	// OutcomeFallback means drafting failed entirely and the canonical
	// fallback plan was substituted.
	OutcomeFallback Outcome = "fallback"
)

// Degradation records why a stage fell back.
type Degradation struct {
	Stage  string `json:"stage"`
	Reason string `json:"reason"`
}

// Pipeline stage names used in degradation records.
const (
	StageCatalog    = "catalog"
	StageDrafting   = "drafting"
	StageEnrichment = "enrichment"
	StageGapFilling = "gap_filling"
)

// GenerateResult is the tagged result of a generation run.
type GenerateResult struct {
	Plan         *Plan         `json:"plan"`
	Outcome      Outcome       `json:"outcome"`
	Degradations []Degradation `json:"degradations,omitempty"`
	CacheHit     bool          `json:"cacheHit"`
}

// FallbackPlan returns the canonical plan substituted when drafting fails
// entirely: a single week with a single day of four bodyweight exercises.
// The normalizer expands it to three weeks like any other draft.
func FallbackPlan() *Plan {
	now := time.Now()
	return &Plan{
		ID:            "plan_fallback",
		Name:          "Foundation Bodyweight Plan",
		Description:   "A simple full-body routine requiring no equipment, used when a personalized plan cannot be generated.",
		DurationWeeks: 1,
		Weeks: []Week{
			{
				Number: 1,
				Days: []Day{
					{
						Number: 1,
						Exercises: []Slot{
							{Name: "Push-ups", Sets: 3, Reps: 10, RestSeconds: 60},
							{Name: "Squats", Sets: 3, Reps: 12, RestSeconds: 60},
							{Name: "Lunges", Sets: 3, Reps: 10, RestSeconds: 60},
							{Name: "Plank", Sets: 3, Reps: 30, RestSeconds: 60, Notes: "Hold for the rep count in seconds."},
						},
					},
				},
			},
		},
		TargetMuscleGroups: []string{"full body"},
		Difficulty:         "beginner",
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}
