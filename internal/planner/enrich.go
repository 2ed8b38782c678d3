package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/catalog"
)

// ExerciseFinder looks up a single catalog exercise by name.
type ExerciseFinder interface {
	FindByName(ctx context.Context, name string, filters catalog.Filters) (*catalog.Exercise, error)
}

// Enricher merges catalog metadata into drafted exercise slots. A slot with
// no catalog match is left exactly as drafted; failures are per slot and
// never affect sibling slots.
type Enricher struct {
	finder ExerciseFinder
	logger zerolog.Logger
}

// NewEnricher creates a new enricher.
func NewEnricher(finder ExerciseFinder, logger zerolog.Logger) *Enricher {
	return &Enricher{finder: finder, logger: logger}
}

// Enrich augments the plan's slots in place. The profile's equipment is
// used as the catalog filter; the muscle filter is left broad. Returns a
// degradation when one or more lookups failed with a provider error, nil
// otherwise (a plain miss is not a degradation).
func (e *Enricher) Enrich(ctx context.Context, plan *Plan, equipment []string) *Degradation {
	filters := catalog.Filters{Equipment: equipment}
	failures := 0

	for wi := range plan.Weeks {
		for di := range plan.Weeks[wi].Days {
			for si := range plan.Weeks[wi].Days[di].Exercises {
				slot := &plan.Weeks[wi].Days[di].Exercises[si]

				match, err := e.finder.FindByName(ctx, slot.Name, filters)
				if err != nil {
					if !errors.Is(err, catalog.ErrExerciseNotFound) {
						failures++
						e.logger.Debug().Err(err).
							Str("exercise", slot.Name).
							Msg("catalog lookup failed, keeping slot as drafted")
					}
					continue
				}

				mergeCatalogAttributes(slot, match)
			}
		}
	}

	if failures > 0 {
		return &Degradation{
			Stage:  StageEnrichment,
			Reason: fmt.Sprintf("%d exercise lookups failed", failures),
		}
	}
	return nil
}

// mergeCatalogAttributes copies catalog metadata into the slot, preserving
// the drafted sets, reps and rest.
func mergeCatalogAttributes(slot *Slot, match *catalog.Exercise) {
	if len(match.MuscleGroups) > 0 {
		slot.MuscleGroups = append([]string(nil), match.MuscleGroups...)
	}
	if len(match.Equipment) > 0 {
		slot.Equipment = append([]string(nil), match.Equipment...)
	}
	if len(match.Instructions) > 0 {
		slot.Instructions = append([]string(nil), match.Instructions...)
	}
	if match.ImageURL != "" {
		slot.ImageURL = match.ImageURL
	}
	if slot.Description == "" && match.Description != "" {
		slot.Description = match.Description
		slot.DescriptionSource = SourceCatalog
	}
}
