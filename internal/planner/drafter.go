package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/catalog"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/profile"
)

// LLMClient is the drafting provider surface the pipeline depends on.
type LLMClient interface {
	// CompleteJSON returns a completion constrained to a JSON object.
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// CompleteText returns a short free-form completion.
	CompleteText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

const draftSystemPrompt = `You are an expert strength and conditioning coach. ` +
	`You design structured workout plans. Respond with a single JSON object and nothing else, ` +
	`using exactly this shape: {"id": string, "name": string, "description": string, ` +
	`"duration": number, "weeks": [{"week": number, "days": [{"day": number, ` +
	`"exercises": [{"name": string, "sets": number, "reps": number, "rest": number, ` +
	`"progression": string, "notes": string}]}]}], "targetMuscleGroups": [string], ` +
	`"difficulty": string, "createdAt": string, "updatedAt": string}. ` +
	`Prefer exercises from the provided list when they fit the plan.`

// Drafter requests a full plan skeleton from the drafting provider and
// validates the response. Drafting never fails hard: any transport, parse
// or validation error substitutes the canonical fallback plan.
type Drafter struct {
	llm    LLMClient
	logger zerolog.Logger
}

// NewDrafter creates a new drafter.
func NewDrafter(llm LLMClient, logger zerolog.Logger) *Drafter {
	return &Drafter{llm: llm, logger: logger}
}

// Draft generates a plan for the profile using the available exercises.
// The returned degradation is nil on a clean draft and describes the
// fallback substitution otherwise.
func (d *Drafter) Draft(ctx context.Context, p *profile.UserProfile, available []catalog.Exercise) (*Plan, *Degradation) {
	userPrompt := buildDraftPrompt(p, available)

	raw, err := d.llm.CompleteJSON(ctx, draftSystemPrompt, userPrompt)
	if err != nil {
		d.logger.Warn().Err(err).Msg("plan drafting request failed, substituting fallback plan")
		return FallbackPlan(), &Degradation{Stage: StageDrafting, Reason: fmt.Sprintf("drafting request failed: %v", err)}
	}

	plan, err := parseDraft(raw)
	if err != nil {
		d.logger.Warn().Err(err).Msg("drafted plan failed validation, substituting fallback plan")
		return FallbackPlan(), &Degradation{Stage: StageDrafting, Reason: fmt.Sprintf("invalid draft: %v", err)}
	}

	now := time.Now()
	plan.ID = "plan_" + uuid.NewString()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	if plan.Difficulty == "" {
		plan.Difficulty = string(p.Level)
	}

	d.logger.Debug().
		Str("plan_id", plan.ID).
		Int("weeks", len(plan.Weeks)).
		Msg("plan drafted")

	return plan, nil
}

// buildDraftPrompt embeds the profile fields and the available exercise
// list into a natural-language prompt.
func buildDraftPrompt(p *profile.UserProfile, available []catalog.Exercise) string {
	goals := p.Goals
	if len(goals) == 0 {
		goals = []string{"general fitness"}
	}
	equipment := p.Equipment
	if len(equipment) == 0 {
		equipment = []string{"bodyweight"}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a workout plan for the following user:\n")
	fmt.Fprintf(&b, "- Fitness level: %s\n", p.Level)
	fmt.Fprintf(&b, "- Goals: %s\n", strings.Join(goals, ", "))
	fmt.Fprintf(&b, "- Available equipment: %s\n", strings.Join(equipment, ", "))
	fmt.Fprintf(&b, "- Training days per week: %d\n", p.DaysPerWeek)
	fmt.Fprintf(&b, "- Session duration: %d minutes\n", p.SessionMinutes)

	if len(available) > 0 {
		b.WriteString("\nAvailable exercises:\n")
		for _, ex := range available {
			desc := ex.Description
			if desc == "" {
				desc = strings.Join(ex.MuscleGroups, ", ")
			}
			fmt.Fprintf(&b, "%s: %s\n", ex.Name, desc)
		}
	}

	return b.String()
}

// parseDraft parses and validates a drafted plan.
func parseDraft(raw string) (*Plan, error) {
	cleaned := stripCodeFence(raw)

	var plan Plan
	if err := json.Unmarshal([]byte(cleaned), &plan); err != nil {
		return nil, fmt.Errorf("parsing draft JSON: %w", err)
	}

	if err := validateDraft(&plan); err != nil {
		return nil, err
	}

	return &plan, nil
}

// validateDraft checks the drafted plan against the expected schema.
func validateDraft(plan *Plan) error {
	if strings.TrimSpace(plan.Name) == "" {
		return fmt.Errorf("plan name is empty")
	}
	if len(plan.Weeks) == 0 {
		return fmt.Errorf("plan has no weeks")
	}
	for wi, week := range plan.Weeks {
		if len(week.Days) == 0 {
			return fmt.Errorf("week %d has no days", wi+1)
		}
		for di, day := range week.Days {
			if len(day.Exercises) == 0 {
				return fmt.Errorf("week %d day %d has no exercises", wi+1, di+1)
			}
			for si, slot := range day.Exercises {
				if strings.TrimSpace(slot.Name) == "" {
					return fmt.Errorf("week %d day %d exercise %d has no name", wi+1, di+1, si+1)
				}
				if slot.Sets <= 0 || slot.Reps <= 0 {
					return fmt.Errorf("exercise %q has non-positive sets or reps", slot.Name)
				}
			}
		}
	}
	return nil
}

// stripCodeFence removes a surrounding markdown code fence if the model
// wrapped its JSON in one despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
