package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultGapBatchSize bounds how many supplemental requests are issued per
// batch.
const DefaultGapBatchSize = 10

const supplementalSystemPrompt = `You are a fitness coach. Answer in plain prose, at most 100 words, no markdown.`

// Ordered keyword list for muscle-group inference from an exercise name.
var muscleKeywords = []string{"chest", "shoulder", "back", "leg", "bicep", "tricep", "core"}

type gapKind int

const (
	gapDescription gapKind = iota
	gapFormVisual
)

// gapRequest records one missing piece of information and where to write
// the result back.
type gapRequest struct {
	kind        gapKind
	week        int
	day         int
	slot        int
	exercise    string
	muscleGroup string
}

// GapFiller hydrates slots still missing a description or image after
// enrichment with short supplemental text. A failed batch degrades its
// items to a placeholder string; other batches are unaffected.
type GapFiller struct {
	llm       LLMClient
	logger    zerolog.Logger
	batchSize int
}

// NewGapFiller creates a new gap filler.
func NewGapFiller(llm LLMClient, logger zerolog.Logger) *GapFiller {
	return &GapFiller{llm: llm, logger: logger, batchSize: DefaultGapBatchSize}
}

// Fill scans the plan and fills description and image gaps in place.
// Returns a degradation when one or more batches failed, nil otherwise.
func (g *GapFiller) Fill(ctx context.Context, plan *Plan) *Degradation {
	requests := collectGaps(plan)
	if len(requests) == 0 {
		return nil
	}

	g.logger.Debug().
		Int("gap_count", len(requests)).
		Msg("filling plan information gaps")

	failedBatches := 0
	for start := 0; start < len(requests); start += g.batchSize {
		end := start + g.batchSize
		if end > len(requests) {
			end = len(requests)
		}
		batch := requests[start:end]

		results, err := g.fillBatch(ctx, batch)
		if err != nil {
			failedBatches++
			g.logger.Warn().Err(err).
				Int("batch_start", start).
				Int("batch_size", len(batch)).
				Msg("gap-fill batch failed, substituting placeholder text")
			for _, req := range batch {
				writeBack(plan, req, PlaceholderInfo)
			}
			continue
		}

		for i, req := range batch {
			writeBack(plan, req, results[i])
		}
	}

	if failedBatches > 0 {
		return &Degradation{
			Stage:  StageGapFilling,
			Reason: fmt.Sprintf("%d supplemental batches failed", failedBatches),
		}
	}
	return nil
}

// fillBatch issues one supplemental request per item. Requests within a
// batch run sequentially to bound outbound call volume; the first error
// fails the whole batch.
func (g *GapFiller) fillBatch(ctx context.Context, batch []gapRequest) ([]string, error) {
	results := make([]string, len(batch))
	for i, req := range batch {
		var prompt string
		switch req.kind {
		case gapDescription:
			prompt = fmt.Sprintf("Briefly describe the exercise %q, which targets the %s. Cover what it trains and how to perform it.",
				req.exercise, req.muscleGroup)
		case gapFormVisual:
			prompt = fmt.Sprintf("Describe what correct form looks like for the exercise %q (targeting the %s), as if describing a photo of it.",
				req.exercise, req.muscleGroup)
		}

		text, err := g.llm.CompleteText(ctx, supplementalSystemPrompt, prompt)
		if err != nil {
			return nil, err
		}
		results[i] = strings.TrimSpace(text)
	}
	return results, nil
}

// collectGaps returns the unified request list: first every slot missing a
// description, then every slot missing an image, each ordered by
// (week, day, slot) position.
func collectGaps(plan *Plan) []gapRequest {
	var requests []gapRequest

	for wi := range plan.Weeks {
		for di := range plan.Weeks[wi].Days {
			for si := range plan.Weeks[wi].Days[di].Exercises {
				slot := &plan.Weeks[wi].Days[di].Exercises[si]
				if strings.TrimSpace(slot.Description) == "" {
					requests = append(requests, gapRequest{
						kind: gapDescription, week: wi, day: di, slot: si,
						exercise: slot.Name, muscleGroup: inferMuscleGroup(slot),
					})
				}
			}
		}
	}

	for wi := range plan.Weeks {
		for di := range plan.Weeks[wi].Days {
			for si := range plan.Weeks[wi].Days[di].Exercises {
				slot := &plan.Weeks[wi].Days[di].Exercises[si]
				if slot.ImageURL == "" && slot.FormVisualDescription == "" {
					requests = append(requests, gapRequest{
						kind: gapFormVisual, week: wi, day: di, slot: si,
						exercise: slot.Name, muscleGroup: inferMuscleGroup(slot),
					})
				}
			}
		}
	}

	return requests
}

// writeBack hydrates the slot at the request's stored position.
func writeBack(plan *Plan, req gapRequest, text string) {
	slot := &plan.Weeks[req.week].Days[req.day].Exercises[req.slot]
	switch req.kind {
	case gapDescription:
		slot.Description = text
		slot.DescriptionSource = SourceGenerated
	case gapFormVisual:
		slot.FormVisualDescription = text
	}
}

// inferMuscleGroup returns the slot's first catalog muscle tag when
// present, otherwise matches the exercise name against the ordered keyword
// list, defaulting to "full body".
func inferMuscleGroup(slot *Slot) string {
	if len(slot.MuscleGroups) > 0 {
		return slot.MuscleGroups[0]
	}

	name := strings.ToLower(slot.Name)
	for _, keyword := range muscleKeywords {
		if strings.Contains(name, keyword) {
			return keyword
		}
	}
	return "full body"
}
