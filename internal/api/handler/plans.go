package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/api/response"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/planner"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/profile"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/workout"
)

// PlansHandler handles workout plan generation and retrieval.
type PlansHandler struct {
	plannerService *planner.Service
	profileService *profile.Service
	workoutService *workout.Service
}

// NewPlansHandler creates a new PlansHandler.
func NewPlansHandler(plannerService *planner.Service, profileService *profile.Service, workoutService *workout.Service) *PlansHandler {
	return &PlansHandler{
		plannerService: plannerService,
		profileService: profileService,
		workoutService: workoutService,
	}
}

// PlanResponse is the JSON shape of a saved plan.
type PlanResponse struct {
	ID           string                `json:"planId"`
	Plan         *planner.Plan         `json:"plan"`
	Outcome      planner.Outcome       `json:"outcome"`
	Degradations []planner.Degradation `json:"degradations,omitempty"`
	CacheHit     bool                  `json:"cacheHit,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
}

// GeneratePlan handles POST /v1/plans:generate - run the generation
// pipeline against the user's profile and persist the result.
func (h *PlansHandler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	p, err := h.profileService.Get(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "failed to load profile")
		return
	}

	result, err := h.plannerService.Generate(r.Context(), p)
	if err != nil {
		// Exhausting every attempt is the pipeline's only failure mode.
		response.ServiceUnavailable(w, r, "could not generate workout plan after several attempts")
		return
	}

	saved, err := h.workoutService.SavePlan(r.Context(), userID, result)
	if err != nil {
		response.InternalError(w, r, "failed to save plan")
		return
	}

	response.Created(w, r, "/v1/plans/"+saved.ID, &PlanResponse{
		ID:           saved.ID,
		Plan:         saved.Plan,
		Outcome:      result.Outcome,
		Degradations: result.Degradations,
		CacheHit:     result.CacheHit,
		CreatedAt:    saved.CreatedAt,
	})
}

// ListPlans handles GET /v1/plans - the user's saved plans, newest first.
func (h *PlansHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	plans, err := h.workoutService.ListPlans(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "failed to list plans")
		return
	}

	items := make([]*PlanResponse, len(plans))
	for i, saved := range plans {
		items[i] = &PlanResponse{
			ID:        saved.ID,
			Plan:      saved.Plan,
			Outcome:   saved.Outcome,
			CreatedAt: saved.CreatedAt,
		}
	}

	response.JSON(w, r, http.StatusOK, map[string]interface{}{"items": items})
}

// GetPlan handles GET /v1/plans/{planId}.
func (h *PlansHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	planID := chi.URLParam(r, "planId")

	saved, err := h.workoutService.GetPlan(r.Context(), userID, planID)
	if err != nil {
		if errors.Is(err, workout.ErrPlanNotFound) {
			response.NotFound(w, r, "plan not found")
			return
		}
		response.InternalError(w, r, "failed to load plan")
		return
	}

	response.JSON(w, r, http.StatusOK, &PlanResponse{
		ID:        saved.ID,
		Plan:      saved.Plan,
		Outcome:   saved.Outcome,
		CreatedAt: saved.CreatedAt,
	})
}

// DeletePlan handles DELETE /v1/plans/{planId}.
func (h *PlansHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	planID := chi.URLParam(r, "planId")

	if err := h.workoutService.DeletePlan(r.Context(), userID, planID); err != nil {
		if errors.Is(err, workout.ErrPlanNotFound) {
			response.NotFound(w, r, "plan not found")
			return
		}
		response.InternalError(w, r, "failed to delete plan")
		return
	}

	response.NoContent(w, r)
}
