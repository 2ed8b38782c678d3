package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/api/models"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/api/response"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/workout"
)

// WorkoutsHandler handles workout log endpoints.
type WorkoutsHandler struct {
	workoutService *workout.Service
}

// NewWorkoutsHandler creates a new WorkoutsHandler.
func NewWorkoutsHandler(workoutService *workout.Service) *WorkoutsHandler {
	return &WorkoutsHandler{workoutService: workoutService}
}

// WorkoutLogRequest is the payload for recording a completed workout.
type WorkoutLogRequest struct {
	PlanID  string             `json:"planId,omitempty"`
	Date    *time.Time         `json:"date,omitempty"`
	Entries []workout.LogEntry `json:"entries"`
	Rating  *int               `json:"rating,omitempty"`
	Notes   string             `json:"notes,omitempty"`
}

// WorkoutLogResponse is the JSON shape of a workout log.
type WorkoutLogResponse struct {
	ID        string             `json:"logId"`
	PlanID    string             `json:"planId,omitempty"`
	Date      time.Time          `json:"date"`
	Entries   []workout.LogEntry `json:"entries"`
	Rating    *int               `json:"rating,omitempty"`
	Notes     string             `json:"notes,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
}

func toWorkoutLogResponse(log *workout.Log) *WorkoutLogResponse {
	return &WorkoutLogResponse{
		ID:        log.ID,
		PlanID:    log.PlanID,
		Date:      log.Date,
		Entries:   log.Entries,
		Rating:    log.Rating,
		Notes:     log.Notes,
		CreatedAt: log.CreatedAt,
	}
}

// CreateLog handles POST /v1/workouts/logs - record a completed workout.
func (h *WorkoutsHandler) CreateLog(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var req WorkoutLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	input := &workout.LogInput{
		PlanID:  req.PlanID,
		Entries: req.Entries,
		Rating:  req.Rating,
		Notes:   req.Notes,
	}
	if req.Date != nil {
		input.Date = *req.Date
	}

	log, err := h.workoutService.LogWorkout(r.Context(), userID, input)
	if err != nil {
		if errors.Is(err, workout.ErrInvalidLog) {
			response.BadRequest(w, r, err.Error(), nil)
			return
		}
		response.InternalError(w, r, "failed to record workout")
		return
	}

	response.Created(w, r, "/v1/workouts/logs/"+log.ID, toWorkoutLogResponse(log))
}

// ListLogs handles GET /v1/workouts/logs - workout history, newest first.
// Accepts an optional ?limit= query parameter.
func (h *WorkoutsHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.BadRequest(w, r, "limit must be a positive integer", nil)
			return
		}
		limit = parsed
	}

	logs, err := h.workoutService.ListLogs(r.Context(), userID, limit)
	if err != nil {
		response.InternalError(w, r, "failed to list workout logs")
		return
	}

	items := make([]*WorkoutLogResponse, len(logs))
	for i, log := range logs {
		items[i] = toWorkoutLogResponse(log)
	}

	response.JSON(w, r, http.StatusOK, map[string]interface{}{
		"items": items,
		"meta":  models.PagedResponseMeta{Limit: limit},
	})
}

// GetLog handles GET /v1/workouts/logs/{logId}.
func (h *WorkoutsHandler) GetLog(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	logID := chi.URLParam(r, "logId")

	log, err := h.workoutService.GetLog(r.Context(), userID, logID)
	if err != nil {
		if errors.Is(err, workout.ErrLogNotFound) {
			response.NotFound(w, r, "workout log not found")
			return
		}
		response.InternalError(w, r, "failed to load workout log")
		return
	}

	response.JSON(w, r, http.StatusOK, toWorkoutLogResponse(log))
}

// GetSummary handles GET /v1/workouts/summary - aggregated history stats.
func (h *WorkoutsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	summary, err := h.workoutService.GetSummary(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "failed to compute workout summary")
		return
	}

	response.JSON(w, r, http.StatusOK, summary)
}
