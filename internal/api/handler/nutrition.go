package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/api/response"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/nutrition"
)

// NutritionHandler handles food lookup and nutrition log endpoints.
type NutritionHandler struct {
	nutritionService *nutrition.Service
}

// NewNutritionHandler creates a new NutritionHandler.
func NewNutritionHandler(nutritionService *nutrition.Service) *NutritionHandler {
	return &NutritionHandler{nutritionService: nutritionService}
}

// NutritionLogRequest is the payload for logging consumed food.
type NutritionLogRequest struct {
	FoodName  string           `json:"foodName,omitempty"`
	Barcode   string           `json:"barcode,omitempty"`
	QuantityG float64          `json:"quantityG"`
	LoggedAt  *time.Time       `json:"loggedAt,omitempty"`
	Macros    nutrition.Macros `json:"macros,omitempty"`
}

// NutritionLogResponse is the JSON shape of a nutrition log entry.
type NutritionLogResponse struct {
	ID        string           `json:"logId"`
	FoodName  string           `json:"foodName"`
	Barcode   string           `json:"barcode,omitempty"`
	QuantityG float64          `json:"quantityG"`
	Macros    nutrition.Macros `json:"macros"`
	LoggedAt  time.Time        `json:"loggedAt"`
	CreatedAt time.Time        `json:"createdAt"`
}

func toNutritionLogResponse(entry *nutrition.LogEntry) *NutritionLogResponse {
	return &NutritionLogResponse{
		ID:        entry.ID,
		FoodName:  entry.FoodName,
		Barcode:   entry.Barcode,
		QuantityG: entry.QuantityG,
		Macros:    entry.Macros,
		LoggedAt:  entry.LoggedAt,
		CreatedAt: entry.CreatedAt,
	}
}

// SearchFoods handles GET /v1/nutrition/foods:search?q=...&limit=...
func (h *NutritionHandler) SearchFoods(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		response.BadRequest(w, r, "q query parameter is required", nil)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.BadRequest(w, r, "limit must be a positive integer", nil)
			return
		}
		limit = parsed
	}

	foods, err := h.nutritionService.SearchFoods(r.Context(), query, limit)
	if err != nil {
		response.ServiceUnavailable(w, r, "food database is unavailable")
		return
	}

	response.JSON(w, r, http.StatusOK, map[string]interface{}{"items": foods})
}

// GetFood handles GET /v1/nutrition/foods/{barcode}.
func (h *NutritionHandler) GetFood(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")

	food, err := h.nutritionService.GetFood(r.Context(), barcode)
	if err != nil {
		response.NotFound(w, r, "product not found")
		return
	}

	response.JSON(w, r, http.StatusOK, food)
}

// CreateLog handles POST /v1/nutrition/logs - record consumed food.
func (h *NutritionHandler) CreateLog(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var req NutritionLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	input := &nutrition.LogInput{
		FoodName:  req.FoodName,
		Barcode:   req.Barcode,
		QuantityG: req.QuantityG,
		Macros:    req.Macros,
	}
	if req.LoggedAt != nil {
		input.LoggedAt = *req.LoggedAt
	}

	entry, err := h.nutritionService.LogFood(r.Context(), userID, input)
	if err != nil {
		if errors.Is(err, nutrition.ErrInvalidEntry) {
			response.BadRequest(w, r, err.Error(), nil)
			return
		}
		response.InternalError(w, r, "failed to record food")
		return
	}

	response.Created(w, r, "/v1/nutrition/logs/"+entry.ID, toNutritionLogResponse(entry))
}

// ListLogs handles GET /v1/nutrition/logs?date=YYYY-MM-DD (defaults to today).
func (h *NutritionHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	day, ok := parseDay(w, r)
	if !ok {
		return
	}

	entries, err := h.nutritionService.ListLogs(r.Context(), userID, day)
	if err != nil {
		response.InternalError(w, r, "failed to list nutrition logs")
		return
	}

	items := make([]*NutritionLogResponse, len(entries))
	for i, entry := range entries {
		items[i] = toNutritionLogResponse(entry)
	}

	response.JSON(w, r, http.StatusOK, map[string]interface{}{"items": items})
}

// GetSummary handles GET /v1/nutrition/summary?date=YYYY-MM-DD - daily
// macro totals (defaults to today).
func (h *NutritionHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	day, ok := parseDay(w, r)
	if !ok {
		return
	}

	summary, err := h.nutritionService.GetDailySummary(r.Context(), userID, day)
	if err != nil {
		response.InternalError(w, r, "failed to compute nutrition summary")
		return
	}

	response.JSON(w, r, http.StatusOK, summary)
}

// parseDay reads the optional date query parameter. Reports false after
// writing an error response when the value is malformed.
func parseDay(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return time.Now().UTC(), true
	}

	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		response.BadRequest(w, r, "date must be YYYY-MM-DD", nil)
		return time.Time{}, false
	}
	return day, true
}
