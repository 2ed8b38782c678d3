package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/api/response"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/profile"
)

// ProfileHandler handles fitness profile endpoints.
type ProfileHandler struct {
	profileService *profile.Service
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *profile.Service) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// ProfileRequest is the profile upsert payload.
type ProfileRequest struct {
	Level          string   `json:"level"`
	Goals          []string `json:"goals"`
	Equipment      []string `json:"equipment"`
	SessionMinutes int      `json:"sessionMinutes"`
	DaysPerWeek    int      `json:"daysPerWeek"`
	HeightCM       float64  `json:"heightCm,omitempty"`
	WeightKG       float64  `json:"weightKg,omitempty"`
	Age            int      `json:"age,omitempty"`
	Gender         string   `json:"gender,omitempty"`
}

// ProfileResponse is the JSON shape of a fitness profile.
type ProfileResponse struct {
	UserID         string    `json:"userId"`
	Level          string    `json:"level"`
	Goals          []string  `json:"goals"`
	Equipment      []string  `json:"equipment"`
	SessionMinutes int       `json:"sessionMinutes"`
	DaysPerWeek    int       `json:"daysPerWeek"`
	HeightCM       float64   `json:"heightCm,omitempty"`
	WeightKG       float64   `json:"weightKg,omitempty"`
	Age            int       `json:"age,omitempty"`
	Gender         string    `json:"gender,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toProfileResponse(p *profile.UserProfile) *ProfileResponse {
	return &ProfileResponse{
		UserID:         p.UserID,
		Level:          string(p.Level),
		Goals:          p.Goals,
		Equipment:      p.Equipment,
		SessionMinutes: p.SessionMinutes,
		DaysPerWeek:    p.DaysPerWeek,
		HeightCM:       p.HeightCM,
		WeightKG:       p.WeightKG,
		Age:            p.Age,
		Gender:         p.Gender,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// GetProfile handles GET /v1/me/profile - the user's fitness profile.
// Users who never saved a profile get the defaults.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	p, err := h.profileService.Get(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "failed to load profile")
		return
	}

	response.JSON(w, r, http.StatusOK, toProfileResponse(p))
}

// UpsertProfile handles PUT /v1/me/profile - create or replace the profile.
func (h *ProfileHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	p, err := h.profileService.Upsert(r.Context(), userID, &profile.ProfileInput{
		Level:          profile.FitnessLevel(req.Level),
		Goals:          req.Goals,
		Equipment:      req.Equipment,
		SessionMinutes: req.SessionMinutes,
		DaysPerWeek:    req.DaysPerWeek,
		HeightCM:       req.HeightCM,
		WeightKG:       req.WeightKG,
		Age:            req.Age,
		Gender:         req.Gender,
	})
	if err != nil {
		if errors.Is(err, profile.ErrInvalidProfile) {
			response.BadRequest(w, r, err.Error(), nil)
			return
		}
		response.InternalError(w, r, "failed to save profile")
		return
	}

	response.JSON(w, r, http.StatusOK, toProfileResponse(p))
}
