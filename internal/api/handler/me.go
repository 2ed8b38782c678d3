package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/api/response"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/auth"
)

// MeHandler handles the authenticated user's account endpoints.
type MeHandler struct {
	authService *auth.Service
}

// NewMeHandler creates a new MeHandler.
func NewMeHandler(authService *auth.Service) *MeHandler {
	return &MeHandler{authService: authService}
}

// GetMe handles GET /v1/me - the authenticated user's account.
func (h *MeHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	user, err := h.authService.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			response.NotFound(w, r, "user not found")
			return
		}
		response.InternalError(w, r, "failed to load user")
		return
	}

	response.JSON(w, r, http.StatusOK, user)
}

// UpdateMe handles PUT /v1/me - update mutable account fields.
func (h *MeHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var req struct {
		DisplayName string `json:"displayName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	user, err := h.authService.UpdateDisplayName(r.Context(), userID, req.DisplayName)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			response.NotFound(w, r, "user not found")
			return
		}
		response.InternalError(w, r, "failed to update user")
		return
	}

	response.JSON(w, r, http.StatusOK, user)
}
