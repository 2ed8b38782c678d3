package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/api/response"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/notify"
)

// NotificationsHandler handles notification preference endpoints.
type NotificationsHandler struct {
	notifyService *notify.Service
}

// NewNotificationsHandler creates a new NotificationsHandler.
func NewNotificationsHandler(notifyService *notify.Service) *NotificationsHandler {
	return &NotificationsHandler{notifyService: notifyService}
}

// NotificationPreferencesRequest is the preference update payload.
type NotificationPreferencesRequest struct {
	ChatID       int64  `json:"chatId"`
	Enabled      bool   `json:"enabled"`
	ReminderTime string `json:"reminderTime,omitempty"`
}

// NotificationPreferencesResponse is the JSON shape of preferences.
type NotificationPreferencesResponse struct {
	ChatLinked   bool   `json:"chatLinked"`
	Enabled      bool   `json:"enabled"`
	ReminderTime string `json:"reminderTime"`
}

func toPreferencesResponse(prefs *notify.Preferences) *NotificationPreferencesResponse {
	return &NotificationPreferencesResponse{
		ChatLinked:   prefs.ChatID != 0,
		Enabled:      prefs.Enabled,
		ReminderTime: prefs.ReminderTime,
	}
}

// GetPreferences handles GET /v1/me/notifications.
func (h *NotificationsHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	prefs, err := h.notifyService.GetPreferences(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "failed to load notification preferences")
		return
	}

	response.JSON(w, r, http.StatusOK, toPreferencesResponse(prefs))
}

// UpdatePreferences handles PUT /v1/me/notifications.
func (h *NotificationsHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var req NotificationPreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	prefs, err := h.notifyService.UpdatePreferences(r.Context(), userID, notify.PreferencesInput{
		ChatID:       req.ChatID,
		Enabled:      req.Enabled,
		ReminderTime: req.ReminderTime,
	})
	if err != nil {
		if errors.Is(err, notify.ErrInvalidPreferences) || errors.Is(err, notify.ErrNotLinked) {
			response.BadRequest(w, r, err.Error(), nil)
			return
		}
		response.InternalError(w, r, "failed to save notification preferences")
		return
	}

	response.JSON(w, r, http.StatusOK, toPreferencesResponse(prefs))
}

// SendTest handles POST /v1/me/notifications:test - deliver a test
// message to the user's linked chat.
func (h *NotificationsHandler) SendTest(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	if err := h.notifyService.SendTest(r.Context(), userID); err != nil {
		if errors.Is(err, notify.ErrNotLinked) {
			response.BadRequest(w, r, "no messaging chat linked", nil)
			return
		}
		response.ServiceUnavailable(w, r, "could not deliver test notification")
		return
	}

	response.JSON(w, r, http.StatusOK, map[string]bool{"delivered": true})
}
