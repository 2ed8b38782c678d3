package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/api/response"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/auth"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/billing"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/billing/stripe"
)

// maxWebhookBody bounds webhook payload reads.
const maxWebhookBody = 1 << 20 // 1 MiB

// BillingHandler handles subscription billing endpoints.
type BillingHandler struct {
	billingService *billing.Service
	authService    *auth.Service
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(billingService *billing.Service, authService *auth.Service) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
		authService:    authService,
	}
}

// SubscriptionResponse is the JSON shape of a subscription.
type SubscriptionResponse struct {
	Tier              billing.Tier   `json:"tier"`
	Status            billing.Status `json:"status"`
	Active            bool           `json:"active"`
	CurrentPeriodEnd  *time.Time     `json:"currentPeriodEnd,omitempty"`
	CancelAtPeriodEnd bool           `json:"cancelAtPeriodEnd,omitempty"`
}

func toSubscriptionResponse(sub *billing.Subscription) *SubscriptionResponse {
	resp := &SubscriptionResponse{
		Tier:              sub.Tier,
		Status:            sub.Status,
		Active:            sub.Active(),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
	if !sub.CurrentPeriodEnd.IsZero() {
		end := sub.CurrentPeriodEnd
		resp.CurrentPeriodEnd = &end
	}
	return resp
}

// CreateCheckout handles POST /v1/billing/checkout - start a hosted
// checkout session for the pro tier.
func (h *BillingHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	user, err := h.authService.GetUser(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "failed to load user")
		return
	}

	session, err := h.billingService.CreateCheckout(r.Context(), userID, user.Email)
	if err != nil {
		if errors.Is(err, billing.ErrAlreadySubscribed) {
			response.Conflict(w, r, "user already has an active subscription")
			return
		}
		if errors.Is(err, billing.ErrBillingDisabled) {
			response.ServiceUnavailable(w, r, "billing is temporarily disabled")
			return
		}
		response.ServiceUnavailable(w, r, "could not start checkout")
		return
	}

	response.JSON(w, r, http.StatusOK, map[string]string{
		"sessionId":   session.ID,
		"checkoutUrl": session.URL,
	})
}

// GetSubscription handles GET /v1/billing/subscription.
func (h *BillingHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	sub, err := h.billingService.GetSubscription(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "failed to load subscription")
		return
	}

	response.JSON(w, r, http.StatusOK, toSubscriptionResponse(sub))
}

// CancelSubscription handles DELETE /v1/billing/subscription - schedule
// the subscription to lapse at period end.
func (h *BillingHandler) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	sub, err := h.billingService.Cancel(r.Context(), userID)
	if err != nil {
		if errors.Is(err, billing.ErrSubscriptionNotFound) {
			response.NotFound(w, r, "no active subscription to cancel")
			return
		}
		response.ServiceUnavailable(w, r, "could not cancel subscription")
		return
	}

	response.JSON(w, r, http.StatusOK, toSubscriptionResponse(sub))
}

// Webhook handles POST /v1/billing/webhook - processor event delivery.
// The endpoint is public; authenticity comes from the signature header.
func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		response.BadRequest(w, r, "could not read payload", nil)
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	if err := h.billingService.HandleWebhook(r.Context(), payload, sigHeader); err != nil {
		if errors.Is(err, stripe.ErrInvalidSignature) || errors.Is(err, stripe.ErrSignatureExpired) {
			response.BadRequest(w, r, "invalid webhook signature", nil)
			return
		}
		// Non-2xx makes the processor retry delivery later.
		response.InternalError(w, r, "webhook processing failed")
		return
	}

	response.JSON(w, r, http.StatusOK, map[string]bool{"received": true})
}
