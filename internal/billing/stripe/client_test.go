package stripe_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/billing/stripe"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/provider/resilience"
)

func newTestClient(serverURL string) *stripe.Client {
	return stripe.NewClient(stripe.ClientConfig{
		SecretKey:  "sk_test_****",
		BaseURL:    serverURL,
		HTTPClient: resilience.NewClient(resilience.DefaultClientConfig("test")),
	})
}

func TestClient_CreateCheckoutSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_****", r.Header.Get("Authorization"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "subscription", r.PostForm.Get("mode"))
		assert.Equal(t, "price_pro_monthly", r.PostForm.Get("line_items[0][price]"))
		assert.Equal(t, "usr_1", r.PostForm.Get("client_reference_id"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"id":  "cs_test_123",
			"url": "https://checkout.example.com/cs_test_123",
		})
	}))
	defer server.Close()

	session, err := newTestClient(server.URL).CreateCheckoutSession(context.Background(), stripe.CheckoutParams{
		PriceID:           "price_pro_monthly",
		ClientReferenceID: "usr_1",
		SuccessURL:        "https://app.example.com/billing/success",
		CancelURL:         "https://app.example.com/billing/cancel",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", session.ID)
	assert.NotEmpty(t, session.URL)
}

func TestClient_CancelSubscription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscriptions/sub_123", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "true", r.PostForm.Get("cancel_at_period_end"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":                   "sub_123",
			"customer":             "cus_1",
			"status":               "active",
			"cancel_at_period_end": true,
			"current_period_end":   1766966400,
		})
	}))
	defer server.Close()

	sub, err := newTestClient(server.URL).CancelSubscription(context.Background(), "sub_123")
	require.NoError(t, err)
	assert.True(t, sub.CancelAtPeriodEnd)
	assert.Equal(t, "active", sub.Status)
}

func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{
				"type":    "card_error",
				"code":    "card_declined",
				"message": "Your card was declined.",
			},
		})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetSubscription(context.Background(), "sub_123")
	require.Error(t, err)

	var apiErr *stripe.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "card_declined", apiErr.Code)
	assert.Equal(t, http.StatusPaymentRequired, apiErr.StatusCode)
}

func TestConstructEvent(t *testing.T) {
	secret := "whsec_****"
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_1","client_reference_id":"usr_1","subscription":"sub_1","customer":"cus_1"}}}`)

	header := stripe.ComputeSignatureHeader(time.Now(), payload, secret)

	event, err := stripe.ConstructEvent(payload, header, secret, 0)
	require.NoError(t, err)
	assert.Equal(t, stripe.EventCheckoutCompleted, event.Type)

	var session stripe.CheckoutSessionObject
	require.NoError(t, json.Unmarshal(event.Data.Object, &session))
	assert.Equal(t, "usr_1", session.ClientReferenceID)
	assert.Equal(t, "sub_1", session.Subscription)
}

func TestConstructEvent_BadSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	header := stripe.ComputeSignatureHeader(time.Now(), payload, "whsec_other")

	_, err := stripe.ConstructEvent(payload, header, "whsec_****", 0)
	assert.ErrorIs(t, err, stripe.ErrInvalidSignature)
}

func TestConstructEvent_ExpiredTimestamp(t *testing.T) {
	secret := "whsec_****"
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	header := stripe.ComputeSignatureHeader(time.Now().Add(-time.Hour), payload, secret)

	_, err := stripe.ConstructEvent(payload, header, secret, 0)
	assert.ErrorIs(t, err, stripe.ErrSignatureExpired)
}

func TestConstructEvent_MalformedHeader(t *testing.T) {
	_, err := stripe.ConstructEvent([]byte(`{}`), "not-a-header", "whsec_****", 0)
	assert.ErrorIs(t, err, stripe.ErrInvalidSignature)
}
