package stripe

import "fmt"

// CheckoutSession is a hosted payment page session.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Subscription is the processor-side subscription state.
type Subscription struct {
	ID                string `json:"id"`
	Customer          string `json:"customer"`
	Status            string `json:"status"`
	CurrentPeriodEnd  int64  `json:"current_period_end"`
	CancelAtPeriodEnd bool   `json:"cancel_at_period_end"`
}

// errorResponse is the error envelope returned on non-2xx responses.
type errorResponse struct {
	Error *Error `json:"error"`
}

// Error is a payment processor error.
type Error struct {
	Type       string `json:"type"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("stripe: %s", e.Message)
	}
	return fmt.Sprintf("stripe: status %d", e.StatusCode)
}
