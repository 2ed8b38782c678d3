// Package billing provides subscription management backed by a payment
// processor. Local subscription state is kept in sync via webhook events.
package billing

import (
	"errors"
	"time"
)

// Domain errors.
var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrAlreadySubscribed    = errors.New("user already has an active subscription")
	ErrBillingDisabled      = errors.New("billing is temporarily disabled")
)

// Tier is a subscription plan tier.
type Tier string

// Tiers.
const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

// Status is the subscription lifecycle status, mirroring the processor's
// states.
type Status string

// Statuses.
const (
	StatusActive     Status = "active"
	StatusPastDue    Status = "past_due"
	StatusCanceled   Status = "canceled"
	StatusIncomplete Status = "incomplete"
)

// Subscription is the locally persisted subscription state for a user.
type Subscription struct {
	// UserID is the owning user.
	UserID string

	// CustomerID is the processor's customer identifier.
	CustomerID string

	// SubscriptionID is the processor's subscription identifier.
	SubscriptionID string

	// Tier is the plan tier the subscription grants.
	Tier Tier

	// Status is the current lifecycle status.
	Status Status

	// CurrentPeriodEnd is when the current billing period ends.
	CurrentPeriodEnd time.Time

	// CancelAtPeriodEnd marks a subscription that will lapse instead of
	// renewing.
	CancelAtPeriodEnd bool

	// CreatedAt is when the subscription was first recorded.
	CreatedAt time.Time

	// UpdatedAt is when the local state last changed.
	UpdatedAt time.Time
}

// Active reports whether the subscription currently grants its tier.
func (s *Subscription) Active() bool {
	return s != nil && (s.Status == StatusActive || s.Status == StatusPastDue)
}

// FreeSubscription is the implicit state for users with no recorded
// subscription.
func FreeSubscription(userID string) *Subscription {
	return &Subscription{
		UserID: userID,
		Tier:   TierFree,
		Status: StatusCanceled,
	}
}
