package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/billing/stripe"
)

// Flags gates checkout at runtime.
type Flags interface {
	IsBillingDisabled(ctx context.Context) bool
}

// ProcessorClient is the payment processor API surface the service uses.
type ProcessorClient interface {
	CreateCheckoutSession(ctx context.Context, params stripe.CheckoutParams) (*stripe.CheckoutSession, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*stripe.Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) (*stripe.Subscription, error)
}

// ServiceConfig holds configuration for the billing service.
type ServiceConfig struct {
	// Repository for subscription persistence (required).
	Repository Repository

	// Processor is the payment processor client (required).
	Processor ProcessorClient

	// WebhookSecret verifies incoming webhook signatures (required for
	// HandleWebhook).
	WebhookSecret string

	// ProPriceID is the processor price for the pro tier (required for
	// CreateCheckout).
	ProPriceID string

	// SuccessURL and CancelURL are the checkout redirect targets.
	SuccessURL string
	CancelURL  string

	// Flags optionally disables new checkouts (optional).
	Flags Flags

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service manages subscriptions and applies processor webhook events.
type Service struct {
	repo          Repository
	processor     ProcessorClient
	webhookSecret string
	proPriceID    string
	successURL    string
	cancelURL     string
	flags         Flags
	logger        zerolog.Logger
}

// NewService creates a new billing service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:          cfg.Repository,
		processor:     cfg.Processor,
		webhookSecret: cfg.WebhookSecret,
		proPriceID:    cfg.ProPriceID,
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
		flags:         cfg.Flags,
		logger:        cfg.Logger.With().Str("service", "billing").Logger(),
	}
}

// CreateCheckout starts a hosted checkout session for upgrading the user
// to the pro tier. Returns ErrAlreadySubscribed if the user already holds
// an active subscription.
func (s *Service) CreateCheckout(ctx context.Context, userID, email string) (*stripe.CheckoutSession, error) {
	if s.flags != nil && s.flags.IsBillingDisabled(ctx) {
		return nil, ErrBillingDisabled
	}

	existing, err := s.repo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, ErrSubscriptionNotFound) {
		return nil, fmt.Errorf("checking existing subscription: %w", err)
	}
	if existing.Active() {
		return nil, ErrAlreadySubscribed
	}

	session, err := s.processor.CreateCheckoutSession(ctx, stripe.CheckoutParams{
		PriceID:           s.proPriceID,
		CustomerEmail:     email,
		ClientReferenceID: userID,
		SuccessURL:        s.successURL,
		CancelURL:         s.cancelURL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating checkout session: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("session_id", session.ID).
		Msg("Checkout session created")

	return session, nil
}

// GetSubscription returns the user's subscription state. Users with no
// recorded subscription get the implicit free tier.
func (s *Service) GetSubscription(ctx context.Context, userID string) (*Subscription, error) {
	sub, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) {
			return FreeSubscription(userID), nil
		}
		return nil, fmt.Errorf("getting subscription: %w", err)
	}
	return sub, nil
}

// Cancel schedules the user's subscription to lapse at the end of the
// current billing period.
func (s *Service) Cancel(ctx context.Context, userID string) (*Subscription, error) {
	sub, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !sub.Active() || sub.SubscriptionID == "" {
		return nil, ErrSubscriptionNotFound
	}

	remote, err := s.processor.CancelSubscription(ctx, sub.SubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("cancelling subscription: %w", err)
	}

	sub.CancelAtPeriodEnd = remote.CancelAtPeriodEnd
	sub.Status = Status(remote.Status)
	sub.UpdatedAt = time.Now().UTC()
	if err := s.repo.Upsert(ctx, sub); err != nil {
		return nil, fmt.Errorf("saving subscription: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("subscription_id", sub.SubscriptionID).
		Msg("Subscription scheduled for cancellation")

	return sub, nil
}

// HandleWebhook verifies and applies a processor webhook event. Unhandled
// event types are acknowledged without effect.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := stripe.ConstructEvent(payload, sigHeader, s.webhookSecret, 0)
	if err != nil {
		return err
	}

	s.logger.Debug().
		Str("event_id", event.ID).
		Str("event_type", event.Type).
		Msg("Processing webhook event")

	switch event.Type {
	case stripe.EventCheckoutCompleted:
		return s.applyCheckoutCompleted(ctx, event)
	case stripe.EventSubscriptionUpdated, stripe.EventSubscriptionDeleted:
		return s.applySubscriptionChange(ctx, event)
	default:
		return nil
	}
}

func (s *Service) applyCheckoutCompleted(ctx context.Context, event *stripe.Event) error {
	session, err := event.CheckoutSession()
	if err != nil {
		return err
	}
	if session.ClientReferenceID == "" || session.Subscription == "" {
		return fmt.Errorf("checkout event %s missing reference fields", event.ID)
	}

	remote, err := s.processor.GetSubscription(ctx, session.Subscription)
	if err != nil {
		return fmt.Errorf("fetching subscription %s: %w", session.Subscription, err)
	}

	now := time.Now().UTC()
	sub := &Subscription{
		UserID:            session.ClientReferenceID,
		CustomerID:        session.Customer,
		SubscriptionID:    remote.ID,
		Tier:              TierPro,
		Status:            Status(remote.Status),
		CurrentPeriodEnd:  time.Unix(remote.CurrentPeriodEnd, 0).UTC(),
		CancelAtPeriodEnd: remote.CancelAtPeriodEnd,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("saving subscription: %w", err)
	}

	s.logger.Info().
		Str("user_id", sub.UserID).
		Str("subscription_id", sub.SubscriptionID).
		Msg("Subscription activated")

	return nil
}

func (s *Service) applySubscriptionChange(ctx context.Context, event *stripe.Event) error {
	remote, err := event.Subscription()
	if err != nil {
		return err
	}

	sub, err := s.repo.GetBySubscriptionID(ctx, remote.ID)
	if err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) {
			// Event for a subscription this instance never recorded.
			s.logger.Warn().
				Str("subscription_id", remote.ID).
				Str("event_type", event.Type).
				Msg("Webhook for unknown subscription, skipping")
			return nil
		}
		return err
	}

	sub.Status = Status(remote.Status)
	sub.CancelAtPeriodEnd = remote.CancelAtPeriodEnd
	if remote.CurrentPeriodEnd > 0 {
		sub.CurrentPeriodEnd = time.Unix(remote.CurrentPeriodEnd, 0).UTC()
	}
	if event.Type == stripe.EventSubscriptionDeleted {
		sub.Status = StatusCanceled
		sub.Tier = TierFree
	}
	sub.UpdatedAt = time.Now().UTC()

	if err := s.repo.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("saving subscription: %w", err)
	}

	s.logger.Info().
		Str("user_id", sub.UserID).
		Str("status", string(sub.Status)).
		Msg("Subscription state updated")

	return nil
}
