package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL subscription repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const subscriptionColumns = `user_id, customer_id, subscription_id, tier, status,
		current_period_end, cancel_at_period_end, created_at, updated_at`

// GetByUserID retrieves the subscription for a user.
func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = $1`

	sub, err := scanSubscription(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("querying subscription: %w", err)
	}
	return sub, nil
}

// GetBySubscriptionID retrieves a subscription by processor identifier.
func (r *PostgresRepository) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE subscription_id = $1`

	sub, err := scanSubscription(r.pool.QueryRow(ctx, query, subscriptionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("querying subscription: %w", err)
	}
	return sub, nil
}

// Upsert creates or replaces the subscription record for its user.
func (r *PostgresRepository) Upsert(ctx context.Context, sub *Subscription) error {
	query := `
		INSERT INTO subscriptions (user_id, customer_id, subscription_id, tier, status,
			current_period_end, cancel_at_period_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			customer_id = EXCLUDED.customer_id,
			subscription_id = EXCLUDED.subscription_id,
			tier = EXCLUDED.tier,
			status = EXCLUDED.status,
			current_period_end = EXCLUDED.current_period_end,
			cancel_at_period_end = EXCLUDED.cancel_at_period_end,
			updated_at = EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, query,
		sub.UserID, sub.CustomerID, sub.SubscriptionID, string(sub.Tier), string(sub.Status),
		sub.CurrentPeriodEnd, sub.CancelAtPeriodEnd, sub.CreatedAt, sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting subscription: %w", err)
	}
	return nil
}

func scanSubscription(row pgx.Row) (*Subscription, error) {
	var sub Subscription
	var tier, status string

	err := row.Scan(
		&sub.UserID, &sub.CustomerID, &sub.SubscriptionID, &tier, &status,
		&sub.CurrentPeriodEnd, &sub.CancelAtPeriodEnd, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	sub.Tier = Tier(tier)
	sub.Status = Status(status)
	return &sub, nil
}
