package notify

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

// NewPostgresRepository creates a new PostgreSQL preferences repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves preferences for a user.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (*Preferences, error) {
	query := `
		SELECT user_id, chat_id, enabled, reminder_time, created_at, updated_at
		FROM notification_preferences
		WHERE user_id = $1`

	var prefs Preferences
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&prefs.UserID, &prefs.ChatID, &prefs.Enabled, &prefs.ReminderTime,
		&prefs.CreatedAt, &prefs.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPreferencesNotFound
		}
		return nil, fmt.Errorf("querying preferences: %w", err)
	}
	return &prefs, nil
}

// Upsert creates or replaces the preferences for their user.
func (r *PostgresRepository) Upsert(ctx context.Context, prefs *Preferences) error {
	query := `
		INSERT INTO notification_preferences (user_id, chat_id, enabled, reminder_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			chat_id = EXCLUDED.chat_id,
			enabled = EXCLUDED.enabled,
			reminder_time = EXCLUDED.reminder_time,
			updated_at = EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, query,
		prefs.UserID, prefs.ChatID, prefs.Enabled, prefs.ReminderTime,
		prefs.CreatedAt, prefs.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting preferences: %w", err)
	}
	return nil
}

// ListEnabled returns all preferences with delivery enabled and a chat linked.
func (r *PostgresRepository) ListEnabled(ctx context.Context) ([]*Preferences, error) {
	query := `
		SELECT user_id, chat_id, enabled, reminder_time, created_at, updated_at
		FROM notification_preferences
		WHERE enabled AND chat_id <> 0`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying preferences: %w", err)
	}
	defer rows.Close()

	var out []*Preferences
	for rows.Next() {
		var prefs Preferences
		err := rows.Scan(
			&prefs.UserID, &prefs.ChatID, &prefs.Enabled, &prefs.ReminderTime,
			&prefs.CreatedAt, &prefs.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning preferences: %w", err)
		}
		out = append(out, &prefs)
	}
	return out, rows.Err()
}
