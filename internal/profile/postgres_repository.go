package profile

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL profile repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a profile by user ID.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (*UserProfile, error) {
	query := `
		SELECT
			user_id, fitness_level, goals, equipment,
			session_minutes, days_per_week,
			height_cm, weight_kg, age, gender,
			created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`

	p := &UserProfile{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.Level,
		&p.Goals,
		&p.Equipment,
		&p.SessionMinutes,
		&p.DaysPerWeek,
		&p.HeightCM,
		&p.WeightKG,
		&p.Age,
		&p.Gender,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return p, nil
}

// Upsert creates or replaces a user's profile.
func (r *PostgresRepository) Upsert(ctx context.Context, profile *UserProfile) error {
	query := `
		INSERT INTO user_profiles (
			user_id, fitness_level, goals, equipment,
			session_minutes, days_per_week,
			height_cm, weight_kg, age, gender,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id) DO UPDATE SET
			fitness_level = EXCLUDED.fitness_level,
			goals = EXCLUDED.goals,
			equipment = EXCLUDED.equipment,
			session_minutes = EXCLUDED.session_minutes,
			days_per_week = EXCLUDED.days_per_week,
			height_cm = EXCLUDED.height_cm,
			weight_kg = EXCLUDED.weight_kg,
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		profile.UserID,
		profile.Level,
		profile.Goals,
		profile.Equipment,
		profile.SessionMinutes,
		profile.DaysPerWeek,
		profile.HeightCM,
		profile.WeightKG,
		profile.Age,
		profile.Gender,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	return err
}

// Delete deletes a user's profile.
func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	query := `DELETE FROM user_profiles WHERE user_id = $1`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}

// ListRecentlyUpdated returns up to limit profiles, newest first.
func (r *PostgresRepository) ListRecentlyUpdated(ctx context.Context, limit int) ([]*UserProfile, error) {
	query := `
		SELECT
			user_id, fitness_level, goals, equipment,
			session_minutes, days_per_week,
			height_cm, weight_kg, age, gender,
			created_at, updated_at
		FROM user_profiles
		ORDER BY updated_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*UserProfile
	for rows.Next() {
		p := &UserProfile{}
		if err := rows.Scan(
			&p.UserID,
			&p.Level,
			&p.Goals,
			&p.Equipment,
			&p.SessionMinutes,
			&p.DaysPerWeek,
			&p.HeightCM,
			&p.WeightKG,
			&p.Age,
			&p.Gender,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
