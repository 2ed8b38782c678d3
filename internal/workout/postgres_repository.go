package workout

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/planner"
)

// PostgresPlanRepository is a PostgreSQL implementation of PlanRepository.
// The plan body is stored as jsonb.
type PostgresPlanRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPlanRepository creates a new PostgreSQL plan repository.
func NewPostgresPlanRepository(pool *pgxpool.Pool) *PostgresPlanRepository {
	return &PostgresPlanRepository{pool: pool}
}

// Create persists a new saved plan.
func (r *PostgresPlanRepository) Create(ctx context.Context, plan *SavedPlan) error {
	query := `
		INSERT INTO workout_plans (plan_id, user_id, plan, outcome, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	body, err := json.Marshal(plan.Plan)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, query, plan.ID, plan.UserID, body, string(plan.Outcome), plan.CreatedAt)
	return err
}

// Get retrieves a plan by ID, scoped to the owning user.
func (r *PostgresPlanRepository) Get(ctx context.Context, userID, planID string) (*SavedPlan, error) {
	query := `
		SELECT plan_id, user_id, plan, outcome, created_at
		FROM workout_plans
		WHERE plan_id = $1 AND user_id = $2
	`

	return scanSavedPlan(r.pool.QueryRow(ctx, query, planID, userID))
}

// List retrieves a user's plans, newest first.
func (r *PostgresPlanRepository) List(ctx context.Context, userID string) ([]*SavedPlan, error) {
	query := `
		SELECT plan_id, user_id, plan, outcome, created_at
		FROM workout_plans
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*SavedPlan
	for rows.Next() {
		plan, err := scanSavedPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

// Delete deletes a plan, scoped to the owning user.
func (r *PostgresPlanRepository) Delete(ctx context.Context, userID, planID string) error {
	query := `DELETE FROM workout_plans WHERE plan_id = $1 AND user_id = $2`

	result, err := r.pool.Exec(ctx, query, planID, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSavedPlan(row rowScanner) (*SavedPlan, error) {
	plan := &SavedPlan{}
	var body []byte
	var outcome string

	err := row.Scan(&plan.ID, &plan.UserID, &body, &outcome, &plan.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	plan.Outcome = planner.Outcome(outcome)
	plan.Plan = &planner.Plan{}
	if err := json.Unmarshal(body, plan.Plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// PostgresLogRepository is a PostgreSQL implementation of LogRepository.
// Log entries are stored as jsonb.
type PostgresLogRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresLogRepository creates a new PostgreSQL log repository.
func NewPostgresLogRepository(pool *pgxpool.Pool) *PostgresLogRepository {
	return &PostgresLogRepository{pool: pool}
}

// Create persists a new log.
func (r *PostgresLogRepository) Create(ctx context.Context, log *Log) error {
	query := `
		INSERT INTO workout_logs (log_id, user_id, plan_id, performed_on, entries, rating, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	entries, err := json.Marshal(log.Entries)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, query,
		log.ID, log.UserID, nullableString(log.PlanID), log.Date, entries, log.Rating, log.Notes, log.CreatedAt)
	return err
}

// Get retrieves a log by ID, scoped to the owning user.
func (r *PostgresLogRepository) Get(ctx context.Context, userID, logID string) (*Log, error) {
	query := `
		SELECT log_id, user_id, plan_id, performed_on, entries, rating, notes, created_at
		FROM workout_logs
		WHERE log_id = $1 AND user_id = $2
	`

	return scanLog(r.pool.QueryRow(ctx, query, logID, userID))
}

// List retrieves a user's logs, newest first, up to limit. A non-positive
// limit returns the full history.
func (r *PostgresLogRepository) List(ctx context.Context, userID string, limit int) ([]*Log, error) {
	query := `
		SELECT log_id, user_id, plan_id, performed_on, entries, rating, notes, created_at
		FROM workout_logs
		WHERE user_id = $1
		ORDER BY performed_on DESC
		LIMIT NULLIF($2, 0)
	`

	if limit < 0 {
		limit = 0
	}
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*Log
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func scanLog(row rowScanner) (*Log, error) {
	log := &Log{}
	var planID *string
	var entries []byte

	err := row.Scan(&log.ID, &log.UserID, &planID, &log.Date, &entries, &log.Rating, &log.Notes, &log.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLogNotFound
		}
		return nil, err
	}

	if planID != nil {
		log.PlanID = *planID
	}
	if err := json.Unmarshal(entries, &log.Entries); err != nil {
		return nil, err
	}
	return log, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Ensure interface conformance.
var (
	_ PlanRepository = (*PostgresPlanRepository)(nil)
	_ LogRepository  = (*PostgresLogRepository)(nil)
)
