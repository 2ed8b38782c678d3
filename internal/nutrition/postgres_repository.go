package nutrition

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLogRepository is a PostgreSQL implementation of LogRepository.
type PostgresLogRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresLogRepository creates a new PostgreSQL nutrition log
// repository.
func NewPostgresLogRepository(pool *pgxpool.Pool) *PostgresLogRepository {
	return &PostgresLogRepository{pool: pool}
}

// Create persists a new log entry.
func (r *PostgresLogRepository) Create(ctx context.Context, entry *LogEntry) error {
	query := `
		INSERT INTO nutrition_logs (
			log_id, user_id, food_name, barcode, quantity_g,
			calories, protein_g, carbs_g, fat_g, fiber_g, sugar_g, sodium_mg,
			logged_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.FoodName,
		entry.Barcode,
		entry.QuantityG,
		entry.Macros.Calories,
		entry.Macros.ProteinG,
		entry.Macros.CarbsG,
		entry.Macros.FatG,
		entry.Macros.FiberG,
		entry.Macros.SugarG,
		entry.Macros.SodiumMG,
		entry.LoggedAt,
		entry.CreatedAt,
	)
	return err
}

// List retrieves a user's entries logged within [from, to), newest first.
func (r *PostgresLogRepository) List(ctx context.Context, userID string, from, to time.Time) ([]*LogEntry, error) {
	query := `
		SELECT
			log_id, user_id, food_name, barcode, quantity_g,
			calories, protein_g, carbs_g, fat_g, fiber_g, sugar_g, sodium_mg,
			logged_at, created_at
		FROM nutrition_logs
		WHERE user_id = $1 AND logged_at >= $2 AND logged_at < $3
		ORDER BY logged_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*LogEntry
	for rows.Next() {
		entry := &LogEntry{}
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.FoodName,
			&entry.Barcode,
			&entry.QuantityG,
			&entry.Macros.Calories,
			&entry.Macros.ProteinG,
			&entry.Macros.CarbsG,
			&entry.Macros.FatG,
			&entry.Macros.FiberG,
			&entry.Macros.SugarG,
			&entry.Macros.SodiumMG,
			&entry.LoggedAt,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Ensure PostgresLogRepository implements LogRepository interface.
var _ LogRepository = (*PostgresLogRepository)(nil)
