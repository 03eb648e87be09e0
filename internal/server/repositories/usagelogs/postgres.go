package usagelogs

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/stremhub/internal/dbx"
	"github.com/dmitrijs2005/stremhub/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create appends one usage entry. Entries are never deduplicated: the table
// is a usage counter, so repeated calls produce repeated rows.
func (r *PostgresRepository) Create(ctx context.Context, userID int64) (*models.UsageLog, error) {
	query :=
		`INSERT INTO usage_logs (user_id)
		 VALUES ($1)
		 RETURNING id, created_at
		 `

	log := &models.UsageLog{UserID: userID}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return log, nil
}

func (r *PostgresRepository) List(ctx context.Context, offset, limit int) ([]*models.UsageLog, error) {
	query :=
		`SELECT id, user_id, created_at FROM usage_logs
		 ORDER BY id
		 OFFSET $1 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.UsageLog
	for rows.Next() {
		log := &models.UsageLog{}
		if err := rows.Scan(&log.ID, &log.UserID, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM usage_logs`

	var count int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}

func (r *PostgresRepository) CountByDay(ctx context.Context) ([]*models.UsageByDay, error) {
	query :=
		`SELECT to_char(created_at, 'YYYY-MM-DD') AS day, COUNT(*)
		 FROM usage_logs
		 GROUP BY day
		 ORDER BY day
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.UsageByDay
	for rows.Next() {
		day := &models.UsageByDay{}
		if err := rows.Scan(&day.Date, &day.Count); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) MostActiveUsers(ctx context.Context, limit int) ([]*models.ActiveUser, error) {
	query :=
		`SELECT u.email, COUNT(l.id) AS cnt
		 FROM usage_logs l
		 JOIN users u ON u.id = l.user_id
		 GROUP BY u.email
		 ORDER BY cnt DESC
		 LIMIT $1
		 `

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.ActiveUser
	for rows.Next() {
		user := &models.ActiveUser{}
		if err := rows.Scan(&user.Email, &user.Count); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
