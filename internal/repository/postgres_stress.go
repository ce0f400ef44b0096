package repository

import (
	"context"
	"fmt"
	"time"

	"petwelfare/internal/models"
)

type postgresStress struct {
	q dbtx
}

func (r *postgresStress) CreateStress(ctx context.Context, s *models.Stress) error {
	if s == nil {
		return fmt.Errorf("stress is required")
	}
	query := `
		INSERT INTO stress (id, owner_id, category, score, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.q.ExecContext(ctx, query, s.ID, s.OwnerID, string(s.Category), s.Score, s.CreatedAt)
	if err != nil {
		return mapWriteError(fmt.Errorf("failed to create stress: %w", err))
	}
	return nil
}

func (r *postgresStress) ListStress(ctx context.Context, ownerID string, since, until *time.Time) ([]models.Stress, error) {
	query := `
		SELECT id, owner_id, category, score, created_at
		FROM stress
		WHERE owner_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at < $3)
		ORDER BY created_at ASC
	`
	rows, err := r.q.QueryContext(ctx, query, ownerID, since, until)
	if err != nil {
		return nil, fmt.Errorf("failed to list stress: %w", err)
	}
	defer rows.Close()

	var out []models.Stress
	for rows.Next() {
		var s models.Stress
		var category string
		if err := rows.Scan(&s.ID, &s.OwnerID, &category, &s.Score, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stress: %w", err)
		}
		s.Category = models.StressCategory(category)
		out = append(out, s)
	}
	return out, rows.Err()
}
