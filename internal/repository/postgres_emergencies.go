package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"petwelfare/internal/models"
)

type postgresEmergencies struct {
	q dbtx
}

const emergencyColumns = `id, owner_id, category, solved, created_at, updated_at`

func scanEmergency(row interface{ Scan(dest ...interface{}) error }) (*models.Emergency, error) {
	var e models.Emergency
	var category string
	if err := row.Scan(&e.ID, &e.OwnerID, &category, &e.Solved, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Category = models.Category(category)
	return &e, nil
}

func (r *postgresEmergencies) ListEmergencies(ctx context.Context, ownerID string, filter models.EmergencyFilter) ([]models.Emergency, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("owner_id is required")
	}

	where := []string{"owner_id = $1"}
	args := []interface{}{ownerID}
	argN := 2

	if filter.Category != nil {
		where = append(where, fmt.Sprintf("category = $%d", argN))
		args = append(args, string(*filter.Category))
		argN++
	}
	if filter.Since != nil {
		where = append(where, fmt.Sprintf("created_at >= $%d", argN))
		args = append(args, *filter.Since)
		argN++
	}
	if filter.Until != nil {
		where = append(where, fmt.Sprintf("created_at <= $%d", argN))
		args = append(args, *filter.Until)
		argN++
	}
	if filter.Solved != nil {
		where = append(where, fmt.Sprintf("solved = $%d", argN))
		args = append(args, *filter.Solved)
	}

	query := `SELECT ` + emergencyColumns + ` FROM emergencies WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list emergencies: %w", err)
	}
	defer rows.Close()

	var out []models.Emergency
	for rows.Next() {
		e, err := scanEmergency(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan emergency: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *postgresEmergencies) CountByCategory(ctx context.Context, ownerID string, since, until time.Time) (map[models.Category]int, error) {
	query := `
		SELECT category, COUNT(*)
		FROM emergencies
		WHERE owner_id = $1
		  AND created_at >= $2
		  AND created_at <= $3
		GROUP BY category
	`
	rows, err := r.q.QueryContext(ctx, query, ownerID, since, until)
	if err != nil {
		return nil, fmt.Errorf("failed to count emergencies: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Category]int)
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return nil, fmt.Errorf("failed to scan emergency count: %w", err)
		}
		counts[models.Category(category)] = n
	}
	return counts, rows.Err()
}

func (r *postgresEmergencies) CreateEmergency(ctx context.Context, e *models.Emergency) error {
	if e == nil {
		return fmt.Errorf("emergency is required")
	}
	if e.OwnerID == "" {
		return fmt.Errorf("owner_id is required")
	}

	query := `
		INSERT INTO emergencies (id, owner_id, category, solved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.q.ExecContext(ctx, query, e.ID, e.OwnerID, string(e.Category), e.Solved, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return mapWriteError(fmt.Errorf("failed to create emergency: %w", err))
	}
	return nil
}

func (r *postgresEmergencies) GetEmergency(ctx context.Context, ownerID, id string) (*models.Emergency, error) {
	query := `SELECT ` + emergencyColumns + ` FROM emergencies WHERE id = $1 AND owner_id = $2`
	e, err := scanEmergency(r.q.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("emergency %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get emergency: %w", err)
	}
	return e, nil
}

func (r *postgresEmergencies) MarkSolved(ctx context.Context, ownerID, id string, at time.Time) (*models.Emergency, error) {
	query := `
		UPDATE emergencies
		SET solved = TRUE, updated_at = $3
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + emergencyColumns
	e, err := scanEmergency(r.q.QueryRowContext(ctx, query, id, ownerID, at))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("emergency %s: %w", id, models.ErrNotFound)
		}
		return nil, mapWriteError(fmt.Errorf("failed to solve emergency: %w", err))
	}
	return e, nil
}
