package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"petwelfare/internal/models"
)

type postgresOwners struct {
	q dbtx
}

const ownerColumns = `id, email, dog_name, COALESCE(device_token, ''), COALESCE(timezone, ''), created_at`

func (r *postgresOwners) GetOwner(ctx context.Context, id string) (*models.Owner, error) {
	var o models.Owner
	err := r.q.QueryRowContext(ctx, `SELECT `+ownerColumns+` FROM owners WHERE id = $1`, id).
		Scan(&o.ID, &o.Email, &o.DogName, &o.DeviceToken, &o.Timezone, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("owner %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}
	return &o, nil
}

func (r *postgresOwners) ListOwners(ctx context.Context, afterID string, limit int) ([]models.Owner, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + ownerColumns + ` FROM owners WHERE id > $1 ORDER BY id ASC LIMIT $2`
	rows, err := r.q.QueryContext(ctx, query, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	defer rows.Close()

	var out []models.Owner
	for rows.Next() {
		var o models.Owner
		if err := rows.Scan(&o.ID, &o.Email, &o.DogName, &o.DeviceToken, &o.Timezone, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan owner: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
