package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"petwelfare/internal/models"
)

// activityTables 活动类型到表名
var activityTables = map[models.ActivityKind]string{
	models.ActivityWalk:          "walks",
	models.ActivityExpense:       "expenses",
	models.ActivityBrushingTeeth: "brushing_teeth",
}

type postgresActivities struct {
	q dbtx
}

func (r *postgresActivities) FindActivity(ctx context.Context, ownerID string, kind models.ActivityKind, from, to time.Time) (*models.Activity, error) {
	table, ok := activityTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown activity kind %q", kind)
	}

	query := `
		SELECT id, owner_id, created_at
		FROM ` + table + `
		WHERE owner_id = $1
		  AND created_at >= $2
		  AND created_at < $3
		ORDER BY created_at DESC
		LIMIT 1
	`
	a := models.Activity{Kind: kind}
	err := r.q.QueryRowContext(ctx, query, ownerID, from, to).Scan(&a.ID, &a.OwnerID, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	return &a, nil
}
