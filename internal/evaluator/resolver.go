package evaluator

import (
	"context"
	"fmt"
	"time"

	"petwelfare/internal/models"
	"petwelfare/internal/repository"

	"go.uber.org/zap"
)

// Resolver 主人确认提醒
type Resolver struct {
	emergencies repository.EmergencyRepository
	publisher   EventPublisher
	clock       func() time.Time
	logger      *zap.Logger
}

// NewResolver 创建 Resolver；clock 为 nil 时使用 time.Now
func NewResolver(emergencies repository.EmergencyRepository, publisher EventPublisher, clock func() time.Time, logger *zap.Logger) *Resolver {
	if clock == nil {
		clock = time.Now
	}
	return &Resolver{emergencies: emergencies, publisher: publisher, clock: clock, logger: logger}
}

// Resolve 将主人名下的提醒标记为已解决
// 重复确认同样成功，并刷新 updated_at
func (r *Resolver) Resolve(ctx context.Context, ownerID, emergencyID string) (*models.Emergency, error) {
	if ownerID == "" || emergencyID == "" {
		return nil, fmt.Errorf("emergency %q of owner %q: %w", emergencyID, ownerID, models.ErrNotFound)
	}

	now := r.clock()
	e, err := r.emergencies.MarkSolved(ctx, ownerID, emergencyID, now)
	if err != nil {
		return nil, err
	}

	r.logger.Info("Emergency solved",
		zap.String("owner_id", ownerID),
		zap.String("emergency_id", emergencyID),
		zap.String("category", string(e.Category)),
	)

	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, models.WelfareEvent{
			Type:        models.EventEmergencyResolved,
			OwnerID:     ownerID,
			Category:    string(e.Category),
			EmergencyID: e.ID,
			OccurredAt:  now,
		}); err != nil {
			r.logger.Warn("Failed to publish welfare event",
				zap.String("type", string(models.EventEmergencyResolved)),
				zap.Error(err),
			)
		}
	}
	return e, nil
}
