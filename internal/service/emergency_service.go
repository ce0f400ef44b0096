package service

import (
	"context"
	"fmt"
	"time"

	"petwelfare/internal/evaluator"
	"petwelfare/internal/models"
	"petwelfare/internal/repository"

	"go.uber.org/zap"
)

// unsolvedWindow 未解决提醒的查询范围
const unsolvedWindow = 7 * 24 * time.Hour

// EmergencyService 提醒服务
type EmergencyService struct {
	emergencies repository.EmergencyRepository
	resolver    *evaluator.Resolver
	clock       func() time.Time
	logger      *zap.Logger
}

// NewEmergencyService 创建提醒服务
func NewEmergencyService(emergencies repository.EmergencyRepository, resolver *evaluator.Resolver, clock func() time.Time, logger *zap.Logger) *EmergencyService {
	if clock == nil {
		clock = time.Now
	}
	return &EmergencyService{
		emergencies: emergencies,
		resolver:    resolver,
		clock:       clock,
		logger:      logger,
	}
}

// Resolve 主人确认提醒
func (s *EmergencyService) Resolve(ctx context.Context, ownerID, emergencyID string) (*models.Emergency, error) {
	return s.resolver.Resolve(ctx, ownerID, emergencyID)
}

// LatestUnsolved 最近 7 天内每个类型最新的一条未解决提醒
func (s *EmergencyService) LatestUnsolved(ctx context.Context, ownerID string) (map[models.Category]models.Emergency, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner_id is required", models.ErrPreconditionViolation)
	}

	now := s.clock()
	since := now.Add(-unsolvedWindow)
	solved := false
	list, err := s.emergencies.ListEmergencies(ctx, ownerID, models.EmergencyFilter{
		Since:  &since,
		Until:  &now,
		Solved: &solved,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list unsolved emergencies: %w", err)
	}

	// 列表按创建时间倒序，第一条即最新
	latest := make(map[models.Category]models.Emergency)
	for _, e := range list {
		if _, ok := latest[e.Category]; !ok {
			latest[e.Category] = e
		}
	}
	return latest, nil
}
