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

// ManualReportScore 主人手动上报的压力分
const ManualReportScore = 1

// week 从主人注册时刻起按 7 天划分
const week = 7 * 24 * time.Hour

// StressService 压力记录服务
type StressService struct {
	stress      repository.StressRepository
	owners      repository.OwnerRepository
	accumulator *evaluator.Accumulator
	publisher   evaluator.EventPublisher
	logger      *zap.Logger
}

// NewStressService 创建压力服务；publisher 可以为 nil
func NewStressService(
	stress repository.StressRepository,
	owners repository.OwnerRepository,
	accumulator *evaluator.Accumulator,
	publisher evaluator.EventPublisher,
	logger *zap.Logger,
) *StressService {
	return &StressService{
		stress:      stress,
		owners:      owners,
		accumulator: accumulator,
		publisher:   publisher,
		logger:      logger,
	}
}

// Report 主人手动上报一条压力（固定 1 分）
func (s *StressService) Report(ctx context.Context, ownerID string, category models.StressCategory) (*models.Stress, error) {
	if _, err := s.owners.GetOwner(ctx, ownerID); err != nil {
		return nil, err
	}

	rec, err := s.accumulator.RecordStress(ctx, ownerID, category, ManualReportScore)
	if err != nil {
		return nil, fmt.Errorf("failed to record stress: %w", err)
	}

	s.logger.Info("Stress reported",
		zap.String("owner_id", ownerID),
		zap.String("category", string(category)),
	)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, models.WelfareEvent{
			Type:       models.EventStressRecorded,
			OwnerID:    ownerID,
			Category:   string(category),
			StressID:   rec.ID,
			Score:      rec.Score,
			OccurredAt: rec.CreatedAt,
		}); err != nil {
			s.logger.Warn("Failed to publish welfare event",
				zap.String("type", string(models.EventStressRecorded)),
				zap.Error(err),
			)
		}
	}
	return rec, nil
}

// List 主人全部压力记录（按时间升序）
func (s *StressService) List(ctx context.Context, ownerID string) ([]models.Stress, error) {
	if _, err := s.owners.GetOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	list, err := s.stress.ListStress(ctx, ownerID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list stress: %w", err)
	}
	return list, nil
}

// WeekRange 第 n 周（从 1 开始）的时间范围 [from, to)
func WeekRange(signUp time.Time, n int) (from, to time.Time, err error) {
	if n < 1 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: week must be >= 1, got %d", models.ErrPreconditionViolation, n)
	}
	from = signUp.Add(time.Duration(n-1) * week)
	return from, from.Add(week), nil
}

// ListWeek 第 n 周的压力记录
func (s *StressService) ListWeek(ctx context.Context, ownerID string, n int) ([]models.Stress, error) {
	owner, err := s.owners.GetOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	from, to, err := WeekRange(owner.CreatedAt, n)
	if err != nil {
		return nil, err
	}

	list, err := s.stress.ListStress(ctx, ownerID, &from, &to)
	if err != nil {
		return nil, fmt.Errorf("failed to list stress of week %d: %w", n, err)
	}
	return list, nil
}

// WeeklyTotal 第 n 周的压力总分
func (s *StressService) WeeklyTotal(ctx context.Context, ownerID string, n int) (int, error) {
	list, err := s.ListWeek(ctx, ownerID, n)
	if err != nil {
		return 0, err
	}
	return models.SumScores(list), nil
}

// ExportWeek 导出第 n 周的压力记录（xlsx）
func (s *StressService) ExportWeek(ctx context.Context, ownerID string, n int) ([]byte, error) {
	owner, err := s.owners.GetOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	list, err := s.ListWeek(ctx, ownerID, n)
	if err != nil {
		return nil, err
	}
	return GenerateStressExport(n, list, owner.Location(nil))
}
