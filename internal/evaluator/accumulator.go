package evaluator

import (
	"context"
	"fmt"
	"time"

	"petwelfare/internal/models"
	"petwelfare/internal/repository"
)

// Accumulator 压力分累加（追加一条 Stress 记录）
type Accumulator struct {
	stress repository.StressRepository
	clock  func() time.Time
	newID  func() string
}

// NewAccumulator 创建 Accumulator
func NewAccumulator(stress repository.StressRepository, clock func() time.Time, newID func() string) *Accumulator {
	return &Accumulator{stress: stress, clock: clock, newID: newID}
}

// with 返回绑定到另一个仓库（通常是事务）的副本
func (a *Accumulator) with(stress repository.StressRepository) *Accumulator {
	cp := *a
	cp.stress = stress
	return &cp
}

// RecordStress 写入一条压力记录，存储错误原样向上返回
func (a *Accumulator) RecordStress(ctx context.Context, ownerID string, category models.StressCategory, delta int) (*models.Stress, error) {
	if delta <= 0 {
		return nil, fmt.Errorf("%w: stress delta must be positive, got %d", models.ErrPreconditionViolation, delta)
	}

	s := &models.Stress{
		ID:        a.newID(),
		OwnerID:   ownerID,
		Category:  category,
		Score:     delta,
		CreatedAt: a.clock(),
	}
	if err := a.stress.CreateStress(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
