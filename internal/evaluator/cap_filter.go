package evaluator

import (
	"context"
	"fmt"
	"time"

	"petwelfare/internal/models"
	"petwelfare/internal/repository"
)

// CapWindow 周上限统计窗口
const CapWindow = 7 * 24 * time.Hour

// CapFilter 周上限过滤
type CapFilter struct {
	emergencies repository.EmergencyRepository
	cap         int
}

// NewCapFilter 创建 CapFilter
func NewCapFilter(emergencies repository.EmergencyRepository, weeklyCap int) *CapFilter {
	return &CapFilter{emergencies: emergencies, cap: weeklyCap}
}

// EligibleCategories 返回仍可选择的类型，保持候选顺序
//
// 统计区间为 [ref-7d, ref]。只有计数恰好等于上限时才排除，
// 超过上限（4 次及以上）的类型会重新变为可选，这是沿用下来的线上行为。
func (f *CapFilter) EligibleCategories(ctx context.Context, ownerID string, candidates []models.Category, ref time.Time) ([]models.Category, error) {
	counts, err := f.emergencies.CountByCategory(ctx, ownerID, ref.Add(-CapWindow), ref)
	if err != nil {
		return nil, fmt.Errorf("failed to count weekly emergencies: %w", err)
	}

	eligible := make([]models.Category, 0, len(candidates))
	for _, c := range candidates {
		if counts[c] != f.cap {
			eligible = append(eligible, c)
		}
	}
	return eligible, nil
}
