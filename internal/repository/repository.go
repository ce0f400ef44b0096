package repository

import (
	"context"
	"time"

	"petwelfare/internal/models"
)

// EmergencyRepository 关怀提醒仓库（所有操作按 owner_id 限定）
type EmergencyRepository interface {
	// ListEmergencies 按 created_at 倒序返回
	ListEmergencies(ctx context.Context, ownerID string, filter models.EmergencyFilter) ([]models.Emergency, error)
	// CountByCategory 统计 [since, until] 内各类型数量，未出现的类型不在结果中
	CountByCategory(ctx context.Context, ownerID string, since, until time.Time) (map[models.Category]int, error)
	CreateEmergency(ctx context.Context, e *models.Emergency) error
	GetEmergency(ctx context.Context, ownerID, id string) (*models.Emergency, error)
	// MarkSolved 置 solved=true 并刷新 updated_at；不属于该主人时返回 ErrNotFound
	MarkSolved(ctx context.Context, ownerID, id string, at time.Time) (*models.Emergency, error)
}

// StressRepository 压力记录仓库（只追加）
type StressRepository interface {
	CreateStress(ctx context.Context, s *models.Stress) error
	// ListStress 按 created_at 正序返回，since/until 为 nil 时不限制
	ListStress(ctx context.Context, ownerID string, since, until *time.Time) ([]models.Stress, error)
}

// ActivityRepository 佐证活动记录（只读）
type ActivityRepository interface {
	// FindActivity 返回 [from, to) 内最新一条记录，没有时返回 nil, nil
	FindActivity(ctx context.Context, ownerID string, kind models.ActivityKind, from, to time.Time) (*models.Activity, error)
}

// OwnerRepository 主人信息（只读）
type OwnerRepository interface {
	GetOwner(ctx context.Context, id string) (*models.Owner, error)
	// ListOwners 按 id 升序分页，afterID 为空时从头开始
	ListOwners(ctx context.Context, afterID string, limit int) ([]models.Owner, error)
}

// Store 聚合各仓库，并提供事务边界
type Store interface {
	Emergencies() EmergencyRepository
	Stress() StressRepository
	Activities() ActivityRepository
	Owners() OwnerRepository

	// InTx 在同一事务中执行 fn；fn 返回错误时回滚
	InTx(ctx context.Context, fn func(tx Store) error) error
}
