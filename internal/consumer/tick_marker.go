package consumer

import (
	"context"
	"fmt"
	"time"

	"petwelfare/internal/config"
	"petwelfare/internal/models"

	"github.com/go-redis/redis/v8"
)

// markerTTL 标记保留两天，覆盖任意时区的当天
const markerTTL = 48 * time.Hour

// TickMarker 每个主人每组每个本地日期只执行一次 sweep
type TickMarker struct {
	redisClient *redis.Client
	prefix      string
}

// NewTickMarker 创建 sweep 标记
func NewTickMarker(cfg *config.Config, redisClient *redis.Client) *TickMarker {
	return &TickMarker{
		redisClient: redisClient,
		prefix:      cfg.Welfare.Cache.MarkerKeyPrefix,
	}
}

// Key 构建标记键，如 welfare:tick:owner-1:morning:2026-10-19
func (m *TickMarker) Key(ownerID string, group models.Group, localDate time.Time) string {
	return fmt.Sprintf("%s%s:%s:%s", m.prefix, ownerID, group, localDate.Format("2006-01-02"))
}

// Claim 设置标记，值为调度时刻（localNow）；当天已经标记过返回 false
func (m *TickMarker) Claim(ctx context.Context, ownerID string, group models.Group, localNow time.Time) (bool, error) {
	ok, err := m.redisClient.SetNX(ctx, m.Key(ownerID, group, localNow), localNow.Unix(), markerTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set tick marker: %w", err)
	}
	return ok, nil
}

// Clear 删除标记（sweep 写入失败时允许下一个 tick 重试）
func (m *TickMarker) Clear(ctx context.Context, ownerID string, group models.Group, localDate time.Time) error {
	if err := m.redisClient.Del(ctx, m.Key(ownerID, group, localDate)).Err(); err != nil {
		return fmt.Errorf("failed to clear tick marker: %w", err)
	}
	return nil
}
