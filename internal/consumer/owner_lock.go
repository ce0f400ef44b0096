package consumer

import (
	"context"
	"fmt"
	"time"

	"petwelfare/internal/config"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// releaseScript 只删除自己持有的锁
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// OwnerLock 主人级互斥锁（Redis SET NX + TTL），保证同一主人同时只有一个 tick 在执行
type OwnerLock struct {
	redisClient *redis.Client
	prefix      string
	ttl         time.Duration
}

// NewOwnerLock 创建主人锁
func NewOwnerLock(cfg *config.Config, redisClient *redis.Client) *OwnerLock {
	return &OwnerLock{
		redisClient: redisClient,
		prefix:      cfg.Welfare.Cache.LockKeyPrefix,
		ttl:         cfg.Welfare.Cache.LockTTL,
	}
}

// Key 构建锁键
func (l *OwnerLock) Key(ownerID string) string {
	return l.prefix + ownerID
}

// Acquire 尝试加锁，返回持有者 token；已被占用时 ok=false
func (l *OwnerLock) Acquire(ctx context.Context, ownerID string) (token string, ok bool, err error) {
	token = uuid.NewString()
	ok, err = l.redisClient.SetNX(ctx, l.Key(ownerID), token, l.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire owner lock: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release 释放锁（token 不匹配时不做任何事）
func (l *OwnerLock) Release(ctx context.Context, ownerID, token string) error {
	if err := releaseScript.Run(ctx, l.redisClient, []string{l.Key(ownerID)}, token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("failed to release owner lock: %w", err)
	}
	return nil
}
