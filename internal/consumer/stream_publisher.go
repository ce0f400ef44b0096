package consumer

import (
	"context"

	"petwelfare/internal/common/redis"
	"petwelfare/internal/models"

	"go.uber.org/zap"
)

// streamMaxLen 事件流近似保留长度
const streamMaxLen = 10000

// StreamPublisher 把关怀事件写入 Redis Stream，供下游服务消费
type StreamPublisher struct {
	redisClient *redis.Client
	stream      string
	logger      *zap.Logger
}

// NewStreamPublisher 创建事件发布器
func NewStreamPublisher(redisClient *redis.Client, stream string, logger *zap.Logger) *StreamPublisher {
	return &StreamPublisher{
		redisClient: redisClient,
		stream:      stream,
		logger:      logger,
	}
}

// Publish 发布事件
func (p *StreamPublisher) Publish(ctx context.Context, event models.WelfareEvent) error {
	id, err := redis.PublishJSONToStream(ctx, p.redisClient, p.stream, string(event.Type), event, streamMaxLen)
	if err != nil {
		return err
	}
	p.logger.Debug("Welfare event published",
		zap.String("stream", p.stream),
		zap.String("message_id", id),
		zap.String("type", string(event.Type)),
	)
	return nil
}
