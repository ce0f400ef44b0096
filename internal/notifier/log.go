package notifier

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier 只把推送写入日志（开发环境）
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier 创建日志推送
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send 记录推送内容
func (n *LogNotifier) Send(_ context.Context, title, body, token string) error {
	if token == "" {
		return ErrNoToken
	}
	n.logger.Info("Notification",
		zap.String("title", title),
		zap.String("body", body),
		zap.String("token", token),
	)
	return nil
}
