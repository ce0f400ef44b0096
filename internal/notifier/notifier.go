package notifier

import (
	"context"
	"errors"
)

// ErrNoToken 主人没有可用的推送 token
var ErrNoToken = errors.New("destination token is empty")

// Notifier 推送通道
// 发送失败只返回错误，不负责重试
type Notifier interface {
	Send(ctx context.Context, title, body, token string) error
}
