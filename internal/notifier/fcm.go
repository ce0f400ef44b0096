package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// fcmMessage FCM legacy HTTP 请求体
type fcmMessage struct {
	To           string          `json:"to"`
	Notification fcmNotification `json:"notification"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// fcmResponse FCM legacy HTTP 响应
type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
	Results []struct {
		MessageID string `json:"message_id"`
		Error     string `json:"error"`
	} `json:"results"`
}

// FCMNotifier 通过 FCM 推送到主人设备
type FCMNotifier struct {
	httpClient *resty.Client
	endpoint   string
	logger     *zap.Logger
}

// NewFCMNotifier 创建 FCM 推送
// 推送不重试，失败由调用方记录
func NewFCMNotifier(endpoint, serverKey string, timeout time.Duration, logger *zap.Logger) *FCMNotifier {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("Authorization", "key="+serverKey)

	return &FCMNotifier{
		httpClient: client,
		endpoint:   endpoint,
		logger:     logger,
	}
}

// Send 发送一条推送
func (n *FCMNotifier) Send(ctx context.Context, title, body, token string) error {
	if token == "" {
		return ErrNoToken
	}

	var response fcmResponse
	resp, err := n.httpClient.R().
		SetContext(ctx).
		SetBody(fcmMessage{
			To:           token,
			Notification: fcmNotification{Title: title, Body: body},
		}).
		SetResult(&response).
		Post(n.endpoint)
	if err != nil {
		return fmt.Errorf("failed to call FCM: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("FCM returned status %d: %s", resp.StatusCode(), resp.String())
	}

	if response.Failure > 0 {
		reason := "unknown"
		if len(response.Results) > 0 && response.Results[0].Error != "" {
			reason = response.Results[0].Error
		}
		return fmt.Errorf("FCM rejected message: %s", reason)
	}

	n.logger.Debug("FCM notification sent",
		zap.Int("success", response.Success),
	)
	return nil
}
