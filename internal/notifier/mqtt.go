package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Publisher MQTT 发布接口（common/mqtt.Client 实现）
type Publisher interface {
	Publish(topic string, retained bool, payload []byte, timeout time.Duration) error
}

// mqttPayload MQTT 推送消息体
type mqttPayload struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	SentAt int64  `json:"sent_at"`
}

// MQTTNotifier 通过 MQTT 主题 {prefix}/{token} 推送给设备
type MQTTNotifier struct {
	publisher   Publisher
	topicPrefix string
	timeout     time.Duration
	clock       func() time.Time
}

// NewMQTTNotifier 创建 MQTT 推送
func NewMQTTNotifier(publisher Publisher, topicPrefix string, timeout time.Duration) *MQTTNotifier {
	return &MQTTNotifier{
		publisher:   publisher,
		topicPrefix: topicPrefix,
		timeout:     timeout,
		clock:       time.Now,
	}
}

// Topic 返回设备的推送主题
func (n *MQTTNotifier) Topic(token string) string {
	return fmt.Sprintf("%s/%s", n.topicPrefix, token)
}

// Send 发送一条推送
func (n *MQTTNotifier) Send(ctx context.Context, title, body, token string) error {
	if token == "" {
		return ErrNoToken
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(mqttPayload{
		Title:  title,
		Body:   body,
		SentAt: n.clock().Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	return n.publisher.Publish(n.Topic(token), false, payload, n.timeout)
}
