package models

import "time"

// EventType 对外发布的关怀事件类型
type EventType string

const (
	EventEmergencyRaised   EventType = "emergency_raised"
	EventEmergencyResolved EventType = "emergency_resolved"
	EventStressRecorded    EventType = "stress_recorded"
)

// WelfareEvent 写入事件流的消息体
type WelfareEvent struct {
	Type        EventType `json:"type"`
	OwnerID     string    `json:"owner_id"`
	Category    string    `json:"category"`
	EmergencyID string    `json:"emergency_id,omitempty"`
	StressID    string    `json:"stress_id,omitempty"`
	Score       int       `json:"score,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
