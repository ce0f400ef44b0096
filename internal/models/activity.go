package models

import "time"

// ActivityKind 佐证活动类型
type ActivityKind string

const (
	ActivityWalk          ActivityKind = "WALK"
	ActivityExpense       ActivityKind = "EXPENSE"
	ActivityBrushingTeeth ActivityKind = "BRUSHING_TEETH"
)

// Activity 主人上报的活动记录（散步、花费、刷牙），引擎只读
type Activity struct {
	ID        string       `json:"id"`
	OwnerID   string       `json:"owner_id"`
	Kind      ActivityKind `json:"kind"`
	CreatedAt time.Time    `json:"created_at"`
}
