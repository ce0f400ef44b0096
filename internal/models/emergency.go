package models

import "time"

// Emergency 一次关怀提醒（对应 emergencies 表）
// Solved 只会被主人确认（Resolve）翻转，佐证记录不会自动解决
type Emergency struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	Category  Category  `json:"category" db:"category"`
	Solved    bool      `json:"solved" db:"solved"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// EmergencyFilter 查询条件，零值字段不参与过滤
type EmergencyFilter struct {
	Category *Category
	Since    *time.Time // created_at >= Since
	Until    *time.Time // created_at <= Until
	Solved   *bool
}
