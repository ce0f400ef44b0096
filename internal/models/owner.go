package models

import "time"

// Owner 主人（照护者）
type Owner struct {
	ID          string    `json:"id" db:"id"`
	Email       string    `json:"email" db:"email"`
	DogName     string    `json:"dog_name" db:"dog_name"`
	DeviceToken string    `json:"-" db:"device_token"`
	Timezone    string    `json:"timezone" db:"timezone"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Location 返回主人所在时区，无效或为空时使用 fallback
func (o Owner) Location(fallback *time.Location) *time.Location {
	if o.Timezone != "" {
		if loc, err := time.LoadLocation(o.Timezone); err == nil {
			return loc
		}
	}
	if fallback == nil {
		return time.UTC
	}
	return fallback
}
