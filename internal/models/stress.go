package models

import (
	"fmt"
	"time"
)

// StressCategory 压力类型，与 Category 部分重合
type StressCategory string

const (
	StressPoop        StressCategory = "POOP"
	StressStomachache StressCategory = "STOMACHACHE"
	StressAnxiety     StressCategory = "ANXIETY"
	StressDepression  StressCategory = "DEPRESSION"
	StressWalk        StressCategory = "WALK"
	StressBarking     StressCategory = "BARKING"
	StressVomiting    StressCategory = "VOMITING"
)

var stressCategories = map[StressCategory]bool{
	StressPoop: true, StressStomachache: true, StressAnxiety: true, StressDepression: true,
	StressWalk: true, StressBarking: true, StressVomiting: true,
}

// StressCategoryOf 返回关怀类型对应的压力类型；CRUSH/BITE 没有
func StressCategoryOf(c Category) (StressCategory, bool) {
	sc := StressCategory(c)
	return sc, stressCategories[sc]
}

// ParseStressCategory 解析压力类型
func ParseStressCategory(s string) (StressCategory, error) {
	sc := StressCategory(s)
	if !stressCategories[sc] {
		return "", fmt.Errorf("unknown stress category %q", s)
	}
	return sc, nil
}

// Stress 一条压力记录（只追加）
type Stress struct {
	ID        string         `json:"id" db:"id"`
	OwnerID   string         `json:"owner_id" db:"owner_id"`
	Category  StressCategory `json:"category" db:"category"`
	Score     int            `json:"score" db:"score"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

// SumScores 累加压力分
func SumScores(records []Stress) int {
	total := 0
	for _, r := range records {
		total += r.Score
	}
	return total
}
