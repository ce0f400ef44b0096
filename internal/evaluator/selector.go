package evaluator

import (
	"fmt"
	"math/rand"

	"petwelfare/internal/models"
)

// RandomSource 随机数来源，测试中可替换为确定性实现
type RandomSource interface {
	// Float64 返回 [0,1) 内的均匀随机数
	Float64() float64
	// IntN 返回 [0,n) 内的均匀随机整数
	IntN(n int) int
}

type runtimeSource struct{}

func (runtimeSource) Float64() float64 { return rand.Float64() }
func (runtimeSource) IntN(n int) int   { return rand.Intn(n) }

// DefaultSource 使用运行时自动播种的全局生成器，不保存任何种子状态
func DefaultSource() RandomSource {
	return runtimeSource{}
}

// Selector 随机触发与类型选择
type Selector struct {
	source      RandomSource
	probability float64
}

// NewSelector 创建 Selector；source 为 nil 时使用 DefaultSource
func NewSelector(source RandomSource, probability float64) *Selector {
	if source == nil {
		source = DefaultSource()
	}
	return &Selector{source: source, probability: probability}
}

// ShouldTrigger 本次 tick 是否触发（随机值严格小于概率时为 true）
func (s *Selector) ShouldTrigger() bool {
	return s.source.Float64() < s.probability
}

// PickCategory 在候选中均匀选择一个；候选为空属于调用方错误
func (s *Selector) PickCategory(candidates []models.Category) (models.Category, error) {
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: pick from empty candidate set", models.ErrPreconditionViolation)
	}
	return candidates[s.source.IntN(len(candidates))], nil
}
