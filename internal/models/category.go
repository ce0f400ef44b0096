package models

import "fmt"

// Category 关怀事件类型（Emergency type）
type Category string

const (
	CategoryPoop        Category = "POOP"
	CategoryStomachache Category = "STOMACHACHE"
	CategoryAnxiety     Category = "ANXIETY"
	CategoryDepression  Category = "DEPRESSION"
	CategoryCrush       Category = "CRUSH"
	CategoryBite        Category = "BITE"
	CategoryWalk        Category = "WALK"
	CategoryBarking     Category = "BARKING"
	CategoryVomiting    Category = "VOMITING"
)

// Group 调度分组
type Group string

const (
	GroupMorning       Group = "morning"
	GroupEvening       Group = "evening"
	GroupCorroboration Group = "corroboration"
)

// NoAnchor 表示该类型没有固定提醒小时
const NoAnchor = -1

// CategorySpec 类型的静态配置（分组、扣分、锚点小时、佐证记录、消息模板）
type CategorySpec struct {
	Category Category
	Group    Group

	// ImmediatePenalty 发送提醒时立即记录的压力分，0 表示不记录
	ImmediatePenalty int
	// EscalationPenalty 已提醒且当天无佐证记录时追加的压力分
	EscalationPenalty int
	// AnchorHour 到达该本地小时后无论随机结果都会提醒
	AnchorHour int
	// Corroboration 能抵消该提醒的活动记录类型，空表示无需佐证
	Corroboration ActivityKind

	// Message 推送正文模板，%s 为狗狗名字
	Message string
}

// Body 生成推送正文
func (s CategorySpec) Body(dogName string) string {
	if dogName == "" {
		dogName = "Your dog"
	}
	return fmt.Sprintf(s.Message, dogName)
}

var catalog = map[Category]CategorySpec{
	CategoryPoop: {
		Category: CategoryPoop, Group: GroupMorning, ImmediatePenalty: 10, AnchorHour: NoAnchor,
		Message: "%s left a mess, something smells at home",
	},
	CategoryStomachache: {
		Category: CategoryStomachache, Group: GroupMorning, ImmediatePenalty: 10, AnchorHour: NoAnchor,
		Message: "%s seems to be in pain",
	},
	CategoryAnxiety: {
		Category: CategoryAnxiety, Group: GroupMorning, ImmediatePenalty: 10, AnchorHour: NoAnchor,
		Message: "%s feels anxious because of outside noise",
	},
	CategoryDepression: {
		Category: CategoryDepression, Group: GroupMorning, ImmediatePenalty: 10, AnchorHour: NoAnchor,
		Message: "%s feels lethargic",
	},
	CategoryCrush: {
		Category: CategoryCrush, Group: GroupEvening, AnchorHour: NoAnchor,
		Message: "%s is not sleeping",
	},
	CategoryBite: {
		Category: CategoryBite, Group: GroupEvening, AnchorHour: NoAnchor,
		Message: "%s bit someone!",
	},
	CategoryWalk: {
		Category: CategoryWalk, Group: GroupCorroboration, EscalationPenalty: 30, AnchorHour: 8,
		Corroboration: ActivityWalk,
		Message:       "%s wants to go for a walk",
	},
	CategoryBarking: {
		Category: CategoryBarking, Group: GroupCorroboration, ImmediatePenalty: 20, AnchorHour: 23,
		Message: "%s is barking, the neighbours may complain",
	},
	CategoryVomiting: {
		Category: CategoryVomiting, Group: GroupCorroboration, ImmediatePenalty: 10, EscalationPenalty: 30,
		AnchorHour: NoAnchor, Corroboration: ActivityExpense,
		Message: "%s is not in good shape",
	},
}

// groupOrder 保证同组候选顺序稳定
var groupOrder = map[Group][]Category{
	GroupMorning:       {CategoryPoop, CategoryStomachache, CategoryAnxiety, CategoryDepression},
	GroupEvening:       {CategoryCrush, CategoryBite},
	GroupCorroboration: {CategoryWalk, CategoryBarking, CategoryVomiting},
}

// Spec 返回类型配置
func Spec(c Category) (CategorySpec, bool) {
	s, ok := catalog[c]
	return s, ok
}

// MustSpec 返回已知类型的配置，未知类型 panic（仅用于代码内常量）
func MustSpec(c Category) CategorySpec {
	s, ok := catalog[c]
	if !ok {
		panic(fmt.Sprintf("unknown category %q", c))
	}
	return s
}

// CategoriesOf 返回分组下的类型（新切片，调用方可修改）
func CategoriesOf(g Group) []Category {
	return append([]Category(nil), groupOrder[g]...)
}

// AllCategories 返回全部类型
func AllCategories() []Category {
	var all []Category
	for _, g := range []Group{GroupMorning, GroupEvening, GroupCorroboration} {
		all = append(all, groupOrder[g]...)
	}
	return all
}

// ParseCategory 解析类型字符串
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if _, ok := catalog[c]; !ok {
		return "", fmt.Errorf("unknown emergency category %q", s)
	}
	return c, nil
}
