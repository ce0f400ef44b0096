package evaluator

import (
	"context"
	"fmt"
	"time"

	"petwelfare/internal/models"

	"go.uber.org/zap"
)

// CheckWalk 散步检查：08:00 后必提醒，当天无散步记录时追加 30 分
func (e *Evaluator) CheckWalk(ctx context.Context, owner models.Owner) (*Result, error) {
	return e.Check(ctx, owner, models.CategoryWalk)
}

// CheckBarking 吠叫检查：23:00 后必提醒，提醒时立即记 20 分，当天只提醒一次
func (e *Evaluator) CheckBarking(ctx context.Context, owner models.Owner) (*Result, error) {
	return e.Check(ctx, owner, models.CategoryBarking)
}

// CheckVomiting 呕吐检查：随机提醒并立即记 10 分，当天无花费记录时追加 30 分
func (e *Evaluator) CheckVomiting(ctx context.Context, owner models.Owner) (*Result, error) {
	return e.Check(ctx, owner, models.CategoryVomiting)
}

// Check 按类型配置执行一次当天的佐证检查
//
//  1. 当天已有该类型提醒：有佐证类型时查当天佐证记录，缺失则追加 EscalationPenalty；
//     佐证存在不会修改提醒状态。
//  2. 当天还没有提醒：随机命中或已到锚点小时则提醒，并记录 ImmediatePenalty（若有）。
func (e *Evaluator) Check(ctx context.Context, owner models.Owner, category models.Category) (*Result, error) {
	spec, ok := models.Spec(category)
	if !ok || spec.Group != models.GroupCorroboration {
		return nil, fmt.Errorf("%w: %s is not a corroboration category", models.ErrPreconditionViolation, category)
	}

	res := &Result{Owner: owner.ID, Group: spec.Group, Category: category}
	now := e.opts.Clock()
	loc := owner.Location(e.opts.Location)
	dayStart, dayEnd := models.DayBounds(now, loc)

	existing, err := e.store.Emergencies().ListEmergencies(ctx, owner.ID, models.EmergencyFilter{
		Category: &category,
		Since:    &dayStart,
		Until:    &now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query today's %s emergencies: %w", category, err)
	}

	if len(existing) > 0 {
		return e.escalate(ctx, owner, spec, dayStart, dayEnd, res)
	}

	// 先取随机值再判断锚点，每次 tick 都消耗一次随机数
	fire := e.selector.ShouldTrigger()
	if !fire && anchorReached(now, loc, spec.AnchorHour) {
		fire = true
	}
	if !fire {
		res.Outcome = OutcomeNotTriggered
		return res, nil
	}

	if err := e.raise(ctx, owner, spec, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (e *Evaluator) escalate(ctx context.Context, owner models.Owner, spec models.CategorySpec, dayStart, dayEnd time.Time, res *Result) (*Result, error) {
	if spec.Corroboration == "" || spec.EscalationPenalty <= 0 {
		res.Outcome = OutcomeAlreadyHandled
		return res, nil
	}

	activity, err := e.store.Activities().FindActivity(ctx, owner.ID, spec.Corroboration, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to query today's %s records: %w", spec.Corroboration, err)
	}
	if activity != nil {
		res.Outcome = OutcomeCorroborated
		return res, nil
	}

	stressCategory, ok := models.StressCategoryOf(spec.Category)
	if !ok {
		res.Outcome = OutcomeAlreadyHandled
		return res, nil
	}
	s, err := e.accumulator.RecordStress(ctx, owner.ID, stressCategory, spec.EscalationPenalty)
	if err != nil {
		return nil, fmt.Errorf("failed to record %s escalation: %w", spec.Category, err)
	}

	e.logger.Info("No corroborating record today, stress escalated",
		zap.String("owner_id", owner.ID),
		zap.String("category", string(spec.Category)),
		zap.String("activity", string(spec.Corroboration)),
		zap.Int("score", s.Score),
	)
	e.publishStress(ctx, s)

	res.Outcome = OutcomeEscalated
	res.Stress = s
	return res, nil
}

// anchorReached 本地时间按小时截断后是否已到锚点小时
func anchorReached(now time.Time, loc *time.Location, anchorHour int) bool {
	if anchorHour == models.NoAnchor {
		return false
	}
	return now.In(loc).Hour() >= anchorHour
}
