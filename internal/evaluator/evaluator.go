package evaluator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"petwelfare/internal/models"
	"petwelfare/internal/notifier"
	"petwelfare/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher 关怀事件下游发布（尽力而为）
type EventPublisher interface {
	Publish(ctx context.Context, event models.WelfareEvent) error
}

// Options 评估器参数，零值字段使用默认值
type Options struct {
	Probability float64        // 默认 0.30
	WeeklyCap   int            // 默认 3
	Location    *time.Location // 主人未设置时区时使用，默认 UTC
	Title       string         // 推送标题

	Source RandomSource
	Clock  func() time.Time
	NewID  func() string
}

func (o *Options) applyDefaults() {
	if o.Probability == 0 {
		o.Probability = 0.30
	}
	if o.WeeklyCap == 0 {
		o.WeeklyCap = 3
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
}

// Evaluator 关怀事件评估器
type Evaluator struct {
	store       repository.Store
	selector    *Selector
	capFilter   *CapFilter
	accumulator *Accumulator
	notifier    notifier.Notifier
	publisher   EventPublisher
	opts        Options
	logger      *zap.Logger
}

// NewEvaluator 创建评估器；publisher 可以为 nil
func NewEvaluator(
	store repository.Store,
	n notifier.Notifier,
	publisher EventPublisher,
	opts Options,
	logger *zap.Logger,
) *Evaluator {
	opts.applyDefaults()
	return &Evaluator{
		store:       store,
		selector:    NewSelector(opts.Source, opts.Probability),
		capFilter:   NewCapFilter(store.Emergencies(), opts.WeeklyCap),
		accumulator: NewAccumulator(store.Stress(), opts.Clock, opts.NewID),
		notifier:    n,
		publisher:   publisher,
		opts:        opts,
		logger:      logger,
	}
}

// Selector 暴露随机选择器
func (e *Evaluator) Selector() *Selector { return e.selector }

// CapFilter 暴露周上限过滤器
func (e *Evaluator) CapFilter() *CapFilter { return e.capFilter }

// Accumulator 暴露压力累加器
func (e *Evaluator) Accumulator() *Accumulator { return e.accumulator }

// Outcome 一次 sweep / check 的结果
type Outcome string

const (
	OutcomeNotTriggered   Outcome = "not_triggered"   // 随机未命中
	OutcomeNoEligible     Outcome = "no_eligible"     // 所有候选都被周上限排除
	OutcomeRaised         Outcome = "raised"          // 新建提醒
	OutcomeEscalated      Outcome = "escalated"       // 当天已提醒且无佐证，追加压力
	OutcomeCorroborated   Outcome = "corroborated"    // 当天已提醒且有佐证
	OutcomeAlreadyHandled Outcome = "already_handled" // 当天已提醒且无需再检查
)

// Result sweep / check 的执行结果
type Result struct {
	Owner     string
	Group     models.Group
	Category  models.Category
	Outcome   Outcome
	Emergency *models.Emergency
	Stress    *models.Stress
	Notified  bool
}

// MorningSweep 早间组随机提醒
func (e *Evaluator) MorningSweep(ctx context.Context, owner models.Owner) (*Result, error) {
	return e.sweep(ctx, owner, models.GroupMorning)
}

// EveningSweep 晚间组随机提醒
func (e *Evaluator) EveningSweep(ctx context.Context, owner models.Owner) (*Result, error) {
	return e.sweep(ctx, owner, models.GroupEvening)
}

// sweep 随机触发 -> 周上限过滤 -> 选择类型 -> 写入 -> 推送
func (e *Evaluator) sweep(ctx context.Context, owner models.Owner, group models.Group) (*Result, error) {
	res := &Result{Owner: owner.ID, Group: group}

	if !e.selector.ShouldTrigger() {
		res.Outcome = OutcomeNotTriggered
		return res, nil
	}

	eligible, err := e.capFilter.EligibleCategories(ctx, owner.ID, models.CategoriesOf(group), e.opts.Clock())
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		e.logger.Debug("All categories capped for this week",
			zap.String("owner_id", owner.ID),
			zap.String("group", string(group)),
		)
		res.Outcome = OutcomeNoEligible
		return res, nil
	}

	category, err := e.selector.PickCategory(eligible)
	if err != nil {
		return nil, err
	}
	res.Category = category

	if err := e.raise(ctx, owner, models.MustSpec(category), res); err != nil {
		return nil, err
	}
	return res, nil
}

// raise 在一个事务中写入提醒和即时压力，成功后再推送与发布事件
func (e *Evaluator) raise(ctx context.Context, owner models.Owner, spec models.CategorySpec, res *Result) error {
	now := e.opts.Clock()
	emergency := &models.Emergency{
		ID:        e.opts.NewID(),
		OwnerID:   owner.ID,
		Category:  spec.Category,
		Solved:    false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var stress *models.Stress
	err := e.store.InTx(ctx, func(tx repository.Store) error {
		if err := tx.Emergencies().CreateEmergency(ctx, emergency); err != nil {
			return err
		}
		if spec.ImmediatePenalty <= 0 {
			return nil
		}
		stressCategory, ok := models.StressCategoryOf(spec.Category)
		if !ok {
			return nil
		}
		s, err := e.accumulator.with(tx.Stress()).RecordStress(ctx, owner.ID, stressCategory, spec.ImmediatePenalty)
		if err != nil {
			return err
		}
		stress = s
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to raise %s emergency: %w", spec.Category, err)
	}

	res.Outcome = OutcomeRaised
	res.Category = spec.Category
	res.Emergency = emergency
	res.Stress = stress

	e.logger.Info("Emergency raised",
		zap.String("owner_id", owner.ID),
		zap.String("emergency_id", emergency.ID),
		zap.String("category", string(spec.Category)),
		zap.Int("immediate_penalty", spec.ImmediatePenalty),
	)

	res.Notified = e.notify(ctx, owner, spec)

	e.publish(ctx, models.WelfareEvent{
		Type:        models.EventEmergencyRaised,
		OwnerID:     owner.ID,
		Category:    string(spec.Category),
		EmergencyID: emergency.ID,
		OccurredAt:  now,
	})
	if stress != nil {
		e.publishStress(ctx, stress)
	}
	return nil
}

// notify 推送失败只记录日志
func (e *Evaluator) notify(ctx context.Context, owner models.Owner, spec models.CategorySpec) bool {
	if e.notifier == nil {
		return false
	}
	if owner.DeviceToken == "" {
		e.logger.Warn("Owner has no device token, skip notification",
			zap.String("owner_id", owner.ID),
			zap.String("category", string(spec.Category)),
		)
		return false
	}

	if err := e.notifier.Send(ctx, e.opts.Title, spec.Body(owner.DogName), owner.DeviceToken); err != nil {
		e.logger.Error("Failed to send notification",
			zap.String("owner_id", owner.ID),
			zap.String("category", string(spec.Category)),
			zap.Error(err),
		)
		return false
	}
	return true
}

func (e *Evaluator) publish(ctx context.Context, event models.WelfareEvent) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.Warn("Failed to publish welfare event",
			zap.String("type", string(event.Type)),
			zap.String("owner_id", event.OwnerID),
			zap.Error(err),
		)
	}
}

func (e *Evaluator) publishStress(ctx context.Context, s *models.Stress) {
	e.publish(ctx, models.WelfareEvent{
		Type:       models.EventStressRecorded,
		OwnerID:    s.OwnerID,
		Category:   string(s.Category),
		StressID:   s.ID,
		Score:      s.Score,
		OccurredAt: s.CreatedAt,
	})
}

// CorroborationChecks 依次执行散步、吠叫、呕吐检查，单项失败不影响其他项
func (e *Evaluator) CorroborationChecks(ctx context.Context, owner models.Owner) ([]*Result, error) {
	var results []*Result
	var errs []error
	for _, c := range models.CategoriesOf(models.GroupCorroboration) {
		res, err := e.Check(ctx, owner, c)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}
