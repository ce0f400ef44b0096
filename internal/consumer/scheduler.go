package consumer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"petwelfare/internal/config"
	"petwelfare/internal/evaluator"
	"petwelfare/internal/models"
	"petwelfare/internal/repository"

	"go.uber.org/zap"
)

// ErrOwnerBusy 主人的另一个 tick 正在执行
var ErrOwnerBusy = errors.New("owner is being evaluated by another worker")

// Sweeper 关怀事件评估接口（evaluator.Evaluator 实现）
type Sweeper interface {
	MorningSweep(ctx context.Context, owner models.Owner) (*evaluator.Result, error)
	EveningSweep(ctx context.Context, owner models.Owner) (*evaluator.Result, error)
	CorroborationChecks(ctx context.Context, owner models.Owner) ([]*evaluator.Result, error)
}

// Scheduler 轮询所有主人并按本地时间执行 sweep / 佐证检查
type Scheduler struct {
	config     *config.Config
	owners     repository.OwnerRepository
	sweeper    Sweeper
	lock       *OwnerLock
	marker     *TickMarker
	defaultLoc *time.Location
	clock      func() time.Time
	logger     *zap.Logger
}

// NewScheduler 创建调度器
func NewScheduler(
	cfg *config.Config,
	owners repository.OwnerRepository,
	sweeper Sweeper,
	lock *OwnerLock,
	marker *TickMarker,
	logger *zap.Logger,
) *Scheduler {
	loc, err := time.LoadLocation(cfg.Welfare.DefaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	return &Scheduler{
		config:     cfg,
		owners:     owners,
		sweeper:    sweeper,
		lock:       lock,
		marker:     marker,
		defaultLoc: loc,
		clock:      time.Now,
		logger:     logger,
	}
}

// Start 启动调度（轮询模式），ctx 取消时返回
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("Welfare scheduler started",
		zap.Duration("poll_interval", s.config.Welfare.PollInterval),
		zap.Int("morning_hour", s.config.Welfare.MorningHour),
		zap.Int("evening_hour", s.config.Welfare.EveningHour),
	)

	ticker := time.NewTicker(s.config.Welfare.PollInterval)
	defer ticker.Stop()

	// 立即执行一次
	if err := s.Tick(ctx); err != nil {
		s.logger.Error("Failed to run tick on startup", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Welfare scheduler stopped")
			return nil
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				s.logger.Error("Failed to run tick", zap.Error(err))
			}
		}
	}
}

// Tick 分批处理所有主人，单个主人失败不影响其他主人
func (s *Scheduler) Tick(ctx context.Context) error {
	batchSize := s.config.Welfare.BatchSize
	afterID := ""
	processed := 0

	for {
		owners, err := s.owners.ListOwners(ctx, afterID, batchSize)
		if err != nil {
			return fmt.Errorf("failed to list owners: %w", err)
		}
		if len(owners) == 0 {
			break
		}

		for _, owner := range owners {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if err := s.processOwner(ctx, owner); err != nil {
				s.logger.Error("Failed to process owner",
					zap.String("owner_id", owner.ID),
					zap.Error(err),
				)
			}
			processed++
		}

		afterID = owners[len(owners)-1].ID
		if len(owners) < batchSize {
			break
		}
	}

	s.logger.Debug("Tick finished", zap.Int("owner_count", processed))
	return nil
}

// processOwner 对一个主人执行一次 tick
func (s *Scheduler) processOwner(ctx context.Context, owner models.Owner) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.Welfare.OperationTimeout)
	defer cancel()

	release, err := s.acquire(ctx, owner.ID)
	if err != nil {
		if errors.Is(err, ErrOwnerBusy) {
			s.logger.Debug("Owner locked, skip", zap.String("owner_id", owner.ID))
			return nil
		}
		return err
	}
	defer release()

	var errs []error
	if _, err := s.sweeper.CorroborationChecks(ctx, owner); err != nil {
		errs = append(errs, err)
	}

	now := s.clock().In(owner.Location(s.defaultLoc))
	switch now.Hour() {
	case s.config.Welfare.MorningHour:
		errs = append(errs, s.scheduledSweep(ctx, owner, models.GroupMorning, now, s.sweeper.MorningSweep))
	case s.config.Welfare.EveningHour:
		errs = append(errs, s.scheduledSweep(ctx, owner, models.GroupEvening, now, s.sweeper.EveningSweep))
	}
	return errors.Join(errs...)
}

type sweepFunc func(ctx context.Context, owner models.Owner) (*evaluator.Result, error)

// scheduledSweep 当天该组尚未执行时执行一次
func (s *Scheduler) scheduledSweep(ctx context.Context, owner models.Owner, group models.Group, localNow time.Time, sweep sweepFunc) error {
	claimed, err := s.marker.Claim(ctx, owner.ID, group, localNow)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}

	res, err := sweep(ctx, owner)
	if err != nil {
		if clearErr := s.marker.Clear(ctx, owner.ID, group, localNow); clearErr != nil {
			s.logger.Warn("Failed to clear tick marker",
				zap.String("owner_id", owner.ID),
				zap.Error(clearErr),
			)
		}
		return fmt.Errorf("%s sweep failed: %w", group, err)
	}

	s.logger.Info("Sweep finished",
		zap.String("owner_id", owner.ID),
		zap.String("group", string(group)),
		zap.String("outcome", string(res.Outcome)),
		zap.String("category", string(res.Category)),
	)
	return nil
}

// RunMorning 立即为指定主人执行早间 sweep（外部调度入口，不检查当天标记）
func (s *Scheduler) RunMorning(ctx context.Context, ownerID string) (*evaluator.Result, error) {
	return s.runNow(ctx, ownerID, s.sweeper.MorningSweep)
}

// RunEvening 立即为指定主人执行晚间 sweep
func (s *Scheduler) RunEvening(ctx context.Context, ownerID string) (*evaluator.Result, error) {
	return s.runNow(ctx, ownerID, s.sweeper.EveningSweep)
}

func (s *Scheduler) runNow(ctx context.Context, ownerID string, sweep sweepFunc) (*evaluator.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Welfare.OperationTimeout)
	defer cancel()

	owner, err := s.owners.GetOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	release, err := s.acquire(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	return sweep(ctx, *owner)
}

// acquire 获取主人锁，返回释放函数
func (s *Scheduler) acquire(ctx context.Context, ownerID string) (func(), error) {
	token, ok, err := s.lock.Acquire(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrOwnerBusy
	}
	return func() {
		// 超时后的 ctx 可能已取消，释放锁使用独立的 ctx
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := s.lock.Release(releaseCtx, ownerID, token); err != nil {
			s.logger.Warn("Failed to release owner lock",
				zap.String("owner_id", ownerID),
				zap.Error(err),
			)
		}
	}, nil
}
