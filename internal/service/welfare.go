package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"petwelfare/internal/common/database"
	"petwelfare/internal/common/mqtt"
	"petwelfare/internal/common/redis"
	"petwelfare/internal/config"
	"petwelfare/internal/consumer"
	"petwelfare/internal/evaluator"
	"petwelfare/internal/notifier"
	"petwelfare/internal/repository"

	"go.uber.org/zap"
)

// WelfareService 关怀事件服务（整合各层）
type WelfareService struct {
	config      *config.Config
	db          *sql.DB
	redisClient *redis.Client
	mqttClient  *mqtt.Client
	logger      *zap.Logger

	// 各层组件
	store       repository.Store
	notifier    notifier.Notifier
	publisher   *consumer.StreamPublisher
	evaluator   *evaluator.Evaluator
	scheduler   *consumer.Scheduler
	emergencies *EmergencyService
	stress      *StressService
}

// NewWelfareService 创建关怀事件服务（连接 PostgreSQL、Redis，按配置选择推送通道）
func NewWelfareService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*WelfareService, error) {
	// 1. 连接数据库
	db, err := database.NewPostgresDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	// 2. 连接 Redis
	redisClient, err := redis.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		db.Close()
		return nil, err
	}

	// 3. 推送通道
	n, mqttClient, err := buildNotifier(cfg, logger)
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, err
	}

	s := newWelfareService(cfg, repository.NewPostgresStore(db, logger), redisClient, n, logger)
	s.db = db
	s.mqttClient = mqttClient
	return s, nil
}

// newWelfareService 组装各层组件
func newWelfareService(
	cfg *config.Config,
	store repository.Store,
	redisClient *redis.Client,
	n notifier.Notifier,
	logger *zap.Logger,
) *WelfareService {
	loc, err := time.LoadLocation(cfg.Welfare.DefaultTimezone)
	if err != nil {
		loc = time.UTC
	}

	publisher := consumer.NewStreamPublisher(redisClient, cfg.Welfare.EventStream, logger)

	eval := evaluator.NewEvaluator(store, n, publisher, evaluator.Options{
		Probability: cfg.Welfare.TriggerProbability,
		WeeklyCap:   cfg.Welfare.WeeklyCap,
		Location:    loc,
		Title:       cfg.Notify.Title,
	}, logger)

	scheduler := consumer.NewScheduler(
		cfg,
		store.Owners(),
		eval,
		consumer.NewOwnerLock(cfg, redisClient),
		consumer.NewTickMarker(cfg, redisClient),
		logger,
	)

	resolver := evaluator.NewResolver(store.Emergencies(), publisher, nil, logger)

	return &WelfareService{
		config:      cfg,
		redisClient: redisClient,
		logger:      logger,
		store:       store,
		notifier:    n,
		publisher:   publisher,
		evaluator:   eval,
		scheduler:   scheduler,
		emergencies: NewEmergencyService(store.Emergencies(), resolver, nil, logger),
		stress:      NewStressService(store.Stress(), store.Owners(), eval.Accumulator(), publisher, logger),
	}
}

// buildNotifier 按 NOTIFY_DRIVER 创建推送通道
func buildNotifier(cfg *config.Config, logger *zap.Logger) (notifier.Notifier, *mqtt.Client, error) {
	switch cfg.Notify.Driver {
	case "fcm":
		if cfg.Notify.FCMKey == "" {
			return nil, nil, fmt.Errorf("FCM_SERVER_KEY is required for fcm notifier")
		}
		return notifier.NewFCMNotifier(cfg.Notify.FCMEndpoint, cfg.Notify.FCMKey, cfg.Notify.Timeout, logger), nil, nil
	case "mqtt":
		client, err := mqtt.NewClient(&cfg.MQTT)
		if err != nil {
			return nil, nil, err
		}
		return notifier.NewMQTTNotifier(client, cfg.Notify.TopicPrefix, cfg.Notify.Timeout), client, nil
	default:
		return notifier.NewLogNotifier(logger), nil, nil
	}
}

// Emergencies 提醒服务
func (s *WelfareService) Emergencies() *EmergencyService { return s.emergencies }

// Stress 压力服务
func (s *WelfareService) Stress() *StressService { return s.stress }

// Scheduler 调度器（外部触发 RunMorning / RunEvening）
func (s *WelfareService) Scheduler() *consumer.Scheduler { return s.scheduler }

// Start 启动调度，ctx 取消时返回
func (s *WelfareService) Start(ctx context.Context) error {
	s.logger.Info("Starting welfare service",
		zap.String("notify_driver", s.config.Notify.Driver),
		zap.Float64("trigger_probability", s.config.Welfare.TriggerProbability),
	)

	if err := s.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	return nil
}

// Stop 停止服务
func (s *WelfareService) Stop() error {
	s.logger.Info("Stopping welfare service")

	if s.mqttClient != nil {
		s.mqttClient.Disconnect()
	}

	if err := database.Close(s.db); err != nil {
		s.logger.Error("Failed to close database", zap.Error(err))
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Error("Failed to close redis", zap.Error(err))
		}
	}

	return nil
}
