package consumer

import (
	"context"
	"testing"
	"time"

	"petwelfare/internal/config"
	"petwelfare/internal/evaluator"
	"petwelfare/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/mock"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Welfare.DefaultTimezone = "Asia/Seoul"
	cfg.Welfare.MorningHour = 9
	cfg.Welfare.EveningHour = 21
	cfg.Welfare.PollInterval = time.Hour
	cfg.Welfare.OperationTimeout = 5 * time.Second
	cfg.Welfare.BatchSize = 2
	cfg.Welfare.Cache.LockKeyPrefix = "welfare:lock:"
	cfg.Welfare.Cache.LockTTL = 5 * time.Minute
	cfg.Welfare.Cache.MarkerKeyPrefix = "welfare:tick:"
	cfg.Welfare.EventStream = "welfare:events"
	return cfg
}

type mockSweeper struct {
	mock.Mock
}

func (m *mockSweeper) MorningSweep(ctx context.Context, owner models.Owner) (*evaluator.Result, error) {
	args := m.Called(ctx, owner)
	res, _ := args.Get(0).(*evaluator.Result)
	return res, args.Error(1)
}

func (m *mockSweeper) EveningSweep(ctx context.Context, owner models.Owner) (*evaluator.Result, error) {
	args := m.Called(ctx, owner)
	res, _ := args.Get(0).(*evaluator.Result)
	return res, args.Error(1)
}

func (m *mockSweeper) CorroborationChecks(ctx context.Context, owner models.Owner) ([]*evaluator.Result, error) {
	args := m.Called(ctx, owner)
	res, _ := args.Get(0).([]*evaluator.Result)
	return res, args.Error(1)
}
