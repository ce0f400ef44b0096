package evaluator

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"petwelfare/internal/models"
	"petwelfare/internal/repository"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedSource 按顺序返回预设值；用完后 Float64 返回 0.99（不触发），IntN 返回 0
type scriptedSource struct {
	floats []float64
	ints   []int
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedSource) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Send(ctx context.Context, title, body, token string) error {
	args := m.Called(ctx, title, body, token)
	return args.Error(0)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.WelfareEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event models.WelfareEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []models.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []models.EventType
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// failingStore 让 CreateEmergency 固定失败
type failingStore struct {
	*repository.MemoryStore
	err error
}

type failingEmergencies struct {
	repository.EmergencyRepository
	err error
}

func (f failingEmergencies) CreateEmergency(context.Context, *models.Emergency) error {
	return f.err
}

func (f failingStore) Emergencies() repository.EmergencyRepository {
	return failingEmergencies{EmergencyRepository: f.MemoryStore.Emergencies(), err: f.err}
}

func (f failingStore) InTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return f.MemoryStore.InTx(ctx, func(repository.Store) error { return fn(f) })
}

type fixture struct {
	store     *repository.MemoryStore
	source    *scriptedSource
	notifier  *mockNotifier
	publisher *recordingPublisher
	now       time.Time
	eval      *Evaluator
	owner     models.Owner
}

var seoul = mustLoad("Asia/Seoul")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// newFixture 当前时间固定为首尔时间 2026-10-19 hour:00
func newFixture(t *testing.T, hour int) *fixture {
	t.Helper()
	f := &fixture{
		store:     repository.NewMemoryStore(),
		source:    &scriptedSource{},
		notifier:  &mockNotifier{},
		publisher: &recordingPublisher{},
		now:       time.Date(2026, 10, 19, hour, 0, 0, 0, seoul),
		owner: models.Owner{
			ID: "owner-1", DogName: "Bori", DeviceToken: "token-1", Timezone: "Asia/Seoul",
			CreatedAt: time.Date(2026, 10, 1, 0, 0, 0, 0, seoul),
		},
	}
	f.store.AddOwner(f.owner)
	f.eval = f.build(f.store)
	return f
}

func (f *fixture) build(store repository.Store) *Evaluator {
	seq := 0
	return NewEvaluator(store, f.notifier, f.publisher, Options{
		Probability: 0.30,
		WeeklyCap:   3,
		Location:    time.UTC,
		Title:       "There are bad guardians",
		Source:      f.source,
		Clock:       func() time.Time { return f.now },
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
	}, zap.NewNop())
}

func (f *fixture) addEmergency(t *testing.T, id string, c models.Category, at time.Time) {
	t.Helper()
	require.NoError(t, f.store.Emergencies().CreateEmergency(context.Background(), &models.Emergency{
		ID: id, OwnerID: f.owner.ID, Category: c, CreatedAt: at, UpdatedAt: at,
	}))
}

func (f *fixture) expectSend(body string) {
	f.notifier.On("Send", mock.Anything, "There are bad guardians", body, "token-1").Return(nil).Once()
}
