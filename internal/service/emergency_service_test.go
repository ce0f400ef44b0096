package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"petwelfare/internal/evaluator"
	"petwelfare/internal/models"
	"petwelfare/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newEmergencyService(store *repository.MemoryStore) *EmergencyService {
	clock := func() time.Time { return testNow }
	resolver := evaluator.NewResolver(store.Emergencies(), nil, clock, zap.NewNop())
	return NewEmergencyService(store.Emergencies(), resolver, clock, zap.NewNop())
}

func addEmergency(t *testing.T, store *repository.MemoryStore, id, ownerID string, c models.Category, at time.Time, solved bool) {
	t.Helper()
	require.NoError(t, store.Emergencies().CreateEmergency(context.Background(), &models.Emergency{
		ID: id, OwnerID: ownerID, Category: c, Solved: solved, CreatedAt: at, UpdatedAt: at,
	}))
}

func TestEmergencyService_LatestUnsolved(t *testing.T) {
	store := repository.NewMemoryStore()
	addEmergency(t, store, "p-old", "owner-1", models.CategoryPoop, testNow.Add(-48*time.Hour), false)
	addEmergency(t, store, "p-new", "owner-1", models.CategoryPoop, testNow.Add(-2*time.Hour), false)
	addEmergency(t, store, "b-solved", "owner-1", models.CategoryBite, testNow.Add(-time.Hour), true)
	addEmergency(t, store, "w-stale", "owner-1", models.CategoryWalk, testNow.Add(-8*24*time.Hour), false)
	addEmergency(t, store, "v-other", "owner-2", models.CategoryVomiting, testNow.Add(-time.Hour), false)

	latest, err := newEmergencyService(store).LatestUnsolved(context.Background(), "owner-1")
	require.NoError(t, err)

	require.Len(t, latest, 1)
	assert.Equal(t, "p-new", latest[models.CategoryPoop].ID)
}

func TestEmergencyService_LatestUnsolvedEmpty(t *testing.T) {
	latest, err := newEmergencyService(repository.NewMemoryStore()).LatestUnsolved(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Empty(t, latest)

	_, err = newEmergencyService(repository.NewMemoryStore()).LatestUnsolved(context.Background(), "")
	assert.True(t, errors.Is(err, models.ErrPreconditionViolation))
}

func TestEmergencyService_Resolve(t *testing.T) {
	store := repository.NewMemoryStore()
	addEmergency(t, store, "e-1", "owner-1", models.CategoryAnxiety, testNow.Add(-time.Hour), false)
	svc := newEmergencyService(store)

	_, err := svc.Resolve(context.Background(), "owner-2", "e-1")
	assert.True(t, errors.Is(err, models.ErrNotFound))

	e, err := svc.Resolve(context.Background(), "owner-1", "e-1")
	require.NoError(t, err)
	assert.True(t, e.Solved)
	assert.Equal(t, testNow, e.UpdatedAt)

	latest, err := svc.LatestUnsolved(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Empty(t, latest)
}
