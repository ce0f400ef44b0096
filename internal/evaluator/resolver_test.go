package evaluator

import (
	"context"
	"errors"
	"testing"
	"time"

	"petwelfare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResolve_NotOwned(t *testing.T) {
	f := newFixture(t, 9)
	f.addEmergency(t, "e-1", models.CategoryBite, f.now)
	r := NewResolver(f.store.Emergencies(), f.publisher, func() time.Time { return f.now }, zap.NewNop())

	e, err := r.Resolve(context.Background(), "owner-2", "e-1")
	assert.Nil(t, e)
	assert.True(t, errors.Is(err, models.ErrNotFound))
	assert.False(t, f.store.AllEmergencies()[0].Solved)
	assert.Empty(t, f.publisher.types())
}

func TestResolve_Missing(t *testing.T) {
	f := newFixture(t, 9)
	r := NewResolver(f.store.Emergencies(), nil, nil, zap.NewNop())

	_, err := r.Resolve(context.Background(), f.owner.ID, "missing")
	assert.True(t, errors.Is(err, models.ErrNotFound))

	_, err = r.Resolve(context.Background(), f.owner.ID, "")
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestResolve_RepeatRestampsUpdatedAt(t *testing.T) {
	f := newFixture(t, 9)
	f.addEmergency(t, "e-1", models.CategoryPoop, f.now)
	clock := f.now
	r := NewResolver(f.store.Emergencies(), f.publisher, func() time.Time { return clock }, zap.NewNop())

	clock = f.now.Add(time.Hour)
	e, err := r.Resolve(context.Background(), f.owner.ID, "e-1")
	require.NoError(t, err)
	assert.True(t, e.Solved)
	assert.Equal(t, clock, e.UpdatedAt)
	assert.Equal(t, f.now, e.CreatedAt)

	clock = f.now.Add(2 * time.Hour)
	e, err = r.Resolve(context.Background(), f.owner.ID, "e-1")
	require.NoError(t, err)
	assert.True(t, e.Solved)
	assert.Equal(t, clock, e.UpdatedAt)

	assert.Len(t, f.store.AllEmergencies(), 1)
	assert.Equal(t, []models.EventType{models.EventEmergencyResolved, models.EventEmergencyResolved}, f.publisher.types())
}
