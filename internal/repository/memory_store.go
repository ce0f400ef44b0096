package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"petwelfare/internal/models"
)

// MemoryStore 内存实现，用于单元测试
// InTx 通过快照回滚实现，事务之间串行执行
type MemoryStore struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	owners      map[string]models.Owner
	emergencies []models.Emergency
	stress      []models.Stress
	activities  []models.Activity
}

// NewMemoryStore 创建内存 Store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		owners: map[string]models.Owner{},
	}
}

// AddOwner 写入主人（测试/调试用）
func (s *MemoryStore) AddOwner(o models.Owner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[o.ID] = o
}

// AddActivity 写入活动记录（测试/调试用）
func (s *MemoryStore) AddActivity(a models.Activity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities = append(s.activities, a)
}

// AllStress 返回全部压力记录副本
func (s *MemoryStore) AllStress() []models.Stress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Stress(nil), s.stress...)
}

// AllEmergencies 返回全部提醒副本
func (s *MemoryStore) AllEmergencies() []models.Emergency {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Emergency(nil), s.emergencies...)
}

func (s *MemoryStore) Emergencies() EmergencyRepository { return (*memoryEmergencies)(s) }
func (s *MemoryStore) Stress() StressRepository         { return (*memoryStress)(s) }
func (s *MemoryStore) Activities() ActivityRepository   { return (*memoryActivities)(s) }
func (s *MemoryStore) Owners() OwnerRepository          { return (*memoryOwners)(s) }

func (s *MemoryStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	emergencies := append([]models.Emergency(nil), s.emergencies...)
	stress := append([]models.Stress(nil), s.stress...)
	s.mu.RUnlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.emergencies = emergencies
		s.stress = stress
		s.mu.Unlock()
		return err
	}
	return ctx.Err()
}

// --- emergencies ---

type memoryEmergencies MemoryStore

func (r *memoryEmergencies) ListEmergencies(_ context.Context, ownerID string, filter models.EmergencyFilter) ([]models.Emergency, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Emergency
	for _, e := range r.emergencies {
		if e.OwnerID != ownerID {
			continue
		}
		if filter.Category != nil && e.Category != *filter.Category {
			continue
		}
		if filter.Since != nil && e.CreatedAt.Before(*filter.Since) {
			continue
		}
		if filter.Until != nil && e.CreatedAt.After(*filter.Until) {
			continue
		}
		if filter.Solved != nil && e.Solved != *filter.Solved {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryEmergencies) CountByCategory(_ context.Context, ownerID string, since, until time.Time) (map[models.Category]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[models.Category]int)
	for _, e := range r.emergencies {
		if e.OwnerID != ownerID || e.CreatedAt.Before(since) || e.CreatedAt.After(until) {
			continue
		}
		counts[e.Category]++
	}
	return counts, nil
}

func (r *memoryEmergencies) CreateEmergency(_ context.Context, e *models.Emergency) error {
	if e == nil || e.OwnerID == "" {
		return fmt.Errorf("owner_id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.emergencies {
		if existing.ID == e.ID {
			return fmt.Errorf("%w: duplicate emergency id %s", models.ErrIntegrity, e.ID)
		}
	}
	r.emergencies = append(r.emergencies, *e)
	return nil
}

func (r *memoryEmergencies) GetEmergency(_ context.Context, ownerID, id string) (*models.Emergency, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.emergencies {
		if e.ID == id && e.OwnerID == ownerID {
			found := e
			return &found, nil
		}
	}
	return nil, fmt.Errorf("emergency %s: %w", id, models.ErrNotFound)
}

func (r *memoryEmergencies) MarkSolved(_ context.Context, ownerID, id string, at time.Time) (*models.Emergency, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.emergencies {
		e := &r.emergencies[i]
		if e.ID == id && e.OwnerID == ownerID {
			e.Solved = true
			e.UpdatedAt = at
			updated := *e
			return &updated, nil
		}
	}
	return nil, fmt.Errorf("emergency %s: %w", id, models.ErrNotFound)
}

// --- stress ---

type memoryStress MemoryStore

func (r *memoryStress) CreateStress(_ context.Context, s *models.Stress) error {
	if s == nil || s.OwnerID == "" {
		return fmt.Errorf("owner_id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.stress {
		if existing.ID == s.ID {
			return fmt.Errorf("%w: duplicate stress id %s", models.ErrIntegrity, s.ID)
		}
	}
	r.stress = append(r.stress, *s)
	return nil
}

func (r *memoryStress) ListStress(_ context.Context, ownerID string, since, until *time.Time) ([]models.Stress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Stress
	for _, s := range r.stress {
		if s.OwnerID != ownerID {
			continue
		}
		if since != nil && s.CreatedAt.Before(*since) {
			continue
		}
		if until != nil && !s.CreatedAt.Before(*until) {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// --- activities ---

type memoryActivities MemoryStore

func (r *memoryActivities) FindActivity(_ context.Context, ownerID string, kind models.ActivityKind, from, to time.Time) (*models.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *models.Activity
	for i := range r.activities {
		a := r.activities[i]
		if a.OwnerID != ownerID || a.Kind != kind {
			continue
		}
		if a.CreatedAt.Before(from) || !a.CreatedAt.Before(to) {
			continue
		}
		if latest == nil || a.CreatedAt.After(latest.CreatedAt) {
			latest = &a
		}
	}
	return latest, nil
}

// --- owners ---

type memoryOwners MemoryStore

func (r *memoryOwners) GetOwner(_ context.Context, id string) (*models.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.owners[id]
	if !ok {
		return nil, fmt.Errorf("owner %s: %w", id, models.ErrNotFound)
	}
	return &o, nil
}

func (r *memoryOwners) ListOwners(_ context.Context, afterID string, limit int) ([]models.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]models.Owner, 0, len(r.owners))
	for _, o := range r.owners {
		if o.ID > afterID {
			all = append(all, o)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
