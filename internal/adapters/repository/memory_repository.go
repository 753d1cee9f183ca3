package repository

import (
	"context"
	"sync"

	"github.com/comitanigiacomo/habits/internal/core/domain"
)

var _ domain.SnapshotRepository = (*InMemoryRepository)(nil)

// InMemoryRepository holds the last saved snapshot in process memory.
type InMemoryRepository struct {
	snapshot *domain.Snapshot
	saves    int

	mu sync.RWMutex
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.snapshot == nil {
		return nil, nil
	}
	return cloneSnapshot(r.snapshot), nil
}

func (r *InMemoryRepository) Save(ctx context.Context, s *domain.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshot = cloneSnapshot(s)
	r.saves++
	return nil
}

// Saves reports how many times Save has been called.
func (r *InMemoryRepository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.saves
}

func cloneSnapshot(s *domain.Snapshot) *domain.Snapshot {
	habits := make([]*domain.Habit, len(s.Habits))
	for i, h := range s.Habits {
		habits[i] = h.Clone()
	}

	return &domain.Snapshot{
		Profile: s.Profile,
		Habits:  habits,
		TakenAt: s.TakenAt,
	}
}
