package domain

import (
	"context"
	"time"
)

// Snapshot is the full persisted state: the profile and the ordered habit list.
type Snapshot struct {
	Profile Profile
	Habits  []*Habit
	TakenAt time.Time
}

type SnapshotRepository interface {
	// Load returns the persisted snapshot. A missing store yields (nil, nil).
	Load(ctx context.Context) (*Snapshot, error)

	// Save replaces the persisted snapshot with s.
	Save(ctx context.Context, s *Snapshot) error
}
