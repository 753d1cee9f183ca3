package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/comitanigiacomo/habits/internal/core/domain"
)

// CompletionResult reports what MarkComplete did to the habit named Name.
type CompletionResult struct {
	Name    string                   `json:"name"`
	Outcome domain.CompletionOutcome `json:"outcome"`
}

func (r CompletionResult) Newly() bool {
	return r.Outcome == domain.NewlyCompleted
}

// Tracker owns the ordered habit list. Positional indices are 1-based and
// refer to the list as it is at call time; they shift after Delete.
type Tracker struct {
	repo    domain.SnapshotRepository
	clock   func() time.Time
	logger  *slog.Logger
	profile domain.Profile

	mu     sync.RWMutex
	habits []*domain.Habit
}

type TrackerOption func(*Tracker)

func WithClock(clock func() time.Time) TrackerOption {
	return func(t *Tracker) {
		t.clock = clock
	}
}

func WithLogger(logger *slog.Logger) TrackerOption {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// NewTracker loads the persisted snapshot. Any load failure is logged and the
// tracker starts empty with the given default profile.
func NewTracker(ctx context.Context, repo domain.SnapshotRepository, defaultProfile domain.Profile, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		repo:   repo,
		clock:  time.Now,
		logger: slog.Default(),
		habits: []*domain.Habit{},
	}
	for _, opt := range opts {
		opt(t)
	}

	if defaultProfile.JoinDate.IsZero() {
		defaultProfile.JoinDate = t.clock()
	}
	t.profile = domain.NewProfile(defaultProfile.Name, defaultProfile.JoinDate)

	snapshot, err := repo.Load(ctx)
	switch {
	case err != nil:
		t.logger.Error("failed to load habits, starting with empty state", "error", err)
	case snapshot == nil:
		t.logger.Debug("no persisted habits found, fresh install")
	default:
		t.profile = snapshot.Profile
		if snapshot.Habits != nil {
			t.habits = snapshot.Habits
		}
		t.logger.Info("habits loaded", "count", len(t.habits))
	}

	return t
}

func (t *Tracker) Add(ctx context.Context, name string, target int) (*domain.Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	habit, err := domain.NewHabit(name, target, t.clock())
	if err != nil {
		return nil, err
	}

	t.habits = append(t.habits, habit)
	t.persist(ctx)

	return habit.Clone(), nil
}

func (t *Tracker) MarkComplete(ctx context.Context, index int) (CompletionResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	habit, err := t.resolve(index)
	if err != nil {
		return CompletionResult{}, err
	}

	outcome := habit.MarkComplete(t.clock())
	if outcome == domain.NewlyCompleted {
		t.persist(ctx)
	}

	return CompletionResult{Name: habit.Name, Outcome: outcome}, nil
}

// Delete removes the habit at index and returns its name. Indices greater
// than index shift down by one.
func (t *Tracker) Delete(ctx context.Context, index int) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	habit, err := t.resolve(index)
	if err != nil {
		return "", err
	}

	t.habits = append(t.habits[:index-1], t.habits[index:]...)
	t.persist(ctx)

	return habit.Name, nil
}

func (t *Tracker) Clear(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.habits = []*domain.Habit{}
	t.persist(ctx)
	return nil
}

func (t *Tracker) Filter(kind domain.FilterKind) []domain.IndexedHabit {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ref := t.clock()
	out := make([]domain.IndexedHabit, 0, len(t.habits))
	for i, h := range t.habits {
		if kind.Matches(h, ref) {
			out = append(out, domain.IndexedHabit{Index: i + 1, Habit: h.Clone()})
		}
	}
	return out
}

func (t *Tracker) AggregateStats() domain.AggregateStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return domain.Aggregate(t.habits, t.clock())
}

func (t *Tracker) Profile() domain.ProfileSummary {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return domain.SummarizeProfile(t.profile, t.habits, t.clock())
}

// Habits returns a copy of the current list in display order.
func (t *Tracker) Habits() []*domain.Habit {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.cloneHabits()
}

func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.habits)
}

// Now is the tracker's notion of the current time.
func (t *Tracker) Now() time.Time {
	return t.clock()
}

// Reminder picks a habit not yet completed today, if any.
func (t *Tracker) Reminder() (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return SelectReminder(t.habits, t.clock(), nil)
}

var demoHabits = []struct {
	name   string
	target int
}{
	{"Drink 8 Glasses of Water", 7},
	{"Read for 30 Minutes", 5},
	{"Morning Exercise", 4},
	{"Meditate", 7},
	{"Practice Programming", 5},
}

// SeedDemo adds a fixed set of sample habits and completes the first two for today.
func (t *Tracker) SeedDemo(ctx context.Context) error {
	for _, d := range demoHabits {
		if _, err := t.Add(ctx, d.name, d.target); err != nil {
			return fmt.Errorf("seed %q: %w", d.name, err)
		}
	}

	base := t.Len() - len(demoHabits)
	for _, idx := range []int{1, 2, 2} {
		if _, err := t.MarkComplete(ctx, base+idx); err != nil {
			return fmt.Errorf("seed completion %d: %w", idx, err)
		}
	}
	return nil
}

func (t *Tracker) resolve(index int) (*domain.Habit, error) {
	if index < 1 || index > len(t.habits) {
		return nil, fmt.Errorf("%w: index %d", domain.ErrHabitNotFound, index)
	}
	return t.habits[index-1], nil
}

func (t *Tracker) cloneHabits() []*domain.Habit {
	out := make([]*domain.Habit, len(t.habits))
	for i, h := range t.habits {
		out[i] = h.Clone()
	}
	return out
}

// persist must be called with the write lock held. Write failures are logged
// and never reach the caller: the in-memory state stays authoritative.
func (t *Tracker) persist(ctx context.Context) {
	snapshot := &domain.Snapshot{
		Profile: t.profile,
		Habits:  t.cloneHabits(),
		TakenAt: t.clock(),
	}

	if err := t.repo.Save(ctx, snapshot); err != nil {
		t.logger.Error("failed to persist habits, keeping in-memory state", "error", err)
	}
}
