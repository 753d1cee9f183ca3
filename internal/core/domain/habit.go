package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MinTargetFrequency = 1
	MaxTargetFrequency = 7
	MaxNameLen         = 100
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

type CompletionOutcome int

const (
	NewlyCompleted CompletionOutcome = iota
	AlreadyCompleted
)

func (o CompletionOutcome) String() string {
	if o == AlreadyCompleted {
		return "already_completed"
	}
	return "newly_completed"
}

type Habit struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	TargetFrequency int         `json:"targetFrequency"`
	Completions     []time.Time `json:"completions"`
	CreatedAt       time.Time   `json:"createdAt"`
}

func validate(name string, target int) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrHabitNameEmpty
	}
	if utf8.RuneCountInString(trimmed) > MaxNameLen {
		return "", ErrHabitNameTooLong
	}
	if target < MinTargetFrequency || target > MaxTargetFrequency {
		return "", fmt.Errorf("%w: got %d", ErrInvalidTargetFrequency, target)
	}
	return trimmed, nil
}

func NewHabit(name string, target int, now time.Time) (*Habit, error) {
	cleanName, err := validate(name, target)
	if err != nil {
		return nil, err
	}

	return &Habit{
		ID:              uuid.New().String(),
		Name:            cleanName,
		TargetFrequency: target,
		Completions:     []time.Time{},
		CreatedAt:       now,
	}, nil
}

// RestoreHabit rebuilds a habit from persisted fields. The id and creation time
// are kept as given; completion days are normalized, deduplicated and sorted.
func RestoreHabit(id, name string, target int, createdAt time.Time, completions []time.Time) (*Habit, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: habit id is required", ErrInvalidArgument)
	}

	cleanName, err := validate(name, target)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(completions))
	days := make([]time.Time, 0, len(completions))
	for _, c := range completions {
		day := NormalizeDay(c)
		key := DayKey(day)
		if seen[key] {
			continue
		}
		seen[key] = true
		days = append(days, day)
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})

	return &Habit{
		ID:              id,
		Name:            cleanName,
		TargetFrequency: target,
		Completions:     days,
		CreatedAt:       createdAt,
	}, nil
}

// MarkComplete records a completion for the calendar day of today.
// It is the only mutator of Completions.
func (h *Habit) MarkComplete(today time.Time) CompletionOutcome {
	if h.CompletedOn(today) {
		return AlreadyCompleted
	}

	h.Completions = append(h.Completions, NormalizeDay(today))
	return NewlyCompleted
}

func (h *Habit) CompletedOn(day time.Time) bool {
	for _, c := range h.Completions {
		if SameDay(c, day) {
			return true
		}
	}
	return false
}

func (h *Habit) WeeklyCompletionCount(ref time.Time) int {
	window := WeekWindowOf(ref)

	count := 0
	for _, c := range h.Completions {
		if window.Contains(c) {
			count++
		}
	}
	return count
}

func (h *Habit) IsOnTarget(ref time.Time) bool {
	return h.WeeklyCompletionCount(ref) >= h.TargetFrequency
}

func (h *Habit) ProgressPercentage(ref time.Time) int {
	return ProgressPercentage(h.WeeklyCompletionCount(ref), h.TargetFrequency)
}

func (h *Habit) Status(ref time.Time) Status {
	if h.IsOnTarget(ref) {
		return StatusCompleted
	}
	return StatusActive
}

func (h *Habit) Clone() *Habit {
	clone := *h
	clone.Completions = make([]time.Time, len(h.Completions))
	copy(clone.Completions, h.Completions)
	return &clone
}

// ProgressPercentage maps count/target onto an integer in [0, 100].
func ProgressPercentage(count, target int) int {
	if target <= 0 || count <= 0 {
		return 0
	}

	ratio := math.Min(float64(count)/float64(target), 1.0)
	return int(math.Round(ratio * 100))
}
