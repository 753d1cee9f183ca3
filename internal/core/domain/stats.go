package domain

import (
	"fmt"
	"time"
)

type FilterKind string

const (
	FilterAll       FilterKind = "all"
	FilterActive    FilterKind = "active"
	FilterCompleted FilterKind = "completed"
)

func ParseFilterKind(s string) (FilterKind, error) {
	switch FilterKind(s) {
	case FilterAll, FilterActive, FilterCompleted:
		return FilterKind(s), nil
	case "":
		return FilterAll, nil
	}
	return "", fmt.Errorf("%w: unknown filter %q (must be all, active, or completed)", ErrInvalidArgument, s)
}

func (k FilterKind) Matches(h *Habit, ref time.Time) bool {
	switch k {
	case FilterActive:
		return !h.IsOnTarget(ref)
	case FilterCompleted:
		return h.IsOnTarget(ref)
	default:
		return true
	}
}

// IndexedHabit pairs a habit with its 1-based position in the full habit list.
type IndexedHabit struct {
	Index int    `json:"index"`
	Habit *Habit `json:"habit"`
}

type AggregateStats struct {
	Total                  int      `json:"total"`
	Active                 int      `json:"active"`
	Completed              int      `json:"completed"`
	TotalWeeklyCompletions int      `json:"totalWeeklyCompletions"`
	Names                  []string `json:"names"`
}

func Aggregate(habits []*Habit, ref time.Time) AggregateStats {
	stats := AggregateStats{
		Total: len(habits),
		Names: make([]string, 0, len(habits)),
	}

	for _, h := range habits {
		count := h.WeeklyCompletionCount(ref)
		if count >= h.TargetFrequency {
			stats.Completed++
		} else {
			stats.Active++
		}
		stats.TotalWeeklyCompletions += count
		stats.Names = append(stats.Names, h.Name)
	}

	return stats
}
