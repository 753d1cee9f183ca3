package services

import (
	"time"

	"github.com/comitanigiacomo/habits/internal/core/domain"
)

type WeeklyReport struct {
	StartDate   string      `json:"start_date"`
	EndDate     string      `json:"end_date"`
	TotalHabits int         `json:"total_habits"`
	OverallRate float64     `json:"overall_completion_rate"`
	HabitStats  []HabitWeek `json:"habits"`
}

type HabitWeek struct {
	Index           int           `json:"index"`
	Name            string        `json:"name"`
	TargetFrequency int           `json:"target_frequency"`
	Completions     int           `json:"completions"`
	Progress        int           `json:"progress"`
	Status          domain.Status `json:"status"`
	DailyProgress   []bool        `json:"daily_progress"`
}

// BuildWeeklyReport lays out the Monday..Sunday window containing ref.
// OverallRate is the mean progress across habits.
func BuildWeeklyReport(habits []*domain.Habit, ref time.Time) *WeeklyReport {
	window := domain.WeekWindowOf(ref)

	report := &WeeklyReport{
		StartDate:   domain.DayKey(window.Start),
		EndDate:     domain.DayKey(window.End.AddDate(0, 0, -1)),
		TotalHabits: len(habits),
		HabitStats:  make([]HabitWeek, 0, len(habits)),
	}

	totalProgress := 0
	for i, h := range habits {
		hw := HabitWeek{
			Index:           i + 1,
			Name:            h.Name,
			TargetFrequency: h.TargetFrequency,
			Completions:     h.WeeklyCompletionCount(ref),
			Progress:        h.ProgressPercentage(ref),
			Status:          h.Status(ref),
			DailyProgress:   make([]bool, 0, 7),
		}

		currentDate := window.Start
		for currentDate.Before(window.End) {
			hw.DailyProgress = append(hw.DailyProgress, h.CompletedOn(currentDate))
			currentDate = currentDate.AddDate(0, 0, 1)
		}

		totalProgress += hw.Progress
		report.HabitStats = append(report.HabitStats, hw)
	}

	if len(habits) > 0 {
		report.OverallRate = float64(totalProgress) / float64(len(habits))
	}

	return report
}

func (t *Tracker) WeeklyReport() *WeeklyReport {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return BuildWeeklyReport(t.habits, t.clock())
}
