package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/comitanigiacomo/habits/internal/core/domain"
	"github.com/comitanigiacomo/habits/internal/core/services"
)

const barCells = 10

var rule = strings.Repeat("=", 50)

func header(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n%s\n", rule, title, rule)
}

func footer(w io.Writer) {
	fmt.Fprintf(w, "%s\n\n", rule)
}

// ProgressBar renders pct as ten cells, one filled cell per started ten percent
// rounded half up.
func ProgressBar(pct int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := (pct + 5) / 10
	return strings.Repeat("█", filled) + strings.Repeat("░", barCells-filled)
}

func statusLabel(s domain.Status) string {
	switch s {
	case domain.StatusCompleted:
		return "Completed"
	default:
		return "Active"
	}
}

func RenderProfile(w io.Writer, s domain.ProfileSummary) {
	header(w, "USER PROFILE")
	fmt.Fprintf(w, "Name: %s\n", s.Name)
	fmt.Fprintf(w, "Joined: %s\n", s.JoinDate.Format(domain.DayKeyLayout))
	fmt.Fprintf(w, "Days joined: %d\n", s.DaysJoined)
	fmt.Fprintf(w, "Total habits: %d\n", s.TotalHabits)
	fmt.Fprintf(w, "Completed this week: %d\n", s.CompletedThisWeek)
	footer(w)
}

// RenderHabits lists items with the index each habit has in the full list, so
// the number shown is the one to pass to done or delete.
func RenderHabits(w io.Writer, title string, items []domain.IndexedHabit, ref time.Time) {
	header(w, title)
	if len(items) == 0 {
		fmt.Fprintln(w, "No habits to show.")
		footer(w)
		return
	}

	for _, item := range items {
		h := item.Habit
		count := h.WeeklyCompletionCount(ref)
		pct := h.ProgressPercentage(ref)

		fmt.Fprintf(w, "\n%d. [%s] %s\n", item.Index, statusLabel(h.Status(ref)), h.Name)
		fmt.Fprintf(w, "   Target: %dx/week\n", h.TargetFrequency)
		fmt.Fprintf(w, "   Progress: %d/%d (%d%%)\n", count, h.TargetFrequency, pct)
		fmt.Fprintf(w, "   Progress Bar: %s %d%%\n", ProgressBar(pct), pct)
	}
	fmt.Fprintln(w)
	footer(w)
}

func RenderStats(w io.Writer, stats domain.AggregateStats) {
	header(w, "HABIT STATISTICS")
	if stats.Total == 0 {
		fmt.Fprintln(w, "No data to show yet.")
		footer(w)
		return
	}

	fmt.Fprintf(w, "Total habits: %d\n", stats.Total)
	fmt.Fprintf(w, "Active habits: %d\n", stats.Active)
	fmt.Fprintf(w, "Completed habits: %d\n", stats.Completed)
	fmt.Fprintf(w, "Completions this week: %d\n", stats.TotalWeeklyCompletions)
	fmt.Fprintln(w, "\nHabits:")
	for i, name := range stats.Names {
		fmt.Fprintf(w, "  %d. %s\n", i+1, name)
	}
	footer(w)
}

func RenderWeeklyReport(w io.Writer, r *services.WeeklyReport) {
	header(w, fmt.Sprintf("WEEK %s .. %s", r.StartDate, r.EndDate))
	if r.TotalHabits == 0 {
		fmt.Fprintln(w, "No habits to show.")
		footer(w)
		return
	}

	fmt.Fprintln(w, "    M T W T F S S")
	for _, hw := range r.HabitStats {
		var days strings.Builder
		for _, done := range hw.DailyProgress {
			if done {
				days.WriteString(" ■")
			} else {
				days.WriteString(" ·")
			}
		}
		fmt.Fprintf(w, "%2d.%s  %s (%d/%d, %d%%)\n", hw.Index, days.String(), hw.Name, hw.Completions, hw.TargetFrequency, hw.Progress)
	}
	fmt.Fprintf(w, "\nOverall: %.1f%%\n", r.OverallRate)
	footer(w)
}

func RenderReminder(w io.Writer, name string) {
	fmt.Fprintf(w, "\n%s\n⏰ REMINDER: Don't forget %q!\n%s\n\n", rule, name, rule)
}

func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Rejection turns a tracker error into the message shown to the user.
func Rejection(err error) string {
	switch {
	case errors.Is(err, domain.ErrHabitNameEmpty):
		return "Habit name cannot be empty."
	case errors.Is(err, domain.ErrHabitNameTooLong):
		return fmt.Sprintf("Habit name is too long (max %d characters).", domain.MaxNameLen)
	case errors.Is(err, domain.ErrInvalidTargetFrequency):
		return targetRangeMessage
	case errors.Is(err, domain.ErrNotFound):
		return "Habit not found."
	case errors.Is(err, domain.ErrInvalidArgument):
		return err.Error()
	default:
		return fmt.Sprintf("Unexpected error: %v", err)
	}
}

var targetRangeMessage = fmt.Sprintf("Target must be between %d and %d!", domain.MinTargetFrequency, domain.MaxTargetFrequency)
