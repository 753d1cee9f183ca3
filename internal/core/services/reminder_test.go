package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/comitanigiacomo/habits/internal/core/domain"
	"github.com/comitanigiacomo/habits/internal/core/services"
)

func habitDoneOn(t *testing.T, name string, days ...time.Time) *domain.Habit {
	t.Helper()
	h, err := domain.NewHabit(name, 3, time.Date(2024, time.November, 1, 0, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("NewHabit: %v", err)
	}
	for _, d := range days {
		h.MarkComplete(d)
	}
	return h
}

func TestSelectReminder(t *testing.T) {
	today := time.Date(2024, time.November, 6, 15, 30, 0, 0, time.Local)
	yesterday := today.AddDate(0, 0, -1)

	t.Run("No habits means no reminder", func(t *testing.T) {
		name, ok := services.SelectReminder(nil, today, nil)
		assert.False(t, ok)
		assert.Empty(t, name)
	})

	t.Run("Everything done today means no reminder", func(t *testing.T) {
		habits := []*domain.Habit{
			habitDoneOn(t, "Read", today),
			habitDoneOn(t, "Water", yesterday, today),
		}
		_, ok := services.SelectReminder(habits, today, nil)
		assert.False(t, ok)
	})

	t.Run("Single candidate is returned deterministically", func(t *testing.T) {
		habits := []*domain.Habit{
			habitDoneOn(t, "Read", today),
			habitDoneOn(t, "Water", yesterday),
		}
		for i := 0; i < 20; i++ {
			name, ok := services.SelectReminder(habits, today, nil)
			assert.True(t, ok)
			assert.Equal(t, "Water", name)
		}
	})

	t.Run("Picker chooses among candidates only", func(t *testing.T) {
		habits := []*domain.Habit{
			habitDoneOn(t, "A"),
			habitDoneOn(t, "B", today),
			habitDoneOn(t, "C"),
		}

		var seenN int
		pickLast := func(n int) int {
			seenN = n
			return n - 1
		}

		name, ok := services.SelectReminder(habits, today, pickLast)
		assert.True(t, ok)
		assert.Equal(t, "C", name)
		assert.Equal(t, 2, seenN)
	})

	t.Run("Default picker stays within candidates", func(t *testing.T) {
		habits := []*domain.Habit{
			habitDoneOn(t, "A"),
			habitDoneOn(t, "B", today),
			habitDoneOn(t, "C"),
		}
		for i := 0; i < 50; i++ {
			name, ok := services.SelectReminder(habits, today, nil)
			assert.True(t, ok)
			assert.Contains(t, []string{"A", "C"}, name)
		}
	})
}
