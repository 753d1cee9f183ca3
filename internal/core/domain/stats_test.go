package domain_test

import (
	"testing"
	"time"

	"github.com/comitanigiacomo/habits/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	ref := day(7, 12)

	read, _ := domain.NewHabit("Read", 1, day(4, 8))
	read.MarkComplete(day(5, 8))

	water, _ := domain.NewHabit("Water", 7, day(4, 8))
	water.MarkComplete(day(5, 8))
	water.MarkComplete(day(6, 8))
	water.MarkComplete(day(1, 8)) // previous week

	stats := domain.Aggregate([]*domain.Habit{read, water}, ref)

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 3, stats.TotalWeeklyCompletions)
	assert.Equal(t, []string{"Read", "Water"}, stats.Names)

	empty := domain.Aggregate(nil, ref)
	assert.Equal(t, 0, empty.Total)
	assert.NotNil(t, empty.Names)
}

func TestParseFilterKind(t *testing.T) {
	tests := []struct {
		in      string
		want    domain.FilterKind
		wantErr bool
	}{
		{"", domain.FilterAll, false},
		{"all", domain.FilterAll, false},
		{"active", domain.FilterActive, false},
		{"completed", domain.FilterCompleted, false},
		{"done", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParseFilterKind(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummarizeProfile(t *testing.T) {
	joined := day(1, 12)
	p := domain.NewProfile("", joined)
	assert.Equal(t, domain.DefaultProfileName, p.Name)

	done, _ := domain.NewHabit("Done", 1, joined)
	done.MarkComplete(day(5, 8))
	pending, _ := domain.NewHabit("Pending", 3, joined)

	summary := domain.SummarizeProfile(p, []*domain.Habit{done, pending}, day(6, 0))

	assert.Equal(t, 2, summary.TotalHabits)
	assert.Equal(t, 1, summary.CompletedThisWeek)
	assert.Equal(t, 5, summary.DaysJoined, "4.5 days rounds up")
	assert.Equal(t, joined, summary.JoinDate)
}

func TestProfile_DaysJoined(t *testing.T) {
	joined := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	p := domain.NewProfile("Daud", joined)

	assert.Equal(t, 0, p.DaysJoined(joined))
	assert.Equal(t, 1, p.DaysJoined(joined.Add(time.Hour)))
	assert.Equal(t, 31, p.DaysJoined(joined.AddDate(0, 0, 31)))
}
