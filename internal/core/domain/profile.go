package domain

import (
	"math"
	"strings"
	"time"
)

const DefaultProfileName = "Habit Tracker User"

type Profile struct {
	Name     string    `json:"name"`
	JoinDate time.Time `json:"joinDate"`
}

func NewProfile(name string, joinDate time.Time) Profile {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultProfileName
	}

	return Profile{
		Name:     name,
		JoinDate: joinDate,
	}
}

// DaysJoined rounds the distance between the join date and now up to whole days.
func (p Profile) DaysJoined(now time.Time) int {
	diff := now.Sub(p.JoinDate)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}

// ProfileSummary is derived on every read and never stored as state.
type ProfileSummary struct {
	Name              string    `json:"name"`
	JoinDate          time.Time `json:"joinDate"`
	DaysJoined        int       `json:"daysJoined"`
	TotalHabits       int       `json:"totalHabits"`
	CompletedThisWeek int       `json:"completedThisWeek"`
}

func SummarizeProfile(p Profile, habits []*Habit, ref time.Time) ProfileSummary {
	completed := 0
	for _, h := range habits {
		if h.IsOnTarget(ref) {
			completed++
		}
	}

	return ProfileSummary{
		Name:              p.Name,
		JoinDate:          p.JoinDate,
		DaysJoined:        p.DaysJoined(ref),
		TotalHabits:       len(habits),
		CompletedThisWeek: completed,
	}
}
