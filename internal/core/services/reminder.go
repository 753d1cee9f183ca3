package services

import (
	"math/rand"
	"time"

	"github.com/comitanigiacomo/habits/internal/core/domain"
)

// SelectReminder returns the name of one habit with no completion on today's
// calendar day, chosen by pick (uniform random when nil). It reports false
// when every habit is done for today or there are none.
func SelectReminder(habits []*domain.Habit, today time.Time, pick func(n int) int) (string, bool) {
	var candidates []*domain.Habit
	for _, h := range habits {
		if !h.CompletedOn(today) {
			candidates = append(candidates, h)
		}
	}

	if len(candidates) == 0 {
		return "", false
	}
	if len(candidates) == 1 {
		return candidates[0].Name, true
	}

	if pick == nil {
		pick = rand.Intn
	}
	return candidates[pick(len(candidates))].Name, true
}
