package domain

import "time"

const DayKeyLayout = "2006-01-02"

// NormalizeDay strips the time of day, keeping the location of t.
func NormalizeDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// WeekWindow is the half-open interval [Start, End) covering Monday 00:00
// through the end of the following Sunday.
type WeekWindow struct {
	Start time.Time
	End   time.Time
}

func WeekWindowOf(ref time.Time) WeekWindow {
	// Sunday maps to offset 6 so weeks start on Monday.
	offset := (int(ref.Weekday()) + 6) % 7
	start := NormalizeDay(ref).AddDate(0, 0, -offset)

	return WeekWindow{
		Start: start,
		End:   start.AddDate(0, 0, 7),
	}
}

func (w WeekWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}
