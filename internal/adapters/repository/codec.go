package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/habits/internal/core/domain"
)

type fileDocument struct {
	UserProfile *profileRecord `json:"userProfile,omitempty"`
	Habits      []habitRecord  `json:"habits"`
}

// rawDocument defers decoding of each part so one bad record cannot discard
// the rest of the file.
type rawDocument struct {
	UserProfile json.RawMessage   `json:"userProfile"`
	Habits      []json.RawMessage `json:"habits"`
}

type profileRecord struct {
	Name              *string `json:"name,omitempty"`
	JoinDate          *string `json:"joinDate,omitempty"`
	TotalHabits       int     `json:"totalHabits"`
	CompletedThisWeek int     `json:"completedThisWeek"`
}

type habitRecord struct {
	ID              recordID `json:"id"`
	Name            string   `json:"name"`
	TargetFrequency *count   `json:"targetFrequency,omitempty"`
	Completions     []string `json:"completions"`
	CreatedAt       *string  `json:"createdAt,omitempty"`
}

// recordID accepts both string ids and the numeric ids written by older
// versions of the data file.
type recordID string

func (id *recordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = recordID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("habit id must be a string or number: %w", err)
	}
	*id = recordID(n.String())
	return nil
}

// count accepts a JSON number or a string holding one.
type count int

func (c *count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("%q is not a whole number", s)
		}
		*c = count(n)
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = count(n)
	return nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	domain.DayKeyLayout,
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if layout == domain.DayKeyLayout {
			if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return t, true
			}
			continue
		}
		if t, err := time.Parse(layout, s); err == nil {
			return t.Local(), true
		}
	}
	return time.Time{}, false
}

func formatDate(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// EncodeSnapshot renders s as an indented JSON document. The profile counters
// are computed from the habits at s.TakenAt.
func EncodeSnapshot(s *domain.Snapshot) ([]byte, error) {
	summary := domain.SummarizeProfile(s.Profile, s.Habits, s.TakenAt)
	name := s.Profile.Name
	joinDate := formatDate(s.Profile.JoinDate)

	doc := fileDocument{
		UserProfile: &profileRecord{
			Name:              &name,
			JoinDate:          &joinDate,
			TotalHabits:       summary.TotalHabits,
			CompletedThisWeek: summary.CompletedThisWeek,
		},
		Habits: make([]habitRecord, 0, len(s.Habits)),
	}

	for _, h := range s.Habits {
		target := count(h.TargetFrequency)
		createdAt := formatDate(h.CreatedAt)

		completions := make([]string, 0, len(h.Completions))
		for _, c := range h.Completions {
			completions = append(completions, formatDate(c))
		}

		doc.Habits = append(doc.Habits, habitRecord{
			ID:              recordID(h.ID),
			Name:            h.Name,
			TargetFrequency: &target,
			Completions:     completions,
			CreatedAt:       &createdAt,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode snapshot: %v", domain.ErrPersistenceWrite, err)
	}
	return data, nil
}

// DecodeSnapshot parses a data file. Absent fields resolve as follows:
//
//	userProfile.name      -> defaults.Name
//	userProfile.joinDate  -> defaults.JoinDate
//	habits                -> empty list
//	habit.id              -> fresh UUID
//	habit.targetFrequency -> 1
//	habit.createdAt       -> defaults.JoinDate
//	habit.completions     -> empty; unparseable entries are skipped
//
// Records that cannot be read, or that violate entity invariants, are dropped
// and logged; only a document that is not a JSON object with a habits array
// fails as a whole.
func DecodeSnapshot(raw []byte, defaults domain.Profile, logger *slog.Logger) (*domain.Snapshot, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var doc rawDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode snapshot: %v", domain.ErrPersistenceRead, err)
	}

	var profileRec *profileRecord
	if len(doc.UserProfile) > 0 {
		if err := json.Unmarshal(doc.UserProfile, &profileRec); err != nil {
			logger.Warn("ignoring unreadable user profile, using defaults", "error", err)
			profileRec = nil
		}
	}
	profile := resolveProfile(profileRec, defaults)

	habits := make([]*domain.Habit, 0, len(doc.Habits))
	for i, rawHabit := range doc.Habits {
		var rec habitRecord
		if err := json.Unmarshal(rawHabit, &rec); err != nil {
			logger.Warn("skipping unreadable habit record", "position", i+1, "error", err)
			continue
		}

		h, err := resolveHabit(rec, profile.JoinDate, logger)
		if err != nil {
			logger.Warn("skipping invalid habit record", "position", i+1, "name", rec.Name, "error", err)
			continue
		}
		habits = append(habits, h)
	}

	return &domain.Snapshot{
		Profile: profile,
		Habits:  habits,
	}, nil
}

func resolveProfile(rec *profileRecord, defaults domain.Profile) domain.Profile {
	name := defaults.Name
	joinDate := defaults.JoinDate

	if rec != nil {
		if rec.Name != nil && strings.TrimSpace(*rec.Name) != "" {
			name = *rec.Name
		}
		if rec.JoinDate != nil {
			if t, ok := parseDate(*rec.JoinDate); ok {
				joinDate = t
			}
		}
	}

	return domain.NewProfile(name, joinDate)
}

func resolveHabit(rec habitRecord, defaultCreatedAt time.Time, logger *slog.Logger) (*domain.Habit, error) {
	id := strings.TrimSpace(string(rec.ID))
	if id == "" {
		id = uuid.New().String()
	}

	target := 1
	if rec.TargetFrequency != nil {
		target = int(*rec.TargetFrequency)
	}

	createdAt := defaultCreatedAt
	if rec.CreatedAt != nil {
		if t, ok := parseDate(*rec.CreatedAt); ok {
			createdAt = t
		}
	}

	completions := make([]time.Time, 0, len(rec.Completions))
	for _, c := range rec.Completions {
		t, ok := parseDate(c)
		if !ok {
			logger.Warn("skipping unparseable completion date", "habit", rec.Name, "value", c)
			continue
		}
		completions = append(completions, t)
	}

	return domain.RestoreHabit(id, rec.Name, target, createdAt, completions)
}
