package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/habits/internal/core/domain"

	_ "modernc.org/sqlite"
)

var _ domain.SnapshotRepository = (*SQLiteRepository)(nil)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

type profileRow struct {
	Name     string `db:"name"`
	JoinDate string `db:"join_date"`
}

type habitRow struct {
	ID              string `db:"id"`
	Position        int    `db:"position"`
	Name            string `db:"name"`
	TargetFrequency int    `db:"target_frequency"`
	CreatedAt       string `db:"created_at"`
}

type completionRow struct {
	HabitID string `db:"habit_id"`
	Day     string `db:"day"`
}

// SQLiteRepository stores snapshots in a local SQLite database. Every Save
// replaces the stored state inside a single transaction.
type SQLiteRepository struct {
	db       *sqlx.DB
	path     string
	defaults domain.Profile
	logger   *slog.Logger
}

func NewSQLiteRepository(path string, defaults domain.Profile, logger *slog.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := enablePragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable pragmas: %w", err)
	}

	if err := RunMigrations(db.DB); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db, path: path, defaults: defaults, logger: logger}, nil
}

func enablePragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) Path() string {
	return r.path
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	var p profileRow
	err := r.db.GetContext(ctx, &p, `SELECT name, join_date FROM profile WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: query profile: %v", domain.ErrPersistenceRead, err)
	}

	joinDate, ok := parseDate(p.JoinDate)
	if !ok {
		joinDate = r.defaults.JoinDate
	}
	if joinDate.IsZero() {
		joinDate = time.Now()
	}
	profile := domain.NewProfile(p.Name, joinDate)

	var rows []habitRow
	err = r.db.SelectContext(ctx, &rows, `
		SELECT id, position, name, target_frequency, created_at
		FROM habits
		ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: query habits: %v", domain.ErrPersistenceRead, err)
	}

	var completions []completionRow
	err = r.db.SelectContext(ctx, &completions, `SELECT habit_id, day FROM completions ORDER BY day ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: query completions: %v", domain.ErrPersistenceRead, err)
	}

	days := make(map[string][]time.Time, len(rows))
	for _, c := range completions {
		t, ok := parseDate(c.Day)
		if !ok {
			r.logger.Warn("skipping unparseable completion date", "habit_id", c.HabitID, "value", c.Day)
			continue
		}
		days[c.HabitID] = append(days[c.HabitID], t)
	}

	habits := make([]*domain.Habit, 0, len(rows))
	for _, row := range rows {
		createdAt, ok := parseDate(row.CreatedAt)
		if !ok {
			createdAt = profile.JoinDate
		}

		h, err := domain.RestoreHabit(row.ID, row.Name, row.TargetFrequency, createdAt, days[row.ID])
		if err != nil {
			r.logger.Warn("skipping invalid habit row", "id", row.ID, "error", err)
			continue
		}
		habits = append(habits, h)
	}

	return &domain.Snapshot{Profile: profile, Habits: habits}, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, s *domain.Snapshot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", domain.ErrPersistenceWrite, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO profile (id, name, join_date) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, join_date = excluded.join_date`,
		s.Profile.Name, formatDate(s.Profile.JoinDate))
	if err != nil {
		return fmt.Errorf("%w: upsert profile: %v", domain.ErrPersistenceWrite, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM completions`); err != nil {
		return fmt.Errorf("%w: clear completions: %v", domain.ErrPersistenceWrite, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM habits`); err != nil {
		return fmt.Errorf("%w: clear habits: %v", domain.ErrPersistenceWrite, err)
	}

	for i, h := range s.Habits {
		row := habitRow{
			ID:              h.ID,
			Position:        i + 1,
			Name:            h.Name,
			TargetFrequency: h.TargetFrequency,
			CreatedAt:       formatDate(h.CreatedAt),
		}

		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO habits (id, position, name, target_frequency, created_at)
			VALUES (:id, :position, :name, :target_frequency, :created_at)`, row)
		if err != nil {
			return fmt.Errorf("%w: insert habit %s: %v", domain.ErrPersistenceWrite, h.ID, err)
		}

		for _, c := range h.Completions {
			_, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO completions (habit_id, day) VALUES (?, ?)`,
				h.ID, formatDate(c))
			if err != nil {
				return fmt.Errorf("%w: insert completion: %v", domain.ErrPersistenceWrite, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrPersistenceWrite, err)
	}
	return nil
}
