package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/comitanigiacomo/habits/internal/core/domain"
)

var _ domain.SnapshotRepository = (*JSONFileRepository)(nil)

// JSONFileRepository keeps the snapshot in a single JSON document on disk.
type JSONFileRepository struct {
	path     string
	defaults domain.Profile
	logger   *slog.Logger
}

func NewJSONFileRepository(path string, defaults domain.Profile, logger *slog.Logger) *JSONFileRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &JSONFileRepository{
		path:     path,
		defaults: defaults,
		logger:   logger,
	}
}

func (r *JSONFileRepository) Path() string {
	return r.path
}

func (r *JSONFileRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceRead, err)
	}

	defaults := r.defaults
	if defaults.JoinDate.IsZero() {
		defaults.JoinDate = time.Now()
	}

	snapshot, err := DecodeSnapshot(raw, defaults, r.logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}

	r.logger.Debug("data file loaded", "path", r.path, "habits", len(snapshot.Habits))
	return snapshot, nil
}

func (r *JSONFileRepository) Save(ctx context.Context, s *domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := EncodeSnapshot(s)
	if err != nil {
		return err
	}

	if err := writeFileAtomic(r.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrPersistenceWrite, r.path, err)
	}
	return nil
}

// writeFileAtomic writes to a temp file in the target directory, syncs it and
// renames it over path so readers never see a partial document.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
