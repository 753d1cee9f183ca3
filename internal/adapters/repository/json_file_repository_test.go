package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/habits/internal/core/domain"
)

func TestJSONFileRepository_MissingFile(t *testing.T) {
	repo := NewJSONFileRepository(filepath.Join(t.TempDir(), "habits-data.json"), domain.Profile{}, testLogger)

	snapshot, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestJSONFileRepository_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "habits-data.json")
	repo := NewJSONFileRepository(path, domain.NewProfile("", localDay(1, 0)), testLogger)
	assert.Equal(t, path, repo.Path())

	in := sampleSnapshot(t)
	require.NoError(t, repo.Save(ctx, in))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file must not be left behind")
	assert.Equal(t, "habits-data.json", entries[0].Name())

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Len(t, out.Habits, 2)
	assert.Equal(t, in.Habits[0].ID, out.Habits[0].ID)
	assert.Equal(t, dayKeys(in.Habits[0]), dayKeys(out.Habits[0]))
}

func TestJSONFileRepository_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "habits-data.json")
	repo := NewJSONFileRepository(path, domain.Profile{}, testLogger)

	s := sampleSnapshot(t)
	require.NoError(t, repo.Save(ctx, s))

	s.Habits = s.Habits[:1]
	require.NoError(t, repo.Save(ctx, s))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, out.Habits, 1)
}

func TestJSONFileRepository_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habits-data.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	repo := NewJSONFileRepository(path, domain.Profile{}, testLogger)
	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrPersistenceRead)
}

func TestJSONFileRepository_UnwritableLocation(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	repo := NewJSONFileRepository(filepath.Join(blocker, "habits-data.json"), domain.Profile{}, testLogger)
	err := repo.Save(context.Background(), sampleSnapshot(t))
	assert.ErrorIs(t, err, domain.ErrPersistenceWrite)
}
