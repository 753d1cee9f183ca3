package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/habits/internal/core/domain"
)

func newTestSQLiteRepository(t *testing.T) *SQLiteRepository {
	t.Helper()

	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "habits.db"), domain.NewProfile("", localDay(1, 0)), testLogger)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepository_EmptyDatabase(t *testing.T) {
	repo := newTestSQLiteRepository(t)

	snapshot, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestSQLiteRepository_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	repo := newTestSQLiteRepository(t)

	in := sampleSnapshot(t)
	require.NoError(t, repo.Save(ctx, in))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, "Daud", out.Profile.Name)
	assert.True(t, in.Profile.JoinDate.Equal(out.Profile.JoinDate))

	require.Len(t, out.Habits, 2)
	for i := range in.Habits {
		assert.Equal(t, in.Habits[i].ID, out.Habits[i].ID)
		assert.Equal(t, in.Habits[i].Name, out.Habits[i].Name)
		assert.Equal(t, in.Habits[i].TargetFrequency, out.Habits[i].TargetFrequency)
		assert.True(t, in.Habits[i].CreatedAt.Equal(out.Habits[i].CreatedAt))
		assert.Equal(t, dayKeys(in.Habits[i]), dayKeys(out.Habits[i]))
	}
}

func TestSQLiteRepository_SaveReplacesState(t *testing.T) {
	ctx := context.Background()
	repo := newTestSQLiteRepository(t)

	s := sampleSnapshot(t)
	require.NoError(t, repo.Save(ctx, s))

	s.Habits = []*domain.Habit{s.Habits[1], s.Habits[0]}
	s.Habits = s.Habits[:1]
	require.NoError(t, repo.Save(ctx, s))

	out, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out.Habits, 1)
	assert.Equal(t, "Water", out.Habits[0].Name)
}

func TestSQLiteRepository_ReopenRunsMigrationsOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "habits.db")

	first, err := NewSQLiteRepository(path, domain.Profile{}, testLogger)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, sampleSnapshot(t)))
	require.NoError(t, first.Close())

	second, err := NewSQLiteRepository(path, domain.Profile{}, testLogger)
	require.NoError(t, err)
	defer second.Close()

	out, err := second.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, out.Habits, 2)
}
