package storage

import (
	"context"
	"path/filepath"
	"testing"

	"fuelstats/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func mustRecord(t *testing.T, amount, distance, date string) core.Record {
	t.Helper()
	r, err := core.ParseRecord(amount, distance, date)
	require.NoError(t, err)
	return r
}

func TestSQLiteRepository_AppendAndRead(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ref, err := repo.AppendRecord(ctx, "bike_history", mustRecord(t, "500.25", "1000", "2024-01-05"))
	require.NoError(t, err)
	assert.Equal(t, "1", ref)
	_, err = repo.AppendRecord(ctx, "bike_history", mustRecord(t, "600", "1400.5", "2024-01-20T10:00:00Z"))
	require.NoError(t, err)
	_, err = repo.AppendRecord(ctx, "car_history", mustRecord(t, "70", "30000", "2024-01-21"))
	require.NoError(t, err)

	got, err := repo.ReadRecords(ctx, "bike_history")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "500.25", got[0].Amount.String())
	assert.Equal(t, "1400.5", got[1].AtDistance.String())
	assert.Equal(t, "2024-01-20T10:00:00Z", got[1].DateChanged)

	none, err := repo.ReadRecords(ctx, "van_history")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteRepository_RejectsInvalid(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AppendRecord(ctx, "Bike History", mustRecord(t, "1", "1", "2024-01-01"))
	assert.ErrorIs(t, err, core.ErrInvalidCollection)

	_, err = repo.AppendRecord(ctx, "bike_history", mustRecord(t, "1", "1", "soon"))
	assert.ErrorIs(t, err, core.ErrInvalidDate)
}

func TestSQLiteRepository_SyncLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.CreateRecord(ctx, "bike_history", mustRecord(t, "10", "100", "2024-01-01"))
	require.NoError(t, err)
	second, err := repo.CreateRecord(ctx, "bike_history", mustRecord(t, "20", "200", "2024-01-02"))
	require.NoError(t, err)

	pending, err := repo.GetPendingSync(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first, pending[0].ID)
	assert.Equal(t, "bike_history", pending[0].Collection)

	require.NoError(t, repo.MarkSynced(ctx, first))
	require.NoError(t, repo.MarkSyncError(ctx, second))

	pending, err = repo.GetPendingSync(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	row, err := repo.GetRecord(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "synced", row.SyncStatus)
	assert.True(t, row.SyncedAt.Valid)

	row, err = repo.GetRecord(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "error", row.SyncStatus)

	_, err = repo.GetRecord(ctx, 999)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.db")
	require.NoError(t, RunMigrations(path))
	require.NoError(t, RunMigrations(path))
}
