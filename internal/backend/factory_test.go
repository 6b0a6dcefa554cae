package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fuelstats/internal/config"
	"fuelstats/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAppConfig(t *testing.T) {
	_, err := FromAppConfig(nil)
	require.Error(t, err)

	_, err = FromAppConfig(&config.Config{DataBackend: "excel"})
	require.Error(t, err)

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:   "postgres",
		DatabaseURL:   "postgres://localhost/db",
		DataDirectory: "seed",
	})
	require.NoError(t, err)
	assert.Equal(t, PostgresBackend, cfg.Type)
	assert.Equal(t, "postgres://localhost/db", cfg.DatabaseURL)
	assert.Equal(t, "seed", cfg.DataDirectory)
}

func TestConfigValidate(t *testing.T) {
	assert.Error(t, Config{Type: "nope"}.Validate())
	assert.Error(t, Config{Type: SQLiteBackend}.Validate())
	assert.Error(t, Config{Type: SheetsBackend}.Validate())
	assert.Error(t, Config{Type: PostgresBackend}.Validate())
	assert.NoError(t, Config{Type: MemoryBackend}.Validate())
	assert.Len(t, GetBackendTypes(), 4)
}

func TestFactory_MemoryBackend(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bike_history.csv"),
		[]byte("amount,at_distance,date_changed\n500,1000,2024-01-05\n"), 0o644))

	res, err := NewFactory(nil, nil).CreateBackend(context.Background(), Config{Type: MemoryBackend, DataDirectory: dir})
	require.NoError(t, err)
	defer res.Close()

	got, err := res.Reader.ReadRecords(context.Background(), "bike_history")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.NotNil(t, res.Writer)
}

func TestFactory_SQLiteBackendWithoutAMQP(t *testing.T) {
	res, err := NewFactory(nil, nil).CreateBackend(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "f.db"),
	})
	require.NoError(t, err)
	defer res.Close()

	rec, _ := core.ParseRecord("1", "2", "2024-01-01")
	ref, err := res.Writer.AppendRecord(context.Background(), "bike_history", rec)
	require.NoError(t, err)
	assert.Equal(t, "1", ref)

	got, err := res.Reader.ReadRecords(context.Background(), "bike_history")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestBackendResult_CloseNil(t *testing.T) {
	var r *BackendResult
	assert.NoError(t, r.Close())
	assert.NoError(t, (&BackendResult{}).Close())
}
