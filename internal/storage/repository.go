package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"fuelstats/internal/core"
	"fuelstats/internal/source"

	_ "modernc.org/sqlite"
)

var ErrRecordNotFound = errors.New("record not found")

var _ source.RecordStore = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReadRecords implements source.RecordReader. Rows are returned in insertion
// order; a stored value that no longer parses is skipped with a warning.
func (r *SQLiteRepository) ReadRecords(ctx context.Context, collection string) ([]core.Record, error) {
	if err := core.ValidateCollection(collection); err != nil {
		return nil, err
	}
	rows, err := r.queries.ListRecordsByCollection(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	out := make([]core.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.ToCore()
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed stored record", "id", row.ID, "collection", collection, "error", err)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// AppendRecord implements source.RecordWriter. The new row starts in the
// pending sync state and its id is returned as the reference.
func (r *SQLiteRepository) AppendRecord(ctx context.Context, collection string, rec core.Record) (string, error) {
	id, err := r.CreateRecord(ctx, collection, rec)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 10), nil
}

// CreateRecord validates and inserts a record, returning its id.
func (r *SQLiteRepository) CreateRecord(ctx context.Context, collection string, rec core.Record) (int64, error) {
	if err := core.ValidateCollection(collection); err != nil {
		return 0, err
	}
	if err := rec.Validate(nil); err != nil {
		return 0, err
	}
	row, err := r.queries.CreateRecord(ctx, CreateRecordParams{
		Collection:  collection,
		Amount:      rec.Amount.String(),
		AtDistance:  rec.AtDistance.String(),
		DateChanged: rec.DateChanged,
	})
	if err != nil {
		return 0, fmt.Errorf("create record: %w", err)
	}

	slog.InfoContext(ctx, "Record saved to SQLite",
		"id", row.ID,
		"collection", row.Collection,
		"amount", row.Amount,
		"at_distance", row.AtDistance)

	return row.ID, nil
}

// GetRecord retrieves a single record by id.
func (r *SQLiteRepository) GetRecord(ctx context.Context, id int64) (*Record, error) {
	row, err := r.queries.GetRecord(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get record %d: %w", id, ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get record by id: %w", err)
	}
	return &row, nil
}

// PendingSyncRecord is the minimal data needed to enqueue a sync.
type PendingSyncRecord struct {
	ID         int64
	Collection string
	CreatedAt  time.Time
}

// GetPendingSync returns records that still need to reach Google Sheets,
// oldest first.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]PendingSyncRecord, error) {
	rows, err := r.queries.GetPendingSyncRecords(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync records: %w", err)
	}
	out := make([]PendingSyncRecord, len(rows))
	for i, row := range rows {
		out[i] = PendingSyncRecord{ID: row.ID, Collection: row.Collection, CreatedAt: row.CreatedAt}
	}
	return out, nil
}

// MarkSynced marks a record as successfully synced
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if err := r.queries.MarkRecordSynced(ctx, id); err != nil {
		return fmt.Errorf("mark record synced: %w", err)
	}
	slog.InfoContext(ctx, "Record marked as synced", "id", id)
	return nil
}

// MarkSyncError marks a record as having sync errors
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if err := r.queries.MarkRecordSyncError(ctx, id); err != nil {
		return fmt.Errorf("mark record sync error: %w", err)
	}
	slog.WarnContext(ctx, "Record marked with sync error", "id", id)
	return nil
}

// ToCore converts the stored textual columns back into a core.Record.
func (r Record) ToCore() (core.Record, error) {
	return core.ParseRecord(r.Amount, r.AtDistance, r.DateChanged)
}
