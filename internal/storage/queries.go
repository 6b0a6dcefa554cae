package storage

import (
	"context"
	"database/sql"
	"time"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// Record is a stored row of the records table.
type Record struct {
	ID          int64
	Collection  string
	Amount      string
	AtDistance  string
	DateChanged string
	SyncStatus  string
	CreatedAt   time.Time
	SyncedAt    sql.NullTime
}

const recordColumns = `id, collection, amount, at_distance, date_changed, sync_status, created_at, synced_at`

func scanRecord(sc interface{ Scan(...any) error }) (Record, error) {
	var r Record
	err := sc.Scan(&r.ID, &r.Collection, &r.Amount, &r.AtDistance, &r.DateChanged,
		&r.SyncStatus, &r.CreatedAt, &r.SyncedAt)
	return r, err
}

const createRecord = `INSERT INTO records (collection, amount, at_distance, date_changed)
VALUES (?, ?, ?, ?)
RETURNING ` + recordColumns

type CreateRecordParams struct {
	Collection  string
	Amount      string
	AtDistance  string
	DateChanged string
}

func (q *Queries) CreateRecord(ctx context.Context, arg CreateRecordParams) (Record, error) {
	row := q.db.QueryRowContext(ctx, createRecord, arg.Collection, arg.Amount, arg.AtDistance, arg.DateChanged)
	return scanRecord(row)
}

const getRecord = `SELECT ` + recordColumns + ` FROM records WHERE id = ?`

func (q *Queries) GetRecord(ctx context.Context, id int64) (Record, error) {
	return scanRecord(q.db.QueryRowContext(ctx, getRecord, id))
}

const listRecordsByCollection = `SELECT ` + recordColumns + ` FROM records WHERE collection = ? ORDER BY id`

func (q *Queries) ListRecordsByCollection(ctx context.Context, collection string) ([]Record, error) {
	return q.list(ctx, listRecordsByCollection, collection)
}

const getPendingSyncRecords = `SELECT ` + recordColumns + ` FROM records
WHERE sync_status = 'pending'
ORDER BY created_at, id
LIMIT ?`

func (q *Queries) GetPendingSyncRecords(ctx context.Context, limit int64) ([]Record, error) {
	return q.list(ctx, getPendingSyncRecords, limit)
}

const markRecordSynced = `UPDATE records SET sync_status = 'synced', synced_at = CURRENT_TIMESTAMP WHERE id = ?`

func (q *Queries) MarkRecordSynced(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markRecordSynced, id)
	return err
}

const markRecordSyncError = `UPDATE records SET sync_status = 'error' WHERE id = ?`

func (q *Queries) MarkRecordSyncError(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, markRecordSyncError, id)
	return err
}

func (q *Queries) list(ctx context.Context, query string, args ...interface{}) ([]Record, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
