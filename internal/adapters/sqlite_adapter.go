package adapters

import (
	"context"

	"fuelstats/internal/core"
	"fuelstats/internal/services"
	"fuelstats/internal/source"
	"fuelstats/internal/storage"
)

var _ source.RecordStore = (*SQLiteAdapter)(nil)

// SQLiteAdapter serves reads straight from SQLiteRepository and routes
// writes through RecordService, so every new record is announced to the
// sync worker.
type SQLiteAdapter struct {
	storage *storage.SQLiteRepository
	service *services.RecordService
}

func NewSQLiteAdapter(storage *storage.SQLiteRepository, service *services.RecordService) *SQLiteAdapter {
	return &SQLiteAdapter{
		storage: storage,
		service: service,
	}
}

// ReadRecords implements source.RecordReader
func (a *SQLiteAdapter) ReadRecords(ctx context.Context, collection string) ([]core.Record, error) {
	return a.storage.ReadRecords(ctx, collection)
}

// AppendRecord implements source.RecordWriter
func (a *SQLiteAdapter) AppendRecord(ctx context.Context, collection string, r core.Record) (string, error) {
	return a.service.CreateRecord(ctx, collection, r)
}
