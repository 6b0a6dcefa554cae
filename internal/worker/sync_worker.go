package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fuelstats/internal/amqp"
	"fuelstats/internal/metrics"
	"fuelstats/internal/source"
	"fuelstats/internal/storage"
)

// Store is the part of the SQLite repository the worker needs.
type Store interface {
	GetRecord(ctx context.Context, id int64) (*storage.Record, error)
	GetPendingSync(ctx context.Context, limit int) ([]storage.PendingSyncRecord, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64) error
}

// SyncWorker mirrors records stored in SQLite into Google Sheets.
type SyncWorker struct {
	storage   Store
	sheets    source.RecordWriter
	batchSize int
	metrics   *metrics.Metrics
}

func NewSyncWorker(storage Store, sheets source.RecordWriter, batchSize int, m *metrics.Metrics) *SyncWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &SyncWorker{
		storage:   storage,
		sheets:    sheets,
		batchSize: batchSize,
		metrics:   m,
	}
}

// HandleSyncMessage processes a single record sync message from AMQP.
// A record that no longer exists is acknowledged and dropped.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.RecordSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"record_id", msg.RecordID,
		"collection", msg.Collection,
		"message_id", msg.MessageID)

	rec, err := w.storage.GetRecord(ctx, msg.RecordID)
	if errors.Is(err, storage.ErrRecordNotFound) {
		slog.WarnContext(ctx, "Record not found, dropping sync message", "record_id", msg.RecordID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get record from storage: %w", err)
	}
	if rec.SyncStatus == "synced" {
		slog.DebugContext(ctx, "Record already synced", "record_id", rec.ID)
		return nil
	}

	if err := w.syncRecordToSheets(ctx, rec); err != nil {
		return fmt.Errorf("sync record to sheets: %w", err)
	}
	return nil
}

// ProcessPending syncs records that never got a message through.
// This is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	_, _, err := w.processBatch(ctx, w.batchSize)
	return err
}

// StartupSyncCheck works through a larger batch at worker startup to recover
// from downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	synced, failed, err := w.processBatch(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("startup sync check: %w", err)
	}
	if synced+failed == 0 {
		slog.InfoContext(ctx, "No pending records found on startup")
		return nil
	}
	slog.InfoContext(ctx, "Startup sync completed",
		"total", synced+failed,
		"synced", synced,
		"errors", failed)
	return nil
}

// Run calls ProcessPending every interval until ctx is done.
func (w *SyncWorker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ProcessPending(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic sync failed", "error", err)
			}
		}
	}
}

func (w *SyncWorker) processBatch(ctx context.Context, limit int) (synced, failed int, err error) {
	pending, err := w.storage.GetPendingSync(ctx, limit)
	if err != nil {
		return 0, 0, fmt.Errorf("get pending records: %w", err)
	}
	if len(pending) == 0 {
		return 0, 0, nil
	}

	slog.InfoContext(ctx, "Processing pending records", "count", len(pending))

	for _, p := range pending {
		if ctx.Err() != nil {
			return synced, failed, ctx.Err()
		}
		rec, err := w.storage.GetRecord(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get record", "id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			failed++
			continue
		}
		if err := w.syncRecordToSheets(ctx, rec); err != nil {
			slog.ErrorContext(ctx, "Failed to sync record", "id", p.ID, "error", err)
			failed++
			continue
		}
		synced++
	}
	return synced, failed, nil
}

func (w *SyncWorker) syncRecordToSheets(ctx context.Context, rec *storage.Record) error {
	r, err := rec.ToCore()
	if err != nil {
		w.markError(ctx, rec.ID)
		return fmt.Errorf("decode record %d: %w", rec.ID, err)
	}

	ref, err := w.sheets.AppendRecord(ctx, rec.Collection, r)
	if err != nil {
		w.markError(ctx, rec.ID)
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, rec.ID); err != nil {
		// the row reached the sheet; only the local status is stale
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", rec.ID, "error", err)
	}
	w.metrics.RecordSync(true)

	slog.InfoContext(ctx, "Successfully synced record",
		"id", rec.ID,
		"collection", rec.Collection,
		"sheets_ref", ref)
	return nil
}

func (w *SyncWorker) markError(ctx context.Context, id int64) {
	w.metrics.RecordSync(false)
	if err := w.storage.MarkSyncError(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", err)
	}
}
