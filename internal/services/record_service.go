package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"fuelstats/internal/core"
	"fuelstats/internal/metrics"
)

// RecordRepository persists records locally and hands back their id.
type RecordRepository interface {
	CreateRecord(ctx context.Context, collection string, r core.Record) (int64, error)
	Close() error
}

// SyncPublisher announces a stored record to the sync worker.
type SyncPublisher interface {
	PublishRecordSync(ctx context.Context, recordID int64, collection string) error
}

// RecordService orchestrates record writes across SQLite and AMQP
type RecordService struct {
	storage   RecordRepository
	publisher SyncPublisher
	metrics   *metrics.Metrics
}

// NewRecordService wires a repository and an optional publisher; pass a nil
// publisher to run without sync.
func NewRecordService(storage RecordRepository, publisher SyncPublisher, m *metrics.Metrics) *RecordService {
	return &RecordService{
		storage:   storage,
		publisher: publisher,
		metrics:   m,
	}
}

// CreateRecord saves a record locally and publishes a sync message. A failed
// publish is logged only: the record is safe in SQLite and the worker's
// periodic pass picks it up.
func (s *RecordService) CreateRecord(ctx context.Context, collection string, r core.Record) (string, error) {
	id, err := s.storage.CreateRecord(ctx, collection, r)
	if err != nil {
		return "", fmt.Errorf("save record: %w", err)
	}

	if err := s.publishSyncMessage(ctx, id, collection); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", id, "collection", collection, "error", err)
		s.metrics.RecordPublish(false)
	}

	return strconv.FormatInt(id, 10), nil
}

func (s *RecordService) publishSyncMessage(ctx context.Context, id int64, collection string) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}
	if err := s.publisher.PublishRecordSync(ctx, id, collection); err != nil {
		return err
	}
	s.metrics.RecordPublish(true)
	return nil
}

// Close closes both storage and the publisher connection.
func (s *RecordService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close record service: %v", errs)
	}
	return nil
}
