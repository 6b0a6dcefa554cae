package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fuelstats/internal/core"
	applog "fuelstats/internal/log"
	"fuelstats/internal/metrics"
	"fuelstats/internal/source"
)

// ReportService fetches a collection and runs the aggregation engine on it.
// Every call reads the source afresh; nothing is kept between calls.
type ReportService struct {
	reader  source.RecordReader
	clock   core.Clock
	metrics *metrics.Metrics
}

func NewReportService(reader source.RecordReader, clock core.Clock, m *metrics.Metrics) *ReportService {
	if clock == nil {
		clock = core.SystemClock{}
	}
	return &ReportService{reader: reader, clock: clock, metrics: m}
}

// Report is the full evaluation of one collection at one instant.
type Report struct {
	Collection string
	Now        time.Time
	core.Result
}

// Summary returns the fuel economy summary of collection. The error is
// core.ErrNotEnoughData or core.ErrUndefinedMileage when the records cannot
// produce one.
func (s *ReportService) Summary(ctx context.Context, collection string) (core.Summary, error) {
	start := time.Now()
	records, now, err := s.fetch(ctx, applog.OpSummary, collection)
	if err != nil {
		return core.Summary{}, err
	}
	summary, skips, err := core.ComputeSummary(core.SortByDistance(records), now)
	s.reportSkips(ctx, collection, skips)
	s.metrics.ObserveCompute(applog.OpSummary, len(records), time.Since(start))
	return summary, err
}

// Expenses returns the monthly and weekly breakdown of collection.
func (s *ReportService) Expenses(ctx context.Context, collection string) (core.Breakdown, error) {
	start := time.Now()
	records, now, err := s.fetch(ctx, applog.OpExpenses, collection)
	if err != nil {
		return core.Breakdown{}, err
	}
	breakdown, skips := core.ComputeBreakdown(core.SortByDistance(records), now)
	s.reportSkips(ctx, collection, skips)
	s.metrics.ObserveCompute(applog.OpExpenses, len(records), time.Since(start))
	return breakdown, nil
}

// Report evaluates everything at once. A summary that cannot be produced is
// carried in Report.SummaryErr rather than returned.
func (s *ReportService) Report(ctx context.Context, collection string) (Report, error) {
	start := time.Now()
	records, now, err := s.fetch(ctx, applog.OpReport, collection)
	if err != nil {
		return Report{}, err
	}
	res := core.Evaluate(records, now)
	s.reportSkips(ctx, collection, res.Skips)
	s.metrics.ObserveCompute(applog.OpReport, len(records), time.Since(start))
	return Report{Collection: collection, Now: now, Result: res}, nil
}

func (s *ReportService) fetch(ctx context.Context, op, collection string) ([]core.Record, time.Time, error) {
	if err := core.ValidateCollection(collection); err != nil {
		return nil, time.Time{}, err
	}
	records, err := s.reader.ReadRecords(ctx, collection)
	if err != nil {
		s.metrics.RecordSourceError(op)
		return nil, time.Time{}, fmt.Errorf("read records of %s: %w", collection, err)
	}
	slog.DebugContext(ctx, "Records fetched",
		applog.FieldCollection, collection,
		applog.FieldRecords, len(records),
		applog.FieldOperation, op)
	return records, s.clock.Now(), nil
}

func (s *ReportService) reportSkips(ctx context.Context, collection string, skips []core.Skip) {
	for _, sk := range skips {
		slog.WarnContext(ctx, "Record skipped",
			applog.FieldCollection, collection,
			applog.FieldStage, string(sk.Stage),
			applog.FieldPosition, sk.Position,
			"date_changed", sk.Record.DateChanged,
			"reason", sk.Reason())
		s.metrics.RecordSkip(string(sk.Stage))
	}
}
