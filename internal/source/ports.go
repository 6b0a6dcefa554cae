package source

import (
	"context"

	"fuelstats/internal/core"
)

// Ports for outbound adapters.
type (
	// RecordReader returns every record of a collection in storage order.
	// No filtering or paging is applied.
	RecordReader interface {
		ReadRecords(ctx context.Context, collection string) ([]core.Record, error)
	}

	RecordWriter interface {
		AppendRecord(ctx context.Context, collection string, r core.Record) (ref string, err error)
	}

	RecordStore interface {
		RecordReader
		RecordWriter
	}
)
