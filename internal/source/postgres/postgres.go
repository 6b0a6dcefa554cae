package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fuelstats/internal/core"
	"fuelstats/internal/source"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ source.RecordReader = (*Reader)(nil)

// Querier is the subset of pgxpool.Pool used by Reader.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Reader reads records from a table per collection, as laid out in a
// Supabase project: amount, at_distance, date_changed columns of any
// numeric or textual type.
type Reader struct {
	db Querier
}

func NewReader(db Querier) *Reader {
	return &Reader{db: db}
}

// NewPool opens and pings a connection pool.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	config.MaxConns = 5
	config.MaxConnIdleTime = time.Minute
	config.MaxConnLifetime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func selectQuery(collection string) string {
	return fmt.Sprintf(
		"SELECT amount::text, at_distance::text, date_changed::text FROM %s",
		pgx.Identifier{collection}.Sanitize())
}

// ReadRecords selects every row of the collection's table. Rows with NULL or
// malformed numeric columns are skipped with a warning.
func (r *Reader) ReadRecords(ctx context.Context, collection string) ([]core.Record, error) {
	if err := core.ValidateCollection(collection); err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, selectQuery(collection))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	var (
		out []core.Record
		n   int
	)
	for rows.Next() {
		n++
		var amount, distance, date *string
		if err := rows.Scan(&amount, &distance, &date); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		if amount == nil || distance == nil {
			slog.WarnContext(ctx, "Skipping row with null columns", "collection", collection, "row", n)
			continue
		}
		var dateChanged string
		if date != nil {
			dateChanged = *date
		}
		rec, err := core.ParseRecord(*amount, *distance, dateChanged)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed row", "collection", collection, "row", n, "error", err)
			continue
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}
	return out, nil
}
