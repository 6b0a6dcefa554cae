package memory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fuelstats/internal/core"
	"fuelstats/internal/source"
)

var _ source.RecordStore = (*Store)(nil)

type Store struct {
	mu          sync.Mutex
	collections map[string][]core.Record
}

func New() *Store {
	return &Store{collections: map[string][]core.Record{}}
}

// NewFromFiles seeds one collection per <name>.csv file found in dir.
// Files are expected to carry an amount,at_distance,date_changed header.
// A missing directory yields an empty store.
func NewFromFiles(dir string) *Store {
	s := New()
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return s
	}
	for _, p := range paths {
		name := strings.TrimSuffix(filepath.Base(p), ".csv")
		if err := core.ValidateCollection(name); err != nil {
			slog.Warn("Skipping seed file", "path", p, "error", err)
			continue
		}
		records, err := readCSV(p)
		if err != nil {
			slog.Warn("Failed to read seed file", "path", p, "error", err)
			continue
		}
		s.collections[name] = records
		slog.Info("Seeded collection", "collection", name, "records", len(records))
	}
	return s
}

// Seed appends records to a collection without validation.
func (s *Store) Seed(collection string, records ...core.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = append(s.collections[collection], records...)
}

// ReadRecords returns a copy of the collection. Unknown collections are empty.
func (s *Store) ReadRecords(_ context.Context, collection string) ([]core.Record, error) {
	if err := core.ValidateCollection(collection); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Record(nil), s.collections[collection]...), nil
}

// AppendRecord stores the record and returns a synthetic reference.
func (s *Store) AppendRecord(_ context.Context, collection string, r core.Record) (string, error) {
	if err := core.ValidateCollection(collection); err != nil {
		return "", err
	}
	if err := r.Validate(nil); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[collection] = append(s.collections[collection], r)
	return fmt.Sprintf("mem:%s:%d", collection, len(s.collections[collection])), nil
}

func readCSV(path string) ([]core.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var (
		out  []core.Record
		line int
	)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		line++
		if line == 1 && isHeader(row) {
			continue
		}
		if len(row) < 3 {
			slog.Warn("Skipping short seed row", "path", path, "line", line)
			continue
		}
		r, err := core.ParseRecord(row[0], row[1], row[2])
		if err != nil {
			slog.Warn("Skipping malformed seed row", "path", path, "line", line, "error", err)
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func isHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "amount")
}
