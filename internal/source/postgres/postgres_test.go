package postgres

import (
	"context"
	"errors"
	"testing"

	"fuelstats/internal/core"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

type fakeRows struct {
	data [][3]*string
	i    int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.i-1]
	for i := range dest {
		*(dest[i].(**string)) = row[i]
	}
	return nil
}

type fakeQuerier struct {
	rows    *fakeRows
	err     error
	lastSQL string
}

func (q *fakeQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	q.lastSQL = sql
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}

func TestReader_ReadRecords(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{data: [][3]*string{
		{str("500.00"), str("1000"), str("2024-01-05 08:00:00+00")},
		{nil, str("1100"), str("2024-01-08")},
		{str("oops"), str("1200"), str("2024-01-10")},
		{str("600"), str("1400"), nil},
	}}}

	got, err := NewReader(q).ReadRecords(context.Background(), "bike_history")
	require.NoError(t, err)
	assert.Equal(t, `SELECT amount::text, at_distance::text, date_changed::text FROM "bike_history"`, q.lastSQL)

	require.Len(t, got, 2)
	assert.Equal(t, "500", got[0].Amount.String())
	// a NULL date is kept and later skipped by the engine
	assert.Equal(t, "", got[1].DateChanged)
}

func TestReader_RejectsUnsafeCollection(t *testing.T) {
	q := &fakeQuerier{}
	_, err := NewReader(q).ReadRecords(context.Background(), `x"; DROP TABLE y; --`)
	require.ErrorIs(t, err, core.ErrInvalidCollection)
	assert.Empty(t, q.lastSQL, "no query must be issued")
}

func TestReader_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")

	_, err := NewReader(&fakeQuerier{err: boom}).ReadRecords(context.Background(), "bike_history")
	require.ErrorIs(t, err, boom)

	_, err = NewReader(&fakeQuerier{rows: &fakeRows{err: boom}}).ReadRecords(context.Background(), "bike_history")
	require.ErrorIs(t, err, boom)
}
