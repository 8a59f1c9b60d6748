package loaders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type fakeRows struct {
	rows    [][]any
	idx     int
	err     error
	closed  bool
	scanErr error
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	return r.rows[r.idx-1], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	row := r.rows[r.idx-1]
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = row[i].(string)
		case *int:
			*p = row[i].(int)
		case *int64:
			*p = row[i].(int64)
		case *time.Time:
			*p = row[i].(time.Time)
		default:
			return errors.New("unsupported scan target")
		}
	}
	return nil
}

type fakeQuerier struct {
	rows    *fakeRows
	err     error
	pingErr error
}

func (q *fakeQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}

func (q *fakeQuerier) Ping(context.Context) error { return q.pingErr }

func row(id, name string, age int, risk string, aum int64) []any {
	contact := time.Date(2025, 7, 10, 16, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	return []any{id, name, age, "female", risk, aum, contact, 90}
}

func TestLoadCustomers(t *testing.T) {
	rows := &fakeRows{rows: [][]any{
		row("1", "Alice Smith", 34, "low", 120000),
		row("2", "Carol Lee", 29, "high", 80000),
	}}
	c := NewPostgresClientFrom(&fakeQuerier{rows: rows})

	got, err := c.LoadCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Carol Lee", got[1].Name)
	require.Equal(t, int64(80000), got[1].AUM)
	require.Equal(t, time.UTC, got[0].LastContact.Location())
	require.Equal(t, 14, got[0].LastContact.Hour())
	require.True(t, rows.closed)
}

func TestLoadCustomers_DuplicateID(t *testing.T) {
	rows := &fakeRows{rows: [][]any{
		row("1", "Alice Smith", 34, "low", 120000),
		row("1", "Alice Again", 35, "low", 1),
	}}
	c := NewPostgresClientFrom(&fakeQuerier{rows: rows})

	_, err := c.LoadCustomers(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate customer id")
}

func TestLoadCustomers_Errors(t *testing.T) {
	_, err := NewPostgresClientFrom(&fakeQuerier{err: errors.New("no table")}).LoadCustomers(context.Background())
	require.ErrorContains(t, err, "no table")

	scan := &fakeRows{rows: [][]any{row("1", "A", 1, "low", 1)}, scanErr: errors.New("bad column")}
	_, err = NewPostgresClientFrom(&fakeQuerier{rows: scan}).LoadCustomers(context.Background())
	require.ErrorContains(t, err, "bad column")

	iter := &fakeRows{err: errors.New("conn reset")}
	_, err = NewPostgresClientFrom(&fakeQuerier{rows: iter}).LoadCustomers(context.Background())
	require.ErrorContains(t, err, "conn reset")
}

func TestPing(t *testing.T) {
	require.NoError(t, NewPostgresClientFrom(&fakeQuerier{}).Ping(context.Background()))
	require.Error(t, NewPostgresClientFrom(&fakeQuerier{pingErr: errors.New("down")}).Ping(context.Background()))
}
