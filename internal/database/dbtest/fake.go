// Package dbtest provides an in-memory database.DB for tests.
//
// Results are registered per statement text. Rows carry raw driver values,
// so tests exercise the same []byte conversion path the MySQL driver takes.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/koustreak/chococrunch/internal/database"
	"github.com/koustreak/chococrunch/internal/errs"
)

// Result is a canned result set.
type Result struct {
	Columns []database.ColumnType
	Rows    [][]any
}

// Cols is a shorthand for building column types as name/type pairs:
// Cols("brand", "VARCHAR", "total_products", "BIGINT").
func Cols(pairs ...string) []database.ColumnType {
	out := make([]database.ColumnType, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, database.ColumnType{Name: pairs[i], DatabaseType: pairs[i+1]})
	}
	return out
}

// DB is a fake database.DB.
type DB struct {
	mu      sync.Mutex
	results map[string]Result
	errors  map[string]error
	pingErr error
	queries []string
	closed  bool
}

// New returns an empty fake.
func New() *DB {
	return &DB{results: make(map[string]Result), errors: make(map[string]error)}
}

// On registers the result returned for statement.
func (d *DB) On(statement string, r Result) *DB {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.results[normalize(statement)] = r
	return d
}

// Fail makes statement return err.
func (d *DB) Fail(statement string, err error) *DB {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.errors[normalize(statement)] = err
	return d
}

// FailPing makes Ping return err.
func (d *DB) FailPing(err error) *DB {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pingErr = err
	return d
}

// Queries returns the statements executed so far.
func (d *DB) Queries() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.queries...)
}

// Closed reports whether Close was called.
func (d *DB) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *DB) Ping(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pingErr
}

func (d *DB) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
}

func (d *DB) Query(ctx context.Context, sql string, args ...any) (database.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindTimeout, "query failed", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	key := normalize(sql)
	d.queries = append(d.queries, sql)
	if err, ok := d.errors[key]; ok {
		return nil, err
	}
	r, ok := d.results[key]
	if !ok {
		return nil, errs.Newf(errs.ErrKindQueryFailed, "no result registered for statement %q", strings.TrimSpace(sql))
	}
	return &rows{result: r, pos: -1}, nil
}

type rows struct {
	result Result
	pos    int
	closed bool
}

func (r *rows) Next() bool {
	if r.closed {
		return false
	}
	r.pos++
	return r.pos < len(r.result.Rows)
}

func (r *rows) Scan(dest ...any) error {
	row := r.result.Rows[r.pos]
	if len(dest) != len(row) {
		return fmt.Errorf("expected %d destinations, got %d", len(row), len(dest))
	}
	for i, v := range row {
		p, ok := dest[i].(*any)
		if !ok {
			return fmt.Errorf("destination %d is %T, want *any", i, dest[i])
		}
		if s, ok := v.(string); ok {
			// the text protocol delivers bytes
			v = []byte(s)
		}
		*p = v
	}
	return nil
}

func (r *rows) Columns() ([]string, error) {
	names := make([]string, len(r.result.Columns))
	for i, c := range r.result.Columns {
		names[i] = c.Name
	}
	return names, nil
}

func (r *rows) ColumnTypes() ([]database.ColumnType, error) {
	return r.result.Columns, nil
}

func (r *rows) Close()     { r.closed = true }
func (r *rows) Err() error { return nil }

// normalize collapses whitespace so tests can register statements without
// matching indentation byte for byte.
func normalize(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}
