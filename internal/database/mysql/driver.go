package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/koustreak/chococrunch/internal/database"
	"github.com/koustreak/chococrunch/internal/errs"
)

// Driver is a MySQL implementation of database.DB backed by database/sql.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	db *sql.DB
}

// New opens the MySQL connection using the provided Config and returns a
// Driver. It calls Ping to validate the connection before returning; a
// failure here is fatal for the caller, there is no retry.
func New(ctx context.Context, cfg *database.Config) (*Driver, error) {
	if cfg.Driver != "" && cfg.Driver != database.DriverMySQL {
		return nil, errs.Newf(errs.ErrKindInvalidInput, "unsupported driver %q", cfg.Driver)
	}

	db, err := buildPool(cfg)
	if err != nil {
		return nil, err
	}

	d := &Driver{db: db}

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	if err := d.Ping(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return d, nil
}

// --- database.DB implementation ---

func (d *Driver) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

func (d *Driver) Close() {
	_ = d.db.Close()
}

func (d *Driver) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "query failed")
	}
	return &mysqlRows{rows: rows}, nil
}

// --- sql.DB type wrappers ---

type mysqlRows struct {
	rows *sql.Rows
}

func (r *mysqlRows) Next() bool                 { return r.rows.Next() }
func (r *mysqlRows) Scan(dest ...any) error     { return r.rows.Scan(dest...) }
func (r *mysqlRows) Columns() ([]string, error) { return r.rows.Columns() }
func (r *mysqlRows) Close()                     { _ = r.rows.Close() }

func (r *mysqlRows) Err() error {
	if err := r.rows.Err(); err != nil {
		return mapError(err, "row iteration failed")
	}
	return nil
}

func (r *mysqlRows) ColumnTypes() ([]database.ColumnType, error) {
	cts, err := r.rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	out := make([]database.ColumnType, len(cts))
	for i, ct := range cts {
		out[i] = database.ColumnType{
			Name:         ct.Name(),
			DatabaseType: strings.ToUpper(ct.DatabaseTypeName()),
		}
	}
	return out, nil
}

// --- error mapping ---

// mapError translates go-sql-driver/mysql errors into *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return errs.Wrap(
			classifyMySQLCode(mysqlErr.Number),
			fmt.Sprintf("%s: %s", msg, mysqlErr.Message),
			err,
		)
	}

	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}

// MySQL error numbers
// Full list: https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	errDBAccessDenied    = 1044
	errAccessDenied      = 1045
	errNoDatabase        = 1046
	errUnknownDatabase   = 1049
	errTooManyConns      = 1040
	errUserConnLimit     = 1203
	errTableAccessDenied = 1142
	errColAccessDenied   = 1143
	errBadField          = 1054
	errParse             = 1064
	errNoSuchTable       = 1146
)

// classifyMySQLCode maps MySQL error numbers to ErrKind.
func classifyMySQLCode(code uint16) errs.ErrKind {
	switch code {
	case errAccessDenied, errNoDatabase, errUnknownDatabase, errTooManyConns, errUserConnLimit:
		return errs.ErrKindConnectionFailed
	case errDBAccessDenied, errTableAccessDenied, errColAccessDenied:
		return errs.ErrKindPermissionDenied
	case errBadField, errParse, errNoSuchTable:
		return errs.ErrKindQueryFailed
	default:
		return errs.ErrKindQueryFailed
	}
}
