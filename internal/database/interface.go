package database

import "context"

// DB is the central contract for all database operations.
// The dashboard is strictly read-only: every statement it runs is a single
// SELECT, so the interface exposes no Exec or transactions.
type DB interface {
	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error

	// Close releases the connection.
	Close()

	// Query executes a SQL statement that returns multiple rows.
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// ColumnType is the driver-reported type of a result column.
type ColumnType struct {
	Name string

	// DatabaseType is the engine type name in upper case, e.g. "VARCHAR",
	// "BIGINT", "DECIMAL". Empty when the driver does not report it.
	DatabaseType string
}

// Rows is an abstraction over a database result set.
// Callers must always call Close() when done, even on error.
type Rows interface {
	// Next advances to the next row.
	// Returns false when no more rows exist or on error.
	Next() bool

	// Scan copies the current row's columns into the provided destinations.
	Scan(dest ...any) error

	// Columns returns the column names of the result set.
	Columns() ([]string, error)

	// ColumnTypes returns the column types of the result set.
	ColumnTypes() ([]ColumnType, error)

	// Close releases resources held by the result set.
	Close()

	// Err returns any error encountered during iteration.
	Err() error
}
