// Package executor runs catalog statements against the store and returns
// their result as a frame.
package executor

import (
	"context"
	"errors"
	"time"

	"github.com/koustreak/chococrunch/internal/database"
	"github.com/koustreak/chococrunch/internal/errs"
	"github.com/koustreak/chococrunch/internal/frame"
	"github.com/koustreak/chococrunch/internal/logger"
)

// Executor runs statements over a single shared connection. Safe for
// concurrent use to the extent the underlying database.DB is.
type Executor struct {
	db      database.DB
	log     *logger.Logger
	timeout time.Duration
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger used for per-query debug lines.
func WithLogger(l *logger.Logger) Option {
	return func(e *Executor) { e.log = l }
}

// WithTimeout bounds each execution. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) { e.timeout = d }
}

// New returns an Executor over db.
func New(db database.DB, opts ...Option) *Executor {
	e := &Executor{db: db, log: logger.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs statement and materialises every row. Column names and order
// are exactly those the store returns. There is no retry: any failure is
// returned to the caller as an *errs.Error.
func (e *Executor) Execute(ctx context.Context, domain, statement string) (*frame.Frame, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	f, err := e.run(ctx, statement)
	elapsed := time.Since(start)

	queryDuration.WithLabelValues(domain).Observe(elapsed.Seconds())
	if err != nil {
		queriesTotal.WithLabelValues(domain, errs.KindOf(err).String()).Inc()
		e.log.Zerolog().Debug().
			Str("domain", domain).
			Dur("duration", elapsed).
			Err(err).
			Msg("query failed")
		return nil, err
	}

	queriesTotal.WithLabelValues(domain, "ok").Inc()
	queryRows.Observe(float64(f.Len()))
	e.log.Zerolog().Debug().
		Str("domain", domain).
		Int("rows", f.Len()).
		Dur("duration", elapsed).
		Msg("query executed")
	return f, nil
}

// Ping checks the store is reachable.
func (e *Executor) Ping(ctx context.Context) error {
	return e.db.Ping(ctx)
}

func (e *Executor) run(ctx context.Context, statement string) (*frame.Frame, error) {
	rows, err := e.db.Query(ctx, statement)
	if err != nil {
		var target *errs.Error
		if errors.As(err, &target) {
			return nil, err
		}
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "query failed", err)
	}
	return database.ScanFrame(rows)
}
