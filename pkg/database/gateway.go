package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/campus-connect-api/pkg/errors"
)

// QueryObserver receives statement timings.
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// Gateway executes parameterized statements against the pool or an open
// transaction and maps driver errors to API error kinds.
type Gateway struct {
	db       *sqlx.DB
	logger   *zap.Logger
	debug    bool
	observer QueryObserver
}

// NewGateway wraps db. Statements and parameters are logged only when debug is set.
func NewGateway(db *sqlx.DB, logger *zap.Logger, debug bool, observer QueryObserver) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{db: db, logger: logger, debug: debug, observer: observer}
}

// DB exposes the underlying pool.
func (g *Gateway) DB() *sqlx.DB {
	return g.db
}

// Mapper returns the column mapper used to scan rows.
func (g *Gateway) Mapper() *reflectx.Mapper {
	return g.db.Mapper
}

// Ping checks pool connectivity.
func (g *Gateway) Ping(ctx context.Context) error {
	return g.db.PingContext(ctx)
}

func (g *Gateway) executor(exec sqlx.ExtContext) sqlx.ExtContext {
	if tx, ok := exec.(*sqlx.Tx); exec == nil || (ok && tx == nil) {
		return g.db
	}
	return exec
}

// Select scans all rows into dest.
func (g *Gateway) Select(ctx context.Context, exec sqlx.ExtContext, dest interface{}, query string, args ...interface{}) error {
	return g.run(query, args, func() error {
		return sqlx.SelectContext(ctx, g.executor(exec), dest, query, args...)
	})
}

// Get scans exactly one row into dest. No row maps to NotFound.
func (g *Gateway) Get(ctx context.Context, exec sqlx.ExtContext, dest interface{}, query string, args ...interface{}) error {
	return g.run(query, args, func() error {
		return sqlx.GetContext(ctx, g.executor(exec), dest, query, args...)
	})
}

// Exec runs a statement returning no rows.
func (g *Gateway) Exec(ctx context.Context, exec sqlx.ExtContext, query string, args ...interface{}) (sql.Result, error) {
	var result sql.Result
	err := g.run(query, args, func() error {
		var execErr error
		result, execErr = g.executor(exec).ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, appErrors.ErrUnexpected
	}
	return result, nil
}

// WithTx runs fn inside a transaction. Any error or panic from fn rolls the
// transaction back and the original error is returned.
func (g *Gateway) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	start := time.Now()
	tx, err := g.db.BeginTxx(ctx, nil)
	if err != nil {
		return g.fail("BEGIN", nil, err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			g.logger.Warn("transaction rollback failed", zap.Error(rbErr))
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return g.fail("COMMIT", nil, err)
	}
	committed = true
	g.observe("transaction", time.Since(start))
	return nil
}

func (g *Gateway) run(query string, args []interface{}, fn func() error) error {
	if g.debug {
		g.logger.Debug("sql", zap.String("statement", compact(query)), zap.Any("params", args))
	}
	start := time.Now()
	err := fn()
	g.observe(statementLabel(query), time.Since(start))
	if err != nil {
		return g.fail(query, args, err)
	}
	return nil
}

func (g *Gateway) fail(query string, args []interface{}, err error) error {
	mapped := MapError(err)
	if appErr := appErrors.FromError(mapped); appErr.Code == appErrors.CodeUnknown {
		g.logger.Error("sql failed",
			zap.String("statement", compact(query)),
			zap.Any("params", args),
			zap.Error(err),
		)
	}
	return mapped
}

func (g *Gateway) observe(label string, d time.Duration) {
	if g.observer != nil {
		g.observer.ObserveDBQuery(label, d)
	}
}

func statementLabel(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}

func compact(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
