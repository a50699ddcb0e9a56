// Package clueaccess is a thin access layer for the Cluetooth telemetry
// database: an engine provider, a session-scoped query runner and model
// structs mirroring the existing tables (see pkg/schema).
package clueaccess

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/lib/pq" // PostgreSQL driver
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/infra-wireless/clueaccess/pkg/config"
)

// Engine is a reusable handle for the Cluetooth database. It wraps a GORM
// handle over a single database/sql pool and is safe for concurrent use.
type Engine struct {
	orm  *gorm.DB
	pool *sql.DB
}

// Open connects to the database described by cfg and verifies the
// connection with a ping. Open and ping failures are reported as
// *ConnectionError; incomplete configuration as *config.ConfigError.
func Open(cfg config.Config) (*Engine, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	pool, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, &ConnectionError{Stage: "open", Addr: cfg.Addr(), Err: err}
	}
	if err := pool.Ping(); err != nil {
		pool.Close()
		return nil, &ConnectionError{Stage: "ping", Addr: cfg.Addr(), Err: err}
	}
	orm, err := gorm.Open(postgres.New(postgres.Config{Conn: pool}), &gorm.Config{})
	if err != nil {
		pool.Close()
		return nil, &ConnectionError{Stage: "orm", Addr: cfg.Addr(), Err: err}
	}
	return &Engine{orm: orm, pool: pool}, nil
}

// DB returns the underlying GORM handle.
func (e *Engine) DB() *gorm.DB { return e.orm }

// SQLDB returns the raw database/sql pool, for callers that bypass the ORM.
func (e *Engine) SQLDB() *sql.DB { return e.pool }

// Close releases the connection pool.
func (e *Engine) Close() error { return e.pool.Close() }

// Session runs fn on a single dedicated connection. The connection is
// returned to the pool on every exit path, including a panic in fn.
func (e *Engine) Session(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return e.orm.WithContext(ctx).Connection(fn)
}

// Ping verifies connectivity end to end by running a trivial query
// through a session.
func (e *Engine) Ping(ctx context.Context) error {
	return e.Session(ctx, func(tx *gorm.DB) error {
		var one int
		return tx.Raw("SELECT 1").Scan(&one).Error
	})
}

var defaultEngine struct {
	once sync.Once
	eng  *Engine
	err  error
}

// openDefault is replaced in tests.
var openDefault = func() (*Engine, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	return Open(cfg)
}

// Default returns the engine built from environment configuration. The
// engine is created on first use; every later call returns the same handle
// (or the same error).
func Default() (*Engine, error) {
	defaultEngine.once.Do(func() {
		defaultEngine.eng, defaultEngine.err = openDefault()
	})
	return defaultEngine.eng, defaultEngine.err
}

// RunInSession opens a session against the default engine, invokes fn and
// releases the session before returning fn's result or error unchanged.
func RunInSession[T any](ctx context.Context, fn func(s *gorm.DB) (T, error)) (T, error) {
	var out T
	eng, err := Default()
	if err != nil {
		return out, err
	}
	err = eng.Session(ctx, func(tx *gorm.DB) error {
		var ferr error
		out, ferr = fn(tx)
		return ferr
	})
	return out, err
}
