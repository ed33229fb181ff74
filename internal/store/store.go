package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Narendra1431-dot/Portfolio-web-development/common/metrics"
	"github.com/Narendra1431-dot/Portfolio-web-development/internal/config"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultQueryTimeout = 5 * time.Second
)

// Store mediates every read and write against the relational store. Each
// request acquires its own connection through WithConn and releases it on
// every exit path.
type Store struct {
	db        *bun.DB
	timeout   time.Duration
	metrics   *metrics.Metrics
	logger    *slog.Logger
	available atomic.Bool
}

type Options struct {
	QueryTimeout time.Duration
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
}

func New(db *bun.DB, opts Options) *Store {
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = defaultQueryTimeout
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewMock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Store{
		db:      db,
		timeout: opts.QueryTimeout,
		metrics: opts.Metrics,
		logger:  opts.Logger,
	}
}

// OpenDB builds the bun handle for the configured driver. It does not touch
// the network; call Store.Ping to verify reachability.
func OpenDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	switch cfg.Driver {
	case "", DriverPostgres:
		sslMode := cfg.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.Name,
			sslMode,
		)
		db := NewPostgres(dsn)
		configurePool(db, cfg)
		return db, nil
	case DriverSQLite:
		return NewSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// NewPostgres creates a bun handle with a custom DSN (useful for testing)
func NewPostgres(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// NewSQLite opens a file-backed SQLite database through modernc.org/sqlite.
func NewSQLite(path string) (*bun.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite only supports one writer at a time
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

func configurePool(db *bun.DB, cfg config.DatabaseConfig) {
	sqlDB := db.DB

	maxOpen := cfg.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = 25
	}
	sqlDB.SetMaxOpenConns(maxOpen)

	maxIdle := cfg.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = 10
	}
	sqlDB.SetMaxIdleConns(maxIdle)

	connMaxLifetime := cfg.ConnMaxLifetime
	if connMaxLifetime == 0 {
		connMaxLifetime = 300
	}
	sqlDB.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Second)

	connMaxIdleTime := cfg.ConnMaxIdleTime
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 60
	}
	sqlDB.SetConnMaxIdleTime(time.Duration(connMaxIdleTime) * time.Second)

	slog.Info("database pool configured",
		"max_open_conns", maxOpen,
		"max_idle_conns", maxIdle,
		"conn_max_lifetime_seconds", connMaxLifetime,
		"conn_max_idle_time_seconds", connMaxIdleTime,
	)
}

// DB exposes the underlying handle for migrations and test fixtures.
func (s *Store) DB() *bun.DB {
	return s.db
}

func (s *Store) Dialect() dialect.Name {
	return s.db.Dialect().Name()
}

// Available reports whether the last ping succeeded.
func (s *Store) Available() bool {
	return s.available.Load()
}

// Ping checks reachability under the query timeout and updates availability.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := s.db.PingContext(ctx)
	s.metrics.Health.RecordDependencyCheck(ctx, "database", time.Since(start), err)

	s.available.Store(err == nil)
	if err != nil {
		return Wrap(OpConnect, "", err)
	}
	return nil
}

// WithConn runs fn on a dedicated connection bounded by the query timeout.
// The connection is returned to the pool however fn exits.
func (s *Store) WithConn(ctx context.Context, fn func(ctx context.Context, conn bun.Conn) error) error {
	if !s.Available() {
		return &Error{Op: OpConnect, Err: ErrUnavailable}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	conn, err := s.db.Conn(ctx)
	s.metrics.Database.RecordConnectionAcquire(ctx, time.Since(start), err)
	if err != nil {
		return Wrap(OpConnect, "", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			s.logger.WarnContext(ctx, "failed to release connection", "error", cerr)
		}
	}()

	return fn(ctx, conn)
}

// Prepare compiles query, written with ? placeholders, as a prepared
// statement on conn. Placeholders are rebound for the active dialect.
func (s *Store) Prepare(ctx context.Context, conn bun.Conn, table, query string) (*sql.Stmt, error) {
	stmt, err := conn.PrepareContext(ctx, s.Rebind(query))
	if err != nil {
		return nil, Wrap(OpPrepare, table, err)
	}
	return stmt, nil
}

// Rebind rewrites ? placeholders into $n for PostgreSQL.
func (s *Store) Rebind(query string) string {
	if s.Dialect() != dialect.PG {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Observe records a statement's duration and outcome.
func (s *Store) Observe(ctx context.Context, operation, table string, start time.Time, err error) {
	s.metrics.Database.RecordQuery(ctx, operation, table, time.Since(start), err)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
