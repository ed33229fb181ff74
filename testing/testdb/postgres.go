package testdb

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Narendra1431-dot/Portfolio-web-development/internal/store"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

var (
	sharedContainer *PostgresContainer
	sharedOnce      sync.Once
)

// PostgresContainer wraps the postgres testcontainer
type PostgresContainer struct {
	Container *postgres.PostgresContainer
	DB        *bun.DB
	DSN       string
}

// SetupSharedPostgres creates a single PostgreSQL container shared across all tests
// in the package. Tests are skipped under -short.
//
// IMPORTANT: Tests using shared container CANNOT run in parallel!
//
// Usage:
//
//	func TestMyRepository(t *testing.T) {
//	    pg := testdb.SetupSharedPostgres(t)
//	    defer pg.Cleanup(t)
//
//	    st := pg.Store(t, contact.Table)
//
//	    t.Run("Test1", func(t *testing.T) {
//	        testdb.CleanupTables(t, st.DB(), "contacts")
//	        // ... test
//	    })
//	}
func SetupSharedPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	sharedOnce.Do(func() {
		ctx := context.Background()
		pgContainer, err := postgres.Run(ctx,
			"postgres:16-alpine",
			postgres.WithDatabase("portfolio_test"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2),
			),
		)
		require.NoError(t, err)

		connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err)

		db := store.NewPostgres(connStr)
		require.NoError(t, db.Ping())

		sharedContainer = &PostgresContainer{
			Container: pgContainer,
			DB:        db,
			DSN:       connStr,
		}
	})

	require.NotNil(t, sharedContainer, "postgres container failed to start")
	return sharedContainer
}

func (pc *PostgresContainer) Cleanup(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	if pc.DB != nil {
		pc.DB.Close()
	}

	if pc.Container != nil {
		if err := pc.Container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
}

// Store returns a pinged Store over the shared container with tables migrated.
func (pc *PostgresContainer) Store(t *testing.T, tables ...store.Table) *store.Store {
	t.Helper()
	return newStore(t, pc.DB, tables)
}

func newStore(t *testing.T, db *bun.DB, tables []store.Table) *store.Store {
	t.Helper()
	ctx := context.Background()

	st := store.New(db, store.Options{
		QueryTimeout: 5 * time.Second,
		Logger:       slog.New(slog.NewTextHandler(os.Stderr, nil)),
	})
	require.NoError(t, st.Ping(ctx))
	require.NoError(t, st.Migrate(ctx, tables...), "failed to run migrations")
	return st
}

// CleanupTables empties tables and resets their id sequences.
func CleanupTables(t *testing.T, db *bun.DB, tables ...string) {
	t.Helper()

	ctx := context.Background()

	if db.Dialect().Name() == dialect.PG {
		_, err := db.ExecContext(ctx, "TRUNCATE "+strings.Join(tables, ", ")+" RESTART IDENTITY CASCADE")
		require.NoError(t, err, "failed to truncate tables: %v", tables)
		return
	}

	for _, table := range tables {
		_, err := db.ExecContext(ctx, "DELETE FROM "+table)
		require.NoError(t, err, "failed to delete from table: %s", table)
		_, err = db.ExecContext(ctx, "DELETE FROM sqlite_sequence WHERE name = ?", table)
		require.NoError(t, err, "failed to reset sequence: %s", table)
	}
}
