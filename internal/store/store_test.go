package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Narendra1431-dot/Portfolio-web-development/internal/config"
	"github.com/Narendra1431-dot/Portfolio-web-development/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type widget struct {
	bun.BaseModel `bun:"table:widgets"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

var widgetTable = store.Table{
	Name:    "widgets",
	Model:   (*widget)(nil),
	Indexes: []store.Index{{Name: "idx_widgets_name", Columns: []string{"name"}}},
}

func newSQLiteStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := store.OpenDB(config.DatabaseConfig{
		Driver: store.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "store.db"),
	})
	require.NoError(t, err)

	st := store.New(db, store.Options{QueryTimeout: 2 * time.Second})
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestOpenDB(t *testing.T) {
	t.Run("UnsupportedDriver", func(t *testing.T) {
		_, err := store.OpenDB(config.DatabaseConfig{Driver: "oracle"})
		assert.Error(t, err)
	})

	t.Run("SQLiteRequiresPath", func(t *testing.T) {
		_, err := store.OpenDB(config.DatabaseConfig{Driver: store.DriverSQLite})
		assert.Error(t, err)
	})
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("WithConnBeforePing", func(t *testing.T) {
		st := newSQLiteStore(t)

		called := false
		err := st.WithConn(ctx, func(ctx context.Context, conn bun.Conn) error {
			called = true
			return nil
		})

		require.Error(t, err)
		assert.False(t, called)
		assert.True(t, store.IsOp(err, store.OpConnect))
		assert.ErrorIs(t, err, store.ErrUnavailable)
	})

	t.Run("PingMarksAvailable", func(t *testing.T) {
		st := newSQLiteStore(t)
		assert.False(t, st.Available())

		require.NoError(t, st.Ping(ctx))
		assert.True(t, st.Available())
	})

	t.Run("ConnReleasedOnError", func(t *testing.T) {
		st := newSQLiteStore(t)
		require.NoError(t, st.Ping(ctx))

		boom := errors.New("boom")
		err := st.WithConn(ctx, func(ctx context.Context, conn bun.Conn) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)

		// The pool holds a single SQLite connection; a leaked one would block here.
		err = st.WithConn(ctx, func(ctx context.Context, conn bun.Conn) error {
			return conn.PingContext(ctx)
		})
		assert.NoError(t, err)
		assert.Equal(t, 0, st.DB().Stats().InUse)
	})

	t.Run("MigratePrepareAndSeed", func(t *testing.T) {
		st := newSQLiteStore(t)
		require.NoError(t, st.Ping(ctx))
		require.NoError(t, st.Migrate(ctx, widgetTable))
		// Idempotent
		require.NoError(t, st.Migrate(ctx, widgetTable))

		seeded, err := st.SeedIfEmpty(ctx, "widgets", &widget{Name: "first"})
		require.NoError(t, err)
		assert.True(t, seeded)

		seeded, err = st.SeedIfEmpty(ctx, "widgets", &widget{Name: "second"})
		require.NoError(t, err)
		assert.False(t, seeded)

		var id int64
		err = st.WithConn(ctx, func(ctx context.Context, conn bun.Conn) error {
			stmt, err := st.Prepare(ctx, conn, "widgets", "INSERT INTO widgets (name) VALUES (?) RETURNING id")
			if err != nil {
				return err
			}
			defer stmt.Close()
			return stmt.QueryRowContext(ctx, "third").Scan(&id)
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), id)
	})

	t.Run("QueryTimeoutBoundsConn", func(t *testing.T) {
		db, err := store.OpenDB(config.DatabaseConfig{
			Driver: store.DriverSQLite,
			Path:   filepath.Join(t.TempDir(), "store.db"),
		})
		require.NoError(t, err)
		st := store.New(db, store.Options{QueryTimeout: 100 * time.Millisecond})
		t.Cleanup(func() { _ = st.Close() })
		require.NoError(t, st.Ping(ctx))

		start := time.Now()
		err = st.WithConn(ctx, func(ctx context.Context, conn bun.Conn) error {
			<-ctx.Done()
			return ctx.Err()
		})

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), time.Second)
		assert.Equal(t, 0, st.DB().Stats().InUse)
	})
}

func TestRebind(t *testing.T) {
	pg := store.New(store.NewPostgres("postgres://u:p@localhost:5432/db?sslmode=disable"), store.Options{})
	defer pg.Close()
	assert.Equal(t,
		"INSERT INTO contacts (a, b) VALUES ($1, $2)",
		pg.Rebind("INSERT INTO contacts (a, b) VALUES (?, ?)"))

	lite := newSQLiteStore(t)
	assert.Equal(t, "SELECT ?", lite.Rebind("SELECT ?"))
}

func TestErrorWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := store.Wrap(store.OpExecute, "contacts", cause)

	assert.EqualError(t, err, "store execute contacts: connection refused")
	assert.ErrorIs(t, err, cause)
	assert.True(t, store.IsOp(err, store.OpExecute))
	// Already typed errors keep their original stage.
	assert.True(t, store.IsOp(store.Wrap(store.OpConnect, "", err), store.OpExecute))
	assert.Nil(t, store.Wrap(store.OpExecute, "contacts", nil))
}
