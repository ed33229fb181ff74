package store_test

import (
	"context"
	"testing"

	"github.com/Narendra1431-dot/Portfolio-web-development/internal/store"
	"github.com/Narendra1431-dot/Portfolio-web-development/testing/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestStorePostgres(t *testing.T) {
	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	st := pgContainer.Store(t, widgetTable)
	ctx := context.Background()

	t.Run("PrepareFailureIsTyped", func(t *testing.T) {
		err := st.WithConn(ctx, func(ctx context.Context, conn bun.Conn) error {
			_, err := st.Prepare(ctx, conn, "missing", "INSERT INTO missing (x) VALUES (?)")
			return err
		})

		require.Error(t, err)
		assert.True(t, store.IsOp(err, store.OpPrepare))
		assert.Contains(t, store.Diagnostic(err), "missing")
	})

	t.Run("PreparedInsertRebound", func(t *testing.T) {
		testdb.CleanupTables(t, st.DB(), "widgets")

		var id int64
		err := st.WithConn(ctx, func(ctx context.Context, conn bun.Conn) error {
			stmt, err := st.Prepare(ctx, conn, "widgets", "INSERT INTO widgets (name) VALUES (?) RETURNING id")
			if err != nil {
				return err
			}
			defer stmt.Close()
			return stmt.QueryRowContext(ctx, "first").Scan(&id)
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
	})
}
