package testdb

import (
	"path/filepath"
	"testing"

	"github.com/Narendra1431-dot/Portfolio-web-development/internal/store"

	"github.com/stretchr/testify/require"
)

// NewSQLite returns a pinged Store backed by a fresh SQLite file in
// t.TempDir() with tables migrated. The store is closed when the test ends.
func NewSQLite(t *testing.T, tables ...store.Table) *store.Store {
	t.Helper()

	db, err := store.NewSQLite(filepath.Join(t.TempDir(), "portfolio.db"))
	require.NoError(t, err)

	st := newStore(t, db, tables)
	t.Cleanup(func() { _ = st.Close() })
	return st
}
