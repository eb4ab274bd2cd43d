// Package storetest opens throwaway in-memory SQLite databases for tests.
package storetest

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-healthcare-go/pkg/database"
)

// Open returns an empty in-memory database closed when the test ends.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()
	db, err := database.Connect(database.Config{DSN: "sqlite::memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
