package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDriver(t *testing.T) {
	tests := []struct {
		dsn        string
		wantDriver string
		wantSource string
		wantErr    bool
	}{
		{dsn: "postgres://u:p@localhost:5432/db?sslmode=disable", wantDriver: DriverPostgres, wantSource: "postgres://u:p@localhost:5432/db?sslmode=disable"},
		{dsn: "postgresql://localhost/db", wantDriver: DriverPostgres, wantSource: "postgresql://localhost/db"},
		{dsn: "sqlite://data/app.db", wantDriver: DriverSQLite, wantSource: "data/app.db"},
		{dsn: "sqlite::memory:", wantDriver: DriverSQLite, wantSource: ":memory:"},
		{dsn: "mongodb://localhost:27017/health", wantErr: true},
		{dsn: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			driver, source, err := resolveDriver(tt.dsn)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDriver, driver)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestResolveDriverDoesNotEchoCredentials(t *testing.T) {
	_, _, err := resolveDriver("mysql://root:hunter2@db/app")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "hunter2")
}

func TestConnectSQLiteAndUniqueViolation(t *testing.T) {
	db, err := Connect(Config{DSN: "sqlite::memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	assert.Equal(t, DriverSQLite, db.DriverName())

	ctx := context.Background()
	_, err = db.ExecContext(ctx, `CREATE TABLE pairs (a TEXT NOT NULL, b TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `CREATE UNIQUE INDEX idx_pairs_a_b ON pairs (a, b)`)
	require.NoError(t, err)

	insert := db.Rebind(`INSERT INTO pairs (a, b) VALUES (?, ?)`)
	_, err = db.ExecContext(ctx, insert, "p1", "d1")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, insert, "p1", "d2")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, insert, "p1", "d1")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert mapping: %w", err)))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.True(t, IsUniqueViolation(fmt.Errorf("wrapped: %w", &pq.Error{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
}

func TestTimestampType(t *testing.T) {
	assert.Equal(t, "TIMESTAMPTZ", TimestampType(DriverPostgres))
	assert.Equal(t, "TIMESTAMP", TimestampType(DriverSQLite))
}

func TestQuoteLiteral(t *testing.T) {
	assert.Equal(t, "'UTC'", quoteLiteral("UTC"))
	assert.Equal(t, "'it''s'", quoteLiteral("it's"))
}
