package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectSQLiteAndMigrate(t *testing.T) {
	conn, err := Connect(DriverSQLite, ":memory:", time.Second)
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, conn, DriverSQLite))
	require.NoError(t, Migrate(ctx, conn, DriverSQLite), "schema must be re-appliable")

	var tables int
	err = conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('events', 'competitors')`,
	).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 2, tables)
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	_, err := Connect("mysql", "root@/brackets", time.Second)
	assert.ErrorContains(t, err, "unsupported database driver")
}
