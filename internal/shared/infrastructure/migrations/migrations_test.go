package migrations_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/migrations"
)

func TestList(t *testing.T) {
	for _, driver := range []database.Driver{database.DriverSQLite, database.DriverPostgres} {
		t.Run(driver.String(), func(t *testing.T) {
			list, err := migrations.List(driver)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "0001_tasks", list[0].Version)
			assert.Equal(t, "0002_outbox", list[1].Version)
			assert.Contains(t, list[0].SQL, "productivity_stats")
		})
	}
}

func TestRun_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "migrate.db"),
	})
	require.NoError(t, err)
	defer conn.Close()

	first, err := migrations.Run(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_tasks", "0002_outbox"}, first)

	second, err := migrations.Run(ctx, conn)
	require.NoError(t, err)
	assert.Empty(t, second)

	for _, table := range []string{"tasks", "productivity_stats", "outbox"} {
		var count int
		err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, table)
	}
}
