package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/database"
)

func openTestConnection(t *testing.T) database.Connection {
	t.Helper()
	conn, err := NewConnection(context.Background(), database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestNewConnection(t *testing.T) {
	conn := openTestConnection(t)

	assert.NoError(t, conn.Ping(context.Background()))
	assert.Equal(t, database.DriverSQLite, conn.Driver())
}

func TestNewConnection_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "tasks.db")

	conn, err := NewConnection(context.Background(), database.Config{SQLitePath: path})
	require.NoError(t, err)
	defer conn.Close()

	assert.FileExists(t, path)
}

func TestConnection_ExecAndQuery(t *testing.T) {
	ctx := context.Background()
	conn := openTestConnection(t)

	_, err := conn.Exec(ctx, `CREATE TABLE test (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT)`)
	require.NoError(t, err)

	result, err := conn.Exec(ctx, `INSERT INTO test (name) VALUES (?)`, "Alice")
	require.NoError(t, err)
	affected, err := result.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	var id int64
	require.NoError(t, conn.QueryRow(ctx, `INSERT INTO test (name) VALUES (?) RETURNING id`, "Bob").Scan(&id))
	assert.Equal(t, int64(2), id)

	rows, err := conn.Query(ctx, `SELECT name FROM test ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"Alice", "Bob"}, names)
}

func TestUnitOfWork_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	conn := openTestConnection(t)
	_, err := conn.Exec(ctx, `CREATE TABLE test (name TEXT)`)
	require.NoError(t, err)

	uow := database.NewUnitOfWork(conn)
	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)

	exec := database.ExecutorFromContext(txCtx, conn)
	_, err = exec.Exec(txCtx, `INSERT INTO test (name) VALUES (?)`, "ghost")
	require.NoError(t, err)
	require.NoError(t, uow.Rollback(txCtx))

	var count int
	require.NoError(t, conn.QueryRow(ctx, `SELECT COUNT(*) FROM test`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestUnitOfWork_NestedBeginJoinsOuterTransaction(t *testing.T) {
	ctx := context.Background()
	conn := openTestConnection(t)
	_, err := conn.Exec(ctx, `CREATE TABLE test (name TEXT)`)
	require.NoError(t, err)

	uow := database.NewUnitOfWork(conn)
	outer, err := uow.Begin(ctx)
	require.NoError(t, err)
	inner, err := uow.Begin(outer)
	require.NoError(t, err)

	_, err = database.ExecutorFromContext(inner, conn).Exec(inner, `INSERT INTO test (name) VALUES (?)`, "kept")
	require.NoError(t, err)
	require.NoError(t, uow.Commit(inner))
	require.NoError(t, uow.Commit(outer))

	var count int
	require.NoError(t, conn.QueryRow(ctx, `SELECT COUNT(*) FROM test`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestNewConnection_ThroughFactory(t *testing.T) {
	conn, err := database.NewConnection(context.Background(), database.Config{
		URL: "sqlite://" + filepath.Join(t.TempDir(), "factory.db"),
	})
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, database.DriverSQLite, conn.Driver())
}
