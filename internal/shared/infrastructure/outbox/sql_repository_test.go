package outbox_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskpilot/internal/shared/domain"
	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/outbox"
)

type repoTestEvent struct {
	domain.BaseEvent
	Title string `json:"title"`
}

func setupOutboxDB(t *testing.T) database.Connection {
	t.Helper()
	ctx := context.Background()
	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "outbox.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = migrations.Run(ctx, conn)
	require.NoError(t, err)
	return conn
}

func newRepoTestMessage(t *testing.T, aggregateID string) *outbox.Message {
	t.Helper()
	event := &repoTestEvent{
		BaseEvent: domain.NewBaseEvent(aggregateID, "Task", "taskpilot.task.created"),
		Title:     "Write tests",
	}
	msg, err := outbox.NewMessage(event)
	require.NoError(t, err)
	return msg
}

func TestSQLRepository_SaveAndGetUnpublished(t *testing.T) {
	ctx := context.Background()
	repo := outbox.NewSQLRepository(setupOutboxDB(t))

	first := newRepoTestMessage(t, "1")
	second := newRepoTestMessage(t, "2")
	require.NoError(t, repo.SaveBatch(ctx, []*outbox.Message{first, second}))
	assert.NotZero(t, first.ID)
	assert.NotZero(t, second.ID)

	msgs, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, first.EventID, msgs[0].EventID)
	assert.Equal(t, "1", msgs[0].AggregateID)
	assert.Equal(t, "taskpilot.task.created", msgs[0].RoutingKey)
	assert.JSONEq(t, `{"title":"Write tests"}`, string(msgs[0].Payload))
	assert.NotEmpty(t, msgs[0].Metadata)
	assert.WithinDuration(t, first.CreatedAt, msgs[0].CreatedAt, time.Millisecond)
}

func TestSQLRepository_MarkPublished(t *testing.T) {
	ctx := context.Background()
	repo := outbox.NewSQLRepository(setupOutboxDB(t))
	msg := newRepoTestMessage(t, "1")
	require.NoError(t, repo.Save(ctx, msg))

	require.NoError(t, repo.MarkPublished(ctx, msg.ID))

	msgs, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSQLRepository_MarkFailedDefersRetry(t *testing.T) {
	ctx := context.Background()
	repo := outbox.NewSQLRepository(setupOutboxDB(t))
	msg := newRepoTestMessage(t, "1")
	require.NoError(t, repo.Save(ctx, msg))

	require.NoError(t, repo.MarkFailed(ctx, msg.ID, "broker down", time.Now().Add(time.Hour)))

	msgs, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	require.NoError(t, repo.MarkFailed(ctx, msg.ID, "broker down", time.Now().Add(-time.Second)))
	msgs, err = repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, 2, msgs[0].RetryCount)
	require.NotNil(t, msgs[0].LastError)
	assert.Equal(t, "broker down", *msgs[0].LastError)
}

func TestSQLRepository_MarkDead(t *testing.T) {
	ctx := context.Background()
	repo := outbox.NewSQLRepository(setupOutboxDB(t))
	msg := newRepoTestMessage(t, "1")
	require.NoError(t, repo.Save(ctx, msg))

	require.NoError(t, repo.MarkDead(ctx, msg.ID, "max retries exceeded"))

	msgs, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSQLRepository_DeleteOld(t *testing.T) {
	ctx := context.Background()
	repo := outbox.NewSQLRepository(setupOutboxDB(t))
	msg := newRepoTestMessage(t, "1")
	require.NoError(t, repo.Save(ctx, msg))
	require.NoError(t, repo.MarkPublished(ctx, msg.ID))

	deleted, err := repo.DeleteOld(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	deleted, err = repo.DeleteOld(ctx, -1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestSQLRepository_SaveBatchJoinsTransaction(t *testing.T) {
	ctx := context.Background()
	conn := setupOutboxDB(t)
	repo := outbox.NewSQLRepository(conn)
	uow := database.NewUnitOfWork(conn)

	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.SaveBatch(txCtx, []*outbox.Message{newRepoTestMessage(t, "1")}))
	require.NoError(t, uow.Rollback(txCtx))

	msgs, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
