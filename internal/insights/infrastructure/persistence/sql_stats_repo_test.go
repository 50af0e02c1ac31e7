package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/taskpilot/internal/insights/application"
	"github.com/felixgeelhaar/taskpilot/internal/insights/domain"
	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStatsDB(t *testing.T) database.Connection {
	t.Helper()
	ctx := context.Background()
	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "stats.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = migrations.Run(ctx, conn)
	require.NoError(t, err)
	return conn
}

func TestSQLStatsRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLStatsRepository(setupStatsDB(t))
	day := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)

	_, err := repo.FindByDate(ctx, day)
	assert.ErrorIs(t, err, domain.ErrStatsNotFound)

	stats := domain.NewDailyStats(day)
	stats.RecordCreated()
	require.NoError(t, repo.Save(ctx, stats))
	require.NotZero(t, stats.ID)
	firstID := stats.ID

	stats.RecordCreated()
	stats.RecordCompleted(20)
	require.NoError(t, repo.Save(ctx, stats))
	assert.Equal(t, firstID, stats.ID)

	found, err := repo.FindByDate(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, firstID, found.ID)
	assert.Equal(t, day, found.Date)
	assert.Equal(t, 2, found.TasksCreated)
	assert.Equal(t, 1, found.TasksCompleted)
	assert.Equal(t, 20, found.TotalTimeSpent)
	assert.InDelta(t, 50.0, found.FocusScore, 0.0001)
}

func TestSQLStatsRepository_ListSince(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLStatsRepository(setupStatsDB(t))
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	for _, offset := range []int{5, 0, 2} {
		require.NoError(t, repo.Save(ctx, domain.NewDailyStats(base.AddDate(0, 0, offset))))
	}

	rows, err := repo.ListSince(ctx, base.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, base.AddDate(0, 0, 2), rows[0].Date)
	assert.Equal(t, base.AddDate(0, 0, 5), rows[1].Date)
}

func TestAggregator_WithSQLRepository(t *testing.T) {
	ctx := context.Background()
	conn := setupStatsDB(t)
	repo := NewSQLStatsRepository(conn)
	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	agg := application.NewAggregator(repo, func() time.Time { return now })

	require.NoError(t, agg.Record(ctx, domain.EventCreated, 0))
	require.NoError(t, agg.Record(ctx, domain.EventCreated, 0))
	require.NoError(t, agg.Record(ctx, domain.EventCompleted, 20))

	stats, err := repo.FindByDate(ctx, domain.DayOf(now))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TasksCreated)
	assert.Equal(t, 1, stats.TasksCompleted)
	assert.Equal(t, 20, stats.TotalTimeSpent)
	assert.InDelta(t, 50.0, stats.FocusScore, 0.0001)
}

func TestAggregator_RollsBackWithUnitOfWork(t *testing.T) {
	ctx := context.Background()
	conn := setupStatsDB(t)
	repo := NewSQLStatsRepository(conn)
	agg := application.NewAggregator(repo, nil)
	uow := database.NewUnitOfWork(conn)

	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, agg.Record(txCtx, domain.EventCreated, 0))
	require.NoError(t, uow.Rollback(txCtx))

	_, err = repo.FindByDate(ctx, domain.DayOf(time.Now()))
	assert.ErrorIs(t, err, domain.ErrStatsNotFound)
}
