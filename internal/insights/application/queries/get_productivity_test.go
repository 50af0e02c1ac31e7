package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/taskpilot/internal/insights/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStatsRepo struct {
	mock.Mock
}

func (m *mockStatsRepo) FindByDate(ctx context.Context, date time.Time) (*domain.DailyStats, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyStats), args.Error(1)
}

func (m *mockStatsRepo) Save(ctx context.Context, stats *domain.DailyStats) error {
	return m.Called(ctx, stats).Error(0)
}

func (m *mockStatsRepo) ListSince(ctx context.Context, since time.Time) ([]*domain.DailyStats, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DailyStats), args.Error(1)
}

func TestGetProductivityHandler_Handle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("maps rows since the window start", func(t *testing.T) {
		since := time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)
		repo := new(mockStatsRepo)
		repo.On("ListSince", ctx, since).Return([]*domain.DailyStats{
			{ID: 1, Date: since, TasksCreated: 2, TasksCompleted: 1, TotalTimeSpent: 20, FocusScore: 50},
		}, nil)

		result, err := NewGetProductivityHandler(repo, clock).Handle(ctx, GetProductivityQuery{Days: DefaultProductivityDays})

		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, DailyStatsDTO{
			ID: 1, Date: "2026-05-03", TasksCompleted: 1, TasksCreated: 2, TotalTimeSpent: 20, FocusScore: 50,
		}, result[0])
	})

	t.Run("zero days means today only", func(t *testing.T) {
		repo := new(mockStatsRepo)
		repo.On("ListSince", ctx, domain.DayOf(now)).Return([]*domain.DailyStats{}, nil)

		result, err := NewGetProductivityHandler(repo, clock).Handle(ctx, GetProductivityQuery{Days: 0})

		require.NoError(t, err)
		assert.NotNil(t, result)
		assert.Empty(t, result)
	})

	t.Run("rejects negative days", func(t *testing.T) {
		repo := new(mockStatsRepo)

		_, err := NewGetProductivityHandler(repo, clock).Handle(ctx, GetProductivityQuery{Days: -1})

		assert.ErrorIs(t, err, ErrInvalidDays)
		repo.AssertNotCalled(t, "ListSince", mock.Anything, mock.Anything)
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		repo := new(mockStatsRepo)
		repo.On("ListSince", ctx, mock.Anything).Return(nil, errors.New("boom"))

		_, err := NewGetProductivityHandler(repo, clock).Handle(ctx, GetProductivityQuery{Days: 3})

		assert.EqualError(t, err, "boom")
	})
}
