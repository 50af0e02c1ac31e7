package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/task"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/value_objects"
	"github.com/stretchr/testify/mock"
)

type mockTaskRepo struct {
	mock.Mock
}

func (m *mockTaskRepo) Save(ctx context.Context, t *task.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id int64) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *mockTaskRepo) List(ctx context.Context, filter task.Filter) ([]*task.Task, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *mockTaskRepo) FindPending(ctx context.Context) ([]*task.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *mockTaskRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockCountReader struct {
	mock.Mock
}

func (m *mockCountReader) Count(ctx context.Context, completedSince time.Time) (task.Counts, error) {
	args := m.Called(ctx, completedSince)
	return args.Get(0).(task.Counts), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

var queryNow = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func sampleTask(id int64, title string) *task.Task {
	est, _ := value_objects.NewEstimate(25)
	due := queryNow.Add(24 * time.Hour)
	return task.Rehydrate(task.Snapshot{
		ID:          id,
		Title:       title,
		Description: "details",
		Status:      task.StatusPending,
		Priority:    value_objects.PriorityHigh,
		Category:    "work",
		DueDate:     &due,
		CreatedAt:   queryNow,
		Estimate:    est,
		Tags:        value_objects.Tags{"x"},
	})
}
