package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthRegistry(t *testing.T) {
	ctx := context.Background()
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	t.Run("healthy with no checks", func(t *testing.T) {
		r := NewHealthRegistry()
		health := r.GetOverallHealth(ctx)
		assert.Equal(t, HealthStatusHealthy, health.Status)
		assert.Empty(t, health.Checks)
		assert.False(t, health.Timestamp.IsZero())
	})

	t.Run("task store failure is unhealthy", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register(ComponentTaskStore, TaskStoreChecker(down))
		r.Register(ComponentStatsCache, StatsCacheChecker(ok))
		r.Register(ComponentEventBroker, EventBrokerChecker(down))

		health := r.GetOverallHealth(ctx)

		assert.Equal(t, HealthStatusUnhealthy, health.Status)
		assert.Equal(t, "task store unreachable: connection refused", health.Checks[ComponentTaskStore].Message)
		assert.Equal(t, HealthStatusHealthy, health.Checks[ComponentStatsCache].Status)
		assert.Equal(t, HealthStatusDegraded, health.Checks[ComponentEventBroker].Status)
	})

	t.Run("cache and broker failures only degrade", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register(ComponentTaskStore, TaskStoreChecker(ok))
		r.Register(ComponentStatsCache, StatsCacheChecker(down))
		r.Register(ComponentEventBroker, EventBrokerChecker(down))

		health := r.GetOverallHealth(ctx)

		assert.Equal(t, HealthStatusDegraded, health.Status)
		assert.Equal(t, "task store reachable", health.Checks[ComponentTaskStore].Message)
		assert.Equal(t, "stats cache unreachable: connection refused", health.Checks[ComponentStatsCache].Message)
	})

	t.Run("register replaces a checker", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register(ComponentTaskStore, TaskStoreChecker(down))
		r.Register(ComponentTaskStore, TaskStoreChecker(ok))

		health := r.GetOverallHealth(ctx)

		assert.Equal(t, HealthStatusHealthy, health.Status)
		assert.Len(t, health.Checks, 1)
	})
}
