package observability

import (
	"context"
	"sync"
	"time"
)

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

func (s HealthStatus) rank() int {
	switch s {
	case HealthStatusUnhealthy:
		return 2
	case HealthStatusDegraded:
		return 1
	default:
		return 0
	}
}

// Names of the components the service registers for readiness.
const (
	ComponentTaskStore   = "task_store"
	ComponentStatsCache  = "stats_cache"
	ComponentEventBroker = "event_broker"
)

// HealthCheckResult is the result of a health check.
type HealthCheckResult struct {
	Status    HealthStatus  `json:"status"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
	Timestamp time.Time     `json:"timestamp"`
}

// HealthChecker is a function that performs a health check.
type HealthChecker func(ctx context.Context) HealthCheckResult

// HealthRegistry holds the readiness checks for the service components.
type HealthRegistry struct {
	mu       sync.RWMutex
	checkers map[string]HealthChecker
}

// NewHealthRegistry creates an empty registry.
func NewHealthRegistry() *HealthRegistry {
	return &HealthRegistry{checkers: make(map[string]HealthChecker)}
}

// Register adds or replaces the checker for a component.
func (r *HealthRegistry) Register(name string, checker HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = checker
}

// OverallHealth is the readiness report served on /readyz.
type OverallHealth struct {
	Status    HealthStatus                 `json:"status"`
	Timestamp time.Time                    `json:"timestamp"`
	Checks    map[string]HealthCheckResult `json:"checks"`
}

// GetOverallHealth runs every check concurrently. The overall status is the
// worst component status; an empty registry is healthy.
func (r *HealthRegistry) GetOverallHealth(ctx context.Context) OverallHealth {
	r.mu.RLock()
	checkers := make(map[string]HealthChecker, len(r.checkers))
	for name, checker := range r.checkers {
		checkers[name] = checker
	}
	r.mu.RUnlock()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		overall = OverallHealth{Status: HealthStatusHealthy, Checks: make(map[string]HealthCheckResult, len(checkers))}
	)
	for name, checker := range checkers {
		wg.Add(1)
		go func(name string, checker HealthChecker) {
			defer wg.Done()
			start := time.Now()
			result := checker(ctx)
			result.Duration = time.Since(start)
			result.Timestamp = time.Now()

			mu.Lock()
			defer mu.Unlock()
			overall.Checks[name] = result
			if result.Status.rank() > overall.Status.rank() {
				overall.Status = result.Status
			}
		}(name, checker)
	}
	wg.Wait()

	overall.Timestamp = time.Now()
	return overall
}

// pingChecker reports failing, with the ping error, when ping fails.
func pingChecker(component string, failing HealthStatus, ping func(ctx context.Context) error) HealthChecker {
	return func(ctx context.Context) HealthCheckResult {
		if err := ping(ctx); err != nil {
			return HealthCheckResult{Status: failing, Message: component + " unreachable: " + err.Error()}
		}
		return HealthCheckResult{Status: HealthStatusHealthy, Message: component + " reachable"}
	}
}

// TaskStoreChecker checks the SQL database holding tasks, stats and the
// outbox. Nothing can be served without it, so a failure is unhealthy.
func TaskStoreChecker(ping func(ctx context.Context) error) HealthChecker {
	return pingChecker("task store", HealthStatusUnhealthy, ping)
}

// StatsCacheChecker checks the Redis overview cache. The overview falls back
// to computing from the store, so a failure only degrades.
func StatsCacheChecker(ping func(ctx context.Context) error) HealthChecker {
	return pingChecker("stats cache", HealthStatusDegraded, ping)
}

// EventBrokerChecker checks the RabbitMQ connection. Events wait in the
// outbox while the broker is down, so a failure only degrades.
func EventBrokerChecker(check func(ctx context.Context) error) HealthChecker {
	return pingChecker("event broker", HealthStatusDegraded, check)
}
