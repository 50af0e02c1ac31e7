package queries

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/task"
	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/cache"
	"github.com/felixgeelhaar/taskpilot/pkg/observability"
)

// OverviewCacheKey is the cache key of the overview read model. Task
// mutations delete it.
const OverviewCacheKey = "stats:overview"

// OverviewDTO is the overview statistics payload.
type OverviewDTO struct {
	TotalTasks        int     `json:"total_tasks"`
	Pending           int     `json:"pending"`
	InProgress        int     `json:"in_progress"`
	Completed         int     `json:"completed"`
	UrgentPending     int     `json:"urgent_pending"`
	HighPending       int     `json:"high_pending"`
	CompletedThisWeek int     `json:"completed_this_week"`
	CompletionRate    float64 `json:"completion_rate"`
}

// GetOverviewHandler computes the overview statistics, serving them from the
// cache when a fresh copy exists.
type GetOverviewHandler struct {
	counts  task.CountReader
	cache   cache.Cache
	ttl     time.Duration
	clock   func() time.Time
	metrics observability.Metrics
	logger  *slog.Logger
}

// NewGetOverviewHandler creates a new GetOverviewHandler. A nil cache
// disables caching and a nil clock uses time.Now.
func NewGetOverviewHandler(
	counts task.CountReader,
	c cache.Cache,
	ttl time.Duration,
	clock func() time.Time,
	metrics observability.Metrics,
	logger *slog.Logger,
) *GetOverviewHandler {
	if c == nil {
		c = cache.NoopCache{}
	}
	if clock == nil {
		clock = time.Now
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GetOverviewHandler{
		counts:  counts,
		cache:   c,
		ttl:     ttl,
		clock:   clock,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle returns the overview statistics.
func (h *GetOverviewHandler) Handle(ctx context.Context) (*OverviewDTO, error) {
	if cached, ok := h.fromCache(ctx); ok {
		return cached, nil
	}

	counts, err := h.counts.Count(ctx, h.clock().Add(-7*24*time.Hour))
	if err != nil {
		return nil, err
	}

	dto := &OverviewDTO{
		TotalTasks:        counts.Total,
		Pending:           counts.Pending,
		InProgress:        counts.InProgress,
		Completed:         counts.Completed,
		UrgentPending:     counts.UrgentPending,
		HighPending:       counts.HighPending,
		CompletedThisWeek: counts.CompletedThisWeek,
		CompletionRate:    CompletionRate(counts.Completed, counts.Total),
	}

	h.store(ctx, dto)
	return dto, nil
}

// CompletionRate returns completed/total as a percentage rounded to one
// decimal, or 0 when there are no tasks.
func CompletionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*1000) / 10
}

func (h *GetOverviewHandler) fromCache(ctx context.Context) (*OverviewDTO, bool) {
	raw, err := h.cache.Get(ctx, OverviewCacheKey)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			h.logger.WarnContext(ctx, "overview cache read failed", "error", err)
		}
		h.metrics.Counter(observability.MetricCacheMisses, 1, observability.T("key", OverviewCacheKey))
		return nil, false
	}

	var dto OverviewDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		h.logger.WarnContext(ctx, "discarding corrupt overview cache entry", "error", err)
		return nil, false
	}
	h.metrics.Counter(observability.MetricCacheHits, 1, observability.T("key", OverviewCacheKey))
	return &dto, true
}

func (h *GetOverviewHandler) store(ctx context.Context, dto *OverviewDTO) {
	if h.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(dto)
	if err != nil {
		return
	}
	if err := h.cache.Set(ctx, OverviewCacheKey, raw, h.ttl); err != nil {
		h.logger.WarnContext(ctx, "overview cache write failed", "error", err)
	}
}
