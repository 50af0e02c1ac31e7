// Package commands holds the task write use cases. Every handler runs inside
// a unit of work, so the task row, the daily stats row and the outbox
// messages commit together.
package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	insightsDomain "github.com/felixgeelhaar/taskpilot/internal/insights/domain"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/application/queries"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/task"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/value_objects"
	sharedApplication "github.com/felixgeelhaar/taskpilot/internal/shared/application"
	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/cache"
	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/taskpilot/pkg/apperrors"
	"github.com/felixgeelhaar/taskpilot/pkg/observability"
)

// StatsRecorder receives the productivity events produced by task mutations.
type StatsRecorder interface {
	Record(ctx context.Context, kind insightsDomain.EventKind, timeSpent int) error
}

// Options carries the collaborators shared by all command handlers.
type Options struct {
	// Clock defaults to time.Now.
	Clock func() time.Time
	// StrictDates rejects unparseable due dates instead of ignoring them.
	StrictDates bool
	// Cache holds read models that task mutations invalidate.
	Cache   cache.Cache
	Metrics observability.Metrics
	Logger  *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Cache == nil {
		o.Cache = cache.NoopCache{}
	}
	if o.Metrics == nil {
		o.Metrics = observability.NoopMetrics{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// base bundles the dependencies every task command needs.
type base struct {
	taskRepo   task.Repository
	outboxRepo outbox.Repository
	stats      StatsRecorder
	uow        sharedApplication.UnitOfWork
	opts       Options
}

func newBase(taskRepo task.Repository, outboxRepo outbox.Repository, stats StatsRecorder, uow sharedApplication.UnitOfWork, opts Options) base {
	return base{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		stats:      stats,
		uow:        uow,
		opts:       opts.withDefaults(),
	}
}

// inTx runs fn in a unit of work and records its duration under op.
func (b base) inTx(ctx context.Context, op string, fn func(txCtx context.Context) error) error {
	return observability.TimeOperation(ctx, nil, b.opts.Metrics, op, func() error {
		return sharedApplication.WithUnitOfWork(ctx, b.uow, fn)
	})
}

// saveEvents moves the aggregate's pending events into the outbox.
func (b base) saveEvents(ctx context.Context, t *task.Task) error {
	events := t.DomainEvents()
	if len(events) == 0 {
		return nil
	}
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx))

	msgs, err := outbox.NewMessages(events)
	if err != nil {
		return err
	}
	if err := b.outboxRepo.SaveBatch(ctx, msgs); err != nil {
		return err
	}
	t.ClearDomainEvents()
	return nil
}

// invalidate drops cached read models after a commit. Failures only cost a
// stale read until the entry expires.
func (b base) invalidate(ctx context.Context) {
	if err := b.opts.Cache.Delete(ctx, queries.OverviewCacheKey); err != nil {
		b.opts.Logger.WarnContext(ctx, "cache invalidation failed", "key", queries.OverviewCacheKey, "error", err)
	}
}

// parseDueDate applies the strict or lenient date policy. ok is false when
// the value should be ignored.
func (b base) parseDueDate(ctx context.Context, raw string) (time.Time, bool, error) {
	due, err := task.ParseDueDate(raw)
	if err == nil {
		return due, true, nil
	}
	if b.opts.StrictDates {
		return time.Time{}, false, apperrors.Validation(err)
	}
	b.opts.Logger.DebugContext(ctx, "ignoring unparseable due date", "value", raw)
	return time.Time{}, false, nil
}

// validationError classifies domain input errors for the transport layers.
func validationError(err error) error {
	if _, ok := apperrors.IsValidation(err); ok {
		return err
	}
	switch {
	case errors.Is(err, task.ErrEmptyTitle):
		return apperrors.NewValidationError("Title is required", err)
	case errors.Is(err, value_objects.ErrInvalidPriority),
		errors.Is(err, value_objects.ErrInvalidEstimate),
		errors.Is(err, task.ErrInvalidStatus),
		errors.Is(err, task.ErrInvalidDueDate):
		return apperrors.Validation(err)
	default:
		return err
	}
}
