// Package application holds the insights use cases.
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/taskpilot/internal/insights/domain"
)

// Aggregator maintains the per-day productivity stats. It is invoked by the
// task command handlers inside their unit of work.
type Aggregator struct {
	repo  domain.StatsRepository
	clock func() time.Time
}

// NewAggregator creates an aggregator. A nil clock uses time.Now.
func NewAggregator(repo domain.StatsRepository, clock func() time.Time) *Aggregator {
	if clock == nil {
		clock = time.Now
	}
	return &Aggregator{repo: repo, clock: clock}
}

// Record applies an event to today's stats row, creating it on first use.
func (a *Aggregator) Record(ctx context.Context, kind domain.EventKind, timeSpent int) error {
	today := domain.DayOf(a.clock())

	stats, err := a.repo.FindByDate(ctx, today)
	if errors.Is(err, domain.ErrStatsNotFound) {
		stats = domain.NewDailyStats(today)
	} else if err != nil {
		return err
	}

	if err := stats.Apply(kind, timeSpent); err != nil {
		return err
	}

	if err := a.repo.Save(ctx, stats); err != nil {
		return fmt.Errorf("record %s event: %w", kind, err)
	}
	return nil
}
