package domain

import (
	"context"
	"time"
)

// StatsRepository defines persistence for daily stats rows.
type StatsRepository interface {
	// FindByDate returns the row for the given day or ErrStatsNotFound.
	FindByDate(ctx context.Context, date time.Time) (*DailyStats, error)

	// Save inserts or updates the row keyed by its date.
	Save(ctx context.Context, stats *DailyStats) error

	// ListSince returns rows dated on or after since, oldest first.
	ListSince(ctx context.Context, since time.Time) ([]*DailyStats, error)
}
