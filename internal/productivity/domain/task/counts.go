package task

import (
	"context"
	"time"
)

// Counts aggregates the task table for the overview statistics.
type Counts struct {
	Total             int
	Pending           int
	InProgress        int
	Completed         int
	UrgentPending     int
	HighPending       int
	CompletedThisWeek int
}

// CountReader computes Counts. Completed tasks with a completion time at or
// after completedSince count towards CompletedThisWeek.
type CountReader interface {
	Count(ctx context.Context, completedSince time.Time) (Counts, error)
}
