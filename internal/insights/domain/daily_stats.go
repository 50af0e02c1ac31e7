// Package domain contains the domain model for the insights bounded context.
package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// EventKind identifies a task lifecycle event counted by the daily stats.
type EventKind string

const (
	EventCreated   EventKind = "created"
	EventCompleted EventKind = "completed"
)

// ErrUnknownEventKind is returned when an event kind is not recognised.
var ErrUnknownEventKind = errors.New("unknown event kind")

// ErrStatsNotFound is returned when no stats row exists for a date.
var ErrStatsNotFound = errors.New("daily stats not found")

// MaxFocusScore caps the focus score.
const MaxFocusScore = 100.0

// DailyStats summarizes task activity for one calendar day.
type DailyStats struct {
	ID             int64
	Date           time.Time
	TasksCreated   int
	TasksCompleted int
	TotalTimeSpent int
	FocusScore     float64
}

// NewDailyStats creates an empty stats row for the UTC day containing t.
func NewDailyStats(t time.Time) *DailyStats {
	return &DailyStats{Date: DayOf(t)}
}

// DayOf truncates t to midnight of its UTC calendar day.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// IsNew reports whether the row has not been persisted yet.
func (s *DailyStats) IsNew() bool {
	return s.ID == 0
}

// RecordCreated counts a newly created task.
func (s *DailyStats) RecordCreated() {
	s.TasksCreated++
}

// RecordCompleted counts a completed task and the minutes spent on it.
// The focus score only moves when at least one task was created that day.
func (s *DailyStats) RecordCompleted(timeSpent int) {
	s.TasksCompleted++
	s.TotalTimeSpent += timeSpent

	if s.TasksCreated > 0 {
		ratio := float64(s.TasksCompleted) / float64(s.TasksCreated) * 100
		s.FocusScore = math.Min(MaxFocusScore, ratio)
	}
}

// Apply records an event of the given kind.
func (s *DailyStats) Apply(kind EventKind, timeSpent int) error {
	switch kind {
	case EventCreated:
		s.RecordCreated()
	case EventCompleted:
		s.RecordCompleted(timeSpent)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEventKind, kind)
	}
	return nil
}
