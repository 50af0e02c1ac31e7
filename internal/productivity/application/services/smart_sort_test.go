package services

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/task"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/value_objects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sortNow = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

type taskOpt func(*task.Snapshot)

func priority(p value_objects.Priority) taskOpt {
	return func(s *task.Snapshot) { s.Priority = p }
}

func due(d time.Time) taskOpt {
	return func(s *task.Snapshot) { s.DueDate = &d }
}

func estimate(minutes int) taskOpt {
	return func(s *task.Snapshot) {
		e, _ := value_objects.NewEstimate(minutes)
		s.Estimate = e
	}
}

func category(c string) taskOpt {
	return func(s *task.Snapshot) { s.Category = c }
}

var nextID int64

func newTask(t *testing.T, title string, opts ...taskOpt) *task.Task {
	t.Helper()
	nextID++
	snap := task.Snapshot{
		ID:        nextID,
		Title:     title,
		Status:    task.StatusPending,
		Priority:  value_objects.DefaultPriority,
		CreatedAt: sortNow.Add(-time.Hour),
		Estimate:  value_objects.NoEstimate(),
	}
	for _, opt := range opts {
		opt(&snap)
	}
	return task.Rehydrate(snap)
}

func TestDefaultSmartSortConfig(t *testing.T) {
	cfg := DefaultSmartSortConfig()

	assert.Equal(t, 150, cfg.OverdueBonus)
	assert.Equal(t, 120, cfg.DueTodayBonus)
	assert.Equal(t, 90, cfg.DueTomorrowBonus)
	assert.Equal(t, 60, cfg.DueSoonBonus)
	assert.Equal(t, 3, cfg.DueSoonDays)
	assert.Equal(t, 30, cfg.QuickWinBonus)
}

func TestDaysUntil(t *testing.T) {
	tests := []struct {
		name string
		due  time.Time
		want int
	}{
		{"one hour ago", sortNow.Add(-time.Hour), -1},
		{"exactly now", sortNow, 0},
		{"in 23 hours", sortNow.Add(23 * time.Hour), 0},
		{"in 24 hours", sortNow.Add(24 * time.Hour), 1},
		{"in 47 hours", sortNow.Add(47 * time.Hour), 1},
		{"two days ago", sortNow.Add(-48 * time.Hour), -2},
		{"in three days", sortNow.Add(72 * time.Hour), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntil(tt.due, sortNow))
		})
	}
}

func TestSmartSortEngine_Score(t *testing.T) {
	engine := NewSmartSortEngine(DefaultSmartSortConfig())

	tests := []struct {
		name string
		task *task.Task
		want int
	}{
		{"medium without extras", newTask(t, "plain"), 50},
		{"low", newTask(t, "low", priority(value_objects.PriorityLow)), 25},
		{"high", newTask(t, "high", priority(value_objects.PriorityHigh)), 75},
		{"unknown priority", newTask(t, "odd", priority(value_objects.Priority("someday"))), 50},
		{"overdue", newTask(t, "late", due(sortNow.Add(-2*time.Hour))), 200},
		{"due today", newTask(t, "today", due(sortNow.Add(5*time.Hour))), 170},
		{"due tomorrow", newTask(t, "tomorrow", due(sortNow.Add(30*time.Hour))), 140},
		{"due in three days", newTask(t, "soon", due(sortNow.Add(80*time.Hour))), 110},
		{"due next week", newTask(t, "later", due(sortNow.Add(7*24*time.Hour))), 50},
		{"quick win", newTask(t, "quick", estimate(15)), 80},
		{"long task", newTask(t, "long", estimate(16)), 50},
		{"zero estimate is not a quick win", newTask(t, "zero", estimate(0)), 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, explanation := engine.Score(tt.task, sortNow)
			assert.Equal(t, tt.want, score)
			assert.Contains(t, explanation, "priority=")
		})
	}
}

func TestSmartSortEngine_Sort(t *testing.T) {
	engine := NewSmartSortEngine(DefaultSmartSortConfig())

	t.Run("urgent due today beats low quick win", func(t *testing.T) {
		b := newTask(t, "B", priority(value_objects.PriorityLow), estimate(10))
		a := newTask(t, "A", priority(value_objects.PriorityUrgent), due(sortNow.Add(2*time.Hour)))

		sorted := engine.Sort([]*task.Task{b, a}, sortNow)

		require.Len(t, sorted, 2)
		assert.Equal(t, "A", sorted[0].Task.Title())
		assert.Equal(t, 220, sorted[0].Score)
		assert.Equal(t, "B", sorted[1].Task.Title())
		assert.Equal(t, 55, sorted[1].Score)
	})

	t.Run("equal scores keep input order", func(t *testing.T) {
		first := newTask(t, "first")
		second := newTask(t, "second")
		third := newTask(t, "third", priority(value_objects.PriorityHigh))
		fourth := newTask(t, "fourth")

		sorted := engine.Sort([]*task.Task{first, second, third, fourth}, sortNow)

		titles := make([]string, 0, len(sorted))
		for _, s := range sorted {
			titles = append(titles, s.Task.Title())
		}
		assert.Equal(t, []string{"third", "first", "second", "fourth"}, titles)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, engine.Sort(nil, sortNow))
	})
}
