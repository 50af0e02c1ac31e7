package task_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/task"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/value_objects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 14, 10, 30, 0, 0, time.UTC)

func TestNewTask(t *testing.T) {
	tsk, err := task.NewTask("Complete Phase 0", now)

	require.NoError(t, err)
	assert.True(t, tsk.IsNew())
	assert.Equal(t, "Complete Phase 0", tsk.Title())
	assert.Equal(t, task.StatusPending, tsk.Status())
	assert.Equal(t, value_objects.PriorityMedium, tsk.Priority())
	assert.Equal(t, now, tsk.CreatedAt())
	assert.Nil(t, tsk.CompletedAt())
	assert.Nil(t, tsk.DueDate())
	assert.True(t, tsk.Estimate().IsZero())
	assert.Equal(t, []string{}, tsk.Tags().Strings())
	assert.Empty(t, tsk.DomainEvents())
}

func TestNewTask_EmptyTitle(t *testing.T) {
	tests := []string{"", "   ", "\t\n"}
	for _, title := range tests {
		t.Run(title, func(t *testing.T) {
			_, err := task.NewTask(title, now)
			require.Error(t, err)
			assert.ErrorIs(t, err, task.ErrEmptyTitle)
		})
	}
}

func TestNewTask_TrimsTitle(t *testing.T) {
	tsk, err := task.NewTask("  Test Task  ", now)

	require.NoError(t, err)
	assert.Equal(t, "Test Task", tsk.Title())
}

func TestTask_AssignID(t *testing.T) {
	tsk, _ := task.NewTask("Write report", now)

	tsk.AssignID(7)
	tsk.AssignID(9)

	assert.Equal(t, int64(7), tsk.ID())
	assert.False(t, tsk.IsNew())
}

func TestTask_ChangeStatus(t *testing.T) {
	t.Run("completing sets completed_at and emits event", func(t *testing.T) {
		tsk, _ := task.NewTask("Ship release", now)
		tsk.AssignID(3)
		estimate, _ := value_objects.NewEstimate(20)
		tsk.SetEstimate(estimate)
		later := now.Add(time.Hour)

		completed, err := tsk.ChangeStatus(task.StatusCompleted, later)

		require.NoError(t, err)
		assert.True(t, completed)
		require.NotNil(t, tsk.CompletedAt())
		assert.Equal(t, later, *tsk.CompletedAt())
		assert.False(t, tsk.CompletedAt().Before(tsk.CreatedAt()))

		events := tsk.DomainEvents()
		require.Len(t, events, 1)
		completedEvent, ok := events[0].(*task.TaskCompleted)
		require.True(t, ok)
		assert.Equal(t, int64(3), completedEvent.TaskID)
		assert.Equal(t, 20, completedEvent.TimeSpent)
		assert.Equal(t, "3", completedEvent.AggregateID())
	})

	t.Run("completing twice only records the first transition", func(t *testing.T) {
		tsk, _ := task.NewTask("Ship release", now)
		first := now.Add(time.Minute)

		_, err := tsk.Complete(first)
		require.NoError(t, err)
		completed, err := tsk.Complete(now.Add(time.Hour))

		require.NoError(t, err)
		assert.False(t, completed)
		assert.Equal(t, first, *tsk.CompletedAt())
		assert.Len(t, tsk.DomainEvents(), 1)
	})

	t.Run("completion without estimate credits default time", func(t *testing.T) {
		tsk, _ := task.NewTask("Ship release", now)

		_, err := tsk.Complete(now)
		require.NoError(t, err)

		completedEvent := tsk.DomainEvents()[0].(*task.TaskCompleted)
		assert.Equal(t, value_objects.DefaultTimeSpent, completedEvent.TimeSpent)
	})

	t.Run("reopening clears completed_at", func(t *testing.T) {
		tsk, _ := task.NewTask("Ship release", now)
		_, _ = tsk.Complete(now)

		completed, err := tsk.ChangeStatus(task.StatusInProgress, now)

		require.NoError(t, err)
		assert.False(t, completed)
		assert.Equal(t, task.StatusInProgress, tsk.Status())
		assert.Nil(t, tsk.CompletedAt())
	})

	t.Run("in progress does not complete", func(t *testing.T) {
		tsk, _ := task.NewTask("Ship release", now)

		completed, err := tsk.ChangeStatus(task.StatusInProgress, now)

		require.NoError(t, err)
		assert.False(t, completed)
		assert.Nil(t, tsk.CompletedAt())
		assert.Empty(t, tsk.DomainEvents())
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		tsk, _ := task.NewTask("Ship release", now)

		_, err := tsk.ChangeStatus(task.Status("archived"), now)

		assert.ErrorIs(t, err, task.ErrInvalidStatus)
		assert.Equal(t, task.StatusPending, tsk.Status())
	})
}

func TestTask_Setters(t *testing.T) {
	tsk, _ := task.NewTask("Plan sprint", now)

	require.ErrorIs(t, tsk.SetTitle("  "), task.ErrEmptyTitle)
	require.NoError(t, tsk.SetTitle("Plan next sprint"))
	assert.Equal(t, "Plan next sprint", tsk.Title())

	require.ErrorIs(t, tsk.SetPriority(value_objects.Priority("critical")), value_objects.ErrInvalidPriority)
	require.NoError(t, tsk.SetPriority(value_objects.PriorityUrgent))
	assert.Equal(t, value_objects.PriorityUrgent, tsk.Priority())

	tsk.SetCategory(" work ")
	assert.Equal(t, "work", tsk.Category())

	due := time.Date(2024, 3, 15, 9, 0, 0, 0, time.FixedZone("CET", 3600))
	tsk.SetDueDate(&due)
	require.NotNil(t, tsk.DueDate())
	assert.Equal(t, time.UTC, tsk.DueDate().Location())
	assert.True(t, due.Equal(*tsk.DueDate()))
	tsk.SetDueDate(nil)
	assert.Nil(t, tsk.DueDate())

	labels := []string{"a", "b"}
	tsk.SetTags(labels)
	labels[0] = "z"
	assert.Equal(t, []string{"a", "b"}, tsk.Tags().Strings())
}

func TestRehydrate_RoundTripsSnapshot(t *testing.T) {
	completedAt := now.Add(2 * time.Hour)
	estimate, _ := value_objects.NewEstimate(10)
	snapshot := task.Snapshot{
		ID:          12,
		Title:       "Legacy",
		Status:      task.StatusCompleted,
		Priority:    value_objects.Priority("critical"),
		CreatedAt:   now,
		CompletedAt: &completedAt,
		Estimate:    estimate,
	}

	tsk := task.Rehydrate(snapshot)

	assert.Equal(t, int64(12), tsk.ID())
	assert.Equal(t, value_objects.Priority("critical"), tsk.Priority())
	assert.Equal(t, []string{}, tsk.Tags().Strings())
	assert.Empty(t, tsk.DomainEvents())
	snapshot.Tags = value_objects.Tags{}
	assert.Equal(t, snapshot, tsk.Snapshot())
}

func TestParseStatus(t *testing.T) {
	s, err := task.ParseStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, task.StatusInProgress, s)

	_, err = task.ParseStatus("done")
	assert.ErrorIs(t, err, task.ErrInvalidStatus)
}

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"zulu", "2024-03-15T09:00:00Z", time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC), false},
		{"offset", "2024-03-15T10:00:00+01:00", time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC), false},
		{"fractional", "2024-03-15T09:00:00.123Z", time.Date(2024, 3, 15, 9, 0, 0, 123000000, time.UTC), false},
		{"naive", "2024-03-15T09:00:00", time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC), false},
		{"naive minutes", "2024-03-15T09:00", time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC), false},
		{"space separated", "2024-03-15 09:00:00", time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC), false},
		{"date only", "2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"garbage", "next tuesday", time.Time{}, true},
		{"empty", "", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := task.ParseDueDate(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, task.ErrInvalidDueDate)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestEvents(t *testing.T) {
	tsk, _ := task.NewTask("Call plumber", now)
	tsk.AssignID(5)
	tsk.SetCategory("home")

	created := task.NewTaskCreated(tsk)
	assert.Equal(t, task.RoutingKeyCreated, created.RoutingKey())
	assert.Equal(t, task.AggregateType, created.AggregateType())
	assert.Equal(t, "home", created.Category)
	assert.Equal(t, "medium", created.Priority)

	updated := task.NewTaskUpdated(5, []string{"title"})
	assert.Equal(t, task.RoutingKeyUpdated, updated.RoutingKey())
	assert.Equal(t, []string{"title"}, updated.Fields)

	deleted := task.NewTaskDeleted(5)
	assert.Equal(t, task.RoutingKeyDeleted, deleted.RoutingKey())
	assert.Equal(t, "5", deleted.AggregateID())
}
