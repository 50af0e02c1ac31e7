package task

import (
	"errors"
	"strings"
	"time"

	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/value_objects"
	"github.com/felixgeelhaar/taskpilot/internal/shared/domain"
)

var (
	ErrEmptyTitle    = errors.New("title is required")
	ErrInvalidStatus = errors.New("invalid status value")
	ErrTaskNotFound  = errors.New("task not found")
)

// Status represents the task lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// ParseStatus validates a status name.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

func (s Status) String() string { return string(s) }

// IsValid reports whether s is one of the known lifecycle states.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// Task represents a unit of work to be done.
type Task struct {
	domain.BaseAggregateRoot
	id          int64
	title       string
	description string
	status      Status
	priority    value_objects.Priority
	category    string
	dueDate     *time.Time
	createdAt   time.Time
	completedAt *time.Time
	estimate    value_objects.Estimate
	tags        value_objects.Tags
}

// NewTask creates a pending, medium-priority task. The ID is assigned when the
// task is first saved.
func NewTask(title string, now time.Time) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	return &Task{
		title:     title,
		status:    StatusPending,
		priority:  value_objects.DefaultPriority,
		createdAt: now.UTC(),
		estimate:  value_objects.NoEstimate(),
		tags:      value_objects.Tags{},
	}, nil
}

// Snapshot is the persisted shape of a task.
type Snapshot struct {
	ID          int64
	Title       string
	Description string
	Status      Status
	Priority    value_objects.Priority
	Category    string
	DueDate     *time.Time
	CreatedAt   time.Time
	CompletedAt *time.Time
	Estimate    value_objects.Estimate
	Tags        value_objects.Tags
}

// Rehydrate rebuilds a task from persisted state without validation or events.
func Rehydrate(s Snapshot) *Task {
	tags := s.Tags
	if tags == nil {
		tags = value_objects.Tags{}
	}
	return &Task{
		id:          s.ID,
		title:       s.Title,
		description: s.Description,
		status:      s.Status,
		priority:    s.Priority,
		category:    s.Category,
		dueDate:     s.DueDate,
		createdAt:   s.CreatedAt,
		completedAt: s.CompletedAt,
		estimate:    s.Estimate,
		tags:        tags,
	}
}

// Snapshot returns the persisted shape of the task.
func (t *Task) Snapshot() Snapshot {
	return Snapshot{
		ID:          t.id,
		Title:       t.title,
		Description: t.description,
		Status:      t.status,
		Priority:    t.priority,
		Category:    t.category,
		DueDate:     t.dueDate,
		CreatedAt:   t.createdAt,
		CompletedAt: t.completedAt,
		Estimate:    t.estimate,
		Tags:        t.tags,
	}
}

// Getters

func (t *Task) ID() int64                        { return t.id }
func (t *Task) Title() string                    { return t.title }
func (t *Task) Description() string              { return t.description }
func (t *Task) Status() Status                   { return t.status }
func (t *Task) Priority() value_objects.Priority { return t.priority }
func (t *Task) Category() string                 { return t.category }
func (t *Task) DueDate() *time.Time              { return t.dueDate }
func (t *Task) CreatedAt() time.Time             { return t.createdAt }
func (t *Task) CompletedAt() *time.Time          { return t.completedAt }
func (t *Task) Estimate() value_objects.Estimate { return t.estimate }
func (t *Task) Tags() value_objects.Tags         { return t.tags }
func (t *Task) IsCompleted() bool                { return t.status == StatusCompleted }
func (t *Task) IsNew() bool                      { return t.id == 0 }

// AssignID records the store-assigned identifier. It is a no-op once an ID is set.
func (t *Task) AssignID(id int64) {
	if t.id == 0 {
		t.id = id
	}
}

// SetTitle updates the task title.
func (t *Task) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	t.title = title
	return nil
}

// SetDescription updates the task description. Blank clears it.
func (t *Task) SetDescription(description string) {
	t.description = strings.TrimSpace(description)
}

// SetPriority updates the task priority.
func (t *Task) SetPriority(priority value_objects.Priority) error {
	if !priority.IsValid() {
		return value_objects.ErrInvalidPriority
	}
	t.priority = priority
	return nil
}

// SetCategory updates the category label. Blank clears it.
func (t *Task) SetCategory(category string) {
	t.category = strings.TrimSpace(category)
}

// SetDueDate updates the due date; nil clears it.
func (t *Task) SetDueDate(dueDate *time.Time) {
	if dueDate == nil {
		t.dueDate = nil
		return
	}
	d := dueDate.UTC()
	t.dueDate = &d
}

// SetEstimate updates the estimated effort.
func (t *Task) SetEstimate(estimate value_objects.Estimate) {
	t.estimate = estimate
}

// SetTags replaces the tag list.
func (t *Task) SetTags(tags value_objects.Tags) {
	t.tags = value_objects.NewTags(tags)
}

// ChangeStatus moves the task to status. It reports whether this call completed
// the task, which happens only on a transition from a non-completed status.
// Moving a completed task back to another status clears its completion time.
func (t *Task) ChangeStatus(status Status, now time.Time) (bool, error) {
	if !status.IsValid() {
		return false, ErrInvalidStatus
	}
	if status == t.status {
		return false, nil
	}

	wasCompleted := t.IsCompleted()
	t.status = status

	switch {
	case status == StatusCompleted:
		completedAt := now.UTC()
		t.completedAt = &completedAt
		t.AddDomainEvent(NewTaskCompleted(t.id, t.estimate.TimeSpent()))
		return true, nil
	case wasCompleted:
		t.completedAt = nil
	}
	return false, nil
}

// Complete is shorthand for ChangeStatus(StatusCompleted, now).
func (t *Task) Complete(now time.Time) (bool, error) {
	return t.ChangeStatus(StatusCompleted, now)
}
