package task

import (
	"context"
)

// Filter restricts List to tasks matching every non-empty field exactly.
type Filter struct {
	Status   string
	Priority string
	Category string
}

// Repository defines the interface for task persistence.
type Repository interface {
	// Save inserts a new task (assigning its ID) or overwrites an existing one.
	Save(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id int64) (*Task, error)
	// List returns matching tasks, newest first.
	List(ctx context.Context, filter Filter) ([]*Task, error)
	// FindPending returns pending tasks in insertion order.
	FindPending(ctx context.Context) ([]*Task, error)
	Delete(ctx context.Context, id int64) error
}
