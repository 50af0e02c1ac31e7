package commands

import (
	"context"
	"errors"

	insightsDomain "github.com/felixgeelhaar/taskpilot/internal/insights/domain"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/application/queries"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/task"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/value_objects"
	sharedApplication "github.com/felixgeelhaar/taskpilot/internal/shared/application"
	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/taskpilot/pkg/apperrors"
	"github.com/felixgeelhaar/taskpilot/pkg/observability"
)

// UpdateTaskCommand contains the fields to change. Nil fields are left
// untouched; the Clear flags remove a value.
type UpdateTaskCommand struct {
	TaskID             int64
	Title              *string
	Description        *string
	Priority           *string
	Status             *string
	Category           *string
	DueDate            *string
	ClearDueDate       bool
	EstimatedTime      *int
	ClearEstimatedTime bool
	Tags               *[]string
}

// UpdateTaskHandler handles the UpdateTaskCommand.
type UpdateTaskHandler struct {
	base
}

// NewUpdateTaskHandler creates a new UpdateTaskHandler.
func NewUpdateTaskHandler(
	taskRepo task.Repository,
	outboxRepo outbox.Repository,
	stats StatsRecorder,
	uow sharedApplication.UnitOfWork,
	opts Options,
) *UpdateTaskHandler {
	return &UpdateTaskHandler{base: newBase(taskRepo, outboxRepo, stats, uow, opts)}
}

// Handle executes the UpdateTaskCommand and returns the updated task.
func (h *UpdateTaskHandler) Handle(ctx context.Context, cmd UpdateTaskCommand) (*queries.TaskDTO, error) {
	var completed bool

	t, err := observability.TimeOperationResult(ctx, nil, h.opts.Metrics, "task.update", func() (*task.Task, error) {
		return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*task.Task, error) {
			return h.update(txCtx, cmd, &completed)
		})
	})
	if err != nil {
		return nil, err
	}

	h.invalidate(ctx)
	if completed {
		h.opts.Metrics.Counter(observability.MetricTasksCompleted, 1)
		observability.LogOperation(h.opts.Logger, "task.update").InfoContext(ctx, "task completed", "task_id", t.ID())
	}

	dto := queries.ToTaskDTO(t)
	return &dto, nil
}

// update applies cmd inside the transaction. completed reports whether this
// call moved the task into the completed state.
func (h *UpdateTaskHandler) update(ctx context.Context, cmd UpdateTaskCommand, completed *bool) (*task.Task, error) {
	t, err := h.taskRepo.FindByID(ctx, cmd.TaskID)
	if err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			return nil, apperrors.NotFound(err)
		}
		return nil, err
	}

	fields, err := h.apply(ctx, t, cmd)
	if err != nil {
		return nil, validationError(err)
	}

	// Status goes last so a completion credits the estimate sent in the
	// same request.
	if cmd.Status != nil {
		status, err := task.ParseStatus(*cmd.Status)
		if err != nil {
			return nil, validationError(err)
		}
		if status != t.Status() {
			fields = append(fields, "status")
		}
		*completed, err = t.ChangeStatus(status, h.opts.Clock())
		if err != nil {
			return nil, validationError(err)
		}
	}

	if len(fields) == 0 {
		return t, nil
	}

	if err := h.taskRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	if *completed {
		if err := h.stats.Record(ctx, insightsDomain.EventCompleted, t.Estimate().TimeSpent()); err != nil {
			return nil, err
		}
	}

	t.AddDomainEvent(task.NewTaskUpdated(t.ID(), fields))
	if err := h.saveEvents(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// apply sets every supplied field except status and returns the names of the
// fields it touched.
func (h *UpdateTaskHandler) apply(ctx context.Context, t *task.Task, cmd UpdateTaskCommand) ([]string, error) {
	var fields []string

	if cmd.Title != nil {
		if err := t.SetTitle(*cmd.Title); err != nil {
			return nil, err
		}
		fields = append(fields, "title")
	}

	if cmd.Description != nil {
		t.SetDescription(*cmd.Description)
		fields = append(fields, "description")
	}

	if cmd.Priority != nil {
		priority, err := value_objects.ParsePriority(*cmd.Priority)
		if err != nil {
			return nil, err
		}
		if err := t.SetPriority(priority); err != nil {
			return nil, err
		}
		fields = append(fields, "priority")
	}

	if cmd.Category != nil {
		t.SetCategory(*cmd.Category)
		fields = append(fields, "category")
	}

	switch {
	case cmd.ClearDueDate:
		t.SetDueDate(nil)
		fields = append(fields, "due_date")
	case cmd.DueDate != nil:
		due, ok, err := h.parseDueDate(ctx, *cmd.DueDate)
		if err != nil {
			return nil, err
		}
		if ok {
			t.SetDueDate(&due)
			fields = append(fields, "due_date")
		}
	}

	switch {
	case cmd.ClearEstimatedTime:
		t.SetEstimate(value_objects.NoEstimate())
		fields = append(fields, "estimated_time")
	case cmd.EstimatedTime != nil:
		estimate, err := value_objects.NewEstimate(*cmd.EstimatedTime)
		if err != nil {
			return nil, err
		}
		t.SetEstimate(estimate)
		fields = append(fields, "estimated_time")
	}

	if cmd.Tags != nil {
		t.SetTags(*cmd.Tags)
		fields = append(fields, "tags")
	}

	return fields, nil
}
