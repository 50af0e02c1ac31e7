package commands

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/task"
	sharedApplication "github.com/felixgeelhaar/taskpilot/internal/shared/application"
	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/taskpilot/pkg/apperrors"
	"github.com/felixgeelhaar/taskpilot/pkg/observability"
)

// DeleteTaskCommand identifies the task to remove.
type DeleteTaskCommand struct {
	TaskID int64
}

// DeleteTaskHandler handles the DeleteTaskCommand. Daily stats are left as
// they are.
type DeleteTaskHandler struct {
	base
}

// NewDeleteTaskHandler creates a new DeleteTaskHandler.
func NewDeleteTaskHandler(
	taskRepo task.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	opts Options,
) *DeleteTaskHandler {
	return &DeleteTaskHandler{base: newBase(taskRepo, outboxRepo, nil, uow, opts)}
}

// Handle executes the DeleteTaskCommand.
func (h *DeleteTaskHandler) Handle(ctx context.Context, cmd DeleteTaskCommand) error {
	err := h.inTx(ctx, "task.delete", func(txCtx context.Context) error {
		t, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}
		if err := h.taskRepo.Delete(txCtx, cmd.TaskID); err != nil {
			return err
		}
		t.AddDomainEvent(task.NewTaskDeleted(cmd.TaskID))
		return h.saveEvents(txCtx, t)
	})
	if err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			return apperrors.NotFound(err)
		}
		return err
	}

	h.invalidate(ctx)
	h.opts.Metrics.Counter(observability.MetricTasksDeleted, 1)
	return nil
}
