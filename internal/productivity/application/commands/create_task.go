package commands

import (
	"context"

	insightsDomain "github.com/felixgeelhaar/taskpilot/internal/insights/domain"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/application/queries"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/task"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/value_objects"
	sharedApplication "github.com/felixgeelhaar/taskpilot/internal/shared/application"
	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/taskpilot/pkg/observability"
)

// CreateTaskCommand contains the data needed to create a task.
type CreateTaskCommand struct {
	Title         string
	Description   string
	Priority      string
	Category      string
	DueDate       string
	EstimatedTime *int
	Tags          []string
}

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	base
}

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(
	taskRepo task.Repository,
	outboxRepo outbox.Repository,
	stats StatsRecorder,
	uow sharedApplication.UnitOfWork,
	opts Options,
) *CreateTaskHandler {
	return &CreateTaskHandler{base: newBase(taskRepo, outboxRepo, stats, uow, opts)}
}

// Handle executes the CreateTaskCommand and returns the stored task.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*queries.TaskDTO, error) {
	t, err := h.build(ctx, cmd)
	if err != nil {
		return nil, validationError(err)
	}

	err = h.inTx(ctx, "task.create", func(txCtx context.Context) error {
		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}
		t.AddDomainEvent(task.NewTaskCreated(t))

		if err := h.stats.Record(txCtx, insightsDomain.EventCreated, 0); err != nil {
			return err
		}
		return h.saveEvents(txCtx, t)
	})
	if err != nil {
		return nil, err
	}

	h.invalidate(ctx)
	h.opts.Metrics.Counter(observability.MetricTasksCreated, 1, observability.T("priority", t.Priority().String()))
	observability.LogOperation(h.opts.Logger, "task.create").InfoContext(ctx, "task created", "task_id", t.ID())

	dto := queries.ToTaskDTO(t)
	return &dto, nil
}

func (h *CreateTaskHandler) build(ctx context.Context, cmd CreateTaskCommand) (*task.Task, error) {
	t, err := task.NewTask(cmd.Title, h.opts.Clock())
	if err != nil {
		return nil, err
	}

	t.SetDescription(cmd.Description)
	t.SetCategory(cmd.Category)

	if cmd.Priority != "" {
		priority, err := value_objects.ParsePriority(cmd.Priority)
		if err != nil {
			return nil, err
		}
		if err := t.SetPriority(priority); err != nil {
			return nil, err
		}
	}

	estimate, err := value_objects.EstimateFromPtr(cmd.EstimatedTime)
	if err != nil {
		return nil, err
	}
	t.SetEstimate(estimate)

	if cmd.DueDate != "" {
		due, ok, err := h.parseDueDate(ctx, cmd.DueDate)
		if err != nil {
			return nil, err
		}
		if ok {
			t.SetDueDate(&due)
		}
	}

	t.SetTags(value_objects.NewTags(cmd.Tags))
	return t, nil
}
