package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskpilot/internal/productivity/application/commands"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/task"
)

var startCmd = &cobra.Command{
	Use:   "start [task-id]",
	Short: "Mark a task as in progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeStatus(cmd, args[0], task.StatusInProgress, "Task started")
	},
}

var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task as complete",
	Long: `Mark a task as complete by its ID. Completing a task records it in
today's productivity statistics; completing it again changes nothing.

Examples:
  taskpilot task done 42`,
	Aliases: []string{"complete"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return changeStatus(cmd, args[0], task.StatusCompleted, "Task completed")
	},
}

func changeStatus(cmd *cobra.Command, rawID string, status task.Status, verb string) error {
	app, err := currentApp()
	if err != nil {
		return err
	}
	if app.UpdateTaskHandler == nil {
		return fmt.Errorf("task update not configured")
	}

	taskID, err := parseTaskID(rawID)
	if err != nil {
		return err
	}

	value := status.String()
	result, err := app.UpdateTaskHandler.Handle(cmd.Context(), commands.UpdateTaskCommand{
		TaskID: taskID,
		Status: &value,
	})
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: #%d %s\n", verb, result.ID, result.Title)
	return nil
}
