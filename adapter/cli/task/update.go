package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskpilot/internal/productivity/application/commands"
)

var (
	updateTitle       string
	updateDescription string
	updatePriority    string
	updateCategory    string
	updateEstimate    int
	updateDue         string
	updateTags        []string
	clearDue          bool
	clearEstimate     bool
)

var updateCmd = &cobra.Command{
	Use:   "update [task-id]",
	Short: "Update a task",
	Long: `Update the properties of an existing task. Only the flags you give
are changed.

Examples:
  taskpilot task update 42 --title "New title"
  taskpilot task update 42 --priority high
  taskpilot task update 42 --estimate 60 --due 2026-12-31
  taskpilot task update 42 --clear-due`,
	Aliases: []string{"edit", "modify"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := currentApp()
		if err != nil {
			return err
		}
		if app.UpdateTaskHandler == nil {
			return fmt.Errorf("task update not configured")
		}

		taskID, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		updateTaskCmd := commands.UpdateTaskCommand{
			TaskID:             taskID,
			ClearDueDate:       clearDue,
			ClearEstimatedTime: clearEstimate,
		}
		flags := cmd.Flags()
		if flags.Changed("title") {
			updateTaskCmd.Title = &updateTitle
		}
		if flags.Changed("description") {
			updateTaskCmd.Description = &updateDescription
		}
		if flags.Changed("priority") {
			updateTaskCmd.Priority = &updatePriority
		}
		if flags.Changed("category") {
			updateTaskCmd.Category = &updateCategory
		}
		if flags.Changed("estimate") {
			updateTaskCmd.EstimatedTime = &updateEstimate
		}
		if flags.Changed("due") {
			updateTaskCmd.DueDate = &updateDue
		}
		if flags.Changed("tag") {
			updateTaskCmd.Tags = &updateTags
		}

		if !hasUpdates(updateTaskCmd) {
			return fmt.Errorf("no updates provided - use flags like --title, --priority, --estimate, --due, or --clear-due")
		}

		result, err := app.UpdateTaskHandler.Handle(cmd.Context(), updateTaskCmd)
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Task updated: #%d\n", result.ID)
		return nil
	},
}

func hasUpdates(c commands.UpdateTaskCommand) bool {
	return c.Title != nil || c.Description != nil || c.Priority != nil || c.Status != nil ||
		c.Category != nil || c.DueDate != nil || c.ClearDueDate ||
		c.EstimatedTime != nil || c.ClearEstimatedTime || c.Tags != nil
}

func init() {
	updateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "New title for the task")
	updateCmd.Flags().StringVar(&updateDescription, "description", "", "New description for the task")
	updateCmd.Flags().StringVarP(&updatePriority, "priority", "p", "", "New priority (low, medium, high, urgent)")
	updateCmd.Flags().StringVar(&updateCategory, "category", "", "New category")
	updateCmd.Flags().IntVarP(&updateEstimate, "estimate", "e", 0, "New estimated time in minutes")
	updateCmd.Flags().StringVar(&updateDue, "due", "", "New due date (YYYY-MM-DD or RFC 3339)")
	updateCmd.Flags().StringSliceVar(&updateTags, "tag", nil, "Replace the tags (repeatable)")
	updateCmd.Flags().BoolVar(&clearDue, "clear-due", false, "Clear the due date")
	updateCmd.Flags().BoolVar(&clearEstimate, "clear-estimate", false, "Clear the estimated time")
}
