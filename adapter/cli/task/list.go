package task

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskpilot/internal/productivity/application/queries"
)

var (
	filterStatus   string
	filterPriority string
	filterCategory string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List tasks, newest first, with optional exact-match filters.

Examples:
  taskpilot task list                      # All tasks
  taskpilot task list --status pending     # Only pending tasks
  taskpilot task list --priority urgent    # Only urgent tasks
  taskpilot task list --category work      # Only tasks in "work"`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := currentApp()
		if err != nil {
			return err
		}
		if app.ListTasksHandler == nil {
			return fmt.Errorf("task listing not configured")
		}

		tasks, err := app.ListTasksHandler.Handle(cmd.Context(), queries.ListTasksQuery{
			Status:   filterStatus,
			Priority: filterPriority,
			Category: filterCategory,
		})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks found.")
			return nil
		}

		fmt.Fprintf(out, "Tasks (%d):\n", len(tasks))
		fmt.Fprintln(out, strings.Repeat("-", 60))
		for _, t := range tasks {
			fmt.Fprintf(out, "%s #%d %s %s\n", getStatusIcon(t.Status), t.ID, t.Title, getPriorityBadge(t.Priority))
			if t.Category != nil {
				fmt.Fprintf(out, "   Category: %s\n", *t.Category)
			}
			if t.EstimatedTime != nil {
				fmt.Fprintf(out, "   Estimate: %s\n", formatDuration(*t.EstimatedTime))
			}
			if t.DueDate != nil {
				fmt.Fprintf(out, "   Due: %s\n", *t.DueDate)
			}
			if len(t.Tags) > 0 {
				fmt.Fprintf(out, "   Tags: %s\n", strings.Join(t.Tags, ", "))
			}
		}
		return nil
	},
}

func getStatusIcon(status string) string {
	switch status {
	case "completed":
		return "[x]"
	case "in_progress":
		return "[>]"
	default:
		return "[ ]"
	}
}

func getPriorityBadge(priority string) string {
	switch priority {
	case "urgent":
		return "(!!!)"
	case "high":
		return "(!)"
	case "medium":
		return "(~)"
	case "low":
		return "(.)"
	default:
		return ""
	}
}

func init() {
	listCmd.Flags().StringVarP(&filterStatus, "status", "s", "", "filter by status (pending, in_progress, completed)")
	listCmd.Flags().StringVarP(&filterPriority, "priority", "p", "", "filter by priority (urgent, high, medium, low)")
	listCmd.Flags().StringVar(&filterCategory, "category", "", "filter by category")
}
