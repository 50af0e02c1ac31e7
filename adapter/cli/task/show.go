package task

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskpilot/internal/productivity/application/queries"
)

var showCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show task details",
	Long: `Display detailed information about a specific task.

Examples:
  taskpilot task show 42`,
	Aliases: []string{"get", "view"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := currentApp()
		if err != nil {
			return err
		}
		if app.GetTaskHandler == nil {
			return fmt.Errorf("task lookup not configured")
		}

		taskID, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		task, err := app.GetTaskHandler.Handle(cmd.Context(), queries.GetTaskQuery{TaskID: taskID})
		if err != nil {
			return fmt.Errorf("failed to get task: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Task: #%d\n", task.ID)
		fmt.Fprintf(out, "  Title:       %s\n", task.Title)
		fmt.Fprintf(out, "  Status:      %s\n", formatStatus(task.Status))
		fmt.Fprintf(out, "  Priority:    %s\n", formatPriority(task.Priority))
		if task.Description != nil {
			fmt.Fprintf(out, "  Description: %s\n", *task.Description)
		}
		if task.Category != nil {
			fmt.Fprintf(out, "  Category:    %s\n", *task.Category)
		}
		if task.EstimatedTime != nil {
			fmt.Fprintf(out, "  Estimate:    %s\n", formatDuration(*task.EstimatedTime))
		}
		if task.DueDate != nil {
			fmt.Fprintf(out, "  Due:         %s\n", *task.DueDate)
		}
		if len(task.Tags) > 0 {
			fmt.Fprintf(out, "  Tags:        %s\n", strings.Join(task.Tags, ", "))
		}
		if task.CompletedAt != nil {
			fmt.Fprintf(out, "  Completed:   %s\n", *task.CompletedAt)
		}
		fmt.Fprintf(out, "  Created:     %s\n", task.CreatedAt)
		return nil
	},
}

func formatStatus(status string) string {
	switch status {
	case "pending":
		return "Pending"
	case "in_progress":
		return "In Progress"
	case "completed":
		return "Completed"
	default:
		return status
	}
}

func formatPriority(priority string) string {
	switch priority {
	case "low":
		return "Low"
	case "medium":
		return "Medium"
	case "high":
		return "High"
	case "urgent":
		return "Urgent"
	default:
		return priority
	}
}

func formatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}
