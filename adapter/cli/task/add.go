package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskpilot/internal/productivity/application/commands"
)

var (
	priority    string
	estimate    int
	description string
	category    string
	dueDate     string
	tags        []string
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Add a new task with a title and optional properties.

Examples:
  taskpilot task add "Complete project report"
  taskpilot task add "Review PR" -p high -e 30
  taskpilot task add "Write docs" --category work --due 2026-12-31 --tag docs`,
	Aliases: []string{"create", "new"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := currentApp()
		if err != nil {
			return err
		}
		if app.CreateTaskHandler == nil {
			return fmt.Errorf("task creation not configured")
		}

		createCmd := commands.CreateTaskCommand{
			Title:       args[0],
			Description: description,
			Priority:    priority,
			Category:    category,
			DueDate:     dueDate,
			Tags:        tags,
		}
		if cmd.Flags().Changed("estimate") {
			createCmd.EstimatedTime = &estimate
		}

		result, err := app.CreateTaskHandler.Handle(cmd.Context(), createCmd)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Task created: #%d\n", result.ID)
		fmt.Fprintf(out, "  title:    %s\n", result.Title)
		fmt.Fprintf(out, "  priority: %s\n", result.Priority)
		if result.EstimatedTime != nil {
			fmt.Fprintf(out, "  estimate: %s\n", formatDuration(*result.EstimatedTime))
		}
		if result.DueDate != nil {
			fmt.Fprintf(out, "  due:      %s\n", *result.DueDate)
		}
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&priority, "priority", "p", "", "task priority (low, medium, high, urgent)")
	addCmd.Flags().IntVarP(&estimate, "estimate", "e", 0, "estimated time in minutes")
	addCmd.Flags().StringVar(&description, "description", "", "task description")
	addCmd.Flags().StringVar(&category, "category", "", "task category")
	addCmd.Flags().StringVar(&dueDate, "due", "", "due date (YYYY-MM-DD or RFC 3339)")
	addCmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
}
