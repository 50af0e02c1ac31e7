package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	insightsQueries "github.com/felixgeelhaar/taskpilot/internal/insights/application/queries"
)

var statsDays int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show productivity statistics",
	Long: `Display the task overview and the daily productivity history.

Examples:
  taskpilot stats              # Overview and the last 7 days
  taskpilot stats --days 30    # Overview and the last 30 days`,
	Aliases: []string{"insights"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		if app.GetOverviewHandler == nil || app.GetProductivityHandler == nil {
			return fmt.Errorf("stats handlers not configured")
		}

		ctx := cmd.Context()
		overview, err := app.GetOverviewHandler.Handle(ctx)
		if err != nil {
			return fmt.Errorf("failed to load overview: %w", err)
		}
		days, err := app.GetProductivityHandler.Handle(ctx, insightsQueries.GetProductivityQuery{Days: statsDays})
		if err != nil {
			return fmt.Errorf("failed to load productivity: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Overview")
		fmt.Fprintln(out, strings.Repeat("=", 40))
		fmt.Fprintf(out, "  Total:            %d\n", overview.TotalTasks)
		fmt.Fprintf(out, "  Pending:          %d (urgent %d, high %d)\n",
			overview.Pending, overview.UrgentPending, overview.HighPending)
		fmt.Fprintf(out, "  In progress:      %d\n", overview.InProgress)
		fmt.Fprintf(out, "  Completed:        %d (%d this week)\n", overview.Completed, overview.CompletedThisWeek)
		fmt.Fprintf(out, "  Completion rate:  %.1f%%\n", overview.CompletionRate)

		fmt.Fprintln(out)
		fmt.Fprintf(out, "Last %d days\n", statsDays)
		fmt.Fprintln(out, strings.Repeat("=", 40))
		if len(days) == 0 {
			fmt.Fprintln(out, "  No activity recorded.")
			return nil
		}
		fmt.Fprintf(out, "  %-10s %7s %9s %6s %6s\n", "date", "created", "completed", "min", "focus")
		for _, d := range days {
			fmt.Fprintf(out, "  %-10s %7d %9d %6d %6.1f\n",
				d.Date, d.TasksCreated, d.TasksCompleted, d.TotalTimeSpent, d.FocusScore)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVarP(&statsDays, "days", "d", insightsQueries.DefaultProductivityDays, "days of history to show")
	rootCmd.AddCommand(statsCmd)
}
