package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest what to work on next",
	Long: `Show the advisory suggestions computed from your pending tasks:
urgent deadlines, quick wins, focus time, category focus and a
motivational quote.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		if app.ListPendingHandler == nil || app.SuggestionEngine == nil {
			return fmt.Errorf("suggestion engine not configured")
		}

		pending, err := app.ListPendingHandler.Handle(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load pending tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, s := range app.SuggestionEngine.Suggest(pending, app.Now()) {
			fmt.Fprintf(out, "%s %s\n", s.Icon, s.Title)
			fmt.Fprintf(out, "   %s\n", s.Message)
		}
		return nil
	},
}

var sortCmd = &cobra.Command{
	Use:   "sort",
	Short: "List pending tasks by smart-sort score",
	Long: `List pending tasks ordered by the smart-sort score: priority weight
plus a due-date bonus plus a quick-win bonus. Use --verbose to see how
each score was computed.`,
	Aliases: []string{"next"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		if app.ListPendingHandler == nil || app.SmartSortEngine == nil {
			return fmt.Errorf("smart sort not configured")
		}

		pending, err := app.ListPendingHandler.Handle(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load pending tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(pending) == 0 {
			fmt.Fprintln(out, "No pending tasks.")
			return nil
		}
		for i, scored := range app.SmartSortEngine.Sort(pending, app.Now()) {
			fmt.Fprintf(out, "%2d. [%3d] #%d %s\n", i+1, scored.Score, scored.Task.ID(), scored.Task.Title())
			if Verbose() {
				fmt.Fprintf(out, "         %s\n", scored.Explanation)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(sortCmd)
}
