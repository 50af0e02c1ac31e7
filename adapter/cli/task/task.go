// Package task holds the "taskpilot task" command group.
package task

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskpilot/adapter/cli"
)

// Cmd is the task command group
var Cmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
	Long:  `Add, list, update, complete and delete your tasks.`,
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(startCmd)
	Cmd.AddCommand(doneCmd)
	Cmd.AddCommand(deleteCmd)
}

func currentApp() (*cli.App, error) {
	app := cli.GetApp()
	if app == nil {
		return nil, fmt.Errorf("application not initialized - database connection required")
	}
	return app, nil
}

func parseTaskID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task ID %q", value)
	}
	return id, nil
}
