package mcp

import (
	"github.com/felixgeelhaar/taskpilot/adapter/cli"
	"github.com/felixgeelhaar/taskpilot/internal/app"
)

// NewCLIApp creates a CLI application instance backed by the provided container.
func NewCLIApp(container *app.Container) *cli.App {
	cliApp := cli.NewApp(container.APIHandlers())
	cliApp.SetClock(container.Clock)
	cliApp.SetDatabase(container.DBConn)
	if container.Health != nil {
		cliApp.SetHealth(container.Health)
	}
	return cliApp
}
