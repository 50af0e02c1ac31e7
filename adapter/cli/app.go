package cli

import (
	"time"

	"github.com/felixgeelhaar/taskpilot/adapter/api"
	insightsQueries "github.com/felixgeelhaar/taskpilot/internal/insights/application/queries"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/application/commands"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/application/queries"
	"github.com/felixgeelhaar/taskpilot/internal/productivity/application/services"
	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/taskpilot/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/taskpilot/pkg/observability"
)

// App holds the CLI application dependencies.
type App struct {
	// Task Command Handlers
	CreateTaskHandler *commands.CreateTaskHandler
	UpdateTaskHandler *commands.UpdateTaskHandler
	DeleteTaskHandler *commands.DeleteTaskHandler

	// Query Handlers
	GetTaskHandler         *queries.GetTaskHandler
	ListTasksHandler       *queries.ListTasksHandler
	ListPendingHandler     *queries.ListPendingHandler
	GetOverviewHandler     *queries.GetOverviewHandler
	GetProductivityHandler *insightsQueries.GetProductivityHandler

	// Engines
	SmartSortEngine  *services.SmartSortEngine
	SuggestionEngine *services.SuggestionEngine

	// Serving
	Server          *api.Server
	ShutdownTimeout time.Duration
	OutboxProcessor *outbox.Processor
	OutboxEnabled   bool

	// Operations
	DBConn database.Connection
	Health *observability.HealthRegistry
	Clock  func() time.Time
}

// NewApp creates a CLI application over the handlers the API also serves.
func NewApp(h api.Handlers) *App {
	return &App{
		CreateTaskHandler:      h.CreateTask,
		UpdateTaskHandler:      h.UpdateTask,
		DeleteTaskHandler:      h.DeleteTask,
		GetTaskHandler:         h.GetTask,
		ListTasksHandler:       h.ListTasks,
		ListPendingHandler:     h.ListPending,
		GetOverviewHandler:     h.GetOverview,
		GetProductivityHandler: h.GetProductivity,
		SmartSortEngine:        h.SmartSort,
		SuggestionEngine:       h.Suggestions,
		ShutdownTimeout:        10 * time.Second,
		Clock:                  time.Now,
	}
}

// SetServer attaches the HTTP server started by "serve".
func (a *App) SetServer(server *api.Server, shutdownTimeout time.Duration) {
	a.Server = server
	if shutdownTimeout > 0 {
		a.ShutdownTimeout = shutdownTimeout
	}
}

// SetOutboxProcessor attaches the processor "serve" runs when enabled is set
// or --outbox is given.
func (a *App) SetOutboxProcessor(p *outbox.Processor, enabled bool) {
	a.OutboxProcessor = p
	a.OutboxEnabled = enabled
}

// SetDatabase attaches the connection "migrate" works on.
func (a *App) SetDatabase(conn database.Connection) {
	a.DBConn = conn
}

// SetHealth attaches the registry "health" reports.
func (a *App) SetHealth(registry *observability.HealthRegistry) {
	a.Health = registry
}

// SetClock replaces the wall clock.
func (a *App) SetClock(clock func() time.Time) {
	if clock != nil {
		a.Clock = clock
	}
}

// Now returns the current time according to the app clock.
func (a *App) Now() time.Time {
	if a.Clock == nil {
		return time.Now()
	}
	return a.Clock()
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
