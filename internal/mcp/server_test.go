package mcp

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/mcp-go/middleware"
	"github.com/felixgeelhaar/mcp-go/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/taskpilot/internal/app"
	"github.com/felixgeelhaar/taskpilot/pkg/config"
)

func newContainer(t *testing.T) *app.Container {
	t.Helper()
	cfg := &config.Config{
		AppEnv:        "test",
		SQLitePath:    filepath.Join(t.TempDir(), "mcp.db"),
		StatsCacheTTL: time.Second,
	}
	container, err := app.NewContainer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(container.Close)
	return container
}

func TestNewCLIApp(t *testing.T) {
	container := newContainer(t)

	cliApp := NewCLIApp(container)
	require.NotNil(t, cliApp)
	assert.NotNil(t, cliApp.CreateTaskHandler)
	assert.NotNil(t, cliApp.SmartSortEngine)
	assert.Same(t, container.Health, cliApp.Health)
}

func TestNewServer_RegistersTools(t *testing.T) {
	srv, err := NewServer(NewCLIApp(newContainer(t)), nil)
	require.NoError(t, err)

	tc := testutil.NewTestClient(t, srv)
	defer tc.Close()

	tools, err := tc.ListTools()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(tools), 9)
}

func TestNewServer_RequiresApp(t *testing.T) {
	_, err := NewServer(nil, nil)
	assert.EqualError(t, err, "CLI app is required")
}

func TestServe_RequiresConfig(t *testing.T) {
	err := Serve(context.Background(), nil, nil, nil)
	assert.EqualError(t, err, "config is required")
}

func TestFieldsToArgs(t *testing.T) {
	args := fieldsToArgs([]middleware.Field{{Key: "tool", Value: "tasks.list"}, {Key: "ms", Value: 3}})
	assert.Equal(t, []any{"tool", "tasks.list", "ms", 3}, args)
}
