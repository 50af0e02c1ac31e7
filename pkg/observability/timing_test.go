package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeOperation(t *testing.T) {
	metrics := NewInMemoryMetrics()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := TimeOperation(context.Background(), logger, metrics, "task.create", func() error { return nil })
	require.NoError(t, err)

	boom := errors.New("boom")
	err = TimeOperation(context.Background(), logger, metrics, "task.create", func() error { return boom })
	assert.ErrorIs(t, err, boom)

	tag := T("operation", "task.create")
	assert.Equal(t, int64(2), metrics.GetCounter(MetricOperationTotal, tag))
	assert.Equal(t, int64(1), metrics.GetCounter(MetricOperationErrors, tag))
	assert.Len(t, metrics.GetTimings(MetricOperationDuration, tag), 2)
	assert.Contains(t, buf.String(), "operation completed")
	assert.Contains(t, buf.String(), "error=boom")
}

func TestTimeOperation_NilLoggerRecordsMetrics(t *testing.T) {
	metrics := NewInMemoryMetrics()
	boom := errors.New("boom")

	err := TimeOperation(context.Background(), nil, metrics, "task.update", func() error { return boom })

	assert.ErrorIs(t, err, boom)
	tag := T("operation", "task.update")
	assert.Equal(t, int64(1), metrics.GetCounter(MetricOperationTotal, tag))
	assert.Equal(t, int64(1), metrics.GetCounter(MetricOperationErrors, tag))
	assert.Len(t, metrics.GetTimings(MetricOperationDuration, tag), 1)
}

func TestTimeOperationResult_NilCollaborators(t *testing.T) {
	got, err := TimeOperationResult(context.Background(), nil, nil, "noop", func() (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}
