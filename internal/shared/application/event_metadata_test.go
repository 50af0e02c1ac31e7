package application

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/taskpilot/internal/shared/domain"
	"github.com/felixgeelhaar/taskpilot/pkg/observability"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type metadataEvent struct {
	domain.BaseEvent
}

func TestNewEventMetadata(t *testing.T) {
	t.Run("uses correlation and request IDs from context", func(t *testing.T) {
		correlationID := uuid.New()
		ctx := observability.WithCorrelationID(context.Background(), correlationID.String())
		ctx = observability.WithRequestID(ctx, "req-123")

		metadata := NewEventMetadata(ctx)

		assert.Equal(t, correlationID, metadata.CorrelationID)
		assert.Equal(t, "req-123", metadata.RequestID)
		assert.NotEqual(t, uuid.Nil, metadata.CausationID)
	})

	t.Run("generates a correlation ID when none is set", func(t *testing.T) {
		metadata1 := NewEventMetadata(context.Background())
		metadata2 := NewEventMetadata(context.Background())

		assert.NotEqual(t, uuid.Nil, metadata1.CorrelationID)
		assert.NotEqual(t, metadata1.CorrelationID, metadata2.CorrelationID)
		assert.Empty(t, metadata1.RequestID)
	})
}

func TestApplyEventMetadata(t *testing.T) {
	first := &metadataEvent{BaseEvent: domain.NewBaseEvent("1", "Task", "taskpilot.task.created")}
	second := &metadataEvent{BaseEvent: domain.NewBaseEvent("1", "Task", "taskpilot.task.updated")}
	metadata := domain.EventMetadata{CorrelationID: uuid.New(), CausationID: uuid.New()}

	ApplyEventMetadata([]domain.DomainEvent{first, second}, metadata)

	assert.Equal(t, metadata, first.Metadata())
	assert.Equal(t, metadata, second.Metadata())
}
