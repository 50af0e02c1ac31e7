package outbox

import (
	"testing"

	"github.com/felixgeelhaar/taskpilot/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEvent is a concrete implementation of DomainEvent for testing.
type testEvent struct {
	domain.BaseEvent
	Data string `json:"data"`
}

func newTestEvent(aggregateID, data string) *testEvent {
	return &testEvent{
		BaseEvent: domain.NewBaseEvent(aggregateID, "TestAggregate", "test.event.created"),
		Data:      data,
	}
}

func TestNewMessage(t *testing.T) {
	t.Run("creates message from domain event", func(t *testing.T) {
		event := newTestEvent("17", "test data")

		msg, err := NewMessage(event)

		require.NoError(t, err)
		require.NotNil(t, msg)
		assert.Equal(t, event.EventID(), msg.EventID)
		assert.Equal(t, "TestAggregate", msg.AggregateType)
		assert.Equal(t, "17", msg.AggregateID)
		assert.Equal(t, "test.event.created", msg.EventType)
		assert.Equal(t, "test.event.created", msg.RoutingKey)
		assert.Equal(t, event.OccurredAt(), msg.CreatedAt)
		assert.Equal(t, int64(0), msg.ID)
		assert.Nil(t, msg.PublishedAt)
		assert.Nil(t, msg.NextRetryAt)
		assert.Equal(t, 0, msg.RetryCount)
		assert.Nil(t, msg.LastError)
		assert.Nil(t, msg.DeadLetteredAt)
	})

	t.Run("serializes event payload to JSON", func(t *testing.T) {
		msg, err := NewMessage(newTestEvent("1", "test payload data"))

		require.NoError(t, err)
		assert.JSONEq(t, `{"data":"test payload data"}`, string(msg.Payload))
	})

	t.Run("serializes event metadata to JSON", func(t *testing.T) {
		event := newTestEvent("1", "test")
		metadata := domain.EventMetadata{
			CorrelationID: uuid.New(),
			CausationID:   uuid.New(),
			RequestID:     "req-9",
		}
		event.SetMetadata(metadata)

		msg, err := NewMessage(event)

		require.NoError(t, err)
		assert.Contains(t, string(msg.Metadata), metadata.CorrelationID.String())
		assert.Contains(t, string(msg.Metadata), "req-9")
	})
}

func TestNewMessages(t *testing.T) {
	events := []domain.DomainEvent{newTestEvent("1", "a"), newTestEvent("2", "b")}

	msgs, err := NewMessages(events)

	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "2", msgs[1].AggregateID)
}

func TestMessage_RetryAfterFailure(t *testing.T) {
	tests := []struct {
		name        string
		retryCount  int
		maxAttempts int
		want        bool
	}{
		{"first failure", 0, 5, true},
		{"attempts left", 3, 5, true},
		{"last attempt", 4, 5, false},
		{"single attempt", 0, 1, false},
		{"already over", 7, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &Message{RetryCount: tt.retryCount}
			assert.Equal(t, tt.want, msg.RetryAfterFailure(tt.maxAttempts))
		})
	}
}
