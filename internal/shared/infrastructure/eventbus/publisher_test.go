package eventbus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopPublisher(t *testing.T) {
	p := NewNoopPublisher(nil)

	assert.NoError(t, p.Publish(context.Background(), "taskpilot.task.created", []byte(`{}`)))
	assert.NoError(t, p.Close())
}

func TestNewRabbitMQPublisher_InvalidURL(t *testing.T) {
	_, err := NewRabbitMQPublisher("not-a-url", "", nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to RabbitMQ")
}
