package value_objects_test

import (
	"testing"

	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/value_objects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected value_objects.Priority
		wantErr  bool
	}{
		{"low", "low", value_objects.PriorityLow, false},
		{"medium", "medium", value_objects.PriorityMedium, false},
		{"high", "high", value_objects.PriorityHigh, false},
		{"urgent", "urgent", value_objects.PriorityUrgent, false},
		{"case insensitive", "HIGH", value_objects.PriorityHigh, false},
		{"surrounding space", " urgent ", value_objects.PriorityUrgent, false},
		{"none is not a priority", "none", "", true},
		{"invalid", "invalid", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := value_objects.ParsePriority(tt.input)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, value_objects.ErrInvalidPriority)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestPriority_Weight(t *testing.T) {
	assert.Equal(t, 100, value_objects.PriorityUrgent.Weight())
	assert.Equal(t, 75, value_objects.PriorityHigh.Weight())
	assert.Equal(t, 50, value_objects.PriorityMedium.Weight())
	assert.Equal(t, 25, value_objects.PriorityLow.Weight())
	assert.Equal(t, 50, value_objects.Priority("critical").Weight())
}

func TestPriority_IsValid(t *testing.T) {
	assert.True(t, value_objects.PriorityLow.IsValid())
	assert.False(t, value_objects.Priority("URGENT").IsValid())
	assert.Equal(t, value_objects.PriorityMedium, value_objects.DefaultPriority)
}
