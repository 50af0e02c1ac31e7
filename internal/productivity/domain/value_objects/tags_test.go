package value_objects_test

import (
	"testing"

	"github.com/felixgeelhaar/taskpilot/internal/productivity/domain/value_objects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTags_Serialize(t *testing.T) {
	raw, err := value_objects.Tags(nil).Serialize()
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	raw, err = value_objects.NewTags([]string{"home", "errand"}).Serialize()
	require.NoError(t, err)
	assert.Equal(t, `["home","errand"]`, raw)
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", []string{}},
		{"json list", `["a","b"]`, []string{"a", "b"}},
		{"empty json list", "[]", []string{}},
		{"single quoted list", "['work', 'deep focus']", []string{"work", "deep focus"}},
		{"garbage", "not tags", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, value_objects.ParseTags(tt.raw).Strings())
		})
	}
}

func TestNewTags_Copies(t *testing.T) {
	labels := []string{"x"}
	tags := value_objects.NewTags(labels)
	labels[0] = "y"

	assert.Equal(t, []string{"x"}, tags.Strings())
}
