package flattener

import (
	"testing"

	"github.com/mcncl/jsonflat/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		existing models.JSONValue
		present  bool
		incoming models.JSONValue
		expected models.JSONValue
	}{
		{
			name:     "absent scalar is stored as is",
			incoming: "c",
			expected: "c",
		},
		{
			name:     "absent array is stored as is",
			incoming: models.JSONArray{"c"},
			expected: models.JSONArray{"c"},
		},
		{
			name:     "absent null is stored",
			incoming: nil,
			expected: nil,
		},
		{
			name:     "scalar then scalar becomes a pair",
			existing: "d",
			present:  true,
			incoming: "c",
			expected: models.JSONArray{"d", "c"},
		},
		{
			name:     "scalar then array keeps existing first",
			existing: "d",
			present:  true,
			incoming: models.JSONArray{"c", "e"},
			expected: models.JSONArray{"d", "c", "e"},
		},
		{
			name:     "present null collides like any scalar",
			existing: nil,
			present:  true,
			incoming: models.JSONArray{"c"},
			expected: models.JSONArray{nil, "c"},
		},
		{
			name:     "array then array concatenates",
			existing: models.JSONArray{"a", "b"},
			present:  true,
			incoming: models.JSONArray{"c"},
			expected: models.JSONArray{"a", "b", "c"},
		},
		{
			name:     "array then scalar appends",
			existing: models.JSONArray{"a"},
			present:  true,
			incoming: true,
			expected: models.JSONArray{"a", true},
		},
		{
			name:     "plain slices are treated as arrays",
			existing: []interface{}{"a"},
			present:  true,
			incoming: []interface{}{"b"},
			expected: models.JSONArray{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Merge(tt.existing, tt.present, tt.incoming))
		})
	}
}

func TestMerge_PanicsOnObjects(t *testing.T) {
	assert.Panics(t, func() {
		Merge(nil, false, models.JSONObject{"a": "b"})
	})
	assert.Panics(t, func() {
		Merge(models.JSONObject{"a": "b"}, true, "c")
	})
	assert.Panics(t, func() {
		Merge("c", true, map[string]interface{}{"a": "b"})
	})
}

func TestWrap(t *testing.T) {
	assert.Equal(t, models.JSONArray{"x"}, wrap("x"))
	assert.Equal(t, models.JSONArray{nil}, wrap(nil))
	assert.Equal(t, models.JSONArray{"x", "y"}, wrap(models.JSONArray{"x", "y"}))
}
