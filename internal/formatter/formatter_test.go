package formatter

import (
	"encoding/json"
	"testing"

	"github.com/mcncl/jsonflat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFormat_JSON(t *testing.T) {
	obj := models.JSONObject{
		"id":     "287947",
		"a.b":    models.JSONArray{"c", json.Number("42")},
		"active": true,
		"gone":   nil,
	}

	formatted, err := NewFormatter().Format(obj)
	require.NoError(t, err)

	expectedOutput := `{
  "a.b": [
    "c",
    42
  ],
  "active": true,
  "gone": null,
  "id": "287947"
}`
	assert.Equal(t, expectedOutput, formatted)
}

func TestFormat_JSONKeepsNumbersAndMarkup(t *testing.T) {
	obj := models.JSONObject{
		"price": json.Number("1200.50"),
		"html":  "<b>&</b>",
	}

	formatted, err := NewFormatter().Format(obj)
	require.NoError(t, err)

	assert.Contains(t, formatted, `"price": 1200.50`)
	assert.Contains(t, formatted, `"html": "<b>&</b>"`)
}

func TestFormat_EmptyObject(t *testing.T) {
	formatted, err := NewFormatter().Format(models.JSONObject{})
	require.NoError(t, err)
	assert.Equal(t, "{}", formatted)

	formatted, err = NewFormatter().Format(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", formatted)
}

func TestFormat_CustomIndent(t *testing.T) {
	f := NewFormatterWithOptions(Options{Indent: "\t"})

	formatted, err := f.Format(models.JSONObject{"a": json.Number("1")})
	require.NoError(t, err)
	assert.Equal(t, "{\n\t\"a\": 1\n}", formatted)
}

func TestFormat_YAML(t *testing.T) {
	obj := models.JSONObject{
		"a.b":   models.JSONArray{"c", json.Number("42"), json.Number("1.5")},
		"id":    "287947",
		"flag":  false,
		"empty": nil,
	}

	f := NewFormatterWithOptions(Options{Format: FormatYAML})
	formatted, err := f.Format(obj)
	require.NoError(t, err)

	assert.Contains(t, formatted, `id: "287947"`)
	assert.Contains(t, formatted, "flag: false")
	assert.Contains(t, formatted, "empty: null")

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(formatted), &decoded))
	assert.Equal(t, map[string]interface{}{
		"a.b":   []interface{}{"c", 42, 1.5},
		"id":    "287947",
		"flag":  false,
		"empty": nil,
	}, decoded)
}

func TestFormat_YAMLKeyOrder(t *testing.T) {
	f := NewFormatterWithOptions(Options{Format: FormatYAML})
	formatted, err := f.Format(models.JSONObject{"b": "2", "a": "1", "c": "3"})
	require.NoError(t, err)
	assert.Equal(t, "a: \"1\"\nb: \"2\"\nc: \"3\"", formatted)
}

func TestFormat_YAMLGoNumbers(t *testing.T) {
	f := NewFormatterWithOptions(Options{Format: FormatYAML})
	formatted, err := f.Format(models.JSONObject{
		"count": 3,
		"big":   int64(1553299200),
		"ratio": 0.5,
	})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(formatted), &decoded))
	assert.Equal(t, map[string]interface{}{
		"count": 3,
		"big":   1553299200,
		"ratio": 0.5,
	}, decoded)
}

func TestFormat_UnsupportedValue(t *testing.T) {
	f := NewFormatterWithOptions(Options{Format: FormatYAML})
	_, err := f.Format(models.JSONObject{"ch": make(chan int)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `key "ch"`)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name     string
		expected Format
		wantErr  bool
	}{
		{name: "", expected: FormatJSON},
		{name: "json", expected: FormatJSON},
		{name: "JSON", expected: FormatJSON},
		{name: "yaml", expected: FormatYAML},
		{name: "yml", expected: FormatYAML},
		{name: "toml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, err := ParseFormat(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}
