package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI runs the program with stdin and returns stdout, stderr and the error.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command("go", append([]string{"run", "../../main.go"}, args...)...)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// TestEndToEnd_SampleDocument flattens the sample movie document and compares
// it with the expected output file
func TestEndToEnd_SampleDocument(t *testing.T) {
	input, err := os.ReadFile("../../testdata/samples/movie.json")
	require.NoError(t, err)
	expected, err := os.ReadFile("../../testdata/samples/movie.flat.json")
	require.NoError(t, err)

	stdout, stderr, err := runCLI(t, string(input), "--quiet")
	require.NoError(t, err, "CLI command failed: %s", stderr)

	assert.Equal(t, string(expected), stdout)
}

// TestEndToEnd_EchoAndDivider checks the default output layout: the input
// document, the divider, then the flattened document
func TestEndToEnd_EchoAndDivider(t *testing.T) {
	stdout, stderr, err := runCLI(t, `{"a": [["b", "c"], {"d": "e"}, ["f", "g"]]}`)
	require.NoError(t, err, "CLI command failed: %s", stderr)

	parts := strings.Split(stdout, "\n\n===================\n\n")
	require.Len(t, parts, 2, "output: %s", stdout)

	assert.JSONEq(t, `{"a": [["b", "c"], {"d": "e"}, ["f", "g"]]}`, parts[0])
	assert.JSONEq(t, `{"a": ["b", "c", "f", "g"], "a.d": ["e"]}`, parts[1])
}

// TestEndToEnd_FileInputOutput reads from a file and writes to another one
func TestEndToEnd_FileInputOutput(t *testing.T) {
	tempDir := t.TempDir()

	jsonFile := filepath.Join(tempDir, "input.json")
	err := os.WriteFile(jsonFile, []byte(`{"user": {"name": "Ada", "emails": ["a@x.io", "b@x.io"]}}`), 0o644)
	require.NoError(t, err)
	outputFile := filepath.Join(tempDir, "output.json")

	_, stderr, err := runCLI(t, "", "-i", jsonFile, "-o", outputFile, "-Q")
	require.NoError(t, err, "CLI command failed: %s", stderr)
	assert.Contains(t, stderr, "Flattened JSON written to")

	content, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.JSONEq(t, `{"user.name": ["Ada"], "user.emails": ["a@x.io", "b@x.io"]}`, string(content))
}

// TestEndToEnd_Options exercises the flags that shape the output
func TestEndToEnd_Options(t *testing.T) {
	input := `{"data": {"userInfo": {"firstName": "Ada", "lastName": "Lovelace"}}, "ignored": true}`

	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{
			name:     "separator",
			args:     []string{"-Q", "-s", "_"},
			expected: `{"data_userInfo_firstName": ["Ada"], "data_userInfo_lastName": ["Lovelace"], "ignored": true}`,
		},
		{
			name:     "key case",
			args:     []string{"-Q", "--key-case", "snake"},
			expected: `{"data.user_info.first_name": ["Ada"], "data.user_info.last_name": ["Lovelace"], "ignored": true}`,
		},
		{
			name:     "query",
			args:     []string{"-Q", "-q", "$.data.userInfo"},
			expected: `{"firstName": "Ada", "lastName": "Lovelace"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := runCLI(t, input, tt.args...)
			require.NoError(t, err, "CLI command failed: %s", stderr)
			assert.JSONEq(t, tt.expected, stdout)
		})
	}
}

// TestEndToEnd_YAMLOutput renders the result as YAML
func TestEndToEnd_YAMLOutput(t *testing.T) {
	stdout, stderr, err := runCLI(t, `{"a": {"b": 1, "c": "2"}}`, "-Q", "-F", "yaml")
	require.NoError(t, err, "CLI command failed: %s", stderr)

	assert.Contains(t, stdout, "a.b:")
	assert.Contains(t, stdout, "- 1")
	assert.Contains(t, stdout, `- "2"`)
}

// TestEndToEnd_ConfigFile picks settings up from an explicit config file
func TestEndToEnd_ConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "jsonflat.yml")
	err := os.WriteFile(configFile, []byte("separator: \"::\"\noutput:\n  echo_input: false\n"), 0o644)
	require.NoError(t, err)

	stdout, stderr, err := runCLI(t, `{"a": {"b": true}}`, "-c", configFile)
	require.NoError(t, err, "CLI command failed: %s", stderr)
	assert.JSONEq(t, `{"a::b": [true]}`, stdout)
}

// TestEndToEnd_Errors checks that bad input fails without writing to stdout
func TestEndToEnd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		args    []string
		errPart string
	}{
		{name: "invalid JSON", input: `{"a": }`, errPart: "JSON parsing error"},
		{name: "array root", input: `[1, 2]`, errPart: "expected an object"},
		{name: "multiple values", input: `{} {}`, errPart: "multiple JSON values"},
		{name: "no query match", input: `{"a": 1}`, args: []string{"-q", "$.b"}, errPart: "Query error"},
		{name: "bad key case", input: `{"a": 1}`, args: []string{"--key-case", "shouting"}, errPart: "Configuration error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := runCLI(t, tt.input, tt.args...)
			require.Error(t, err)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, tt.errPart)
		})
	}
}

// TestEndToEnd_LargeDocument flattens a generated document and checks that
// every leaf ends up in the output
func TestEndToEnd_LargeDocument(t *testing.T) {
	doc := generateNestedJSON(4, 4)
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	stdout, stderr, err := runCLI(t, string(data), "-Q")
	require.NoError(t, err, "CLI command failed: %s", stderr)

	var flat map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &flat))

	// 4^4 leaf objects with 3 fields each
	assert.Len(t, flat, 256*3)
	for key, value := range flat {
		assert.Len(t, value, 1, "key %s", key)
	}
}

// generateNestedJSON creates a nested JSON structure depth levels deep with
// width children per level
func generateNestedJSON(depth int, width int) map[string]interface{} {
	if depth <= 0 {
		return map[string]interface{}{
			"leaf_value": "data",
			"count":      42,
			"enabled":    true,
		}
	}

	result := make(map[string]interface{})
	for i := 0; i < width; i++ {
		key := fmt.Sprintf("nested_%d_%d", depth, i)
		result[key] = generateNestedJSON(depth-1, width)
	}
	return result
}
