package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mcncl/jsonflat/internal/models"
	"gopkg.in/yaml.v3"
)

// Format names an output encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DefaultIndent is used when Options.Indent is empty
const DefaultIndent = "  "

// ParseFormat maps a format name to a Format. The empty string means JSON.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q, expected json or yaml", name)
	}
}

// Options configures a Formatter
type Options struct {
	Format Format
	Indent string
}

// Formatter pretty-prints JSON objects
type Formatter struct {
	format Format
	indent string
}

// NewFormatter creates a Formatter producing two-space indented JSON
func NewFormatter() *Formatter {
	return &Formatter{format: FormatJSON, indent: DefaultIndent}
}

// NewFormatterWithOptions creates a Formatter from opts, filling in defaults
func NewFormatterWithOptions(opts Options) *Formatter {
	f := NewFormatter()
	if opts.Format != "" {
		f.format = opts.Format
	}
	if opts.Indent != "" {
		f.indent = opts.Indent
	}
	return f
}

// Format renders obj with keys in sorted order. Numbers are written exactly
// as they were read.
func (f *Formatter) Format(obj models.JSONObject) (string, error) {
	switch f.format {
	case FormatJSON:
		return f.formatJSON(obj)
	case FormatYAML:
		return f.formatYAML(obj)
	default:
		return "", fmt.Errorf("unknown output format %q", f.format)
	}
}

func (f *Formatter) formatJSON(obj models.JSONObject) (string, error) {
	if obj == nil {
		obj = models.JSONObject{}
	}
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", f.indent)
	if err := encoder.Encode(obj); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func (f *Formatter) formatYAML(obj models.JSONObject) (string, error) {
	node, err := toYAMLNode(obj)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(len(f.indent))
	if err := encoder.Encode(node); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// toYAMLNode builds the node tree by hand so that json.Number keeps its
// numeric tag instead of being quoted as a string.
func toYAMLNode(v models.JSONValue) (*yaml.Node, error) {
	switch val := v.(type) {
	case models.JSONObject:
		return mappingNode(val)
	case map[string]interface{}:
		return mappingNode(models.JSONObject(val))
	case models.JSONArray:
		return sequenceNode(val)
	case []interface{}:
		return sequenceNode(models.JSONArray(val))
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprintf("%t", val)}, nil
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(val.String(), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: val.String()}, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: val}, nil
	case int, int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(val)}, nil
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: fmt.Sprint(val)}, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
}

func mappingNode(obj models.JSONObject) (*yaml.Node, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range keys {
		value, err := toYAMLNode(obj[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			value,
		)
	}
	return node, nil
}

func sequenceNode(arr models.JSONArray) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for i, elem := range arr {
		value, err := toYAMLNode(elem)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		node.Content = append(node.Content, value)
	}
	return node, nil
}
