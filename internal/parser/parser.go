package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	stderrors "errors" // Standard errors package
	"github.com/mcncl/jsonflat/internal/errors" // Custom errors package
	"github.com/mcncl/jsonflat/internal/models"
	"github.com/mcncl/jsonflat/internal/query"
)

// DefaultMaxDepth bounds container nesting. The flattener recurses once per
// level, so documents deeper than this are rejected up front.
const DefaultMaxDepth = 512

// Options configures a Parser.
type Options struct {
	// MaxDepth is the deepest container nesting accepted. Zero means DefaultMaxDepth.
	MaxDepth int
	// Query, when set, selects the object to return from the decoded document.
	Query *query.Selector
}

// Parser reads a single JSON document whose root, or the value selected by
// its query, is an object.
type Parser struct {
	maxDepth int
	query    *query.Selector
}

// NewParser creates a Parser from opts.
func NewParser(opts Options) *Parser {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Parser{maxDepth: maxDepth, query: opts.Query}
}

// Parse reads a document from reader with default options.
func Parse(reader io.Reader) (models.Document, error) {
	return NewParser(Options{}).Parse(reader)
}

// ParseString parses a document from a string with default options.
func ParseString(jsonString string) (models.Document, error) {
	return NewParser(Options{}).ParseString(jsonString)
}

// ParseFile parses a document from a file with default options.
func ParseFile(filePath string) (models.Document, error) {
	return NewParser(Options{}).ParseFile(filePath)
}

// Parse converts JSON data from an io.Reader into a Document
func (p *Parser) Parse(reader io.Reader) (models.Document, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber() // Numbers stay json.Number so they are written back verbatim

	var rootValue interface{}
	if err := decoder.Decode(&rootValue); err != nil {
		if stderrors.Is(err, io.EOF) { // nothing was decoded
			return models.Document{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		var syntaxError *json.SyntaxError
		if stderrors.As(err, &syntaxError) {
			return models.Document{}, errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
				errors.ErrInvalidJSON,
			)
		}
		if stderrors.Is(err, io.ErrUnexpectedEOF) {
			return models.Document{}, errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
		}
		return models.Document{}, errors.NewParsingError("failed to decode JSON", err)
	}

	// Only whitespace may follow the document.
	if err := checkTrailing(io.MultiReader(decoder.Buffered(), reader)); err != nil {
		return models.Document{}, err
	}

	if p.query != nil {
		selected, err := p.query.Select(rootValue)
		if err != nil {
			return models.Document{}, err
		}
		rootValue = selected
	}

	raw, ok := rootValue.(map[string]interface{})
	if !ok {
		return models.Document{}, errors.NewParsingError(
			fmt.Sprintf("top-level value is %s, expected an object", describe(rootValue)),
			errors.ErrNotObject,
		)
	}

	root, depth, err := p.normalizeObject(raw, 1)
	if err != nil {
		return models.Document{}, err
	}
	return models.Document{Root: root, Depth: depth}, nil
}

// ParseString parses JSON from a string
func (p *Parser) ParseString(jsonString string) (models.Document, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.Document{}, errors.NewInputError("input string is empty or consists only of whitespace", errors.ErrEmptyInput)
	}
	return p.Parse(strings.NewReader(jsonString))
}

// ParseFile parses JSON from a file path
func (p *Parser) ParseFile(filePath string) (models.Document, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.Document{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Document{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return p.Parse(file)
}

// normalizeObject converts raw decoded containers into model types and
// reports the deepest nesting below and including obj.
func (p *Parser) normalizeObject(raw map[string]interface{}, depth int) (models.JSONObject, int, error) {
	if depth > p.maxDepth {
		return nil, 0, errors.NewParsingError(
			fmt.Sprintf("nesting depth exceeds the limit of %d", p.maxDepth),
			errors.ErrTooDeep,
		)
	}
	obj := make(models.JSONObject, len(raw))
	deepest := depth
	for key, value := range raw {
		normalized, d, err := p.normalizeValue(value, depth)
		if err != nil {
			return nil, 0, err
		}
		obj[key] = normalized
		deepest = max(deepest, d)
	}
	return obj, deepest, nil
}

func (p *Parser) normalizeArray(raw []interface{}, depth int) (models.JSONArray, int, error) {
	if depth > p.maxDepth {
		return nil, 0, errors.NewParsingError(
			fmt.Sprintf("nesting depth exceeds the limit of %d", p.maxDepth),
			errors.ErrTooDeep,
		)
	}
	arr := make(models.JSONArray, len(raw))
	deepest := depth
	for i, value := range raw {
		normalized, d, err := p.normalizeValue(value, depth)
		if err != nil {
			return nil, 0, err
		}
		arr[i] = normalized
		deepest = max(deepest, d)
	}
	return arr, deepest, nil
}

// normalizeValue normalizes a value found inside a container at parentDepth.
func (p *Parser) normalizeValue(value interface{}, parentDepth int) (models.JSONValue, int, error) {
	switch v := value.(type) {
	case map[string]interface{}:
		return p.normalizeObject(v, parentDepth+1)
	case []interface{}:
		return p.normalizeArray(v, parentDepth+1)
	default:
		return v, parentDepth, nil // string, json.Number, bool, nil
	}
}

// checkTrailing fails unless rest holds nothing but whitespace.
func checkTrailing(rest io.Reader) error {
	data, err := io.ReadAll(rest)
	if err != nil {
		return errors.NewInputError("failed to read input", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	var trailingValue interface{}
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&trailingValue); err != nil {
		return errors.NewParsingError("invalid trailing data after first JSON value", errors.ErrInvalidJSON)
	}
	return errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
}

func describe(v interface{}) string {
	switch v.(type) {
	case []interface{}:
		return "an array"
	case string:
		return "a string"
	case json.Number:
		return "a number"
	case bool:
		return "a boolean"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}
