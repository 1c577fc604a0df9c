// Package query selects the object to flatten from a decoded JSON document
// using RFC 9535 JSONPath expressions.
package query

import (
	"fmt"

	"github.com/mcncl/jsonflat/internal/errors"
	"github.com/theory/jsonpath"
)

// Selector is a compiled JSONPath expression.
type Selector struct {
	expr string
	path *jsonpath.Path
}

// Compile parses expr into a Selector.
func Compile(expr string) (*Selector, error) {
	if expr == "" {
		return nil, errors.NewQueryError("JSONPath expression is empty", nil)
	}
	path, err := jsonpath.Parse(expr)
	if err != nil {
		return nil, errors.NewQueryError(fmt.Sprintf("invalid JSONPath %s", expr), err)
	}
	return &Selector{expr: expr, path: path}, nil
}

// String returns the source expression.
func (s *Selector) String() string {
	return s.expr
}

// Select returns the single value matched in doc. doc must be made of the
// plain map[string]interface{} and []interface{} values produced by
// encoding/json. Matching nothing, or more than one node, is an error.
func (s *Selector) Select(doc interface{}) (interface{}, error) {
	nodes := s.path.Select(doc)
	switch len(nodes) {
	case 0:
		return nil, errors.NewQueryError(fmt.Sprintf("%s matched no value", s.expr), errors.ErrNoMatch)
	case 1:
		return nodes[0], nil
	default:
		return nil, errors.NewQueryError(
			fmt.Sprintf("%s matched %d values, expected exactly one", s.expr, len(nodes)),
			errors.ErrAmbiguousMatch,
		)
	}
}

// Select compiles expr and applies it to doc.
func Select(doc interface{}, expr string) (interface{}, error) {
	s, err := Compile(expr)
	if err != nil {
		return nil, err
	}
	return s.Select(doc)
}
