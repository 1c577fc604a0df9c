// Package flattener rewrites nested JSON objects into a single-level object
// whose keys are separator-joined paths. Values that land on the same path are
// collected into an array in arrival order instead of overwriting each other.
package flattener

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/mcncl/jsonflat/internal/models"
)

// DefaultSeparator joins the segments of a flattened key.
const DefaultSeparator = "."

// KeyCase selects how object keys are rewritten before they become path segments.
type KeyCase string

const (
	KeyCaseNone       KeyCase = "none"
	KeyCaseSnake      KeyCase = "snake"
	KeyCaseCamel      KeyCase = "camel"
	KeyCaseLowerCamel KeyCase = "lower_camel"
	KeyCaseKebab      KeyCase = "kebab"
)

// KeyCases lists every supported KeyCase.
var KeyCases = []KeyCase{KeyCaseNone, KeyCaseSnake, KeyCaseCamel, KeyCaseLowerCamel, KeyCaseKebab}

// Valid reports whether c is a known key case. The empty value means none.
func (c KeyCase) Valid() bool {
	if c == "" {
		return true
	}
	for _, known := range KeyCases {
		if c == known {
			return true
		}
	}
	return false
}

// Options configures a Flattener.
type Options struct {
	Separator string
	KeyCase   KeyCase
}

// Flattener flattens JSON objects. It holds no state between calls and is
// safe for concurrent use.
type Flattener struct {
	separator string
	keyCase   KeyCase
}

// NewFlattener creates a Flattener with the default "." separator and no key casing.
func NewFlattener() *Flattener {
	return &Flattener{separator: DefaultSeparator, keyCase: KeyCaseNone}
}

// NewFlattenerWithOptions creates a Flattener from opts, filling in defaults
// for empty fields.
func NewFlattenerWithOptions(opts Options) (*Flattener, error) {
	f := NewFlattener()
	if opts.Separator != "" {
		f.separator = opts.Separator
	}
	if opts.KeyCase != "" {
		if !opts.KeyCase.Valid() {
			return nil, fmt.Errorf("unknown key case %q", opts.KeyCase)
		}
		f.keyCase = opts.KeyCase
	}
	return f, nil
}

// Flatten flattens obj with the default options.
func Flatten(obj models.JSONObject) models.JSONObject {
	return NewFlattener().Flatten(obj)
}

// Flatten returns a new object holding every scalar of obj exactly once.
// Nested objects become separator-joined keys, nested arrays are spliced into
// the array of the key that owns them, and colliding values are merged with
// Merge. obj itself is not modified.
func (f *Flattener) Flatten(obj models.JSONObject) models.JSONObject {
	result, _ := f.FlattenWithStats(obj)
	return result
}

// FlattenWithStats is Flatten that also reports what the pass did.
func (f *Flattener) FlattenWithStats(obj models.JSONObject) (models.JSONObject, Stats) {
	p := &pass{Flattener: f}
	result := p.flattenObject(obj, 1)
	p.stats.Keys = len(result)
	for _, v := range result {
		if arr, ok := asArray(v); ok {
			p.stats.Scalars += len(arr)
		} else {
			p.stats.Scalars++
		}
	}
	return result, p.stats
}

// extraction is a nested object waiting to be merged under prefix.
type extraction struct {
	prefix string
	object models.JSONObject
}

// pass carries the counters of a single Flatten call.
type pass struct {
	*Flattener
	stats Stats
}

// flattenObject builds the flat form of obj in two phases. Values that stay
// at their own key (scalars and the scalars of arrays) are written first, in
// key order. Nested objects are then extracted in key order and, within an
// array, left to right, so their leaves always land after the values that
// were already present at the same path.
func (p *pass) flattenObject(obj models.JSONObject, depth int) models.JSONObject {
	if depth > p.stats.MaxDepth {
		p.stats.MaxDepth = depth
	}

	result := make(models.JSONObject, len(obj))
	var pending []extraction

	for _, key := range sortedKeys(obj) {
		name := p.caseKey(key)
		value := obj[key]

		if nested, ok := asObject(value); ok {
			pending = append(pending, extraction{prefix: name, object: nested})
			continue
		}
		if arr, ok := asArray(value); ok {
			kept := p.walkArray(name, arr, nil, &pending, depth+1)
			if len(kept) > 0 {
				p.record(mergeInto(result, name, kept))
			}
			continue
		}
		p.record(mergeInto(result, name, value))
	}

	for _, e := range pending {
		p.mergeObjectInto(result, e.prefix, e.object, depth+1)
	}
	return result
}

// walkArray classifies every element of arr once. Scalars are appended to
// kept, nested arrays are walked in place so their scalars keep their
// position, and objects are queued for extraction under key.
func (p *pass) walkArray(key string, arr models.JSONArray, kept models.JSONArray, pending *[]extraction, depth int) models.JSONArray {
	if depth > p.stats.MaxDepth {
		p.stats.MaxDepth = depth
	}
	for _, elem := range arr {
		if nested, ok := asObject(elem); ok {
			*pending = append(*pending, extraction{prefix: key, object: nested})
			continue
		}
		if inner, ok := asArray(elem); ok {
			kept = p.walkArray(key, inner, kept, pending, depth+1)
			continue
		}
		kept = append(kept, elem)
	}
	return kept
}

// mergeObjectInto flattens obj and merges each of its leaves into target
// under prefix. Leaves always arrive as arrays.
func (p *pass) mergeObjectInto(target models.JSONObject, prefix string, obj models.JSONObject, depth int) {
	p.stats.Extracted++
	flat := p.flattenObject(obj, depth)
	for _, key := range sortedKeys(flat) {
		p.record(mergeInto(target, prefix+p.separator+key, wrap(flat[key])))
	}
}

func (p *pass) record(collided bool) {
	if collided {
		p.stats.Collisions++
	}
}

// caseKey rewrites each separator-delimited segment of key so that keys which
// are already flat keep their structure.
func (f *Flattener) caseKey(key string) string {
	if f.keyCase == KeyCaseNone || f.keyCase == "" {
		return key
	}
	segments := strings.Split(key, f.separator)
	for i, segment := range segments {
		switch f.keyCase {
		case KeyCaseSnake:
			segments[i] = strcase.ToSnake(segment)
		case KeyCaseCamel:
			segments[i] = strcase.ToCamel(segment)
		case KeyCaseLowerCamel:
			segments[i] = strcase.ToLowerCamel(segment)
		case KeyCaseKebab:
			segments[i] = strcase.ToKebab(segment)
		}
	}
	return strings.Join(segments, f.separator)
}

func sortedKeys(obj models.JSONObject) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
