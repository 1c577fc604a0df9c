package flattener

import (
	"fmt"

	"github.com/mcncl/jsonflat/internal/models"
)

// Merge returns the value a key should hold after incoming is written to it.
// present reports whether the key already held existing.
//
//	absent           -> incoming
//	array  + array   -> existing elements, then incoming elements
//	array  + scalar  -> existing with incoming appended
//	scalar + array   -> [existing, incoming...]
//	scalar + scalar  -> [existing, incoming]
//
// The backing storage of an existing array may be reused.
//
// Objects never reach Merge; they are flattened first. Passing one is a
// programming error and panics.
func Merge(existing models.JSONValue, present bool, incoming models.JSONValue) models.JSONValue {
	mustNotBeObject(incoming)
	if !present {
		return incoming
	}
	mustNotBeObject(existing)

	var merged models.JSONArray
	if arr, ok := asArray(existing); ok {
		merged = arr
	} else {
		merged = models.JSONArray{existing}
	}

	if arr, ok := asArray(incoming); ok {
		return append(merged, arr...)
	}
	return append(merged, incoming)
}

// mergeInto applies Merge to key in target and reports whether the key was
// already present.
func mergeInto(target models.JSONObject, key string, incoming models.JSONValue) bool {
	existing, present := target[key]
	target[key] = Merge(existing, present, incoming)
	return present
}

// wrap returns v as an array, boxing scalars into a one-element array.
func wrap(v models.JSONValue) models.JSONArray {
	if arr, ok := asArray(v); ok {
		return arr
	}
	return models.JSONArray{v}
}

func asArray(v models.JSONValue) (models.JSONArray, bool) {
	switch arr := v.(type) {
	case models.JSONArray:
		return arr, true
	case []interface{}:
		return models.JSONArray(arr), true
	default:
		return nil, false
	}
}

func asObject(v models.JSONValue) (models.JSONObject, bool) {
	switch obj := v.(type) {
	case models.JSONObject:
		return obj, true
	case map[string]interface{}:
		return models.JSONObject(obj), true
	default:
		return nil, false
	}
}

func mustNotBeObject(v models.JSONValue) {
	if _, ok := asObject(v); ok {
		panic(fmt.Sprintf("flattener: cannot collision-merge an object value %v", v))
	}
}
