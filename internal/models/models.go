package models

// JSONValue is an alias for any JSON value, so that decoded []interface{} and
// map[string]interface{} convert directly to JSONArray and JSONObject.
// This can be a string, json.Number, boolean, null, object, or array.
type JSONValue = interface{}

// JSONObject represents a JSON object, which is a map of strings to JSONValues.
type JSONObject map[string]JSONValue

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// Document holds a parsed JSON document whose root is an object, ready to be
// flattened.
type Document struct {
	Root  JSONObject
	Depth int // deepest container nesting seen while parsing, the root counts as 1
}

// IsScalar reports whether v is neither an object nor an array.
func IsScalar(v JSONValue) bool {
	switch v.(type) {
	case JSONObject, JSONArray, map[string]interface{}, []interface{}:
		return false
	default:
		return true
	}
}
