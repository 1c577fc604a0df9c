package flattener

// Stats describes a single Flatten call.
type Stats struct {
	Keys       int // keys in the flattened result
	Scalars    int // scalar values in the flattened result
	Collisions int // writes to a key that already held a value
	Extracted  int // nested objects merged into a parent
	MaxDepth   int // deepest container visited, the root object counts as 1
}
