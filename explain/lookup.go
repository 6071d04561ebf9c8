package explain

// SchemaLookup resolves a prefix to its registry entry. A missing entry is
// reported with ok=false, never as an error.
type SchemaLookup interface {
	Lookup(prefix string) (schema TypeSchema, ok bool)
}

// LookupFunc adapts a function to SchemaLookup.
type LookupFunc func(prefix string) (TypeSchema, bool)

// Lookup calls f(prefix).
func (f LookupFunc) Lookup(prefix string) (TypeSchema, bool) {
	return f(prefix)
}

// MapLookup is an in-memory SchemaLookup keyed by prefix.
type MapLookup map[string]TypeSchema

// Lookup returns the entry for prefix.
func (m MapLookup) Lookup(prefix string) (TypeSchema, bool) {
	s, ok := m[prefix]
	return s, ok
}
