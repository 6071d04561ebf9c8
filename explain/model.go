package explain

import "time"

// Provenance records where a piece of information came from.
type Provenance string

const (
	ProvenanceDerived  Provenance = "derived_from_id"
	ProvenanceSchema   Provenance = "schema"
	ProvenanceExternal Provenance = "external"
	ProvenanceUnknown  Provenance = "unknown"
)

// ParseError is a recoverable parse or validation failure.
type ParseError struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// Parsed holds the facts extracted from the id string itself, without any
// schema lookup. For an invalid id only Raw, Valid and Errors are set.
type Parsed struct {
	Raw    string       `json:"raw" yaml:"raw"`
	Valid  bool         `json:"valid" yaml:"valid"`
	Errors []ParseError `json:"errors" yaml:"errors"`

	Prefix *string `json:"prefix" yaml:"prefix"`
	Suffix *string `json:"suffix" yaml:"suffix"`
	UUID   *string `json:"uuid" yaml:"uuid"`

	// CreatedAt is only set for UUIDv7 values.
	CreatedAt *time.Time `json:"created_at" yaml:"created_at"`
	// Sortable is nil for invalid ids and false for non time-ordered values.
	Sortable *bool `json:"sortable" yaml:"sortable"`
}

// TypeSchema is the registry entry for one prefix. A handful of common
// attributes are normalized; Raw keeps the full entry.
type TypeSchema struct {
	Prefix      string `json:"prefix" yaml:"prefix"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	OwnerTeam   string `json:"owner_team,omitempty" yaml:"owner_team,omitempty"`
	PII         *bool  `json:"pii,omitempty" yaml:"pii,omitempty"`
	Retention   string `json:"retention,omitempty" yaml:"retention,omitempty"`

	// Links maps a link name to a template such as "https://logs/?q={id}".
	Links map[string]string `json:"links,omitempty" yaml:"links,omitempty"`

	Raw map[string]any `json:"raw,omitempty" yaml:"raw,omitempty"`
}

// SchemaMatch is the result of the schema lookup. Found is false both when
// no lookup was supplied and when the prefix is not registered.
type SchemaMatch struct {
	Found bool        `json:"found" yaml:"found"`
	Type  *TypeSchema `json:"type,omitempty" yaml:"type,omitempty"`
}

// Explanation is the fact record produced for one input string.
//
// Valid=false means the string failed structural parsing. Valid=true with
// Schema.Found=false means the id is well formed but its prefix is unknown.
type Explanation struct {
	ID    string `json:"id" yaml:"id"`
	Valid bool   `json:"valid" yaml:"valid"`

	Parsed Parsed      `json:"parsed" yaml:"parsed"`
	Schema SchemaMatch `json:"schema" yaml:"schema"`

	// Derived holds extra facts computed from the id.
	Derived map[string]any `json:"derived" yaml:"derived"`

	// Links are rendered schema link templates.
	Links map[string]string `json:"links" yaml:"links"`

	Provenance map[string]Provenance `json:"provenance" yaml:"provenance"`
	Warnings   []string              `json:"warnings" yaml:"warnings"`
	Errors     []ParseError          `json:"errors" yaml:"errors"`
}

// Reason returns the first error message, or "" for a valid id.
func (e Explanation) Reason() string {
	if len(e.Errors) == 0 {
		return ""
	}
	return e.Errors[0].Message
}

// Unknown reports whether the id parsed but has no schema entry.
func (e Explanation) Unknown() bool {
	return e.Valid && !e.Schema.Found
}

// AddExternalWarning records a warning raised outside the engine, such as a
// schema that failed to load.
func (e *Explanation) AddExternalWarning(msg string) {
	e.Warnings = append(e.Warnings, msg)
	if e.Provenance == nil {
		e.Provenance = map[string]Provenance{}
	}
	e.Provenance["warnings"] = ProvenanceExternal
}
