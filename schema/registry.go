package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Lzww0608/typeid/explain"
)

// SupportedVersion is the only schema_version understood
const SupportedVersion = 1

// Format is the encoding of a registry document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	// FormatAuto tries JSON, then YAML.
	FormatAuto Format = "auto"
)

// Registry is an immutable prefix -> TypeSchema map. It implements
// explain.SchemaLookup.
type Registry struct {
	version  int
	types    map[string]explain.TypeSchema
	source   string
	warnings []string
}

// Lookup returns the entry for prefix
func (r *Registry) Lookup(prefix string) (explain.TypeSchema, bool) {
	if r == nil {
		return explain.TypeSchema{}, false
	}
	s, ok := r.types[prefix]
	return s, ok
}

// Len returns the number of registered prefixes
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.types)
}

// Prefixes returns the registered prefixes in sorted order
func (r *Registry) Prefixes() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.types))
	for p := range r.types {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Version returns the document's schema_version
func (r *Registry) Version() int { return r.version }

// Source describes where the registry was loaded from
func (r *Registry) Source() string { return r.source }

// Warnings lists entries that were skipped while loading
func (r *Registry) Warnings() []string { return r.warnings }

// Parse decodes a registry document.
func Parse(data []byte, format Format) (*Registry, error) {
	doc, err := decode(data, format)
	if err != nil {
		return nil, loadError(CodeReadFailed, "failed to parse schema document", err)
	}
	return build(doc)
}

func decode(data []byte, format Format) (any, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return normalizeYAML(doc), nil
	case FormatAuto, "":
		if doc, err := decodeJSON(data); err == nil {
			return doc, nil
		}
		return decode(data, FormatYAML)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return normalizeJSON(doc), nil
}

// normalizeJSON turns json.Number into int64 or float64 so that documents
// decode to the same shapes as YAML.
func normalizeJSON(v any) any {
	switch v := v.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		f, _ := v.Float64()
		return f
	case map[string]any:
		for k, e := range v {
			v[k] = normalizeJSON(e)
		}
		return v
	case []any:
		for i, e := range v {
			v[i] = normalizeJSON(e)
		}
		return v
	default:
		return v
	}
}

// normalizeYAML rewrites maps with non-string keys, such as {1: gold}, as
// map[string]any so that entries stay JSON encodable.
func normalizeYAML(v any) any {
	switch v := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[fmt.Sprint(k)] = normalizeYAML(e)
		}
		return out
	case map[string]any:
		for k, e := range v {
			v[k] = normalizeYAML(e)
		}
		return v
	case []any:
		for i, e := range v {
			v[i] = normalizeYAML(e)
		}
		return v
	default:
		return v
	}
}

func build(doc any) (*Registry, error) {
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, loadError(CodeInvalidSchema, "schema root must be an object/map", nil)
	}

	rawVersion, ok := root["schema_version"]
	if !ok || rawVersion == nil {
		return nil, loadError(CodeMissingSchemaVersion, "schema missing 'schema_version'", nil)
	}
	version, ok := asInt(rawVersion)
	if !ok {
		return nil, loadError(CodeInvalidSchemaVersion, "'schema_version' must be an integer", nil)
	}
	if version != SupportedVersion {
		return nil, loadError(CodeUnsupportedSchemaVersion,
			fmt.Sprintf("unsupported schema_version=%d, supported: %d", version, SupportedVersion), nil)
	}

	rawTypes, ok := root["types"]
	if !ok || rawTypes == nil {
		return nil, loadError(CodeMissingTypes, "schema missing 'types' map", nil)
	}
	types, ok := rawTypes.(map[string]any)
	if !ok {
		return nil, loadError(CodeInvalidTypes, "'types' must be an object/map", nil)
	}

	reg := &Registry{version: version, types: make(map[string]explain.TypeSchema, len(types))}
	for prefix, rawSpec := range types {
		if prefix == "" {
			reg.warnings = append(reg.warnings, "skipped entry with empty prefix")
			continue
		}
		spec, ok := rawSpec.(map[string]any)
		if !ok {
			reg.warnings = append(reg.warnings, fmt.Sprintf("skipped %q: entry must be an object/map", prefix))
			continue
		}
		reg.types[prefix] = toTypeSchema(prefix, spec)
	}
	sort.Strings(reg.warnings)
	return reg, nil
}

func asInt(v any) (int, bool) {
	switch v := v.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	default:
		return 0, false
	}
}

// toTypeSchema normalizes the common fields of an entry, ignoring values of
// the wrong type, and keeps the full entry as Raw.
func toTypeSchema(prefix string, spec map[string]any) explain.TypeSchema {
	s := explain.TypeSchema{
		Prefix:      prefix,
		Name:        stringField(spec, "name"),
		Description: stringField(spec, "description"),
		OwnerTeam:   stringField(spec, "owner_team"),
		Retention:   stringField(spec, "retention"),
		Raw:         make(map[string]any, len(spec)),
	}
	for k, v := range spec {
		s.Raw[k] = v
	}
	if pii, ok := spec["pii"].(bool); ok {
		s.PII = &pii
	}
	if links, ok := spec["links"].(map[string]any); ok {
		for name, v := range links {
			tmpl, ok := v.(string)
			if !ok {
				continue
			}
			if s.Links == nil {
				s.Links = make(map[string]string, len(links))
			}
			s.Links[name] = tmpl
		}
	}
	return s
}

func stringField(spec map[string]any, key string) string {
	s, _ := spec[key].(string)
	return s
}
