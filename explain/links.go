package explain

import (
	"errors"
	"strings"
	"time"

	"github.com/Lzww0608/typeid"
)

var (
	errSingleClose   = errors.New("single '}' encountered in format string")
	errUnclosedField = errors.New("expected '}' before end of string")
	errNestedField   = errors.New("unexpected '{' in field name")
	errEmptyField    = errors.New("format string contains positional fields")
)

// renderLink expands {id}, {prefix}, {suffix}, {uuid} and {created_at} in
// tmpl. "{{" and "}}" are literal braces and unknown placeholders are kept
// as written. Unbalanced braces are an error.
func renderLink(tmpl string, tid typeid.TypeID, createdAt *time.Time) (string, error) {
	values := map[string]string{
		"id":         tid.String(),
		"prefix":     tid.Prefix(),
		"suffix":     tid.Suffix(),
		"uuid":       tid.UUID().String(),
		"created_at": formatCreatedAt(createdAt),
	}

	var b strings.Builder
	b.Grow(len(tmpl))
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch {
		case c == '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", errSingleClose
		case c != '{':
			b.WriteByte(c)
			continue
		}

		if i+1 < len(tmpl) && tmpl[i+1] == '{' {
			b.WriteByte('{')
			i++
			continue
		}
		end := strings.IndexAny(tmpl[i+1:], "{}")
		if end < 0 {
			return "", errUnclosedField
		}
		end += i + 1
		if tmpl[end] == '{' {
			return "", errNestedField
		}
		name := tmpl[i+1 : end]
		if name == "" {
			return "", errEmptyField
		}
		if v, ok := values[name]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(tmpl[i : end+1])
		}
		i = end
	}
	return b.String(), nil
}
