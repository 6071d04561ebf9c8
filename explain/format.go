package explain

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"
)

// Format selects how Render prints explanations.
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ParseFormat maps a user supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatYAML, FormatJSON, FormatTable:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want yaml, json or table)", s)
	}
}

// Render writes exps to w. YAML output is one document per explanation,
// JSON output is an object for a single explanation and an array otherwise.
func Render(w io.Writer, format Format, exps ...Explanation) error {
	switch format {
	case FormatYAML:
		return renderYAML(w, exps)
	case FormatJSON:
		return renderJSON(w, exps)
	case FormatTable:
		return renderTable(w, exps)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func renderYAML(w io.Writer, exps []Explanation) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, exp := range exps {
		if err := enc.Encode(exp); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
	}
	return enc.Close()
}

func renderJSON(w io.Writer, exps []Explanation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	var v any = exps
	if len(exps) == 1 {
		v = exps[0]
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func renderTable(w io.Writer, exps []Explanation) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tVALID\tPREFIX\tUUID\tCREATED_AT\tSORTABLE\tNOTE")
	for _, exp := range exps {
		p := exp.Parsed
		created := "-"
		if p.CreatedAt != nil {
			created = p.CreatedAt.Format(time.RFC3339Nano)
		}
		sortable := "-"
		if p.Sortable != nil {
			sortable = strconv.FormatBool(*p.Sortable)
		}
		fmt.Fprintf(tw, "%s\t%t\t%s\t%s\t%s\t%s\t%s\n",
			exp.ID, exp.Valid, orDash(p.Prefix), orDash(p.UUID), created, sortable, note(exp))
	}
	return tw.Flush()
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func note(exp Explanation) string {
	switch {
	case !exp.Valid:
		return exp.Reason()
	case exp.Schema.Found && exp.Schema.Type.Name != "":
		return exp.Schema.Type.Name
	case exp.Schema.Found:
		return "registered"
	default:
		return "unknown prefix"
	}
}
