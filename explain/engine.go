package explain

import (
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/Lzww0608/typeid"
)

// CodeInvalidTypeID is the ParseError code for strings that are not TypeIDs.
const CodeInvalidTypeID = "invalid_typeid"

// Engine explains TypeID strings. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	lookup       SchemaLookup
	enableSchema bool
	enableLinks  bool
	workers      int
	logger       *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSchema sets the registry consulted for each prefix.
func WithSchema(lookup SchemaLookup) Option {
	return func(e *Engine) {
		e.lookup = lookup
	}
}

// WithSchemaEnabled turns schema lookup on or off (offline mode).
func WithSchemaEnabled(enabled bool) Option {
	return func(e *Engine) {
		e.enableSchema = enabled
	}
}

// WithLinks turns rendering of schema link templates on or off.
func WithLinks(enabled bool) Option {
	return func(e *Engine) {
		e.enableLinks = enabled
	}
}

// WithWorkers bounds the goroutines used by ExplainAll.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New returns an Engine. By default schema lookup and link rendering are
// enabled, and there is no schema.
func New(opts ...Option) *Engine {
	e := &Engine{
		enableSchema: true,
		enableLinks:  true,
		workers:      runtime.GOMAXPROCS(0),
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Explain is a shorthand for New(opts...).Explain(raw).
func Explain(raw string, opts ...Option) Explanation {
	return New(opts...).Explain(raw)
}

// Explain returns the fact record for raw. It accepts any string and never
// panics on account of the input; every failure is reported in the record.
func (e *Engine) Explain(raw string) Explanation {
	exp := Explanation{
		ID:         raw,
		Derived:    map[string]any{},
		Links:      map[string]string{},
		Provenance: map[string]Provenance{},
		Warnings:   []string{},
		Errors:     []ParseError{},
	}

	tid, err := typeid.Parse(raw)
	if err != nil {
		perr := ParseError{Code: CodeInvalidTypeID, Message: err.Error()}
		exp.Parsed = Parsed{Raw: raw, Errors: []ParseError{perr}}
		exp.Errors = append(exp.Errors, perr)
		e.logger.Debug("explain: invalid id", "id", raw, "error", err)
		return exp
	}

	exp.Valid = true
	exp.Parsed = parsedFacts(raw, tid)
	exp.Derived["uuid_version"] = int(tid.UUID().Version())
	if tid.IsTimeOrdered() {
		exp.Derived["unix_ms"] = tid.Timestamp()
	}

	if e.enableSchema && e.lookup != nil && tid.Prefix() != "" {
		if schema, ok := e.lookupSchema(tid.Prefix(), &exp); ok {
			exp.Schema = SchemaMatch{Found: true, Type: &schema}
			applySchemaProvenance(&exp, schema)

			if e.enableLinks && len(schema.Links) > 0 {
				names := make([]string, 0, len(schema.Links))
				for name := range schema.Links {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					link, err := renderLink(schema.Links[name], tid, exp.Parsed.CreatedAt)
					if err != nil {
						exp.Warnings = append(exp.Warnings, fmt.Sprintf("Failed to render link '%s': %v", name, err))
						continue
					}
					exp.Links[name] = link
					exp.Provenance["links."+name] = ProvenanceSchema
				}
			}
		}
	}

	applyDerivedProvenance(&exp)
	return exp
}

// lookupSchema calls the lookup, turning a panicking backend into a warning.
func (e *Engine) lookupSchema(prefix string, exp *Explanation) (schema TypeSchema, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("Schema lookup failed: %v", r)
			exp.Warnings = append(exp.Warnings, msg)
			exp.Provenance["schema"] = ProvenanceUnknown
			e.logger.Warn("explain: schema lookup panicked", "prefix", prefix, "panic", r)
			schema, ok = TypeSchema{}, false
		}
	}()
	return e.lookup.Lookup(prefix)
}

// ExplainAll explains every input concurrently. The result at index i
// belongs to raws[i].
func (e *Engine) ExplainAll(raws []string) []Explanation {
	out := make([]Explanation, len(raws))

	workers := e.workers
	if workers > len(raws) {
		workers = len(raws)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = e.Explain(raws[i])
			}
		}()
	}
	for i := range raws {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return out
}

func parsedFacts(raw string, tid typeid.TypeID) Parsed {
	prefix := tid.Prefix()
	suffix := tid.Suffix()
	u := tid.UUID().String()
	sortable := tid.IsTimeOrdered()

	p := Parsed{
		Raw:      raw,
		Valid:    true,
		Errors:   []ParseError{},
		Prefix:   &prefix,
		Suffix:   &suffix,
		UUID:     &u,
		Sortable: &sortable,
	}
	if sortable {
		created := tid.Time()
		p.CreatedAt = &created
	}
	return p
}

func applySchemaProvenance(exp *Explanation, s TypeSchema) {
	set := map[string]bool{
		"name":        s.Name != "",
		"description": s.Description != "",
		"owner_team":  s.OwnerTeam != "",
		"pii":         s.PII != nil,
		"retention":   s.Retention != "",
	}
	for key, ok := range set {
		if ok {
			exp.Provenance[key] = ProvenanceSchema
		}
	}
}

func applyDerivedProvenance(exp *Explanation) {
	p := exp.Parsed
	mark := func(key string, present bool) {
		if _, done := exp.Provenance[key]; present && !done {
			exp.Provenance[key] = ProvenanceDerived
		}
	}
	mark("prefix", p.Prefix != nil)
	mark("suffix", p.Suffix != nil)
	mark("uuid", p.UUID != nil)
	mark("created_at", p.CreatedAt != nil)
	mark("sortable", p.Sortable != nil)
	for key := range exp.Derived {
		mark("derived."+key, true)
	}
}

func formatCreatedAt(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}
