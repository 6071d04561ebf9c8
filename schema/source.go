package schema

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
)

// Source loads a registry from some backend.
type Source interface {
	Load(ctx context.Context) (*Registry, error)
}

// Option configures a Source.
type Option func(*options)

type options struct {
	logger *slog.Logger
	format Format
}

func newOptions(opts []Option) options {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used by a Source.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithFormat forces the document format instead of guessing it from the
// path extension.
func WithFormat(format Format) Option {
	return func(o *options) {
		o.format = format
	}
}

// FormatFromPath guesses the format from a file or znode extension.
// Unknown extensions yield FormatAuto.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}
