package schema

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"
)

// lockRetryDelay is how often a contended shared lock is retried
const lockRetryDelay = 20 * time.Millisecond

// FileSource loads a registry from a JSON or YAML file. The file is read
// under a shared advisory lock so that a concurrent writer holding the
// exclusive lock is never observed half way.
type FileSource struct {
	path string
	opts options
}

// NewFileSource returns a FileSource for path
func NewFileSource(path string, opts ...Option) *FileSource {
	return &FileSource{path: path, opts: newOptions(opts)}
}

// LoadFile is a shorthand for NewFileSource(path, opts...).Load(ctx)
func LoadFile(ctx context.Context, path string, opts ...Option) (*Registry, error) {
	return NewFileSource(path, opts...).Load(ctx)
}

// Path returns the file path
func (s *FileSource) Path() string {
	return s.path
}

// Load reads and parses the file.
func (s *FileSource) Load(ctx context.Context) (*Registry, error) {
	data, err := s.read(ctx)
	if err != nil {
		return nil, loadError(CodeReadFailed, "failed to read schema", err)
	}

	format := s.opts.format
	if format == "" {
		format = FormatFromPath(s.path)
		// unknown extensions are JSON unless forced otherwise
		if format == FormatAuto {
			format = FormatJSON
		}
	}

	reg, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	reg.source = s.path
	for _, w := range reg.warnings {
		s.opts.logger.Warn("schema: entry skipped", "path", s.path, "reason", w)
	}
	s.opts.logger.Debug("schema: loaded file", "path", s.path, "types", reg.Len())
	return reg, nil
}

func (s *FileSource) read(ctx context.Context) ([]byte, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", s.path)
	}

	lock := flock.New(s.path)
	locked, err := lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", s.path, err)
	}
	if !locked {
		return nil, errors.New("could not acquire shared lock on " + s.path)
	}
	defer lock.Unlock()

	return os.ReadFile(s.path)
}
