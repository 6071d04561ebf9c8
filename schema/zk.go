package schema

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-zookeeper/zk"
)

// DefaultZKPath is the znode ZKSource reads by default
const DefaultZKPath = "/typeid/schema"

// znodeReader is the part of *zk.Conn used by ZKSource
type znodeReader interface {
	Get(path string) ([]byte, *zk.Stat, error)
}

// ZKSource reads a registry document stored in a ZooKeeper znode. Every
// successful read refreshes a local cache file, which is used instead when
// ZooKeeper cannot be reached.
type ZKSource struct {
	conn      znodeReader
	path      string
	cachePath string
	close     func()
	opts      options
}

// DialZK connects to the given ZooKeeper ensemble and returns a ZKSource
// for path. cachePath may be empty to disable the local cache.
func DialZK(servers []string, path, cachePath string, opts ...Option) (*ZKSource, error) {
	o := newOptions(opts)
	conn, _, err := zk.Connect(servers, 5*time.Second, zk.WithLogger(zkLogger{o.logger}))
	if err != nil {
		return nil, fmt.Errorf("connect zk failed: %w", err)
	}
	s := newZKSource(conn, path, cachePath, o)
	s.close = conn.Close
	return s, nil
}

type znodeResult struct {
	data []byte
	err  error
}

// get reads the znode, returning early when ctx is done. zk.Conn has no
// per-call cancellation, so an abandoned Get finishes in the background.
func (s *ZKSource) get(ctx context.Context) ([]byte, error) {
	ch := make(chan znodeResult, 1)
	go func() {
		data, _, err := s.conn.Get(s.path)
		ch <- znodeResult{data: data, err: err}
	}()

	select {
	case res := <-ch:
		return res.data, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func newZKSource(conn znodeReader, path, cachePath string, o options) *ZKSource {
	if path == "" {
		path = DefaultZKPath
	}
	return &ZKSource{conn: conn, path: path, cachePath: cachePath, close: func() {}, opts: o}
}

// Close closes the ZooKeeper session
func (s *ZKSource) Close() {
	s.close()
}

// Load fetches and parses the znode, falling back to the local cache. A
// read that outlives ctx is abandoned and treated as a failed read.
func (s *ZKSource) Load(ctx context.Context) (*Registry, error) {
	if err := ctx.Err(); err != nil {
		return nil, loadError(CodeReadFailed, "failed to read znode "+s.path, err)
	}

	format := s.opts.format
	if format == "" {
		format = FormatFromPath(s.path)
	}

	data, err := s.get(ctx)
	if err != nil {
		cached, cacheErr := s.loadLocalCache()
		if cacheErr != nil {
			return nil, loadError(CodeReadFailed, "failed to read znode "+s.path, err)
		}
		s.opts.logger.Warn("schema: zookeeper unavailable, using local cache",
			"path", s.path, "cache", s.cachePath, "error", err)
		reg, perr := Parse(cached, format)
		if perr != nil {
			return nil, perr
		}
		reg.source = "cache:" + s.cachePath
		return reg, nil
	}

	reg, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	reg.source = "zk:" + s.path
	s.saveLocalCache(data)
	s.opts.logger.Debug("schema: loaded znode", "path", s.path, "types", reg.Len())
	return reg, nil
}

// saveLocalCache stores the raw znode document for later recovery
func (s *ZKSource) saveLocalCache(data []byte) {
	if s.cachePath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.cachePath), 0o755); err != nil {
		s.opts.logger.Warn("schema: cannot create cache dir", "cache", s.cachePath, "error", err)
		return
	}
	tmp := s.cachePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		s.opts.logger.Warn("schema: cannot write cache", "cache", s.cachePath, "error", err)
		return
	}
	if err := os.Rename(tmp, s.cachePath); err != nil {
		s.opts.logger.Warn("schema: cannot write cache", "cache", s.cachePath, "error", err)
	}
}

// loadLocalCache reads the last document saved by saveLocalCache
func (s *ZKSource) loadLocalCache() ([]byte, error) {
	if s.cachePath == "" {
		return nil, os.ErrNotExist
	}
	return os.ReadFile(s.cachePath)
}

// zkLogger routes the zk client's log lines to slog
type zkLogger struct {
	logger *slog.Logger
}

func (l zkLogger) Printf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...), "component", "zk")
}
