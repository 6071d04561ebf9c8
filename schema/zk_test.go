package schema

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-zookeeper/zk"
)

type fakeZnode struct {
	data map[string][]byte
	err  error
}

func (f *fakeZnode) Get(path string) ([]byte, *zk.Stat, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	data, ok := f.data[path]
	if !ok {
		return nil, nil, zk.ErrNoNode
	}
	return data, &zk.Stat{}, nil
}

func TestZKSource_Load(t *testing.T) {
	cache := filepath.Join(t.TempDir(), "cache", "schema.json")
	conn := &fakeZnode{data: map[string][]byte{DefaultZKPath: []byte(userDoc)}}
	src := newZKSource(conn, "", cache, newOptions(nil))

	reg, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reg.Source() != "zk:"+DefaultZKPath {
		t.Errorf("Source() = %v", reg.Source())
	}
	if s, ok := reg.Lookup("user"); !ok || s.Name != "User" {
		t.Errorf("Lookup(user) = %+v, %v", s, ok)
	}

	cached, err := os.ReadFile(cache)
	if err != nil {
		t.Fatalf("cache not written: %v", err)
	}
	if string(cached) != userDoc {
		t.Errorf("cache content = %q", cached)
	}
}

func TestZKSource_FallsBackToCache(t *testing.T) {
	cache := filepath.Join(t.TempDir(), "schema.json")
	conn := &fakeZnode{data: map[string][]byte{DefaultZKPath: []byte(userDoc)}}
	src := newZKSource(conn, DefaultZKPath, cache, newOptions(nil))

	if _, err := src.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	conn.err = zk.ErrNoServer
	reg, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() with zk down error = %v", err)
	}
	if reg.Source() != "cache:"+cache {
		t.Errorf("Source() = %v", reg.Source())
	}
	if reg.Len() != 2 {
		t.Errorf("Len() = %d, want 2", reg.Len())
	}
}

func TestZKSource_Errors(t *testing.T) {
	src := newZKSource(&fakeZnode{err: zk.ErrNoServer}, "", "", newOptions(nil))
	_, err := src.Load(context.Background())
	var le *LoadError
	if !errors.As(err, &le) || le.Code != CodeReadFailed {
		t.Errorf("Load() error = %v, want %s", err, CodeReadFailed)
	}
	if !errors.Is(err, zk.ErrNoServer) {
		t.Errorf("Load() error does not wrap zk.ErrNoServer: %v", err)
	}

	src = newZKSource(&fakeZnode{data: map[string][]byte{}}, "/typeid/missing", "", newOptions(nil))
	if _, err := src.Load(context.Background()); !errors.Is(err, zk.ErrNoNode) {
		t.Errorf("Load() error = %v, want zk.ErrNoNode", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src = newZKSource(&fakeZnode{data: map[string][]byte{DefaultZKPath: []byte(userDoc)}}, "", "", newOptions(nil))
	if _, err := src.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}

	bad := &fakeZnode{data: map[string][]byte{DefaultZKPath: []byte(`{"schema_version": 9, "types": {}}`)}}
	src = newZKSource(bad, "", "", newOptions(nil))
	if _, err := src.Load(context.Background()); !errors.As(err, &le) || le.Code != CodeUnsupportedSchemaVersion {
		t.Errorf("Load() error = %v, want %s", err, CodeUnsupportedSchemaVersion)
	}
}

// stalledZnode blocks every Get until release is closed.
type stalledZnode struct {
	release chan struct{}
}

func (f *stalledZnode) Get(path string) ([]byte, *zk.Stat, error) {
	<-f.release
	return nil, nil, zk.ErrConnectionClosed
}

func TestZKSource_LoadHonorsDeadline(t *testing.T) {
	conn := &stalledZnode{release: make(chan struct{})}
	t.Cleanup(func() { close(conn.release) })

	src := newZKSource(conn, "", "", newOptions(nil))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := src.Load(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Load() error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Load() returned after %v", elapsed)
	}

	cache := filepath.Join(t.TempDir(), "schema.json")
	if err := os.WriteFile(cache, []byte(userDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	src = newZKSource(conn, "", cache, newOptions(nil))
	ctx2, cancel2 := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel2()

	reg, err := src.Load(ctx2)
	if err != nil {
		t.Fatalf("Load() past deadline with cache error = %v", err)
	}
	if reg.Source() != "cache:"+cache {
		t.Errorf("Source() = %v", reg.Source())
	}
}

func TestZKSource_YAMLNode(t *testing.T) {
	path := "/typeid/schema.yaml"
	conn := &fakeZnode{data: map[string][]byte{path: []byte("schema_version: 1\ntypes:\n  job: {name: Job}\n")}}
	src := newZKSource(conn, path, "", newOptions(nil))

	reg, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s, ok := reg.Lookup("job"); !ok || s.Name != "Job" {
		t.Errorf("Lookup(job) = %+v, %v", s, ok)
	}
}
