package schema

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	_ "modernc.org/sqlite"

	"github.com/Lzww0608/typeid"
	"github.com/Lzww0608/typeid/explain"
)

func newTestSQLSource(t *testing.T) *SQLSource {
	t.Helper()
	src, err := OpenSQL("sqlite", filepath.Join(t.TempDir(), "schema.db"))
	if err != nil {
		t.Fatalf("OpenSQL() error = %v", err)
	}
	t.Cleanup(func() { src.Close() })
	if err := src.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return src
}

func TestSQLSource_PutLoad(t *testing.T) {
	ctx := context.Background()
	src := newTestSQLSource(t)

	pii := true
	user := explain.TypeSchema{
		Prefix:    "user",
		Name:      "User",
		OwnerTeam: "identity",
		PII:       &pii,
		Retention: "7y",
		Links:     map[string]string{"logs": "https://logs.example.com/search?q={id}"},
		Raw:       map[string]any{"name": "User", "tier": 3},
	}
	order := explain.TypeSchema{Prefix: "order", Description: "A purchase"}

	for _, s := range []explain.TypeSchema{user, order} {
		if err := src.Put(ctx, s); err != nil {
			t.Fatalf("Put(%s) error = %v", s.Prefix, err)
		}
	}

	reg, err := src.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reg.Source() != "sql:"+DefaultTable {
		t.Errorf("Source() = %v", reg.Source())
	}
	if diff := cmp.Diff([]string{"order", "user"}, reg.Prefixes()); diff != "" {
		t.Errorf("Prefixes() mismatch (-want +got):\n%s", diff)
	}

	got, _ := reg.Lookup("user")
	if got.Name != "User" || got.OwnerTeam != "identity" || got.Retention != "7y" {
		t.Errorf("Lookup(user) = %+v", got)
	}
	if got.PII == nil || !*got.PII {
		t.Errorf("PII = %v, want true", got.PII)
	}
	if diff := cmp.Diff(user.Links, got.Links); diff != "" {
		t.Errorf("Links mismatch (-want +got):\n%s", diff)
	}
	if got.Raw["tier"] != int64(3) {
		t.Errorf("Raw[tier] = %#v, want int64(3)", got.Raw["tier"])
	}

	got, _ = reg.Lookup("order")
	if got.Description != "A purchase" || got.PII != nil || got.Links != nil {
		t.Errorf("Lookup(order) = %+v", got)
	}
}

func TestSQLSource_PutReplaces(t *testing.T) {
	ctx := context.Background()
	src := newTestSQLSource(t)

	if err := src.Put(ctx, explain.TypeSchema{Prefix: "user", Name: "Old"}); err != nil {
		t.Fatal(err)
	}
	if err := src.Put(ctx, explain.TypeSchema{Prefix: "user", Name: "New"}); err != nil {
		t.Fatal(err)
	}

	reg, err := src.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
	if s, _ := reg.Lookup("user"); s.Name != "New" {
		t.Errorf("Name = %q, want New", s.Name)
	}
}

func TestSQLSource_PutInvalidPrefix(t *testing.T) {
	src := newTestSQLSource(t)
	err := src.Put(context.Background(), explain.TypeSchema{Prefix: "User"})
	if !errors.Is(err, typeid.ErrInvalidPrefix) {
		t.Errorf("Put() error = %v, want ErrInvalidPrefix", err)
	}
	if err := src.Put(context.Background(), explain.TypeSchema{}); err == nil {
		t.Error("Put() accepted an empty prefix")
	}
}

func TestSQLSource_DegradedRow(t *testing.T) {
	ctx := context.Background()
	src := newTestSQLSource(t)

	_, err := src.DB().ExecContext(ctx,
		`INSERT INTO `+DefaultTable+` (prefix, name, links, attributes) VALUES (?, ?, ?, ?)`,
		"user", "User", "not json", "[1]")
	if err != nil {
		t.Fatal(err)
	}

	reg, err := src.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s, ok := reg.Lookup("user"); !ok || s.Name != "User" {
		t.Errorf("Lookup(user) = %+v, %v", s, ok)
	}
	if len(reg.Warnings()) != 2 {
		t.Errorf("Warnings() = %v, want 2", reg.Warnings())
	}
}

func TestSQLSource_MissingTable(t *testing.T) {
	src := newTestSQLSource(t)
	other, err := NewSQLSource(src.DB(), "no_such_table")
	if err != nil {
		t.Fatal(err)
	}
	_, err = other.Load(context.Background())
	var le *LoadError
	if !errors.As(err, &le) || le.Code != CodeReadFailed {
		t.Errorf("Load() error = %v, want %s", err, CodeReadFailed)
	}
}

func TestNewSQLSource_TableName(t *testing.T) {
	src := newTestSQLSource(t)
	for _, table := range []string{"types; DROP TABLE x", "1types", "schema.types"} {
		if _, err := NewSQLSource(src.DB(), table); err == nil {
			t.Errorf("NewSQLSource(%q) accepted an invalid table name", table)
		}
	}
	s, err := NewSQLSource(src.DB(), "")
	if err != nil || s.table != DefaultTable {
		t.Errorf("NewSQLSource(\"\") = %v, %v", s, err)
	}
}
