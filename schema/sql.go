package schema

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/Lzww0608/typeid"
	"github.com/Lzww0608/typeid/explain"
)

// DefaultTable is the table SQLSource reads by default
const DefaultTable = "typeid_types"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLSource keeps registry entries in a table, one row per prefix:
//
//	prefix      VARCHAR(63) PRIMARY KEY
//	name        VARCHAR(255)
//	description TEXT
//	owner_team  VARCHAR(255)
//	pii         BOOLEAN
//	retention   VARCHAR(64)
//	links       TEXT  -- JSON object of link templates
//	attributes  TEXT  -- JSON object of any other attributes
//
// Any database/sql driver using '?' placeholders works (MySQL, SQLite).
type SQLSource struct {
	db    *sql.DB
	table string
	sq    squirrel.StatementBuilderType
	opts  options
}

// OpenSQL opens a database with the given driver and DSN and returns a
// SQLSource on DefaultTable.
func OpenSQL(driver, dsn string, opts ...Option) (*SQLSource, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	return NewSQLSource(db, DefaultTable, opts...)
}

// NewSQLSource wraps an existing database handle. table must be a plain
// identifier.
func NewSQLSource(db *sql.DB, table string, opts ...Option) (*SQLSource, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("schema: invalid table name %q", table)
	}
	return &SQLSource{
		db:    db,
		table: table,
		sq:    squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		opts:  newOptions(opts),
	}, nil
}

// DB returns the underlying handle
func (s *SQLSource) DB() *sql.DB {
	return s.db
}

// Close closes the underlying handle
func (s *SQLSource) Close() error {
	return s.db.Close()
}

// Migrate creates the table if it does not exist
func (s *SQLSource) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+s.table+` (
		prefix VARCHAR(63) NOT NULL PRIMARY KEY,
		name VARCHAR(255),
		description TEXT,
		owner_team VARCHAR(255),
		pii BOOLEAN,
		retention VARCHAR(64),
		links TEXT,
		attributes TEXT
	)`)
	if err != nil {
		return fmt.Errorf("schema: migrate %s: %w", s.table, err)
	}
	return nil
}

// Put replaces the row for t.Prefix. Raw keys other than the normalized
// fields are stored in the attributes column.
func (s *SQLSource) Put(ctx context.Context, t explain.TypeSchema) error {
	if t.Prefix == "" {
		return fmt.Errorf("schema: empty prefix")
	}
	if err := typeid.ValidatePrefix(t.Prefix); err != nil {
		return fmt.Errorf("schema: %w", err)
	}

	links, err := json.Marshal(t.Links)
	if err != nil {
		return fmt.Errorf("schema: encode links for %q: %w", t.Prefix, err)
	}
	attrs, err := json.Marshal(extraAttributes(t.Raw))
	if err != nil {
		return fmt.Errorf("schema: encode attributes for %q: %w", t.Prefix, err)
	}

	var pii sql.NullBool
	if t.PII != nil {
		pii = sql.NullBool{Bool: *t.PII, Valid: true}
	}

	del, delArgs, err := s.sq.Delete(s.table).Where(squirrel.Eq{"prefix": t.Prefix}).ToSql()
	if err != nil {
		return err
	}
	ins, insArgs, err := s.sq.Insert(s.table).
		Columns("prefix", "name", "description", "owner_team", "pii", "retention", "links", "attributes").
		Values(t.Prefix, nullString(t.Name), nullString(t.Description), nullString(t.OwnerTeam),
			pii, nullString(t.Retention), string(links), string(attrs)).
		ToSql()
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, del, delArgs...); err != nil {
		return fmt.Errorf("schema: put %q: %w", t.Prefix, err)
	}
	if _, err := tx.ExecContext(ctx, ins, insArgs...); err != nil {
		return fmt.Errorf("schema: put %q: %w", t.Prefix, err)
	}
	return tx.Commit()
}

// Load reads every row into a Registry.
func (s *SQLSource) Load(ctx context.Context) (*Registry, error) {
	query, args, err := s.sq.
		Select("prefix", "name", "description", "owner_team", "pii", "retention", "links", "attributes").
		From(s.table).
		OrderBy("prefix").
		ToSql()
	if err != nil {
		return nil, loadError(CodeReadFailed, "failed to build query", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, loadError(CodeReadFailed, "failed to query "+s.table, err)
	}
	defer rows.Close()

	reg := &Registry{
		version: SupportedVersion,
		types:   make(map[string]explain.TypeSchema),
		source:  "sql:" + s.table,
	}
	for rows.Next() {
		var (
			prefix                                  string
			name, description, ownerTeam, retention sql.NullString
			links, attributes                       sql.NullString
			pii                                     sql.NullBool
		)
		if err := rows.Scan(&prefix, &name, &description, &ownerTeam, &pii, &retention, &links, &attributes); err != nil {
			return nil, loadError(CodeReadFailed, "failed to scan "+s.table, err)
		}

		spec := map[string]any{}
		if attributes.Valid && attributes.String != "" {
			if obj, ok := jsonObject(attributes.String); ok {
				spec = obj
			} else {
				reg.warnings = append(reg.warnings, fmt.Sprintf("%q: attributes column is not a JSON object", prefix))
			}
		}
		setString(spec, "name", name)
		setString(spec, "description", description)
		setString(spec, "owner_team", ownerTeam)
		setString(spec, "retention", retention)
		if pii.Valid {
			spec["pii"] = pii.Bool
		}
		if links.Valid && links.String != "" && links.String != "null" {
			if obj, ok := jsonObject(links.String); ok {
				spec["links"] = obj
			} else {
				reg.warnings = append(reg.warnings, fmt.Sprintf("%q: links column is not a JSON object", prefix))
			}
		}
		reg.types[prefix] = toTypeSchema(prefix, spec)
	}
	if err := rows.Err(); err != nil {
		return nil, loadError(CodeReadFailed, "failed to read "+s.table, err)
	}

	for _, w := range reg.warnings {
		s.opts.logger.Warn("schema: row degraded", "table", s.table, "reason", w)
	}
	s.opts.logger.Debug("schema: loaded table", "table", s.table, "types", reg.Len())
	return reg, nil
}

var normalizedKeys = map[string]bool{
	"name": true, "description": true, "owner_team": true,
	"pii": true, "retention": true, "links": true,
}

func extraAttributes(raw map[string]any) map[string]any {
	out := make(map[string]any)
	for k, v := range raw {
		if !normalizedKeys[k] {
			out[k] = v
		}
	}
	return out
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func setString(spec map[string]any, key string, v sql.NullString) {
	if v.Valid {
		spec[key] = v.String
	}
}

func jsonObject(s string) (map[string]any, bool) {
	doc, err := decodeJSON([]byte(s))
	if err != nil {
		return nil, false
	}
	obj, ok := doc.(map[string]any)
	return obj, ok
}
