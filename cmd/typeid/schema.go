package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Lzww0608/typeid/schema"
)

// resolveRegistry loads the registry selected by the configuration. Load
// failures are returned as warnings: explain works without a schema.
func (a *app) resolveRegistry(ctx context.Context) (*schema.Registry, []string) {
	if a.cfg.NoSchema {
		return nil, nil
	}

	src, desc, err := a.schemaSource()
	if err != nil {
		a.logger.Warn("schema source unavailable", "error", err)
		return nil, []string{fmt.Sprintf("Schema load failed: %v", err)}
	}
	if src == nil {
		a.logger.Debug("no schema found", "source", desc)
		return nil, nil
	}
	defer closeSource(src)

	reg, err := src.Load(ctx)
	if err != nil {
		a.logger.Warn("schema load failed", "source", desc, "error", err)
		return nil, []string{fmt.Sprintf("Schema load failed: %v", err)}
	}
	a.logger.Debug("schema loaded", "source", reg.Source(), "types", reg.Len())
	return reg, reg.Warnings()
}

// schemaSource picks the configured backend: SQL, then ZooKeeper, then an
// explicit file, then discovery. A nil Source means no schema.
func (a *app) schemaSource() (schema.Source, string, error) {
	opts := []schema.Option{schema.WithLogger(a.logger)}

	switch {
	case a.cfg.DBDriver != "" || a.cfg.DBDSN != "":
		if a.cfg.DBDriver == "" || a.cfg.DBDSN == "" {
			return nil, "", fmt.Errorf("--%s and --%s must be set together", keySchemaDBDriver, keySchemaDBDSN)
		}
		src, err := schema.OpenSQL(a.cfg.DBDriver, a.cfg.DBDSN, opts...)
		if err != nil {
			return nil, "", err
		}
		if a.cfg.DBTable == "" || a.cfg.DBTable == schema.DefaultTable {
			return src, "sql", nil
		}
		table, err := schema.NewSQLSource(src.DB(), a.cfg.DBTable, opts...)
		if err != nil {
			src.Close()
			return nil, "", err
		}
		return table, "sql", nil
	case len(a.cfg.ZKServers) > 0:
		src, err := schema.DialZK(a.cfg.ZKServers, a.cfg.ZKPath, a.cfg.ZKCache, opts...)
		if err != nil {
			return nil, "", err
		}
		return src, "zk", nil
	case a.cfg.SchemaFile != "":
		return schema.NewFileSource(a.cfg.SchemaFile, opts...), "flag", nil
	default:
		d := schema.Discover()
		if !d.Found() {
			if strings.HasPrefix(d.Source, "env:") {
				return nil, "", fmt.Errorf("$%s names a file that does not exist", schema.DefaultEnvVar)
			}
			return nil, d.Source, nil
		}
		return schema.NewFileSource(d.Path, opts...), d.Source, nil
	}
}

func closeSource(src schema.Source) {
	switch c := src.(type) {
	case interface{ Close() error }:
		_ = c.Close()
	case interface{ Close() }:
		c.Close()
	}
}

func newSchemaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect schema discovery and contents",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "paths",
		Short: "Show where the schema is looked up and what was found",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			d := schema.Discover()
			fmt.Fprintf(out, "env: $%s\n", schema.DefaultEnvVar)
			fmt.Fprintln(out, "candidates:")
			for _, p := range (schema.Discoverer{}).Candidates() {
				fmt.Fprintf(out, "  - %s\n", p)
			}
			fmt.Fprintf(out, "found: %t\n", d.Found())
			fmt.Fprintf(out, "source: %s\n", d.Source)
			if d.Found() {
				fmt.Fprintf(out, "path: %s\n", d.Path)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Load the configured schema and list its prefixes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, desc, err := a.schemaSource()
			if err != nil {
				return err
			}
			if src == nil {
				return fmt.Errorf("no schema found (%s)", desc)
			}
			defer closeSource(src)
			reg, err := src.Load(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "source: %s\n", reg.Source())
			fmt.Fprintf(out, "schema_version: %d\n", reg.Version())
			fmt.Fprintf(out, "types: %d\n", reg.Len())
			for _, p := range reg.Prefixes() {
				fmt.Fprintf(out, "  - %s\n", p)
			}
			for _, w := range reg.Warnings() {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			return nil
		},
	})
	return cmd
}
