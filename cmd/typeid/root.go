package main

import (
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries state shared by all subcommands
type app struct {
	v      *viper.Viper
	cfg    config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: newViper()}

	rootCmd := &cobra.Command{
		Use:   "typeid",
		Short: "Generate, convert and explain TypeIDs",
		Long: `typeid works with TypeIDs: type-safe, K-sortable identifiers made of a
type prefix and a base32 encoded UUIDv7, e.g. user_01h45z113fexh8c1at7axm1r75.

Configuration Sources (in order of precedence):
1. Command line flags
2. TYPEID_* environment variables (e.g. TYPEID_SCHEMA_FILE, TYPEID_LOG_LEVEL)
3. typeid.yaml / typeid.json in the working directory or <config>/typeid

Examples:
  typeid new -p user
  typeid encode 01890bf0-846f-7762-8605-5a3abb40e0e5 -p user
  typeid decode user_01h45z113fexh8c1at7axm1r75
  typeid explain user_01h45z113fexh8c1at7axm1r75 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.String("schema", "", "Path to schema file (JSON or YAML); discovered automatically when omitted")
	pf.Bool(keyNoSchema, false, "Disable schema lookup (derived facts only)")
	pf.String(keySchemaDBDriver, "", "Load the schema from a SQL table using this driver (mysql, sqlite)")
	pf.String(keySchemaDBDSN, "", "DSN for --schema-db-driver")
	pf.String(keySchemaDBTable, "", "Table holding schema rows")
	pf.StringSlice(keySchemaZK, nil, "Load the schema from ZooKeeper servers (host:port,...)")
	pf.String(keySchemaZKPath, "", "Znode holding the schema document")
	pf.String(keySchemaZKCache, "", "Local cache file for the ZooKeeper schema")
	pf.String(keyLogLevel, "", "Log level: debug|info|warn|error")

	_ = a.v.BindPFlag(keySchemaFile, pf.Lookup("schema"))
	for _, key := range []string{keyNoSchema, keySchemaDBDriver, keySchemaDBDSN, keySchemaDBTable,
		keySchemaZK, keySchemaZKPath, keySchemaZKCache, keyLogLevel} {
		_ = a.v.BindPFlag(key, pf.Lookup(key))
	}

	rootCmd.AddCommand(
		newNewCmd(a),
		newEncodeCmd(a),
		newDecodeCmd(a),
		newExplainCmd(a),
		newSchemaCmd(a),
	)
	return rootCmd
}

func (a *app) init(stderr io.Writer) error {
	if err := readConfigFile(a.v); err != nil {
		return err
	}
	a.cfg = loadConfig(a.v)
	a.cfg.ZKServers = splitList(a.cfg.ZKServers)
	a.logger = newLogger(stderr, a.cfg.LogLevel)
	a.logger.Debug("config loaded", "config_file", a.v.ConfigFileUsed(), "format", a.cfg.Format)
	return nil
}

// splitList flattens comma separated entries, as environment variables
// carry lists in a single string.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
