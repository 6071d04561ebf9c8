package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Lzww0608/typeid/schema"
)

// Configuration keys. Each is also a flag and a TYPEID_* environment variable.
const (
	keySchemaFile     = "schema-file"
	keyFormat         = "format"
	keyNoSchema       = "no-schema"
	keyNoLinks        = "no-links"
	keySchemaDBDriver = "schema-db-driver"
	keySchemaDBDSN    = "schema-db-dsn"
	keySchemaDBTable  = "schema-db-table"
	keySchemaZK       = "schema-zk-servers"
	keySchemaZKPath   = "schema-zk-path"
	keySchemaZKCache  = "schema-zk-cache"
	keyLogLevel       = "log-level"
)

type config struct {
	SchemaFile string
	Format     string
	NoSchema   bool
	NoLinks    bool

	DBDriver string
	DBDSN    string
	DBTable  string

	ZKServers []string
	ZKPath    string
	ZKCache   string

	LogLevel string
}

// newViper sets up env and config file lookup. Flags are bound per command.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("TYPEID")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(keyFormat, "yaml")
	v.SetDefault(keyLogLevel, "warn")
	v.SetDefault(keySchemaDBTable, schema.DefaultTable)
	v.SetDefault(keySchemaZKPath, schema.DefaultZKPath)

	v.SetConfigName("typeid")
	v.AddConfigPath(".")
	if dir := schema.UserConfigDir(); dir != "" {
		v.AddConfigPath(filepath.Join(dir, "typeid"))
	}
	return v
}

// readConfigFile loads typeid.{yaml,json,...} if present
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}
	return nil
}

func loadConfig(v *viper.Viper) config {
	return config{
		SchemaFile: v.GetString(keySchemaFile),
		Format:     v.GetString(keyFormat),
		NoSchema:   v.GetBool(keyNoSchema),
		NoLinks:    v.GetBool(keyNoLinks),
		DBDriver:   v.GetString(keySchemaDBDriver),
		DBDSN:      v.GetString(keySchemaDBDSN),
		DBTable:    v.GetString(keySchemaDBTable),
		ZKServers:  v.GetStringSlice(keySchemaZK),
		ZKPath:     v.GetString(keySchemaZKPath),
		ZKCache:    v.GetString(keySchemaZKCache),
		LogLevel:   v.GetString(keyLogLevel),
	}
}
