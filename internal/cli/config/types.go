// Package config provides configuration management for the sqlmeta CLI.
package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlmeta/pkg/adapter"
	"github.com/leapstack-labs/sqlmeta/pkg/core"
	"github.com/leapstack-labs/sqlmeta/pkg/schema"
)

// Default configuration values.
const (
	DefaultOutput = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultType   = "mysql"
)

// Config holds all CLI configuration options.
type Config struct {
	Verbose      bool                    `koanf:"verbose"`
	OutputFormat string                  `koanf:"output"`
	Target       *TargetConfig           `koanf:"target"`
	Targets      map[string]TargetConfig `koanf:"targets"`

	// TargetName is the named target merged into Target, if any.
	TargetName string `koanf:"-"`
	// ConfigFile is the path of the loaded config file, empty if none.
	ConfigFile string `koanf:"-"`
}

// TargetConfig describes the database to connect to.
type TargetConfig struct {
	Type string `koanf:"type"` // mysql, postgres, duckdb, sqlite

	// Database is the database name, or the file path for duckdb and sqlite.
	Database string `koanf:"database"`

	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Schema   string `koanf:"schema"`

	// Options are passed to the driver DSN.
	Options map[string]string `koanf:"options"`

	// Params holds adapter-specific configuration (e.g., DuckDB extensions, settings)
	Params map[string]any `koanf:"params"`

	Catalog *CatalogConfig `koanf:"catalog"`
}

// CatalogConfig overrides the metadata catalog layout. Empty fields keep
// the adapter's defaults.
type CatalogConfig struct {
	Schema         string `koanf:"schema"`
	TablesView     string `koanf:"tables_view"`
	ColumnsView    string `koanf:"columns_view"`
	KeyUsageView   string `koanf:"key_usage_view"`
	IndexesView    string `koanf:"indexes_view"`
	PrimaryKeyName string `koanf:"primary_key_name"`
	UniqueSuffix   string `koanf:"unique_suffix"`
	IndexNameKey   string `koanf:"index_name_key"`
	IndexColumnKey string `koanf:"index_column_key"`
}

// SchemaCatalog converts the override into a schema.Catalog.
func (c *CatalogConfig) SchemaCatalog() schema.Catalog {
	if c == nil {
		return schema.Catalog{}
	}
	return schema.Catalog{
		Schema:         c.Schema,
		TablesView:     c.TablesView,
		ColumnsView:    c.ColumnsView,
		KeyUsageView:   c.KeyUsageView,
		IndexesView:    c.IndexesView,
		PrimaryKeyName: c.PrimaryKeyName,
		UniqueSuffix:   c.UniqueSuffix,
		IndexNameKey:   c.IndexNameKey,
		IndexColumnKey: c.IndexColumnKey,
	}
}

// fileBased reports whether Database is a file path for this type.
func (t *TargetConfig) fileBased() bool {
	switch strings.ToLower(t.Type) {
	case "duckdb", "sqlite":
		return true
	}
	return false
}

// AdapterConfig converts the target into the adapter configuration.
func (t *TargetConfig) AdapterConfig() core.AdapterConfig {
	cfg := core.AdapterConfig{
		Type:     strings.ToLower(t.Type),
		Database: t.Database,
		Host:     t.Host,
		Port:     t.Port,
		Username: t.User,
		Password: t.Password,
		Schema:   t.Schema,
		Options:  t.Options,
		Params:   t.Params,
	}
	if t.fileBased() {
		cfg.Path = t.Database
	}
	return cfg
}

// Validate checks if the target configuration is valid.
// It uses the adapter registry to determine which adapter types are available.
func (t *TargetConfig) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}

	if !adapter.IsRegistered(strings.ToLower(t.Type)) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.ListAdapters(),
		}
	}

	if !t.fileBased() && t.Database == "" {
		return fmt.Errorf("target database is required for %s", t.Type)
	}
	return nil
}

// DefaultSchemaForType returns the default schema for a database type.
// MySQL has no schema separate from the database.
func DefaultSchemaForType(dbType string) string {
	switch strings.ToLower(dbType) {
	case "postgres":
		return "public"
	case "duckdb", "sqlite":
		return "main"
	}
	return ""
}

// DefaultPortForType returns the default port for a network database type.
func DefaultPortForType(dbType string) int {
	switch strings.ToLower(dbType) {
	case "mysql":
		return 3306
	case "postgres":
		return 5432
	}
	return 0
}

// ApplyTargetDefaults applies default values to a TargetConfig based on its type.
func ApplyTargetDefaults(t *TargetConfig) {
	if t == nil {
		return
	}
	if t.Schema == "" {
		t.Schema = DefaultSchemaForType(t.Type)
	}
	if t.Port == 0 {
		t.Port = DefaultPortForType(t.Type)
	}
}
