package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlmeta/pkg/schema"

	// Import adapter packages to ensure adapters are registered via init()
	_ "github.com/leapstack-labs/sqlmeta/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/sqlmeta/pkg/adapters/mysql"
	_ "github.com/leapstack-labs/sqlmeta/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/sqlmeta/pkg/adapters/sqlite"
)

const testConfig = `output: json
target:
  type: mysql
  host: db.internal
  database: hr
  user: app
  password: ${SQLMETA_TEST_PASSWORD}
targets:
  local:
    type: sqlite
    database: ./hr.db
  analytics:
    type: postgres
    database: warehouse
    schema: reporting
    catalog:
      schema: information_schema
      key_usage_view: key_column_usage
      indexes_view: index_listing
      unique_suffix: _key
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sqlmeta.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("type", "", "")
	fs.String("host", "", "")
	fs.Int("port", 0, "")
	fs.String("database", "", "")
	fs.String("user", "", "")
	fs.String("password", "", "")
	fs.String("schema", "", "")
	fs.String("output", "", "")
	fs.BoolP("verbose", "v", false, "")
	fs.StringP("target", "t", "", "")
	return fs
}

func TestTargetConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		target    TargetConfig
		errSubstr string
	}{
		{"empty type", TargetConfig{}, "target type is required"},
		{"valid mysql", TargetConfig{Type: "mysql", Database: "hr"}, ""},
		{"valid mysql uppercase", TargetConfig{Type: "MySQL", Database: "hr"}, ""},
		{"valid postgres", TargetConfig{Type: "postgres", Database: "hr"}, ""},
		{"sqlite without file", TargetConfig{Type: "sqlite"}, ""},
		{"duckdb without file", TargetConfig{Type: "duckdb"}, ""},
		{"mysql without database", TargetConfig{Type: "mysql"}, "target database is required"},
		{"unknown type oracle", TargetConfig{Type: "oracle"}, "unknown adapter type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.target.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestApplyTargetDefaults(t *testing.T) {
	tests := []struct {
		typ    string
		port   int
		schema string
	}{
		{"mysql", 3306, ""},
		{"postgres", 5432, "public"},
		{"duckdb", 0, "main"},
		{"sqlite", 0, "main"},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			target := &TargetConfig{Type: tt.typ}
			ApplyTargetDefaults(target)
			assert.Equal(t, tt.port, target.Port)
			assert.Equal(t, tt.schema, target.Schema)
		})
	}

	explicit := &TargetConfig{Type: "postgres", Port: 6432, Schema: "sales"}
	ApplyTargetDefaults(explicit)
	assert.Equal(t, 6432, explicit.Port)
	assert.Equal(t, "sales", explicit.Schema)

	ApplyTargetDefaults(nil)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(LoadOptions{Dir: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.ConfigFile)
	require.NotNil(t, cfg.Target)
	assert.Equal(t, "mysql", cfg.Target.Type)
	assert.Equal(t, 3306, cfg.Target.Port)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("SQLMETA_TEST_PASSWORD", "s3cret")
	path := writeConfig(t, testConfig)

	cfg, err := Load(LoadOptions{File: path})
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "db.internal", cfg.Target.Host)
	assert.Equal(t, "hr", cfg.Target.Database)
	assert.Equal(t, "s3cret", cfg.Target.Password, "password is expanded from the environment")
	assert.Len(t, cfg.Targets, 2)
}

func TestLoad_SearchesUpward(t *testing.T) {
	path := writeConfig(t, testConfig)
	nested := filepath.Join(filepath.Dir(path), "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0750))

	cfg, err := Load(LoadOptions{Dir: nested})
	require.NoError(t, err)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestLoad_NamedTarget(t *testing.T) {
	path := writeConfig(t, testConfig)

	cfg, err := Load(LoadOptions{File: path, Target: "analytics"})
	require.NoError(t, err)

	assert.Equal(t, "analytics", cfg.TargetName)
	assert.Equal(t, "postgres", cfg.Target.Type)
	assert.Equal(t, "warehouse", cfg.Target.Database)
	assert.Equal(t, "reporting", cfg.Target.Schema)
	assert.Equal(t, "db.internal", cfg.Target.Host, "unset fields come from the base target")
	assert.Equal(t, 5432, cfg.Target.Port)

	catalog := cfg.Target.Catalog.SchemaCatalog()
	assert.Equal(t, "information_schema", catalog.Schema)
	assert.Equal(t, "_key", catalog.UniqueSuffix)
	assert.Equal(t, "index_listing", catalog.IndexesView)
	assert.Empty(t, catalog.TablesView, "unset views keep the adapter's layout")

	var none *CatalogConfig
	assert.Equal(t, schema.Catalog{}, none.SchemaCatalog())
}

func TestLoad_UnknownTarget(t *testing.T) {
	path := writeConfig(t, testConfig)

	_, err := Load(LoadOptions{File: path, Target: "prod"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown target "prod"`)
	assert.Contains(t, err.Error(), "analytics, local")
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, testConfig)
	t.Setenv("SQLMETA_TARGET_HOST", "env-host")
	t.Setenv("SQLMETA_TARGET_PORT", "3307")
	t.Setenv("SQLMETA_OUTPUT", "yaml")
	t.Setenv("SQLMETA_UNRELATED", "ignored")

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--host", "flag-host", "--schema", "hr_archive"}))

	cfg, err := Load(LoadOptions{File: path, Flags: fs})
	require.NoError(t, err)

	assert.Equal(t, "flag-host", cfg.Target.Host, "flags beat env")
	assert.Equal(t, 3307, cfg.Target.Port, "env beats file")
	assert.Equal(t, "yaml", cfg.OutputFormat)
	assert.Equal(t, "hr_archive", cfg.Target.Schema)
	assert.Equal(t, "hr", cfg.Target.Database, "unset flags do not override")
}

func TestLoad_InvalidFile(t *testing.T) {
	path := writeConfig(t, "target: [unclosed")

	_, err := Load(LoadOptions{File: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestTargetConfig_AdapterConfig(t *testing.T) {
	sqlite := TargetConfig{Type: "SQLite", Database: "hr.db", Schema: "main"}
	cfg := sqlite.AdapterConfig()
	assert.Equal(t, "sqlite", cfg.Type)
	assert.Equal(t, "hr.db", cfg.Path)

	mysql := TargetConfig{Type: "mysql", Database: "hr", User: "app", Host: "h", Port: 3306}
	cfg = mysql.AdapterConfig()
	assert.Empty(t, cfg.Path)
	assert.Equal(t, "hr", cfg.Database)
	assert.Equal(t, "app", cfg.Username)
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)
	assert.NotNil(t, GetLogger(context.Background()))

	cfg := &Config{OutputFormat: "text"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := NewContext(context.Background(), cfg, logger)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, cfg, got)
	assert.Same(t, logger, GetLogger(ctx))
}
