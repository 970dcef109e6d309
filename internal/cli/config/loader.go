package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SQLMETA_"

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

var configNames = []string{"sqlmeta.yaml", "sqlmeta.yml"}

// targetFlags maps connection flags to their config keys.
var targetFlags = map[string]string{
	"type":     "target.type",
	"host":     "target.host",
	"port":     "target.port",
	"database": "target.database",
	"user":     "target.user",
	"password": "target.password",
	"schema":   "target.schema",
}

// LoadOptions selects the config sources.
type LoadOptions struct {
	// File is an explicit config file path. Empty searches the working
	// directory and its parents for sqlmeta.yaml.
	File string
	// Target names an entry of targets merged over the base target.
	Target string
	// Flags are applied last; only explicitly set flags are read.
	Flags *pflag.FlagSet
	// Dir is the search start directory. Empty uses the working directory.
	Dir string
}

type configKey struct{}

// loggerKey is used to store logger in context.
type loggerKey struct{}

// findConfigUpward searches upward from startDir for a sqlmeta config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findConfigUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		for _, name := range configNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// Load builds the configuration.
// Precedence (highest to lowest): flags > env vars > named target > config file > defaults
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"verbose":     false,
		"output":      DefaultOutput,
		"target.type": DefaultType,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	cfgFile := opts.File
	if cfgFile == "" {
		dir := opts.Dir
		if dir == "" {
			dir, _ = os.Getwd()
		}
		cfgFile = findConfigUpward(dir)
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// 3. Named target
	if opts.Target != "" {
		path := "targets." + opts.Target
		if !k.Exists(path) {
			return nil, fmt.Errorf("unknown target %q (available: %s)", opts.Target, strings.Join(targetNames(k), ", "))
		}
		if err := k.MergeAt(k.Cut(path), "target"); err != nil {
			return nil, fmt.Errorf("failed to apply target %q: %w", opts.Target, err)
		}
	}

	// 4. Environment: SQLMETA_OUTPUT -> output, SQLMETA_TARGET_HOST -> target.host
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 5. Flags
	if opts.Flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			if key, ok := targetFlags[f.Name]; ok {
				return key, posflag.FlagVal(opts.Flags, f)
			}
			switch f.Name {
			case "output", "verbose":
				return f.Name, posflag.FlagVal(opts.Flags, f)
			}
			return "", nil
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ConfigFile = cfgFile
	cfg.TargetName = opts.Target

	if cfg.Target == nil {
		cfg.Target = &TargetConfig{Type: DefaultType}
	}
	expandTargetEnvVars(cfg.Target)
	ApplyTargetDefaults(cfg.Target)

	return &cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if field, ok := strings.CutPrefix(key, "target_"); ok {
		return "target." + field
	}
	switch key {
	case "output", "verbose":
		return key
	}
	return ""
}

func targetNames(k *koanf.Koanf) []string {
	names := k.MapKeys("targets")
	sort.Strings(names)
	return names
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
// Unset variables are left as-is.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val := os.Getenv(match[2 : len(match)-1]); val != "" {
			return val
		}
		return match
	})
}

// expandTargetEnvVars expands environment variables in sensitive target fields.
func expandTargetEnvVars(t *TargetConfig) {
	t.Password = expandEnvVars(t.Password)
	t.User = expandEnvVars(t.User)
	t.Host = expandEnvVars(t.Host)
	t.Database = expandEnvVars(t.Database)
}

// NewContext returns a copy of ctx carrying cfg and logger.
func NewContext(ctx context.Context, cfg *Config, logger *slog.Logger) context.Context {
	ctx = context.WithValue(ctx, configKey{}, cfg)
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext retrieves the config stored by NewContext.
func FromContext(ctx context.Context) (*Config, bool) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	return cfg, ok
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
