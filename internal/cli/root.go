// Package cli provides the command-line interface for sqlmeta.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlmeta/internal/cli/commands"
	"github.com/leapstack-labs/sqlmeta/internal/cli/config"
	"github.com/leapstack-labs/sqlmeta/internal/cli/output"
	"github.com/leapstack-labs/sqlmeta/pkg/adapter"

	// Register the database adapters.
	_ "github.com/leapstack-labs/sqlmeta/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/sqlmeta/pkg/adapters/mysql"
	_ "github.com/leapstack-labs/sqlmeta/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/sqlmeta/pkg/adapters/sqlite"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var (
		cfgFile    string
		targetFlag string
	)

	rootCmd := &cobra.Command{
		Use:   "sqlmeta",
		Short: "sqlmeta - SQL query builder and schema inspector",
		Long: `sqlmeta builds SELECT statements from simple filters and renders them as
literal SQL, with ? placeholders or with @param placeholders. It runs them
against MySQL, PostgreSQL, DuckDB or SQLite and reads table metadata
(columns, keys, indexes) from the database catalog.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(config.LoadOptions{
				File:   cfgFile,
				Target: targetFlag,
				Flags:  cmd.Root().PersistentFlags(),
			})
			if err != nil {
				return err
			}

			logger := newLogger(cmd, cfg.Verbose)
			if cfg.ConfigFile != "" {
				logger.Debug("using config file", slog.String("path", cfg.ConfigFile))
			}
			if cfg.TargetName != "" {
				logger.Debug("using target", slog.String("target", cfg.TargetName), slog.String("type", cfg.Target.Type))
			}

			cmd.SetContext(config.NewContext(cmd.Context(), cfg, logger))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
SQL query builder and schema inspector
`)

	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: sqlmeta.yaml in this or a parent directory)")
	pf.StringVarP(&targetFlag, "target", "t", "", "Named target from the config file")
	pf.String("type", "", "Database type ("+strings.Join(adapter.ListAdapters(), "|")+")")
	pf.String("host", "", "Database host")
	pf.Int("port", 0, "Database port")
	pf.String("database", "", "Database name, or file path for duckdb and sqlite")
	pf.String("user", "", "Database user")
	pf.String("password", "", "Database password")
	pf.String("schema", "", "Schema that qualifies table names")
	pf.BoolP("verbose", "v", false, "Verbose output")
	pf.StringP("output", "o", "", "Output format (auto|text|markdown|json|yaml|csv)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		modes := make([]string, len(output.Modes))
		for i, m := range output.Modes {
			modes[i] = string(m)
		}
		return modes, cobra.ShellCompDirectiveNoFileComp
	})

	_ = rootCmd.RegisterFlagCompletionFunc("type", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return adapter.ListAdapters(), cobra.ShellCompDirectiveNoFileComp
	})

	// Complete target names from the config file
	_ = rootCmd.RegisterFlagCompletionFunc("target", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		cfg, err := config.Load(config.LoadOptions{File: cfgFile})
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		names := make([]string, 0, len(cfg.Targets))
		for name := range cfg.Targets {
			names = append(names, name)
		}
		sort.Strings(names)
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewRenderCommand())
	rootCmd.AddCommand(commands.NewQueryCommand())
	rootCmd.AddCommand(commands.NewExistsCommand())
	rootCmd.AddCommand(commands.NewDescribeCommand())
	rootCmd.AddCommand(commands.NewAdaptersCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// newLogger writes text logs to the command's error stream. Verbose enables
// debug output; otherwise only warnings and errors are shown.
func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sqlmeta.

To load completions:

Bash:
  $ source <(sqlmeta completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ sqlmeta completion bash > /etc/bash_completion.d/sqlmeta
  # macOS:
  $ sqlmeta completion bash > $(brew --prefix)/etc/bash_completion.d/sqlmeta

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ sqlmeta completion zsh > "${fpath[1]}/_sqlmeta"

Fish:
  $ sqlmeta completion fish | source

  # To load completions for each session, execute once:
  $ sqlmeta completion fish > ~/.config/fish/completions/sqlmeta.fish

PowerShell:
  PS> sqlmeta completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
