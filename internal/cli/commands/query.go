package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlmeta/internal/cli/output"
	"github.com/leapstack-labs/sqlmeta/pkg/core"
)

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "query <table>",
		Short: "Run a filtered SELECT against the target",
		Long: `Build a SELECT from the filter flags, run it against the configured target
with that adapter's parameter style, and print the rows.

Output formats:
  - text:     Formatted table (default for TTY)
  - markdown: Markdown table (default for non-TTY)
  - json:     JSON array of objects
  - yaml:     YAML list of maps
  - csv:      Comma-separated values`,
		Example: `  # Filter and sort
  sqlmeta query employee -w "age>=30" --sort age:desc

  # Only some columns, first ten rows, as CSV
  sqlmeta query employee -c name,country --window 0:10 -o csv

  # Against a named target
  sqlmeta query orders --eq status=open --target analytics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args[0], &filters)
		},
	}

	filters.register(cmd.Flags())
	return cmd
}

func runQuery(cmd *cobra.Command, table string, filters *filterFlags) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	qb, err := filters.build(table)
	if err != nil {
		return err
	}

	adp, _, err := cmdCtx.Open(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = adp.Close() }()

	rows, err := adp.RunQuery(ctx, core.Statement(qb, adp.DBName()))
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	cmdCtx.Logger.Debug("query returned", slog.String("table", table), slog.Int("rows", len(rows)))

	cols := filters.columns
	if len(cols) == 0 {
		cols = output.Columns(rows)
	}
	return cmdCtx.Renderer.Rows(cols, rows)
}
