package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlmeta/internal/cli/output"
	"github.com/leapstack-labs/sqlmeta/pkg/core"
)

// ExistsOutput is the structured result of the exists command.
type ExistsOutput struct {
	Table  string `json:"table" yaml:"table"`
	Column string `json:"column,omitempty" yaml:"column,omitempty"`
	Exists bool   `json:"exists" yaml:"exists"`
}

// NewExistsCommand creates the exists command.
func NewExistsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "exists <table> [column]",
		Short: "Check whether a table or column exists",
		Long: `Check the catalog for a table, or for a column of a table in the
target's database.`,
		Example: `  sqlmeta exists employee
  sqlmeta exists employee email -o json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			column := ""
			if len(args) == 2 {
				column = args[1]
			}
			return runExists(cmd, args[0], column)
		},
	}
}

func runExists(cmd *cobra.Command, tableName, column string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	adp, meta, err := cmdCtx.Open(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = adp.Close() }()

	table := core.NewTable(tableName)
	out := ExistsOutput{Table: tableName, Column: column}
	if column == "" {
		out.Exists, err = meta.TableExists(ctx, table)
	} else {
		out.Exists, err = meta.ColumnExists(ctx, column, table)
	}
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if handled, err := r.Structured(out); handled {
		return err
	}

	subject := "table " + tableName
	if column != "" {
		subject = fmt.Sprintf("column %s.%s", tableName, column)
	}
	verdict := "exists"
	if !out.Exists {
		verdict = "does not exist"
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatKeyValue(subject, verdict))
		return nil
	}
	style := r.Styles().Success
	if !out.Exists {
		style = r.Styles().Warning
	}
	r.Println(subject + " " + style.Render(verdict))
	return nil
}
