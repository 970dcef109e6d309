package commands

import (
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlmeta/internal/cli/output"
	"github.com/leapstack-labs/sqlmeta/pkg/core"
	"github.com/leapstack-labs/sqlmeta/pkg/schema"
)

var (
	columnHeaders     = []string{"COLUMN_NAME", "DATA_TYPE", "IS_NULLABLE", "COLUMN_KEY", "COLUMN_DEFAULT"}
	foreignKeyHeaders = []string{"COLUMN_NAME", "CONSTRAINT_NAME", "REFERENCED_TABLE_NAME", "REFERENCED_COLUMN_NAME"}
)

// NewDescribeCommand creates the describe command.
func NewDescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <table>",
		Short: "Show columns, keys and indexes of a table",
		Long: `Describe a table from the database catalog: column metadata, primary key,
foreign keys, unique columns and indexes. The catalog queries run concurrently.`,
		Example: `  sqlmeta describe employee
  sqlmeta describe employee -o yaml
  sqlmeta describe orders --target analytics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(cmd, args[0])
		},
	}
}

func runDescribe(cmd *cobra.Command, tableName string) error {
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

	ts, err := meta.Describe(ctx, core.NewTable(tableName))
	if err != nil {
		return err
	}
	return renderSchema(cmdCtx.Renderer, ts)
}

func renderSchema(r *output.Renderer, ts *schema.TableSchema) error {
	if handled, err := r.Structured(ts); handled {
		return err
	}

	if !ts.Exists {
		r.Warning("table " + ts.Name + " does not exist")
		return nil
	}

	r.Header(1, "Table: "+ts.Name)

	r.Header(2, "Columns")
	if err := r.Rows(columnHeaders, orderedColumns(ts.Columns)); err != nil {
		return err
	}

	r.Header(2, "Keys")
	keyValue(r, "primary key", listOrNone(ts.PrimaryKey))
	keyValue(r, "unique", listOrNone(ts.UniqueColumns))

	if len(ts.ForeignKeys) > 0 {
		r.Header(2, "Foreign keys")
		if err := r.Rows(foreignKeyHeaders, sortedRows(ts.ForeignKeys)); err != nil {
			return err
		}
	}

	if len(ts.Indexes) > 0 {
		r.Header(2, "Indexes")
		rows := make([]core.Row, 0, len(ts.Indexes))
		for _, idx := range ts.Indexes {
			rows = append(rows, core.Row{"INDEX": idx.Name, "COLUMNS": strings.Join(idx.Columns, ", ")})
		}
		if err := r.Rows([]string{"INDEX", "COLUMNS"}, rows); err != nil {
			return err
		}
	}
	return nil
}

// orderedColumns sorts catalog rows by ORDINAL_POSITION. Rows without a
// position follow, in name order.
func orderedColumns(columns map[string]core.Row) []core.Row {
	rows := sortedRows(columns)
	sort.SliceStable(rows, func(i, j int) bool {
		pi, iok := position(rows[i])
		pj, jok := position(rows[j])
		if iok && jok {
			return pi < pj
		}
		return iok && !jok
	})
	return rows
}

func position(row core.Row) (int, bool) {
	p, err := strconv.Atoi(row.String("ORDINAL_POSITION"))
	return p, err == nil
}

// sortedRows returns the rows ordered by key.
func sortedRows(m map[string]core.Row) []core.Row {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]core.Row, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, m[k])
	}
	return rows
}

func keyValue(r *output.Renderer, key, value string) {
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatKeyValue(key, value))
		return
	}
	r.Println(r.Styles().Bold.Render(key+":") + " " + value)
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
