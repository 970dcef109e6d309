package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlmeta/internal/cli/output"
	"github.com/leapstack-labs/sqlmeta/pkg/adapter"
	"github.com/leapstack-labs/sqlmeta/pkg/core"
	"github.com/leapstack-labs/sqlmeta/pkg/query"
)

// RenderOutput is the structured form of a rendered statement.
type RenderOutput struct {
	Table       string            `json:"table" yaml:"table"`
	Mode        string            `json:"mode" yaml:"mode"`
	SQL         string            `json:"sql" yaml:"sql"`
	Params      []any             `json:"params,omitempty" yaml:"params,omitempty"`
	NamedParams map[string]any    `json:"named_params,omitempty" yaml:"named_params,omitempty"`
	Types       map[string]string `json:"types,omitempty" yaml:"types,omitempty"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	var (
		filters filterFlags
		mode    string
		dbName  string
	)

	cmd := &cobra.Command{
		Use:   "render <table>",
		Short: "Render the SQL for a query without connecting",
		Long: `Render the SELECT (or SHOW INDEX) statement for a table with the given
filters, ordering and window. Nothing is executed.

Modes:
  - literal:    values are embedded as SQL literals
  - positional: values become ? placeholders, returned in order
  - named:      values become @param0.. placeholders, returned with type tags

The target schema qualifies the table unless --db is given. Literal strings
are escaped for the target type: backslashes are doubled for MySQL only.`,
		Example: `  # Equality filters
  sqlmeta render Employee --eq name="John Doe" --eq country=USA

  # Conditions with positional parameters
  sqlmeta render employee -w "age>=30" -w "country in (DE, UK)" --mode positional

  # Explicit value ordering and a row window
  sqlmeta render employee --sort "country=USA,UK" --window 0:10

  # As JSON with named parameters
  sqlmeta render employee -w "name like J%" --mode named -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], &filters, mode, dbName)
		},
	}

	filters.register(cmd.Flags())
	cmd.Flags().StringVarP(&mode, "mode", "m", query.ModeLiteral.String(), "Parameter mode (literal|positional|named)")
	cmd.Flags().StringVar(&dbName, "db", "", "Qualify the table with this database name")

	_ = cmd.RegisterFlagCompletionFunc("mode", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"literal", "positional", "named"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func parseParamMode(s string) (query.Mode, error) {
	for _, m := range []query.Mode{query.ModeLiteral, query.ModePositional, query.ModeNamed} {
		if s == m.String() {
			return m, nil
		}
	}
	return 0, fmt.Errorf("invalid mode %q (valid: literal, positional, named)", s)
}

// standardStrings reports whether the engine behind typ keeps backslashes in
// string literals. Unknown types get MySQL escaping.
func standardStrings(typ string) bool {
	if typ == "" {
		return false
	}
	adp, err := adapter.NewAdapter(core.AdapterConfig{Type: typ}, nil)
	if err != nil {
		return false
	}
	return adp.ParamConfig().StandardStrings
}

func runRender(cmd *cobra.Command, table string, filters *filterFlags, modeName, dbName string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	mode, err := parseParamMode(modeName)
	if err != nil {
		return err
	}

	qb, err := filters.build(table)
	if err != nil {
		return err
	}
	qb.Schema(cmdCtx.Cfg.Target.Schema)

	cfg := query.ConfigFor(mode)
	cfg.DBName = dbName
	cfg.StandardStrings = standardStrings(cmdCtx.Cfg.Target.Type)
	stmt, err := qb.ToSQL(cfg)
	if err != nil {
		return fmt.Errorf("failed to render query: %w", err)
	}
	cmdCtx.Logger.Debug("rendered query", slog.String("table", table), slog.String("mode", mode.String()))

	out := RenderOutput{Table: table, Mode: mode.String(), SQL: stmt.SQL}
	switch mode {
	case query.ModePositional:
		out.Params = stmt.Params
	case query.ModeNamed:
		out.NamedParams = stmt.NamedParams.Params
		out.Types = stmt.NamedParams.Types
	}

	if handled, err := r.Structured(out); handled {
		return err
	}

	lines := paramLines(out)
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, "Rendered SQL: "+table))
		r.Println("")
		r.Println(output.FormatCodeBlock("sql", out.SQL))
		if len(lines) > 0 {
			r.Println("")
			for _, l := range lines {
				r.Println(output.FormatKeyValue(l.name, "`"+l.value+"`"))
			}
		}
		return nil
	}

	// Text mode: the SQL, then one comment line per parameter.
	r.Println(out.SQL)
	for _, l := range lines {
		r.Println(r.Styles().Muted.Render(fmt.Sprintf("-- %s = %s", l.name, l.value)))
	}
	return nil
}

type paramLine struct {
	name  string
	value string
}

func paramLines(out RenderOutput) []paramLine {
	var lines []paramLine
	if out.NamedParams != nil {
		for i := 0; i < len(out.NamedParams); i++ {
			name := "param" + strconv.Itoa(i)
			lines = append(lines, paramLine{
				name:  fmt.Sprintf("@%s (%s)", name, out.Types[name]),
				value: jsonValue(out.NamedParams[name]),
			})
		}
		return lines
	}
	for i, p := range out.Params {
		lines = append(lines, paramLine{name: "?" + strconv.Itoa(i+1), value: jsonValue(p)})
	}
	return lines
}

func jsonValue(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
