package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/leapstack-labs/sqlmeta/pkg/query"
)

// whereOps are matched case-insensitively. The earliest match wins; on a tie
// the longer token wins, so "<=" beats "<" and " is not " beats " is ".
var whereOps = []struct {
	token string
	op    query.Operator
}{
	{" not like ", query.OpNotLike},
	{" like ", query.OpLike},
	{" not in ", query.OpNotIn},
	{" in ", query.OpIn},
	{" is not ", query.OpIsNot},
	{" is ", query.OpIs},
	{">=", query.OpGte},
	{"<=", query.OpLte},
	{"<>", query.OpNe},
	{"!=", query.OpNeBang},
	{"=", query.OpEq},
	{">", query.OpGt},
	{"<", query.OpLt},
}

// parseWhere parses "column<op>value", e.g. "age>=30", "name like 'J%'" or
// "country in (DE, UK)".
func parseWhere(expr string) (query.Condition, error) {
	lower := strings.ToLower(expr)
	best, at := -1, -1
	for i, o := range whereOps {
		idx := strings.Index(lower, o.token)
		if idx < 0 {
			continue
		}
		if at < 0 || idx < at || (idx == at && len(o.token) > len(whereOps[best].token)) {
			best, at = i, idx
		}
	}
	if best < 0 {
		return query.Condition{}, fmt.Errorf("invalid where %q: expected column<op>value", expr)
	}

	o := whereOps[best]
	column := strings.TrimSpace(expr[:at])
	if column == "" {
		return query.Condition{}, fmt.Errorf("invalid where %q: missing column", expr)
	}

	raw := strings.TrimSpace(expr[at+len(o.token):])
	var value any
	if o.op.TakesList() {
		value = parseList(raw)
	} else {
		value = parseValue(raw)
	}
	return query.Condition{Column: column, Operator: o.op, Value: value}, nil
}

// parseEquality parses "column=value".
func parseEquality(expr string) (query.Equality, error) {
	column, raw, ok := strings.Cut(expr, "=")
	column = strings.TrimSpace(column)
	if !ok || column == "" {
		return query.Equality{}, fmt.Errorf("invalid equality %q: expected column=value", expr)
	}
	return query.Equality{Column: column, Value: parseValue(strings.TrimSpace(raw))}, nil
}

// parseValue reads null, booleans and numbers; anything else is a string.
// Quoting with ' or " forces a string.
func parseValue(raw string) any {
	if n := len(raw); n >= 2 && (raw[0] == '\'' && raw[n-1] == '\'' || raw[0] == '"' && raw[n-1] == '"') {
		return raw[1 : n-1]
	}
	switch strings.ToLower(raw) {
	case "null":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	// ParseFloat also accepts "inf" and "nan".
	if strings.ContainsAny(raw, "0123456789") {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	}
	return raw
}

// parseList reads a comma-separated list, optionally wrapped in parentheses.
func parseList(raw string) []any {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		raw = raw[1 : len(raw)-1]
	}
	if strings.TrimSpace(raw) == "" {
		return []any{}
	}
	parts := strings.Split(raw, ",")
	out := make([]any, 0, len(parts))
	for _, p := range parts {
		out = append(out, parseValue(strings.TrimSpace(p)))
	}
	return out
}

// parseSort reads "col", "col:desc", "col:asc" or "col=v1,v2" (explicit value order).
func parseSort(expr string) (query.Sort, error) {
	if column, values, ok := strings.Cut(expr, "="); ok {
		column = strings.TrimSpace(column)
		if column == "" {
			return query.Sort{}, fmt.Errorf("invalid sort %q: missing column", expr)
		}
		return query.Sort{Column: column, ByValues: parseList(values)}, nil
	}

	column, dir, _ := strings.Cut(expr, ":")
	column = strings.TrimSpace(column)
	if column == "" {
		return query.Sort{}, fmt.Errorf("invalid sort %q: missing column", expr)
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
		return query.Sort{Column: column}, nil
	case "desc":
		return query.Sort{Column: column, Desc: true}, nil
	default:
		return query.Sort{}, fmt.Errorf("invalid sort direction %q (valid: asc, desc)", dir)
	}
}

// parseWindow reads "start:end".
func parseWindow(expr string) (start, end int, err error) {
	a, b, ok := strings.Cut(expr, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid window %q: expected start:end", expr)
	}
	if start, err = strconv.Atoi(strings.TrimSpace(a)); err != nil {
		return 0, 0, fmt.Errorf("invalid window start %q: %w", a, err)
	}
	if end, err = strconv.Atoi(strings.TrimSpace(b)); err != nil {
		return 0, 0, fmt.Errorf("invalid window end %q: %w", b, err)
	}
	return start, end, nil
}

// filterFlags collects the query-shaping flags shared by render and query.
type filterFlags struct {
	where   []string
	eq      []string
	columns []string
	sorts   []string
	window  string
	indexes bool
}

func (f *filterFlags) register(fs *pflag.FlagSet) {
	fs.StringArrayVarP(&f.where, "where", "w", nil, `Condition "column<op>value" (repeatable, joined with AND)`)
	fs.StringArrayVar(&f.eq, "eq", nil, `Equality "column=value" (repeatable, cannot be combined with --where)`)
	fs.StringSliceVarP(&f.columns, "columns", "c", nil, "Columns to select (default *)")
	fs.StringArrayVarP(&f.sorts, "sort", "s", nil, `Sort key "col", "col:desc" or "col=v1,v2" (repeatable)`)
	fs.StringVar(&f.window, "window", "", `Row window "start:end" (LIMIT end-start OFFSET start)`)
	fs.BoolVar(&f.indexes, "indexes", false, "List the table's indexes instead of selecting rows")
}

// build assembles the query. Construction errors are returned immediately.
func (f *filterFlags) build(table string) (*query.Builder, error) {
	var qb *query.Builder
	if len(f.eq) > 0 {
		eqs := make(query.Equalities, 0, len(f.eq))
		for _, expr := range f.eq {
			e, err := parseEquality(expr)
			if err != nil {
				return nil, err
			}
			eqs = append(eqs, e)
		}
		qb = query.FromObject(eqs, table)
	} else {
		qb = query.New(table)
	}

	for _, expr := range f.where {
		c, err := parseWhere(expr)
		if err != nil {
			return nil, err
		}
		qb.Condition(c)
	}

	if f.indexes || len(f.columns) > 0 {
		qb.Select(query.SelectOptions{Indexes: f.indexes, Columns: f.columns})
	}

	for _, expr := range f.sorts {
		s, err := parseSort(expr)
		if err != nil {
			return nil, err
		}
		qb.Sort(s)
	}

	if f.window != "" {
		start, end, err := parseWindow(f.window)
		if err != nil {
			return nil, err
		}
		qb.Window(start, end)
	}

	return qb, qb.Err()
}
