package query

import (
	"strconv"
	"strings"
)

// ToSQL renders the query. It does not modify the builder and returns the
// same result for the same configuration.
func (b *Builder) ToSQL(cfg ParamConfig) (Serialized, error) {
	if b.err != nil {
		return Serialized{}, b.err
	}
	if b.sel.Indexes && (len(b.sorts) > 0 || b.window != nil) {
		return Serialized{}, ErrIndexModeClause
	}

	r := newRenderer(cfg.Mode())
	r.standard = cfg.StandardStrings
	r.sb.WriteString(b.head(cfg))

	if len(b.clauses) > 0 {
		r.sb.WriteString(" WHERE ")
		for i, c := range b.clauses {
			if i > 0 {
				r.sb.WriteString(" AND ")
			}
			r.sb.WriteString(c.column)
			r.sb.WriteByte(' ')
			r.sb.WriteString(string(c.op))
			r.sb.WriteByte(' ')
			if c.op.TakesKeyword() {
				r.keyword(c.value)
				continue
			}
			if err := r.value(c.value); err != nil {
				return Serialized{}, columnErr(c.column, err)
			}
		}
	}

	if len(b.sorts) > 0 {
		r.sb.WriteString(" ORDER BY ")
		for i, k := range b.sorts {
			if i > 0 {
				r.sb.WriteString(", ")
			}
			if err := r.sortKey(k); err != nil {
				return Serialized{}, columnErr(k.column, err)
			}
		}
	}

	if b.window != nil {
		r.sb.WriteString(" LIMIT ")
		r.sb.WriteString(strconv.Itoa(b.window.end - b.window.start))
		r.sb.WriteString(" OFFSET ")
		r.sb.WriteString(strconv.Itoa(b.window.start))
	}

	r.sb.WriteByte(';')
	return r.result(), nil
}

func (b *Builder) head(cfg ParamConfig) string {
	var with string
	if len(b.with) > 0 {
		parts := make([]string, len(b.with))
		for i, c := range b.with {
			parts[i] = c.name + " AS (" + c.body + ")"
		}
		with = "WITH " + strings.Join(parts, ", ") + " "
	}

	qualifier := cfg.DBName
	if qualifier == "" {
		qualifier = b.schema
	}
	target := b.table
	if qualifier != "" {
		target = qualifier + "." + b.table
	}

	if b.sel.Indexes {
		return "SHOW INDEX FROM " + target
	}
	cols := "*"
	if len(b.sel.Columns) > 0 {
		cols = strings.Join(b.sel.Columns, ", ")
	}
	return with + "SELECT " + cols + " FROM " + target
}

// renderer writes value tokens for one mode and collects parameters.
type renderer struct {
	mode     Mode
	standard bool
	sb       strings.Builder
	params   []any
	named    *NamedParams
}

func newRenderer(mode Mode) *renderer {
	r := &renderer{mode: mode}
	switch mode {
	case ModePositional:
		r.params = []any{}
	case ModeNamed:
		r.params = []any{}
		r.named = &NamedParams{
			Params: map[string]any{},
			Types:  map[string]string{},
		}
	}
	return r
}

func (r *renderer) value(v Value) error {
	if v.Kind() == KindList {
		r.sb.WriteByte('(')
		for i, e := range v.Elems() {
			if i > 0 {
				r.sb.WriteString(", ")
			}
			if err := r.scalar(e); err != nil {
				return err
			}
		}
		r.sb.WriteByte(')')
		return nil
	}
	return r.scalar(v)
}

func (r *renderer) scalar(v Value) error {
	switch r.mode {
	case ModePositional:
		r.sb.WriteByte('?')
		r.params = append(r.params, v.Native())
	case ModeNamed:
		name := "param" + strconv.Itoa(len(r.params))
		r.sb.WriteByte('@')
		r.sb.WriteString(name)
		r.params = append(r.params, v.Native())
		r.named.Params[name] = v.Native()
		r.named.Types[name] = v.TypeName()
	default:
		lit, err := v.Literal()
		if r.standard {
			lit, err = v.StandardLiteral()
		}
		if err != nil {
			return err
		}
		r.sb.WriteString(lit)
	}
	return nil
}

// keyword writes NULL, TRUE or FALSE. Keywords are never parameters.
func (r *renderer) keyword(v Value) {
	switch {
	case v.IsNull():
		r.sb.WriteString("NULL")
	case v.Native() == true:
		r.sb.WriteString("TRUE")
	default:
		r.sb.WriteString("FALSE")
	}
}

func (r *renderer) sortKey(k sortKey) error {
	if len(k.byValues) > 0 {
		r.sb.WriteString("FIELD(")
		r.sb.WriteString(k.column)
		for _, v := range k.byValues {
			r.sb.WriteString(", ")
			if err := r.scalar(v); err != nil {
				return err
			}
		}
		r.sb.WriteByte(')')
		return nil
	}
	r.sb.WriteString(k.column)
	if k.desc {
		r.sb.WriteString(" DESC")
	} else {
		r.sb.WriteString(" ASC")
	}
	return nil
}

func (r *renderer) result() Serialized {
	return Serialized{
		SQL:         r.sb.String(),
		Params:      r.params,
		NamedParams: r.named,
	}
}
