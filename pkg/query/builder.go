package query

import (
	"fmt"
	"sort"
)

type form int

const (
	formConditions form = iota
	formEqualities
)

type clause struct {
	column string
	op     Operator
	value  Value
}

type sortKey struct {
	column   string
	desc     bool
	byValues []Value
}

type window struct {
	start, end int
}

type cte struct {
	name, body string
}

// Builder accumulates a query against one table. Mutating methods return the
// builder for chaining; the first invalid input is kept and reported by ToSQL.
//
// A Builder must not be mutated concurrently with ToSQL.
type Builder struct {
	table   string
	schema  string
	form    form
	clauses []clause
	sel     SelectOptions
	sorts   []sortKey
	window  *window
	with    []cte
	err     error
}

// New returns a builder for table with no conditions.
func New(table string) *Builder {
	b := &Builder{table: table}
	if table == "" {
		b.err = ErrEmptyTable
	}
	return b
}

// FromObject returns a builder whose filter is eq, rendered as AND-ed
// equalities in slice order.
func FromObject(eq Equalities, table string) *Builder {
	return Where(table, eq)
}

// FromMap is FromObject for a plain map. Keys are taken in lexical order.
func FromMap(m map[string]any, table string) *Builder {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	eq := make(Equalities, len(keys))
	for i, k := range keys {
		eq[i] = Equality{Column: k, Value: m[k]}
	}
	return FromObject(eq, table)
}

// Where returns a builder for table filtered by f. The filter shape decides
// the builder's form.
func Where(table string, f Filter) *Builder {
	b := New(table)
	switch f := f.(type) {
	case nil:
	case Equalities:
		b.form = formEqualities
		for _, c := range f.conditions() {
			b.add(c)
		}
	case Conditions:
		for _, c := range f {
			b.add(c)
		}
	default:
		b.setErr(fmt.Errorf("unknown filter type %T", f))
	}
	return b
}

// Condition appends one explicit condition.
func (b *Builder) Condition(c Condition) *Builder {
	if b.form == formEqualities {
		b.setErr(ErrMixedFilter)
		return b
	}
	b.add(c)
	return b
}

// Select sets the statement head.
func (b *Builder) Select(opts SelectOptions) *Builder {
	for _, col := range opts.Columns {
		if col == "" {
			b.setErr(ErrEmptyColumn)
		}
	}
	b.sel = SelectOptions{
		Indexes: opts.Indexes,
		Columns: append([]string(nil), opts.Columns...),
	}
	return b
}

// Schema sets the default schema qualifier, used when ParamConfig.DBName is
// empty.
func (b *Builder) Schema(name string) *Builder {
	b.schema = name
	return b
}

// With prepends a common table expression named name. body is a complete
// SELECT written verbatim into the statement; it must not contain
// placeholders.
func (b *Builder) With(name, body string) *Builder {
	if name == "" || body == "" {
		b.setErr(fmt.Errorf("%w: common table expression needs a name and a body", ErrEmptyTable))
		return b
	}
	b.with = append(b.with, cte{name: name, body: body})
	return b
}

// Sort appends ORDER BY keys in the given order.
func (b *Builder) Sort(keys ...Sort) *Builder {
	for _, k := range keys {
		if k.Column == "" {
			b.setErr(ErrEmptyColumn)
			continue
		}
		key := sortKey{column: k.Column, desc: k.Desc}
		for _, raw := range k.ByValues {
			v, err := ValueOf(raw)
			if err == nil && v.Kind() == KindList {
				err = &ValueError{Column: k.Column, Reason: "sort values must be scalars"}
			}
			if err != nil {
				b.setErr(columnErr(k.Column, err))
				break
			}
			key.byValues = append(key.byValues, v)
		}
		b.sorts = append(b.sorts, key)
	}
	return b
}

// Window limits the result to rows [start, end).
func (b *Builder) Window(start, end int) *Builder {
	if start < 0 || end < start {
		b.setErr(fmt.Errorf("%w: start=%d end=%d", ErrInvalidWindow, start, end))
		return b
	}
	b.window = &window{start: start, end: end}
	return b
}

// Err returns the first construction error, if any.
func (b *Builder) Err() error { return b.err }

// Table returns the target table name.
func (b *Builder) Table() string { return b.table }

// Len returns the number of conditions.
func (b *Builder) Len() int { return len(b.clauses) }

func (b *Builder) add(c Condition) {
	if c.Column == "" {
		b.setErr(ErrEmptyColumn)
		return
	}
	op, err := ParseOperator(string(c.Operator))
	if err != nil {
		b.setErr(err)
		return
	}
	v, err := ValueOf(c.Value)
	if err != nil {
		b.setErr(columnErr(c.Column, err))
		return
	}
	op = nullComparison(op, v)
	if err := op.check(c.Column, v); err != nil {
		b.setErr(err)
		return
	}
	b.clauses = append(b.clauses, clause{column: c.Column, op: op, value: v})
}

// nullComparison rewrites = NULL and <> NULL, which match no row, to IS and
// IS NOT.
func nullComparison(op Operator, v Value) Operator {
	if !v.IsNull() {
		return op
	}
	switch op {
	case OpEq:
		return OpIs
	case OpNe, OpNeBang:
		return OpIsNot
	}
	return op
}

func (b *Builder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

func columnErr(column string, err error) error {
	if ve, ok := err.(*ValueError); ok && ve.Column == "" {
		return &ValueError{Column: column, Reason: ve.Reason}
	}
	return err
}
