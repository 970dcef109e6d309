package query

// Condition is one explicit comparison: Column Operator Value.
// Value accepts anything ValueOf accepts, including a Value.
type Condition struct {
	Column   string
	Operator Operator
	Value    any
}

// Equality is one column = value pair of an equality filter.
type Equality struct {
	Column string
	Value  any
}

// Filter is the WHERE clause of a query. It is implemented by Equalities and
// Conditions only.
type Filter interface {
	conditions() []Condition
}

// Equalities is an ordered set of column = value constraints, AND-ed in slice
// order.
type Equalities []Equality

func (e Equalities) conditions() []Condition {
	out := make([]Condition, len(e))
	for i, eq := range e {
		out[i] = Condition{Column: eq.Column, Operator: OpEq, Value: eq.Value}
	}
	return out
}

// Conditions is an ordered list of explicit comparisons, AND-ed in slice
// order. A column may appear more than once.
type Conditions []Condition

func (c Conditions) conditions() []Condition {
	return c
}

// Sort is one ORDER BY key. When ByValues is set the rows are ranked by the
// position of Column's value in ByValues (FIELD) and Desc is ignored.
type Sort struct {
	Column   string
	Desc     bool
	ByValues []any
}

// SelectOptions controls the statement head.
type SelectOptions struct {
	// Indexes requests the engine's native index listing for the table
	// instead of a SELECT.
	Indexes bool
	// Columns restricts the projection. Empty means *.
	Columns []string
}

// Mode is a parameterization mode.
type Mode int

// Parameterization modes.
const (
	ModeLiteral Mode = iota
	ModePositional
	ModeNamed
)

func (m Mode) String() string {
	switch m {
	case ModePositional:
		return "positional"
	case ModeNamed:
		return "named"
	default:
		return "literal"
	}
}

// ParamConfig selects how values are serialized and which schema qualifies
// the table.
type ParamConfig struct {
	// DBName overrides the builder's schema qualifier.
	DBName         string
	UseParams      bool
	UseNamedParams bool
	// StandardStrings escapes literal strings by doubling quotes only.
	// Unset, backslashes are doubled too, as MySQL expects.
	StandardStrings bool
}

// Mode returns the parameterization mode. UseNamedParams implies UseParams.
func (c ParamConfig) Mode() Mode {
	switch {
	case c.UseNamedParams:
		return ModeNamed
	case c.UseParams:
		return ModePositional
	default:
		return ModeLiteral
	}
}

// ConfigFor returns the ParamConfig for mode.
func ConfigFor(mode Mode) ParamConfig {
	switch mode {
	case ModeNamed:
		return ParamConfig{UseParams: true, UseNamedParams: true}
	case ModePositional:
		return ParamConfig{UseParams: true}
	default:
		return ParamConfig{}
	}
}

// NamedParams carries named parameter values and their type tags, keyed
// param0..paramN.
type NamedParams struct {
	Params map[string]any
	Types  map[string]string
}

// Serialized is a rendered statement.
type Serialized struct {
	SQL string
	// Params holds values in placeholder order. Nil in literal mode.
	Params []any
	// NamedParams is set in named mode only.
	NamedParams *NamedParams
}
