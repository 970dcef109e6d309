package query

import "strings"

// Operator is a comparison operator used in a WHERE clause.
type Operator string

// Supported operators.
const (
	OpEq      Operator = "="
	OpNe      Operator = "<>"
	OpNeBang  Operator = "!="
	OpGt      Operator = ">"
	OpLt      Operator = "<"
	OpGte     Operator = ">="
	OpLte     Operator = "<="
	OpLike    Operator = "LIKE"
	OpNotLike Operator = "NOT LIKE"
	OpIn      Operator = "IN"
	OpNotIn   Operator = "NOT IN"
	OpIs      Operator = "IS"
	OpIsNot   Operator = "IS NOT"
)

var operators = map[Operator]struct{}{
	OpEq: {}, OpNe: {}, OpNeBang: {}, OpGt: {}, OpLt: {}, OpGte: {}, OpLte: {},
	OpLike: {}, OpNotLike: {}, OpIn: {}, OpNotIn: {}, OpIs: {}, OpIsNot: {},
}

// ParseOperator normalizes s (case and inner whitespace) and checks it
// against the supported set.
func ParseOperator(s string) (Operator, error) {
	op := Operator(strings.Join(strings.Fields(strings.ToUpper(s)), " "))
	if !op.Valid() {
		return "", &OperatorError{Operator: s}
	}
	return op, nil
}

// Valid reports whether op is in the supported set.
func (op Operator) Valid() bool {
	_, ok := operators[op]
	return ok
}

// TakesList reports whether op compares against a list of values.
func (op Operator) TakesList() bool {
	return op == OpIn || op == OpNotIn
}

// TakesKeyword reports whether op compares against a keyword (NULL, TRUE or
// FALSE) that is always written into the SQL text.
func (op Operator) TakesKeyword() bool {
	return op == OpIs || op == OpIsNot
}

// check validates v against op.
func (op Operator) check(column string, v Value) error {
	switch {
	case op.TakesList():
		if v.Kind() != KindList {
			return &ValueError{Column: column, Reason: string(op) + " requires a list"}
		}
		if len(v.Elems()) == 0 {
			return &ValueError{Column: column, Reason: string(op) + " requires at least one value"}
		}
		for _, e := range v.Elems() {
			if e.Kind() == KindList {
				return &ValueError{Column: column, Reason: "nested lists are not supported"}
			}
		}
	case v.Kind() == KindList:
		return &ValueError{Column: column, Reason: "a list is only valid with IN or NOT IN"}
	case op.TakesKeyword():
		if v.Kind() != KindNull && v.Kind() != KindBool {
			return &ValueError{Column: column, Reason: string(op) + " requires NULL or a boolean"}
		}
	}
	return nil
}
