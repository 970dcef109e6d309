// Package query builds SELECT statements from structured filters.
//
// A Builder targets one table and accumulates conditions, a projection, sort
// keys and a window. ToSQL renders the result under one of three contracts:
//
//   - literal: values are embedded as SQL literals
//   - positional: values become ? placeholders, returned in Params
//   - named: values become @param0..@paramN placeholders, returned in both
//     Params and NamedParams together with a type tag per parameter
//
// Filters come in two mutually exclusive shapes: Equalities, an ordered set of
// column = value pairs, and Conditions, an ordered list carrying an explicit
// operator per entry. The shape is fixed when the builder is created.
//
// The package performs no I/O.
package query
