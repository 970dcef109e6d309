package core

import (
	"context"

	"github.com/leapstack-labs/sqlmeta/pkg/query"
)

// StatementFunc renders a statement for the parameterization the executing
// driver supports. Callers bind their own schema qualifier inside the
// closure; a DBName already set in cfg takes precedence.
type StatementFunc func(cfg query.ParamConfig) (query.Serialized, error)

// Driver executes generated statements.
type Driver interface {
	// DBName returns the active database or schema name.
	DBName() string

	// RunQuery renders the statement with generate, executes it and returns
	// every result row. Errors from the database are returned wrapped, never
	// swallowed.
	RunQuery(ctx context.Context, generate StatementFunc) ([]Row, error)
}

// Statement returns a StatementFunc rendering qb against dbName unless the
// driver's config already names a schema.
func Statement(qb *query.Builder, dbName string) StatementFunc {
	return func(cfg query.ParamConfig) (query.Serialized, error) {
		if cfg.DBName == "" {
			cfg.DBName = dbName
		}
		return qb.ToSQL(cfg)
	}
}
