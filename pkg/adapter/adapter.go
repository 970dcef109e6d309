// Package adapter provides the database/sql execution layer behind
// core.Driver.
//
// This package contains the contract every database adapter implements and
// BaseSQLAdapter, which runs generated statements over a *sql.DB. Concrete
// adapters live in pkg/adapters/ subdirectories and register themselves in
// init().
package adapter

import (
	"context"

	"github.com/leapstack-labs/sqlmeta/pkg/core"
	"github.com/leapstack-labs/sqlmeta/pkg/query"
)

// Config is an alias for core.AdapterConfig.
type Config = core.AdapterConfig

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	core.Driver

	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// ParamStyle reports how the adapter binds statement values.
	ParamStyle() ParamStyle

	// ParamConfig returns the render configuration for this engine.
	ParamConfig() query.ParamConfig
}

// ParamStyle is the placeholder syntax an engine accepts.
type ParamStyle int

// Placeholder styles.
const (
	// Positional binds ? placeholders in order.
	Positional ParamStyle = iota
	// Named binds @paramN placeholders by name.
	Named
	// Literal embeds values in the SQL text.
	Literal
)

func (s ParamStyle) String() string {
	switch s {
	case Named:
		return "named"
	case Literal:
		return "literal"
	default:
		return "positional"
	}
}
