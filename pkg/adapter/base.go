package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/sqlmeta/pkg/core"
	"github.com/leapstack-labs/sqlmeta/pkg/query"
)

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Exec, DBName and RunQuery implementations.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    core.AdapterConfig
	Logger *slog.Logger

	// Style selects how statements are rendered and bound.
	Style ParamStyle
	// BindNamed turns named parameters into driver arguments.
	// Nil binds each parameter with sql.Named.
	BindNamed func(*query.NamedParams) []any
	// DefaultSchema is reported by DBName when Cfg.Schema is empty.
	DefaultSchema string
	// StandardStrings is set for engines that read backslashes in string
	// literals as plain characters.
	StandardStrings bool
}

func (b *BaseSQLAdapter) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return b.Logger
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		b.logger().Debug("closing database connection")
		return b.DB.Close()
	}
	return nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string) error {
	if b.DB == nil {
		return fmt.Errorf("database connection not established")
	}
	_, err := b.DB.ExecContext(ctx, sqlStr)
	if err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// ParamStyle reports the configured placeholder style.
func (b *BaseSQLAdapter) ParamStyle() ParamStyle {
	return b.Style
}

// DBName returns the configured schema, falling back to DefaultSchema.
func (b *BaseSQLAdapter) DBName() string {
	if b.Cfg.Schema != "" {
		return b.Cfg.Schema
	}
	return b.DefaultSchema
}

// ParamConfig returns the render configuration matching Style.
func (b *BaseSQLAdapter) ParamConfig() query.ParamConfig {
	var cfg query.ParamConfig
	switch b.Style {
	case Named:
		cfg = query.ConfigFor(query.ModeNamed)
	case Literal:
		cfg = query.ConfigFor(query.ModeLiteral)
	default:
		cfg = query.ConfigFor(query.ModePositional)
	}
	cfg.StandardStrings = b.StandardStrings
	return cfg
}

// RunQuery renders the statement for this adapter's style, executes it and
// returns all rows.
func (b *BaseSQLAdapter) RunQuery(ctx context.Context, generate core.StatementFunc) ([]core.Row, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	stmt, err := generate(b.ParamConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to generate statement: %w", err)
	}

	logger := b.logger().With(slog.String("query_id", uuid.NewString()))
	logger.Debug("running query",
		slog.String("sql", stmt.SQL),
		slog.Int("params", len(stmt.Params)),
		slog.String("style", b.Style.String()))
	start := time.Now()

	//nolint:rowserrcheck // rows.Err() is checked by ScanRows
	rows, err := b.DB.QueryContext(ctx, stmt.SQL, b.args(stmt)...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out, err := ScanRows(rows)
	if err != nil {
		return nil, err
	}

	logger.Debug("query finished",
		slog.Int("rows", len(out)),
		slog.Duration("elapsed", time.Since(start)))
	return out, nil
}

// args converts the rendered parameters into driver arguments.
func (b *BaseSQLAdapter) args(stmt query.Serialized) []any {
	switch {
	case stmt.NamedParams != nil:
		if b.BindNamed != nil {
			return b.BindNamed(stmt.NamedParams)
		}
		return NamedArgs(stmt.NamedParams)
	default:
		return stmt.Params
	}
}

// NamedArgs binds named parameters with sql.Named in param0..paramN order.
func NamedArgs(np *query.NamedParams) []any {
	args := make([]any, 0, len(np.Params))
	for i := 0; i < len(np.Params); i++ {
		name := "param" + strconv.Itoa(i)
		args = append(args, sql.Named(name, np.Params[name]))
	}
	return args
}

// ScanRows reads every remaining row into a core.Row. Byte slices are
// converted to strings.
func ScanRows(rows *sql.Rows) ([]core.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var out []core.Row
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(core.Row, len(cols))
		for i, col := range cols {
			val := values[i]
			if b, ok := val.([]byte); ok {
				val = string(b)
			}
			row[col] = val
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

// ParseQualifiedName splits a table reference into schema and name.
// Uses defaultSchema if the reference is not qualified.
func ParseQualifiedName(table, defaultSchema string) (schema, name string) {
	if parts := strings.Split(table, "."); len(parts) == 2 {
		return parts[0], parts[1]
	}
	return defaultSchema, table
}
