package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/leapstack-labs/sqlmeta/pkg/core"
	"github.com/leapstack-labs/sqlmeta/pkg/query"
)

// Driver is a scripted core.Driver. Each statement is rendered with Mode and
// answered by the first registered response whose fragment occurs in the
// SQL text. Unmatched statements return no rows.
type Driver struct {
	Schema string
	Mode   query.Mode

	mu        sync.Mutex
	responses []response
	executed  []query.Serialized
}

type response struct {
	fragment string
	rows     []core.Row
	err      error
}

// NewDriver returns a Driver for schema rendering positional parameters.
func NewDriver(schema string) *Driver {
	return &Driver{Schema: schema, Mode: query.ModePositional}
}

// On answers statements containing fragment with rows.
func (d *Driver) On(fragment string, rows ...core.Row) *Driver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.responses = append(d.responses, response{fragment: fragment, rows: rows})
	return d
}

// Fail answers statements containing fragment with err.
func (d *Driver) Fail(fragment string, err error) *Driver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.responses = append(d.responses, response{fragment: fragment, err: err})
	return d
}

// DBName implements core.Driver.
func (d *Driver) DBName() string {
	return d.Schema
}

// RunQuery implements core.Driver.
func (d *Driver) RunQuery(ctx context.Context, generate core.StatementFunc) ([]core.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stmt, err := generate(query.ConfigFor(d.Mode))
	if err != nil {
		return nil, fmt.Errorf("failed to generate statement: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.executed = append(d.executed, stmt)
	for _, r := range d.responses {
		if strings.Contains(stmt.SQL, r.fragment) {
			return r.rows, r.err
		}
	}
	return nil, nil
}

// Executed returns the statements run so far.
func (d *Driver) Executed() []query.Serialized {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]query.Serialized(nil), d.executed...)
}

// Last returns the most recent statement, or the zero value.
func (d *Driver) Last() query.Serialized {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.executed) == 0 {
		return query.Serialized{}
	}
	return d.executed[len(d.executed)-1]
}

var _ core.Driver = (*Driver)(nil)
