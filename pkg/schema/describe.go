package schema

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/sqlmeta/pkg/core"
)

// Index is one index with its columns in listing order.
type Index struct {
	Name    string   `json:"name" yaml:"name"`
	Columns []string `json:"columns" yaml:"columns"`
}

// TableSchema aggregates every introspection facet of one table.
type TableSchema struct {
	Name          string              `json:"name" yaml:"name"`
	Exists        bool                `json:"exists" yaml:"exists"`
	Columns       map[string]core.Row `json:"columns" yaml:"columns"`
	PrimaryKey    []string            `json:"primary_key" yaml:"primary_key"`
	ForeignKeys   map[string]core.Row `json:"foreign_keys" yaml:"foreign_keys"`
	UniqueColumns []string            `json:"unique_columns" yaml:"unique_columns"`
	Indexes       []Index             `json:"indexes" yaml:"indexes"`
}

// ColumnNames returns the column names sorted lexically.
func (s *TableSchema) ColumnNames() []string {
	names := make([]string, 0, len(s.Columns))
	for name := range s.Columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe runs every introspection query for table concurrently. The first
// failure cancels the remaining queries and is returned. A missing table
// yields Exists == false and no further queries.
func (m *Metadata) Describe(ctx context.Context, table core.Table) (*TableSchema, error) {
	exists, err := m.TableExists(ctx, table)
	if err != nil {
		return nil, err
	}
	out := &TableSchema{Name: table.Name, Exists: exists}
	if !exists {
		return out, nil
	}

	var indexes map[string][]string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Columns, err = m.ColumnMetadata(gctx, table)
		return err
	})
	g.Go(func() (err error) {
		out.PrimaryKey, err = m.PrimaryKey(gctx, table)
		return err
	})
	g.Go(func() (err error) {
		out.ForeignKeys, err = m.ForeignKeys(gctx, table)
		return err
	})
	g.Go(func() (err error) {
		out.UniqueColumns, err = m.UniqueColumns(gctx, table)
		return err
	})
	g.Go(func() (err error) {
		indexes, err = m.Indexes(gctx, table)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(indexes))
	for name := range indexes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out.Indexes = append(out.Indexes, Index{Name: name, Columns: indexes[name]})
	}
	return out, nil
}
