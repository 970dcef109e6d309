package schema

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/sqlmeta/pkg/core"
	"github.com/leapstack-labs/sqlmeta/pkg/query"
)

// Metadata is a stateless introspection façade over a driver.
type Metadata struct {
	driver   core.Driver
	catalog  Catalog
	override *Catalog
	logger   *slog.Logger
}

// Option configures a Metadata.
type Option func(*Metadata)

// WithCatalog overrides the catalog layout. Unset fields keep the driver's
// defaults.
func WithCatalog(c Catalog) Option {
	return func(m *Metadata) {
		m.override = &c
	}
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Metadata) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New returns a Metadata reading through driver. A driver implementing
// CatalogProvider supplies the catalog; any other gets DefaultCatalog.
func New(driver core.Driver, opts ...Option) *Metadata {
	m := &Metadata{
		driver:  driver,
		catalog: DefaultCatalog(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if p, ok := driver.(CatalogProvider); ok {
		m.catalog = p.Catalog().over(DefaultCatalog())
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.override != nil {
		m.catalog = m.override.over(m.catalog)
		m.override = nil
	}
	return m
}

// Catalog returns the catalog layout in use.
func (m *Metadata) Catalog() Catalog {
	return m.catalog
}

// TableExists reports whether the catalog lists a table with table's name.
func (m *Metadata) TableExists(ctx context.Context, table core.Table) (bool, error) {
	qb := query.New(m.catalog.TablesView).
		Condition(query.Condition{Column: colTableName, Operator: query.OpEq, Value: table.Name})

	rows, err := m.run(ctx, "table exists", qb, m.view(qb, m.catalog.TablesView))
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// ColumnExists reports whether table has a column named columnName in the
// driver's schema.
func (m *Metadata) ColumnExists(ctx context.Context, columnName string, table core.Table) (bool, error) {
	qb := query.FromObject(query.Equalities{
		{Column: colTableSchema, Value: m.driver.DBName()},
		{Column: colTableName, Value: table.Name},
		{Column: colColumnName, Value: columnName},
	}, m.catalog.ColumnsView)

	rows, err := m.run(ctx, "column exists", qb, m.view(qb, m.catalog.ColumnsView))
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// ColumnMetadata returns the catalog row of every column of table, keyed by
// column name. Duplicate names keep the last row.
func (m *Metadata) ColumnMetadata(ctx context.Context, table core.Table) (map[string]core.Row, error) {
	qb := query.FromObject(m.tableFilter(table), m.catalog.ColumnsView)

	rows, err := m.run(ctx, "column metadata", qb, m.view(qb, m.catalog.ColumnsView))
	if err != nil {
		return nil, err
	}

	columns := make(map[string]core.Row, len(rows))
	for _, row := range rows {
		columns[row.String(colColumnName)] = row
	}
	return columns, nil
}

// PrimaryKey returns the primary key columns of table in catalog order.
func (m *Metadata) PrimaryKey(ctx context.Context, table core.Table) ([]string, error) {
	qb := query.FromObject(append(m.tableFilter(table),
		query.Equality{Column: colConstraintName, Value: m.catalog.PrimaryKeyName},
	), m.catalog.KeyUsageView)

	rows, err := m.run(ctx, "primary key", qb, m.view(qb, m.catalog.KeyUsageView))
	if err != nil {
		return nil, err
	}

	var key []string
	for _, row := range rows {
		key = append(key, row.String(colColumnName))
	}
	return key, nil
}

// ForeignKeys returns the key usage row of every column of table that
// references another table, keyed by column name.
func (m *Metadata) ForeignKeys(ctx context.Context, table core.Table) (map[string]core.Row, error) {
	qb := query.FromObject(m.tableFilter(table), m.catalog.KeyUsageView)

	rows, err := m.run(ctx, "foreign keys", qb, m.view(qb, m.catalog.KeyUsageView))
	if err != nil {
		return nil, err
	}

	keys := make(map[string]core.Row)
	for _, row := range rows {
		if row.String(colReferencedTable) == "" {
			continue
		}
		keys[row.String(colColumnName)] = row
	}
	return keys, nil
}

// UniqueColumns returns the columns of table covered by a unique constraint,
// recognized by the catalog's unique suffix.
func (m *Metadata) UniqueColumns(ctx context.Context, table core.Table) ([]string, error) {
	qb := query.FromObject(m.tableFilter(table), m.catalog.KeyUsageView)

	rows, err := m.run(ctx, "unique columns", qb, m.view(qb, m.catalog.KeyUsageView))
	if err != nil {
		return nil, err
	}

	var columns []string
	for _, row := range rows {
		if !strings.HasSuffix(row.String(colConstraintName), m.catalog.UniqueSuffix) {
			continue
		}
		columns = append(columns, row.String(colColumnName))
	}
	return columns, nil
}

// Indexes returns the columns of every index on table, keyed by index name.
// Columns keep the order of the listing rows.
func (m *Metadata) Indexes(ctx context.Context, table core.Table) (map[string][]string, error) {
	var (
		qb     *query.Builder
		dbName string
	)
	if m.catalog.IndexesView != "" {
		qb = query.FromObject(m.tableFilter(table), m.catalog.IndexesView).
			Sort(query.Sort{Column: colSeqInIndex})
		dbName = m.view(qb, m.catalog.IndexesView)
	} else {
		qb = query.New(table.Name).Select(query.SelectOptions{Indexes: true})
		dbName = m.driver.DBName()
	}

	rows, err := m.run(ctx, "indexes", qb, dbName)
	if err != nil {
		return nil, err
	}

	indexes := make(map[string][]string)
	for _, row := range rows {
		name := row.String(m.catalog.IndexNameKey)
		indexes[name] = append(indexes[name], row.String(m.catalog.IndexColumnKey))
	}
	return indexes, nil
}

// view attaches the definition of a catalog view to qb and returns the
// schema that qualifies it.
func (m *Metadata) view(qb *query.Builder, name string) string {
	if body, ok := m.catalog.Definitions[name]; ok {
		qb.With(name, body)
		return ""
	}
	return m.catalog.Schema
}

func (m *Metadata) tableFilter(table core.Table) query.Equalities {
	return query.Equalities{
		{Column: colTableSchema, Value: m.driver.DBName()},
		{Column: colTableName, Value: table.Name},
	}
}

func (m *Metadata) run(ctx context.Context, op string, qb *query.Builder, dbName string) ([]core.Row, error) {
	m.logger.Debug("introspecting", slog.String("op", op), slog.String("table", qb.Table()), slog.String("schema", dbName))

	rows, err := m.driver.RunQuery(ctx, core.Statement(qb, dbName))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}
