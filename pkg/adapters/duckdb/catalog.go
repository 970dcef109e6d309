package duckdb

import "github.com/leapstack-labs/sqlmeta/pkg/schema"

// Tables and columns come from information_schema. Key usage and indexes are
// rebuilt in the MySQL layout from duckdb_constraints() and duckdb_indexes():
// primary key rows are named PRIMARY and unique rows <table>_<column>_unique.
// Index columns are read from the CREATE INDEX text, so expression indexes
// list their expressions.
const (
	keysView    = "sqlmeta_keys"
	indexesView = "sqlmeta_indexes"

	keysSQL = `SELECT schema_name AS TABLE_SCHEMA, table_name AS TABLE_NAME, COLUMN_NAME, ` +
		`CASE constraint_type WHEN 'PRIMARY KEY' THEN 'PRIMARY' ` +
		`WHEN 'UNIQUE' THEN table_name || '_' || COLUMN_NAME || '_unique' ` +
		`ELSE table_name || '_' || COLUMN_NAME || '_fkey' END AS CONSTRAINT_NAME, ` +
		`CASE WHEN constraint_type = 'FOREIGN KEY' THEN referenced_table END AS REFERENCED_TABLE_NAME, ` +
		`REFERENCED_COLUMN_NAME ` +
		`FROM (SELECT *, unnest(constraint_column_names) AS COLUMN_NAME, ` +
		`unnest(referenced_column_names) AS REFERENCED_COLUMN_NAME ` +
		`FROM duckdb_constraints() WHERE constraint_type IN ('PRIMARY KEY', 'UNIQUE', 'FOREIGN KEY'))`

	indexesSQL = `SELECT schema_name AS TABLE_SCHEMA, table_name AS TABLE_NAME, index_name AS INDEX_NAME, ` +
		`unnest(cols) AS COLUMN_NAME, unnest(range(1, len(cols) + 1)) AS SEQ_IN_INDEX ` +
		`FROM (SELECT *, list_transform(string_split(regexp_extract(sql, '\(([^)]*)\)', 1), ','), ` +
		`c -> trim(c, ' "')) AS cols FROM duckdb_indexes())`
)

// Catalog implements schema.CatalogProvider.
func (a *Adapter) Catalog() schema.Catalog {
	return schema.Catalog{
		Schema:         "information_schema",
		TablesView:     "tables",
		ColumnsView:    "columns",
		KeyUsageView:   keysView,
		IndexesView:    indexesView,
		IndexNameKey:   "INDEX_NAME",
		IndexColumnKey: "COLUMN_NAME",
		Definitions: map[string]string{
			keysView:    keysSQL,
			indexesView: indexesSQL,
		},
	}
}
