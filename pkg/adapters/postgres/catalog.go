package postgres

import "github.com/leapstack-labs/sqlmeta/pkg/schema"

// Tables and columns come straight from information_schema. Key usage and
// indexes are rebuilt in the MySQL layout: primary key rows are named PRIMARY,
// unique rows <table>_<column>_unique, and foreign key rows carry the
// referenced table and column. Postgres folds the unquoted aliases to lower
// case; core.Row lookups are case-insensitive.
const (
	keysView    = "sqlmeta_keys"
	indexesView = "sqlmeta_indexes"

	keysSQL = `SELECT kcu.table_schema, kcu.table_name, kcu.column_name, kcu.ordinal_position, ` +
		`CASE tc.constraint_type WHEN 'PRIMARY KEY' THEN 'PRIMARY' ` +
		`WHEN 'UNIQUE' THEN kcu.table_name || '_' || kcu.column_name || '_unique' ` +
		`ELSE kcu.constraint_name END AS constraint_name, ` +
		`ref.table_name AS referenced_table_name, ref.column_name AS referenced_column_name ` +
		`FROM information_schema.key_column_usage AS kcu ` +
		`JOIN information_schema.table_constraints AS tc ` +
		`ON tc.constraint_schema = kcu.constraint_schema AND tc.constraint_name = kcu.constraint_name ` +
		`AND tc.table_name = kcu.table_name ` +
		`LEFT JOIN information_schema.referential_constraints AS rc ` +
		`ON tc.constraint_type = 'FOREIGN KEY' ` +
		`AND rc.constraint_schema = kcu.constraint_schema AND rc.constraint_name = kcu.constraint_name ` +
		`LEFT JOIN information_schema.key_column_usage AS ref ` +
		`ON ref.constraint_schema = rc.unique_constraint_schema AND ref.constraint_name = rc.unique_constraint_name ` +
		`AND ref.ordinal_position = kcu.position_in_unique_constraint`

	indexesSQL = `SELECT n.nspname AS table_schema, t.relname AS table_name, i.relname AS index_name, ` +
		`a.attname AS column_name, array_position(x.indkey::int2[], a.attnum) AS seq_in_index ` +
		`FROM pg_index AS x ` +
		`JOIN pg_class AS t ON t.oid = x.indrelid ` +
		`JOIN pg_class AS i ON i.oid = x.indexrelid ` +
		`JOIN pg_namespace AS n ON n.oid = t.relnamespace ` +
		`JOIN pg_attribute AS a ON a.attrelid = t.oid AND a.attnum = ANY (x.indkey)`
)

// Catalog implements schema.CatalogProvider.
func (a *Adapter) Catalog() schema.Catalog {
	return schema.Catalog{
		Schema:         "information_schema",
		TablesView:     "tables",
		ColumnsView:    "columns",
		KeyUsageView:   keysView,
		IndexesView:    indexesView,
		IndexNameKey:   "index_name",
		IndexColumnKey: "column_name",
		Definitions: map[string]string{
			keysView:    keysSQL,
			indexesView: indexesSQL,
		},
	}
}
