package sqlite

import "github.com/leapstack-labs/sqlmeta/pkg/schema"

// SQLite has no information schema. The catalog views below rebuild the
// MySQL layout from sqlite_master and the pragma table-valued functions.
// Primary key rows are named PRIMARY and unique rows <table>_<column>_unique.
const (
	tablesView  = "sqlmeta_tables"
	columnsView = "sqlmeta_columns"
	keysView    = "sqlmeta_keys"
	indexesView = "sqlmeta_indexes"

	tablesSQL = `SELECT 'main' AS TABLE_SCHEMA, m.name AS TABLE_NAME, upper(m.type) AS TABLE_TYPE ` +
		`FROM sqlite_master AS m WHERE m.type IN ('table', 'view') AND m.name NOT LIKE 'sqlite_%'`

	columnsSQL = `SELECT 'main' AS TABLE_SCHEMA, m.name AS TABLE_NAME, p.name AS COLUMN_NAME, ` +
		`p.cid + 1 AS ORDINAL_POSITION, lower(p.type) AS DATA_TYPE, ` +
		`CASE WHEN p."notnull" = 1 OR p.pk > 0 THEN 'NO' ELSE 'YES' END AS IS_NULLABLE, ` +
		`CASE WHEN p.pk > 0 THEN 'PRI' ELSE '' END AS COLUMN_KEY, p.dflt_value AS COLUMN_DEFAULT ` +
		`FROM sqlite_master AS m, pragma_table_info(m.name) AS p ` +
		`WHERE m.type IN ('table', 'view') AND m.name NOT LIKE 'sqlite_%'`

	keysSQL = `SELECT 'main' AS TABLE_SCHEMA, m.name AS TABLE_NAME, p.name AS COLUMN_NAME, ` +
		`'PRIMARY' AS CONSTRAINT_NAME, NULL AS REFERENCED_TABLE_NAME, NULL AS REFERENCED_COLUMN_NAME ` +
		`FROM sqlite_master AS m, pragma_table_info(m.name) AS p WHERE m.type = 'table' AND p.pk > 0 ` +
		`UNION ALL ` +
		`SELECT 'main', m.name, ii.name, m.name || '_' || ii.name || '_unique', NULL, NULL ` +
		`FROM sqlite_master AS m, pragma_index_list(m.name) AS il, pragma_index_info(il.name) AS ii ` +
		`WHERE m.type = 'table' AND il."unique" = 1 AND il.origin <> 'pk' ` +
		`UNION ALL ` +
		`SELECT 'main', m.name, fk."from", m.name || '_fk' || fk.id, fk."table", fk."to" ` +
		`FROM sqlite_master AS m, pragma_foreign_key_list(m.name) AS fk WHERE m.type = 'table'`

	indexesSQL = `SELECT 'main' AS TABLE_SCHEMA, m.name AS TABLE_NAME, il.name AS INDEX_NAME, ` +
		`ii.name AS COLUMN_NAME, ii.seqno + 1 AS SEQ_IN_INDEX ` +
		`FROM sqlite_master AS m, pragma_index_list(m.name) AS il, pragma_index_info(il.name) AS ii ` +
		`WHERE m.type = 'table'`
)

// Catalog implements schema.CatalogProvider.
func (a *Adapter) Catalog() schema.Catalog {
	return schema.Catalog{
		TablesView:     tablesView,
		ColumnsView:    columnsView,
		KeyUsageView:   keysView,
		IndexesView:    indexesView,
		IndexNameKey:   "INDEX_NAME",
		IndexColumnKey: "COLUMN_NAME",
		Definitions: map[string]string{
			tablesView:  tablesSQL,
			columnsView: columnsSQL,
			keysView:    keysSQL,
			indexesView: indexesSQL,
		},
	}
}
