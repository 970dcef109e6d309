package schema

// Catalog names the information-schema views and the conventions used to
// read them. DefaultCatalog matches MySQL and MariaDB.
//
// Views listed in Definitions are rendered as common table expressions and
// are never qualified by Schema. Engines without a MySQL-shaped information
// schema describe their catalog that way, projecting the MySQL column names.
type Catalog struct {
	// Schema qualifies the catalog views.
	Schema       string
	TablesView   string
	ColumnsView  string
	KeyUsageView string
	// IndexesView lists one row per indexed column with TABLE_SCHEMA,
	// TABLE_NAME and SEQ_IN_INDEX. Empty means the engine's SHOW INDEX.
	IndexesView string

	// Definitions maps a view name to the SELECT that defines it.
	Definitions map[string]string

	// PrimaryKeyName is the constraint name reserved for primary keys.
	PrimaryKeyName string
	// UniqueSuffix ends the name of every unique constraint.
	UniqueSuffix string

	// Row keys of the index listing.
	IndexNameKey   string
	IndexColumnKey string
}

// CatalogProvider is implemented by drivers whose engine needs a catalog
// other than DefaultCatalog.
type CatalogProvider interface {
	Catalog() Catalog
}

// Catalog column names read from result rows.
const (
	colTableSchema     = "TABLE_SCHEMA"
	colTableName       = "TABLE_NAME"
	colColumnName      = "COLUMN_NAME"
	colConstraintName  = "CONSTRAINT_NAME"
	colReferencedTable = "REFERENCED_TABLE_NAME"
	colSeqInIndex      = "SEQ_IN_INDEX"
)

// DefaultCatalog returns the MySQL information schema layout.
func DefaultCatalog() Catalog {
	return Catalog{
		Schema:         "INFORMATION_SCHEMA",
		TablesView:     "TABLES",
		ColumnsView:    "COLUMNS",
		KeyUsageView:   "KEY_COLUMN_USAGE",
		PrimaryKeyName: "PRIMARY",
		UniqueSuffix:   "_unique",
		IndexNameKey:   "Key_name",
		IndexColumnKey: "Column_name",
	}
}

// over returns c with every unset field taken from base.
func (c Catalog) over(base Catalog) Catalog {
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&c.Schema, base.Schema)
	fill(&c.TablesView, base.TablesView)
	fill(&c.ColumnsView, base.ColumnsView)
	fill(&c.KeyUsageView, base.KeyUsageView)
	fill(&c.IndexesView, base.IndexesView)
	fill(&c.PrimaryKeyName, base.PrimaryKeyName)
	fill(&c.UniqueSuffix, base.UniqueSuffix)
	fill(&c.IndexNameKey, base.IndexNameKey)
	fill(&c.IndexColumnKey, base.IndexColumnKey)

	if len(base.Definitions) > 0 {
		defs := make(map[string]string, len(base.Definitions)+len(c.Definitions))
		for name, body := range base.Definitions {
			defs[name] = body
		}
		for name, body := range c.Definitions {
			defs[name] = body
		}
		c.Definitions = defs
	}
	return c
}
