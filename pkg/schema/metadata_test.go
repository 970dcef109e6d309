package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlmeta/internal/testutil"
	"github.com/leapstack-labs/sqlmeta/pkg/core"
	"github.com/leapstack-labs/sqlmeta/pkg/query"
)

const (
	tablesSQL   = "FROM INFORMATION_SCHEMA.TABLES"
	columnsSQL  = "FROM INFORMATION_SCHEMA.COLUMNS"
	keyUsageSQL = "FROM INFORMATION_SCHEMA.KEY_COLUMN_USAGE"
	indexSQL    = "SHOW INDEX FROM"
)

var users = core.NewTable("users")

func newMetadata(t *testing.T, d *testutil.Driver) *Metadata {
	t.Helper()
	return New(d, WithLogger(testutil.NewTestLogger(t)))
}

func TestTableExists(t *testing.T) {
	tests := []struct {
		name     string
		rows     []core.Row
		expected bool
	}{
		{"no rows", nil, false},
		{"one row", []core.Row{{"TABLE_NAME": "users"}}, true},
		{"row content ignored", []core.Row{{}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testutil.NewDriver("app").On(tablesSQL, tt.rows...)
			m := newMetadata(t, d)

			exists, err := m.TableExists(context.Background(), users)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, exists)

			stmt := d.Last()
			assert.Equal(t, "SELECT * FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_NAME = ?;", stmt.SQL)
			assert.Equal(t, []any{"users"}, stmt.Params)
		})
	}
}

func TestColumnExists(t *testing.T) {
	d := testutil.NewDriver("app")
	d.Mode = query.ModeNamed
	m := newMetadata(t, d)

	exists, err := m.ColumnExists(context.Background(), "email", users)
	require.NoError(t, err)
	assert.False(t, exists)

	stmt := d.Last()
	assert.Equal(t,
		"SELECT * FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = @param0 AND TABLE_NAME = @param1 AND COLUMN_NAME = @param2;",
		stmt.SQL)
	assert.Equal(t, map[string]any{"param0": "app", "param1": "users", "param2": "email"}, stmt.NamedParams.Params)

	d.On(columnsSQL, core.Row{"COLUMN_NAME": "email"})
	exists, err = m.ColumnExists(context.Background(), "email", users)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestColumnMetadata(t *testing.T) {
	d := testutil.NewDriver("app").On(columnsSQL,
		core.Row{"COLUMN_NAME": "id", "DATA_TYPE": "int"},
		core.Row{"COLUMN_NAME": "email", "DATA_TYPE": "varchar"},
		core.Row{"COLUMN_NAME": "id", "DATA_TYPE": "bigint"},
	)
	m := newMetadata(t, d)

	columns, err := m.ColumnMetadata(context.Background(), users)
	require.NoError(t, err)
	require.Len(t, columns, 2)
	assert.Equal(t, "bigint", columns["id"]["DATA_TYPE"], "later rows win")
	assert.Equal(t, "varchar", columns["email"]["DATA_TYPE"])

	assert.Equal(t, "SELECT * FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?;", d.Last().SQL)
}

func TestColumnMetadata_Empty(t *testing.T) {
	m := newMetadata(t, testutil.NewDriver("app"))

	columns, err := m.ColumnMetadata(context.Background(), users)
	require.NoError(t, err)
	assert.Empty(t, columns)
}

func TestPrimaryKey(t *testing.T) {
	d := testutil.NewDriver("app").On(keyUsageSQL,
		core.Row{"COLUMN_NAME": "tenant_id", "CONSTRAINT_NAME": "PRIMARY"},
		core.Row{"COLUMN_NAME": "id", "CONSTRAINT_NAME": "PRIMARY"},
	)
	m := newMetadata(t, d)

	key, err := m.PrimaryKey(context.Background(), users)
	require.NoError(t, err)
	assert.Equal(t, []string{"tenant_id", "id"}, key)

	stmt := d.Last()
	assert.Equal(t,
		"SELECT * FROM INFORMATION_SCHEMA.KEY_COLUMN_USAGE WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? AND CONSTRAINT_NAME = ?;",
		stmt.SQL)
	assert.Equal(t, []any{"app", "users", "PRIMARY"}, stmt.Params)
}

func TestForeignKeys(t *testing.T) {
	d := testutil.NewDriver("app").On(keyUsageSQL,
		core.Row{"COLUMN_NAME": "id", "CONSTRAINT_NAME": "PRIMARY", "REFERENCED_TABLE_NAME": nil},
		core.Row{"COLUMN_NAME": "org_id", "CONSTRAINT_NAME": "users_org_fk", "REFERENCED_TABLE_NAME": "orgs"},
		core.Row{"COLUMN_NAME": "email", "CONSTRAINT_NAME": "users_email_unique", "REFERENCED_TABLE_NAME": ""},
		core.Row{"COLUMN_NAME": "team_id", "CONSTRAINT_NAME": "users_team_fk", "REFERENCED_TABLE_NAME": []byte("teams")},
	)
	m := newMetadata(t, d)

	keys, err := m.ForeignKeys(context.Background(), users)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, "orgs", keys["org_id"]["REFERENCED_TABLE_NAME"])
	assert.Contains(t, keys, "team_id")
	assert.NotContains(t, keys, "id")
	assert.NotContains(t, keys, "email")
}

func TestUniqueColumns(t *testing.T) {
	d := testutil.NewDriver("app").On(keyUsageSQL,
		core.Row{"COLUMN_NAME": "id", "CONSTRAINT_NAME": "PRIMARY"},
		core.Row{"COLUMN_NAME": "email", "CONSTRAINT_NAME": "users_email_unique"},
		core.Row{"COLUMN_NAME": "org_id", "CONSTRAINT_NAME": "users_org_fk"},
		core.Row{"COLUMN_NAME": "handle", "CONSTRAINT_NAME": "users_handle_unique"},
	)
	m := newMetadata(t, d)

	columns, err := m.UniqueColumns(context.Background(), users)
	require.NoError(t, err)
	assert.Equal(t, []string{"email", "handle"}, columns)
}

func TestUniqueColumns_CustomSuffix(t *testing.T) {
	d := testutil.NewDriver("public").On("key_column_usage",
		core.Row{"column_name": "email", "constraint_name": "users_email_key"},
		core.Row{"column_name": "id", "constraint_name": "users_pkey"},
	)
	m := New(d, WithCatalog(Catalog{
		Schema:       "information_schema",
		KeyUsageView: "key_column_usage",
		UniqueSuffix: "_key",
	}))

	columns, err := m.UniqueColumns(context.Background(), users)
	require.NoError(t, err)
	assert.Equal(t, []string{"email"}, columns, "lower-case row keys are matched")
	assert.Equal(t, "COLUMNS", m.Catalog().ColumnsView, "unset fields keep defaults")
}

func TestIndexes(t *testing.T) {
	d := testutil.NewDriver("app").On(indexSQL,
		core.Row{"Key_name": "PRIMARY", "Column_name": "id"},
		core.Row{"Key_name": "users_name_idx", "Column_name": "last_name"},
		core.Row{"Key_name": "users_name_idx", "Column_name": "first_name"},
		core.Row{"Key_name": "users_email_unique", "Column_name": "email"},
	)
	m := newMetadata(t, d)

	indexes, err := m.Indexes(context.Background(), users)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"PRIMARY":            {"id"},
		"users_name_idx":     {"last_name", "first_name"},
		"users_email_unique": {"email"},
	}, indexes)

	assert.Equal(t, "SHOW INDEX FROM app.users;", d.Last().SQL)
}

func TestMetadata_PropagatesDriverErrors(t *testing.T) {
	boom := errors.New("connection reset")

	tests := []struct {
		name string
		call func(m *Metadata) error
	}{
		{"TableExists", func(m *Metadata) error { _, err := m.TableExists(context.Background(), users); return err }},
		{"ColumnExists", func(m *Metadata) error { _, err := m.ColumnExists(context.Background(), "id", users); return err }},
		{"ColumnMetadata", func(m *Metadata) error { _, err := m.ColumnMetadata(context.Background(), users); return err }},
		{"PrimaryKey", func(m *Metadata) error { _, err := m.PrimaryKey(context.Background(), users); return err }},
		{"ForeignKeys", func(m *Metadata) error { _, err := m.ForeignKeys(context.Background(), users); return err }},
		{"UniqueColumns", func(m *Metadata) error { _, err := m.UniqueColumns(context.Background(), users); return err }},
		{"Indexes", func(m *Metadata) error { _, err := m.Indexes(context.Background(), users); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := testutil.NewDriver("app").Fail("", boom)
			err := tt.call(newMetadata(t, d))
			require.Error(t, err)
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestMetadata_ConstructionErrors(t *testing.T) {
	m := newMetadata(t, testutil.NewDriver("app"))

	_, err := m.Indexes(context.Background(), core.NewTable(""))
	assert.ErrorIs(t, err, query.ErrEmptyTable)
}

type catalogDriver struct {
	*testutil.Driver
	catalog Catalog
}

func (d catalogDriver) Catalog() Catalog { return d.catalog }

func definedCatalog() Catalog {
	return Catalog{
		TablesView:     "cat_tables",
		ColumnsView:    "cat_columns",
		KeyUsageView:   "cat_keys",
		IndexesView:    "cat_indexes",
		IndexNameKey:   "INDEX_NAME",
		IndexColumnKey: "COLUMN_NAME",
		Definitions: map[string]string{
			"cat_tables":  "SELECT name AS TABLE_NAME FROM tables_src",
			"cat_keys":    "SELECT * FROM keys_src",
			"cat_indexes": "SELECT * FROM indexes_src",
		},
	}
}

func TestNew_DriverCatalog(t *testing.T) {
	d := catalogDriver{Driver: testutil.NewDriver("main"), catalog: definedCatalog()}
	m := New(d, WithLogger(testutil.NewTestLogger(t)))

	c := m.Catalog()
	assert.Equal(t, "cat_tables", c.TablesView)
	assert.Equal(t, "INFORMATION_SCHEMA", c.Schema, "unset fields fall back to the MySQL layout")
	assert.Equal(t, "PRIMARY", c.PrimaryKeyName)

	_, err := m.TableExists(context.Background(), users)
	require.NoError(t, err)
	assert.Equal(t,
		"WITH cat_tables AS (SELECT name AS TABLE_NAME FROM tables_src) SELECT * FROM cat_tables WHERE TABLE_NAME = ?;",
		d.Last().SQL)

	_, err = m.ColumnExists(context.Background(), "id", users)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT * FROM INFORMATION_SCHEMA.cat_columns WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? AND COLUMN_NAME = ?;",
		d.Last().SQL, "views without a definition are qualified")
}

func TestNew_OverrideKeepsDriverCatalog(t *testing.T) {
	d := catalogDriver{Driver: testutil.NewDriver("main"), catalog: definedCatalog()}
	m := New(d, WithCatalog(Catalog{Schema: "main", TablesView: "seeded_tables"}))

	c := m.Catalog()
	assert.Equal(t, "seeded_tables", c.TablesView)
	assert.Equal(t, "cat_keys", c.KeyUsageView)
	assert.Contains(t, c.Definitions, "cat_keys")

	_, err := m.TableExists(context.Background(), users)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM main.seeded_tables WHERE TABLE_NAME = ?;", d.Last().SQL)
}

func TestIndexes_View(t *testing.T) {
	d := testutil.NewDriver("main").On("FROM cat_indexes",
		core.Row{"INDEX_NAME": "users_name_idx", "COLUMN_NAME": "last_name", "SEQ_IN_INDEX": int64(1)},
		core.Row{"INDEX_NAME": "users_name_idx", "COLUMN_NAME": "first_name", "SEQ_IN_INDEX": int64(2)},
		core.Row{"index_name": "users_email_key", "column_name": "email", "seq_in_index": int64(1)},
	)
	m := New(catalogDriver{Driver: d, catalog: definedCatalog()})

	indexes, err := m.Indexes(context.Background(), users)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"users_name_idx":  {"last_name", "first_name"},
		"users_email_key": {"email"},
	}, indexes)

	stmt := d.Last()
	assert.Equal(t,
		"WITH cat_indexes AS (SELECT * FROM indexes_src) SELECT * FROM cat_indexes WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? ORDER BY SEQ_IN_INDEX ASC;",
		stmt.SQL)
	assert.Equal(t, []any{"main", "users"}, stmt.Params)
}
