package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlmeta/internal/cli/output"
	"github.com/leapstack-labs/sqlmeta/internal/cli/testutil"
	"github.com/leapstack-labs/sqlmeta/pkg/core"
	"github.com/leapstack-labs/sqlmeta/pkg/schema"
)

func employeeSchema() *schema.TableSchema {
	return &schema.TableSchema{
		Name:   "employee",
		Exists: true,
		Columns: map[string]core.Row{
			"email": {"COLUMN_NAME": "email", "DATA_TYPE": "varchar", "IS_NULLABLE": "YES", "ORDINAL_POSITION": int64(3)},
			"id":    {"COLUMN_NAME": "id", "DATA_TYPE": "int", "IS_NULLABLE": "NO", "COLUMN_KEY": "PRI", "ORDINAL_POSITION": int64(1)},
			"name":  {"COLUMN_NAME": "name", "DATA_TYPE": "varchar", "IS_NULLABLE": "NO", "ORDINAL_POSITION": int64(2)},
		},
		PrimaryKey: []string{"id"},
		ForeignKeys: map[string]core.Row{
			"org_id": {"COLUMN_NAME": "org_id", "CONSTRAINT_NAME": "employee_org_fk", "REFERENCED_TABLE_NAME": "org", "REFERENCED_COLUMN_NAME": "id"},
		},
		UniqueColumns: []string{"email"},
		Indexes: []schema.Index{
			{Name: "PRIMARY", Columns: []string{"id"}},
			{Name: "employee_name_idx", Columns: []string{"name", "email"}},
		},
	}
}

func TestRenderSchema_Markdown(t *testing.T) {
	tr := testutil.NewTestRenderer(output.ModeMarkdown, false)
	require.NoError(t, renderSchema(tr.Renderer, employeeSchema()))

	out := tr.Output()
	testutil.AssertValidMarkdown(t, out)
	testutil.AssertNoANSI(t, out)
	for _, want := range []string{
		"# Table: employee",
		"## Columns",
		"## Keys",
		"- **primary key**: id",
		"- **unique**: email",
		"## Foreign keys",
		"employee_org_fk",
		"## Indexes",
		"name, email",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRenderSchema_Text(t *testing.T) {
	ts := employeeSchema()
	ts.ForeignKeys = nil
	ts.Indexes = nil
	ts.UniqueColumns = nil

	tr := testutil.NewTestRenderer(output.ModeText, false)
	require.NoError(t, renderSchema(tr.Renderer, ts))

	out := tr.Output()
	assert.Contains(t, out, "Table: employee")
	assert.Contains(t, out, "(3 rows)")
	assert.Contains(t, out, "unique: (none)")
	assert.NotContains(t, out, "**")
	assert.NotContains(t, out, "Foreign keys")
	assert.NotContains(t, out, "Indexes")
}

func TestRenderSchema_JSON(t *testing.T) {
	tr := testutil.NewTestRenderer(output.ModeJSON, false)
	require.NoError(t, renderSchema(tr.Renderer, employeeSchema()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &got))
	assert.Equal(t, true, got["exists"])
	assert.Equal(t, []any{"id"}, got["primary_key"])
	assert.Len(t, got["indexes"], 2)
}

func TestRenderSchema_Missing(t *testing.T) {
	tr := testutil.NewTestRenderer(output.ModeText, false)
	require.NoError(t, renderSchema(tr.Renderer, &schema.TableSchema{Name: "payroll"}))

	assert.Empty(t, tr.Output())
	assert.Equal(t, "warning: table payroll does not exist\n", tr.ErrorOutput())
}

func TestOrderedColumns(t *testing.T) {
	ts := employeeSchema()
	ts.Columns["legacy"] = core.Row{"COLUMN_NAME": "legacy"}

	var names []string
	for _, row := range orderedColumns(ts.Columns) {
		names = append(names, row.String("COLUMN_NAME"))
	}
	assert.Equal(t, "id,name,email,legacy", strings.Join(names, ","))
}

func TestDescribeCommand(t *testing.T) {
	path := testutil.SeedSQLite(t, catalogSeed...)

	t.Run("missing table", func(t *testing.T) {
		res, err := testutil.Execute(t, NewDescribeCommand(), catalogConfig(path, output.ModeText), "payroll")
		require.NoError(t, err)
		assert.Contains(t, res.ErrOut, "table payroll does not exist")
	})

	t.Run("catalog override", func(t *testing.T) {
		res, err := testutil.Execute(t, NewDescribeCommand(), catalogConfig(path, output.ModeJSON), "employee")
		require.NoError(t, err)

		var got schema.TableSchema
		require.NoError(t, json.Unmarshal([]byte(res.Out), &got))
		assert.True(t, got.Exists)
		assert.Equal(t, []string{"id"}, got.PrimaryKey)
		assert.Equal(t, []string{"email"}, got.UniqueColumns)
		assert.Empty(t, got.Indexes, "catalog_* tables are not the seeded employee table")
	})
}

func TestDescribeCommand_NativeCatalog(t *testing.T) {
	path := testutil.SeedSQLite(t,
		`CREATE TABLE org (id INTEGER PRIMARY KEY, name TEXT)`,
		`CREATE TABLE employee (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT UNIQUE,
			org_id INTEGER REFERENCES org(id))`,
		`CREATE INDEX employee_name_idx ON employee (name)`,
	)

	res, err := testutil.Execute(t, NewDescribeCommand(), testutil.SQLiteConfig(path, output.ModeMarkdown), "employee")
	require.NoError(t, err)
	testutil.AssertValidMarkdown(t, res.Out)
	for _, want := range []string{
		"# Table: employee",
		"- **primary key**: id",
		"- **unique**: email",
		"## Foreign keys",
		"employee_fk0",
		"## Indexes",
		"employee_name_idx",
	} {
		assert.Contains(t, res.Out, want)
	}
}
