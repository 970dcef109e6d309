package core

// Column represents a column in a database table.
type Column struct {
	Name       string
	Type       string
	Nullable   bool
	PrimaryKey bool
	Position   int
}

// Table describes a physical table. Only Name is needed for introspection.
type Table struct {
	Name    string
	Columns []Column
}

// NewTable returns a Table with no column descriptors.
func NewTable(name string) Table {
	return Table{Name: name}
}
