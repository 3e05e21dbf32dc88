// Package ddl is a small dialect-neutral model of a table definition.
// Dialect packages render it to SQL.
package ddl

// ColumnDef describes one column. Name is unquoted; Default is raw SQL.
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// TableDef is a table name, possibly dotted ("main.cars"), and its columns
// in order.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}
