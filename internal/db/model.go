// Package db reads table definitions from PostgreSQL, MySQL and SQLite and
// turns them into schema tables.
package db

import "context"

// Table is one extracted database table.
type Table struct {
	Name    string
	Columns []Column
}

// Column is one table column. Type holds the engine's type name,
// normalized so that lengths and array markers stay visible, as in
// "varchar(64)" or "integer[]".
type Column struct {
	Name         string
	Type         string
	Nullable     bool
	DefaultValue *string
	EnumValues   []string
}

// Extractor reads table definitions. An empty tables list means every
// table of the schema.
type Extractor interface {
	ExtractTables(ctx context.Context, tables []string) ([]Table, error)
}
