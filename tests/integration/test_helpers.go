//go:build integration
// +build integration

package integration

import (
	"testing"

	"github.com/nakita628/hono-takibi-sub031/internal/compiler"
	"github.com/nakita628/hono-takibi-sub031/internal/db"
)

var fixtureTables = []string{"order_items", "orders", "products", "users"}

// verifyTablesExist checks that all expected tables were extracted
func verifyTablesExist(t *testing.T, tables []db.Table, expected []string) {
	t.Helper()

	if len(tables) != len(expected) {
		t.Errorf("Expected %d tables, got %d", len(expected), len(tables))
	}

	found := make(map[string]bool)
	for _, table := range tables {
		found[table.Name] = true
	}
	for _, name := range expected {
		if !found[name] {
			t.Errorf("Expected table %s not found", name)
		}
	}
}

// verifyColumns checks that expected columns exist in a table
func verifyColumns(t *testing.T, table *db.Table, expected []string) {
	t.Helper()

	found := make(map[string]bool)
	for _, col := range table.Columns {
		found[col.Name] = true
	}
	for _, name := range expected {
		if !found[name] {
			t.Errorf("Expected column %s not found in %s table", name, table.Name)
		}
	}
}

// verifyEnumValues checks the labels of an enum column. Engines without
// enum types leave the list empty, which passes.
func verifyEnumValues(t *testing.T, table *db.Table, column string, expected []string) {
	t.Helper()

	for _, col := range table.Columns {
		if col.Name != column {
			continue
		}
		if len(col.EnumValues) == 0 {
			return
		}
		if len(col.EnumValues) != len(expected) {
			t.Errorf("Expected %d enum values for %s, got %d", len(expected), column, len(col.EnumValues))
		}
		return
	}
	t.Errorf("Column %s not found in table %s", column, table.Name)
}

// verifyCompiles runs the extracted tables through the compiler and
// returns the declaration of each table by name.
func verifyCompiles(t *testing.T, tables []db.Table) map[string]compiler.Declaration {
	t.Helper()

	tbl, err := db.ToSchemaTable(tables)
	if err != nil {
		t.Fatalf("Failed to build schema table: %v", err)
	}

	res := compiler.Run(tbl, nil, compiler.Options{})
	out := make(map[string]compiler.Declaration, len(res.Declarations))
	for _, d := range res.Declarations {
		if d.Body == "" {
			t.Errorf("Empty validator for table %s", d.Name)
		}
		out[d.Name] = d
	}
	return out
}

// findTable returns the named table or nil
func findTable(tables []db.Table, name string) *db.Table {
	for i := range tables {
		if tables[i].Name == name {
			return &tables[i]
		}
	}
	return nil
}
