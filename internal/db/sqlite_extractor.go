package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// SQLiteExtractor reads table definitions from a SQLite database.
type SQLiteExtractor struct {
	client *SQLiteClient
}

// NewSQLiteExtractor creates a SQLite extractor.
func NewSQLiteExtractor(client *SQLiteClient) *SQLiteExtractor {
	return &SQLiteExtractor{
		client: client,
	}
}

// ExtractTables extracts the requested tables, or every user table when
// tables is empty.
func (e *SQLiteExtractor) ExtractTables(ctx context.Context, tables []string) ([]Table, error) {
	names, err := e.getTableNames(ctx, tables)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}

	out := make([]Table, 0, len(names))
	for _, name := range names {
		columns, err := e.extractColumns(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", name, err)
		}
		out = append(out, Table{Name: name, Columns: columns})
	}
	return out, nil
}

func (e *SQLiteExtractor) getTableNames(ctx context.Context, requested []string) ([]string, error) {
	if len(requested) > 0 {
		return requested, nil
	}

	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func (e *SQLiteExtractor) extractColumns(ctx context.Context, tableName string) ([]Column, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(tableName))

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var cid, notNull, pk int
		var name, colType string
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pk); err != nil {
			return nil, err
		}

		col := Column{
			Name: name,
			Type: strings.ToLower(colType),
			// SQLite lets primary key columns hold NULL unless declared
			// NOT NULL, except for INTEGER PRIMARY KEY rowid aliases.
			Nullable: notNull == 0 && !(pk > 0 && strings.EqualFold(colType, "integer")),
		}
		if defaultValue.Valid {
			col.DefaultValue = &defaultValue.String
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", tableName)
	}
	return columns, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
