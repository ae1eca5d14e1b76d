package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Database drivers recognized by ParseURL.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Options selects what Extract reads.
type Options struct {
	// Tables restricts extraction to the named tables. Empty means all.
	Tables []string
	// ExcludeTables is applied after Tables.
	ExcludeTables []string
	// SchemaName defaults to "public" for PostgreSQL and to the database
	// named in the DSN for MySQL. SQLite ignores it.
	SchemaName string
}

// ParseURL detects the driver of a database URL and returns the connection
// string that driver expects.
func ParseURL(url string) (driver, conn string, err error) {
	switch {
	case url == "":
		return "", "", fmt.Errorf("database URL is required")
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres, url, nil
	case strings.HasPrefix(url, "mysql://"):
		return DriverMySQL, strings.TrimPrefix(url, "mysql://"), nil
	case strings.HasPrefix(url, "sqlite://"):
		return DriverSQLite, strings.TrimPrefix(url, "sqlite://"), nil
	}
	return "", "", fmt.Errorf("invalid database URL scheme (must start with postgres://, mysql://, or sqlite://)")
}

// Extract connects to the database at url, reads the selected tables and
// closes the connection.
func Extract(ctx context.Context, url string, opts Options) ([]Table, error) {
	driver, conn, err := ParseURL(url)
	if err != nil {
		return nil, err
	}

	ex, closeFn, err := open(ctx, driver, conn, opts)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	tables, err := ex.ExtractTables(ctx, opts.Tables)
	if err != nil {
		return nil, err
	}
	return FilterExcluded(tables, opts.ExcludeTables), nil
}

// open connects with the driver and returns its extractor together with a
// function closing the connection.
func open(ctx context.Context, driver, conn string, opts Options) (Extractor, func(), error) {
	switch driver {
	case DriverPostgres:
		client, err := NewPostgresClient(ctx, conn)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		schemaName := opts.SchemaName
		if schemaName == "" {
			schemaName = "public"
		}
		return NewPostgresExtractor(client, schemaName), func() { _ = client.Close(ctx) }, nil

	case DriverMySQL:
		schemaName := opts.SchemaName
		if schemaName == "" {
			name, err := ParseDatabaseName(conn)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to determine database name: %w (set a schema name)", err)
			}
			schemaName = name
		}
		client, err := NewMySQLClient(ctx, conn)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to MySQL: %w", err)
		}
		return NewMySQLExtractor(client, schemaName), func() { _ = client.Close() }, nil

	case DriverSQLite:
		client, err := NewSQLiteClient(ctx, conn)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to SQLite: %w", err)
		}
		return NewSQLiteExtractor(client), func() { _ = client.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unsupported driver %q", driver)
}

// ParseDatabaseName returns the database named in a MySQL DSN.
func ParseDatabaseName(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	if cfg.DBName == "" {
		return "", fmt.Errorf("DSN %q names no database", dsn)
	}
	return cfg.DBName, nil
}

// FilterExcluded drops the named tables, keeping the order of the rest.
func FilterExcluded(tables []Table, exclude []string) []Table {
	if len(exclude) == 0 {
		return tables
	}

	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}

	out := make([]Table, 0, len(tables))
	for _, t := range tables {
		if !skip[t.Name] {
			out = append(out, t)
		}
	}
	return out
}
