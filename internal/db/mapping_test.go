package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nakita628/hono-takibi-sub031/internal/compiler"
	"github.com/nakita628/hono-takibi-sub031/internal/cycle"
	"github.com/nakita628/hono-takibi-sub031/internal/graph"
	"github.com/nakita628/hono-takibi-sub031/internal/schema"
)

func strPtr(s string) *string { return &s }

func TestColumnSchema(t *testing.T) {
	tests := []struct {
		name string
		col  Column
		want string
	}{
		{"varchar length", Column{Type: "varchar(64)"}, "z.string().max(64)"},
		{"bare varchar", Column{Type: "character varying"}, "z.string()"},
		{"uuid", Column{Type: "uuid"}, "z.uuid()"},
		{"integer", Column{Type: "integer"}, "z.int32()"},
		{"mysql int display width", Column{Type: "int(11)"}, "z.int32()"},
		{"unsigned int", Column{Type: "int(10) unsigned"}, "z.int().nonnegative()"},
		{"bigint", Column{Type: "bigint"}, "z.int64()"},
		{"mysql boolean", Column{Type: "tinyint(1)"}, "z.boolean()"},
		{"tinyint", Column{Type: "tinyint(4)"}, "z.int32()"},
		{"real", Column{Type: "real"}, "z.float32()"},
		{"double", Column{Type: "double precision"}, "z.float64()"},
		{"numeric", Column{Type: "numeric(10,2)"}, "z.number()"},
		{"timestamp", Column{Type: "timestamptz"}, "z.iso.datetime()"},
		{"date", Column{Type: "date"}, "z.iso.date()"},
		{"nullable text", Column{Type: "text", Nullable: true}, "z.string().nullable()"},
		{"array", Column{Type: "integer[]"}, "z.array(z.int32())"},
		{"enum", Column{Type: "status", EnumValues: []string{"active", "banned"}}, "z.enum(['active', 'banned'])"},
		{"nullable json", Column{Type: "jsonb", Nullable: true}, "z.any().nullable()"},
		{"sqlite affinity", Column{Type: "unsigned big int"}, "z.int64()"},
		{"uppercase", Column{Type: "VARCHAR(10)"}, "z.string().max(10)"},
	}

	empty := schema.NewBuilder().Build()
	c := compiler.New(empty, cycle.Analyze(graph.Build(empty)), compiler.Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Expression(ColumnSchema(tt.col)))
		})
	}
}

func TestSplitType(t *testing.T) {
	tests := []struct {
		in       string
		base     string
		args     string
		unsigned bool
	}{
		{"int(11) unsigned zerofill", "int", "11", true},
		{"decimal(10,2)", "decimal", "10,2", false},
		{"timestamp", "timestamp", "", false},
		{"character varying(20)", "character varying", "20", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			base, args, unsigned := splitType(tt.in)
			assert.Equal(t, tt.base, base)
			assert.Equal(t, tt.args, args)
			assert.Equal(t, tt.unsigned, unsigned)
		})
	}
}

func TestToSchemaTable(t *testing.T) {
	tables := []Table{
		{Name: "users", Columns: []Column{
			{Name: "id", Type: "integer", DefaultValue: strPtr("nextval('users_id_seq'::regclass)")},
			{Name: "email", Type: "varchar(255)"},
			{Name: "bio", Type: "text", Nullable: true},
		}},
		{Name: "order_items", Columns: []Column{
			{Name: "qty", Type: "smallint"},
		}},
	}

	tbl, err := ToSchemaTable(tables)
	require.NoError(t, err)
	assert.Equal(t, []string{"users", "order_items"}, tbl.Names())

	users, _ := tbl.Lookup("users")
	obj := users.(*schema.Object)
	assert.Equal(t, schema.AdditionalClosed, obj.Additional)
	assert.False(t, obj.IsRequired("id"), "columns with defaults may be omitted")
	assert.True(t, obj.IsRequired("email"))
	assert.False(t, obj.IsRequired("bio"))

	res := compiler.Run(tbl, nil, compiler.Options{})
	require.Len(t, res.Declarations, 2)
	assert.Equal(t, "UsersSchema", res.Declarations[0].Identifier)
	assert.Equal(t,
		"z.strictObject({id: z.int32().optional(), email: z.string().max(255), bio: z.string().nullable().optional()})",
		res.Declarations[0].Body)
	assert.Equal(t, "OrderItemsSchema", res.Declarations[1].Identifier)
	assert.Empty(t, res.Diagnostics)
}

func TestToSchemaTable_DuplicateName(t *testing.T) {
	_, err := ToSchemaTable([]Table{{Name: "a"}, {Name: "a"}})
	assert.Error(t, err)
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		url        string
		wantDriver string
		wantConn   string
		wantErr    bool
	}{
		{"postgres://u:p@localhost/app", DriverPostgres, "postgres://u:p@localhost/app", false},
		{"postgresql://localhost/app", DriverPostgres, "postgresql://localhost/app", false},
		{"mysql://u:p@tcp(localhost:3306)/app", DriverMySQL, "u:p@tcp(localhost:3306)/app", false},
		{"sqlite://data/app.db", DriverSQLite, "data/app.db", false},
		{"", "", "", true},
		{"oracle://x", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			driver, conn, err := ParseURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDriver, driver)
			assert.Equal(t, tt.wantConn, conn)
		})
	}
}

func TestParseDatabaseName(t *testing.T) {
	name, err := ParseDatabaseName("u:p@tcp(localhost:3306)/shop?parseTime=true")
	require.NoError(t, err)
	assert.Equal(t, "shop", name)

	_, err = ParseDatabaseName("u:p@tcp(localhost:3306)/")
	assert.Error(t, err)
}

func TestParseEnumValues(t *testing.T) {
	values, err := parseEnumValues("enum('a','it''s','c')")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "it's", "c"}, values)

	values, err = parseEnumValues("varchar(3)")
	require.NoError(t, err)
	assert.Nil(t, values)
}

func TestNormalizePostgresType(t *testing.T) {
	n := 20
	assert.Equal(t, "varchar(20)", normalizePostgresType("character varying", "varchar", &n))
	assert.Equal(t, "integer[]", normalizePostgresType("ARRAY", "_int4", nil))
	assert.Equal(t, "timestamptz", normalizePostgresType("timestamp with time zone", "timestamptz", nil))
	assert.Equal(t, "mood", normalizePostgresType("USER-DEFINED", "mood", nil))
}

func TestFilterExcluded(t *testing.T) {
	tables := []Table{{Name: "a"}, {Name: "migrations"}, {Name: "b"}}
	got := FilterExcluded(tables, []string{"migrations"})
	assert.Equal(t, []Table{{Name: "a"}, {Name: "b"}}, got)
	assert.Equal(t, tables, FilterExcluded(tables, nil))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file:data/app.db?mode=ro", sqliteDSN("data/app.db"))
	assert.Equal(t, "file::memory:", sqliteDSN("file::memory:"))
}

var (
	_ Extractor = (*PostgresExtractor)(nil)
	_ Extractor = (*MySQLExtractor)(nil)
	_ Extractor = (*SQLiteExtractor)(nil)
)

func TestOpen_Errors(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		conn   string
		want   string
	}{
		{"unsupported driver", "oracle", "x", `unsupported driver "oracle"`},
		{"mysql without database", DriverMySQL, "u:p@tcp(localhost:3306)/", "failed to determine database name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex, closeFn, err := open(context.Background(), tt.driver, tt.conn, Options{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Nil(t, ex)
			assert.Nil(t, closeFn)
		})
	}
}
