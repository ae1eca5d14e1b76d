package db

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nakita628/hono-takibi-sub031/internal/schema"
)

// ToSchemaTable converts tables into closed object schemas named after the
// tables, in the given order. A column is required when it is NOT NULL and
// has no default, so the schemas describe an insertable row.
func ToSchemaTable(tables []Table) (*schema.Table, error) {
	b := schema.NewBuilder()
	for _, t := range tables {
		if err := b.Add(t.Name, tableSchema(t)); err != nil {
			return nil, fmt.Errorf("failed to add table %s: %w", t.Name, err)
		}
	}
	return b.Build(), nil
}

func tableSchema(t Table) *schema.Object {
	o := &schema.Object{
		Required:   make(map[string]bool),
		Additional: schema.AdditionalClosed,
	}
	for _, col := range t.Columns {
		o.Properties = append(o.Properties, schema.Property{Name: col.Name, Schema: ColumnSchema(col)})
		if !col.Nullable && col.DefaultValue == nil {
			o.Required[col.Name] = true
		}
	}
	return o
}

// ColumnSchema maps one column to a schema node. Unrecognized types become
// Unknown and accept any value.
func ColumnSchema(col Column) schema.Node {
	var n schema.Node
	if len(col.EnumValues) > 0 {
		values := make([]any, len(col.EnumValues))
		for i, v := range col.EnumValues {
			values[i] = v
		}
		n = &schema.Enum{Values: values}
	} else {
		n = sqlType(strings.ToLower(strings.TrimSpace(col.Type)))
	}
	schema.MetaOf(n).Nullable = col.Nullable
	return n
}

func sqlType(typ string) schema.Node {
	if elem, ok := strings.CutSuffix(typ, "[]"); ok {
		return &schema.Array{Items: sqlType(elem)}
	}

	base, args, unsigned := splitType(typ)
	switch base {
	case "varchar", "character varying", "char", "character", "nvarchar", "nchar", "varchar2":
		p := &schema.Primitive{Type: schema.TypeString}
		if n, err := strconv.ParseUint(args, 10, 64); err == nil {
			p.MaxLength = &n
		}
		return p
	case "text", "tinytext", "mediumtext", "longtext", "citext", "clob", "name", "inet", "cidr", "macaddr", "xml":
		return &schema.Primitive{Type: schema.TypeString}
	case "uuid":
		return &schema.Primitive{Type: schema.TypeString, Format: "uuid"}
	case "bytea", "blob", "tinyblob", "mediumblob", "longblob", "binary", "varbinary":
		return &schema.Primitive{Type: schema.TypeString, Format: "byte"}
	case "date":
		return &schema.Primitive{Type: schema.TypeString, Format: "date"}
	case "timestamp", "timestamptz", "datetime":
		return &schema.Primitive{Type: schema.TypeString, Format: "date-time"}
	case "time", "timetz":
		return &schema.Primitive{Type: schema.TypeString, Format: "time"}
	case "interval":
		return &schema.Primitive{Type: schema.TypeString, Format: "duration"}
	case "bool", "boolean":
		return &schema.Primitive{Type: schema.TypeBoolean}
	case "tinyint":
		// MySQL spells booleans tinyint(1).
		if args == "1" {
			return &schema.Primitive{Type: schema.TypeBoolean}
		}
		return integer("int32", unsigned)
	case "smallint", "int2", "mediumint", "int", "integer", "int4", "serial", "smallserial", "serial4", "year":
		return integer("int32", unsigned)
	case "bigint", "int8", "bigserial", "serial8":
		return integer("int64", unsigned)
	case "real", "float4":
		return &schema.Primitive{Type: schema.TypeNumber, Format: "float"}
	case "float":
		// MySQL FLOAT(p) with p above 24 is a double.
		if p, err := strconv.Atoi(args); err == nil && p > 24 {
			return &schema.Primitive{Type: schema.TypeNumber, Format: "double"}
		}
		return &schema.Primitive{Type: schema.TypeNumber, Format: "float"}
	case "double", "double precision", "float8":
		return &schema.Primitive{Type: schema.TypeNumber, Format: "double"}
	case "numeric", "decimal", "money", "number":
		return &schema.Primitive{Type: schema.TypeNumber}
	case "json", "jsonb":
		return &schema.Unknown{}
	}
	return affinity(base)
}

// affinity applies SQLite's column affinity rules to type names no engine
// case matched.
func affinity(base string) schema.Node {
	switch {
	case base == "":
		return &schema.Unknown{}
	case strings.Contains(base, "int"):
		return &schema.Primitive{Type: schema.TypeInteger, Format: "int64"}
	case strings.Contains(base, "char"), strings.Contains(base, "clob"), strings.Contains(base, "text"):
		return &schema.Primitive{Type: schema.TypeString}
	case strings.Contains(base, "blob"):
		return &schema.Unknown{}
	case strings.Contains(base, "real"), strings.Contains(base, "floa"), strings.Contains(base, "doub"):
		return &schema.Primitive{Type: schema.TypeNumber, Format: "double"}
	}
	return &schema.Unknown{}
}

func integer(format string, unsigned bool) *schema.Primitive {
	p := &schema.Primitive{Type: schema.TypeInteger, Format: format}
	if unsigned {
		// INT UNSIGNED exceeds int32.
		if format == "int32" {
			p.Format = ""
		}
		zero := 0.0
		p.Minimum = &zero
	}
	return p
}

// splitType breaks a type name such as "int(11) unsigned" into its base
// name, the text between the parentheses and the unsigned flag.
func splitType(typ string) (base, args string, unsigned bool) {
	typ = strings.TrimSuffix(typ, " zerofill")
	if rest, ok := strings.CutSuffix(typ, " unsigned"); ok {
		typ, unsigned = rest, true
	}
	if open := strings.Index(typ, "("); open >= 0 {
		if end := strings.Index(typ[open:], ")"); end >= 0 {
			args = strings.TrimSpace(typ[open+1 : open+end])
			typ = strings.TrimSpace(typ[:open] + typ[open+end+1:])
		}
	}
	return strings.TrimSpace(typ), args, unsigned
}
