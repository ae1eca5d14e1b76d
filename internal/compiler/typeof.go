package compiler

import (
	"strings"

	"github.com/nakita628/hono-takibi-sub031/internal/schema"
)

// TypeOf renders the TypeScript type a validator for n produces. Named
// schemas that carry their own alias are referred to by that alias; the
// rest go through z.infer.
func (c *Compiler) TypeOf(n schema.Node) string {
	switch t := n.(type) {
	case *schema.Ref:
		if !c.table.Has(t.Name) {
			return orNull("unknown", t.Nullable)
		}
		names := c.NamesOf(t.Name, CategorySchemas)
		if c.classes.Of(t.Name).NeedsExplicitType {
			return orNull(names.AliasName, t.Nullable)
		}
		return orNull("z.infer<typeof "+names.Identifier+">", t.Nullable)
	case *schema.Primitive:
		return orNull(primitiveType(t), t.Nullable)
	case *schema.Array:
		item := "any"
		if t.Items != nil {
			item = c.TypeOf(t.Items)
		}
		if c.opts.Readonly {
			return orNull("ReadonlyArray<"+item+">", t.Nullable)
		}
		return orNull("Array<"+item+">", t.Nullable)
	case *schema.Object:
		return orNull(c.objectType(t), t.Nullable)
	case *schema.Combinator:
		return c.combinatorType(t)
	case *schema.Enum:
		isNullable := t.Nullable
		var parts []string
		for _, v := range t.Values {
			if v == nil {
				isNullable = true
				continue
			}
			parts = append(parts, literal(v))
		}
		if len(parts) == 0 {
			return "null"
		}
		return orNull(union(parts), isNullable)
	case *schema.Const:
		return orNull(literal(t.Value), t.Nullable)
	case *schema.Not:
		return orNull("unknown", t.Nullable)
	default:
		return "any"
	}
}

func primitiveType(p *schema.Primitive) string {
	switch p.Type {
	case schema.TypeString:
		return "string"
	case schema.TypeNumber, schema.TypeInteger:
		if _, big := numberBase(p.Type, p.Format); big {
			return "bigint"
		}
		return "number"
	case schema.TypeBoolean:
		return "boolean"
	case schema.TypeNull:
		return "null"
	}
	return "any"
}

func (c *Compiler) objectType(o *schema.Object) string {
	prefix := ""
	if c.opts.Readonly {
		prefix = "readonly "
	}
	fields := make([]string, 0, len(o.Properties)+1)
	for _, p := range o.Properties {
		opt := ""
		// A property with a default is always present after parsing.
		if !o.IsRequired(p.Name) && !schema.MetaOf(p.Schema).HasDefault {
			opt = "?"
		}
		fields = append(fields, prefix+key(p.Name)+opt+": "+c.TypeOf(p.Schema))
	}

	switch o.Additional {
	case schema.AdditionalOpen:
		fields = append(fields, "[key: string]: unknown")
	case schema.AdditionalTyped:
		index := "{ " + prefix + "[key: string]: " + c.TypeOf(o.AdditionalSchema) + " }"
		if len(fields) == 0 {
			return index
		}
		return "{ " + strings.Join(fields, "; ") + " } & " + index
	}
	if len(fields) == 0 {
		return "{}"
	}
	return "{ " + strings.Join(fields, "; ") + " }"
}

func (c *Compiler) combinatorType(cb *schema.Combinator) string {
	isNullable := cb.Nullable
	var parts []string
	for _, m := range cb.Members {
		if cb.Op == schema.OpAllOf {
			if schema.IsNullOnly(m) {
				isNullable = true
				continue
			}
			if schema.IsTrivial(m) {
				continue
			}
		}
		parts = append(parts, c.TypeOf(m))
	}
	if len(parts) == 0 {
		return orNull("any", isNullable)
	}
	if cb.Op == schema.OpAllOf {
		if len(parts) == 1 {
			return orNull(parts[0], isNullable)
		}
		return orNull("("+strings.Join(parts, " & ")+")", isNullable)
	}
	return orNull(union(parts), isNullable)
}

func union(parts []string) string {
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

func orNull(t string, ok bool) string {
	if ok {
		return "(" + t + " | null)"
	}
	return t
}
