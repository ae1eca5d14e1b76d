package compiler

import (
	"fmt"
	"strings"

	"github.com/nakita628/hono-takibi-sub031/internal/schema"
)

// emitter compiles the nodes of one declaration and records what it saw.
type emitter struct {
	c        *Compiler
	owner    string
	category Category
	coerce   bool

	deps  []string
	seen  map[string]bool
	diags []Diagnostic
}

func (c *Compiler) emitter(owner string, cat Category, coerce bool) *emitter {
	return &emitter{
		c:        c,
		owner:    owner,
		category: cat,
		coerce:   coerce,
		seen:     make(map[string]bool),
	}
}

func (e *emitter) warn(format string, args ...any) {
	e.diags = append(e.diags, Diagnostic{
		Severity: SeverityWarning,
		Schema:   e.owner,
		Category: e.category,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (e *emitter) depend(name string) {
	if !e.seen[name] {
		e.seen[name] = true
		e.deps = append(e.deps, name)
	}
}

// expr is the single dispatch over node kinds.
func (e *emitter) expr(n schema.Node) string {
	switch t := n.(type) {
	case *schema.Ref:
		return e.ref(t)
	case *schema.Primitive:
		return e.primitive(t)
	case *schema.Object:
		return withDefault(e.object(t), t.Meta, literal)
	case *schema.Array:
		return withDefault(e.array(t), t.Meta, literal)
	case *schema.Combinator:
		return withDefault(e.combinator(t), t.Meta, literal)
	case *schema.Not:
		return withDefault(nullable("z.unknown()", t.Nullable), t.Meta, literal)
	case *schema.Enum:
		return e.enum(t)
	case *schema.Const:
		return withDefault(nullable("z.literal("+literal(t.Value)+")", t.Nullable), t.Meta, literal)
	case *schema.Unknown:
		if t.Nullable {
			return "z.any().nullable()"
		}
		e.warn("unrecognized schema shape, accepting any value")
		return "z.any()"
	default:
		e.warn("unsupported schema node %T, accepting any value", n)
		return "z.any()"
	}
}

func (e *emitter) ref(r *schema.Ref) string {
	if !e.c.table.Has(r.Name) {
		e.warn("reference to undefined schema %q, accepting any value", r.Name)
		return nullable("z.any()", r.Nullable)
	}
	e.depend(r.Name)
	id := e.c.Identifier(r.Name)
	if e.c.classes.Of(r.Name).NeedsDeferredConstruction {
		id = "z.lazy(() => " + id + ")"
	}
	return nullable(id, r.Nullable)
}

func (e *emitter) object(o *schema.Object) string {
	fields := make([]string, 0, len(o.Properties))
	for _, p := range o.Properties {
		v := e.expr(p.Schema)
		if !o.IsRequired(p.Name) {
			v += ".optional()"
		}
		fields = append(fields, key(p.Name)+": "+v)
	}
	shape := "{" + strings.Join(fields, ", ") + "}"
	if len(fields) == 0 {
		shape = "{}"
	}

	var out string
	switch o.Additional {
	case schema.AdditionalClosed:
		out = "z.strictObject(" + shape + ")"
	case schema.AdditionalOpen:
		out = "z.looseObject(" + shape + ")"
	case schema.AdditionalTyped:
		value := e.expr(o.AdditionalSchema)
		if len(fields) == 0 {
			out = "z.record(z.string(), " + value + ")"
		} else {
			out = "z.object(" + shape + ").catchall(" + value + ")"
		}
	default:
		out = "z.object(" + shape + ")"
	}
	if e.c.opts.Readonly {
		out += ".readonly()"
	}
	return nullable(out, o.Nullable)
}

func (e *emitter) array(a *schema.Array) string {
	var items string
	if a.Items == nil {
		items = "z.any()"
	} else {
		items = e.expr(a.Items)
	}
	out := "z.array(" + items + ")" + lengths(a.MinItems, a.MaxItems)
	if e.c.opts.Readonly {
		out += ".readonly()"
	}
	return nullable(out, a.Nullable)
}

// lengths emits min/max length modifiers, collapsing equal bounds.
func lengths(minLen, maxLen *uint64) string {
	if minLen != nil && maxLen != nil && *minLen == *maxLen {
		return fmt.Sprintf(".length(%d)", *minLen)
	}
	var b strings.Builder
	if minLen != nil && *minLen > 0 {
		fmt.Fprintf(&b, ".min(%d)", *minLen)
	}
	if maxLen != nil {
		fmt.Fprintf(&b, ".max(%d)", *maxLen)
	}
	return b.String()
}

func (e *emitter) combinator(c *schema.Combinator) string {
	if c.Op == schema.OpAllOf {
		return e.allOf(c)
	}
	members := make([]string, 0, len(c.Members))
	for _, m := range c.Members {
		members = append(members, e.expr(m))
	}
	return nullable("z.union(["+strings.Join(members, ", ")+"])", c.Nullable)
}

func (e *emitter) allOf(c *schema.Combinator) string {
	isNullable := c.Nullable
	var members []string
	for _, m := range c.Members {
		switch {
		case schema.IsNullOnly(m):
			isNullable = true
		case schema.IsTrivial(m):
		default:
			members = append(members, e.expr(m))
		}
	}

	var out string
	switch len(members) {
	case 0:
		out = "z.any()"
	case 1:
		out = members[0]
	default:
		out = members[0]
		for _, m := range members[1:] {
			out = "z.intersection(" + out + ", " + m + ")"
		}
	}
	return nullable(out, isNullable)
}

func (e *emitter) enum(en *schema.Enum) string {
	isNullable := en.Nullable
	var values []any
	allStrings := true
	for _, v := range en.Values {
		if v == nil {
			isNullable = true
			continue
		}
		if _, ok := v.(string); !ok {
			allStrings = false
		}
		values = append(values, v)
	}

	var out string
	switch {
	case len(values) == 0:
		out = "z.null()"
		isNullable = false
	case allStrings && len(values) > 1:
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = literal(v)
		}
		out = "z.enum([" + strings.Join(parts, ", ") + "])"
	case len(values) == 1:
		out = "z.literal(" + literal(values[0]) + ")"
	default:
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = "z.literal(" + literal(v) + ")"
		}
		out = "z.union([" + strings.Join(parts, ", ") + "])"
	}
	return withDefault(nullable(out, isNullable), en.Meta, literal)
}

func nullable(expr string, ok bool) string {
	if ok {
		return expr + ".nullable()"
	}
	return expr
}
