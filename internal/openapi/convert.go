package openapi

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nakita628/hono-takibi-sub031/internal/compiler"
	"github.com/nakita628/hono-takibi-sub031/internal/schema"
)

// coercedLocations are the parameter locations whose values arrive as
// strings.
var coercedLocations = map[string]bool{
	"query":  true,
	"path":   true,
	"header": true,
	"cookie": true,
}

type converter struct {
	root     *yaml.Node
	warnings []string
}

func (c *converter) warn(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

func convert(root *yaml.Node, version string) (*Document, error) {
	c := &converter{root: root}
	doc := &Document{
		Version: version,
		Title:   scalar(child(child(root, "info"), "title")),
	}

	components := child(root, "components")

	b := schema.NewBuilder()
	for _, p := range pairs(child(components, "schemas")) {
		if err := b.Add(p.key, c.schema(p.value)); err != nil {
			return nil, fmt.Errorf("failed to add schema: %w", err)
		}
	}
	doc.Schemas = b.Build()

	for _, p := range pairs(child(components, "parameters")) {
		if src, ok := c.parameter(p.key, p.value); ok {
			doc.Components = append(doc.Components, src)
		}
	}
	for _, p := range pairs(child(components, "headers")) {
		if src, ok := c.header(p.key, p.value); ok {
			doc.Components = append(doc.Components, src)
		}
	}
	for _, p := range pairs(child(components, "requestBodies")) {
		if src, ok := c.requestBody(p.key, p.value); ok {
			doc.Components = append(doc.Components, src)
		}
	}
	for _, p := range pairs(child(components, "responses")) {
		if src, ok := c.response(p.key, p.value); ok {
			doc.Components = append(doc.Components, src)
		}
	}

	doc.Warnings = c.warnings
	return doc, nil
}

// deref follows a local $ref on a component object such as a parameter.
func (c *converter) deref(n *yaml.Node) *yaml.Node {
	for i := 0; i < 16 && n != nil; i++ {
		ref := scalar(child(n, "$ref"))
		if ref == "" {
			return n
		}
		if !strings.HasPrefix(ref, "#/") {
			c.warn("external reference %q is not followed", ref)
			return nil
		}
		n = c.root
		for _, seg := range strings.Split(strings.TrimPrefix(ref, "#/"), "/") {
			n = child(n, unescapePointer(seg))
		}
	}
	return n
}

func (c *converter) parameter(name string, n *yaml.Node) (compiler.Source, bool) {
	n = c.deref(n)
	if n == nil {
		c.warn("parameter %q could not be resolved", name)
		return compiler.Source{}, false
	}
	in := scalar(child(n, "in"))
	required := boolValue(child(n, "required")) || in == "path"

	s := child(n, "schema")
	if s == nil {
		s = firstContentSchema(child(n, "content"))
	}
	if s == nil {
		c.warn("parameter %q has no schema", name)
		return compiler.Source{}, false
	}
	return compiler.Source{
		Name:     name,
		Category: compiler.CategoryParameters,
		Node:     c.schema(s),
		Coerce:   coercedLocations[in],
		Optional: !required,
	}, true
}

func (c *converter) header(name string, n *yaml.Node) (compiler.Source, bool) {
	n = c.deref(n)
	s := firstNonNil(child(n, "schema"), firstContentSchema(child(n, "content")))
	if s == nil {
		c.warn("header %q has no schema", name)
		return compiler.Source{}, false
	}
	return compiler.Source{
		Name:     name,
		Category: compiler.CategoryHeaders,
		Node:     c.schema(s),
		Coerce:   true,
		Optional: !boolValue(child(n, "required")),
	}, true
}

func (c *converter) requestBody(name string, n *yaml.Node) (compiler.Source, bool) {
	n = c.deref(n)
	s := firstContentSchema(child(n, "content"))
	if s == nil {
		c.warn("request body %q has no schema", name)
		return compiler.Source{}, false
	}
	return compiler.Source{
		Name:     name,
		Category: compiler.CategoryRequestBodies,
		Node:     c.schema(s),
		Optional: !boolValue(child(n, "required")),
	}, true
}

func (c *converter) response(name string, n *yaml.Node) (compiler.Source, bool) {
	n = c.deref(n)
	s := firstContentSchema(child(n, "content"))
	if s == nil {
		// Responses without a body are legal and have nothing to validate.
		return compiler.Source{}, false
	}
	return compiler.Source{
		Name:     name,
		Category: compiler.CategoryResponses,
		Node:     c.schema(s),
	}, true
}

// firstContentSchema picks the JSON media type schema, or the first media
// type with a schema.
func firstContentSchema(content *yaml.Node) *yaml.Node {
	if s := child(child(content, "application/json"), "schema"); s != nil {
		return s
	}
	for _, p := range pairs(content) {
		if s := child(p.value, "schema"); s != nil {
			return s
		}
	}
	return nil
}

// schema converts one schema object. Property and component order follow
// the document.
func (c *converter) schema(n *yaml.Node) schema.Node {
	n = resolveAlias(n)
	if n == nil {
		return &schema.Unknown{}
	}
	if n.Kind == yaml.ScalarNode && n.Tag == "!!bool" {
		// Boolean schemas: true accepts anything, false nothing.
		if boolValue(n) {
			return &schema.Unknown{}
		}
		return &schema.Not{Schema: &schema.Unknown{}}
	}
	if n.Kind != yaml.MappingNode {
		return &schema.Unknown{}
	}

	if ref := scalar(child(n, "$ref")); ref != "" {
		r := &schema.Ref{Name: refName(ref)}
		r.Nullable = boolValue(child(n, "nullable"))
		return r
	}

	meta := c.meta(n)
	types := typeList(child(n, "type"))
	if slices.Contains(types, schema.TypeNull) && len(types) > 1 {
		meta.Nullable = true
		types = without(types, schema.TypeNull)
	}

	var out schema.Node
	switch {
	case child(n, "const") != nil:
		out = &schema.Const{Value: decode(child(n, "const"))}
	case child(n, "enum") != nil:
		var values []any
		for _, v := range items(child(n, "enum")) {
			values = append(values, decode(v))
		}
		out = &schema.Enum{Values: values}
	case child(n, "allOf") != nil:
		cb := c.combinator(schema.OpAllOf, child(n, "allOf"))
		if own := c.ownShape(n, types); own != nil {
			cb.Members = append(cb.Members, own)
		}
		out = cb
	case child(n, "oneOf") != nil:
		out = c.withShape(n, types, c.combinator(schema.OpOneOf, child(n, "oneOf")))
	case child(n, "anyOf") != nil:
		out = c.withShape(n, types, c.combinator(schema.OpAnyOf, child(n, "anyOf")))
	case child(n, "not") != nil:
		out = c.withShape(n, types, &schema.Not{Schema: c.schema(child(n, "not"))})
	default:
		out = c.shape(n, types)
		if out == nil {
			out = &schema.Unknown{}
		}
	}

	*schema.MetaOf(out) = meta
	return out
}

func (c *converter) meta(n *yaml.Node) schema.Meta {
	m := schema.Meta{
		Nullable:    boolValue(child(n, "nullable")),
		Description: scalar(child(n, "description")),
	}
	if d := child(n, "default"); d != nil {
		m.Default = decode(d)
		m.HasDefault = true
	}
	return m
}

// shape converts the type and structure keywords of n, or returns nil when
// n has none.
func (c *converter) shape(n *yaml.Node, types []string) schema.Node {
	switch {
	case len(types) > 1:
		var members []schema.Node
		for _, t := range types {
			members = append(members, c.typed(n, t))
		}
		return &schema.Combinator{Op: schema.OpAnyOf, Members: members}
	case len(types) == 1:
		return c.typed(n, types[0])
	case child(n, "properties") != nil || child(n, "additionalProperties") != nil:
		return c.typed(n, "object")
	case child(n, "items") != nil:
		return c.typed(n, "array")
	}
	return nil
}

// ownShape is shape without a bare `type: object`, which adds nothing to a
// composition.
func (c *converter) ownShape(n *yaml.Node, types []string) schema.Node {
	own := c.shape(n, types)
	if o, ok := own.(*schema.Object); ok && len(o.Properties) == 0 && o.Additional == schema.AdditionalNone {
		return nil
	}
	return own
}

// withShape intersects a composition with the structure declared next to
// it, so sibling properties are not lost.
func (c *converter) withShape(n *yaml.Node, types []string, composed schema.Node) schema.Node {
	own := c.ownShape(n, types)
	if own == nil {
		return composed
	}
	return &schema.Combinator{Op: schema.OpAllOf, Members: []schema.Node{own, composed}}
}

func (c *converter) combinator(op schema.Op, list *yaml.Node) *schema.Combinator {
	cb := &schema.Combinator{Op: op}
	for _, m := range items(list) {
		cb.Members = append(cb.Members, c.schema(m))
	}
	return cb
}

// typed converts n as a schema of the single type typ.
func (c *converter) typed(n *yaml.Node, typ string) schema.Node {
	switch typ {
	case "object":
		o := &schema.Object{Required: make(map[string]bool)}
		for _, r := range items(child(n, "required")) {
			o.Required[scalar(r)] = true
		}
		for _, p := range pairs(child(n, "properties")) {
			o.Properties = append(o.Properties, schema.Property{Name: p.key, Schema: c.schema(p.value)})
		}
		if ap := resolveAlias(child(n, "additionalProperties")); ap != nil {
			switch {
			case ap.Kind == yaml.ScalarNode && boolValue(ap):
				o.Additional = schema.AdditionalOpen
			case ap.Kind == yaml.ScalarNode:
				o.Additional = schema.AdditionalClosed
			case ap.Kind == yaml.MappingNode && len(ap.Content) == 0:
				o.Additional = schema.AdditionalOpen
			default:
				o.Additional = schema.AdditionalTyped
				o.AdditionalSchema = c.schema(ap)
			}
		}
		return o
	case "array":
		a := &schema.Array{
			MinItems: uintValue(child(n, "minItems")),
			MaxItems: uintValue(child(n, "maxItems")),
		}
		if it := child(n, "items"); it != nil {
			a.Items = c.schema(it)
		}
		return a
	case schema.TypeString, schema.TypeNumber, schema.TypeInteger, schema.TypeBoolean, schema.TypeNull:
		p := &schema.Primitive{
			Type:       typ,
			Format:     scalar(child(n, "format")),
			Pattern:    scalar(child(n, "pattern")),
			MinLength:  uintValue(child(n, "minLength")),
			MaxLength:  uintValue(child(n, "maxLength")),
			Minimum:    floatValue(child(n, "minimum")),
			Maximum:    floatValue(child(n, "maximum")),
			MultipleOf: floatValue(child(n, "multipleOf")),
		}
		// exclusiveMinimum is a flag in 3.0 and a number in 3.1.
		if ex := resolveAlias(child(n, "exclusiveMinimum")); ex != nil {
			if ex.Tag == "!!bool" {
				p.ExclusiveMinimum = boolValue(ex)
			} else {
				p.ExclusiveMinimumValue = floatValue(ex)
			}
		}
		if ex := resolveAlias(child(n, "exclusiveMaximum")); ex != nil {
			if ex.Tag == "!!bool" {
				p.ExclusiveMaximum = boolValue(ex)
			} else {
				p.ExclusiveMaximumValue = floatValue(ex)
			}
		}
		return p
	default:
		c.warn("unknown schema type %q", typ)
		return &schema.Unknown{}
	}
}

// refName returns the schema name a $ref points at: the last pointer
// segment, unescaped.
func refName(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		ref = ref[i+1:]
	}
	return unescapePointer(ref)
}

func unescapePointer(s string) string {
	s = strings.ReplaceAll(s, "~1", "/")
	return strings.ReplaceAll(s, "~0", "~")
}

func typeList(n *yaml.Node) []string {
	n = resolveAlias(n)
	if n == nil {
		return nil
	}
	if n.Kind == yaml.ScalarNode {
		return []string{n.Value}
	}
	var out []string
	for _, t := range items(n) {
		out = append(out, scalar(t))
	}
	return out
}

func without(list []string, s string) []string {
	var out []string
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

func firstNonNil(nodes ...*yaml.Node) *yaml.Node {
	for _, n := range nodes {
		if n != nil {
			return n
		}
	}
	return nil
}
