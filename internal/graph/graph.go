// Package graph builds the reference graph between named schemas.
package graph

import (
	"github.com/nakita628/hono-takibi-sub031/internal/schema"
)

// Graph is the directed reference graph of a schema table. Vertex v in
// [0, table.Len()) is the table entry with the same index; vertices past
// that range are dangling names referenced but never defined.
type Graph struct {
	defined int
	names   []string
	index   map[string]int
	edges   [][]int
}

// Dangling is an unresolved reference and the schemas that use it.
type Dangling struct {
	Name string
	From []string
}

// Build walks every schema in t and records the names it references.
func Build(t *schema.Table) *Graph {
	g := &Graph{
		defined: t.Len(),
		names:   t.Names(),
		index:   make(map[string]int, t.Len()),
		edges:   make([][]int, t.Len()),
	}
	for i, name := range g.names {
		g.index[name] = i
	}

	for v := 0; v < g.defined; v++ {
		seen := make(map[int]bool)
		WalkRefs(t.At(v), func(name string) {
			w := g.vertex(name)
			if seen[w] {
				return
			}
			seen[w] = true
			g.edges[v] = append(g.edges[v], w)
		})
	}
	return g
}

// vertex returns the vertex for name, adding a dangling vertex if needed.
func (g *Graph) vertex(name string) int {
	if v, ok := g.index[name]; ok {
		return v
	}
	v := len(g.names)
	g.names = append(g.names, name)
	g.index[name] = v
	g.edges = append(g.edges, nil)
	return v
}

// Len returns the number of vertices, dangling ones included.
func (g *Graph) Len() int { return len(g.names) }

// Name returns the schema name of vertex v.
func (g *Graph) Name(v int) string { return g.names[v] }

// Vertex returns the vertex of name.
func (g *Graph) Vertex(name string) (int, bool) {
	v, ok := g.index[name]
	return v, ok
}

// Edges returns the successors of v in discovery order. The slice must not
// be modified.
func (g *Graph) Edges(v int) []int { return g.edges[v] }

// IsDangling reports whether v names an undefined schema.
func (g *Graph) IsDangling(v int) bool { return v >= g.defined }

// HasSelfLoop reports whether v references itself.
func (g *Graph) HasSelfLoop(v int) bool {
	for _, w := range g.edges[v] {
		if w == v {
			return true
		}
	}
	return false
}

// References returns the names schema name refers to, at any depth.
func (g *Graph) References(name string) []string {
	v, ok := g.index[name]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(g.edges[v]))
	for _, w := range g.edges[v] {
		out = append(out, g.names[w])
	}
	return out
}

// Dangling lists unresolved references in first-seen order.
func (g *Graph) Dangling() []Dangling {
	var out []Dangling
	for w := g.defined; w < len(g.names); w++ {
		d := Dangling{Name: g.names[w]}
		for v := 0; v < g.defined; v++ {
			for _, x := range g.edges[v] {
				if x == w {
					d.From = append(d.From, g.names[v])
					break
				}
			}
		}
		out = append(out, d)
	}
	return out
}

// WalkRefs calls visit for every reference reachable inside n without
// following references. Array items, object properties, dictionary values
// and allOf/oneOf/anyOf members are descended into.
func WalkRefs(n schema.Node, visit func(name string)) {
	switch t := n.(type) {
	case *schema.Ref:
		visit(t.Name)
	case *schema.Array:
		WalkRefs(t.Items, visit)
	case *schema.Object:
		for _, p := range t.Properties {
			WalkRefs(p.Schema, visit)
		}
		if t.Additional == schema.AdditionalTyped {
			WalkRefs(t.AdditionalSchema, visit)
		}
	case *schema.Combinator:
		for _, m := range t.Members {
			WalkRefs(m, visit)
		}
	case *schema.Primitive, *schema.Not, *schema.Const, *schema.Enum, *schema.Unknown, nil:
	}
}
