// Package cycle classifies named schemas by their participation in
// reference cycles.
package cycle

import (
	"github.com/nakita628/hono-takibi-sub031/internal/graph"
)

// Flags is the classification of one schema.
type Flags struct {
	// InCycle is set for members of a strongly connected component that
	// contains an edge, self-loops included.
	InCycle bool
	// NeedsDeferredConstruction means references to the schema must be
	// wrapped in a lazy construct.
	NeedsDeferredConstruction bool
	// NeedsExplicitType means the declaration carries a structural type
	// alias and an explicit annotation.
	NeedsExplicitType bool
}

// Classification maps each defined schema name to its Flags. Values are
// immutable; PromoteLexical returns a new Classification.
type Classification struct {
	names []string
	flags map[string]Flags
}

// Analyze computes graph-level cycle flags for every defined schema in g.
func Analyze(g *graph.Graph) *Classification {
	n := g.Len()
	cyclic := make([]bool, n)
	for _, comp := range graph.StronglyConnected(n, g.Edges) {
		if len(comp) > 1 || g.HasSelfLoop(comp[0]) {
			for _, v := range comp {
				cyclic[v] = true
			}
		}
	}

	adjacent := make([]bool, n)
	markFromCycles(n, cyclic, adjacent, g.Edges)
	markFromCycles(n, cyclic, adjacent, reverse(g))

	c := &Classification{flags: make(map[string]Flags, n)}
	for v := 0; v < n; v++ {
		if g.IsDangling(v) {
			continue
		}
		name := g.Name(v)
		c.names = append(c.names, name)
		c.flags[name] = Flags{
			InCycle:                   cyclic[v],
			NeedsDeferredConstruction: cyclic[v],
			NeedsExplicitType:         cyclic[v] || adjacent[v],
		}
	}
	return c
}

// markFromCycles marks every non-cyclic vertex reachable from a cyclic one
// along next.
func markFromCycles(n int, cyclic, mark []bool, next func(int) []int) {
	seen := make([]bool, n)
	var queue []int
	for v := 0; v < n; v++ {
		if cyclic[v] {
			seen[v] = true
			queue = append(queue, v)
		}
	}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, w := range next(v) {
			if seen[w] {
				continue
			}
			seen[w] = true
			if !cyclic[w] {
				mark[w] = true
			}
			queue = append(queue, w)
		}
	}
}

func reverse(g *graph.Graph) func(int) []int {
	in := make([][]int, g.Len())
	for v := 0; v < g.Len(); v++ {
		for _, w := range g.Edges(v) {
			in[w] = append(in[w], v)
		}
	}
	return func(v int) []int { return in[v] }
}

// Of returns the flags of name. Unknown names get the zero Flags.
func (c *Classification) Of(name string) Flags {
	return c.flags[name]
}

// Names returns the classified schema names in table order.
func (c *Classification) Names() []string {
	return append([]string(nil), c.names...)
}

// Cyclic returns the names with InCycle set, in table order.
func (c *Classification) Cyclic() []string {
	var out []string
	for _, name := range c.names {
		if c.flags[name].InCycle {
			out = append(out, name)
		}
	}
	return out
}

// PromoteLexical is the second classification pass. For every schema that
// is not deferred yet and whose compiled body refers to its own identifier,
// the schema is promoted to deferred construction with an explicit type.
// It returns the new classification and the promoted names.
func (c *Classification) PromoteLexical(refersToSelf func(name string) bool) (*Classification, []string) {
	next := &Classification{
		names: c.names,
		flags: make(map[string]Flags, len(c.flags)),
	}
	var promoted []string
	for _, name := range c.names {
		f := c.flags[name]
		if !f.NeedsDeferredConstruction && refersToSelf(name) {
			f.NeedsDeferredConstruction = true
			f.NeedsExplicitType = true
			promoted = append(promoted, name)
		}
		next.flags[name] = f
	}
	return next, promoted
}
