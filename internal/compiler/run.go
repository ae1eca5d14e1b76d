package compiler

import (
	"github.com/nakita628/hono-takibi-sub031/internal/cycle"
	"github.com/nakita628/hono-takibi-sub031/internal/graph"
	"github.com/nakita628/hono-takibi-sub031/internal/schema"
)

// Result is the output of Run.
type Result struct {
	// Declarations holds the table schemas in table order followed by the
	// extra sources in the order given.
	Declarations   []Declaration
	Diagnostics    []Diagnostic
	Classification *cycle.Classification
	// Promoted lists schemas that only the lexical pass found to refer to
	// themselves.
	Promoted []string
}

// Run compiles every schema of t plus extra. Classification happens in two
// passes: graph-level cycles first, then lexical self-reference found in
// the compiled bodies. When the second pass promotes anything, every
// source is compiled again against the promoted flags.
func Run(t *schema.Table, extra []Source, opts Options) Result {
	g := graph.Build(t)
	classes := cycle.Analyze(g)

	c := New(t, classes, opts)
	c.Reserve(extra)
	srcs := append(SchemaSources(t), extra...)

	decls, diags := c.CompileAll(srcs)

	bodies := make(map[string]Declaration, t.Len())
	for _, d := range decls[:t.Len()] {
		bodies[d.Name] = d
	}
	promotedClasses, promoted := classes.PromoteLexical(func(name string) bool {
		return RefersToSelf(bodies[name])
	})
	if len(promoted) > 0 {
		c = c.WithClassification(promotedClasses)
		decls, diags = c.CompileAll(srcs)
	}

	return Result{
		Declarations:   decls,
		Diagnostics:    diags,
		Classification: promotedClasses,
		Promoted:       promoted,
	}
}
