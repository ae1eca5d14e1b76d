// Package compiler lowers schema nodes to Zod validator expressions.
package compiler

import (
	"fmt"
	"sync"

	"github.com/nakita628/hono-takibi-sub031/internal/cycle"
	"github.com/nakita628/hono-takibi-sub031/internal/schema"
)

// Options tunes the emitted expressions.
type Options struct {
	// Readonly appends .readonly() to every object expression.
	Readonly bool
	// ExportType emits an inferred type export next to each declaration.
	ExportType bool
	// Workers bounds CompileAll parallelism. Zero or one compiles inline.
	Workers int
}

// Source is one declaration to compile.
type Source struct {
	Name     string
	Category Category
	Node     schema.Node
	// Coerce marks values bound from string transports (query, path,
	// header, cookie parameters).
	Coerce bool
	// Optional appends .optional() to the declaration body.
	Optional bool
}

// Declaration is a compiled validator declaration. Declarations are values;
// later stages reorder and group them but never edit them.
type Declaration struct {
	Name     string
	Category Category
	Names

	Body string
	// Alias is the structural type text, set when RequiresTypeAlias is.
	Alias             string
	RequiresTypeAlias bool
	InCycle           bool
	// ExportType mirrors Options.ExportType for this declaration.
	ExportType bool
	// DependsOn lists the defined schemas referenced by Body, first-seen
	// order.
	DependsOn []string
}

// Exports returns every identifier the declaration block defines.
func (d Declaration) Exports() []string {
	out := []string{d.Identifier}
	if d.RequiresTypeAlias {
		out = append(out, d.AliasName)
	}
	if d.ExportType {
		out = append(out, d.TypeName)
	}
	return out
}

// Severity grades a diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Diagnostic is a non-fatal finding recorded during compilation.
type Diagnostic struct {
	Severity Severity
	Schema   string
	Category Category
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s %s: %s", d.Severity, d.Category, d.Schema, d.Message)
}

// Compiler turns schema nodes into expressions against a fixed table and
// classification.
type Compiler struct {
	table   *schema.Table
	classes *cycle.Classification
	opts    Options
	names   map[Category]map[string]Names
	namer   *namer
}

// New creates a compiler. Exported names for every table schema are
// reserved up front, in table order, so they do not depend on which
// declarations get compiled.
func New(table *schema.Table, classes *cycle.Classification, opts Options) *Compiler {
	c := &Compiler{
		table:   table,
		classes: classes,
		opts:    opts,
		names:   make(map[Category]map[string]Names),
	}
	n := newNamer()
	c.names[CategorySchemas] = make(map[string]Names, table.Len())
	for _, name := range table.Names() {
		c.names[CategorySchemas][name] = n.assign(name, CategorySchemas)
	}
	c.namer = n
	return c
}

// WithClassification returns a compiler sharing c's names but reading
// flags from classes.
func (c *Compiler) WithClassification(classes *cycle.Classification) *Compiler {
	next := *c
	next.classes = classes
	return &next
}

// Reserve assigns names for declarations outside the schemas category.
// It must be called, in a stable order, before compiling those sources.
func (c *Compiler) Reserve(srcs []Source) {
	for _, src := range srcs {
		if src.Category == CategorySchemas {
			continue
		}
		byName := c.names[src.Category]
		if byName == nil {
			byName = make(map[string]Names)
			c.names[src.Category] = byName
		}
		if _, ok := byName[src.Name]; !ok {
			byName[src.Name] = c.namer.assign(src.Name, src.Category)
		}
	}
}

// NamesOf returns the exported names of a declaration.
func (c *Compiler) NamesOf(name string, cat Category) Names {
	if n, ok := c.names[cat][name]; ok {
		return n
	}
	return newNamer().assign(name, cat)
}

// Identifier returns the validator identifier of a table schema.
func (c *Compiler) Identifier(name string) string {
	return c.NamesOf(name, CategorySchemas).Identifier
}

// Expression compiles n outside of any declaration. Diagnostics are
// dropped.
func (c *Compiler) Expression(n schema.Node) string {
	e := c.emitter("", CategorySchemas, false)
	return e.expr(n)
}

// Compile compiles one source into a declaration.
func (c *Compiler) Compile(src Source) (Declaration, []Diagnostic) {
	e := c.emitter(src.Name, src.Category, src.Coerce)
	body := e.expr(src.Node)
	if src.Optional {
		body += ".optional()"
	}

	names := c.NamesOf(src.Name, src.Category)
	flags := cycle.Flags{}
	if src.Category == CategorySchemas {
		flags = c.classes.Of(src.Name)
	}

	d := Declaration{
		Name:              src.Name,
		Category:          src.Category,
		Names:             names,
		Body:              body,
		RequiresTypeAlias: flags.NeedsExplicitType,
		InCycle:           flags.InCycle,
		ExportType:        c.opts.ExportType,
		DependsOn:         e.deps,
	}
	if d.RequiresTypeAlias {
		d.Alias = c.TypeOf(src.Node)
	}
	return d, e.diags
}

// CompileAll compiles srcs, in parallel when Options.Workers allows. The
// result order matches srcs.
func (c *Compiler) CompileAll(srcs []Source) ([]Declaration, []Diagnostic) {
	decls := make([]Declaration, len(srcs))
	diags := make([][]Diagnostic, len(srcs))

	workers := c.opts.Workers
	if workers <= 1 || len(srcs) < 2 {
		for i, src := range srcs {
			decls[i], diags[i] = c.Compile(src)
		}
	} else {
		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < min(workers, len(srcs)); w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					decls[i], diags[i] = c.Compile(srcs[i])
				}
			}()
		}
		for i := range srcs {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	var all []Diagnostic
	for _, d := range diags {
		all = append(all, d...)
	}
	return decls, all
}

// SchemaSources returns one source per table schema, in table order.
func SchemaSources(t *schema.Table) []Source {
	srcs := make([]Source, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		srcs = append(srcs, Source{Name: t.Name(i), Category: CategorySchemas, Node: t.At(i)})
	}
	return srcs
}

// RefersToSelf reports whether a compiled declaration mentions its own
// identifier.
func RefersToSelf(d Declaration) bool {
	return MentionsIdentifier(d.Body, d.Identifier)
}
