// Package packager partitions compiled declarations into output files and
// resolves the imports between them.
package packager

import (
	"errors"
	"fmt"
	"path"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/nakita628/hono-takibi-sub031/internal/compiler"
	"github.com/nakita628/hono-takibi-sub031/internal/sequence"
)

// DefaultImportSource is the module the validator namespace comes from.
const DefaultImportSource = "@hono/zod-openapi"

const indexFile = "index.ts"

// Target is where one category of declarations is written.
type Target struct {
	// Output is a file path, or a directory when Split is set.
	Output string
	Split  bool
	// Import, when set, is the module specifier other files use to import
	// this category's declarations.
	Import string
}

// Config is the packaging configuration for one run.
type Config struct {
	// Default receives every category without an entry in Categories.
	Default    Target
	Categories map[compiler.Category]Target
	// ImportSource overrides DefaultImportSource.
	ImportSource string
	// Workers bounds per-file import resolution parallelism.
	Workers int
}

func (c Config) target(cat compiler.Category) (Target, bool) {
	if t, ok := c.Categories[cat]; ok {
		return t, true
	}
	return c.Default, cat == compiler.CategorySchemas
}

func (c Config) importSource() string {
	if c.ImportSource != "" {
		return c.ImportSource
	}
	return DefaultImportSource
}

// Import is one import statement.
type Import struct {
	Names []string
	From  string
}

// File is one planned output file.
type File struct {
	Path string
	// ImportSource is the validator namespace module. Empty for
	// aggregator files.
	ImportSource string
	Imports      []Import
	Blocks       []compiler.Declaration
	// Reexports lists the sibling modules an aggregator file re-exports,
	// sorted.
	Reexports []string
}

// IsAggregator reports whether f only re-exports its siblings.
func (f *File) IsAggregator() bool {
	return len(f.Reexports) > 0
}

// Plan is the full set of files for one run, in write order.
type Plan struct {
	Files []*File
}

// Paths returns every planned path in plan order.
func (p *Plan) Paths() []string {
	out := make([]string, len(p.Files))
	for i, f := range p.Files {
		out[i] = f.Path
	}
	return out
}

// group collects the declarations written under one output.
type group struct {
	target Target
	cats   []compiler.Category
	decls  []compiler.Declaration
}

// Build plans the output files for decls. Configuration problems are
// collected and returned together; no plan is produced when there are
// any.
func Build(decls []compiler.Declaration, cfg Config) (*Plan, error) {
	var errs []error

	groups := make(map[string]*group)
	var order []string
	addGroup := func(cat compiler.Category, t Target) *group {
		g, ok := groups[t.Output]
		if !ok {
			g = &group{target: t}
			groups[t.Output] = g
			order = append(order, t.Output)
		}
		if !slices.Contains(g.cats, cat) {
			if g.target.Split != t.Split {
				errs = append(errs, fmt.Errorf("output %q is shared by %s and %s with different split settings", t.Output, g.cats[0], cat))
			}
			g.cats = append(g.cats, cat)
		}
		return g
	}

	// Every explicitly configured category gets a group, even when empty,
	// so that split targets without declarations are reported.
	for _, cat := range compiler.Categories {
		t, configured := cfg.target(cat)
		if !configured {
			continue
		}
		if t.Output == "" {
			errs = append(errs, fmt.Errorf("output for %s is not configured", cat))
			continue
		}
		addGroup(cat, t)
	}
	for _, d := range decls {
		t, _ := cfg.target(d.Category)
		if t.Output == "" {
			errs = append(errs, fmt.Errorf("output for %s is not configured", d.Category))
			continue
		}
		g := addGroup(d.Category, t)
		g.decls = append(g.decls, d)
	}

	for _, out := range order {
		g := groups[out]
		if g.target.Split && len(g.decls) == 0 {
			errs = append(errs, fmt.Errorf("split output %q has no declarations", out))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(dedupe(errs)...)
	}

	p := &Plan{}
	owners := make(map[string]*owner)
	for _, out := range order {
		g := groups[out]
		if g.target.Split {
			p.Files = append(p.Files, splitFiles(g, cfg)...)
		} else if len(g.decls) > 0 {
			p.Files = append(p.Files, &File{
				Path:         out,
				ImportSource: cfg.importSource(),
				Blocks:       sequence.Order(g.decls),
			})
		}
	}
	seen := make(map[string]bool, len(p.Files))
	for _, f := range p.Files {
		if seen[f.Path] {
			errs = append(errs, fmt.Errorf("file %s is planned twice", f.Path))
		}
		seen[f.Path] = true
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	for _, f := range p.Files {
		for _, d := range f.Blocks {
			t, _ := cfg.target(d.Category)
			for _, id := range d.Exports() {
				if _, ok := owners[id]; !ok {
					owners[id] = &owner{path: f.Path, target: t}
				}
			}
		}
	}

	resolveAll(p.Files, owners, cfg.Workers)
	return p, nil
}

// splitFiles plans one file per declaration plus the index. File names are
// compared case-insensitively and get a numeric suffix on collision, so
// schemas such as Pet and pet land in pet.ts and pet2.ts.
func splitFiles(g *group, cfg Config) []*File {
	var files []*File
	used := map[string]bool{strings.TrimSuffix(indexFile, ".ts"): true}
	var modules []string
	for _, d := range g.decls {
		base := compiler.CamelCase(d.Name)
		name := base
		for i := 2; used[strings.ToLower(name)]; i++ {
			name = base + strconv.Itoa(i)
		}
		used[strings.ToLower(name)] = true

		modules = append(modules, name)
		files = append(files, &File{
			Path:         path.Join(g.target.Output, name+".ts"),
			ImportSource: cfg.importSource(),
			Blocks:       []compiler.Declaration{d},
		})
	}
	sort.Strings(modules)
	files = append(files, &File{
		Path:      path.Join(g.target.Output, indexFile),
		Reexports: modules,
	})
	return files
}

func dedupe(errs []error) []error {
	seen := make(map[string]bool)
	var out []error
	for _, err := range errs {
		if !seen[err.Error()] {
			seen[err.Error()] = true
			out = append(out, err)
		}
	}
	return out
}

type owner struct {
	path   string
	target Target
}

func resolveAll(files []*File, owners map[string]*owner, workers int) {
	if workers <= 1 {
		for _, f := range files {
			f.Imports = resolve(f, owners)
		}
		return
	}
	jobs := make(chan *File)
	var wg sync.WaitGroup
	for w := 0; w < min(workers, len(files)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range jobs {
				f.Imports = resolve(f, owners)
			}
		}()
	}
	for _, f := range files {
		jobs <- f
	}
	close(jobs)
	wg.Wait()
}

// resolve computes the import statements of f. Identifiers owned by a
// category with an explicit import specifier come from that specifier;
// everything else gets a relative path.
func resolve(f *File, owners map[string]*owner) []Import {
	defined := make(map[string]bool)
	for _, d := range f.Blocks {
		for _, id := range d.Exports() {
			defined[id] = true
		}
	}

	bySource := make(map[string]map[string]bool)
	for _, d := range f.Blocks {
		for _, text := range []string{d.Body, d.Alias} {
			for _, id := range compiler.Mentions(text) {
				if defined[id] {
					continue
				}
				o, ok := owners[id]
				if !ok {
					continue
				}
				from := o.target.Import
				if from == "" {
					from = Relative(path.Dir(f.Path), o.path)
				}
				if bySource[from] == nil {
					bySource[from] = make(map[string]bool)
				}
				bySource[from][id] = true
			}
		}
	}

	sources := make([]string, 0, len(bySource))
	for s := range bySource {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	imports := make([]Import, 0, len(sources))
	for _, s := range sources {
		names := make([]string, 0, len(bySource[s]))
		for n := range bySource[s] {
			names = append(names, n)
		}
		sort.Strings(names)
		imports = append(imports, Import{Names: names, From: s})
	}
	return imports
}

// Relative returns the module specifier for target as seen from files in
// dir. The extension is dropped and an index module collapses to its
// directory.
func Relative(dir, target string) string {
	target = strings.TrimSuffix(target, path.Ext(target))
	rel := relPath(path.Clean(dir), target)

	switch {
	case rel == "index":
		return "."
	case strings.HasSuffix(rel, "/index"):
		rel = strings.TrimSuffix(rel, "/index")
	}
	if rel == ".." || strings.HasPrefix(rel, "../") || rel == "." {
		return rel
	}
	return "./" + rel
}

// relPath is filepath.Rel for slash-separated, possibly relative paths.
func relPath(base, target string) string {
	b := splitPath(base)
	t := splitPath(path.Clean(target))
	i := 0
	for i < len(b) && i < len(t) && b[i] == t[i] {
		i++
	}
	parts := make([]string, 0, len(b)-i+len(t)-i)
	for range b[i:] {
		parts = append(parts, "..")
	}
	parts = append(parts, t[i:]...)
	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, "/")
}

func splitPath(p string) []string {
	if p == "." || p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
