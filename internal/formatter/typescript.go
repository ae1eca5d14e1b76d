// Package formatter renders planned output files as TypeScript source and
// writes them to disk.
package formatter

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/nakita628/hono-takibi-sub031/internal/compiler"
	"github.com/nakita628/hono-takibi-sub031/internal/packager"
)

// TypeScriptFormatter writes planned files as TypeScript source
type TypeScriptFormatter struct {
	writer io.Writer
}

// NewTypeScriptFormatter creates a new TypeScript formatter
func NewTypeScriptFormatter(w io.Writer) *TypeScriptFormatter {
	return &TypeScriptFormatter{writer: w}
}

// Format writes one file: the validator namespace import, the resolved
// imports, then the declaration blocks separated by blank lines.
func (f *TypeScriptFormatter) Format(file *packager.File) error {
	if file.IsAggregator() {
		for _, m := range file.Reexports {
			if _, err := fmt.Fprintf(f.writer, "export * from './%s'\n", m); err != nil {
				return err
			}
		}
		return nil
	}

	var header []string
	if file.ImportSource != "" {
		header = append(header, fmt.Sprintf("import { z } from '%s'", file.ImportSource))
	}
	for _, imp := range file.Imports {
		header = append(header, fmt.Sprintf("import { %s } from '%s'", strings.Join(imp.Names, ", "), imp.From))
	}

	sections := []string{}
	if len(header) > 0 {
		sections = append(sections, strings.Join(header, "\n"))
	}
	for _, d := range file.Blocks {
		sections = append(sections, Block(d))
	}
	_, err := fmt.Fprintf(f.writer, "%s\n", strings.Join(sections, "\n\n"))
	return err
}

// Block renders one declaration with its type alias and inferred type
// export.
func Block(d compiler.Declaration) string {
	var parts []string
	if d.RequiresTypeAlias {
		parts = append(parts, fmt.Sprintf("export type %s = %s", d.AliasName, d.Alias))
		parts = append(parts, fmt.Sprintf("export const %s: z.ZodType<%s> = %s", d.Identifier, d.AliasName, d.Body))
	} else {
		parts = append(parts, fmt.Sprintf("export const %s = %s", d.Identifier, d.Body))
	}
	if d.ExportType {
		parts = append(parts, fmt.Sprintf("export type %s = z.infer<typeof %s>", d.TypeName, d.Identifier))
	}
	return strings.Join(parts, "\n\n")
}

// Render returns the source text of file.
func Render(file *packager.File) []byte {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer do not fail.
	_ = NewTypeScriptFormatter(&buf).Format(file)
	return buf.Bytes()
}

// RenderAll renders every file of p, fanning out over workers goroutines.
// The result is indexed like p.Files.
func RenderAll(p *packager.Plan, workers int) [][]byte {
	out := make([][]byte, len(p.Files))
	if workers <= 1 {
		for i, f := range p.Files {
			out[i] = Render(f)
		}
		return out
	}

	var wg sync.WaitGroup
	jobs := make(chan int)
	for w := 0; w < min(workers, len(p.Files)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = Render(p.Files[i])
			}
		}()
	}
	for i := range p.Files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return out
}
