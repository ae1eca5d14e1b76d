package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/nakita628/hono-takibi-sub031/internal/compiler"
	"github.com/nakita628/hono-takibi-sub031/internal/packager"
)

// Report is the summary of one generation run.
type Report struct {
	Declarations []compiler.Declaration
	Diagnostics  []compiler.Diagnostic
	Plan         *packager.Plan
}

// MarkdownFormatter formats a generation report as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the report in markdown format
func (f *MarkdownFormatter) Format(r Report) error {
	_, _ = fmt.Fprintln(f.writer, "# Generated Validators")
	_, _ = fmt.Fprintln(f.writer)

	for _, d := range r.Declarations {
		f.formatDeclaration(d)
	}

	if r.Plan != nil && len(r.Plan.Files) > 0 {
		_, _ = fmt.Fprintln(f.writer, "## Files")
		_, _ = fmt.Fprintln(f.writer)
		for _, file := range r.Plan.Files {
			if file.IsAggregator() {
				_, _ = fmt.Fprintf(f.writer, "- %s (re-exports %d modules)\n", file.Path, len(file.Reexports))
				continue
			}
			_, _ = fmt.Fprintf(f.writer, "- %s (%d declarations, %d imports)\n", file.Path, len(file.Blocks), len(file.Imports))
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	if len(r.Diagnostics) > 0 {
		_, _ = fmt.Fprintln(f.writer, "## Diagnostics")
		_, _ = fmt.Fprintln(f.writer)
		for _, d := range r.Diagnostics {
			_, _ = fmt.Fprintf(f.writer, "- %s\n", d)
		}
		_, _ = fmt.Fprintln(f.writer)
	}
	return nil
}

func (f *MarkdownFormatter) formatDeclaration(d compiler.Declaration) {
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", d.Identifier)
	_, _ = fmt.Fprintf(f.writer, "- **Source:** %s/%s\n", d.Category, d.Name)

	if flags := formatFlags(d); flags != "" {
		_, _ = fmt.Fprintf(f.writer, "- **Flags:** %s\n", flags)
	}

	// References
	if len(d.DependsOn) > 0 {
		_, _ = fmt.Fprintf(f.writer, "- **References:** %s\n", strings.Join(d.DependsOn, ", "))
	}
	_, _ = fmt.Fprintln(f.writer)
}

func formatFlags(d compiler.Declaration) string {
	var flags []string
	if d.InCycle {
		flags = append(flags, "cycle")
	}
	if d.RequiresTypeAlias {
		flags = append(flags, "explicit type "+d.AliasName)
	}
	if d.ExportType {
		flags = append(flags, "inferred type "+d.TypeName)
	}
	return strings.Join(flags, ", ")
}
