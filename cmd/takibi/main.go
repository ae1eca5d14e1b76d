package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	takibi "github.com/nakita628/hono-takibi-sub031"
	"github.com/nakita628/hono-takibi-sub031/internal/compiler"
	"github.com/nakita628/hono-takibi-sub031/internal/config"
	"github.com/nakita628/hono-takibi-sub031/internal/packager"
)

var (
	configPath   string
	input        string
	dbURL        string
	output       string
	split        bool
	exportType   bool
	readonly     bool
	importSource string
	tables       string
	exclude      string
	schemaName   string
	check        bool
	validate     bool
	verbose      bool
	reportFile   string
	workers      int
)

var rootCmd = &cobra.Command{
	Use:   "takibi [openapi.yaml]",
	Short: "Generate Zod validators from OpenAPI components or database tables",
	Long: `Takibi compiles the component schemas of an OpenAPI document, or the tables of a
PostgreSQL, MySQL or SQLite database, into Zod validator declarations for
@hono/zod-openapi. Recursive schemas get deferred references and explicit types.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultFile, "Configuration file (used when present)")
	rootCmd.Flags().StringVarP(&input, "input", "i", "", "OpenAPI document (YAML or JSON)")
	rootCmd.Flags().StringVar(&dbURL, "db-url", "", "Database URL (postgres://, mysql:// or sqlite://) instead of a document")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "Output .ts file, or directory with --split")
	rootCmd.Flags().BoolVar(&split, "split", false, "Write one file per schema plus an index.ts")
	rootCmd.Flags().BoolVar(&exportType, "export-type", false, "Export an inferred type next to each validator")
	rootCmd.Flags().BoolVar(&readonly, "readonly", false, "Make object and array validators readonly")
	rootCmd.Flags().StringVar(&importSource, "import-source", "", "Module z is imported from (default: "+packager.DefaultImportSource+")")
	rootCmd.Flags().StringVarP(&tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	rootCmd.Flags().StringVar(&exclude, "exclude", "", "Tables to skip (comma-separated)")
	rootCmd.Flags().StringVarP(&schemaName, "schema", "s", "", "Database schema name (default: public for PostgreSQL)")
	rootCmd.Flags().BoolVar(&check, "check", false, "Fail if generated files differ from the ones on disk; write nothing")
	rootCmd.Flags().BoolVar(&validate, "validate", true, "Validate OpenAPI 3.0 documents before generating")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")
	rootCmd.Flags().StringVar(&reportFile, "report", "", "Write a markdown report of the run to this file")
	rootCmd.Flags().IntVar(&workers, "workers", 1, "Parallel workers for compilation and rendering")

	rootCmd.Long += "\n\nCategories configurable under components in " + config.DefaultFile + ": " + categoryNames() + "."
	rootCmd.AddCommand(initCmd)
}

func run(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Input, cfg.Database = args[0], ""
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	opts := buildOptions(cfg)
	if reportFile != "" {
		f, err := os.Create(reportFile)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to close report file: %v\n", err)
			}
		}()
		opts.Report = f
	}

	var res *takibi.Result
	if cfg.Database != "" {
		res, err = takibi.GenerateFromDatabase(ctx, cfg.Database, opts)
	} else {
		res, err = takibi.Generate(ctx, cfg.Input, opts)
	}
	if err != nil {
		return err
	}

	if check {
		fmt.Fprintf(cmd.OutOrStdout(), "%d file(s) up to date\n", len(res.Unchanged))
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%d declaration(s), %d file(s) written, %d unchanged\n",
			len(res.Declarations), len(res.Written), len(res.Unchanged))
	}
	return nil
}

// loadConfig reads the configuration file. A missing file is only an
// error when --config was given explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	switch {
	case err == nil:
		return cfg, nil
	case errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config"):
		return &config.Config{}, nil
	default:
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
}

// applyFlags overrides configuration values with the flags set on the
// command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input, cfg.Database = input, ""
	}
	if flags.Changed("db-url") {
		cfg.Database, cfg.Input = dbURL, ""
	}
	if flags.Changed("output") {
		cfg.Output = output
	}
	if flags.Changed("split") {
		cfg.Split = split
	}
	if flags.Changed("export-type") {
		cfg.ExportType = exportType
	}
	if flags.Changed("readonly") {
		cfg.Readonly = readonly
	}
	if flags.Changed("import-source") {
		cfg.ImportSource = importSource
	}
	if flags.Changed("tables") {
		cfg.Tables = splitList(tables)
	}
	if flags.Changed("exclude") {
		cfg.Exclude = splitList(exclude)
	}
}

func buildOptions(cfg *config.Config) *takibi.Options {
	pc := cfg.Packager()
	opts := &takibi.Options{
		Output:        pc.Default.Output,
		Split:         pc.Default.Split,
		Components:    pc.Categories,
		ExportType:    cfg.ExportType,
		Readonly:      cfg.Readonly,
		ImportSource:  pc.ImportSource,
		Check:         check,
		Validate:      validate,
		Workers:       workers,
		Tables:        cfg.Tables,
		ExcludeTables: cfg.Exclude,
		SchemaName:    schemaName,
		Logger:        takibi.DefaultLogger(),
	}
	if verbose {
		opts.Logger = takibi.VerboseLogger()
	}
	return opts
}

// splitList parses a comma-separated flag value.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// categoryNames lists the configurable categories for help output.
func categoryNames() string {
	names := make([]string, len(compiler.Categories))
	for i, c := range compiler.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
