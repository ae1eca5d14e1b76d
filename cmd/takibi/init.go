package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nakita628/hono-takibi-sub031/internal/config"
	"github.com/nakita628/hono-takibi-sub031/internal/prompts"
)

var nonInteractive bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a " + config.DefaultFile + " configuration file",
	Long: `Create a configuration file in the current directory, interactively or from flags.
Flags given to init become the defaults of the interactive form.`,
	Example: `  # Interactive mode
  takibi init

  # Non-interactive
  takibi init --input openapi.yaml --output src/index.ts --non-interactive`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVarP(&input, "input", "i", "", "OpenAPI document")
	initCmd.Flags().StringVar(&dbURL, "db-url", "", "Database URL instead of a document")
	initCmd.Flags().StringVarP(&output, "output", "o", "", "Output .ts file, or directory with --split")
	initCmd.Flags().BoolVar(&split, "split", false, "Write one file per schema plus an index.ts")
	initCmd.Flags().BoolVar(&exportType, "export-type", false, "Export inferred types")
	initCmd.Flags().BoolVar(&readonly, "readonly", false, "Readonly objects and arrays")
	initCmd.Flags().StringVar(&importSource, "import-source", "", "Module z is imported from")
	initCmd.Flags().BoolVar(&nonInteractive, "non-interactive", false, "Run without prompts (requires --output and --input or --db-url)")
}

func runInit(cmd *cobra.Command, _ []string) error {
	if _, err := os.Stat(config.DefaultFile); err == nil {
		return errors.New(config.DefaultFile + " already exists")
	}

	cfg := &config.Config{}
	applyFlags(cmd, cfg)

	if !nonInteractive {
		if err := prompts.RunInitForm(cfg); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Save(config.DefaultFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.DefaultFile, err)
	}

	source := cfg.Input
	if source == "" {
		source = cfg.Database
	}
	prompts.PrintResult([]prompts.ResultField{
		{Label: "Source", Value: source},
		{Label: "Output", Value: cfg.Output},
	}, "Initialization completed")
	return nil
}
