// Package config handles the takibi.yaml generator configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/nakita628/hono-takibi-sub031/internal/compiler"
	"github.com/nakita628/hono-takibi-sub031/internal/packager"
)

// DefaultFile is the configuration file name looked up in the working
// directory.
const DefaultFile = "takibi.yaml"

// Target is the output of one component category.
type Target struct {
	Output string `yaml:"output"`
	Split  bool   `yaml:"split,omitempty"`
	Import string `yaml:"import,omitempty"`
}

// Config represents the takibi.yaml file.
type Config struct {
	// Input is the OpenAPI document. Database is the alternative source;
	// exactly one of them is set.
	Input    string   `yaml:"input,omitempty"`
	Database string   `yaml:"database,omitempty"`
	Tables   []string `yaml:"tables,omitempty"`
	Exclude  []string `yaml:"exclude,omitempty"`

	Output       string `yaml:"output,omitempty"`
	Split        bool   `yaml:"split,omitempty"`
	ExportType   bool   `yaml:"exportType,omitempty"`
	Readonly     bool   `yaml:"readonly,omitempty"`
	ImportSource string `yaml:"importSource,omitempty"`

	Components map[compiler.Category]Target `yaml:"components,omitempty"`
}

// Load reads a Config from a file path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the Config to a file path.
func (c *Config) Save(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(c)
}

// Validate checks the configuration for required fields and valid values.
// Every problem found is reported.
func (c *Config) Validate() error {
	var errs []error
	switch {
	case c.Input == "" && c.Database == "":
		errs = append(errs, errors.New("input or database is required"))
	case c.Input != "" && c.Database != "":
		errs = append(errs, errors.New("input and database are mutually exclusive"))
	}
	if c.Output == "" && c.Components[compiler.CategorySchemas].Output == "" {
		errs = append(errs, errors.New("output is required"))
	}
	for cat, t := range c.Components {
		if !slices.Contains(compiler.Categories, cat) {
			errs = append(errs, fmt.Errorf("unknown component category %q", cat))
			continue
		}
		if t.Output == "" {
			errs = append(errs, fmt.Errorf("components.%s.output is required", cat))
		}
	}
	return errors.Join(errs...)
}

// Packager returns the packaging configuration the file describes.
func (c *Config) Packager() packager.Config {
	pc := packager.Config{
		Default:      packager.Target{Output: c.Output, Split: c.Split},
		ImportSource: c.ImportSource,
	}
	if len(c.Components) > 0 {
		pc.Categories = make(map[compiler.Category]packager.Target, len(c.Components))
		for cat, t := range c.Components {
			pc.Categories[cat] = packager.Target(t)
		}
	}
	return pc
}
