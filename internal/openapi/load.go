// Package openapi loads OpenAPI documents and converts their component
// schemas into a schema table plus the declarations of the other component
// categories.
package openapi

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/nakita628/hono-takibi-sub031/internal/compiler"
	"github.com/nakita628/hono-takibi-sub031/internal/schema"
)

// LoadOptions controls Load.
type LoadOptions struct {
	// Validate runs the OpenAPI validator over 3.0 documents before
	// conversion.
	Validate bool
}

// Document is the converted form of an OpenAPI document.
type Document struct {
	Version string
	Title   string

	Schemas *schema.Table
	// Components holds parameters, headers, request bodies and responses
	// in document order, category by category.
	Components []compiler.Source
	// Warnings are conversion problems that did not stop the load.
	Warnings []string
}

// Load reads and converts the document at path.
func Load(ctx context.Context, path string, opts LoadOptions) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenAPI document: %w", err)
	}
	return load(ctx, data, opts, func(loader *openapi3.Loader) (*openapi3.T, error) {
		loader.IsExternalRefsAllowed = true
		return loader.LoadFromFile(path)
	})
}

// Parse converts an in-memory document. Validation is run like Load does.
func Parse(ctx context.Context, data []byte, opts LoadOptions) (*Document, error) {
	return load(ctx, data, opts, func(loader *openapi3.Loader) (*openapi3.T, error) {
		return loader.LoadFromData(data)
	})
}

func load(ctx context.Context, data []byte, opts LoadOptions, read func(*openapi3.Loader) (*openapi3.T, error)) (*Document, error) {
	root, err := parseYAML(data)
	if err != nil {
		return nil, err
	}
	version := scalar(child(root, "openapi"))

	validate := opts.Validate
	if validate && strings.HasPrefix(version, "3.1") {
		validate = false
	}
	if validate {
		loader := openapi3.NewLoader()
		loader.Context = ctx
		doc, err := read(loader)
		if err != nil {
			return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
		}
		if err := doc.Validate(loader.Context); err != nil {
			return nil, fmt.Errorf("OpenAPI validation error: %w", err)
		}
	}

	out, err := convert(root, version)
	if err != nil {
		return nil, err
	}
	if opts.Validate && !validate {
		out.Warnings = append([]string{fmt.Sprintf("validation skipped for OpenAPI %s", version)}, out.Warnings...)
	}
	return out, nil
}

func parseYAML(data []byte) (*yaml.Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("OpenAPI document is empty")
	}
	doc := resolveAlias(root.Content[0])
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("OpenAPI document must be a mapping")
	}
	return doc, nil
}
