package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nakita628/hono-takibi-sub031/internal/compiler"
	"github.com/nakita628/hono-takibi-sub031/internal/packager"
)

func TestConfig_LoadAndSave(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), DefaultFile)

	cfg := Config{
		Input:      "openapi.yaml",
		Output:     "src/index.ts",
		ExportType: true,
		Components: map[compiler.Category]Target{
			compiler.CategorySchemas: {Output: "src/schemas", Split: true, Import: "@packages/schemas"},
		},
	}
	require.NoError(t, cfg.Save(cfgPath))

	loaded, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, &cfg, loaded)
}

func TestConfig_SaveFormat(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), DefaultFile)
	cfg := Config{Input: "api.yaml", Output: "out.ts", ImportSource: "zod"}
	require.NoError(t, cfg.Save(cfgPath))

	content, err := os.ReadFile(cfgPath) //nolint:gosec // test file path
	require.NoError(t, err)
	assert.Equal(t, "input: api.yaml\noutput: out.ts\nimportSource: zod\n", string(content))
}

func TestLoad_UnknownField(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(cfgPath, []byte("input: a.yaml\noutptu: b.ts\n"), 0o644))

	_, err := Load(cfgPath)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr []string
	}{
		{
			name: "valid config",
			cfg:  Config{Input: "a.yaml", Output: "b.ts"},
		},
		{
			name: "schemas output only",
			cfg: Config{Database: "sqlite://app.db", Components: map[compiler.Category]Target{
				compiler.CategorySchemas: {Output: "src/db.ts"},
			}},
		},
		{
			name:    "no source",
			cfg:     Config{Output: "b.ts"},
			wantErr: []string{"input or database is required"},
		},
		{
			name:    "both sources",
			cfg:     Config{Input: "a.yaml", Database: "sqlite://x", Output: "b.ts"},
			wantErr: []string{"mutually exclusive"},
		},
		{
			name: "every problem reported",
			cfg: Config{Input: "a.yaml", Components: map[compiler.Category]Target{
				"widgets":                {Output: "w.ts"},
				compiler.CategoryHeaders: {},
			}},
			wantErr: []string{"output is required", `unknown component category "widgets"`, "components.headers.output is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestConfig_Packager(t *testing.T) {
	cfg := Config{
		Output:       "src/index.ts",
		ImportSource: "zod",
		Components: map[compiler.Category]Target{
			compiler.CategoryResponses: {Output: "src/responses", Split: true},
		},
	}
	assert.Equal(t, packager.Config{
		Default:      packager.Target{Output: "src/index.ts"},
		ImportSource: "zod",
		Categories: map[compiler.Category]packager.Target{
			compiler.CategoryResponses: {Output: "src/responses", Split: true},
		},
	}, cfg.Packager())
}
