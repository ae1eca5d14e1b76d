package formatter

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nakita628/hono-takibi-sub031/internal/compiler"
	"github.com/nakita628/hono-takibi-sub031/internal/packager"
)

func nodeDecl() compiler.Declaration {
	return compiler.Declaration{
		Name:     "Node",
		Category: compiler.CategorySchemas,
		Names: compiler.Names{
			Identifier: "NodeSchema",
			TypeName:   "Node",
			AliasName:  "NodeType",
		},
		Body:              "z.object({children: z.array(z.lazy(() => NodeSchema))})",
		Alias:             "{ children: Array<NodeType> }",
		RequiresTypeAlias: true,
		InCycle:           true,
		ExportType:        true,
	}
}

func TestRender_File(t *testing.T) {
	post := compiler.Declaration{
		Name:  "Post",
		Names: compiler.Names{Identifier: "PostSchema", TypeName: "Post", AliasName: "PostType"},
		Body:  "z.object({author: UserSchema})",
	}
	file := &packager.File{
		Path:         "src/index.ts",
		ImportSource: "@hono/zod-openapi",
		Imports:      []packager.Import{{Names: []string{"UserSchema"}, From: "./user"}},
		Blocks:       []compiler.Declaration{nodeDecl(), post},
	}

	want := `import { z } from '@hono/zod-openapi'
import { UserSchema } from './user'

export type NodeType = { children: Array<NodeType> }

export const NodeSchema: z.ZodType<NodeType> = z.object({children: z.array(z.lazy(() => NodeSchema))})

export type Node = z.infer<typeof NodeSchema>

export const PostSchema = z.object({author: UserSchema})
`
	assert.Equal(t, want, string(Render(file)))
}

func TestRender_Aggregator(t *testing.T) {
	file := &packager.File{Path: "src/schemas/index.ts", Reexports: []string{"post", "user"}}
	assert.Equal(t, "export * from './post'\nexport * from './user'\n", string(Render(file)))
}

func TestRenderAll_MatchesSequential(t *testing.T) {
	p := &packager.Plan{}
	for _, m := range []string{"a", "b", "c", "d"} {
		p.Files = append(p.Files, &packager.File{Path: m + "/index.ts", Reexports: []string{m}})
	}
	assert.Equal(t, RenderAll(p, 1), RenderAll(p, 3))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "user.ts")

	wrote, err := WriteFile(path, []byte("a"), WriteOptions{Check: true})
	require.ErrorIs(t, err, ErrStale)
	assert.False(t, wrote)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "check mode must not create files")

	wrote, err = WriteFile(path, []byte("a"), WriteOptions{})
	require.NoError(t, err)
	assert.True(t, wrote)

	wrote, err = WriteFile(path, []byte("a"), WriteOptions{})
	require.NoError(t, err)
	assert.False(t, wrote, "unchanged content is not rewritten")

	_, err = WriteFile(path, []byte("b"), WriteOptions{Check: true})
	require.ErrorIs(t, err, ErrStale)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))
}

func TestMultiFileWriter(t *testing.T) {
	dir := t.TempDir()
	p := &packager.Plan{Files: []*packager.File{
		{Path: "schemas/user.ts", ImportSource: "zod", Blocks: []compiler.Declaration{nodeDecl()}},
		{Path: "schemas/index.ts", Reexports: []string{"user"}},
	}}

	w := NewMultiFileWriter(dir, false)
	sum, err := w.Write(p)
	require.NoError(t, err)
	assert.Len(t, sum.Written, 2)

	w.Check = true
	sum, err = w.Write(p)
	require.NoError(t, err)
	assert.Len(t, sum.Unchanged, 2)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "schemas/index.ts"), []byte("stale"), 0o644))
	sum, err = w.Write(p)
	require.ErrorIs(t, err, ErrStale)
	assert.Equal(t, []string{filepath.Join(dir, "schemas/index.ts")}, sum.Stale)
}

func TestMultiFileWriter_AbortsOnIOError(t *testing.T) {
	dir := t.TempDir()
	// A regular file where a directory is needed.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blocked"), []byte("x"), 0o644))

	p := &packager.Plan{Files: []*packager.File{
		{Path: "ok/a.ts", Reexports: []string{"a"}},
		{Path: "blocked/b.ts", Reexports: []string{"b"}},
		{Path: "ok/c.ts", Reexports: []string{"c"}},
	}}
	sum, err := NewMultiFileWriter(dir, false).Write(p)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrStale))
	assert.Equal(t, []string{filepath.Join(dir, "ok/a.ts")}, sum.Written)

	_, statErr := os.Stat(filepath.Join(dir, "ok/c.ts"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	err := NewMarkdownFormatter(&buf).Format(Report{
		Declarations: []compiler.Declaration{nodeDecl()},
		Diagnostics: []compiler.Diagnostic{{
			Severity: compiler.SeverityWarning, Schema: "Post", Category: compiler.CategorySchemas, Message: "reference to undefined schema \"User\", accepting any value",
		}},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "## NodeSchema")
	assert.Contains(t, out, "- **Flags:** cycle, explicit type NodeType, inferred type Node")
	assert.Contains(t, out, "## Diagnostics")
	assert.Contains(t, out, "warning: schemas Post: reference to undefined schema")
}
