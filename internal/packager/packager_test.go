package packager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nakita628/hono-takibi-sub031/internal/compiler"
)

func decl(name string, cat compiler.Category, body string) compiler.Declaration {
	suffix := map[compiler.Category]string{
		compiler.CategorySchemas:   "Schema",
		compiler.CategoryResponses: "ResponseSchema",
	}[cat]
	return compiler.Declaration{
		Name:     name,
		Category: cat,
		Names: compiler.Names{
			Identifier: name + suffix,
			TypeName:   name,
			AliasName:  name + "Type",
		},
		Body: body,
	}
}

func fileByPath(t *testing.T, p *Plan, path string) *File {
	t.Helper()
	for _, f := range p.Files {
		if f.Path == path {
			return f
		}
	}
	require.Failf(t, "file not planned", "%s not in %v", path, p.Paths())
	return nil
}

func TestBuild_SplitWithImportOverride(t *testing.T) {
	decls := []compiler.Declaration{
		decl("User", compiler.CategorySchemas, "z.object({id: z.string()})"),
		decl("Post", compiler.CategorySchemas, "z.object({author: UserSchema})"),
	}
	p, err := Build(decls, Config{
		Default: Target{Output: "src/schemas", Split: true, Import: "@packages/schemas"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"src/schemas/user.ts", "src/schemas/post.ts", "src/schemas/index.ts"}, p.Paths())

	post := fileByPath(t, p, "src/schemas/post.ts")
	assert.Equal(t, []Import{{Names: []string{"UserSchema"}, From: "@packages/schemas"}}, post.Imports)
	assert.Equal(t, DefaultImportSource, post.ImportSource)

	index := fileByPath(t, p, "src/schemas/index.ts")
	assert.True(t, index.IsAggregator())
	assert.Equal(t, []string{"post", "user"}, index.Reexports)
	assert.Empty(t, index.ImportSource)
}

func TestBuild_SplitRelativeImports(t *testing.T) {
	decls := []compiler.Declaration{
		decl("User", compiler.CategorySchemas, "z.object({id: z.string()})"),
		decl("Post", compiler.CategorySchemas, "z.object({author: UserSchema, editor: UserSchema})"),
		decl("Post", compiler.CategoryResponses, "z.array(PostSchema)"),
	}
	p, err := Build(decls, Config{
		Default: Target{Output: "src/schemas", Split: true},
		Categories: map[compiler.Category]Target{
			compiler.CategoryResponses: {Output: "src/responses/index.ts"},
		},
		ImportSource: "zod",
	})
	require.NoError(t, err)

	post := fileByPath(t, p, "src/schemas/post.ts")
	assert.Equal(t, []Import{{Names: []string{"UserSchema"}, From: "./user"}}, post.Imports)
	assert.Equal(t, "zod", post.ImportSource)

	responses := fileByPath(t, p, "src/responses/index.ts")
	assert.Equal(t, []Import{{Names: []string{"PostSchema"}, From: "../schemas/post"}}, responses.Imports)
}

func TestBuild_SplitFileNameCollisions(t *testing.T) {
	pet := decl("Pet", compiler.CategorySchemas, "z.object({id: z.string()})")
	lower := decl("pet", compiler.CategorySchemas, "z.object({owner: PetSchema})")
	lower.Identifier = "PetSchema2"
	index := decl("Index", compiler.CategorySchemas, "z.string()")

	p, err := Build([]compiler.Declaration{pet, lower, index}, Config{Default: Target{Output: "out", Split: true}})
	require.NoError(t, err)

	assert.Equal(t, []string{"out/pet.ts", "out/pet2.ts", "out/index2.ts", "out/index.ts"}, p.Paths())
	assert.Equal(t, []string{"index2", "pet", "pet2"}, fileByPath(t, p, "out/index.ts").Reexports)
	assert.Equal(t, []Import{{Names: []string{"PetSchema"}, From: "./pet"}}, fileByPath(t, p, "out/pet2.ts").Imports)
}

func TestBuild_SingleFileSequencesAndMergesImports(t *testing.T) {
	a := decl("A", compiler.CategorySchemas, "z.object({b: BSchema})")
	b := decl("B", compiler.CategorySchemas, "z.string()")
	ok := decl("Ok", compiler.CategoryResponses, "z.object({a: ASchema, b: BSchema})")

	p, err := Build([]compiler.Declaration{a, b, ok}, Config{
		Default: Target{Output: "src/index.ts"},
		Categories: map[compiler.Category]Target{
			compiler.CategoryResponses: {Output: "src/responses.ts"},
		},
	})
	require.NoError(t, err)
	require.Len(t, p.Files, 2)

	schemas := p.Files[0]
	assert.Equal(t, "src/index.ts", schemas.Path)
	require.Len(t, schemas.Blocks, 2)
	assert.Equal(t, "B", schemas.Blocks[0].Name)
	assert.Equal(t, "A", schemas.Blocks[1].Name)
	assert.Empty(t, schemas.Imports)

	responses := p.Files[1]
	assert.Equal(t, []Import{{Names: []string{"ASchema", "BSchema"}, From: "."}}, responses.Imports)
}

func TestBuild_ImportsEveryExternalIdentifierOnce(t *testing.T) {
	c := decl("C", compiler.CategorySchemas, "z.object({x: z.lazy(() => ASchema)})")
	c.Alias, c.RequiresTypeAlias = "{ x: AType }", true
	a := decl("A", compiler.CategorySchemas, "z.object({self: z.lazy(() => ASchema)})")
	a.Alias, a.RequiresTypeAlias = "{ self?: AType }", true

	p, err := Build([]compiler.Declaration{a, c}, Config{Default: Target{Output: "gen", Split: true}})
	require.NoError(t, err)

	cf := fileByPath(t, p, "gen/c.ts")
	assert.Equal(t, []Import{{Names: []string{"ASchema", "AType"}, From: "./a"}}, cf.Imports)
	af := fileByPath(t, p, "gen/a.ts")
	assert.Empty(t, af.Imports)
}

func TestBuild_ConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		decls []compiler.Declaration
		cfg   Config
		want  []string
	}{
		{
			name: "split without declarations",
			cfg:  Config{Default: Target{Output: "gen", Split: true}},
			want: []string{`split output "gen" has no declarations`},
		},
		{
			name:  "missing schemas output",
			decls: []compiler.Declaration{decl("User", compiler.CategorySchemas, "z.string()")},
			want:  []string{"output for schemas is not configured"},
		},
		{
			name:  "missing category output",
			decls: []compiler.Declaration{decl("User", compiler.CategorySchemas, "z.string()")},
			cfg: Config{
				Default:    Target{Output: "gen.ts"},
				Categories: map[compiler.Category]Target{compiler.CategoryResponses: {Import: "@api/responses"}},
			},
			want: []string{"output for responses is not configured"},
		},
		{
			name: "conflicting split settings",
			decls: []compiler.Declaration{
				decl("User", compiler.CategorySchemas, "z.string()"),
				decl("User", compiler.CategoryResponses, "UserSchema"),
			},
			cfg: Config{
				Default:    Target{Output: "gen", Split: true},
				Categories: map[compiler.Category]Target{compiler.CategoryResponses: {Output: "gen"}},
			},
			want: []string{"different split settings"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Build(tt.decls, tt.cfg)
			require.Error(t, err)
			assert.Nil(t, p)
			for _, w := range tt.want {
				assert.Contains(t, err.Error(), w)
			}
		})
	}
}

func TestBuild_Deterministic(t *testing.T) {
	var decls []compiler.Declaration
	for _, n := range []string{"Zeta", "Alpha", "Mid", "Beta"} {
		decls = append(decls, decl(n, compiler.CategorySchemas, "z.object({a: AlphaSchema, b: BetaSchema})"))
	}
	cfg := Config{Default: Target{Output: "out", Split: true}, Workers: 4}

	first, err := Build(decls, cfg)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Build(decls, cfg)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, []string{"alpha", "beta", "mid", "zeta"}, fileByPath(t, first, "out/index.ts").Reexports)
}

func TestRelative(t *testing.T) {
	tests := []struct {
		dir, target, want string
	}{
		{"src/schemas", "src/schemas/user.ts", "./user"},
		{"src/routes", "src/schemas/index.ts", "../schemas"},
		{"src", "src/index.ts", "."},
		{"src/schemas", "src/index.ts", ".."},
		{"src/a", "src/a/b/index.ts", "./b"},
		{".", "schemas.ts", "./schemas"},
	}
	for _, tt := range tests {
		t.Run(tt.dir+"->"+tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, Relative(tt.dir, tt.target))
		})
	}
}
