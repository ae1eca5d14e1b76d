package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nakita628/hono-takibi-sub031/internal/schema"
)

func TestMentions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lazy reference",
			text: "z.array(z.lazy(() => NodeSchema))",
			want: []string{"z", "NodeSchema"},
		},
		{
			name: "keys strings and regex are skipped",
			text: "z.object({UserSchema: z.string().regex(/UserSchema/), n: 'UserSchema', m: PostSchema})",
			want: []string{"z", "PostSchema"},
		},
		{
			name: "optional type keys",
			text: "{ owner?: OwnerType; tags: Array<TagType> }",
			want: []string{"OwnerType", "Array", "TagType"},
		},
		{
			name: "escaped quote",
			text: `z.literal('a\'b ASchema').or(BSchema)`,
			want: []string{"z", "BSchema"},
		},
		{
			name: "division is not a regex",
			text: "a / BSchema / c",
			want: []string{"a", "BSchema", "c"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mentions(tt.text))
		})
	}
}

func TestMentionsIdentifier(t *testing.T) {
	assert.True(t, MentionsIdentifier("z.record(z.string(), DictSchema)", "DictSchema"))
	assert.False(t, MentionsIdentifier("z.record(z.string(), DictSchemaValue)", "DictSchema"))
	assert.False(t, MentionsIdentifier("z.object({DictSchema: z.string()})", "DictSchema"))
	assert.False(t, MentionsIdentifier("z.string().describe('DictSchema')", "DictSchema"))
}

func TestPascalCase(t *testing.T) {
	tests := map[string]string{
		"user":         "User",
		"user-profile": "UserProfile",
		"user_name":    "UserName",
		"2fa":          "_2fa",
		"HTTPStatus":   "HTTPStatus",
		"a.b c":        "ABC",
		"---":          "_",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, PascalCase(in))
		})
	}
	assert.Equal(t, "userProfile", CamelCase("user-profile"))
	assert.Equal(t, "_2fa", CamelCase("2fa"))
}

func TestNames_Collisions(t *testing.T) {
	c := newCompiler(t, Options{},
		"User", &schema.Unknown{},
		"UserType", &schema.Unknown{},
		"user", &schema.Unknown{},
	)

	assert.Equal(t, Names{Identifier: "UserSchema", TypeName: "User", AliasName: "UserType"}, c.NamesOf("User", CategorySchemas))
	assert.Equal(t, Names{Identifier: "UserTypeSchema", TypeName: "UserType2", AliasName: "UserTypeType"}, c.NamesOf("UserType", CategorySchemas))
	assert.Equal(t, Names{Identifier: "UserSchema2", TypeName: "User2", AliasName: "UserType3"}, c.NamesOf("user", CategorySchemas))
}
