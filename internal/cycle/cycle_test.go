package cycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nakita628/hono-takibi-sub031/internal/graph"
	"github.com/nakita628/hono-takibi-sub031/internal/schema"
)

func objectWith(refs map[string]string, order ...string) *schema.Object {
	o := &schema.Object{Required: map[string]bool{}}
	for _, key := range order {
		o.Properties = append(o.Properties, schema.Property{Name: key, Schema: &schema.Ref{Name: refs[key]}})
	}
	return o
}

func classify(t *testing.T, entries ...any) *Classification {
	t.Helper()
	b := schema.NewBuilder()
	for i := 0; i < len(entries); i += 2 {
		require.NoError(t, b.Add(entries[i].(string), entries[i+1].(schema.Node)))
	}
	return Analyze(graph.Build(b.Build()))
}

func TestAnalyze_MutualCycle(t *testing.T) {
	c := classify(t,
		"A", objectWith(map[string]string{"b": "B"}, "b"),
		"B", objectWith(map[string]string{"a": "A"}, "a"),
		"C", objectWith(map[string]string{"x": "A"}, "x"),
	)

	assert.Equal(t, Flags{InCycle: true, NeedsDeferredConstruction: true, NeedsExplicitType: true}, c.Of("A"))
	assert.Equal(t, Flags{InCycle: true, NeedsDeferredConstruction: true, NeedsExplicitType: true}, c.Of("B"))

	cf := c.Of("C")
	assert.False(t, cf.InCycle)
	assert.False(t, cf.NeedsDeferredConstruction)
	assert.True(t, cf.NeedsExplicitType, "C references a cyclic schema")

	assert.Equal(t, []string{"A", "B"}, c.Cyclic())
}

func TestAnalyze_SelfLoop(t *testing.T) {
	c := classify(t,
		"Tree", &schema.Object{
			Required: map[string]bool{},
			Properties: []schema.Property{
				{Name: "children", Schema: &schema.Array{Items: &schema.Ref{Name: "Tree"}}},
			},
		},
		"Leaf", &schema.Primitive{Type: schema.TypeString},
	)

	assert.True(t, c.Of("Tree").InCycle)
	assert.Equal(t, Flags{}, c.Of("Leaf"))
}

func TestAnalyze_ReachableFromCycle(t *testing.T) {
	c := classify(t,
		"A", objectWith(map[string]string{"b": "B", "tag": "Tag"}, "b", "tag"),
		"B", objectWith(map[string]string{"a": "A"}, "a"),
		"Tag", objectWith(map[string]string{"label": "Label"}, "label"),
		"Label", &schema.Primitive{Type: schema.TypeString},
		"Alone", &schema.Primitive{Type: schema.TypeString},
	)

	for _, name := range []string{"Tag", "Label"} {
		f := c.Of(name)
		assert.False(t, f.InCycle, name)
		assert.True(t, f.NeedsExplicitType, name)
	}
	assert.False(t, c.Of("Alone").NeedsExplicitType)
}

func TestAnalyze_DanglingNotClassified(t *testing.T) {
	c := classify(t, "User", objectWith(map[string]string{"org": "Org"}, "org"))

	assert.Equal(t, []string{"User"}, c.Names())
	assert.Equal(t, Flags{}, c.Of("Org"))
}

func TestPromoteLexical(t *testing.T) {
	c := classify(t,
		"Record", &schema.Primitive{Type: schema.TypeString},
		"Plain", &schema.Primitive{Type: schema.TypeString},
	)

	next, promoted := c.PromoteLexical(func(name string) bool { return name == "Record" })

	assert.Equal(t, []string{"Record"}, promoted)
	assert.Equal(t, Flags{NeedsDeferredConstruction: true, NeedsExplicitType: true}, next.Of("Record"))
	assert.Equal(t, Flags{}, next.Of("Plain"))
	assert.Equal(t, Flags{}, c.Of("Record"), "the first pass is left untouched")
}

func TestPromoteLexical_SkipsAlreadyDeferred(t *testing.T) {
	c := classify(t, "Self", objectWith(map[string]string{"me": "Self"}, "me"))

	_, promoted := c.PromoteLexical(func(string) bool { return true })

	assert.Empty(t, promoted)
}
