package schema

import "fmt"

// Table is an insertion-ordered set of named schemas. Nodes live in an
// arena and are addressed by index; a Table is not modified once built.
type Table struct {
	names []string
	nodes []Node
	index map[string]int
}

// Builder accumulates named schemas for a Table.
type Builder struct {
	t    *Table
	done bool
}

// NewBuilder creates an empty table builder.
func NewBuilder() *Builder {
	return &Builder{t: &Table{index: make(map[string]int)}}
}

// Add appends a named schema. Names must be unique and non-empty.
func (b *Builder) Add(name string, n Node) error {
	if b.done {
		return fmt.Errorf("schema %q added after Build", name)
	}
	if name == "" {
		return fmt.Errorf("schema name is empty")
	}
	if _, dup := b.t.index[name]; dup {
		return fmt.Errorf("duplicate schema name %q", name)
	}
	if n == nil {
		n = &Unknown{}
	}
	b.t.index[name] = len(b.t.names)
	b.t.names = append(b.t.names, name)
	b.t.nodes = append(b.t.nodes, n)
	return nil
}

// Build returns the finished table. The builder cannot be reused.
func (b *Builder) Build() *Table {
	b.done = true
	return b.t
}

// Len returns the number of schemas.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// Names returns the schema names in insertion order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.names...)
}

// Name returns the name at index i.
func (t *Table) Name(i int) string {
	return t.names[i]
}

// At returns the node at index i.
func (t *Table) At(i int) Node {
	return t.nodes[i]
}

// Index returns the arena index of name.
func (t *Table) Index(name string) (int, bool) {
	if t == nil {
		return 0, false
	}
	i, ok := t.index[name]
	return i, ok
}

// Lookup returns the node registered under name.
func (t *Table) Lookup(name string) (Node, bool) {
	i, ok := t.Index(name)
	if !ok {
		return nil, false
	}
	return t.nodes[i], true
}

// Has reports whether name is defined.
func (t *Table) Has(name string) bool {
	_, ok := t.Index(name)
	return ok
}
