// Package schema holds the schema node model consumed by the compiler.
package schema

// Node is one schema node. The set of implementations is closed; consumers
// switch over the concrete types below.
type Node interface {
	meta() *Meta
}

// Meta carries the annotations every node kind may have.
type Meta struct {
	Nullable    bool
	Default     any
	HasDefault  bool
	Description string
}

func (m *Meta) meta() *Meta { return m }

// MetaOf returns the shared annotations of n.
func MetaOf(n Node) *Meta {
	if n == nil {
		return &Meta{}
	}
	return n.meta()
}

// Primitive type names.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeNull    = "null"
)

// Primitive is a scalar schema with its format and constraint metadata.
type Primitive struct {
	Meta
	Type   string
	Format string

	Pattern   string
	MinLength *uint64
	MaxLength *uint64

	Minimum *float64
	Maximum *float64
	// ExclusiveMinimum and ExclusiveMaximum are the OpenAPI 3.0 flags that
	// turn Minimum / Maximum into strict bounds.
	ExclusiveMinimum bool
	ExclusiveMaximum bool
	// ExclusiveMinimumValue and ExclusiveMaximumValue are the OpenAPI 3.1
	// numeric forms.
	ExclusiveMinimumValue *float64
	ExclusiveMaximumValue *float64
	MultipleOf            *float64
}

// Array is a list schema.
type Array struct {
	Meta
	Items    Node
	MinItems *uint64
	MaxItems *uint64
}

// Additional is the additionalProperties policy of an object.
type Additional uint8

const (
	// AdditionalNone means the document did not say.
	AdditionalNone Additional = iota
	AdditionalClosed
	AdditionalOpen
	// AdditionalTyped constrains extra keys to Object.AdditionalSchema.
	AdditionalTyped
)

// Property is one declared object field.
type Property struct {
	Name   string
	Schema Node
}

// Object is a record schema with ordered properties.
type Object struct {
	Meta
	Properties       []Property
	Required         map[string]bool
	Additional       Additional
	AdditionalSchema Node
}

// IsRequired reports whether the named property is required.
func (o *Object) IsRequired(name string) bool {
	return o.Required[name]
}

// Ref points at a named schema. Resolution always goes through the Table.
type Ref struct {
	Meta
	Name string
}

// Op is a combinator operator.
type Op string

const (
	OpAllOf Op = "allOf"
	OpOneOf Op = "oneOf"
	OpAnyOf Op = "anyOf"
)

// Combinator composes its members with Op.
type Combinator struct {
	Meta
	Op      Op
	Members []Node
}

// Not is a negation. Its operand is kept for completeness only.
type Not struct {
	Meta
	Schema Node
}

// Const is a single literal value.
type Const struct {
	Meta
	Value any
}

// Enum is a list of literal values.
type Enum struct {
	Meta
	Values []any
}

// Unknown is a node whose shape was not recognized, including the empty
// schema.
type Unknown struct {
	Meta
}

// IsNullOnly reports whether n only states nullability, as in an allOf
// member `{nullable: true}` or `{type: "null"}`.
func IsNullOnly(n Node) bool {
	switch t := n.(type) {
	case *Unknown:
		return t.Nullable && !t.HasDefault
	case *Primitive:
		return t.Type == TypeNull
	}
	return false
}

// IsTrivial reports whether n places no constraint at all.
func IsTrivial(n Node) bool {
	u, ok := n.(*Unknown)
	return ok && !u.Nullable && !u.HasDefault
}
