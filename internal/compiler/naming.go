package compiler

import (
	"strconv"
	"strings"
	"unicode"
)

// Category is the logical group a declaration belongs to.
type Category string

const (
	CategorySchemas       Category = "schemas"
	CategoryParameters    Category = "parameters"
	CategoryHeaders       Category = "headers"
	CategoryRequestBodies Category = "requestBodies"
	CategoryResponses     Category = "responses"
	CategoryCallbacks     Category = "callbacks"
	CategoryPathItems     Category = "pathItems"
)

// Categories lists every category in a fixed order.
var Categories = []Category{
	CategorySchemas,
	CategoryParameters,
	CategoryHeaders,
	CategoryRequestBodies,
	CategoryResponses,
	CategoryCallbacks,
	CategoryPathItems,
}

// suffix returns the identifier suffix used by a category.
func (c Category) suffix() string {
	switch c {
	case CategoryParameters:
		return "ParamsSchema"
	case CategoryHeaders:
		return "HeaderSchema"
	case CategoryRequestBodies:
		return "RequestBodySchema"
	case CategoryResponses:
		return "ResponseSchema"
	case CategoryCallbacks:
		return "CallbackSchema"
	case CategoryPathItems:
		return "PathItemSchema"
	default:
		return "Schema"
	}
}

// PascalCase turns a schema name into an exported TypeScript identifier.
// Non-alphanumeric runes separate words; a leading digit gets an
// underscore prefix.
func PascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r >= unicode.MaxASCII || !isIdentPart(byte(r)) || r == '_' || r == '$'
	})
	var b strings.Builder
	for _, p := range parts {
		runes := []rune(p)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	out := b.String()
	if out == "" {
		return "_"
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = "_" + out
	}
	return out
}

// CamelCase is PascalCase with a lowered first rune. File names are built
// from it.
func CamelCase(s string) string {
	p := PascalCase(s)
	if strings.HasPrefix(p, "_") {
		return p
	}
	runes := []rune(p)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// namer hands out unique exported names. Collisions get a numeric suffix
// in reservation order.
type namer struct {
	used map[string]bool
}

func newNamer() *namer {
	return &namer{used: make(map[string]bool)}
}

func (n *namer) reserve(base string) string {
	name := base
	for i := 2; n.used[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	n.used[name] = true
	return name
}

// Names are the exported identifiers of one declaration.
type Names struct {
	Identifier string
	TypeName   string
	AliasName  string
}

func (n *namer) assign(name string, c Category) Names {
	base := PascalCase(name)
	typeBase := base
	if c != CategorySchemas {
		typeBase = base + strings.TrimSuffix(c.suffix(), "Schema")
	}
	return Names{
		Identifier: n.reserve(base + c.suffix()),
		TypeName:   n.reserve(typeBase),
		AliasName:  n.reserve(typeBase + "Type"),
	}
}

func isIdentStart(r byte) bool {
	return r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r byte) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

// isSafeKey reports whether s can be written as a bare object key.
func isSafeKey(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}
	return true
}
