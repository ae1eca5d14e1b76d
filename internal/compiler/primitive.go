package compiler

import (
	"fmt"
	"strings"

	"github.com/nakita628/hono-takibi-sub031/internal/schema"
)

// stringFormats maps string formats to their dedicated builders.
var stringFormats = map[string]string{
	"email":     "z.email()",
	"uri":       "z.url()",
	"url":       "z.url()",
	"uuid":      "z.uuid()",
	"uuidv4":    "z.uuidv4()",
	"uuidv6":    "z.uuidv6()",
	"uuidv7":    "z.uuidv7()",
	"guid":      "z.guid()",
	"date":      "z.iso.date()",
	"time":      "z.iso.time()",
	"date-time": "z.iso.datetime()",
	"duration":  "z.iso.duration()",
	"ulid":      "z.ulid()",
	"cuid":      "z.cuid()",
	"cuid2":     "z.cuid2()",
	"nanoid":    "z.nanoid()",
	"ipv4":      "z.ipv4()",
	"ipv6":      "z.ipv6()",
	"cidrv4":    "z.cidrv4()",
	"cidrv6":    "z.cidrv6()",
	"base64":    "z.base64()",
	"byte":      "z.base64()",
	"base64url": "z.base64url()",
	"jwt":       "z.jwt()",
	"emoji":     "z.emoji()",
	"e164":      "z.e164()",
	"hostname":  "z.hostname()",
}

// numberBase picks the numeric builder for a type and format. big reports
// a bigint-valued builder.
func numberBase(typ, format string) (base string, big bool) {
	switch format {
	case "float":
		return "z.float32()", false
	case "double":
		return "z.float64()", false
	case "int32":
		return "z.int32()", false
	case "int64":
		return "z.int64()", true
	case "bigint":
		return "z.bigint()", true
	}
	if typ == schema.TypeInteger {
		return "z.int()", false
	}
	return "z.number()", false
}

func (e *emitter) primitive(p *schema.Primitive) string {
	switch p.Type {
	case schema.TypeString:
		return e.str(p)
	case schema.TypeNumber, schema.TypeInteger:
		return e.num(p)
	case schema.TypeBoolean:
		base := "z.boolean()"
		if e.coerce {
			base = "z.stringbool()"
		}
		return withDefault(nullable(base, p.Nullable), p.Meta, literal)
	case schema.TypeNull:
		return "z.null()"
	default:
		e.warn("unsupported primitive type %q, accepting any value", p.Type)
		return nullable("z.any()", p.Nullable)
	}
}

func (e *emitter) str(p *schema.Primitive) string {
	base, ok := stringFormats[p.Format]
	if !ok {
		base = "z.string()"
	}
	var b strings.Builder
	b.WriteString(base)
	if p.Pattern != "" {
		b.WriteString(".regex(" + regex(p.Pattern) + ")")
	}
	b.WriteString(lengths(p.MinLength, p.MaxLength))
	return withDefault(nullable(b.String(), p.Nullable), p.Meta, literal)
}

func (e *emitter) num(p *schema.Primitive) string {
	base, big := numberBase(p.Type, p.Format)
	lit := number
	if big {
		lit = bigNumber
	}

	var b strings.Builder
	b.WriteString(base)
	b.WriteString(lowerBound(p, lit))
	b.WriteString(upperBound(p, lit))
	if p.MultipleOf != nil {
		fmt.Fprintf(&b, ".multipleOf(%s)", lit(*p.MultipleOf))
	}
	out := nullable(b.String(), p.Nullable)
	if big {
		out = withDefault(out, p.Meta, bigLiteral)
	} else {
		out = withDefault(out, p.Meta, literal)
	}

	if !e.coerce {
		return out
	}
	if big {
		return "z.string().pipe(z.coerce.bigint().pipe(" + out + "))"
	}
	return "z.string().pipe(z.coerce.number().pipe(" + out + "))"
}

func lowerBound(p *schema.Primitive, lit func(float64) string) string {
	var out string
	if p.Minimum != nil {
		v := *p.Minimum
		switch {
		case v == 0 && p.ExclusiveMinimum:
			out = ".positive()"
		case v == 0:
			out = ".nonnegative()"
		case p.ExclusiveMinimum:
			out = ".gt(" + lit(v) + ")"
		default:
			out = ".min(" + lit(v) + ")"
		}
	}
	if p.ExclusiveMinimumValue != nil {
		v := *p.ExclusiveMinimumValue
		if v == 0 {
			out += ".positive()"
		} else {
			out += ".gt(" + lit(v) + ")"
		}
	}
	return out
}

func upperBound(p *schema.Primitive, lit func(float64) string) string {
	var out string
	if p.Maximum != nil {
		v := *p.Maximum
		switch {
		case v == 0 && p.ExclusiveMaximum:
			out = ".negative()"
		case v == 0:
			out = ".nonpositive()"
		case p.ExclusiveMaximum:
			out = ".lt(" + lit(v) + ")"
		default:
			out = ".max(" + lit(v) + ")"
		}
	}
	if p.ExclusiveMaximumValue != nil {
		v := *p.ExclusiveMaximumValue
		if v == 0 {
			out += ".negative()"
		} else {
			out += ".lt(" + lit(v) + ")"
		}
	}
	return out
}

// withDefault appends the default modifier, which always comes last.
func withDefault(expr string, m schema.Meta, lit func(any) string) string {
	if !m.HasDefault {
		return expr
	}
	return expr + ".default(" + lit(m.Default) + ")"
}
