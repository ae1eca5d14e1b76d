package compiler

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// quote renders s as a single-quoted TypeScript string.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\u2028':
			b.WriteString(`\u2028`)
		case '\u2029':
			b.WriteString(`\u2029`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// key renders an object property key.
func key(name string) string {
	if isSafeKey(name) {
		return name
	}
	return quote(name)
}

// number renders a float without exponent or trailing zeros.
func number(f float64) string {
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// bigNumber renders an integral float as a bigint literal.
func bigNumber(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', 0, 64) + "n"
	}
	return number(f)
}

// literal renders a decoded JSON value as a TypeScript expression. Map keys
// are sorted so output is stable.
func literal(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return quote(t)
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return number(t)
	case float32:
		return number(float64(t))
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = literal(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		if len(t) == 0 {
			return "{}"
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = key(k) + ": " + literal(t[k])
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	default:
		return quote(fmt.Sprint(t))
	}
}

// bigLiteral renders a default for a bigint-based schema.
func bigLiteral(v any) string {
	switch t := v.(type) {
	case float64:
		return bigNumber(t)
	case int:
		return strconv.Itoa(t) + "n"
	case int64:
		return strconv.FormatInt(t, 10) + "n"
	case string:
		if _, err := strconv.ParseInt(t, 10, 64); err == nil {
			return t + "n"
		}
	}
	return literal(v)
}

// regex renders pattern as a regular expression literal.
func regex(pattern string) string {
	var b strings.Builder
	b.WriteByte('/')
	escaped := false
	inClass := false
	for _, r := range pattern {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '[':
			inClass = true
		case r == ']':
			inClass = false
		case r == '/' && !inClass:
			b.WriteByte('\\')
		case r == '\n':
			b.WriteString(`\n`)
			continue
		}
		b.WriteRune(r)
	}
	b.WriteByte('/')
	return b.String()
}
