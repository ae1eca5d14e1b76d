package compiler

// Mentions returns the identifiers that text refers to, in first-seen order
// and without duplicates. String literals, regular expression literals,
// member names after a dot and object keys are not references and are
// skipped.
func Mentions(text string) []string {
	var out []string
	seen := make(map[string]bool)
	scanIdentifiers(text, func(ident string) {
		if !seen[ident] {
			seen[ident] = true
			out = append(out, ident)
		}
	})
	return out
}

// MentionsIdentifier reports whether text refers to ident.
func MentionsIdentifier(text, ident string) bool {
	found := false
	scanIdentifiers(text, func(s string) {
		if s == ident {
			found = true
		}
	})
	return found
}

func scanIdentifiers(text string, emit func(string)) {
	var prev byte // last significant byte
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
			continue
		case c == '\'' || c == '"' || c == '`':
			i = skipString(text, i)
		case c == '/' && regexAllowed(prev):
			i = skipRegex(text, i)
		case isIdentStart(c):
			start := i
			for i < len(text) && isIdentPart(text[i]) {
				i++
			}
			if prev != '.' && !isKey(text, i) {
				emit(text[start:i])
			}
		default:
			i++
		}
		prev = c
	}
}

// isKey reports whether the identifier ending at end is followed by ':' or
// '?:'.
func isKey(text string, end int) bool {
	j := end
	for j < len(text) && (text[j] == ' ' || text[j] == '\t') {
		j++
	}
	if j < len(text) && text[j] == '?' {
		j++
	}
	return j < len(text) && text[j] == ':'
}

func regexAllowed(prev byte) bool {
	switch prev {
	case 0, '(', ',', '=', ':', '[', '!', '&', '|', '?', '{', '}', ';':
		return true
	}
	return false
}

func skipString(text string, i int) int {
	q := text[i]
	i++
	for i < len(text) {
		switch text[i] {
		case '\\':
			i += 2
			continue
		case q:
			return i + 1
		}
		i++
	}
	return i
}

func skipRegex(text string, i int) int {
	i++
	inClass := false
	for i < len(text) {
		c := text[i]
		switch {
		case c == '\\':
			i += 2
			continue
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			i++
			for i < len(text) && isIdentPart(text[i]) {
				i++
			}
			return i
		case c == '\n':
			return i
		}
		i++
	}
	return i
}
