package rxp

import "strings"

// resolveVariables keeps the first definition of each named group and
// replaces every later definition of the same name with \k<name>.
func resolveVariables(src string) string {
	if !strings.Contains(src, "(?<") {
		return src
	}
	seen := make(map[string]bool)
	var b strings.Builder
	b.Grow(len(src))
	for i := 0; i < len(src); {
		switch src[i] {
		case '\\':
			end := min(i+2, len(src))
			b.WriteString(src[i:end])
			i = end
			continue
		case '[':
			end := skipClass(src, i)
			b.WriteString(src[i:end])
			i = end
			continue
		case '(':
			name, bodyAt, ok := namedGroup(src, i)
			if !ok {
				break
			}
			if seen[name] {
				b.WriteString(`\k<` + name + `>`)
				i = closingParen(src, i) + 1
				continue
			}
			seen[name] = true
			b.WriteString(src[i:bodyAt])
			i = bodyAt
			continue
		}
		b.WriteByte(src[i])
		i++
	}
	return b.String()
}

// namedGroup reports whether a (?<name> group opens at i, returning the name
// and the index of its first body byte. Lookbehinds are not named groups.
func namedGroup(src string, i int) (string, int, bool) {
	if !strings.HasPrefix(src[i:], "(?<") {
		return "", 0, false
	}
	rest := src[i+3:]
	if rest == "" || rest[0] == '=' || rest[0] == '!' {
		return "", 0, false
	}
	end := strings.IndexByte(rest, '>')
	if end <= 0 {
		return "", 0, false
	}
	name := rest[:end]
	if !variableNameRe.MatchString(name) {
		return "", 0, false
	}
	return name, i + 3 + end + 1, true
}

// skipClass returns the index just past the character class opening at i.
func skipClass(src string, i int) int {
	j := i + 1
	if j < len(src) && src[j] == '^' {
		j++
	}
	if j < len(src) && src[j] == ']' {
		j++
	}
	for j < len(src) {
		switch src[j] {
		case '\\':
			j += 2
			continue
		case ']':
			return j + 1
		}
		j++
	}
	return len(src)
}

// closingParen returns the index of the parenthesis closing the group that
// opens at i, or len(src)-1 when it is unbalanced.
func closingParen(src string, i int) int {
	depth := 0
	for j := i; j < len(src); {
		switch src[j] {
		case '\\':
			j += 2
			continue
		case '[':
			j = skipClass(src, j)
			continue
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return j
			}
		}
		j++
	}
	return len(src) - 1
}
