package demangle

import (
	"strconv"
	"strings"
)

// ItaniumDemangler recognizes the Itanium C++ ABI's "_Z"-prefixed
// mangling scheme and reconstructs a best-effort qualified name: the
// nested sequence of length-prefixed identifiers, joined by "::".
// It does not decode template arguments, substitutions, or parameter
// types — only enough structure to produce a readable name for the
// symbol table (spec.md §4.2 step 2).
type ItaniumDemangler struct{}

// Demangle reports ok=false for any name not starting with "_Z", so
// callers can fall through to GenericDemangler.
func (ItaniumDemangler) Demangle(linkageName string) (string, bool) {
	if !strings.HasPrefix(linkageName, "_Z") {
		return "", false
	}
	rest := linkageName[2:]

	if strings.HasPrefix(rest, "N") {
		names, _, ok := parseNestedName(rest[1:])
		if !ok || len(names) == 0 {
			return "", false
		}
		return strings.Join(names, "::"), true
	}

	name, _, ok := parseLengthPrefixedName(rest)
	if !ok {
		return "", false
	}
	return name, true
}

// parseNestedName parses a sequence of length-prefixed identifiers up
// to a terminating "E", per the Itanium grammar's <nested-name>.
func parseNestedName(s string) ([]string, string, bool) {
	var names []string
	for {
		if strings.HasPrefix(s, "E") {
			return names, s[1:], true
		}
		name, remainder, ok := parseLengthPrefixedName(s)
		if !ok {
			return nil, s, false
		}
		names = append(names, name)
		s = remainder
		if s == "" {
			return names, s, true
		}
	}
}

// parseLengthPrefixedName reads one "<digits><name>" component.
func parseLengthPrefixedName(s string) (string, string, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return "", s, false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil || n <= 0 || i+n > len(s) {
		return "", s, false
	}
	return s[i : i+n], s[i+n:], true
}
