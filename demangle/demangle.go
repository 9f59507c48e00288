// Package demangle turns a compiled linkage name into a human-readable
// name for the symbol table (spec.md §4.2 step 2). It is a best-effort
// collaborator, not a full ABI parser: the IR rewriter never depends on
// a demangled name being exact, only present.
package demangle

import (
	"strings"
	"unicode"
)

// Demangler converts a linkage name to a demangled, human-readable
// name. ok is false when the demangler does not recognize the naming
// scheme, in which case callers fall back to another Demangler.
type Demangler interface {
	Demangle(linkageName string) (demangled string, ok bool)
}

// Best returns the demangled name for linkageName: the first
// recognizing Demangler's output, or the GenericDemangler's fallback
// when none recognize it (spec.md §4.2 step 2).
func Best(linkageName string) string {
	for _, d := range []Demangler{ItaniumDemangler{}} {
		if name, ok := d.Demangle(linkageName); ok {
			return name
		}
	}
	name, _ := GenericDemangler{}.Demangle(linkageName)
	return name
}

// GenericDemangler is the fallback used when no managed-symbol scheme
// is recognized: it strips control characters and returns the linkage
// name unchanged, per spec.md §4.2 step 2.
type GenericDemangler struct{}

// Demangle always succeeds, stripping control characters.
func (GenericDemangler) Demangle(linkageName string) (string, bool) {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, linkageName), true
}
