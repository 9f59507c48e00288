package filter

import (
	"regexp"

	"github.com/justapithecus/spoor/types"
)

// Result is the outcome of evaluating a FunctionInfo against a Filters set.
type Result struct {
	Instrument        bool
	MatchingRuleName  string
	HasMatchingRule   bool
}

// Filters is an ordered set of rules evaluated per spec: a function is
// blocked if any Block rule matches, allowed (instrumented) if any Allow
// rule matches, and instrument = !block || allow. The last matching
// rule in scan order (block scan, then allow scan) names the result.
type Filters struct {
	rules []Rule
}

// New builds a Filters from an ordered rule list. Rules must already be
// compiled (via NewRule or the loader).
func New(rules []Rule) Filters {
	return Filters{rules: rules}
}

// Rules returns the underlying rule list, in evaluation order.
func (f Filters) Rules() []Rule {
	return f.rules
}

// Evaluate decides whether function_info should be instrumented.
func (f Filters) Evaluate(info types.FunctionInfo) Result {
	var result Result

	for i := range f.rules {
		r := &f.rules[i]
		if r.Action == Block && r.Matches(info) {
			result.MatchingRuleName = r.RuleName
			result.HasMatchingRule = true
		}
	}
	blocked := result.HasMatchingRule

	var allowed bool
	for i := range f.rules {
		r := &f.rules[i]
		if r.Action == Allow && r.Matches(info) {
			result.MatchingRuleName = r.RuleName
			result.HasMatchingRule = true
			allowed = true
		}
	}

	result.Instrument = !blocked || allowed
	return result
}

// ConfigFilePathAccessor is the demangled name of the runtime's
// configuration-file-path accessor. The default filter set blocks it so
// the instrumentation pass never recursively instruments the runtime's
// own configuration initializer (design note in spec.md §9).
const ConfigFilePathAccessor = "spoor::runtime::config::ConfigFilePath"

// Default returns the always-present Block rule preventing recursive
// instrumentation of the runtime's configuration initializer. Load and
// Parse prepend this rule to every loaded set; it is never expressed as
// a naming convention the loader could omit.
func Default() Filters {
	rule, err := NewRule(Block, "block-config-initializer",
		WithFunctionDemangledNamePattern(regexp.QuoteMeta(ConfigFilePathAccessor)))
	if err != nil {
		// The pattern is a fixed literal; compilation cannot fail.
		panic(err)
	}
	return New([]Rule{rule})
}
