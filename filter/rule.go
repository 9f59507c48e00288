// Package filter implements the instrumentation filter evaluator and its
// rule file loader, grounded on original_source's
// spoor/instrumentation/filters package. A Filters value decides, for a
// given types.FunctionInfo, whether the IR rewriter should instrument
// it and which rule fired.
package filter

import (
	"fmt"
	"regexp"

	"github.com/justapithecus/spoor/types"
)

// Action is the effect a matching rule has on instrumentation.
type Action int

// Action values.
const (
	Allow Action = iota
	Block
)

func (a Action) String() string {
	if a == Allow {
		return "allow"
	}
	return "block"
}

// Rule is a single filter predicate set. A rule with no predicates
// matches every function. All present predicates must hold
// (conjunction within a rule); absent predicates never constrain.
type Rule struct {
	Action   Action
	RuleName string

	SourceFilePathPattern        string
	FunctionDemangledNamePattern string
	FunctionLinkageNamePattern   string

	IrInstructionCountLt *int32
	IrInstructionCountGt *int32

	sourceFilePathRe        *regexp.Regexp
	functionDemangledNameRe *regexp.Regexp
	functionLinkageNameRe   *regexp.Regexp
}

// compile compiles the rule's regex patterns as full-match expressions.
// Called once by NewRule (which the loader uses); Matches never compiles
// on the hot path.
func (r *Rule) compile() error {
	var err error
	if r.SourceFilePathPattern != "" {
		if r.sourceFilePathRe, err = compileFullMatch(r.SourceFilePathPattern); err != nil {
			return fmt.Errorf("source_file_path: %w", err)
		}
	}
	if r.FunctionDemangledNamePattern != "" {
		if r.functionDemangledNameRe, err = compileFullMatch(r.FunctionDemangledNamePattern); err != nil {
			return fmt.Errorf("function_demangled_name: %w", err)
		}
	}
	if r.FunctionLinkageNamePattern != "" {
		if r.functionLinkageNameRe, err = compileFullMatch(r.FunctionLinkageNamePattern); err != nil {
			return fmt.Errorf("function_linkage_name: %w", err)
		}
	}
	return nil
}

func compileFullMatch(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(`^(?:` + pattern + `)$`)
}

// NewRule builds a Rule and compiles its patterns immediately, for
// callers constructing rules programmatically (e.g. the default filter
// set) rather than through the file loader.
func NewRule(action Action, ruleName string, opts ...RuleOption) (Rule, error) {
	r := Rule{Action: action, RuleName: ruleName}
	for _, opt := range opts {
		opt(&r)
	}
	if err := r.compile(); err != nil {
		return Rule{}, err
	}
	return r, nil
}

// RuleOption configures an optional predicate on a Rule built via NewRule.
type RuleOption func(*Rule)

// WithSourceFilePathPattern sets the full-match pattern against FileName.
func WithSourceFilePathPattern(pattern string) RuleOption {
	return func(r *Rule) { r.SourceFilePathPattern = pattern }
}

// WithFunctionDemangledNamePattern sets the full-match pattern against DemangledName.
func WithFunctionDemangledNamePattern(pattern string) RuleOption {
	return func(r *Rule) { r.FunctionDemangledNamePattern = pattern }
}

// WithFunctionLinkageNamePattern sets the full-match pattern against LinkageName.
func WithFunctionLinkageNamePattern(pattern string) RuleOption {
	return func(r *Rule) { r.FunctionLinkageNamePattern = pattern }
}

// WithIrInstructionCountLt sets the strict-less-than predicate.
func WithIrInstructionCountLt(n int32) RuleOption {
	return func(r *Rule) { r.IrInstructionCountLt = &n }
}

// WithIrInstructionCountGt sets the strict-greater-than predicate.
func WithIrInstructionCountGt(n int32) RuleOption {
	return func(r *Rule) { r.IrInstructionCountGt = &n }
}

// Matches reports whether every present predicate on r holds for info.
// An empty rule (no predicates) matches everything.
func (r *Rule) Matches(info types.FunctionInfo) bool {
	if r.sourceFilePathRe != nil && !r.sourceFilePathRe.MatchString(info.FileName) {
		return false
	}
	if r.functionDemangledNameRe != nil && !r.functionDemangledNameRe.MatchString(info.DemangledName) {
		return false
	}
	if r.functionLinkageNameRe != nil && !r.functionLinkageNameRe.MatchString(info.LinkageName) {
		return false
	}
	if r.IrInstructionCountLt != nil && !(info.IrInstructionCount < *r.IrInstructionCountLt) {
		return false
	}
	if r.IrInstructionCountGt != nil && !(info.IrInstructionCount > *r.IrInstructionCountGt) {
		return false
	}
	return true
}
