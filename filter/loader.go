package filter

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ruleSpec mirrors one rule table's keys from the filter file format
// (spec.md §6): rule_name, source_file_path, function_demangled_name,
// function_linkage_name, function_ir_instruction_count_lt/gt. Unknown
// keys are rejected by the decoder's KnownFields(true) for strict
// YAML decoding.
type ruleSpec struct {
	RuleName                     string `yaml:"rule_name"`
	SourceFilePath                string `yaml:"source_file_path"`
	FunctionDemangledName         string `yaml:"function_demangled_name"`
	FunctionLinkageName           string `yaml:"function_linkage_name"`
	FunctionIrInstructionCountLt  *int32 `yaml:"function_ir_instruction_count_lt"`
	FunctionIrInstructionCountGt  *int32 `yaml:"function_ir_instruction_count_gt"`
}

// fileSpec mirrors the filter file's two top-level array-of-tables keys.
type fileSpec struct {
	Allow []ruleSpec `yaml:"allow"`
	Block []ruleSpec `yaml:"block"`
}

// Load reads a filter rule file and returns the resulting Filters, with
// Default()'s always-present block-the-config-initializer rule
// prepended per spec.md §9.
func Load(path string) (Filters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Filters{}, &LoadError{Kind: FailedToOpenFile, Path: path, Err: err}
	}
	return Parse(path, data)
}

// Parse decodes filter rule file contents already read into memory.
// Split from Load so tests and the loader can both exercise it without
// touching the filesystem.
func Parse(path string, data []byte) (Filters, error) {
	var spec fileSpec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil && !errors.Is(err, io.EOF) {
		return Filters{}, classifyDecodeError(path, err)
	}

	rules := Default().Rules()
	for _, rs := range spec.Block {
		r, err := ruleFromSpec(Block, rs)
		if err != nil {
			return Filters{}, &LoadError{Kind: MalformedNode, Path: path, Err: err}
		}
		rules = append(rules, r)
	}
	for _, rs := range spec.Allow {
		r, err := ruleFromSpec(Allow, rs)
		if err != nil {
			return Filters{}, &LoadError{Kind: MalformedNode, Path: path, Err: err}
		}
		rules = append(rules, r)
	}

	return New(rules), nil
}

func ruleFromSpec(action Action, rs ruleSpec) (Rule, error) {
	var opts []RuleOption
	if rs.SourceFilePath != "" {
		opts = append(opts, WithSourceFilePathPattern(rs.SourceFilePath))
	}
	if rs.FunctionDemangledName != "" {
		opts = append(opts, WithFunctionDemangledNamePattern(rs.FunctionDemangledName))
	}
	if rs.FunctionLinkageName != "" {
		opts = append(opts, WithFunctionLinkageNamePattern(rs.FunctionLinkageName))
	}
	if rs.FunctionIrInstructionCountLt != nil {
		opts = append(opts, WithIrInstructionCountLt(*rs.FunctionIrInstructionCountLt))
	}
	if rs.FunctionIrInstructionCountGt != nil {
		opts = append(opts, WithIrInstructionCountGt(*rs.FunctionIrInstructionCountGt))
	}
	return NewRule(action, rs.RuleName, opts...)
}

// classifyDecodeError distinguishes "unknown key" (UnknownNode) and
// "allow/block given as a scalar instead of a list" (MalformedNode)
// failures from general syntax errors (MalformedFile), per spec.md's
// note that a rule file collapsing allow/block into a scalar is a
// MalformedNode, not a MalformedFile.
func classifyDecodeError(path string, err error) *LoadError {
	msg := err.Error()
	if strings.Contains(msg, "field") && strings.Contains(msg, "not found in type") {
		return &LoadError{Kind: UnknownNode, Path: path, Err: err}
	}
	if strings.Contains(msg, "cannot unmarshal") {
		return &LoadError{Kind: MalformedNode, Path: path, Err: err}
	}
	return &LoadError{Kind: MalformedFile, Path: path, Err: err}
}
