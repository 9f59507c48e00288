package filter

import (
	"testing"

	"github.com/justapithecus/spoor/types"
)

func mustRule(t *testing.T, action Action, name string, opts ...RuleOption) Rule {
	t.Helper()
	r, err := NewRule(action, name, opts...)
	if err != nil {
		t.Fatalf("NewRule(%s): %v", name, err)
	}
	return r
}

func TestFilters_EmptySetInstrumentsEverything(t *testing.T) {
	f := New(nil)
	result := f.Evaluate(types.FunctionInfo{DemangledName: "foo::bar()"})
	if !result.Instrument {
		t.Fatal("empty filter set blocks nothing, so it must instrument")
	}
	if result.HasMatchingRule {
		t.Fatal("empty filter set has no matching rule")
	}
}

func TestFilters_AllowRuleInstruments(t *testing.T) {
	f := New([]Rule{
		mustRule(t, Allow, "allow-foo", WithFunctionDemangledNamePattern(`foo::.*`)),
	})
	result := f.Evaluate(types.FunctionInfo{DemangledName: "foo::bar"})
	if !result.Instrument {
		t.Fatal("expected instrument=true")
	}
	if result.MatchingRuleName != "allow-foo" {
		t.Fatalf("MatchingRuleName = %q, want allow-foo", result.MatchingRuleName)
	}
}

func TestFilters_BlockOverridesDefaultInstrument(t *testing.T) {
	f := New([]Rule{
		mustRule(t, Block, "block-foo", WithFunctionDemangledNamePattern(`foo::.*`)),
	})
	result := f.Evaluate(types.FunctionInfo{DemangledName: "foo::bar"})
	if result.Instrument {
		t.Fatal("expected instrument=false when blocked and not allowed")
	}
	if result.MatchingRuleName != "block-foo" {
		t.Fatalf("MatchingRuleName = %q, want block-foo", result.MatchingRuleName)
	}
}

func TestFilters_AllowWinsOverBlockForSameFunction(t *testing.T) {
	f := New([]Rule{
		mustRule(t, Block, "block-foo", WithFunctionDemangledNamePattern(`foo::.*`)),
		mustRule(t, Allow, "allow-foo-bar", WithFunctionDemangledNamePattern(`foo::bar`)),
	})
	result := f.Evaluate(types.FunctionInfo{DemangledName: "foo::bar"})
	if !result.Instrument {
		t.Fatal("an allow match must win over a block match for the same function")
	}
	if result.MatchingRuleName != "allow-foo-bar" {
		t.Fatalf("MatchingRuleName = %q, want allow-foo-bar (last matching rule in allow scan)", result.MatchingRuleName)
	}
}

func TestFilters_LastMatchingRuleInEachScanNamesResult(t *testing.T) {
	f := New([]Rule{
		mustRule(t, Block, "block-first", WithFunctionDemangledNamePattern(`foo::.*`)),
		mustRule(t, Block, "block-second", WithFunctionDemangledNamePattern(`foo::bar`)),
	})
	result := f.Evaluate(types.FunctionInfo{DemangledName: "foo::bar"})
	if result.MatchingRuleName != "block-second" {
		t.Fatalf("MatchingRuleName = %q, want block-second (last match in block scan)", result.MatchingRuleName)
	}
}

func TestFilters_NoMatchLeavesInstrumentTrue(t *testing.T) {
	f := New([]Rule{
		mustRule(t, Allow, "allow-foo", WithFunctionDemangledNamePattern(`foo::.*`)),
	})
	result := f.Evaluate(types.FunctionInfo{DemangledName: "baz::qux"})
	if !result.Instrument {
		t.Fatal("expected instrument=true when no block rule matches")
	}
	if result.HasMatchingRule {
		t.Fatal("expected no matching rule")
	}
}

func TestDefault_BlocksConfigFilePathAccessor(t *testing.T) {
	f := Default()
	result := f.Evaluate(types.FunctionInfo{DemangledName: ConfigFilePathAccessor})
	if result.Instrument {
		t.Fatal("default filter set must block the config file path accessor")
	}
}

func TestDefault_DoesNotBlockUnrelatedFunctions(t *testing.T) {
	f := Default()
	result := f.Evaluate(types.FunctionInfo{DemangledName: "app::main()"})
	if result.HasMatchingRule {
		t.Fatal("default filter set must not match unrelated functions")
	}
}
