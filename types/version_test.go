package types //nolint:revive // types is a valid package name

import (
	"regexp"
	"testing"
)

func TestVersion_Format(t *testing.T) {
	semverRegex := regexp.MustCompile(`^\d+\.\d+\.\d+(-[a-zA-Z0-9.]+)?$`)
	if !semverRegex.MatchString(Version) {
		t.Errorf("Version %q is not a valid semver", Version)
	}
}

func TestFunctionId_PacksModuleHashAndCounter(t *testing.T) {
	id := NewFunctionId(0xDEADBEEF, 7)
	if got := id.ModuleHash(); got != 0xDEADBEEF {
		t.Errorf("ModuleHash() = %x, want %x", got, uint32(0xDEADBEEF))
	}
	if got := id.Counter(); got != 7 {
		t.Errorf("Counter() = %d, want 7", got)
	}
}

func TestEventType_String(t *testing.T) {
	cases := map[EventType]string{
		EventTypeFunctionEntry: "function_entry",
		EventTypeFunctionExit:  "function_exit",
		EventTypeUser:          "user",
	}
	for in, want := range cases {
		if got := in.String(); got != want {
			t.Errorf("EventType(%d).String() = %q, want %q", in, got, want)
		}
	}
}
