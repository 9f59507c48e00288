package tui

import "testing"

func TestIsSupported(t *testing.T) {
	if !IsSupported(ViewTrace) || !IsSupported(ViewSymbols) {
		t.Fatal("expected trace and symbols views to be supported")
	}
	if IsSupported("unknown") {
		t.Fatal("expected unknown view to be unsupported")
	}
}

