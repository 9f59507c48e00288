package tui

// View names of the TUI models this package provides: the trace view
// (`inspect --tui`) and the symbols view (`symbols --tui`).
const (
	ViewTrace   = "trace"
	ViewSymbols = "symbols"
)

// IsSupported reports whether viewType has a TUI implementation.
func IsSupported(viewType string) bool {
	switch viewType {
	case ViewTrace, ViewSymbols:
		return true
	default:
		return false
	}
}
