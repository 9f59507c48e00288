package trace

import (
	"fmt"

	"github.com/justapithecus/spoor/types"
)

// TraceFile is the fully decoded contents of one *.spoor_trace file: its
// header plus the events it carries (spec.md §3, §4.6).
type TraceFile struct {
	Header Header
	Events []types.Event
}

// FileName returns the canonical trace file name for a session, process,
// thread and flush timestamp: "{session}-{pid}-{tid}-{steady_ns}.spoor_trace"
// (spec.md §4.4, §6).
func FileName(sessionID, processID, threadID uint64, steadyNs int64) string {
	return fmt.Sprintf("%d-%d-%d-%d.spoor_trace", sessionID, processID, threadID, steadyNs)
}
