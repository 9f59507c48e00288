// Package runtime implements spoor's foreign-callable runtime façade:
// the process-wide lifecycle state machine and the LogEvent/LogFunction*
// hot path that the IR rewriter's injected probes call into (spec.md
// §4.5, §6, §9's "process-wide state" note).
package runtime

import "sync/atomic"

// lifecycleState is the runtime's process-wide state word (spec.md
// §4.5): Uninitialized → Initialized(Disabled ⇄ Enabled) → Uninitialized.
// All transitions are idempotent; modeled as a single atomic word so the
// hot path's Enabled() check never takes a lock.
type lifecycleState int32

const (
	stateUninitialized lifecycleState = iota
	stateDisabled
	stateEnabled
)

// lifecycle is the atomic backing store for one Facade's state.
type lifecycle struct {
	word atomic.Int32
}

func (l *lifecycle) load() lifecycleState {
	return lifecycleState(l.word.Load())
}

// initialize transitions Uninitialized -> Disabled. No-op if already
// past Uninitialized.
func (l *lifecycle) initialize() {
	l.word.CompareAndSwap(int32(stateUninitialized), int32(stateDisabled))
}

// deinitialize transitions any state back to Uninitialized.
func (l *lifecycle) deinitialize() {
	l.word.Store(int32(stateUninitialized))
}

// enable transitions Disabled -> Enabled. No-op otherwise (including
// when Uninitialized: Enable before Initialize is a no-op, not an
// error, mirroring the idempotence spec.md §8 Property demands of S3).
func (l *lifecycle) enable() {
	l.word.CompareAndSwap(int32(stateDisabled), int32(stateEnabled))
}

// disable transitions Enabled -> Disabled. No-op otherwise.
func (l *lifecycle) disable() {
	l.word.CompareAndSwap(int32(stateEnabled), int32(stateDisabled))
}

func (l *lifecycle) initialized() bool {
	return l.load() != stateUninitialized
}

func (l *lifecycle) enabled() bool {
	return l.load() == stateEnabled
}
