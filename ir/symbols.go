// Package ir implements spoor's IR rewriter (spec.md §4.2): walking an
// external module representation, assigning FunctionIds, consulting the
// filter evaluator, and inserting probe calls. The module representation
// itself is an external collaborator (spec.md §1's "IR toolchain itself");
// this package only depends on the Module/Function interfaces in module.go.
package ir

import (
	"github.com/cespare/xxhash/v2"

	"github.com/justapithecus/spoor/types"
)

// Symbols maps a FunctionId to the ordered sequence of FunctionInfo
// recorded for it. The sequence is non-singleton only when reducing
// symbol files from multiple modules that collided on the low-32
// counter space (spec.md §3's "Symbols").
type Symbols map[types.FunctionId][]types.FunctionInfo

// NewSymbols returns an empty Symbols mapping.
func NewSymbols() Symbols {
	return make(Symbols)
}

// Add appends info under id, preserving any FunctionInfo already
// recorded for id.
func (s Symbols) Add(id types.FunctionId, info types.FunctionInfo) {
	s[id] = append(s[id], info)
}

// Reduce merges source into destination, appending every FunctionInfo
// found under each id rather than overwriting (spec.md §3, §8 Property
// 9: reducing never loses a FunctionInfo). source is left empty.
func Reduce(destination, source Symbols) {
	for id, infos := range source {
		destination[id] = append(destination[id], infos...)
		delete(source, id)
	}
}

// hashModuleID returns a stable 32-bit hash of a module identifier, used
// for the upper bits of a FunctionId (spec.md §3). xxhash's 64-bit sum
// is truncated to 32 bits; collision resistance across independently
// compiled modules only needs to be good, not cryptographic.
func hashModuleID(moduleID string) uint32 {
	return uint32(xxhash.Sum64String(moduleID))
}

// FunctionIDAssigner assigns dense, per-module FunctionIds in IR walk
// order (spec.md §4.2 step 1).
type FunctionIDAssigner struct {
	moduleHash uint32
	counter    uint32
}

// NewFunctionIDAssigner builds an assigner scoped to one module.
func NewFunctionIDAssigner(moduleID string) *FunctionIDAssigner {
	return &FunctionIDAssigner{moduleHash: hashModuleID(moduleID)}
}

// Next returns the next FunctionId and advances the counter.
func (a *FunctionIDAssigner) Next() types.FunctionId {
	id := types.NewFunctionId(a.moduleHash, a.counter)
	a.counter++
	return id
}
