package ir

import (
	"fmt"
	"time"

	"github.com/justapithecus/spoor/demangle"
	"github.com/justapithecus/spoor/filter"
	"github.com/justapithecus/spoor/types"
)

// PassError is a fatal symbol-file error: a failure to open, encode,
// write, read or decode a symbol file. Filter-file read failures are
// reported as filter.LoadError.
type PassError struct {
	Kind string
	Err  error
}

func (e *PassError) Error() string {
	return fmt.Sprintf("ir: %s: %v", e.Kind, e.Err)
}

func (e *PassError) Unwrap() error {
	return e.Err
}

// Options configures one rewriter pass.
type Options struct {
	Filters                 filter.Filters
	InitializeRuntimeAtMain bool
	EnableRuntimeAtMain     bool
	Now                     func() time.Time
}

// Result is the outcome of rewriting one Module.
type Result struct {
	Symbols  Symbols
	Modified bool
}

// Rewrite walks m's non-declaration functions in module order, assigns
// FunctionIds, demangles names, consults the filter evaluator, and
// inserts probe calls at instrumented functions' entry/return points
// (spec.md §4.2's Procedure).
func Rewrite(m Module, opts Options) Result {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	assigner := NewFunctionIDAssigner(m.ID())
	symbols := NewSymbols()
	var modified bool

	for _, fn := range m.Functions() {
		if fn.IsDeclaration() {
			continue
		}

		id := assigner.Next()
		demangled := demangle.Best(fn.LinkageName())
		debug := fn.DebugInfo()

		info := types.FunctionInfo{
			ModuleID:           m.ID(),
			LinkageName:        fn.LinkageName(),
			DemangledName:      demangled,
			FileName:           debug.File,
			Directory:          debug.Directory,
			Line:               debug.Line,
			IrInstructionCount: fn.IrInstructionCount(),
			CreatedAt:          now(),
		}

		result := opts.Filters.Evaluate(info)
		info.Instrumented = result.Instrument
		symbols.Add(id, info)

		if !result.Instrument {
			continue
		}
		modified = true
		instrument(fn, id, opts)
	}

	return Result{Symbols: symbols, Modified: modified}
}

// instrument inserts the probe calls for one instrumented function,
// special-casing main when runtime initialization was requested
// (spec.md §4.2 steps 5-6).
func instrument(fn Function, id types.FunctionId, opts Options) {
	isMain := fn.LinkageName() == MainFunctionName
	injectInit := isMain && opts.InitializeRuntimeAtMain

	if injectInit {
		fn.InsertAtEntry(SymbolInitialize)
		if opts.EnableRuntimeAtMain {
			fn.InsertAtEntry(SymbolEnable)
		}
	}
	fn.InsertAtEntry(SymbolLogFunctionEntry, uint64(id))

	fn.InsertBeforeReturns(SymbolLogFunctionExit, uint64(id))
	if injectInit {
		fn.InsertBeforeReturns(SymbolDeinitialize)
	}
}
