package ir

import "errors"

// ErrNoModuleLoader is returned by LoadModule's default implementation.
var ErrNoModuleLoader = errors.New("ir: no module loader registered; link a compiler-specific binding that sets ir.LoadModule")

// LoadModule resolves a Module handle from an IR module path. The IR
// toolchain itself is an out-of-scope external collaborator (spec.md
// §1): this package ships no concrete Module implementation, only the
// interface the rewriter walks. A compiler-specific binding (an LLVM
// pass plugin, a cgo shim over a compiler's in-memory IR) is expected
// to replace this variable at init time before `spoor instrument` is
// run against a real module.
var LoadModule = func(path string) (Module, error) {
	return nil, ErrNoModuleLoader
}
