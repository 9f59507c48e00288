package ir

// DebugInfo is a function's source location metadata (spec.md §4.2
// Input: "debug metadata {file, directory, line}").
type DebugInfo struct {
	File      string
	Directory string
	Line      int32
}

// Function is one non-declaration (or declaration) function exposed by
// a Module, as described by spec.md §4.2's Input contract.
type Function interface {
	LinkageName() string
	IrInstructionCount() int32
	DebugInfo() DebugInfo
	IsDeclaration() bool

	// InsertAtEntry inserts a call to the external symbol fn at the
	// function's entry block, at the first insertion point.
	InsertAtEntry(fn string, args ...uint64)

	// InsertBeforeReturns inserts a call to the external symbol fn
	// immediately before every return instruction in the function.
	InsertBeforeReturns(fn string, args ...uint64)
}

// Module is the external module handle the IR rewriter walks and
// mutates (spec.md §4.2's Input contract; spec.md §1's "IR toolchain
// itself" out-of-scope collaborator).
type Module interface {
	ID() string
	Functions() []Function
}

// Names of the runtime's foreign-callable symbols the rewriter inserts
// calls to (spec.md §4.2 Input).
const (
	SymbolInitialize       = "_spoor_runtime_Initialize"
	SymbolDeinitialize     = "_spoor_runtime_Deinitialize"
	SymbolEnable           = "_spoor_runtime_Enable"
	SymbolLogFunctionEntry = "_spoor_runtime_LogFunctionEntry"
	SymbolLogFunctionExit  = "_spoor_runtime_LogFunctionExit"
)

// MainFunctionName is the entry-point function name the rewriter treats
// specially (spec.md §4.2 step 5).
const MainFunctionName = "main"
