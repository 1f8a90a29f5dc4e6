package translate

import "fmt"

// ErrorKind categorizes translation failures (spec.md §7's taxonomy,
// restricted to the subset the Function Translator itself can raise —
// ParseError and PassError originate in wasmfront and passes).
type ErrorKind uint8

const (
	// ErrUnsupportedFeature indicates a Wasm operator or section
	// outside the translator's scope (tables, call_indirect, threads).
	ErrUnsupportedFeature ErrorKind = iota

	// ErrConfigError indicates a configuration gap: a missing param
	// binding, an unknown execution model, or a capability required
	// under a Static policy that was not declared.
	ErrConfigError

	// ErrStackTypeMismatch indicates an operator's declared signature
	// did not match the operand types actually on the stack.
	ErrStackTypeMismatch

	// ErrBranchTypeMismatch indicates a br/br_if/br_table target whose
	// declared result arity or types disagree with the stack shape at
	// the branch site.
	ErrBranchTypeMismatch

	// ErrUnbalancedStack indicates a block ended with a stack shape
	// that does not match its declared result type.
	ErrUnbalancedStack

	// ErrPointerDiscipline indicates an attempt to cross storage
	// classes illegally (e.g. treating an Input built-in as writable).
	ErrPointerDiscipline

	// ErrMemoryGrowRejected indicates memory.grow was encountered
	// under memory_grow_error_kind = Hard.
	ErrMemoryGrowRejected
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrUnsupportedFeature:
		return "UnsupportedFeature"
	case ErrConfigError:
		return "ConfigError"
	case ErrStackTypeMismatch:
		return "StackTypeMismatch"
	case ErrBranchTypeMismatch:
		return "BranchTypeMismatch"
	case ErrUnbalancedStack:
		return "UnbalancedStack"
	case ErrPointerDiscipline:
		return "PointerDisciplineError"
	case ErrMemoryGrowRejected:
		return "MemoryGrowRejected"
	default:
		return "Unknown"
	}
}

// Error is a translation error, fatal to the enclosing compilation
// (spec.md §7: "all errors are fatal to the current compilation").
type Error struct {
	Kind ErrorKind

	// Message provides details about the error.
	Message string

	// FuncIndex identifies the Wasm function being translated.
	FuncIndex uint32

	// OpcodeOffset is the byte offset of the operator within the
	// function body, for diagnostics.
	OpcodeOffset int
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("translate %s in function %d at +%d: %s", e.Kind, e.FuncIndex, e.OpcodeOffset, e.Message)
}

// NewError creates a translation error.
func NewError(kind ErrorKind, funcIndex uint32, offset int, message string) *Error {
	return &Error{Kind: kind, Message: message, FuncIndex: funcIndex, OpcodeOffset: offset}
}

// IsUnsupportedFeature returns true if the error is ErrUnsupportedFeature.
func (e *Error) IsUnsupportedFeature() bool {
	return e.Kind == ErrUnsupportedFeature
}
