// Package passes wraps external validators, optimizers, and
// cross-compilers (a real SPIR-V validator, `spirv-opt`, a GLSL/HLSL/
// MSL cross-compiler, ...) behind one adapter shape: a pure function
// from an assembled SPIR-V word stream to either its transformed bytes
// or a textual result, plus any diagnostic the tool emitted on its
// side channel. None of these tools ship in this repo — module 8 of
// the module map only defines the hook they plug into.
package passes

// Result is one Adapter invocation's outcome: exactly one of Bytes or
// Text is populated depending on what the wrapped tool produces (an
// optimizer returns bytes; a disassembler or cross-compiler backend
// returns text), plus whatever the tool wrote to its diagnostic
// channel — present even on success, since a validator can warn
// without failing.
type Result struct {
	Bytes      []byte
	Text       string
	Diagnostic string
}

// Adapter is one external tool wrapped as a pure function over a
// SPIR-V module's word stream. Adapters must not retain the input
// slice past the call, matching the core's own no-retained-buffers
// rule.
type Adapter func(spirvWords []byte) (Result, error)

// Run invokes adapter against spirvWords through cache, so repeated
// calls against byte-identical output (the common case: a caller
// re-running assembly() or glsl() against the same Compilation) skip
// re-invoking the external tool. A failing adapter is not cached —
// its diagnostic belongs to that one attempt, not to the key.
func Run(cache *Cache, name string, adapter Adapter, spirvWords []byte) (Result, error) {
	if cached, ok := cache.lookup(name, spirvWords); ok {
		return cached, nil
	}
	result, err := adapter(spirvWords)
	if err != nil {
		if result.Diagnostic != "" {
			return Result{}, &Error{Pass: name, Diagnostic: result.Diagnostic, Cause: err}
		}
		return Result{}, &Error{Pass: name, Cause: err}
	}
	cache.store(name, spirvWords, result)
	return result, nil
}

// Error wraps an Adapter failure with the pass name and whatever
// diagnostic the tool captured on its side channel, per spec.md §4.7:
// "if the adapter fails silently, the core attaches the captured
// diagnostic to the error".
type Error struct {
	Pass       string
	Diagnostic string
	Cause      error
}

func (e *Error) Error() string {
	if e.Diagnostic != "" {
		return "passes: " + e.Pass + ": " + e.Cause.Error() + ": " + e.Diagnostic
	}
	return "passes: " + e.Pass + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}
