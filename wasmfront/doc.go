// Package wasmfront decodes the WebAssembly MVP binary format into the
// typed Module this translator's later stages consume.
//
// The translator's contract (spec.md §1) is that its input is already
// validated; this package performs a structural decode only — it
// rejects malformed encodings (bad LEB128, truncated sections, unknown
// section ids) but does not re-run full Wasm validation.
//
// # References
//
//   - WebAssembly Core Specification 1.0: https://www.w3.org/TR/wasm-core-1/
package wasmfront
