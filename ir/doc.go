// Package ir is the Type & Capability Registry for the Wasm-to-SPIR-V
// translator.
//
// Unlike a source-language-agnostic shader IR, this registry speaks
// SPIR-V's own type algebra directly: scalars, vectors, matrices,
// arrays (fixed and runtime-sized), structs, and typed pointers tagged
// by storage class. It guarantees that a logically identical type,
// constant, capability, or extension is represented by exactly one id
// no matter how many call sites ask for it.
//
// # Structure
//
// A ModuleContext owns one TypeRegistry, one ConstantRegistry, and the
// module's capability/extension bookkeeping. It is constructed once
// per compilation and frozen once emission completes.
//
// # References
//
//   - SPIR-V specification: https://registry.khronos.org/SPIR-V/
package ir
