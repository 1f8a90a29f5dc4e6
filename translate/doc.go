// Package translate implements the Function Translator and Structured
// CFG Reconstructor (spec.md §4.3/§4.4): it walks one Wasm function
// body and emits the corresponding sequence of SPIR-V instructions
// into a spirv.ModuleBuilder, given a ModuleResolver that already maps
// every ir.TypeHandle/ir.ConstantHandle/ir.GlobalVariableHandle the
// module assembler emitted to its SPIR-V id.
//
// The translator is a single forward pass over the Wasm operator
// stream, maintaining three stacks in lock-step: the value stack (one
// TypedValue per live Wasm operand), the label stack (one frame per
// open block/loop/if, driving structured-CFG reconstruction), and the
// per-local slot table (plain Function-variable, or a Schrödinger pair
// when a local's role is configured as dual integer/pointer).
package translate
