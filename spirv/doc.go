// Package spirv provides the low-level SPIR-V word encoding: opcode,
// decoration, storage-class and execution-mode enumerants, plus
// ModuleBuilder, which assembles a binary module section-by-section in
// the strict order the SPIR-V spec requires.
//
//	builder := spirv.NewModuleBuilder(spirv.Version1_3)
//	builder.AddCapability(spirv.CapabilityShader)
//	builder.SetMemoryModel(spirv.AddressingModelLogical, spirv.MemoryModelGLSL450)
//
//	floatType := builder.AddTypeFloat(32)
//	vec4Type := builder.AddTypeVector(floatType, 4)
//
//	binary := builder.Build()
//
// ModuleBuilder itself knows nothing about Wasm, the IR registry, or
// structured control flow reconstruction — callers (translate,
// assemble) resolve those to ids before calling into this package.
//
// # SPIR-V module layout
//
// A module is a fixed sequence of sections:
//   - header (magic, version, generator, bound, schema)
//   - capabilities, extensions, extended-instruction imports
//   - memory model
//   - entry points, execution modes
//   - debug (OpString, OpName, OpMemberName)
//   - annotations (OpDecorate, OpMemberDecorate)
//   - types, constants, global variables
//   - function declarations and definitions
//
// ModuleBuilder appends to each section independently and interleaves
// them into that order only at Build time, so callers can emit types
// and functions in whatever order the translation visits them.
//
// # References
//
// SPIR-V Specification: https://registry.khronos.org/SPIR-V/specs/unified1/SPIRV.html
package spirv
