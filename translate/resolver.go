package translate

import (
	"errors"

	"github.com/gogpu/wasm2spirv/ir"
	"github.com/gogpu/wasm2spirv/resources"
	"github.com/gogpu/wasm2spirv/spirv"
	"github.com/gogpu/wasm2spirv/wasmfront"
)

var errUnresolvedGlobal = errors.New("translate: unresolved Wasm global index")
var errUnresolvedFunction = errors.New("translate: unresolved Wasm function index")

// ModuleResolver carries everything the Module Assembler has already
// resolved before handing a function body to the translator: ir
// handles (types, constants, globals) mapped to the SPIR-V <id> the
// assembler emitted for them, plus the materialized linear-memory and
// built-in resources a function body may reference. The translator
// looks ir-registered types and module-scope variables up through the
// resolver, which lazily interns the four Wasm scalar types if the
// assembler did not already. Function bodies still add OpTypeVoid/
// OpTypeFunction, Function-storage pointer types and the OpConstants
// of Wasm const operators straight through the builder.
type ModuleResolver struct {
	MC      *ir.ModuleContext
	Builder *spirv.ModuleBuilder

	Types     map[ir.TypeHandle]uint32
	Constants map[ir.ConstantHandle]uint32
	Globals   map[ir.GlobalVariableHandle]uint32

	// WasmGlobals maps the Wasm global index space (imports, in import
	// order, then module-defined globals) to the ir.GlobalVariableHandle
	// the assembler materialized for it — an imported global's slot
	// holds an invalid handle that never resolves, a module-defined
	// global becomes a Private-class OpVariable.
	WasmGlobals []ir.GlobalVariableHandle

	// Functions maps the Wasm function index space to the SPIR-V
	// function id the assembler pre-allocated for it. Every
	// module-defined function gets its id reserved before any function
	// body is translated, so a direct call to a function defined later
	// in the module (or to itself, recursively) resolves to a forward
	// reference the same way branch-target labels do (cfg.go).
	Functions map[uint32]uint32

	Memory      resources.LinearMemoryLayout
	MemoryValid bool

	Builtins *resources.BuiltinMaterializer

	GLSLExtSet uint32

	scalarCache map[wasmfront.ValType]uint32
}

// typeID returns the SPIR-V id an already-resolved ir.TypeHandle was
// assigned, emitting it on the spot if the assembler hasn't (scalar
// locals may be the first use of i64 in a module that never declares
// an i64-typed global or param).
func (r *ModuleResolver) typeID(handle ir.TypeHandle) uint32 {
	if id, ok := r.Types[handle]; ok {
		return id
	}
	typ, ok := r.MC.Types.Lookup(handle)
	if !ok {
		panic("translate: unresolved type handle")
	}
	id := r.emitType(typ.Inner)
	if r.Types == nil {
		r.Types = make(map[ir.TypeHandle]uint32)
	}
	r.Types[handle] = id
	return id
}

func (r *ModuleResolver) emitType(inner ir.TypeInner) uint32 {
	switch t := inner.(type) {
	case ir.ScalarType:
		return r.emitScalar(t)
	case ir.VectorType:
		return r.Builder.AddTypeVector(r.emitScalar(t.Scalar), uint32(t.Size))
	case ir.MatrixType:
		columnType := r.Builder.AddTypeVector(r.emitScalar(t.Scalar), uint32(t.Rows))
		return r.Builder.AddTypeMatrix(columnType, uint32(t.Columns))
	case ir.ArrayType:
		if t.Size.Constant == nil {
			panic("translate: ArrayType with no constant length, use RuntimeArrayType")
		}
		// OpTypeArray's Length operand is a constant <id>, not a literal,
		// so the element count needs its own OpConstant first.
		lengthConst := r.Builder.AddConstant(r.scalarTypeID(wasmfront.ValTypeI32), *t.Size.Constant)
		return r.Builder.AddTypeArray(r.typeID(t.Base), lengthConst)
	case ir.RuntimeArrayType:
		return r.Builder.AddTypeRuntimeArray(r.typeID(t.Base))
	case ir.StructType:
		return r.emitStruct(t)
	case ir.PointerType:
		return r.Builder.AddTypePointer(irStorageClassToSPIRV(t.Space), r.typeID(t.Base))
	default:
		panic("translate: emitType does not support this type kind lazily")
	}
}

// emitStruct declares the struct's OpTypeStruct and the per-member
// Offset/Binding decorations that only make sense against a member
// index, not a whole-struct DecorationTable entry (see
// ir.DecorationTable, which only tracks whole-target decorations).
func (r *ModuleResolver) emitStruct(t ir.StructType) uint32 {
	memberTypes := make([]uint32, len(t.Members))
	for i, m := range t.Members {
		memberTypes[i] = r.typeID(m.Type)
	}
	id := r.Builder.AddTypeStruct(memberTypes...)
	for i, m := range t.Members {
		r.Builder.AddMemberDecorate(id, uint32(i), spirv.DecorationOffset, m.Offset)
		switch b := m.Binding.(type) {
		case ir.BuiltinBinding:
			r.Builder.AddMemberDecorate(id, uint32(i), spirv.DecorationBuiltIn, uint32(irBuiltinToSPIRV(b.Builtin)))
		case ir.LocationBinding:
			r.Builder.AddMemberDecorate(id, uint32(i), spirv.DecorationLocation, b.Location)
		}
	}
	return id
}

func (r *ModuleResolver) emitScalar(t ir.ScalarType) uint32 {
	switch t.Kind {
	case ir.ScalarBool:
		return r.Builder.AddTypeBool()
	case ir.ScalarFloat:
		return r.Builder.AddTypeFloat(uint32(t.Width))
	case ir.ScalarSint:
		return r.Builder.AddTypeInt(uint32(t.Width), true)
	default: // ir.ScalarUint: Wasm integers are sign-agnostic at the type level
		return r.Builder.AddTypeInt(uint32(t.Width), false)
	}
}

// scalarTypeID returns the SPIR-V id of valType's scalar OpType,
// declaring and caching it on first use (every local of a given Wasm
// type shares one OpTypeInt/OpTypeFloat).
func (r *ModuleResolver) scalarTypeID(valType wasmfront.ValType) uint32 {
	if r.scalarCache == nil {
		r.scalarCache = make(map[wasmfront.ValType]uint32)
	}
	if id, ok := r.scalarCache[valType]; ok {
		return id
	}
	handle := r.MC.Types.GetOrCreate("", wasmScalarType(valType))
	id := r.typeID(handle)
	r.scalarCache[valType] = id
	return id
}

func wasmScalarType(valType wasmfront.ValType) ir.ScalarType {
	switch valType {
	case wasmfront.ValTypeI32:
		return ir.ScalarType{Kind: ir.ScalarUint, Width: 32}
	case wasmfront.ValTypeI64:
		return ir.ScalarType{Kind: ir.ScalarUint, Width: 64}
	case wasmfront.ValTypeF32:
		return ir.ScalarType{Kind: ir.ScalarFloat, Width: 32}
	case wasmfront.ValTypeF64:
		return ir.ScalarType{Kind: ir.ScalarFloat, Width: 64}
	default:
		panic("translate: unknown wasmfront.ValType")
	}
}

// constantID returns the SPIR-V id of an already-interned constant.
func (r *ModuleResolver) constantID(handle ir.ConstantHandle) uint32 {
	id, ok := r.Constants[handle]
	if !ok {
		panic("translate: unresolved constant handle")
	}
	return id
}

// globalID returns the SPIR-V id of a module-scope variable, emitting
// its OpVariable on the spot if the assembler hasn't already — mirrors
// typeID's lazy pattern, which a built-in's `Materialize` (first use
// from inside a function body, see resources/builtins.go) relies on:
// the ir.GlobalVariableHandle it allocates is brand new and has no
// SPIR-V id yet.
func (r *ModuleResolver) globalID(handle ir.GlobalVariableHandle) uint32 {
	if id, ok := r.Globals[handle]; ok {
		return id
	}
	gv, ok := r.MC.GlobalVariable(handle)
	if !ok {
		panic("translate: unresolved global variable handle")
	}
	id := r.emitGlobal(handle, gv)
	if r.Globals == nil {
		r.Globals = make(map[ir.GlobalVariableHandle]uint32)
	}
	r.Globals[handle] = id
	return id
}

// emitGlobal declares gv's OpVariable and applies its resource binding
// (DescriptorSet/Binding) and any decorations the type/resource layer
// already recorded against its handle (e.g. the BuiltIn decoration
// resources.BuiltinMaterializer adds alongside DeclareVariable).
func (r *ModuleResolver) emitGlobal(handle ir.GlobalVariableHandle, gv ir.GlobalVariable) uint32 {
	pointerType := r.ResolvePointerType(gv.Type, gv.Space)
	class := irStorageClassToSPIRV(gv.Space)

	var id uint32
	if gv.Init != nil {
		id = r.Builder.AddVariableWithInit(pointerType, class, r.ResolveConstant(*gv.Init))
	} else {
		id = r.Builder.AddVariable(pointerType, class)
	}

	if gv.Binding != nil {
		r.Builder.AddDecorate(id, spirv.DecorationDescriptorSet, gv.Binding.Group)
		r.Builder.AddDecorate(id, spirv.DecorationBinding, gv.Binding.Binding)
	}
	for _, e := range r.MC.Decorations.For(ir.DecorationTargetGlobal, uint32(handle)) {
		r.Builder.AddDecorate(id, spirv.Decoration(e.Decoration), e.Operands...)
	}
	return id
}

// functionID returns the pre-allocated SPIR-V id for a Wasm
// function-index-space index.
func (r *ModuleResolver) functionID(idx uint32) (uint32, error) {
	id, ok := r.Functions[idx]
	if !ok {
		return 0, errUnresolvedFunction
	}
	return id, nil
}

// elementPointerTypeID returns the SPIR-V id of a pointer to one
// element of a materialized runtime-array resource (Wasm linear memory
// or a DescriptorSetBinding-bound parameter buffer, both
// resources.LinearMemoryLayout) — the type every OpAccessChain into
// that resource must return, interned once and reused rather than
// emitting a fresh OpTypePointer at every access site.
func (r *ModuleResolver) elementPointerTypeID(layout resources.LinearMemoryLayout) uint32 {
	handle := r.MC.Types.GetOrCreate("", ir.PointerType{Base: layout.ElementType, Space: ir.StorageClassStorageBuffer})
	return r.typeID(handle)
}

// wasmGlobal resolves a Wasm global index to its SPIR-V variable id
// and Wasm-visible value type.
func (r *ModuleResolver) wasmGlobal(idx uint32) (spvID uint32, valType wasmfront.ValType, err error) {
	if int(idx) >= len(r.WasmGlobals) {
		return 0, 0, errUnresolvedGlobal
	}
	handle := r.WasmGlobals[idx]
	gv, ok := r.MC.GlobalVariable(handle)
	if !ok {
		return 0, 0, errUnresolvedGlobal
	}
	typ, ok := r.MC.Types.Lookup(gv.Type)
	if !ok {
		return 0, 0, errUnresolvedGlobal
	}
	scalar, ok := typ.Inner.(ir.ScalarType)
	if !ok {
		return 0, 0, errUnresolvedGlobal
	}
	return r.globalID(handle), scalarToValType(scalar), nil
}

func scalarToValType(s ir.ScalarType) wasmfront.ValType {
	if s.Kind == ir.ScalarFloat {
		if s.Width == 64 {
			return wasmfront.ValTypeF64
		}
		return wasmfront.ValTypeF32
	}
	if s.Width == 64 {
		return wasmfront.ValTypeI64
	}
	return wasmfront.ValTypeI32
}

// irStorageClassToSPIRV maps the ir package's StorageClass enum to
// spirv's, whose enumerant values do not line up with ir's (ir packs
// Function after PushConstant/Private where SPIR-V's own binary
// encoding interleaves Uniform/Output differently) — the same
// table-driven conversion the teacher keeps as addressSpaceToStorageClass
// rather than ever relying on a numeric cast between the two.
func irStorageClassToSPIRV(class ir.StorageClass) spirv.StorageClass {
	switch class {
	case ir.StorageClassUniformConstant:
		return spirv.StorageClassUniformConstant
	case ir.StorageClassInput:
		return spirv.StorageClassInput
	case ir.StorageClassOutput:
		return spirv.StorageClassOutput
	case ir.StorageClassStorageBuffer:
		return spirv.StorageClassStorageBuffer
	case ir.StorageClassUniform:
		return spirv.StorageClassUniform
	case ir.StorageClassWorkgroup:
		return spirv.StorageClassWorkgroup
	case ir.StorageClassPushConstant:
		return spirv.StorageClassPushConstant
	case ir.StorageClassPrivate:
		return spirv.StorageClassPrivate
	case ir.StorageClassFunction:
		return spirv.StorageClassFunction
	case ir.StorageClassGeneric:
		return spirv.StorageClassGeneric
	case ir.StorageClassImage:
		return spirv.StorageClassImage
	case ir.StorageClassPhysicalStorageBuffer:
		return spirv.StorageClassPhysicalStorageBuffer
	default:
		panic("translate: unknown ir.StorageClass")
	}
}

// ResolveType is typeID's exported form, for the Module Assembler (a
// separate package, since `translate` cannot import it without a
// cycle) to declare module-scope types ahead of any function body
// using the same recursive, deduplicating emission logic the
// translator itself falls back on.
func (r *ModuleResolver) ResolveType(handle ir.TypeHandle) uint32 {
	return r.typeID(handle)
}

// ResolveGlobal is globalID's exported form, for the assembler's
// entry-point trampolines: every trampoline argument sourced from a
// module-scope variable (a parameter's bound buffer, the shared
// push-constant block, a built-in Input) resolves through the same
// lazy-declare-on-miss path a function body itself uses.
func (r *ModuleResolver) ResolveGlobal(handle ir.GlobalVariableHandle) uint32 {
	return r.globalID(handle)
}

// ResolvePointerType interns pointer(space, base) through the type
// registry, exported for the assembler's global-variable declaration
// pass (every OpVariable's type is a pointer to its pointee type).
func (r *ModuleResolver) ResolvePointerType(base ir.TypeHandle, space ir.StorageClass) uint32 {
	handle := r.MC.Types.GetOrCreate("", ir.PointerType{Base: base, Space: space})
	return r.typeID(handle)
}

// WasmScalarTypeHandle interns valType's ir.ScalarType and returns its
// handle, for the assembler's Wasm-global declaration pass (ParamConfig
// already carries its own ir.TypeHandle; a Wasm global section entry
// only has a wasmfront.ValType to start from).
func (r *ModuleResolver) WasmScalarTypeHandle(valType wasmfront.ValType) ir.TypeHandle {
	return r.MC.Types.GetOrCreate("", wasmScalarType(valType))
}

// ScalarTypeID is scalarTypeID's exported form, for the assembler's
// entry-point trampolines (spec §4.5), which declare ordinary Wasm
// scalar OpFunctionParameters the same way a module-defined function's
// own translation does.
func (r *ModuleResolver) ScalarTypeID(valType wasmfront.ValType) uint32 {
	return r.scalarTypeID(valType)
}

// ResolveConstant returns the SPIR-V id of an interned ir.Constant,
// emitting its OpConstant/OpConstantComposite on first use. Function
// bodies lower Wasm const operators straight to spirv.AddConstant
// (numeric.go), bypassing the registry entirely; the registered
// constants resolved here are the initializers of Wasm module-defined
// globals (emitGlobal).
func (r *ModuleResolver) ResolveConstant(handle ir.ConstantHandle) uint32 {
	if id, ok := r.Constants[handle]; ok {
		return id
	}
	c, ok := r.MC.Constants.Lookup(handle)
	if !ok {
		panic("translate: unresolved constant handle")
	}
	id := r.emitConstant(c)
	if r.Constants == nil {
		r.Constants = make(map[ir.ConstantHandle]uint32)
	}
	r.Constants[handle] = id
	return id
}

func (r *ModuleResolver) emitConstant(c ir.Constant) uint32 {
	typeID := r.typeID(c.Type)
	switch v := c.Value.(type) {
	case ir.ScalarValue:
		if r.is64BitType(c.Type) {
			return r.Builder.AddConstant(typeID, uint32(v.Bits), uint32(v.Bits>>32))
		}
		return r.Builder.AddConstant(typeID, uint32(v.Bits))
	case ir.CompositeValue:
		components := make([]uint32, len(v.Components))
		for i, comp := range v.Components {
			components[i] = r.ResolveConstant(comp)
		}
		return r.Builder.AddConstantComposite(typeID, components...)
	default:
		panic("translate: emitConstant does not support this constant value kind")
	}
}

func (r *ModuleResolver) is64BitType(handle ir.TypeHandle) bool {
	typ, ok := r.MC.Types.Lookup(handle)
	if !ok {
		return false
	}
	scalar, ok := typ.Inner.(ir.ScalarType)
	return ok && scalar.Width == 64
}

// StorageClassToSPIRV is irStorageClassToSPIRV's exported form, for
// the assembler's global-variable declaration pass.
func StorageClassToSPIRV(class ir.StorageClass) spirv.StorageClass {
	return irStorageClassToSPIRV(class)
}

// AddressingModelToSPIRV maps the ir package's addressing model to
// spirv's OpMemoryModel operand. ir.AddressingPhysicalStorageBuffer has
// no entry in spirv.AddressingModel (the teacher's WGSL-only backend
// never targeted it) — its real SPIR-V value, PhysicalStorageBuffer64,
// is 5348; used as a literal cast here rather than adding a constant
// to spirv.go for a single call site.
func AddressingModelToSPIRV(model ir.AddressingModel) spirv.AddressingModel {
	switch model {
	case ir.AddressingLogical:
		return spirv.AddressingModelLogical
	case ir.AddressingPhysical:
		return spirv.AddressingModelPhysical32
	case ir.AddressingPhysicalStorageBuffer:
		return spirv.AddressingModel(5348)
	default:
		panic("translate: unknown ir.AddressingModel")
	}
}

// MemoryModelToSPIRV maps the ir package's memory model enum to
// spirv's OpMemoryModel operand — the two enumerations happen to share
// numeric order today, but this translates by name rather than cast so
// a future divergence fails loudly instead of silently mis-encoding.
func MemoryModelToSPIRV(model ir.MemoryModel) spirv.MemoryModel {
	switch model {
	case ir.MemoryModelSimple:
		return spirv.MemoryModelSimple
	case ir.MemoryModelGLSL450:
		return spirv.MemoryModelGLSL450
	case ir.MemoryModelOpenCL:
		return spirv.MemoryModelOpenCL
	case ir.MemoryModelVulkan:
		return spirv.MemoryModelVulkan
	default:
		panic("translate: unknown ir.MemoryModel")
	}
}

// irBuiltinToSPIRV maps the ir package's internal, sequential
// BuiltinValue enumerant to the real SPIR-V BuiltIn decoration operand.
// The two numberings are unrelated (ir's is a dense 0-based index over
// the built-ins this translator recognizes; SPIR-V's is the fixed
// numbering the spec assigns each built-in), so this table, not a cast,
// is the only correct conversion — mirrors the teacher's builtinToSPIRV.
func irBuiltinToSPIRV(b ir.BuiltinValue) spirv.BuiltIn {
	switch b {
	case ir.BuiltinPosition:
		return spirv.BuiltInPosition
	case ir.BuiltinVertexIndex:
		return spirv.BuiltInVertexIndex
	case ir.BuiltinInstanceIndex:
		return spirv.BuiltInInstanceIndex
	case ir.BuiltinFrontFacing:
		return spirv.BuiltInFrontFacing
	case ir.BuiltinFragDepth:
		return spirv.BuiltInFragDepth
	case ir.BuiltinSampleIndex:
		return spirv.BuiltInSampleID
	case ir.BuiltinSampleMask:
		return spirv.BuiltInSampleMask
	case ir.BuiltinLocalInvocationID:
		return spirv.BuiltInLocalInvocationID
	case ir.BuiltinLocalInvocationIndex:
		return spirv.BuiltInLocalInvocationIndex
	case ir.BuiltinGlobalInvocationID:
		return spirv.BuiltInGlobalInvocationID
	case ir.BuiltinWorkGroupID:
		return spirv.BuiltInWorkgroupID
	case ir.BuiltinNumWorkGroups:
		return spirv.BuiltInNumWorkgroups
	default:
		panic("translate: unknown ir.BuiltinValue")
	}
}
