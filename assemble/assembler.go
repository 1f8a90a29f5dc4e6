// Package assemble implements the Module Assembler (spec.md §4.5): the
// driver that wires the Type & Capability Registry, the Memory &
// Resource Model, and the Function Translator into one SPIR-V module.
//
// It owns the parts of a compilation the Function Translator never
// sees on its own — materializing the resources a configured
// parameter binds to before any function body references them, and
// building each entry point's zero-argument trampoline, the function
// OpEntryPoint actually names, which loads or derives every argument
// from its configured binding and calls the real, ordinarily-scalar-
// signatured function.
package assemble

import (
	"fmt"
	"sort"

	"github.com/gogpu/wasm2spirv/config"
	"github.com/gogpu/wasm2spirv/ir"
	"github.com/gogpu/wasm2spirv/resources"
	"github.com/gogpu/wasm2spirv/spirv"
	"github.com/gogpu/wasm2spirv/translate"
	"github.com/gogpu/wasm2spirv/wasmfront"
)

// Compile translates module under cfg into a serialized SPIR-V binary.
func Compile(module *wasmfront.Module, cfg config.Config) ([]byte, error) {
	mc := ir.NewModuleContext(cfg.Addressing, cfg.Memory, cfg.Target, cfg.Capabilities, cfg.Extensions)
	builder := spirv.NewModuleBuilder(spirv.Version{Major: cfg.Target.VersionMajor, Minor: cfg.Target.VersionMinor})

	resolver := &translate.ModuleResolver{
		MC:        mc,
		Builder:   builder,
		Functions: make(map[uint32]uint32),
		Builtins:  resources.NewBuiltinMaterializer(mc),
	}

	a := &assembler{
		module:          module,
		cfg:             cfg,
		mc:              mc,
		builder:         builder,
		resolver:        resolver,
		paramResources:  make(map[uint32]map[uint32]resources.LinearMemoryLayout),
		pushConstants:   resources.NewPushConstantBuilder(),
		entryInterfaces: make(map[uint32][]ir.GlobalVariableHandle),
	}
	out, err := a.compile()
	mc.Freeze()
	return out, err
}

type assembler struct {
	module   *wasmfront.Module
	cfg      config.Config
	mc       *ir.ModuleContext
	builder  *spirv.ModuleBuilder
	resolver *translate.ModuleResolver

	// paramResources[funcIdx][paramIdx] is the materialized buffer
	// backing a DescriptorSetBinding-configured parameter — threaded
	// into the Function Translator for dual-slot (Schrödinger) params
	// and read again here for the trampoline's own loads.
	paramResources map[uint32]map[uint32]resources.LinearMemoryLayout

	pushConstants    *resources.PushConstantBuilder
	pushLayout       resources.PushConstantLayout
	hasPushConstants bool

	// entryInterfaces[funcIdx] is the built-in variable log drained
	// immediately after translating funcIdx's real function body —
	// the OpEntryPoint interface list only needs what that function
	// actually read (spec.md's S1: exactly GlobalInvocationId and
	// NumWorkGroups, not every built-in the module ever touches).
	entryInterfaces map[uint32][]ir.GlobalVariableHandle
}

func (a *assembler) compile() ([]byte, error) {
	if err := a.requireCapabilities(); err != nil {
		return nil, err
	}
	a.resolver.GLSLExtSet = a.builder.AddExtInstImport("GLSL.std.450")
	a.builder.SetMemoryModel(translate.AddressingModelToSPIRV(a.cfg.Addressing), translate.MemoryModelToSPIRV(a.cfg.Memory))

	if a.module.Memory != nil {
		a.materializeLinearMemory()
	}
	if err := a.materializeParamResources(); err != nil {
		return nil, err
	}
	if !a.pushConstants.Empty() {
		a.pushLayout = a.pushConstants.MaterializeBlock(a.mc)
		a.hasPushConstants = true
	}
	if err := a.materializeWasmGlobals(); err != nil {
		return nil, err
	}
	a.allocateFunctionIDs()
	if err := a.translateFunctions(); err != nil {
		return nil, err
	}
	if err := a.emitEntryPoints(); err != nil {
		return nil, err
	}

	for _, cap := range sortedUint32(a.mc.Capabilities()) {
		a.builder.AddCapability(spirv.Capability(cap))
	}
	for _, ext := range sortedStrings(a.mc.Extensions()) {
		a.builder.AddExtension(ext)
	}

	return a.builder.Build(), nil
}

// requireCapabilities records the capabilities this compilation always
// needs (Shader) plus the ones its configuration demands
// (VariablePointersStorageBuffer for any Schrödinger dual-slot param).
func (a *assembler) requireCapabilities() error {
	if err := a.mc.RequireCapability(uint32(spirv.CapabilityShader)); err != nil {
		return translate.NewError(translate.ErrConfigError, 0, -1, err.Error())
	}
	for _, fcfg := range a.cfg.Functions {
		for _, p := range fcfg.Params {
			if _, ok := p.Kind.(config.DescriptorSetBinding); !ok || p.PointerSize != config.PointerThin {
				continue
			}
			if err := a.mc.RequireCapability(uint32(spirv.CapabilityVariablePointersStorageBuffer)); err != nil {
				return translate.NewError(translate.ErrConfigError, 0, -1, err.Error())
			}
		}
	}
	return nil
}

// materializeLinearMemory declares the storage-buffer resource backing
// the Wasm module's own linear memory, at the caller-chosen binding
// (spec.md §4.2). Resolver.Memory is left zero-valued when the module
// declares no memory at all, which memory.go's helpers already treat
// as "no linear memory configured".
func (a *assembler) materializeLinearMemory() {
	desc := ir.LinearMemoryDescriptor{
		InitialPages:  a.module.Memory.Min,
		MaxPages:      a.module.Memory.Max,
		ByteAddressed: a.cfg.LinearMemoryByteAddressed,
	}
	a.mc.LinearMemory = &desc
	a.resolver.Memory = resources.MaterializeLinearMemory(a.mc, desc, ir.ResourceBinding{
		Group:   a.cfg.LinearMemoryBinding.Group,
		Binding: a.cfg.LinearMemoryBinding.Binding,
	})
}

// materializeParamResources walks every configured function's
// parameters, declaring each DescriptorSetBinding param's own bound
// buffer and accumulating every PushConstantBinding param's offset —
// both ahead of any function body translation, since a dual-slot
// parameter and a push-constant load both need their resource to
// already exist by the time Translate() runs.
func (a *assembler) materializeParamResources() error {
	for _, funcIdx := range sortedFuncIndices(a.cfg.Functions) {
		fcfg := a.cfg.Functions[funcIdx]
		for _, paramIdx := range sortedParamIndices(fcfg.Params) {
			p := fcfg.Params[paramIdx]
			switch kind := p.Kind.(type) {
			case config.DescriptorSetBinding:
				elemType := a.mc.Types.GetOrCreate("", p.Type)
				stride := uint32(p.Type.Width) / 8
				if stride == 0 {
					stride = 4
				}
				layout := resources.MaterializeStorageBuffer(a.mc, elemType, stride, kind.StorageClass, ir.ResourceBinding{
					Group:   kind.Set,
					Binding: kind.Binding,
				})
				if a.paramResources[funcIdx] == nil {
					a.paramResources[funcIdx] = make(map[uint32]resources.LinearMemoryLayout)
				}
				a.paramResources[funcIdx][paramIdx] = layout
			case config.PushConstantBinding:
				elemType := a.mc.Types.GetOrCreate("", p.Type)
				a.pushConstants.Add(kind.Offset, elemType)
			case config.BuiltinBinding, config.InlineBinding:
				// materialized lazily (built-ins) or not at all (inline).
			default:
				return translate.NewError(translate.ErrConfigError, funcIdx, -1, "unrecognized ParamKind")
			}
		}
	}
	return nil
}

// invalidGlobalHandle never indexes a real ModuleContext.globals entry
// (the registry's handles are dense and zero-based), so a Wasm
// global.get/global.set against it fails resolution the same way an
// unresolved index does rather than silently aliasing global 0.
const invalidGlobalHandle = ir.GlobalVariableHandle(^uint32(0))

// materializeWasmGlobals declares one Private-class OpVariable per
// Wasm global-section entry, in the module's own global index space —
// global.get/global.set (translate/numeric.go) resolve through
// ModuleResolver.WasmGlobals by that same index. A true ExternKindGlobal
// import (the wasmfront decoder's Import type has no payload for one,
// per its own doc: Table/Global imports are "otherwise inert") occupies
// an index slot but never resolves; this translator's only supported
// imports are spir_global.* built-ins (function imports, see calls.go)
// and the module's own linear memory.
func (a *assembler) materializeWasmGlobals() error {
	importedGlobals := 0
	for _, imp := range a.module.Imports {
		if imp.Kind == wasmfront.ExternKindGlobal {
			importedGlobals++
		}
	}

	handles := make([]ir.GlobalVariableHandle, importedGlobals, importedGlobals+len(a.module.Globals))
	for i := range handles {
		handles[i] = invalidGlobalHandle
	}

	for i, g := range a.module.Globals {
		typeHandle := a.resolver.WasmScalarTypeHandle(g.Type)
		initHandle, err := a.constExprConstant(g.Type, g.Init)
		if err != nil {
			return translate.NewError(translate.ErrConfigError, 0, -1, err.Error())
		}
		handle := a.mc.DeclareVariable(ir.GlobalVariable{
			Name:  fmt.Sprintf("global_%d", i),
			Space: ir.StorageClassPrivate,
			Type:  typeHandle,
			Init:  &initHandle,
		})
		handles = append(handles, handle)
	}
	a.resolver.WasmGlobals = handles
	return nil
}

// constExprConstant lowers a Wasm MVP constant-expression initializer
// to an interned ir.Constant. global.get initializers (one global's
// init reading another) are outside the Wasm MVP import surface this
// translator otherwise supports and are rejected as a config error.
func (a *assembler) constExprConstant(valType wasmfront.ValType, init wasmfront.ConstExpr) (ir.ConstantHandle, error) {
	typeHandle := a.resolver.WasmScalarTypeHandle(valType)
	var bits uint64
	switch {
	case init.I32Const != nil:
		bits = uint64(uint32(*init.I32Const))
	case init.I64Const != nil:
		bits = uint64(*init.I64Const)
	case init.F32ConstHex != nil:
		bits = uint64(*init.F32ConstHex)
	case init.F64ConstHex != nil:
		bits = *init.F64ConstHex
	default:
		return 0, fmt.Errorf("global.get initializer expressions are not supported")
	}
	typ, _ := a.mc.Types.Lookup(typeHandle)
	scalar := typ.Inner.(ir.ScalarType)
	return a.mc.Constants.GetOrCreate("", typeHandle, ir.ScalarValue{Bits: bits, Kind: scalar.Kind}), nil
}

// allocateFunctionIDs pre-assigns every module-defined function's
// SPIR-V id before any body is translated, so a call to a
// forward-declared function (one defined later in the Wasm function
// index space) resolves during emission of the earlier one.
func (a *assembler) allocateFunctionIDs() {
	importCount := uint32(a.module.ImportedFunctionCount())
	for i := range a.module.Functions {
		funcIdx := importCount + uint32(i)
		a.resolver.Functions[funcIdx] = a.builder.AllocID()
	}
}

// translateFunctions runs the Function Translator over every
// module-defined function body, in function-index-space order.
func (a *assembler) translateFunctions() error {
	importCount := uint32(a.module.ImportedFunctionCount())
	for i, code := range a.module.Code {
		funcIdx := importCount + uint32(i)
		sig, ok := a.module.FunctionSignature(funcIdx)
		if !ok {
			return translate.NewError(translate.ErrConfigError, funcIdx, -1, "function index has no signature")
		}
		fcfg, hasCfg := a.cfg.Functions[funcIdx]
		ft := translate.NewFunctionTranslator(
			a.builder, a.resolver, a.module, funcIdx, sig, code,
			fcfg, hasCfg, a.cfg.MemoryGrowErrorKind, a.paramResources[funcIdx],
		)
		if _, err := ft.Translate(); err != nil {
			return err
		}
		if hasCfg {
			a.entryInterfaces[funcIdx] = a.resolver.Builtins.DrainUsed()
		}
	}
	return nil
}

// emitEntryPoints builds each configured function's zero-argument
// trampoline and its OpEntryPoint/OpExecutionMode records, visiting
// function indices in ascending order for deterministic output
// (Testable Property 1).
func (a *assembler) emitEntryPoints() error {
	for _, funcIdx := range sortedFuncIndices(a.cfg.Functions) {
		fcfg := a.cfg.Functions[funcIdx]
		sig, ok := a.module.FunctionSignature(funcIdx)
		if !ok {
			return translate.NewError(translate.ErrConfigError, funcIdx, -1, "entry point function index has no signature")
		}
		calleeID, ok := a.resolver.Functions[funcIdx]
		if !ok {
			return translate.NewError(translate.ErrConfigError, funcIdx, -1, "entry point function index was never translated")
		}

		trampolineID, extra, err := a.buildTrampoline(funcIdx, fcfg, sig, calleeID)
		if err != nil {
			return err
		}

		handles := append(append([]ir.GlobalVariableHandle{}, a.entryInterfaces[funcIdx]...), extra...)
		interfaces := a.dedupeInterfaceIDs(handles)

		execModel := executionModelToSPIRV(fcfg.ExecutionModel)
		a.builder.AddEntryPoint(execModel, trampolineID, a.entryName(funcIdx), interfaces)
		for _, mode := range fcfg.ExecutionModes {
			emitExecutionMode(a.builder, trampolineID, mode)
		}
	}
	return nil
}

// entryName resolves funcIdx's export name, falling back to "main"
// when the Wasm module never exports it (a caller-driven entry point
// with no corresponding export is still legal configuration input).
func (a *assembler) entryName(funcIdx uint32) string {
	for _, e := range a.module.Exports {
		if e.Kind == wasmfront.ExternKindFunc && e.Index == funcIdx {
			return e.Name
		}
	}
	return "main"
}

func (a *assembler) dedupeInterfaceIDs(handles []ir.GlobalVariableHandle) []uint32 {
	seen := make(map[uint32]bool, len(handles))
	out := make([]uint32, 0, len(handles))
	for _, h := range handles {
		id := a.resolver.ResolveGlobal(h)
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// buildTrampoline declares the zero-argument function OpEntryPoint
// actually names: it loads or derives every real argument from its
// ParamConfig binding, calls the real (ordinarily-scalar-signatured)
// function, and returns. Any built-in Input variable it reads along
// the way is reported back as an addition to the entry point's
// interface list.
func (a *assembler) buildTrampoline(funcIdx uint32, fcfg config.FunctionConfig, sig wasmfront.FunctionType, calleeID uint32) (uint32, []ir.GlobalVariableHandle, error) {
	voidType := a.builder.AddTypeVoid()
	voidFuncType := a.builder.AddTypeFunction(voidType)
	trampolineID := a.builder.AddFunction(voidFuncType, voidType, spirv.FunctionControlNone)
	a.builder.AddLabel()

	var interfaces []ir.GlobalVariableHandle
	args := make([]uint32, len(sig.Params))
	for i, paramType := range sig.Params {
		p, ok := fcfg.Params[uint32(i)]
		if !ok {
			args[i] = a.zeroConst(paramType)
			continue
		}
		switch kind := p.Kind.(type) {
		case config.DescriptorSetBinding:
			if p.PointerSize == config.PointerThin {
				args[i] = a.zeroConst(paramType)
				continue
			}
			layout := a.paramResources[funcIdx][uint32(i)]
			args[i] = a.loadStorageBufferScalar(layout, paramType)
		case config.PushConstantBinding:
			id, err := a.loadPushConstantScalar(kind.Offset, paramType)
			if err != nil {
				return 0, nil, translate.NewError(translate.ErrConfigError, funcIdx, -1, err.Error())
			}
			args[i] = id
		case config.BuiltinBinding:
			id, variable, err := a.loadBuiltinScalar(kind.Builtin, paramType)
			if err != nil {
				return 0, nil, translate.NewError(translate.ErrConfigError, funcIdx, -1, err.Error())
			}
			args[i] = id
			interfaces = append(interfaces, variable)
		default: // InlineBinding, or a binding the trampoline has no slot for.
			args[i] = a.zeroConst(paramType)
		}
	}

	resultType := a.builder.AddTypeVoid()
	a.builder.AddFunctionCall(resultType, calleeID, args...)
	a.builder.AddReturn()
	a.builder.AddFunctionEnd()
	return trampolineID, interfaces, nil
}

func (a *assembler) zeroConst(valType wasmfront.ValType) uint32 {
	typeID := a.resolver.ScalarTypeID(valType)
	switch valType {
	case wasmfront.ValTypeI64:
		return a.builder.AddConstant(typeID, 0, 0)
	case wasmfront.ValTypeF32:
		return a.builder.AddConstantFloat32(typeID, 0)
	case wasmfront.ValTypeF64:
		return a.builder.AddConstantFloat64(typeID, 0)
	default:
		return a.builder.AddConstant(typeID, 0)
	}
}

// loadStorageBufferScalar reads element 0 of a PointerFat-bound
// parameter's own one-element buffer — the "eager dereference at the
// trampoline boundary" reading of PointerFat: the real function body
// never sees anything but an ordinary scalar parameter.
func (a *assembler) loadStorageBufferScalar(layout resources.LinearMemoryLayout, valType wasmfront.ValType) uint32 {
	i32Type := a.resolver.ScalarTypeID(wasmfront.ValTypeI32)
	zero := a.builder.AddConstant(i32Type, 0)
	pointerType := a.resolver.ResolvePointerType(layout.ElementType, ir.StorageClassStorageBuffer)
	base := a.resolver.ResolveGlobal(layout.Variable)
	ptr := a.builder.AddAccessChain(pointerType, base, zero, zero)
	resultType := a.resolver.ScalarTypeID(valType)
	return a.builder.AddLoad(resultType, ptr)
}

func (a *assembler) loadPushConstantScalar(offset uint32, valType wasmfront.ValType) (uint32, error) {
	memberIdx, ok := a.pushLayout.MemberIndex[offset]
	if !ok {
		return 0, fmt.Errorf("push-constant offset %d has no materialized member", offset)
	}
	structType, ok := a.mc.Types.Lookup(a.pushLayout.StructType)
	if !ok {
		return 0, fmt.Errorf("push-constant block type is unresolved")
	}
	memberType := structType.Inner.(ir.StructType).Members[memberIdx].Type

	i32Type := a.resolver.ScalarTypeID(wasmfront.ValTypeI32)
	memberConst := a.builder.AddConstant(i32Type, memberIdx)
	pointerType := a.resolver.ResolvePointerType(memberType, ir.StorageClassPushConstant)
	base := a.resolver.ResolveGlobal(a.pushLayout.Variable)
	ptr := a.builder.AddAccessChain(pointerType, base, memberConst)
	resultType := a.resolver.ScalarTypeID(valType)
	return a.builder.AddLoad(resultType, ptr), nil
}

// loadBuiltinScalar reads a whole-value built-in's Input variable.
// Vector built-ins (GlobalInvocationId, NumWorkGroups, ...) have no
// single-scalar Wasm parameter representation and are rejected here —
// a lane must instead be read via the spir_global.<builtin>_x-style
// pseudo-function-import call convention (translate/calls.go) inside
// the function body, not through a BuiltinBinding parameter.
func (a *assembler) loadBuiltinScalar(b ir.BuiltinValue, _ wasmfront.ValType) (uint32, ir.GlobalVariableHandle, error) {
	desc, ok := resources.DescribeBuiltin(b)
	if !ok {
		return 0, 0, fmt.Errorf("unknown built-in value %d", b)
	}
	if desc.VectorWidth > 1 {
		return 0, 0, fmt.Errorf("built-in %d is vector-valued; read a lane via spir_global.* inside the function body instead of a parameter binding", b)
	}
	variable, valueType := a.resolver.Builtins.Materialize(desc)
	vectorTypeID := a.resolver.ResolveType(valueType)
	base := a.resolver.ResolveGlobal(variable)
	loaded := a.builder.AddLoad(vectorTypeID, base)
	return loaded, variable, nil
}

// sortedFuncIndices and sortedParamIndices give deterministic
// iteration order over config.Config's maps: the config format is a
// JSON object (spec.md §6) decoded into Go maps, which iterate in
// randomized order, but id allocation order is observable in the
// final module (Testable Property 1 requires it reproducible).
func sortedFuncIndices(m map[uint32]config.FunctionConfig) []uint32 {
	out := make([]uint32, 0, len(m))
	for idx := range m {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedParamIndices(m map[uint32]config.ParamConfig) []uint32 {
	out := make([]uint32, 0, len(m))
	for idx := range m {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedUint32(in []uint32) []uint32 {
	out := append([]uint32{}, in...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedStrings(in []string) []string {
	out := append([]string{}, in...)
	sort.Strings(out)
	return out
}
