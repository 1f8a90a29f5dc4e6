package translate

import (
	"testing"

	"github.com/gogpu/wasm2spirv/config"
	"github.com/gogpu/wasm2spirv/ir"
	"github.com/gogpu/wasm2spirv/resources"
	"github.com/gogpu/wasm2spirv/spirv"
	"github.com/gogpu/wasm2spirv/wasmfront"
)

func newTestResolver() (*ModuleResolver, *spirv.ModuleBuilder) {
	mc := ir.NewModuleContext(
		ir.AddressingLogical, ir.MemoryModelGLSL450,
		ir.Target{Platform: ir.PlatformVulkan, VersionMajor: 1, VersionMinor: 3},
		ir.NewDynamicCapabilityPolicy(),
		ir.ExtensionPolicy{Kind: ir.ExtensionDynamic, Set: map[string]bool{}},
	)
	builder := spirv.NewModuleBuilder(spirv.Version{Major: 1, Minor: 3})
	r := &ModuleResolver{
		MC:        mc,
		Builder:   builder,
		Functions: make(map[uint32]uint32),
		Builtins:  resources.NewBuiltinMaterializer(mc),
	}
	return r, builder
}

// translateBody runs one standalone function (no entry-point config)
// through the Function Translator and fails the test on any error.
func translateBody(t *testing.T, sig wasmfront.FunctionType, body []byte) {
	t.Helper()
	resolver, builder := newTestResolver()
	module := &wasmfront.Module{
		Types:     []wasmfront.FunctionType{sig},
		Functions: []wasmfront.Index{0},
		Code:      []wasmfront.Code{{Body: body}},
	}
	resolver.Functions[0] = builder.AllocID()

	ft := NewFunctionTranslator(builder, resolver, module, 0, sig, module.Code[0], config.FunctionConfig{}, false, config.MemoryGrowSoft, nil)
	if _, err := ft.Translate(); err != nil {
		t.Fatalf("unexpected translate error: %v", err)
	}
	if len(builder.Build()) == 0 {
		t.Fatal("expected a non-empty assembled module")
	}
}

func TestFunctionTranslator_BinaryOpOnParams(t *testing.T) {
	sig := wasmfront.FunctionType{
		Params:  []wasmfront.ValType{wasmfront.ValTypeI32, wasmfront.ValTypeI32},
		Results: []wasmfront.ValType{wasmfront.ValTypeI32},
	}
	body := []byte{
		byte(wasmfront.OpLocalGet), 0x00,
		byte(wasmfront.OpLocalGet), 0x01,
		byte(wasmfront.OpI32Add),
		byte(wasmfront.OpEnd),
	}
	translateBody(t, sig, body)
}

func TestFunctionTranslator_FloatArithmetic(t *testing.T) {
	sig := wasmfront.FunctionType{
		Params:  []wasmfront.ValType{wasmfront.ValTypeF32, wasmfront.ValTypeF32, wasmfront.ValTypeF32},
		Results: []wasmfront.ValType{wasmfront.ValTypeF32},
	}
	// y + alpha*x, the saxpy scenario's inner expression.
	body := []byte{
		byte(wasmfront.OpLocalGet), 0x00, // y
		byte(wasmfront.OpLocalGet), 0x01, // alpha
		byte(wasmfront.OpLocalGet), 0x02, // x
		byte(wasmfront.OpF32Mul),
		byte(wasmfront.OpF32Add),
		byte(wasmfront.OpEnd),
	}
	translateBody(t, sig, body)
}

func TestFunctionTranslator_IfElseSelectsBranch(t *testing.T) {
	sig := wasmfront.FunctionType{
		Params:  []wasmfront.ValType{wasmfront.ValTypeI32, wasmfront.ValTypeI32},
		Results: []wasmfront.ValType{wasmfront.ValTypeI32},
	}
	// max(a, b): a > b ? a : b
	body := []byte{
		byte(wasmfront.OpLocalGet), 0x00,
		byte(wasmfront.OpLocalGet), 0x01,
		byte(wasmfront.OpI32GtS),
		byte(wasmfront.OpIf), 0x7F, // blocktype i32
		byte(wasmfront.OpLocalGet), 0x00,
		byte(wasmfront.OpElse),
		byte(wasmfront.OpLocalGet), 0x01,
		byte(wasmfront.OpEnd), // end if
		byte(wasmfront.OpEnd), // end function
	}
	translateBody(t, sig, body)
}

func TestFunctionTranslator_LoopWithBranch(t *testing.T) {
	sig := wasmfront.FunctionType{
		Params: []wasmfront.ValType{wasmfront.ValTypeI32},
	}
	// loop { local.get 0; br_if 0 }
	body := []byte{
		byte(wasmfront.OpLoop), 0x40, // blocktype empty
		byte(wasmfront.OpLocalGet), 0x00,
		byte(wasmfront.OpBrIf), 0x00,
		byte(wasmfront.OpEnd), // end loop
		byte(wasmfront.OpEnd), // end function
	}
	translateBody(t, sig, body)
}

func TestFunctionTranslator_SchrodingerParamLoadsThroughBoundBuffer(t *testing.T) {
	resolver, builder := newTestResolver()
	elemType := resolver.MC.Types.GetOrCreate("", ir.ScalarType{Kind: ir.ScalarUint, Width: 32})
	layout := resources.MaterializeStorageBuffer(resolver.MC, elemType, 4, ir.StorageClassStorageBuffer, ir.ResourceBinding{Group: 0, Binding: 0})

	sig := wasmfront.FunctionType{Params: []wasmfront.ValType{wasmfront.ValTypeI32}}
	module := &wasmfront.Module{
		Types:     []wasmfront.FunctionType{sig},
		Functions: []wasmfront.Index{0},
		Code:      []wasmfront.Code{{Body: nil}},
	}
	// local.get 0; i32.load align=2 offset=0; drop; end
	body := []byte{
		byte(wasmfront.OpLocalGet), 0x00,
		byte(wasmfront.OpI32Load), 0x02, 0x00,
		byte(wasmfront.OpDrop),
		byte(wasmfront.OpEnd),
	}
	module.Code[0] = wasmfront.Code{Body: body}
	resolver.Functions[0] = builder.AllocID()

	cfg := config.FunctionConfig{
		ExecutionModel: config.ExecutionModelGLCompute,
		Params: map[uint32]config.ParamConfig{
			0: {
				Type:        ir.ScalarType{Kind: ir.ScalarUint, Width: 32},
				Kind:        config.DescriptorSetBinding{Set: 0, Binding: 0, StorageClass: ir.StorageClassStorageBuffer},
				PointerSize: config.PointerThin,
			},
		},
	}
	paramResources := map[uint32]resources.LinearMemoryLayout{0: layout}

	ft := NewFunctionTranslator(builder, resolver, module, 0, sig, module.Code[0], cfg, true, config.MemoryGrowSoft, paramResources)
	if _, err := ft.Translate(); err != nil {
		t.Fatalf("unexpected translate error: %v", err)
	}
}

func TestFunctionTranslator_GlobalGetSetRoundTrip(t *testing.T) {
	resolver, builder := newTestResolver()
	scalarHandle := resolver.MC.Types.GetOrCreate("", ir.ScalarType{Kind: ir.ScalarUint, Width: 32})
	globalHandle := resolver.MC.DeclareVariable(ir.GlobalVariable{
		Name:  "counter",
		Space: ir.StorageClassPrivate,
		Type:  scalarHandle,
	})
	resolver.WasmGlobals = []ir.GlobalVariableHandle{globalHandle}

	sig := wasmfront.FunctionType{Params: []wasmfront.ValType{wasmfront.ValTypeI32}}
	module := &wasmfront.Module{
		Types:     []wasmfront.FunctionType{sig},
		Functions: []wasmfront.Index{0},
	}
	// global.set 0 (local 0); global.get 0; drop; end
	body := []byte{
		byte(wasmfront.OpLocalGet), 0x00,
		byte(wasmfront.OpGlobalSet), 0x00,
		byte(wasmfront.OpGlobalGet), 0x00,
		byte(wasmfront.OpDrop),
		byte(wasmfront.OpEnd),
	}
	module.Code = []wasmfront.Code{{Body: body}}
	resolver.Functions[0] = builder.AllocID()

	ft := NewFunctionTranslator(builder, resolver, module, 0, sig, module.Code[0], config.FunctionConfig{}, false, config.MemoryGrowSoft, nil)
	if _, err := ft.Translate(); err != nil {
		t.Fatalf("unexpected translate error: %v", err)
	}
}

func TestFunctionTranslator_MemoryGrowSoftYieldsSentinel(t *testing.T) {
	resolver, builder := newTestResolver()
	sig := wasmfront.FunctionType{}
	module := &wasmfront.Module{
		Types:     []wasmfront.FunctionType{sig},
		Functions: []wasmfront.Index{0},
	}
	// i32.const 1; memory.grow (memidx 0); drop; end
	body := []byte{
		byte(wasmfront.OpI32Const), 0x01,
		byte(wasmfront.OpMemoryGrow), 0x00,
		byte(wasmfront.OpDrop),
		byte(wasmfront.OpEnd),
	}
	module.Code = []wasmfront.Code{{Body: body}}
	resolver.Functions[0] = builder.AllocID()

	ft := NewFunctionTranslator(builder, resolver, module, 0, sig, module.Code[0], config.FunctionConfig{}, false, config.MemoryGrowSoft, nil)
	if _, err := ft.Translate(); err != nil {
		t.Fatalf("unexpected translate error: %v", err)
	}
}

func TestFunctionTranslator_MemoryGrowHardRejected(t *testing.T) {
	resolver, builder := newTestResolver()
	sig := wasmfront.FunctionType{}
	module := &wasmfront.Module{
		Types:     []wasmfront.FunctionType{sig},
		Functions: []wasmfront.Index{0},
	}
	body := []byte{
		byte(wasmfront.OpI32Const), 0x01,
		byte(wasmfront.OpMemoryGrow), 0x00,
		byte(wasmfront.OpDrop),
		byte(wasmfront.OpEnd),
	}
	module.Code = []wasmfront.Code{{Body: body}}
	resolver.Functions[0] = builder.AllocID()

	ft := NewFunctionTranslator(builder, resolver, module, 0, sig, module.Code[0], config.FunctionConfig{}, false, config.MemoryGrowHard, nil)
	if _, err := ft.Translate(); err == nil {
		t.Error("expected memory.grow to be rejected under the Hard policy")
	}
}

func TestFunctionTranslator_DirectCallToAnotherFunction(t *testing.T) {
	resolver, builder := newTestResolver()
	callerSig := wasmfront.FunctionType{Results: []wasmfront.ValType{wasmfront.ValTypeI32}}
	calleeSig := wasmfront.FunctionType{Results: []wasmfront.ValType{wasmfront.ValTypeI32}}
	module := &wasmfront.Module{
		Types:     []wasmfront.FunctionType{callerSig, calleeSig},
		Functions: []wasmfront.Index{0, 1},
		Code: []wasmfront.Code{
			{Body: []byte{byte(wasmfront.OpCall), 0x01, byte(wasmfront.OpEnd)}},
			{Body: []byte{byte(wasmfront.OpI32Const), 0x2A, byte(wasmfront.OpEnd)}},
		},
	}
	resolver.Functions[0] = builder.AllocID()
	resolver.Functions[1] = builder.AllocID()

	// The callee is translated first here; the caller's call resolves
	// through the id pre-allocated in resolver.Functions either way.
	calleeT := NewFunctionTranslator(builder, resolver, module, 1, calleeSig, module.Code[1], config.FunctionConfig{}, false, config.MemoryGrowSoft, nil)
	if _, err := calleeT.Translate(); err != nil {
		t.Fatalf("unexpected callee translate error: %v", err)
	}

	callerT := NewFunctionTranslator(builder, resolver, module, 0, callerSig, module.Code[0], config.FunctionConfig{}, false, config.MemoryGrowSoft, nil)
	if _, err := callerT.Translate(); err != nil {
		t.Fatalf("unexpected caller translate error: %v", err)
	}
}

func TestFunctionTranslator_UnsupportedMultiValueResultRejected(t *testing.T) {
	resolver, builder := newTestResolver()
	sig := wasmfront.FunctionType{Results: []wasmfront.ValType{wasmfront.ValTypeI32, wasmfront.ValTypeI32}}
	module := &wasmfront.Module{
		Types:     []wasmfront.FunctionType{sig},
		Functions: []wasmfront.Index{0},
		Code:      []wasmfront.Code{{Body: []byte{byte(wasmfront.OpEnd)}}},
	}
	resolver.Functions[0] = builder.AllocID()

	ft := NewFunctionTranslator(builder, resolver, module, 0, sig, module.Code[0], config.FunctionConfig{}, false, config.MemoryGrowSoft, nil)
	if _, err := ft.Translate(); err == nil {
		t.Error("expected multi-value function results to be rejected")
	}
}
