package assemble

import (
	"encoding/binary"
	"testing"

	"github.com/gogpu/wasm2spirv/config"
	"github.com/gogpu/wasm2spirv/ir"
	"github.com/gogpu/wasm2spirv/spirv"
	"github.com/gogpu/wasm2spirv/wasmfront"
)

// decodedInst is one parsed SPIR-V instruction, for tests that want
// to assert on the assembled binary without pulling in a real
// disassembler.
type decodedInst struct {
	opcode  spirv.OpCode
	operand []uint32
}

// decodeModule walks a Build() binary past its 5-word header and
// returns every instruction word-for-word.
func decodeModule(t *testing.T, bin []byte) []decodedInst {
	t.Helper()
	if len(bin) < 20 {
		t.Fatalf("module too short: %d bytes", len(bin))
	}
	words := make([]uint32, len(bin)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(bin[i*4 : i*4+4])
	}
	var out []decodedInst
	for i := 5; i < len(words); {
		word := words[i]
		wordCount := int(word >> 16)
		opcode := spirv.OpCode(word & 0xFFFF)
		if wordCount == 0 || i+wordCount > len(words) {
			t.Fatalf("malformed instruction at word %d", i)
		}
		out = append(out, decodedInst{opcode: opcode, operand: words[i+1 : i+wordCount]})
		i += wordCount
	}
	return out
}

func findAll(insts []decodedInst, op spirv.OpCode) []decodedInst {
	var out []decodedInst
	for _, in := range insts {
		if in.opcode == op {
			out = append(out, in)
		}
	}
	return out
}

// oneParamModule builds a minimal Wasm module: a single function
// `(param i32) -> ()` with an empty body, exported as "main" — enough
// surface for the Module Assembler's entry-point path without needing
// a real function body to translate.
func oneParamModule() *wasmfront.Module {
	return &wasmfront.Module{
		Types:     []wasmfront.FunctionType{{Params: []wasmfront.ValType{wasmfront.ValTypeI32}}},
		Functions: []wasmfront.Index{0},
		Exports:   []wasmfront.Export{{Name: "main", Kind: wasmfront.ExternKindFunc, Index: 0}},
		Code:      []wasmfront.Code{{Body: []byte{byte(wasmfront.OpEnd)}}},
	}
}

func baseConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Target = ir.Target{Platform: ir.PlatformVulkan, VersionMajor: 1, VersionMinor: 3}
	return cfg
}

var scalarU32 = ir.ScalarType{Kind: ir.ScalarUint, Width: 32}

func TestCompile_DescriptorSetBindingEntryPoint(t *testing.T) {
	module := oneParamModule()
	cfg := baseConfig()
	cfg.Capabilities = ir.NewDynamicCapabilityPolicy()

	cfg.Functions = map[uint32]config.FunctionConfig{
		0: {
			ExecutionModel: config.ExecutionModelGLCompute,
			ExecutionModes: []config.ExecutionMode{{Mode: config.ExecutionModeLocalSize, LocalSize: [3]uint32{1, 1, 1}}},
			Params: map[uint32]config.ParamConfig{
				0: {Type: scalarU32, Kind: config.DescriptorSetBinding{Set: 0, Binding: 0, StorageClass: ir.StorageClassStorageBuffer}, PointerSize: config.PointerFat},
			},
		},
	}

	bin, err := Compile(module, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	insts := decodeModule(t, bin)

	entries := findAll(insts, spirv.OpEntryPoint)
	if len(entries) != 1 {
		t.Fatalf("expected exactly 1 OpEntryPoint, got %d", len(entries))
	}
	modes := findAll(insts, spirv.OpExecutionMode)
	if len(modes) != 1 {
		t.Fatalf("expected exactly 1 OpExecutionMode, got %d", len(modes))
	}

	caps := findAll(insts, spirv.OpCapability)
	foundShader := false
	for _, c := range caps {
		if spirv.Capability(c.operand[0]) == spirv.CapabilityShader {
			foundShader = true
		}
	}
	if !foundShader {
		t.Error("expected OpCapability Shader")
	}
}

func TestCompile_BuiltinBindingParamJoinsInterface(t *testing.T) {
	module := oneParamModule()
	cfg := baseConfig()
	cfg.Functions = map[uint32]config.FunctionConfig{
		0: {
			ExecutionModel: config.ExecutionModelGLCompute,
			ExecutionModes: []config.ExecutionMode{{Mode: config.ExecutionModeLocalSize, LocalSize: [3]uint32{1, 1, 1}}},
			Params: map[uint32]config.ParamConfig{
				0: {Type: scalarU32, Kind: config.BuiltinBinding{Builtin: ir.BuiltinLocalInvocationIndex}},
			},
		},
	}

	bin, err := Compile(module, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	insts := decodeModule(t, bin)

	entries := findAll(insts, spirv.OpEntryPoint)
	if len(entries) != 1 {
		t.Fatalf("expected exactly 1 OpEntryPoint, got %d", len(entries))
	}
	// OpEntryPoint operands: execution model, function id, name (as
	// words), then the interface id list. A built-in-bound parameter
	// must contribute at least one interface id beyond the function id.
	if len(entries[0].operand) < 5 {
		t.Fatalf("OpEntryPoint too short: %v", entries[0].operand)
	}
}

func TestCompile_VectorBuiltinBindingRejected(t *testing.T) {
	module := oneParamModule()
	cfg := baseConfig()
	cfg.Functions = map[uint32]config.FunctionConfig{
		0: {
			ExecutionModel: config.ExecutionModelGLCompute,
			Params: map[uint32]config.ParamConfig{
				0: {Type: scalarU32, Kind: config.BuiltinBinding{Builtin: ir.BuiltinGlobalInvocationID}},
			},
		},
	}

	if _, err := Compile(module, cfg); err == nil {
		t.Error("expected an error binding a Wasm scalar parameter to a vector-valued built-in")
	}
}

func TestCompile_StaticCapabilityRejectsVariablePointers(t *testing.T) {
	module := oneParamModule()
	cfg := baseConfig()
	cfg.Capabilities = ir.NewStaticCapabilityPolicy(uint32(spirv.CapabilityShader))
	cfg.Functions = map[uint32]config.FunctionConfig{
		0: {
			ExecutionModel: config.ExecutionModelGLCompute,
			Params: map[uint32]config.ParamConfig{
				0: {Type: scalarU32, Kind: config.DescriptorSetBinding{Set: 0, Binding: 0, StorageClass: ir.StorageClassStorageBuffer}, PointerSize: config.PointerThin},
			},
		},
	}

	if _, err := Compile(module, cfg); err == nil {
		t.Error("expected CapabilityMissing-equivalent error for VariablePointersStorageBuffer under a Shader-only static policy")
	}
}

func TestCompile_DeterministicAcrossRepeatedCompiles(t *testing.T) {
	module := &wasmfront.Module{
		Types: []wasmfront.FunctionType{
			{Params: []wasmfront.ValType{wasmfront.ValTypeI32}},
			{Params: []wasmfront.ValType{wasmfront.ValTypeF32}},
		},
		Functions: []wasmfront.Index{0, 1},
		Exports: []wasmfront.Export{
			{Name: "first", Kind: wasmfront.ExternKindFunc, Index: 0},
			{Name: "second", Kind: wasmfront.ExternKindFunc, Index: 1},
		},
		Code: []wasmfront.Code{
			{Body: []byte{byte(wasmfront.OpEnd)}},
			{Body: []byte{byte(wasmfront.OpEnd)}},
		},
	}
	cfg := baseConfig()
	cfg.Functions = map[uint32]config.FunctionConfig{
		0: {ExecutionModel: config.ExecutionModelGLCompute, ExecutionModes: []config.ExecutionMode{{Mode: config.ExecutionModeLocalSize, LocalSize: [3]uint32{1, 1, 1}}}},
		1: {ExecutionModel: config.ExecutionModelGLCompute, ExecutionModes: []config.ExecutionMode{{Mode: config.ExecutionModeLocalSize, LocalSize: [3]uint32{1, 1, 1}}}},
	}

	first, err := Compile(module, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Compile(module, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("repeated compiles produced different lengths: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("repeated compiles diverged at byte %d — map-iteration order is leaking into the output", i)
		}
	}
}
