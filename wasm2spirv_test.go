package wasm2spirv

import (
	"encoding/binary"
	"testing"

	"github.com/gogpu/wasm2spirv/config"
	"github.com/gogpu/wasm2spirv/ir"
)

// encodeVarU32 LEB128-encodes v, for hand-assembling minimal Wasm
// binaries directly in test bodies.
func encodeVarU32(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			return out
		}
	}
}

func section(id byte, body []byte) []byte {
	out := []byte{id}
	out = append(out, encodeVarU32(uint32(len(body)))...)
	return append(out, body...)
}

// oneExportedFuncWasm assembles a minimal, valid Wasm MVP binary: a
// single `(func (param i32))` exported as "main" with an empty body.
func oneExportedFuncWasm() []byte {
	header := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}

	typeSec := section(1, []byte{0x01, 0x60, 0x01, 0x7F, 0x00})
	funcSec := section(3, []byte{0x01, 0x00})
	name := "main"
	exportBody := append([]byte{0x01, byte(len(name))}, []byte(name)...)
	exportBody = append(exportBody, 0x00, 0x00) // kind=func, index=0
	exportSec := section(7, exportBody)
	codeBody := []byte{0x00, 0x0B} // 0 locals, end
	codeSec := section(10, append([]byte{0x01, byte(len(codeBody))}, codeBody...))

	out := append([]byte{}, header...)
	out = append(out, typeSec...)
	out = append(out, funcSec...)
	out = append(out, exportSec...)
	out = append(out, codeSec...)
	return out
}

func TestCompile_ProducesWellFormedSPIRVHeader(t *testing.T) {
	wasm := oneExportedFuncWasm()
	cfg := config.DefaultConfig()
	cfg.Target = ir.Target{Platform: ir.PlatformVulkan, VersionMajor: 1, VersionMinor: 3}
	cfg.Functions = map[uint32]config.FunctionConfig{
		0: {
			ExecutionModel: config.ExecutionModelGLCompute,
			ExecutionModes: []config.ExecutionMode{{Mode: config.ExecutionModeLocalSize, LocalSize: [3]uint32{1, 1, 1}}},
			Params: map[uint32]config.ParamConfig{
				0: {
					Type:        ir.ScalarType{Kind: ir.ScalarUint, Width: 32},
					Kind:        config.DescriptorSetBinding{Set: 0, Binding: 0, StorageClass: ir.StorageClassStorageBuffer},
					PointerSize: config.PointerFat,
				},
			},
		},
	}

	spirvBytes, err := Compile(wasm, cfg)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if len(spirvBytes) < 20 {
		t.Fatal("SPIR-V output too short (should have at least 5-word header)")
	}

	magic := binary.LittleEndian.Uint32(spirvBytes[0:4])
	const expectedMagic = 0x07230203
	if magic != expectedMagic {
		t.Errorf("invalid SPIR-V magic: got 0x%08x, want 0x%08x", magic, expectedMagic)
	}

	t.Logf("generated %d bytes of SPIR-V", len(spirvBytes))
}

func TestCompile_MalformedWasmRejected(t *testing.T) {
	if _, err := Compile([]byte{0x00, 0x01, 0x02}, config.DefaultConfig()); err == nil {
		t.Error("expected an error decoding a malformed Wasm binary")
	}
}

func TestCompileJSON_MatchesCompileWithEquivalentConfig(t *testing.T) {
	wasm := oneExportedFuncWasm()
	doc := []byte(`{
		"platform": {"vulkan": "1.3"},
		"addressing_model": "logical",
		"memory_model": "GLSL450",
		"capabilities": {"dynamic": []},
		"functions": {
			"0": {
				"execution_model": "GLCompute",
				"execution_modes": [{"local_size": [1, 1, 1]}],
				"params": {
					"0": {"type": "i32", "kind": {"tag": "DescriptorSet", "set": 0, "binding": 0, "storage_class": "StorageBuffer"}}
				}
			}
		}
	}`)

	bin, err := CompileJSON(wasm, doc)
	if err != nil {
		t.Fatalf("CompileJSON failed: %v", err)
	}
	if len(bin) < 20 {
		t.Fatal("SPIR-V output too short")
	}
}

func TestCompileJSON_InvalidDocumentRejected(t *testing.T) {
	if _, err := CompileJSON(oneExportedFuncWasm(), []byte(`{not json`)); err == nil {
		t.Error("expected an error for a malformed JSON config document")
	}
}
