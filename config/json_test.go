package config

import (
	"testing"

	"github.com/gogpu/wasm2spirv/ir"
)

func TestLoadJSON_Saxpy(t *testing.T) {
	doc := []byte(`{
		"platform": {"vulkan": "1.1"},
		"addressing_model": "logical",
		"memory_model": "GLSL450",
		"capabilities": {"dynamic": ["VariablePointers"]},
		"extensions": [],
		"functions": {
			"0": {
				"execution_model": "GLCompute",
				"execution_modes": [{"local_size": [1, 1, 1]}],
				"params": {
					"0": {"type": "i32", "kind": {"tag": "DescriptorSet", "set": 0, "binding": 0, "storage_class": "StorageBuffer"}},
					"1": {"type": "f32", "kind": {"tag": "DescriptorSet", "set": 0, "binding": 1, "storage_class": "StorageBuffer"}}
				}
			}
		}
	}`)

	cfg, err := LoadJSON(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Target.Platform != 1 /* PlatformVulkan */ || cfg.Target.VersionMajor != 1 || cfg.Target.VersionMinor != 1 {
		t.Errorf("unexpected target: %+v", cfg.Target)
	}
	fc, ok := cfg.Functions[0]
	if !ok {
		t.Fatal("expected function 0 to be configured")
	}
	if fc.ExecutionModel != ExecutionModelGLCompute {
		t.Errorf("expected GLCompute, got %v", fc.ExecutionModel)
	}
	if len(fc.ExecutionModes) != 1 || fc.ExecutionModes[0].LocalSize != [3]uint32{1, 1, 1} {
		t.Errorf("unexpected execution modes: %+v", fc.ExecutionModes)
	}
	if len(fc.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fc.Params))
	}
	p0, ok := fc.Params[0].Kind.(DescriptorSetBinding)
	if !ok {
		t.Fatalf("expected param 0 to be a DescriptorSetBinding, got %T", fc.Params[0].Kind)
	}
	if p0.Set != 0 || p0.Binding != 0 {
		t.Errorf("unexpected binding: %+v", p0)
	}
}

func TestLoadJSON_UnknownCapabilityRejected(t *testing.T) {
	doc := []byte(`{
		"platform": {"vulkan": "1.1"},
		"addressing_model": "logical",
		"memory_model": "GLSL450",
		"capabilities": {"static": ["NotARealCapability"]},
		"extensions": [],
		"functions": {}
	}`)
	if _, err := LoadJSON(doc); err == nil {
		t.Error("expected error for unknown capability name")
	}
}

func TestLoadJSON_UnknownParamKindTagRejected(t *testing.T) {
	doc := []byte(`{
		"platform": {"vulkan": "1.1"},
		"addressing_model": "logical",
		"memory_model": "GLSL450",
		"capabilities": {"dynamic": []},
		"extensions": [],
		"functions": {
			"0": {
				"execution_model": "GLCompute",
				"execution_modes": [],
				"params": {"0": {"type": "i32", "kind": {"tag": "NotARealTag"}}}
			}
		}
	}`)
	if _, err := LoadJSON(doc); err == nil {
		t.Error("expected error for unknown param binding kind tag")
	}
}

func TestLoadJSON_StaticCapabilityPolicy(t *testing.T) {
	doc := []byte(`{
		"platform": {"universal": "1.0"},
		"addressing_model": "logical",
		"memory_model": "Simple",
		"capabilities": {"static": ["Shader"]},
		"extensions": [],
		"functions": {}
	}`)
	cfg, err := LoadJSON(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Capabilities.Kind != ir.CapabilityStatic {
		t.Errorf("expected static capability policy, got %v", cfg.Capabilities.Kind)
	}
	if !cfg.Capabilities.Set[uint32(1)] { // CapabilityShader
		t.Error("expected Shader capability to be declared")
	}
}
