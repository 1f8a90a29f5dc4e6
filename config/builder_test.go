package config

import (
	"testing"

	"github.com/gogpu/wasm2spirv/ir"
)

func TestBuilder_FluentChaining(t *testing.T) {
	cfg := NewBuilder().
		WithTarget(ir.Target{Platform: ir.PlatformVulkan, VersionMajor: 1, VersionMinor: 3}).
		WithMemoryGrowErrorKind(MemoryGrowHard).
		Build()

	if cfg.Target.VersionMinor != 3 {
		t.Errorf("expected version 1.3, got 1.%d", cfg.Target.VersionMinor)
	}
	if cfg.MemoryGrowErrorKind != MemoryGrowHard {
		t.Error("expected Hard memory.grow policy")
	}
}

func TestBuilder_ImmutableAcrossChaining(t *testing.T) {
	base := NewBuilder()
	a := base.WithMemoryGrowErrorKind(MemoryGrowHard).Build()
	b := base.Build()

	if b.MemoryGrowErrorKind == MemoryGrowHard {
		t.Error("modifying a derived builder must not affect the original")
	}
	if a.MemoryGrowErrorKind != MemoryGrowHard {
		t.Error("derived builder should carry its own change")
	}
}

func TestFunctionConfigBuilder_WithParam(t *testing.T) {
	fc := NewFunctionConfigBuilder(ExecutionModelGLCompute).
		WithParam(0, ParamConfig{Kind: DescriptorSetBinding{Set: 0, Binding: 0, StorageClass: ir.StorageClassStorageBuffer}}).
		WithExecutionMode(ExecutionMode{Mode: ExecutionModeLocalSize, LocalSize: [3]uint32{1, 1, 1}}).
		Build()

	if len(fc.Params) != 1 {
		t.Fatalf("expected 1 param, got %d", len(fc.Params))
	}
	if len(fc.ExecutionModes) != 1 {
		t.Fatalf("expected 1 execution mode, got %d", len(fc.ExecutionModes))
	}
}
