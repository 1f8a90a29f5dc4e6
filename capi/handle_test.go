package capi

import (
	"testing"

	"github.com/gogpu/wasm2spirv/config"
	"github.com/gogpu/wasm2spirv/ir"
)

func TestConfigBuilderRoundTrip(t *testing.T) {
	fnBuilder := NewFunctionConfigBuilder(config.ExecutionModelGLCompute)
	if err := fnBuilder.WithExecutionMode(config.ExecutionMode{Mode: config.ExecutionModeLocalSize, LocalSize: [3]uint32{1, 1, 1}}); err != nil {
		t.Fatalf("WithExecutionMode: %v", err)
	}
	if err := fnBuilder.WithParam(0, config.ParamConfig{
		Type:        ir.ScalarType{Kind: ir.ScalarUint, Width: 32},
		Kind:        config.DescriptorSetBinding{Set: 0, Binding: 0, StorageClass: ir.StorageClassStorageBuffer},
		PointerSize: config.PointerFat,
	}); err != nil {
		t.Fatalf("WithParam: %v", err)
	}
	fnHandle, err := fnBuilder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer fnHandle.Release()

	cfgBuilder := NewConfigBuilder()
	if err := cfgBuilder.WithFunction(0, fnHandle); err != nil {
		t.Fatalf("WithFunction: %v", err)
	}
	cfgHandle, err := cfgBuilder.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer cfgHandle.Release()

	cfg, ok := cfgHandle.value()
	if !ok {
		t.Fatal("expected the built config to be retrievable")
	}
	if _, ok := cfg.Functions[0]; !ok {
		t.Error("expected function 0 to be present in the built config")
	}
}

func TestReleasedHandleIsInvalid(t *testing.T) {
	b := NewConfigBuilder()
	h, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	h.Release()
	if _, ok := h.value(); ok {
		t.Error("expected a released handle to no longer resolve")
	}
}

func TestFunctionConfigBuilderRejectsInvalidHandle(t *testing.T) {
	var bogus FunctionConfigBuilderHandle = 999999
	if err := bogus.WithExecutionMode(config.ExecutionMode{}); err == nil {
		t.Error("expected an invalid builder handle to error")
	}
}

func TestLastErrorTakeClearsSlot(t *testing.T) {
	token := "test-thread"
	setLastError(token, "boom")

	msg, ok := TakeLastError(token)
	if !ok || msg != "boom" {
		t.Fatalf("got (%q, %v), want (\"boom\", true)", msg, ok)
	}

	if _, ok := TakeLastError(token); ok {
		t.Error("expected the slot to be empty after being taken once")
	}
}

func TestLastErrorIsolatedPerThreadToken(t *testing.T) {
	setLastError("thread-a", "a failed")
	setLastError("thread-b", "b failed")

	msgB, ok := TakeLastError("thread-b")
	if !ok || msgB != "b failed" {
		t.Fatalf("thread-b: got (%q, %v)", msgB, ok)
	}
	msgA, ok := TakeLastError("thread-a")
	if !ok || msgA != "a failed" {
		t.Fatalf("thread-a: got (%q, %v)", msgA, ok)
	}
}
