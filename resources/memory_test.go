package resources

import (
	"testing"

	"github.com/gogpu/wasm2spirv/ir"
)

func newTestModuleContext(target ir.Target) *ir.ModuleContext {
	return ir.NewModuleContext(ir.AddressingLogical, ir.MemoryModelGLSL450, target, ir.NewDynamicCapabilityPolicy(), ir.ExtensionPolicy{Kind: ir.ExtensionDynamic, Set: map[string]bool{}})
}

func TestMaterializeLinearMemory_UsesBlockAt13(t *testing.T) {
	mc := newTestModuleContext(ir.Target{VersionMajor: 1, VersionMinor: 3})
	layout := MaterializeLinearMemory(mc, ir.LinearMemoryDescriptor{InitialPages: 1}, ir.ResourceBinding{Group: 0, Binding: 0})

	decos := mc.Decorations.For(ir.DecorationTargetType, uint32(layout.StructType))
	foundBlock := false
	for _, d := range decos {
		if d.Decoration == ir.DecorationID(2) {
			foundBlock = true
		}
		if d.Decoration == ir.DecorationID(3) {
			t.Error("should not apply BufferBlock at SPIR-V 1.3")
		}
	}
	if !foundBlock {
		t.Error("expected Block decoration at SPIR-V 1.3")
	}
}

func TestMaterializeLinearMemory_UsesBufferBlockAt12(t *testing.T) {
	mc := newTestModuleContext(ir.Target{VersionMajor: 1, VersionMinor: 2})
	layout := MaterializeLinearMemory(mc, ir.LinearMemoryDescriptor{InitialPages: 1}, ir.ResourceBinding{Group: 0, Binding: 0})

	decos := mc.Decorations.For(ir.DecorationTargetType, uint32(layout.StructType))
	foundBufferBlock := false
	for _, d := range decos {
		if d.Decoration == ir.DecorationID(3) {
			foundBufferBlock = true
		}
	}
	if !foundBufferBlock {
		t.Error("expected BufferBlock decoration at SPIR-V 1.2")
	}
}

func TestMaterializeLinearMemory_ByteAddressedUsesU8(t *testing.T) {
	mc := newTestModuleContext(ir.Target{VersionMajor: 1, VersionMinor: 3})
	layout := MaterializeLinearMemory(mc, ir.LinearMemoryDescriptor{InitialPages: 1, ByteAddressed: true}, ir.ResourceBinding{})

	if layout.WordBytes != 1 {
		t.Errorf("expected word size 1 for byte-addressed memory, got %d", layout.WordBytes)
	}
	elem, ok := mc.Types.Lookup(layout.ElementType)
	if !ok {
		t.Fatal("expected element type to be registered")
	}
	scalar, ok := elem.Inner.(ir.ScalarType)
	if !ok || scalar.Width != 8 {
		t.Errorf("expected u8 element type, got %+v", elem.Inner)
	}
}

func TestMaterializeLinearMemory_DeclaresStorageBufferVariable(t *testing.T) {
	mc := newTestModuleContext(ir.Target{VersionMajor: 1, VersionMinor: 3})
	layout := MaterializeLinearMemory(mc, ir.LinearMemoryDescriptor{InitialPages: 1}, ir.ResourceBinding{Group: 2, Binding: 5})

	v, ok := mc.GlobalVariable(layout.Variable)
	if !ok {
		t.Fatal("expected variable to be declared")
	}
	if v.Space != ir.StorageClassStorageBuffer {
		t.Errorf("expected StorageBuffer storage class, got %v", v.Space)
	}
	if v.Binding == nil || v.Binding.Group != 2 || v.Binding.Binding != 5 {
		t.Errorf("unexpected binding: %+v", v.Binding)
	}
}
