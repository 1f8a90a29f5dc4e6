package translate

import (
	"github.com/gogpu/wasm2spirv/resources"
	"github.com/gogpu/wasm2spirv/spirv"
	"github.com/gogpu/wasm2spirv/wasmfront"
)

// schrodingerSlot is the Function-storage representation of a local
// configured with pointer_size: thin (spec.md §4.2's "Schrödinger
// value": a local that is read sometimes as a plain integer offset
// and sometimes as a pointer into linear memory, and nothing in the
// Wasm type system distinguishes the two uses).
//
// Open Question 1 left the promotion rule between the two
// interpretations unspecified. This translator resolves it by never
// promoting: local.set/local.tee on a dual-slot local always writes BOTH
// the integer slot and the derived pointer slot, so whichever
// interpretation a later local.get or memory access needs is already
// current. This costs one extra OpAccessChain per store against the
// literal auxiliary-merge-block design the spec gestures at, but
// removes the need to track which interpretation is "live" across a
// structured-CFG merge point.
type schrodingerSlot struct {
	valType wasmfront.ValType

	intVar uint32 // Function-storage OpVariable, pointee = scalarType
	ptrVar uint32 // Function-storage OpVariable, pointee = pointerType

	scalarType  uint32
	pointerType uint32 // pointer(StorageBuffer, resource element type)

	resource resources.LinearMemoryLayout
}

// newSchrodingerSlot allocates the pointer-interpretation half of a
// dual-slot local. intVar is the plain-integer OpVariable declareLocal
// already allocated for it. resource is the DescriptorSetBinding
// buffer this parameter was configured against (spec.md's S1 saxpy
// scenario: each dual-slot parameter is its own bound buffer, not
// necessarily the module's own linear memory).
//
// SPIR-V's logical addressing model forbids a Function-storage
// variable whose pointee type is itself a pointer unless
// VariablePointers (or VariablePointersStorageBuffer) is in force;
// every configuration that declares a dual-slot local must also declare
// that capability, which is exactly what requires it at
// RequireCapability time (ir.ModuleContext.RequireCapability, invoked
// from the assembler before any function is translated).
func (t *FunctionTranslator) newSchrodingerSlot(valType wasmfront.ValType, intVar uint32, scalarType uint32, resource resources.LinearMemoryLayout) *schrodingerSlot {
	pointerType := t.resolver.elementPointerTypeID(resource)
	ptrOfPointerType := t.builder.AddTypePointer(spirv.StorageClassFunction, pointerType)
	ptrVar := t.builder.AddLocalVariable(ptrOfPointerType)

	return &schrodingerSlot{
		valType:     valType,
		intVar:      intVar,
		ptrVar:      ptrVar,
		scalarType:  scalarType,
		pointerType: pointerType,
		resource:    resource,
	}
}

// loadInteger reads the slot's integer interpretation, tagged with the
// resource its pointer half targets so a memory op applied directly to
// this value (with no intervening arithmetic) addresses that buffer
// rather than the module's own linear memory.
func (s *schrodingerSlot) loadInteger(t *FunctionTranslator) TypedValue {
	id := t.builder.AddLoad(s.scalarType, s.intVar)
	return TypedValue{ID: id, Type: s.valType, Resource: &s.resource}
}

// store writes both interpretations of v: the integer value
// unchanged, and the pointer value as an OpAccessChain into this
// slot's bound buffer at element index v (scaled from a byte offset
// when the backing array has a multi-byte element stride).
func (s *schrodingerSlot) store(t *FunctionTranslator, v TypedValue) {
	t.builder.AddStore(s.intVar, v.ID)

	uintType := t.resolver.scalarTypeID(wasmfront.ValTypeI32)
	zeroMember := t.builder.AddConstant(uintType, 0)

	elementIndex := v.ID
	if s.resource.WordBytes > 1 {
		divisor := t.builder.AddConstant(uintType, s.resource.WordBytes)
		elementIndex = t.builder.AddBinaryOp(spirv.OpUDiv, uintType, v.ID, divisor)
	}

	base := t.resolver.globalID(s.resource.Variable)
	ptr := t.builder.AddAccessChain(s.pointerType, base, zeroMember, elementIndex)
	t.builder.AddStore(s.ptrVar, ptr)
}
