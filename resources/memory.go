package resources

import "github.com/gogpu/wasm2spirv/ir"

// LinearMemoryLayout is the result of materializing a Wasm module's
// memory section into a SPIR-V storage-buffer resource.
type LinearMemoryLayout struct {
	// ElementType is the scalar the runtime array is made of: u32
	// ordinarily, or u8 when the declared memory descriptor requires
	// byte-level addressing.
	ElementType   ir.TypeHandle
	ArrayType     ir.TypeHandle // runtime_array<ElementType>
	StructType    ir.TypeHandle // struct { runtime_array }, Block/BufferBlock decorated
	PointerType   ir.TypeHandle // pointer to StructType in StorageBuffer
	Variable      ir.GlobalVariableHandle
	WordBytes     uint32 // 4 for u32 elements, 1 for u8 elements
}

// useBlockDecoration implements the Open Question 2 decision recorded
// in DESIGN.md: Block for SPIR-V >= 1.3, BufferBlock for <= 1.2 — the
// SPIR-V spec's own storage-buffer-without-BufferBlock version gate,
// not a function of any other decoration present on the struct.
func useBlockDecoration(target ir.Target) bool {
	return target.AtLeast(1, 3)
}

// MaterializeLinearMemory builds the struct{runtime_array<u32|u8>}
// storage-buffer resource backing a Wasm module's linear memory
// (spec.md §4.2), at the given descriptor set/binding.
func MaterializeLinearMemory(mc *ir.ModuleContext, desc ir.LinearMemoryDescriptor, binding ir.ResourceBinding) LinearMemoryLayout {
	var elemName string
	var wordBytes uint32
	var kind ir.ScalarKind
	var width uint8
	if desc.ByteAddressed {
		elemName, wordBytes, kind, width = "u8", 1, ir.ScalarUint, 8
	} else {
		elemName, wordBytes, kind, width = "u32", 4, ir.ScalarUint, 32
	}

	elemType := mc.Types.GetOrCreate(elemName, ir.ScalarType{Kind: kind, Width: width})
	return materializeRuntimeArrayResource(mc, "wasm_linear_memory", "WasmLinearMemory", elemType, wordBytes, ir.StorageClassStorageBuffer, binding)
}

// MaterializeStorageBuffer builds the struct{runtime_array<Elem>}
// resource backing one DescriptorSetBinding-configured Wasm function
// parameter (spec.md's S1 saxpy scenario: each of the four params is
// its own bound buffer, distinct from the module's own linear memory
// and from each other). Generalizes MaterializeLinearMemory's
// struct-wrapping pattern to an arbitrary element type and storage
// class instead of the fixed u32/u8 linear-memory element.
func MaterializeStorageBuffer(mc *ir.ModuleContext, elemType ir.TypeHandle, stride uint32, class ir.StorageClass, binding ir.ResourceBinding) LinearMemoryLayout {
	return materializeRuntimeArrayResource(mc, "param_buffer", "", elemType, stride, class, binding)
}

func materializeRuntimeArrayResource(mc *ir.ModuleContext, varName, structName string, elemType ir.TypeHandle, stride uint32, class ir.StorageClass, binding ir.ResourceBinding) LinearMemoryLayout {
	arrayType := mc.Types.GetOrCreate("", ir.RuntimeArrayType{Base: elemType, Stride: stride})

	member := ir.StructMember{Name: "data", Type: arrayType, Offset: 0}
	structType := mc.Types.GetOrCreate(structName, ir.StructType{
		Members: []ir.StructMember{member},
		Span:    0, // unknown at compile time: runtime-sized tail member
		Block:   true,
	})

	decoration := blockDecorationID(mc.Target)
	_ = mc.Decorations.Add(ir.DecorationTargetType, uint32(structType), decoration)
	_ = mc.Decorations.Add(ir.DecorationTargetType, uint32(structType), arrayStrideDecorationID(), stride)

	pointerType := mc.Types.GetOrCreate("", ir.PointerType{Base: structType, Space: class})

	variable := mc.DeclareVariable(ir.GlobalVariable{
		Name:  varName,
		Space: class,
		Type:  structType,
		Binding: &ir.ResourceBinding{
			Group:   binding.Group,
			Binding: binding.Binding,
		},
	})

	return LinearMemoryLayout{
		ElementType: elemType,
		ArrayType:   arrayType,
		StructType:  structType,
		PointerType: pointerType,
		Variable:    variable,
		WordBytes:   stride,
	}
}

// Decoration ids mirrored from spirv.DecorationBlock/BufferBlock/
// ArrayStride. Kept as unexported functions rather than importing the
// spirv package, so that resources depends only on ir, not on the word
// encoder.
func blockDecorationID(target ir.Target) ir.DecorationID {
	if useBlockDecoration(target) {
		return ir.DecorationID(2) // Block
	}
	return ir.DecorationID(3) // BufferBlock
}

func arrayStrideDecorationID() ir.DecorationID {
	return ir.DecorationID(6) // ArrayStride
}
