package translate

import (
	"errors"

	"github.com/gogpu/wasm2spirv/config"
	"github.com/gogpu/wasm2spirv/resources"
	"github.com/gogpu/wasm2spirv/spirv"
	"github.com/gogpu/wasm2spirv/wasmfront"
)

var errNoLinearMemory = errors.New("translate: module declares no linear memory")

// isMemoryOp reports whether op is one of the natural-width linear
// memory load/store instructions this translator lowers. The
// sub-word variants (i32.load8_s, i64.load32_u, ...) are rejected
// explicitly in handleMemoryOp — they need byte-level access-chain
// arithmetic this translator does not implement (see DESIGN.md).
func isMemoryOp(op wasmfront.Opcode) bool {
	switch op {
	case wasmfront.OpI32Load, wasmfront.OpI64Load, wasmfront.OpF32Load, wasmfront.OpF64Load,
		wasmfront.OpI32Load8S, wasmfront.OpI32Load8U, wasmfront.OpI32Load16S, wasmfront.OpI32Load16U,
		wasmfront.OpI64Load8S, wasmfront.OpI64Load8U, wasmfront.OpI64Load16S, wasmfront.OpI64Load16U,
		wasmfront.OpI64Load32S, wasmfront.OpI64Load32U,
		wasmfront.OpI32Store, wasmfront.OpI64Store, wasmfront.OpF32Store, wasmfront.OpF64Store,
		wasmfront.OpI32Store8, wasmfront.OpI32Store16, wasmfront.OpI64Store8, wasmfront.OpI64Store16, wasmfront.OpI64Store32:
		return true
	}
	return false
}

// targetResource picks which materialized runtime-array resource a
// memory op against addr should access: addr's own Resource when the
// address traces directly back to a DescriptorSetBinding dual-slot
// parameter (schrodinger.go), falling back to the module's own linear
// memory (spec.md's ordinary Wasm load/store target) otherwise.
func (t *FunctionTranslator) targetResource(addr TypedValue) (resources.LinearMemoryLayout, error) {
	if addr.Resource != nil {
		return *addr.Resource, nil
	}
	if !t.resolver.MemoryValid {
		return resources.LinearMemoryLayout{}, errNoLinearMemory
	}
	return t.resolver.Memory, nil
}

// elementPointer computes the OpAccessChain into the effective
// resource for a Wasm address (memarg.offset + the i32 address
// operand), scaled down to the backing array's element stride.
func (t *FunctionTranslator) elementPointer(addr TypedValue, arg memArg) (uint32, resources.LinearMemoryLayout, error) {
	resource, err := t.targetResource(addr)
	if err != nil {
		return 0, resource, err
	}
	i32Type := t.resolver.scalarTypeID(wasmfront.ValTypeI32)

	byteAddr := addr.ID
	if arg.Offset != 0 {
		offsetConst := t.builder.AddConstant(i32Type, arg.Offset)
		byteAddr = t.builder.AddBinaryOp(spirv.OpIAdd, i32Type, addr.ID, offsetConst)
	}

	elementIndex := byteAddr
	if resource.WordBytes > 1 {
		divisor := t.builder.AddConstant(i32Type, resource.WordBytes)
		elementIndex = t.builder.AddBinaryOp(spirv.OpUDiv, i32Type, byteAddr, divisor)
	}

	zeroMember := t.builder.AddConstant(i32Type, 0)
	pointerType := t.resolver.elementPointerTypeID(resource)
	base := t.resolver.globalID(resource.Variable)
	return t.builder.AddAccessChain(pointerType, base, zeroMember, elementIndex), resource, nil
}

func (t *FunctionTranslator) handleMemoryOp(r *bytecodeReader, op wasmfront.Opcode, offset int) error {
	arg, err := r.readMemArg()
	if err != nil {
		return t.err(ErrUnsupportedFeature, offset, "malformed memarg")
	}

	switch op {
	case wasmfront.OpI32Load, wasmfront.OpI64Load, wasmfront.OpF32Load, wasmfront.OpF64Load:
		valType := memoryValType(op)
		addr, err := t.stack.popExpect(wasmfront.ValTypeI32)
		if err != nil {
			return t.attachSite(err, offset)
		}
		ptr, resource, err := t.elementPointer(addr, arg)
		if err != nil {
			return t.err(ErrConfigError, offset, err.Error())
		}
		resultType := t.resolver.scalarTypeID(valType)
		id := t.builder.AddLoadAligned(resultType, ptr, spirv.MemoryAccessAligned, resource.WordBytes)
		t.stack.push(TypedValue{ID: id, Type: valType})
		return nil

	case wasmfront.OpI32Store, wasmfront.OpI64Store, wasmfront.OpF32Store, wasmfront.OpF64Store:
		valType := memoryValType(op)
		v, err := t.stack.popExpect(valType)
		if err != nil {
			return t.attachSite(err, offset)
		}
		addr, err := t.stack.popExpect(wasmfront.ValTypeI32)
		if err != nil {
			return t.attachSite(err, offset)
		}
		ptr, resource, err := t.elementPointer(addr, arg)
		if err != nil {
			return t.err(ErrConfigError, offset, err.Error())
		}
		t.builder.AddStoreAligned(ptr, v.ID, spirv.MemoryAccessAligned, resource.WordBytes)
		return nil
	}

	return t.err(ErrUnsupportedFeature, offset, "sub-word memory access is not supported")
}

func memoryValType(op wasmfront.Opcode) wasmfront.ValType {
	switch op {
	case wasmfront.OpI64Load, wasmfront.OpI64Store:
		return wasmfront.ValTypeI64
	case wasmfront.OpF32Load, wasmfront.OpF32Store:
		return wasmfront.ValTypeF32
	case wasmfront.OpF64Load, wasmfront.OpF64Store:
		return wasmfront.ValTypeF64
	default:
		return wasmfront.ValTypeI32
	}
}

// handleMemorySize lowers memory.size to a constant equal to the
// module's declared initial page count: this translator has no
// runtime-resizable memory model (memory.grow is itself a
// Soft-rejected-or-hard-rejected no-op, see handleMemoryGrow), so the
// page count observable from within a function never actually
// changes after the module is assembled.
func (t *FunctionTranslator) handleMemorySize(offset int) error {
	if t.module.Memory == nil {
		return t.err(ErrConfigError, offset, "memory.size with no declared memory")
	}
	t.pushConstI32(int32(t.module.Memory.Min))
	return nil
}

// handleMemoryGrow lowers memory.grow per the configured
// MemoryGrowErrorKind (spec.md §9's resolved Open Question: Soft
// pushes the Wasm sentinel -1 as if growth always failed; Hard
// rejects the module outright, since this translator has no backing
// store to actually grow a fixed-size SPIR-V storage buffer into).
func (t *FunctionTranslator) handleMemoryGrow(offset int) error {
	if _, ok := t.stack.pop(); !ok { // delta operand, unused either way
		return t.err(ErrUnbalancedStack, offset, "memory.grow missing delta operand")
	}
	if t.memoryGrowPolicy == config.MemoryGrowHard {
		return t.err(ErrMemoryGrowRejected, offset, "memory.grow is rejected under the Hard policy")
	}
	t.pushConstI32(-1)
	return nil
}
