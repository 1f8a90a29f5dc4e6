package translate

import (
	"github.com/gogpu/wasm2spirv/resources"
	"github.com/gogpu/wasm2spirv/wasmfront"
)

// TypedValue is one live value on the Wasm operand stack: a SPIR-V id
// together with the Wasm value type it was produced as. Every operator
// pops a declared number of TypedValues whose static Type must match
// its signature (spec.md §4.3's stack discipline).
//
// Resource is non-nil only immediately after a local.get of a
// DescriptorSetBinding dual-slot parameter (schrodinger.go): it names
// which bound buffer that parameter's pointer half targets, so a
// memory op consuming it directly (i32.load offset=N (local.get $p))
// addresses the right resource instead of the module's own linear
// memory. Any arithmetic on the value (i32.add, ...) drops Resource —
// provenance through address arithmetic is not tracked.
type TypedValue struct {
	ID       uint32
	Type     wasmfront.ValType
	Resource *resources.LinearMemoryLayout
}

// valueStack is the Wasm operand stack used during a single function
// translation.
type valueStack struct {
	values []TypedValue
}

func (s *valueStack) push(v TypedValue) {
	s.values = append(s.values, v)
}

func (s *valueStack) pop() (TypedValue, bool) {
	if len(s.values) == 0 {
		return TypedValue{}, false
	}
	v := s.values[len(s.values)-1]
	s.values = s.values[:len(s.values)-1]
	return v, true
}

func (s *valueStack) popExpect(t wasmfront.ValType) (TypedValue, error) {
	v, ok := s.pop()
	if !ok {
		return TypedValue{}, NewError(ErrUnbalancedStack, 0, 0, "pop from empty operand stack")
	}
	if v.Type != t {
		return TypedValue{}, NewError(ErrStackTypeMismatch, 0, 0,
			"expected "+valTypeName(t)+", found "+valTypeName(v.Type))
	}
	return v, nil
}

func (s *valueStack) depth() int {
	return len(s.values)
}

// snapshot returns the current stack shape (types only). Nothing in
// the translator calls it.
func (s *valueStack) snapshot() []wasmfront.ValType {
	shape := make([]wasmfront.ValType, len(s.values))
	for i, v := range s.values {
		shape[i] = v.Type
	}
	return shape
}

func valTypeName(t wasmfront.ValType) string {
	switch t {
	case wasmfront.ValTypeI32:
		return "i32"
	case wasmfront.ValTypeI64:
		return "i64"
	case wasmfront.ValTypeF32:
		return "f32"
	case wasmfront.ValTypeF64:
		return "f64"
	default:
		return "unknown"
	}
}
