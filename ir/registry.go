package ir

import (
	"fmt"
	"strconv"
)

// TypeRegistry ensures type deduplication for SPIR-V emission.
// SPIR-V requires that each unique type is declared exactly once
// (spec.md §4.1 intern_type).
type TypeRegistry struct {
	types   []Type
	typeMap map[string]TypeHandle
}

// NewTypeRegistry creates a new type registry for deduplication.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		types:   make([]Type, 0, 16),
		typeMap: make(map[string]TypeHandle, 16),
	}
}

// GetOrCreate returns an existing handle for the type if it exists,
// or creates a new one if it's unique. Struct member decorations are
// part of the dedup key, per spec.md §4.1's tie-break rule.
func (r *TypeRegistry) GetOrCreate(name string, inner TypeInner) TypeHandle {
	key := normalizeType(inner)

	if handle, exists := r.typeMap[key]; exists {
		return handle
	}

	handle := TypeHandle(len(r.types))
	r.types = append(r.types, Type{Name: name, Inner: inner})
	r.typeMap[key] = handle

	return handle
}

// normalizeType creates a unique key for a type based on its
// structure. Two structurally identical types produce the same key.
//
//nolint:gocyclo,cyclop // exhaustive switch over a closed type-tag set
func normalizeType(inner TypeInner) string {
	switch t := inner.(type) {
	case ScalarType:
		return "scalar:" + strconv.Itoa(int(t.Kind)) + ":" + strconv.Itoa(int(t.Width))

	case VectorType:
		return "vec:" + strconv.Itoa(int(t.Size)) + ":" + normalizeType(t.Scalar)

	case MatrixType:
		return "mat:" + strconv.Itoa(int(t.Columns)) + "x" + strconv.Itoa(int(t.Rows)) + ":" + normalizeType(t.Scalar)

	case ArrayType:
		sizeKey := "runtime"
		if t.Size.Constant != nil {
			sizeKey = strconv.FormatUint(uint64(*t.Size.Constant), 10)
		}
		return "array:" + strconv.FormatUint(uint64(t.Base), 10) + ":" + sizeKey + ":" + strconv.FormatUint(uint64(t.Stride), 10)

	case RuntimeArrayType:
		return "runtimearray:" + strconv.FormatUint(uint64(t.Base), 10) + ":" + strconv.FormatUint(uint64(t.Stride), 10)

	case StructType:
		key := fmt.Sprintf("struct:%d:%d:%v", len(t.Members), t.Span, t.Block)
		for _, member := range t.Members {
			key += fmt.Sprintf(":m(%s,%d,%d)", member.Name, member.Type, member.Offset)
		}
		return key

	case PointerType:
		return "ptr:" + strconv.FormatUint(uint64(t.Base), 10) + ":" + strconv.Itoa(int(t.Space))

	default:
		return fmt.Sprintf("unknown:%T", inner)
	}
}

// Lookup finds a type by its handle.
func (r *TypeRegistry) Lookup(handle TypeHandle) (Type, bool) {
	if int(handle) >= len(r.types) {
		return Type{}, false
	}
	return r.types[handle], true
}

// Types returns all registered types in allocation order, suitable
// for deterministic OpType* emission (Testable Property 1).
func (r *TypeRegistry) Types() []Type {
	return r.types
}

// Count returns the number of unique types registered.
func (r *TypeRegistry) Count() int {
	return len(r.types)
}

// ConstantRegistry deduplicates module-scope constants the same way
// TypeRegistry dedupes types.
type ConstantRegistry struct {
	constants []Constant
	constMap  map[string]ConstantHandle
}

// NewConstantRegistry creates a new constant registry.
func NewConstantRegistry() *ConstantRegistry {
	return &ConstantRegistry{
		constants: make([]Constant, 0, 16),
		constMap:  make(map[string]ConstantHandle, 16),
	}
}

// GetOrCreate returns an existing handle for an identical (type,
// value) pair, or registers a new constant.
func (r *ConstantRegistry) GetOrCreate(name string, typ TypeHandle, value ConstantValue) ConstantHandle {
	key := normalizeConstant(typ, value)

	if handle, exists := r.constMap[key]; exists {
		return handle
	}

	handle := ConstantHandle(len(r.constants))
	r.constants = append(r.constants, Constant{Name: name, Type: typ, Value: value})
	r.constMap[key] = handle

	return handle
}

func normalizeConstant(typ TypeHandle, value ConstantValue) string {
	switch v := value.(type) {
	case ScalarValue:
		return fmt.Sprintf("scalar:%d:%d:%d", typ, v.Kind, v.Bits)
	case CompositeValue:
		key := fmt.Sprintf("composite:%d:%d", typ, len(v.Components))
		for _, c := range v.Components {
			key += fmt.Sprintf(":%d", c)
		}
		return key
	default:
		return fmt.Sprintf("unknown:%d:%T", typ, value)
	}
}

// Lookup finds a constant by its handle.
func (r *ConstantRegistry) Lookup(handle ConstantHandle) (Constant, bool) {
	if int(handle) >= len(r.constants) {
		return Constant{}, false
	}
	return r.constants[handle], true
}

// Constants returns all registered constants in allocation order.
func (r *ConstantRegistry) Constants() []Constant {
	return r.constants
}
