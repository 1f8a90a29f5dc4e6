package ir

import (
	"testing"
)

func TestTypeRegistry_ScalarDeduplication(t *testing.T) {
	registry := NewTypeRegistry()

	// Register f32 twice
	f32_1 := registry.GetOrCreate("f32", ScalarType{Kind: ScalarFloat, Width: 32})
	f32_2 := registry.GetOrCreate("f32", ScalarType{Kind: ScalarFloat, Width: 32})

	if f32_1 != f32_2 {
		t.Errorf("Expected same handle for identical scalar types, got %d and %d", f32_1, f32_2)
	}

	if registry.Count() != 1 {
		t.Errorf("Expected 1 type, got %d", registry.Count())
	}
}

func TestTypeRegistry_DifferentScalars(t *testing.T) {
	registry := NewTypeRegistry()

	f32 := registry.GetOrCreate("f32", ScalarType{Kind: ScalarFloat, Width: 32})
	i32 := registry.GetOrCreate("i32", ScalarType{Kind: ScalarSint, Width: 32})
	u32 := registry.GetOrCreate("u32", ScalarType{Kind: ScalarUint, Width: 32})
	i64 := registry.GetOrCreate("i64", ScalarType{Kind: ScalarSint, Width: 64})

	// All should be different
	handles := []TypeHandle{f32, i32, u32, i64}
	for i := 0; i < len(handles); i++ {
		for j := i + 1; j < len(handles); j++ {
			if handles[i] == handles[j] {
				t.Errorf("Expected different handles for different types, got %d == %d", handles[i], handles[j])
			}
		}
	}

	if registry.Count() != 4 {
		t.Errorf("Expected 4 types, got %d", registry.Count())
	}
}

func TestTypeRegistry_VectorDeduplication(t *testing.T) {
	registry := NewTypeRegistry()

	scalar := ScalarType{Kind: ScalarFloat, Width: 32}
	vec4_1 := registry.GetOrCreate("", VectorType{Size: Vec4, Scalar: scalar})
	vec4_2 := registry.GetOrCreate("", VectorType{Size: Vec4, Scalar: scalar})

	if vec4_1 != vec4_2 {
		t.Errorf("Expected same handle for identical vector types, got %d and %d", vec4_1, vec4_2)
	}

	if registry.Count() != 1 {
		t.Errorf("Expected 1 type, got %d", registry.Count())
	}
}

func TestTypeRegistry_DifferentVectors(t *testing.T) {
	registry := NewTypeRegistry()

	f32 := ScalarType{Kind: ScalarFloat, Width: 32}
	i32 := ScalarType{Kind: ScalarSint, Width: 32}

	vec4f32 := registry.GetOrCreate("", VectorType{Size: Vec4, Scalar: f32})
	vec3f32 := registry.GetOrCreate("", VectorType{Size: Vec3, Scalar: f32})
	vec4i32 := registry.GetOrCreate("", VectorType{Size: Vec4, Scalar: i32})

	if vec4f32 == vec3f32 {
		t.Error("vec4<f32> should differ from vec3<f32>")
	}
	if vec4f32 == vec4i32 {
		t.Error("vec4<f32> should differ from vec4<i32>")
	}
	if vec3f32 == vec4i32 {
		t.Error("vec3<f32> should differ from vec4<i32>")
	}

	if registry.Count() != 3 {
		t.Errorf("Expected 3 types, got %d", registry.Count())
	}
}

func TestTypeRegistry_ArrayDeduplication(t *testing.T) {
	registry := NewTypeRegistry()

	f32 := registry.GetOrCreate("f32", ScalarType{Kind: ScalarFloat, Width: 32})

	size := uint32(10)
	array1 := registry.GetOrCreate("", ArrayType{Base: f32, Size: ArraySize{Constant: &size}, Stride: 4})
	array2 := registry.GetOrCreate("", ArrayType{Base: f32, Size: ArraySize{Constant: &size}, Stride: 4})

	if array1 != array2 {
		t.Errorf("Expected same handle for identical array types, got %d and %d", array1, array2)
	}

	if registry.Count() != 2 {
		t.Errorf("Expected 2 types, got %d", registry.Count())
	}
}

func TestTypeRegistry_RuntimeArrayDiffersFromSized(t *testing.T) {
	registry := NewTypeRegistry()

	f32 := registry.GetOrCreate("f32", ScalarType{Kind: ScalarFloat, Width: 32})
	size := uint32(10)

	sized := registry.GetOrCreate("", ArrayType{Base: f32, Size: ArraySize{Constant: &size}, Stride: 4})
	runtime1 := registry.GetOrCreate("", RuntimeArrayType{Base: f32, Stride: 4})
	runtime2 := registry.GetOrCreate("", RuntimeArrayType{Base: f32, Stride: 4})

	if runtime1 != runtime2 {
		t.Errorf("Expected same handle for identical runtime array types, got %d and %d", runtime1, runtime2)
	}
	if sized == TypeHandle(runtime1) {
		t.Error("sized array and runtime array should not collide")
	}
	if registry.Count() != 3 {
		t.Errorf("Expected 3 types (f32, array<f32,10>, runtime_array<f32>), got %d", registry.Count())
	}
}

func TestTypeRegistry_StructBlockDecorationIsPartOfKey(t *testing.T) {
	registry := NewTypeRegistry()
	f32 := registry.GetOrCreate("f32", ScalarType{Kind: ScalarFloat, Width: 32})

	members := []StructMember{{Name: "x", Type: f32, Offset: 0}}
	plain := registry.GetOrCreate("S", StructType{Members: members, Span: 4, Block: false})
	block := registry.GetOrCreate("S", StructType{Members: members, Span: 4, Block: true})

	if plain == block {
		t.Error("Block and non-Block structs with identical members must be distinct types")
	}
}

func TestTypeRegistry_PointerDeduplicationByStorageClass(t *testing.T) {
	registry := NewTypeRegistry()
	f32 := registry.GetOrCreate("f32", ScalarType{Kind: ScalarFloat, Width: 32})

	ptrFunc1 := registry.GetOrCreate("", PointerType{Base: f32, Space: StorageClassFunction})
	ptrFunc2 := registry.GetOrCreate("", PointerType{Base: f32, Space: StorageClassFunction})
	ptrStorage := registry.GetOrCreate("", PointerType{Base: f32, Space: StorageClassStorageBuffer})

	if ptrFunc1 != ptrFunc2 {
		t.Errorf("Expected same handle for identical pointer types, got %d and %d", ptrFunc1, ptrFunc2)
	}
	if ptrFunc1 == ptrStorage {
		t.Error("Pointers with different storage classes must be distinct types")
	}
}

func TestTypeRegistry_Lookup(t *testing.T) {
	registry := NewTypeRegistry()

	f32 := registry.GetOrCreate("f32", ScalarType{Kind: ScalarFloat, Width: 32})

	typ, ok := registry.Lookup(f32)
	if !ok {
		t.Error("Expected to find registered type")
	}
	if typ.Name != "f32" {
		t.Errorf("Expected name 'f32', got '%s'", typ.Name)
	}

	if _, ok := registry.Lookup(TypeHandle(999)); ok {
		t.Error("Expected not to find invalid handle")
	}
}

func TestConstantRegistry_ScalarDeduplication(t *testing.T) {
	registry := NewConstantRegistry()
	typeRegistry := NewTypeRegistry()
	i32 := typeRegistry.GetOrCreate("i32", ScalarType{Kind: ScalarSint, Width: 32})

	c1 := registry.GetOrCreate("", i32, ScalarValue{Bits: 42, Kind: ScalarSint})
	c2 := registry.GetOrCreate("", i32, ScalarValue{Bits: 42, Kind: ScalarSint})
	c3 := registry.GetOrCreate("", i32, ScalarValue{Bits: 43, Kind: ScalarSint})

	if c1 != c2 {
		t.Errorf("Expected same handle for identical constants, got %d and %d", c1, c2)
	}
	if c1 == c3 {
		t.Error("Different constant values must get different handles")
	}
	if registry.Constants()[0].Value.(ScalarValue).Bits != 42 {
		t.Error("stored constant value mismatch")
	}
}

func TestConstantRegistry_CompositeDeduplication(t *testing.T) {
	registry := NewConstantRegistry()
	typeRegistry := NewTypeRegistry()
	vec := typeRegistry.GetOrCreate("", VectorType{Size: Vec2, Scalar: ScalarType{Kind: ScalarFloat, Width: 32}})

	a := registry.GetOrCreate("", 0, ScalarValue{Bits: 0, Kind: ScalarFloat})
	b := registry.GetOrCreate("", 0, ScalarValue{Bits: 1, Kind: ScalarFloat})

	comp1 := registry.GetOrCreate("", vec, CompositeValue{Components: []ConstantHandle{a, b}})
	comp2 := registry.GetOrCreate("", vec, CompositeValue{Components: []ConstantHandle{a, b}})

	if comp1 != comp2 {
		t.Errorf("Expected same handle for identical composite constants, got %d and %d", comp1, comp2)
	}
}
