package ir

// Handle types for referencing registry entries. Monotonically
// assigned by the owning registry; never reused within a module.
type (
	TypeHandle           uint32
	ConstantHandle       uint32
	GlobalVariableHandle uint32
)

// Type pairs an optional debug name with its structural shape.
type Type struct {
	Name  string
	Inner TypeInner
}

// TypeInner is the tagged variant of SPIR-V type shapes this
// translator emits. Structural equality (see TypeRegistry) dedupes
// two Inner values that describe the same logical type.
type TypeInner interface {
	typeInner()
}

// ScalarType covers void-adjacent scalars: bool, signed/unsigned
// integers of a given bit width, and floats of a given bit width.
type ScalarType struct {
	Kind  ScalarKind
	Width uint8 // bits: 8, 16, 32, or 64 (0 for Void/Bool)
}

func (ScalarType) typeInner() {}

// ScalarKind distinguishes the scalar families SPIR-V models with
// distinct opcodes (OpTypeInt's signedness bit, OpTypeFloat, OpTypeBool).
type ScalarKind uint8

const (
	ScalarVoid ScalarKind = iota
	ScalarBool
	ScalarSint
	ScalarUint
	ScalarFloat
)

// VectorType is OpTypeVector.
type VectorType struct {
	Size   VectorSize
	Scalar ScalarType
}

func (VectorType) typeInner() {}

// VectorSize enumerates SPIR-V's supported vector component counts.
type VectorSize uint8

const (
	Vec2 VectorSize = 2
	Vec3 VectorSize = 3
	Vec4 VectorSize = 4
)

// MatrixType is OpTypeMatrix: Columns column-vectors of Rows Scalars.
type MatrixType struct {
	Columns VectorSize
	Rows    VectorSize
	Scalar  ScalarType
}

func (MatrixType) typeInner() {}

// ArrayType is OpTypeArray with the element count Size.Constant.
// Runtime-sized arrays are RuntimeArrayType instead.
type ArrayType struct {
	Base   TypeHandle
	Size   ArraySize
	Stride uint32 // ArrayStride decoration, in bytes
}

func (ArrayType) typeInner() {}

// ArraySize holds a known element count, or nil for a runtime-sized
// tail member (OpTypeRuntimeArray).
type ArraySize struct {
	Constant *uint32
}

// RuntimeArrayType is OpTypeRuntimeArray: the tail member of a
// Block-decorated struct backing a storage buffer.
type RuntimeArrayType struct {
	Base   TypeHandle
	Stride uint32
}

func (RuntimeArrayType) typeInner() {}

// StructType is OpTypeStruct. Block is true when the struct must
// carry the Block (or BufferBlock, spec.md Open Question 2) decoration
// because it is the pointee of a Uniform/StorageBuffer variable.
type StructType struct {
	Members []StructMember
	Span    uint32 // total byte size, for validation
	Block   bool
}

func (StructType) typeInner() {}

// StructMember is one field of a StructType, with its byte Offset
// (OpMemberDecorate ... Offset) and optional shader interface Binding.
type StructMember struct {
	Name    string
	Type    TypeHandle
	Offset  uint32
	Binding Binding // nil when the member carries no shader interface attachment
}

// PointerType is OpTypePointer. Two pointers with the same Base but
// different Space are distinct SPIR-V types — this is the whole
// reason storage classes must be threaded through the type system
// rather than treated as a decoration.
type PointerType struct {
	Base  TypeHandle
	Space StorageClass
}

func (PointerType) typeInner() {}

// StorageClass is SPIR-V's pointer storage class (spec.md §3). Two
// pointer types differing only in StorageClass are different ids.
type StorageClass uint8

const (
	StorageClassUniformConstant StorageClass = iota
	StorageClassInput
	StorageClassOutput
	StorageClassStorageBuffer
	StorageClassUniform
	StorageClassWorkgroup
	StorageClassPushConstant
	StorageClassPrivate
	StorageClassFunction
	StorageClassGeneric
	StorageClassImage
	StorageClassPhysicalStorageBuffer
)

// Binding represents shader interface attachments: a built-in
// variable or a user-assigned location.
type Binding interface {
	binding()
}

// BuiltinBinding ties a struct member or parameter to a SPIR-V BuiltIn.
type BuiltinBinding struct {
	Builtin BuiltinValue
}

func (BuiltinBinding) binding() {}

// BuiltinValue enumerates the built-ins this translator recognizes,
// covering the compute/fragment/vertex set spec.md's scenarios
// (S1, S3) exercise plus the remaining MVP-relevant built-ins.
type BuiltinValue uint8

const (
	BuiltinPosition BuiltinValue = iota
	BuiltinVertexIndex
	BuiltinInstanceIndex
	BuiltinFrontFacing
	BuiltinFragDepth
	BuiltinSampleIndex
	BuiltinSampleMask
	BuiltinLocalInvocationID
	BuiltinLocalInvocationIndex
	BuiltinGlobalInvocationID
	BuiltinWorkGroupID
	BuiltinNumWorkGroups
)

// LocationBinding ties a struct member or parameter to a numbered
// interface location (OpDecorate ... Location).
type LocationBinding struct {
	Location uint32
}

func (LocationBinding) binding() {}

// Constant is a module-scope constant value (OpConstant /
// OpConstantComposite).
type Constant struct {
	Name  string
	Type  TypeHandle
	Value ConstantValue
}

// ConstantValue is the tagged variant of constant payload shapes.
type ConstantValue interface {
	constantValue()
}

// ScalarValue is a scalar constant, stored as raw bits so that float
// NaN/Inf bit patterns round-trip exactly.
type ScalarValue struct {
	Bits uint64
	Kind ScalarKind
}

func (ScalarValue) constantValue() {}

// CompositeValue is OpConstantComposite: an ordered list of
// already-registered constants.
type CompositeValue struct {
	Components []ConstantHandle
}

func (CompositeValue) constantValue() {}

// GlobalVariable is a module-scope OpVariable: the materialized
// linear-memory buffer, a descriptor-set resource, or a built-in
// Input/Output variable (see the resources package).
type GlobalVariable struct {
	Name    string
	Space   StorageClass
	Binding *ResourceBinding
	Type    TypeHandle // pointee type; the pointer type is derived
	Init    *ConstantHandle
}

// ResourceBinding is a Vulkan descriptor set/binding pair
// (DescriptorSet/Binding decorations).
type ResourceBinding struct {
	Group   uint32
	Binding uint32
}
