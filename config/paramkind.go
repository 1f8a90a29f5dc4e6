package config

import "github.com/gogpu/wasm2spirv/ir"

// ParamKind is the discriminated union spec.md §9 calls for: the
// config's parameter schema arrives as an untyped tree, so it is
// parsed once into this closed tag set rather than carried as a map
// all the way to the translator.
type ParamKind interface {
	paramKind()
}

// DescriptorSetBinding binds a parameter to a storage-class resource
// at a Vulkan descriptor set/binding pair.
type DescriptorSetBinding struct {
	Set          uint32
	Binding      uint32
	StorageClass ir.StorageClass
}

func (DescriptorSetBinding) paramKind() {}

// PushConstantBinding binds a parameter to a byte offset within the
// entry point's push-constant block.
type PushConstantBinding struct {
	Offset uint32
}

func (PushConstantBinding) paramKind() {}

// BuiltinBinding binds a parameter to a built-in Input variable.
type BuiltinBinding struct {
	Builtin ir.BuiltinValue
}

func (BuiltinBinding) paramKind() {}

// InlineBinding marks a parameter as not materialized at an entry
// point interface at all — it is produced purely from Wasm-level
// computation (e.g. a plain scalar parameter of a non-entry function).
type InlineBinding struct{}

func (InlineBinding) paramKind() {}

// PointerSize discriminates how a ParamConfig's pointer-shaped
// parameter is represented (spec.md §3 ParamConfig).
type PointerSize uint8

const (
	// PointerThin represents a DescriptorSetBinding parameter with both
	// an integer and a pointer representation live at once (the
	// Schrödinger case, see translate/schrodinger.go) rather than
	// committing to one shape up front.
	PointerThin PointerSize = iota
	// PointerFat represents the parameter as a real SPIR-V pointer
	// from the start.
	PointerFat
)

// ParamConfig is one Wasm function parameter's binding, as spec.md §3
// "ParamConfig" describes: the element type, the binding kind, and a
// pointer-size discriminator.
//
// Type is a plain ir.ScalarType rather than an ir.TypeHandle: a
// Config is built (by NewBuilder or LoadJSON) before any
// ir.ModuleContext exists for it to be a handle into, so a
// ParamConfig can only carry the type's shape — the Module Assembler
// interns it into its own registry at compile time (spec.md §4.5).
type ParamConfig struct {
	Type        ir.ScalarType
	Kind        ParamKind
	PointerSize PointerSize
}
