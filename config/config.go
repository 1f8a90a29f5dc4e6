package config

import "github.com/gogpu/wasm2spirv/ir"

// ExecutionModel is the SPIR-V execution model a function's entry
// point is emitted under.
type ExecutionModel uint8

const (
	ExecutionModelVertex ExecutionModel = iota
	ExecutionModelFragment
	ExecutionModelGLCompute
)

// ExecutionMode is one OpExecutionMode to attach to an entry point.
// Only the fields relevant to the named Mode are meaningful — mirrors
// spec.md §6's `{ "local_size": [x,y,z] }` single-key-object shape as
// a closed Go variant instead.
type ExecutionMode struct {
	Mode          ExecutionModeKind
	LocalSize     [3]uint32
	OriginUpperLeft bool
}

// ExecutionModeKind tags which ExecutionMode field is populated.
type ExecutionModeKind uint8

const (
	ExecutionModeLocalSize ExecutionModeKind = iota
	ExecutionModeOriginUpperLeft
)

// MemoryGrowErrorKind selects how `memory.grow` is lowered (spec.md
// §9, Open Question resolved in DESIGN.md): Soft returns the sentinel
// constant -1; Hard rejects the module outright.
type MemoryGrowErrorKind uint8

const (
	MemoryGrowSoft MemoryGrowErrorKind = iota
	MemoryGrowHard
)

// FunctionConfig is one exported Wasm function's entry-point
// configuration: execution model, execution modes, and per-parameter
// bindings (spec.md §6 "functions" map).
type FunctionConfig struct {
	ExecutionModel ExecutionModel
	ExecutionModes []ExecutionMode
	Params         map[uint32]ParamConfig
}

// Config is the frozen, immutable snapshot of one compilation request
// (spec.md §3 "ModuleContext" fields that originate from the caller,
// plus the per-function entry-point configuration spec.md §6
// describes). Config never changes after construction; Builder
// produces new values rather than mutating in place.
type Config struct {
	Target              ir.Target
	Addressing          ir.AddressingModel
	Memory              ir.MemoryModel
	Capabilities        ir.CapabilityPolicy
	Extensions          ir.ExtensionPolicy
	Functions           map[uint32]FunctionConfig
	MemoryGrowErrorKind MemoryGrowErrorKind

	// LinearMemoryBinding is the descriptor set/binding the module's
	// own Wasm linear memory is materialized at, when the module
	// declares a memory section (spec.md §4.2: "a user-chosen
	// descriptor set/binding"). Ignored when the module has no memory.
	LinearMemoryBinding ir.ResourceBinding
	// LinearMemoryByteAddressed selects runtime_array<u8> over the
	// default runtime_array<u32> backing the linear memory resource.
	LinearMemoryByteAddressed bool
}

// DefaultConfig returns a Config matching the common case: Vulkan 1.1,
// logical addressing, GLSL450 memory model, dynamic capability policy
// seeded from nothing, no declared extensions, no functions, and Soft
// memory.grow handling — the same "start from something reasonable,
// override what you need" posture as the teacher's DefaultOptions.
func DefaultConfig() Config {
	return Config{
		Target:              ir.Target{Platform: ir.PlatformVulkan, VersionMajor: 1, VersionMinor: 1},
		Addressing:          ir.AddressingLogical,
		Memory:              ir.MemoryModelGLSL450,
		Capabilities:        ir.NewDynamicCapabilityPolicy(),
		Extensions:          ir.ExtensionPolicy{Kind: ir.ExtensionDynamic, Set: map[string]bool{}},
		Functions:           map[uint32]FunctionConfig{},
		MemoryGrowErrorKind: MemoryGrowSoft,
	}
}
