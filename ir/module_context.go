package ir

import "fmt"

// AddressingModel is the SPIR-V addressing model a ModuleContext
// targets (spec.md §3). It governs whether pointers are logical
// handles or real machine addresses.
type AddressingModel uint8

const (
	AddressingLogical AddressingModel = iota
	AddressingPhysical
	AddressingPhysicalStorageBuffer
)

// MemoryModel is the SPIR-V memory model declared by OpMemoryModel.
type MemoryModel uint8

const (
	MemoryModelSimple MemoryModel = iota
	MemoryModelGLSL450
	MemoryModelOpenCL
	MemoryModelVulkan
)

// Platform is the target execution environment family (spec.md §3
// "Target = (platform, version)").
type Platform uint8

const (
	PlatformUniversal Platform = iota
	PlatformVulkan
)

// Target identifies the SPIR-V environment a module is assembled for.
type Target struct {
	Platform     Platform
	VersionMajor uint8
	VersionMinor uint8
}

// AtLeast reports whether the target's SPIR-V version is >= major.minor.
func (t Target) AtLeast(major, minor uint8) bool {
	if t.VersionMajor != major {
		return t.VersionMajor > major
	}
	return t.VersionMinor >= minor
}

// CapabilityPolicyKind distinguishes the two capability-accumulation
// disciplines spec.md §3/§4.1 describe.
type CapabilityPolicyKind uint8

const (
	// CapabilityStatic rejects any capability requirement outside a
	// fixed, user-declared allow-list.
	CapabilityStatic CapabilityPolicyKind = iota
	// CapabilityDynamic accumulates whatever capabilities emission
	// demands, seeded by an initial set.
	CapabilityDynamic
)

// CapabilityPolicy governs how ModuleContext.RequireCapability reacts
// to a capability demand that isn't already on file.
type CapabilityPolicy struct {
	Kind CapabilityPolicyKind
	Set  map[uint32]bool // capability id -> declared/accumulated
}

// NewStaticCapabilityPolicy returns a policy that rejects any
// capability not in the given allow-list.
func NewStaticCapabilityPolicy(allowed ...uint32) CapabilityPolicy {
	set := make(map[uint32]bool, len(allowed))
	for _, c := range allowed {
		set[c] = true
	}
	return CapabilityPolicy{Kind: CapabilityStatic, Set: set}
}

// NewDynamicCapabilityPolicy returns a policy that starts from the
// given seed set and grows as emission demands more capabilities.
func NewDynamicCapabilityPolicy(seed ...uint32) CapabilityPolicy {
	set := make(map[uint32]bool, len(seed))
	for _, c := range seed {
		set[c] = true
	}
	return CapabilityPolicy{Kind: CapabilityDynamic, Set: set}
}

// LinearMemoryDescriptor is the Wasm module's declared memory section
// (spec.md §3 "Declared linear memory descriptor"), carried on
// ModuleContext so the resources package can materialize it without
// re-threading the Wasm module through every translation stage.
type LinearMemoryDescriptor struct {
	InitialPages uint32
	MaxPages     *uint32 // nil: unbounded
	ByteAddressed bool   // true: runtime_array<u8>; false: runtime_array<u32>
}

// ModuleContext is the root of ownership for one compilation: it owns
// the type/constant registries, the accumulated capability/extension
// sets, and the configuration that was frozen in at construction time
// (spec.md §3 "ModuleContext", §3 "Lifecycle"). It is built once per
// compilation and never mutated after emission completes.
type ModuleContext struct {
	Addressing AddressingModel
	Memory     MemoryModel
	Target     Target

	Types     *TypeRegistry
	Constants *ConstantRegistry
	Decorations *DecorationTable

	globals []GlobalVariable

	capabilities CapabilityPolicy
	extensions   ExtensionPolicy

	LinearMemory *LinearMemoryDescriptor // nil: module declares no memory

	frozen bool
}

// DeclareVariable registers a module-scope OpVariable (spec.md §4.1
// "declare_variable"). Unlike types and constants, variables in
// mutable storage classes are never deduplicated — each call allocates
// a fresh GlobalVariableHandle even for an identical GlobalVariable
// value.
func (m *ModuleContext) DeclareVariable(v GlobalVariable) GlobalVariableHandle {
	handle := GlobalVariableHandle(len(m.globals))
	m.globals = append(m.globals, v)
	return handle
}

// GlobalVariables returns all declared variables in allocation order.
func (m *ModuleContext) GlobalVariables() []GlobalVariable {
	return m.globals
}

// GlobalVariable looks up a previously declared variable by handle.
func (m *ModuleContext) GlobalVariable(handle GlobalVariableHandle) (GlobalVariable, bool) {
	if int(handle) >= len(m.globals) {
		return GlobalVariable{}, false
	}
	return m.globals[handle], true
}

// ExtensionPolicyKind mirrors CapabilityPolicyKind for SPIR-V
// extension strings (spec.md §4.1 "require_extension: same policy").
type ExtensionPolicyKind uint8

const (
	ExtensionStatic ExtensionPolicyKind = iota
	ExtensionDynamic
)

// ExtensionPolicy governs ModuleContext.RequireExtension the same way
// CapabilityPolicy governs RequireCapability.
type ExtensionPolicy struct {
	Kind ExtensionPolicyKind
	Set  map[string]bool
}

// NewModuleContext constructs a fresh, unfrozen ModuleContext.
func NewModuleContext(addressing AddressingModel, memory MemoryModel, target Target, capabilities CapabilityPolicy, extensions ExtensionPolicy) *ModuleContext {
	return &ModuleContext{
		Addressing:   addressing,
		Memory:       memory,
		Target:       target,
		Types:        NewTypeRegistry(),
		Constants:    NewConstantRegistry(),
		Decorations:  NewDecorationTable(),
		capabilities: capabilities,
		extensions:   extensions,
	}
}

// RequireCapability enforces spec.md §4.1's require_capability
// operation: under Static policy a capability outside the declared
// allow-list is a fatal ConfigError; under Dynamic it is recorded.
func (m *ModuleContext) RequireCapability(cap uint32) error {
	if m.capabilities.Set[cap] {
		return nil
	}
	if m.capabilities.Kind == CapabilityStatic {
		return fmt.Errorf("capability %d not permitted under static capability policy", cap)
	}
	m.capabilities.Set[cap] = true
	return nil
}

// RequireExtension enforces the extension-set analog of
// RequireCapability.
func (m *ModuleContext) RequireExtension(name string) error {
	if m.extensions.Set[name] {
		return nil
	}
	if m.extensions.Kind == ExtensionStatic {
		return fmt.Errorf("extension %q not permitted under static extension policy", name)
	}
	m.extensions.Set[name] = true
	return nil
}

// Capabilities returns the capability set accumulated or declared so
// far, in no particular order — the assembler sorts before emission
// (Testable Property 1, deterministic output).
func (m *ModuleContext) Capabilities() []uint32 {
	out := make([]uint32, 0, len(m.capabilities.Set))
	for c := range m.capabilities.Set {
		out = append(out, c)
	}
	return out
}

// Extensions returns the extension set accumulated or declared so far.
func (m *ModuleContext) Extensions() []string {
	out := make([]string, 0, len(m.extensions.Set))
	for e := range m.extensions.Set {
		out = append(out, e)
	}
	return out
}

// Freeze marks the context closed to further capability/extension
// growth and type/constant interning (spec.md §3 "frozen at end of
// emission"). Freeze is advisory: callers that continue to call
// RequireCapability/RequireExtension/Types.GetOrCreate after Freeze
// are a programmer error, not guarded against at runtime, matching
// the teacher's registry (no defensive checks against misuse of an
// already-built ModuleBuilder).
func (m *ModuleContext) Freeze() {
	m.frozen = true
}

// Frozen reports whether Freeze has been called.
func (m *ModuleContext) Frozen() bool {
	return m.frozen
}
