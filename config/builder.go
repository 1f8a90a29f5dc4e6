package config

import "github.com/gogpu/wasm2spirv/ir"

// Builder constructs a Config through copy-and-return With* calls, the
// same fluent style as the teacher's BindTarget (hlsl/bind_target.go):
// each With* method returns a modified copy, so a partially configured
// Builder can be safely reused as a template for several variants.
type Builder struct {
	cfg Config
}

// NewBuilder starts from DefaultConfig.
func NewBuilder() Builder {
	return Builder{cfg: DefaultConfig()}
}

// WithTarget sets the target platform and SPIR-V version.
func (b Builder) WithTarget(target ir.Target) Builder {
	b.cfg.Target = target
	return b
}

// WithAddressing sets the addressing model.
func (b Builder) WithAddressing(model ir.AddressingModel) Builder {
	b.cfg.Addressing = model
	return b
}

// WithMemoryModel sets the SPIR-V memory model.
func (b Builder) WithMemoryModel(model ir.MemoryModel) Builder {
	b.cfg.Memory = model
	return b
}

// WithCapabilities replaces the capability policy.
func (b Builder) WithCapabilities(policy ir.CapabilityPolicy) Builder {
	b.cfg.Capabilities = policy
	return b
}

// WithExtensions replaces the extension policy.
func (b Builder) WithExtensions(policy ir.ExtensionPolicy) Builder {
	b.cfg.Extensions = policy
	return b
}

// WithMemoryGrowErrorKind sets the memory.grow lowering policy.
func (b Builder) WithMemoryGrowErrorKind(kind MemoryGrowErrorKind) Builder {
	b.cfg.MemoryGrowErrorKind = kind
	return b
}

// WithFunction attaches or replaces the entry-point configuration for
// one Wasm function index.
func (b Builder) WithFunction(funcIdx uint32, fc FunctionConfig) Builder {
	functions := make(map[uint32]FunctionConfig, len(b.cfg.Functions)+1)
	for k, v := range b.cfg.Functions {
		functions[k] = v
	}
	functions[funcIdx] = fc
	b.cfg.Functions = functions
	return b
}

// Build returns the finished, immutable Config.
func (b Builder) Build() Config {
	return b.cfg
}

// FunctionConfigBuilder is the same fluent pattern, scoped to one
// FunctionConfig, matching spec.md §6's foreign handle ABI entry
// "function-config-builder" as a distinct opaque object from Builder.
type FunctionConfigBuilder struct {
	fc FunctionConfig
}

// NewFunctionConfigBuilder starts from an empty FunctionConfig with
// the given execution model.
func NewFunctionConfigBuilder(model ExecutionModel) FunctionConfigBuilder {
	return FunctionConfigBuilder{fc: FunctionConfig{
		ExecutionModel: model,
		Params:         map[uint32]ParamConfig{},
	}}
}

// WithExecutionMode appends an execution mode.
func (b FunctionConfigBuilder) WithExecutionMode(mode ExecutionMode) FunctionConfigBuilder {
	b.fc.ExecutionModes = append(append([]ExecutionMode{}, b.fc.ExecutionModes...), mode)
	return b
}

// WithParam binds one parameter index.
func (b FunctionConfigBuilder) WithParam(paramIdx uint32, pc ParamConfig) FunctionConfigBuilder {
	params := make(map[uint32]ParamConfig, len(b.fc.Params)+1)
	for k, v := range b.fc.Params {
		params[k] = v
	}
	params[paramIdx] = pc
	b.fc.Params = params
	return b
}

// Build returns the finished FunctionConfig.
func (b FunctionConfigBuilder) Build() FunctionConfig {
	return b.fc
}
