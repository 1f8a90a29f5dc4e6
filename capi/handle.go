package capi

import (
	"github.com/gogpu/wasm2spirv"
	"github.com/gogpu/wasm2spirv/config"
)

var (
	builders     = newRegistry() // config.Builder
	configs      = newRegistry() // config.Config
	fnBuilders   = newRegistry() // config.FunctionConfigBuilder
	fnConfigs    = newRegistry() // config.FunctionConfig
	compilations = newRegistry() // []byte (assembled SPIR-V)
)

// NewConfigBuilder allocates a ConfigBuilderHandle seeded with
// config.DefaultConfig's starting point.
func NewConfigBuilder() ConfigBuilderHandle {
	return ConfigBuilderHandle(builders.put(config.NewBuilder()))
}

// ConfigBuilderHandle is an opaque reference to a config.Builder.
type ConfigBuilderHandle Handle

func (h ConfigBuilderHandle) builder() (config.Builder, bool) {
	v, ok := builders.get(Handle(h))
	if !ok {
		return config.Builder{}, false
	}
	b, ok := v.(config.Builder)
	return b, ok
}

// WithMemoryGrowErrorKind replaces the builder behind h in place,
// mirroring the fluent With* methods config.Builder exposes directly
// to Go callers — a foreign caller reaches the same surface through a
// handle instead of a value receiver chain.
func (h ConfigBuilderHandle) WithMemoryGrowErrorKind(kind config.MemoryGrowErrorKind) error {
	b, ok := h.builder()
	if !ok {
		return errInvalidHandle
	}
	builders.replace(Handle(h), b.WithMemoryGrowErrorKind(kind))
	return nil
}

// WithFunction attaches fnHandle's built FunctionConfig at funcIdx.
func (h ConfigBuilderHandle) WithFunction(funcIdx uint32, fnHandle FunctionConfigHandle) error {
	b, ok := h.builder()
	if !ok {
		return errInvalidHandle
	}
	fc, ok := fnConfigs.get(Handle(fnHandle))
	if !ok {
		return errInvalidHandle
	}
	builders.replace(Handle(h), b.WithFunction(funcIdx, fc.(config.FunctionConfig)))
	return nil
}

// Build finalizes the builder into an immutable ConfigHandle. The
// builder handle remains valid (config.Builder.Build does not
// consume its receiver) and may still be further extended.
func (h ConfigBuilderHandle) Build() (ConfigHandle, error) {
	b, ok := h.builder()
	if !ok {
		return 0, errInvalidHandle
	}
	return ConfigHandle(configs.put(b.Build())), nil
}

// Release removes h from the registry. Handle ids are never reissued,
// so using h after Release fails with an invalid-handle error.
func (h ConfigBuilderHandle) Release() {
	builders.release(Handle(h))
}

// ConfigHandle is an opaque reference to a frozen config.Config.
type ConfigHandle Handle

func (h ConfigHandle) value() (config.Config, bool) {
	v, ok := configs.get(Handle(h))
	if !ok {
		return config.Config{}, false
	}
	c, ok := v.(config.Config)
	return c, ok
}

// Release returns h's slot to the registry.
func (h ConfigHandle) Release() {
	configs.release(Handle(h))
}

// NewFunctionConfigBuilder allocates a FunctionConfigBuilderHandle for
// the given execution model.
func NewFunctionConfigBuilder(model config.ExecutionModel) FunctionConfigBuilderHandle {
	return FunctionConfigBuilderHandle(fnBuilders.put(config.NewFunctionConfigBuilder(model)))
}

// FunctionConfigBuilderHandle is an opaque reference to a
// config.FunctionConfigBuilder.
type FunctionConfigBuilderHandle Handle

func (h FunctionConfigBuilderHandle) builder() (config.FunctionConfigBuilder, bool) {
	v, ok := fnBuilders.get(Handle(h))
	if !ok {
		return config.FunctionConfigBuilder{}, false
	}
	b, ok := v.(config.FunctionConfigBuilder)
	return b, ok
}

// WithParam attaches pc at paramIdx on the builder behind h.
func (h FunctionConfigBuilderHandle) WithParam(paramIdx uint32, pc config.ParamConfig) error {
	b, ok := h.builder()
	if !ok {
		return errInvalidHandle
	}
	fnBuilders.replace(Handle(h), b.WithParam(paramIdx, pc))
	return nil
}

// WithExecutionMode attaches mode on the builder behind h.
func (h FunctionConfigBuilderHandle) WithExecutionMode(mode config.ExecutionMode) error {
	b, ok := h.builder()
	if !ok {
		return errInvalidHandle
	}
	fnBuilders.replace(Handle(h), b.WithExecutionMode(mode))
	return nil
}

// Build finalizes the builder into a FunctionConfigHandle.
func (h FunctionConfigBuilderHandle) Build() (FunctionConfigHandle, error) {
	b, ok := h.builder()
	if !ok {
		return 0, errInvalidHandle
	}
	return FunctionConfigHandle(fnConfigs.put(b.Build())), nil
}

// Release returns h's slot to the registry.
func (h FunctionConfigBuilderHandle) Release() {
	fnBuilders.release(Handle(h))
}

// FunctionConfigHandle is an opaque reference to a config.FunctionConfig.
type FunctionConfigHandle Handle

// Release returns h's slot to the registry.
func (h FunctionConfigHandle) Release() {
	fnConfigs.release(Handle(h))
}

// CompilationHandle is an opaque reference to one assembled SPIR-V
// module, the foreign-facing handle for Compile's result.
type CompilationHandle Handle

// Bytes returns the assembled SPIR-V binary behind h. The returned
// slice aliases the registry's copy; callers must not mutate it.
func (h CompilationHandle) Bytes() ([]byte, bool) {
	v, ok := compilations.get(Handle(h))
	if !ok {
		return nil, false
	}
	b, ok := v.([]byte)
	return b, ok
}

// Release returns h's slot to the registry.
func (h CompilationHandle) Release() {
	compilations.release(Handle(h))
}

// Compile decodes wasm and translates it under the config behind
// cfgHandle, depositing any failure into the per-thread last-error
// slot (see lasterror.go) rather than returning a Go error directly —
// the shape a cgo-exported function boundary requires, since an error
// interface value cannot itself cross that boundary.
func Compile(threadToken any, cfgHandle ConfigHandle, wasm []byte) (CompilationHandle, bool) {
	cfg, ok := cfgHandle.value()
	if !ok {
		setLastError(threadToken, errInvalidHandle.Error())
		return 0, false
	}
	spirvBytes, err := wasm2spirv.Compile(wasm, cfg)
	if err != nil {
		setLastError(threadToken, err.Error())
		return 0, false
	}
	return CompilationHandle(compilations.put(spirvBytes)), true
}
