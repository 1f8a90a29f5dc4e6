package config

import (
	"encoding/json"
	"fmt"

	"github.com/gogpu/wasm2spirv/ir"
	"github.com/gogpu/wasm2spirv/spirv"
)

// jsonDoc mirrors spec.md §6's JSON config schema field-for-field. It
// exists only as an intermediate decode target — LoadJSON converts it
// into the closed Config/ParamKind types the rest of the translator
// consumes, rejecting unknown tags at load time per spec.md §9
// "Dynamic-like parameter binding".
type jsonDoc struct {
	Platform        map[string]string         `json:"platform"`
	AddressingModel string                     `json:"addressing_model"`
	MemoryModel     string                     `json:"memory_model"`
	Capabilities    map[string][]string        `json:"capabilities"`
	Extensions      []string                   `json:"extensions"`
	Functions       map[string]jsonFunctionCfg `json:"functions"`
}

type jsonFunctionCfg struct {
	ExecutionModel string                   `json:"execution_model"`
	ExecutionModes []map[string]interface{} `json:"execution_modes"`
	Params         map[string]jsonParamCfg  `json:"params"`
}

type jsonParamCfg struct {
	Type string                 `json:"type"`
	Kind map[string]interface{} `json:"kind"`
}

// LoadJSON parses a JSON configuration document into a Config.
func LoadJSON(data []byte) (Config, error) {
	var doc jsonDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	target, err := parsePlatform(doc.Platform)
	if err != nil {
		return Config{}, err
	}
	addressing, err := parseAddressingModel(doc.AddressingModel)
	if err != nil {
		return Config{}, err
	}
	memModel, err := parseMemoryModel(doc.MemoryModel)
	if err != nil {
		return Config{}, err
	}
	capabilities, err := parseCapabilities(doc.Capabilities)
	if err != nil {
		return Config{}, err
	}
	extensions := ir.ExtensionPolicy{Kind: ir.ExtensionDynamic, Set: map[string]bool{}}
	for _, e := range doc.Extensions {
		extensions.Set[e] = true
	}

	functions := make(map[uint32]FunctionConfig, len(doc.Functions))
	for idxStr, jfc := range doc.Functions {
		idx, err := parseFuncIndex(idxStr)
		if err != nil {
			return Config{}, err
		}
		fc, err := parseFunctionConfig(jfc)
		if err != nil {
			return Config{}, fmt.Errorf("function %s: %w", idxStr, err)
		}
		functions[idx] = fc
	}

	return Config{
		Target:       target,
		Addressing:   addressing,
		Memory:       memModel,
		Capabilities: capabilities,
		Extensions:   extensions,
		Functions:    functions,
	}, nil
}

func parseFuncIndex(s string) (uint32, error) {
	var idx uint32
	if _, err := fmt.Sscanf(s, "%d", &idx); err != nil {
		return 0, fmt.Errorf("invalid function index %q: %w", s, err)
	}
	return idx, nil
}

func parsePlatform(p map[string]string) (ir.Target, error) {
	for platformName, version := range p {
		var platform ir.Platform
		switch platformName {
		case "vulkan":
			platform = ir.PlatformVulkan
		case "universal":
			platform = ir.PlatformUniversal
		default:
			return ir.Target{}, fmt.Errorf("unknown platform %q", platformName)
		}
		var major, minor uint8
		if _, err := fmt.Sscanf(version, "%d.%d", &major, &minor); err != nil {
			return ir.Target{}, fmt.Errorf("invalid version %q: %w", version, err)
		}
		return ir.Target{Platform: platform, VersionMajor: major, VersionMinor: minor}, nil
	}
	return ir.Target{}, fmt.Errorf("missing platform")
}

func parseAddressingModel(s string) (ir.AddressingModel, error) {
	switch s {
	case "logical":
		return ir.AddressingLogical, nil
	case "physical":
		return ir.AddressingPhysical, nil
	case "physical_storage_buffer":
		return ir.AddressingPhysicalStorageBuffer, nil
	default:
		return 0, fmt.Errorf("unknown addressing_model %q", s)
	}
}

func parseMemoryModel(s string) (ir.MemoryModel, error) {
	switch s {
	case "Simple":
		return ir.MemoryModelSimple, nil
	case "GLSL450":
		return ir.MemoryModelGLSL450, nil
	case "OpenCL":
		return ir.MemoryModelOpenCL, nil
	case "Vulkan":
		return ir.MemoryModelVulkan, nil
	default:
		return 0, fmt.Errorf("unknown memory_model %q", s)
	}
}

func parseCapabilities(m map[string][]string) (ir.CapabilityPolicy, error) {
	resolve := func(names []string) ([]uint32, error) {
		ids := make([]uint32, 0, len(names))
		for _, name := range names {
			cap, ok := spirv.CapabilityByName[name]
			if !ok {
				return nil, fmt.Errorf("unknown capability %q", name)
			}
			ids = append(ids, uint32(cap))
		}
		return ids, nil
	}

	if names, ok := m["static"]; ok {
		ids, err := resolve(names)
		if err != nil {
			return ir.CapabilityPolicy{}, err
		}
		return ir.NewStaticCapabilityPolicy(ids...), nil
	}
	if names, ok := m["dynamic"]; ok {
		ids, err := resolve(names)
		if err != nil {
			return ir.CapabilityPolicy{}, err
		}
		return ir.NewDynamicCapabilityPolicy(ids...), nil
	}
	return ir.NewDynamicCapabilityPolicy(), nil
}

// parseScalarTypeName maps a ParamConfig's "type" field (spec.md §6:
// the Wasm-level scalar a bound parameter holds) to its ir.ScalarType
// shape, the same four-type MVP surface wasmfront.ValType covers.
func parseScalarTypeName(s string) (ir.ScalarType, error) {
	switch s {
	case "i32":
		return ir.ScalarType{Kind: ir.ScalarUint, Width: 32}, nil
	case "i64":
		return ir.ScalarType{Kind: ir.ScalarUint, Width: 64}, nil
	case "f32":
		return ir.ScalarType{Kind: ir.ScalarFloat, Width: 32}, nil
	case "f64":
		return ir.ScalarType{Kind: ir.ScalarFloat, Width: 64}, nil
	default:
		return ir.ScalarType{}, fmt.Errorf("unknown param type %q", s)
	}
}

func parseExecutionModel(s string) (ExecutionModel, error) {
	switch s {
	case "Vertex":
		return ExecutionModelVertex, nil
	case "Fragment":
		return ExecutionModelFragment, nil
	case "GLCompute":
		return ExecutionModelGLCompute, nil
	default:
		return 0, fmt.Errorf("unknown execution_model %q", s)
	}
}

func parseFunctionConfig(jfc jsonFunctionCfg) (FunctionConfig, error) {
	model, err := parseExecutionModel(jfc.ExecutionModel)
	if err != nil {
		return FunctionConfig{}, err
	}

	modes := make([]ExecutionMode, 0, len(jfc.ExecutionModes))
	for _, m := range jfc.ExecutionModes {
		if raw, ok := m["local_size"]; ok {
			sizes, ok := raw.([]interface{})
			if !ok || len(sizes) != 3 {
				return FunctionConfig{}, fmt.Errorf("local_size must be a 3-element array")
			}
			var ls [3]uint32
			for i, v := range sizes {
				f, ok := v.(float64)
				if !ok {
					return FunctionConfig{}, fmt.Errorf("local_size elements must be numbers")
				}
				ls[i] = uint32(f)
			}
			modes = append(modes, ExecutionMode{Mode: ExecutionModeLocalSize, LocalSize: ls})
			continue
		}
		return FunctionConfig{}, fmt.Errorf("unknown execution mode: %v", m)
	}

	params := make(map[uint32]ParamConfig, len(jfc.Params))
	for idxStr, jpc := range jfc.Params {
		idx, err := parseFuncIndex(idxStr)
		if err != nil {
			return FunctionConfig{}, err
		}
		kind, err := parseParamKind(jpc.Kind)
		if err != nil {
			return FunctionConfig{}, fmt.Errorf("param %s: %w", idxStr, err)
		}
		scalar, err := parseScalarTypeName(jpc.Type)
		if err != nil {
			return FunctionConfig{}, fmt.Errorf("param %s: %w", idxStr, err)
		}
		params[idx] = ParamConfig{Type: scalar, Kind: kind}
	}

	return FunctionConfig{ExecutionModel: model, ExecutionModes: modes, Params: params}, nil
}

func parseParamKind(m map[string]interface{}) (ParamKind, error) {
	tag, ok := m["tag"].(string)
	if !ok {
		return nil, fmt.Errorf("missing binding kind tag")
	}
	switch tag {
	case "DescriptorSet":
		set, _ := m["set"].(float64)
		binding, _ := m["binding"].(float64)
		storageClassName, _ := m["storage_class"].(string)
		sc, err := parseStorageClassName(storageClassName)
		if err != nil {
			return nil, err
		}
		return DescriptorSetBinding{Set: uint32(set), Binding: uint32(binding), StorageClass: sc}, nil
	case "PushConstant":
		offset, _ := m["offset"].(float64)
		return PushConstantBinding{Offset: uint32(offset)}, nil
	case "BuiltIn":
		name, _ := m["builtin"].(string)
		b, err := parseBuiltinName(name)
		if err != nil {
			return nil, err
		}
		return BuiltinBinding{Builtin: b}, nil
	case "Inline":
		return InlineBinding{}, nil
	default:
		return nil, fmt.Errorf("unknown param binding kind tag %q", tag)
	}
}

func parseStorageClassName(s string) (ir.StorageClass, error) {
	switch s {
	case "StorageBuffer":
		return ir.StorageClassStorageBuffer, nil
	case "Uniform":
		return ir.StorageClassUniform, nil
	case "UniformConstant":
		return ir.StorageClassUniformConstant, nil
	case "Workgroup":
		return ir.StorageClassWorkgroup, nil
	case "PushConstant":
		return ir.StorageClassPushConstant, nil
	default:
		return 0, fmt.Errorf("unknown storage_class %q", s)
	}
}

func parseBuiltinName(s string) (ir.BuiltinValue, error) {
	switch s {
	case "GlobalInvocationId":
		return ir.BuiltinGlobalInvocationID, nil
	case "NumWorkGroups":
		return ir.BuiltinNumWorkGroups, nil
	case "FragDepth":
		return ir.BuiltinFragDepth, nil
	case "VertexIndex":
		return ir.BuiltinVertexIndex, nil
	case "InstanceIndex":
		return ir.BuiltinInstanceIndex, nil
	case "FrontFacing":
		return ir.BuiltinFrontFacing, nil
	default:
		return 0, fmt.Errorf("unknown builtin %q", s)
	}
}
