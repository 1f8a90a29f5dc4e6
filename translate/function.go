package translate

import (
	"github.com/gogpu/wasm2spirv/config"
	"github.com/gogpu/wasm2spirv/resources"
	"github.com/gogpu/wasm2spirv/spirv"
	"github.com/gogpu/wasm2spirv/wasmfront"
)

// FunctionTranslator translates one Wasm function body into a SPIR-V
// OpFunction definition, reconstructing structured control flow as it
// walks the operator stream (spec.md §4.3/§4.4). One translator is
// used per function; it is not reused across functions.
type FunctionTranslator struct {
	builder  *spirv.ModuleBuilder
	resolver *ModuleResolver
	module   *wasmfront.Module

	cfg    config.FunctionConfig
	hasCfg bool // false for a module-defined function with no entry-point configuration

	memoryGrowPolicy config.MemoryGrowErrorKind

	// paramResources holds the materialized storage buffer for each
	// parameter index configured as config.DescriptorSetBinding (spec.md's
	// S1 saxpy scenario: four params, four distinct bound buffers). Only
	// consulted for dual-slot (Schrödinger) parameters.
	paramResources map[uint32]resources.LinearMemoryLayout

	funcIndex uint32
	sig       wasmfront.FunctionType
	code      wasmfront.Code

	stack  valueStack
	labels []labelFrame
	locals []localSlot

	funcTypeID   uint32
	returnTypeID uint32

	currentLabel    uint32
	blockTerminated bool
}

// NewFunctionTranslator creates a translator for one module-defined
// function (funcIndex is a function-index-space index, so it already
// accounts for imports preceding it).
func NewFunctionTranslator(
	builder *spirv.ModuleBuilder,
	resolver *ModuleResolver,
	module *wasmfront.Module,
	funcIndex uint32,
	sig wasmfront.FunctionType,
	code wasmfront.Code,
	cfg config.FunctionConfig,
	hasCfg bool,
	memoryGrowPolicy config.MemoryGrowErrorKind,
	paramResources map[uint32]resources.LinearMemoryLayout,
) *FunctionTranslator {
	return &FunctionTranslator{
		builder:          builder,
		resolver:         resolver,
		module:           module,
		cfg:              cfg,
		hasCfg:           hasCfg,
		memoryGrowPolicy: memoryGrowPolicy,
		paramResources:   paramResources,
		funcIndex:        funcIndex,
		sig:              sig,
		code:             code,
	}
}

// Translate emits the OpFunction/OpFunctionParameter/OpLabel/.../
// OpFunctionEnd sequence for this function and returns its SPIR-V
// function id.
func (t *FunctionTranslator) Translate() (uint32, error) {
	if len(t.sig.Results) > 1 {
		return 0, t.err(ErrUnsupportedFeature, -1, "multi-value function results are not supported")
	}

	paramTypeIDs := make([]uint32, len(t.sig.Params))
	for i, p := range t.sig.Params {
		paramTypeIDs[i] = t.resolver.scalarTypeID(p)
	}
	returnTypeID := t.resolver.Builder.AddTypeVoid()
	if len(t.sig.Results) == 1 {
		returnTypeID = t.resolver.scalarTypeID(t.sig.Results[0])
	}
	t.returnTypeID = returnTypeID
	t.funcTypeID = t.builder.AddTypeFunction(returnTypeID, paramTypeIDs...)

	funcID, err := t.resolver.functionID(t.funcIndex)
	if err != nil {
		return 0, t.err(ErrConfigError, -1, err.Error())
	}
	t.builder.AddFunctionWithID(funcID, t.funcTypeID, returnTypeID, spirv.FunctionControlNone)

	paramValueIDs := make([]uint32, len(t.sig.Params))
	for i, typeID := range paramTypeIDs {
		paramValueIDs[i] = t.builder.AddFunctionParameter(typeID)
	}

	t.currentLabel = t.builder.AddLabel()

	t.locals = make([]localSlot, 0, len(t.sig.Params)+len(t.code.Locals))
	for i, p := range t.sig.Params {
		t.locals = append(t.locals, t.declareLocal(p, t.paramNeedsDual(uint32(i)), t.paramResources[uint32(i)]))
	}
	for _, lt := range t.code.Locals {
		t.locals = append(t.locals, t.declareLocal(lt, false, resources.LinearMemoryLayout{}))
	}
	for i, p := range t.sig.Params {
		t.storeLocal(t.locals[i], TypedValue{ID: paramValueIDs[i], Type: p})
	}

	t.labels = append(t.labels, labelFrame{
		kind:         labelFunctionBody,
		branchTarget: 0,
		resultTypes:  t.sig.Results,
	})

	if err := t.translateBody(newBytecodeReader(t.code.Body)); err != nil {
		return 0, err
	}

	t.builder.AddFunctionEnd()
	return funcID, nil
}

// paramNeedsDual reports whether parameter index i is configured as a
// Schrödinger value (config.DescriptorSetBinding with PointerThin:
// the only binding kind where "is this an integer or a pointer" is
// genuinely ambiguous until use).
func (t *FunctionTranslator) paramNeedsDual(i uint32) bool {
	if !t.hasCfg {
		return false
	}
	p, ok := t.cfg.Params[i]
	if !ok {
		return false
	}
	_, isDescriptor := p.Kind.(config.DescriptorSetBinding)
	return isDescriptor && p.PointerSize == config.PointerThin
}

func (t *FunctionTranslator) err(kind ErrorKind, offset int, message string) *Error {
	return NewError(kind, t.funcIndex, offset, message)
}

func (t *FunctionTranslator) markUnreachable() {
	t.blockTerminated = true
}

// translateBody is the single forward pass over the operator stream.
// Control-flow opcodes are handled here (dispatching into cfg.go's
// label-stack machinery); everything else is delegated to the other
// files' opcode tables.
func (t *FunctionTranslator) translateBody(r *bytecodeReader) error {
	for !r.done() {
		offset := r.offset()
		op, err := r.readOpcode()
		if err != nil {
			return t.err(ErrUnsupportedFeature, offset, "truncated function body")
		}

		switch op {
		case wasmfront.OpUnreachable:
			t.builder.AddUnreachable()
			t.markUnreachable()
		case wasmfront.OpNop:
			// no-op

		case wasmfront.OpBlock:
			if err := t.beginBlock(r, offset); err != nil {
				return err
			}
		case wasmfront.OpLoop:
			if err := t.beginLoop(r, offset); err != nil {
				return err
			}
		case wasmfront.OpIf:
			if err := t.beginIf(r, offset); err != nil {
				return err
			}
		case wasmfront.OpElse:
			if err := t.handleElse(offset); err != nil {
				return err
			}
		case wasmfront.OpEnd:
			done, err := t.handleEnd(offset)
			if err != nil {
				return err
			}
			if done {
				return nil
			}

		case wasmfront.OpBr:
			if err := t.handleBr(r, offset); err != nil {
				return err
			}
		case wasmfront.OpBrIf:
			if err := t.handleBrIf(r, offset); err != nil {
				return err
			}
		case wasmfront.OpBrTable:
			if err := t.handleBrTable(r, offset); err != nil {
				return err
			}
		case wasmfront.OpReturn:
			if err := t.handleReturn(offset); err != nil {
				return err
			}

		case wasmfront.OpCall:
			if err := t.handleCall(r, offset); err != nil {
				return err
			}
		case wasmfront.OpCallIndirect:
			return t.err(ErrUnsupportedFeature, offset, "call_indirect is not supported (no table model)")

		case wasmfront.OpDrop:
			if _, ok := t.stack.pop(); !ok {
				return t.err(ErrUnbalancedStack, offset, "drop from empty operand stack")
			}
		case wasmfront.OpSelect:
			if err := t.handleSelect(offset); err != nil {
				return err
			}

		case wasmfront.OpLocalGet:
			if err := t.handleLocalGet(r, offset); err != nil {
				return err
			}
		case wasmfront.OpLocalSet:
			if err := t.handleLocalSet(r, offset, false); err != nil {
				return err
			}
		case wasmfront.OpLocalTee:
			if err := t.handleLocalSet(r, offset, true); err != nil {
				return err
			}
		case wasmfront.OpGlobalGet:
			if err := t.handleGlobalGet(r, offset); err != nil {
				return err
			}
		case wasmfront.OpGlobalSet:
			if err := t.handleGlobalSet(r, offset); err != nil {
				return err
			}

		case wasmfront.OpI32Const:
			v, err := r.readVarI32()
			if err != nil {
				return t.err(ErrUnsupportedFeature, offset, "malformed i32.const")
			}
			t.pushConstI32(v)
		case wasmfront.OpI64Const:
			v, err := r.readVarI64()
			if err != nil {
				return t.err(ErrUnsupportedFeature, offset, "malformed i64.const")
			}
			t.pushConstI64(v)
		case wasmfront.OpF32Const:
			v, err := r.readF32()
			if err != nil {
				return t.err(ErrUnsupportedFeature, offset, "malformed f32.const")
			}
			t.pushConstF32(v)
		case wasmfront.OpF64Const:
			v, err := r.readF64()
			if err != nil {
				return t.err(ErrUnsupportedFeature, offset, "malformed f64.const")
			}
			t.pushConstF64(v)

		case wasmfront.OpMemorySize:
			if _, err := r.readByte(); err != nil { // reserved memidx byte
				return t.err(ErrUnsupportedFeature, offset, "truncated memory.size")
			}
			if err := t.handleMemorySize(offset); err != nil {
				return err
			}
		case wasmfront.OpMemoryGrow:
			if _, err := r.readByte(); err != nil { // reserved memidx byte
				return t.err(ErrUnsupportedFeature, offset, "truncated memory.grow")
			}
			if err := t.handleMemoryGrow(offset); err != nil {
				return err
			}

		default:
			if isMemoryOp(op) {
				if err := t.handleMemoryOp(r, op, offset); err != nil {
					return err
				}
				break
			}
			if err := t.handleNumericOp(op, offset); err != nil {
				return err
			}
		}
	}
	return t.err(ErrUnbalancedStack, r.offset(), "function body did not close with end")
}
