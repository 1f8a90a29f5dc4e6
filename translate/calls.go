package translate

import (
	"github.com/gogpu/wasm2spirv/resources"
	"github.com/gogpu/wasm2spirv/wasmfront"
)

// handleCall lowers a direct `call` to either an OpFunctionCall against
// a module-defined function or, when the callee is an import named
// `spir_global.<builtin>`, an OpLoad of the corresponding built-in
// Input variable followed by an OpCompositeExtract of the requested
// lane (spec.md's calling convention for built-in pseudo-functions).
func (t *FunctionTranslator) handleCall(r *bytecodeReader, offset int) error {
	funcIdx, err := r.readVarU32()
	if err != nil {
		return t.err(ErrUnsupportedFeature, offset, "malformed call function index")
	}

	if imp, ok := t.importedFunction(funcIdx); ok {
		return t.handleBuiltinCall(imp, funcIdx, offset)
	}

	sig, ok := t.module.FunctionSignature(funcIdx)
	if !ok {
		return t.err(ErrConfigError, offset, "call to unknown function index")
	}

	args := make([]uint32, len(sig.Params))
	for i := len(sig.Params) - 1; i >= 0; i-- {
		v, err := t.stack.popExpect(sig.Params[i])
		if err != nil {
			return t.attachSite(err, offset)
		}
		args[i] = v.ID
	}

	calleeID, err := t.resolver.functionID(funcIdx)
	if err != nil {
		return t.err(ErrConfigError, offset, err.Error())
	}

	if len(sig.Results) > 1 {
		return t.err(ErrUnsupportedFeature, offset, "multi-value call results are not supported")
	}
	resultType := t.resolver.Builder.AddTypeVoid()
	if len(sig.Results) == 1 {
		resultType = t.resolver.scalarTypeID(sig.Results[0])
	}

	id := t.builder.AddFunctionCall(resultType, calleeID, args...)
	if len(sig.Results) == 1 {
		t.stack.push(TypedValue{ID: id, Type: sig.Results[0]})
	}
	return nil
}

// importedFunction reports whether funcIdx names an imported function
// (whatever its module name), returning the import entry itself;
// handleBuiltinCall then accepts only `spir_global.*` names.
func (t *FunctionTranslator) importedFunction(funcIdx uint32) (imp struct {
	module, name string
}, ok bool) {
	if int(funcIdx) >= len(t.module.Imports) {
		return imp, false
	}
	i := uint32(0)
	for _, entry := range t.module.Imports {
		if entry.Kind != wasmfront.ExternKindFunc {
			continue
		}
		if i == funcIdx {
			return struct{ module, name string }{entry.Module, entry.Name}, true
		}
		i++
	}
	return imp, false
}

// handleBuiltinCall lowers a call to a `spir_global.<builtin>` import:
// the pseudo-function signature always resolves to a single scalar
// result, since a Wasm call result can never be a vector (spec.md's
// imported-built-in calling convention stands in for reading one lane
// of a built-in SPIR-V vector, e.g. GlobalInvocationId.x).
func (t *FunctionTranslator) handleBuiltinCall(imp struct{ module, name string }, funcIdx uint32, offset int) error {
	sig, ok := t.module.FunctionSignature(funcIdx)
	if !ok {
		return t.err(ErrConfigError, offset, "built-in call with unresolvable signature")
	}
	if len(sig.Params) != 0 {
		return t.err(ErrConfigError, offset, "built-in pseudo-function imports take no arguments")
	}

	key := imp.module + "." + imp.name
	b, err := resources.LookupBuiltinImport(key)
	if err != nil {
		return t.err(ErrConfigError, offset, err.Error())
	}
	if b.ComponentIndex < 0 && b.VectorWidth > 1 {
		return t.err(ErrConfigError, offset, "built-in call must select a single vector lane, not the whole vector")
	}

	variable, vectorType := t.resolver.Builtins.Materialize(b)
	vectorTypeID := t.resolver.typeID(vectorType)
	scalarTypeID := t.resolver.scalarTypeID(scalarToValType(b.ScalarType))
	globalID := t.resolver.globalID(variable)

	loaded := t.builder.AddLoad(vectorTypeID, globalID)
	result := loaded
	if b.ComponentIndex >= 0 {
		result = t.builder.AddCompositeExtract(scalarTypeID, loaded, uint32(b.ComponentIndex))
	}

	resultType := scalarToValType(b.ScalarType)
	if len(sig.Results) == 1 {
		resultType = sig.Results[0]
	}
	t.stack.push(TypedValue{ID: result, Type: resultType})
	return nil
}
