package translate

import (
	"github.com/gogpu/wasm2spirv/resources"
	"github.com/gogpu/wasm2spirv/spirv"
	"github.com/gogpu/wasm2spirv/wasmfront"
)

// localSlot is the Function-storage representation backing one Wasm
// local (spec.md §4.3: "each Wasm local is a Function-class OpVariable
// initialized from the parameter load... or undefined").
//
// Most locals are Plain: a single OpVariable of the local's declared
// Wasm type. A parameter bound with pointer_size: thin (config's
// PointerThin — ambiguous int-or-pointer use) gets a Schrödinger pair
// instead — see schrodinger.go.
type localSlot struct {
	valType wasmfront.ValType

	plainVar uint32 // Function-storage OpVariable id; 0 when schrodinger != nil

	schrodinger *schrodingerSlot
}

// declareLocal emits the Function-storage OpVariable(s) for one local
// and returns its slot. Must run before any other function-body
// instruction (spec.md §4.3's "all OpVariable before any other
// instruction" ordering, enforced by the caller emitting every local's
// OpVariable up front). dual requests the Schrödinger representation,
// pointing into resource (ignored when dual is false).
func (t *FunctionTranslator) declareLocal(valType wasmfront.ValType, dual bool, resource resources.LinearMemoryLayout) localSlot {
	scalarType := t.resolver.scalarTypeID(valType)
	ptrType := t.builder.AddTypePointer(spirv.StorageClassFunction, scalarType)
	varID := t.builder.AddLocalVariable(ptrType)

	if !dual {
		return localSlot{valType: valType, plainVar: varID}
	}

	return localSlot{valType: valType, schrodinger: t.newSchrodingerSlot(valType, varID, scalarType, resource)}
}

// loadLocal emits whatever load sequence is needed to read a local's
// current value as valType (local.get).
func (t *FunctionTranslator) loadLocal(slot localSlot) TypedValue {
	if slot.schrodinger != nil {
		return slot.schrodinger.loadInteger(t)
	}
	scalarType := t.resolver.scalarTypeID(slot.valType)
	id := t.builder.AddLoad(scalarType, slot.plainVar)
	return TypedValue{ID: id, Type: slot.valType}
}

// storeLocal emits the store sequence for local.set/local.tee.
func (t *FunctionTranslator) storeLocal(slot localSlot, v TypedValue) {
	if slot.schrodinger != nil {
		slot.schrodinger.store(t, v)
		return
	}
	t.builder.AddStore(slot.plainVar, v.ID)
}
