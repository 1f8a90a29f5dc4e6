package wasmfront

// ValType is a Wasm MVP value type.
type ValType byte

const (
	ValTypeI32 ValType = 0x7F
	ValTypeI64 ValType = 0x7E
	ValTypeF32 ValType = 0x7D
	ValTypeF64 ValType = 0x7C
)

// Index is a namespace index (type/function/memory/global), matching
// the binary format's unsigned 32-bit encoding.
type Index = uint32

// FunctionType is one entry of the type section: a function signature.
type FunctionType struct {
	Params  []ValType
	Results []ValType
}

// ExternKind distinguishes what an Import or Export refers to. The
// translator only has a use for Func and Memory (spec.md's in-scope
// surface); Table and Global imports/exports are decoded structurally
// so section layout stays correct, but are otherwise inert.
type ExternKind byte

const (
	ExternKindFunc ExternKind = iota
	ExternKindTable
	ExternKindMemory
	ExternKindGlobal
)

// Import is one entry of the import section.
type Import struct {
	Module string
	Name   string
	Kind   ExternKind
	// DescFunc is the type index when Kind == ExternKindFunc.
	DescFunc Index
	// DescMemory is the memory limits when Kind == ExternKindMemory,
	// i.e. an imported linear memory.
	DescMemory *Limits
}

// Export is one entry of the export section.
type Export struct {
	Name  string
	Kind  ExternKind
	Index Index
}

// Limits is a memory or table's min/max page count.
type Limits struct {
	Min uint32
	Max *uint32 // nil: unbounded
}

// Global is one entry of the global section: a mutable or immutable
// module-scope value with a constant initializer expression.
type Global struct {
	Type    ValType
	Mutable bool
	Init    ConstExpr
}

// ConstExpr is a constant initializer expression: exactly one of
// i32.const/i64.const/f32.const/f64.const/global.get, per the Wasm
// MVP's restricted constant-expression grammar.
type ConstExpr struct {
	I32Const    *int32
	I64Const    *int64
	F32ConstHex *uint32
	F64ConstHex *uint64
	GlobalGet   *Index
}

// Code is one entry of the code section: a function's locals and
// instruction bytes (FunctionSection is index-correlated with Code —
// FunctionSection[i] names the function's type, Code[i] its body).
type Code struct {
	// Locals expands each declared local-group into one ValType per
	// local, in declaration order, so FunctionTranslator can index
	// directly by Wasm local index without re-decoding the run-length
	// groups at translation time.
	Locals []ValType
	Body   []byte
}

// Module is the decoded form of one Wasm binary: the section contents
// the Function Translator and Module Assembler consume.
type Module struct {
	Types     []FunctionType
	Imports   []Import
	Functions []Index // FunctionSection: type index per module-defined function
	Memory    *Limits // at most one memory, imported xor module-defined (MVP restriction)
	Globals   []Global
	Exports   []Export
	Start     *Index
	Code      []Code
}

// ImportedFunctionCount returns how many entries of the function index
// space are imports, which precede module-defined functions.
func (m *Module) ImportedFunctionCount() int {
	n := 0
	for _, imp := range m.Imports {
		if imp.Kind == ExternKindFunc {
			n++
		}
	}
	return n
}

// ImportedMemory reports the memory import, if the module imports its
// memory rather than defining it locally.
func (m *Module) ImportedMemory() (Import, bool) {
	for _, imp := range m.Imports {
		if imp.Kind == ExternKindMemory {
			return imp, true
		}
	}
	return Import{}, false
}

// FunctionSignature resolves a function-index-space index (spanning
// imports then module-defined functions) to its FunctionType.
func (m *Module) FunctionSignature(funcIdx Index) (FunctionType, bool) {
	importCount := Index(m.ImportedFunctionCount())
	if funcIdx < importCount {
		i := Index(0)
		for _, imp := range m.Imports {
			if imp.Kind != ExternKindFunc {
				continue
			}
			if i == funcIdx {
				if int(imp.DescFunc) >= len(m.Types) {
					return FunctionType{}, false
				}
				return m.Types[imp.DescFunc], true
			}
			i++
		}
		return FunctionType{}, false
	}
	localIdx := funcIdx - importCount
	if int(localIdx) >= len(m.Functions) {
		return FunctionType{}, false
	}
	typeIdx := m.Functions[localIdx]
	if int(typeIdx) >= len(m.Types) {
		return FunctionType{}, false
	}
	return m.Types[typeIdx], true
}
