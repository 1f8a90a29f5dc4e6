package wasmfront

import (
	"encoding/binary"
	"fmt"
)

const (
	wasmMagic   = 0x6D736100 // "\0asm"
	wasmVersion = 0x00000001
)

type sectionID byte

const (
	sectionCustom   sectionID = 0
	sectionType     sectionID = 1
	sectionImport   sectionID = 2
	sectionFunction sectionID = 3
	sectionTable    sectionID = 4
	sectionMemory   sectionID = 5
	sectionGlobal   sectionID = 6
	sectionExport   sectionID = 7
	sectionStart    sectionID = 8
	sectionElement  sectionID = 9
	sectionCode     sectionID = 10
	sectionData     sectionID = 11
)

// Decode parses a complete Wasm MVP binary module. The input is
// expected to already be validated upstream (spec.md §1); Decode's own
// error returns cover malformed encodings, not Wasm validation rules.
func Decode(source []byte) (*Module, error) {
	if len(source) < 8 {
		return nil, fmt.Errorf("input too short to contain a module header")
	}
	if got := binary.LittleEndian.Uint32(source[0:4]); got != wasmMagic {
		return nil, fmt.Errorf("bad magic number: %#x", got)
	}
	if got := binary.LittleEndian.Uint32(source[4:8]); got != wasmVersion {
		return nil, fmt.Errorf("unsupported binary version: %d", got)
	}

	c := &cursor{buf: source, pos: 8}
	m := &Module{}

	var lastSection sectionID = sectionCustom
	seenNonCustom := false

	for !c.done() {
		idByte, err := c.readByte()
		if err != nil {
			return nil, err
		}
		id := sectionID(idByte)

		size, err := c.readU32()
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", id, err)
		}
		body, err := c.readBytes(int(size))
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", id, err)
		}
		sc := &cursor{buf: body}

		if id != sectionCustom {
			if seenNonCustom && id <= lastSection {
				return nil, fmt.Errorf("section %d out of order after section %d", id, lastSection)
			}
			lastSection = id
			seenNonCustom = true
		}

		switch id {
		case sectionCustom:
			// Name section and other custom sections carry no
			// semantic weight for translation; skip the payload.
		case sectionType:
			if err := decodeTypeSection(sc, m); err != nil {
				return nil, err
			}
		case sectionImport:
			if err := decodeImportSection(sc, m); err != nil {
				return nil, err
			}
		case sectionFunction:
			if err := decodeFunctionSection(sc, m); err != nil {
				return nil, err
			}
		case sectionTable:
			// Tables back call_indirect, which spec.md §4.3 rejects
			// as UnsupportedFeature; decoded only to keep the section
			// stream's byte accounting correct for what follows.
		case sectionMemory:
			if err := decodeMemorySection(sc, m); err != nil {
				return nil, err
			}
		case sectionGlobal:
			if err := decodeGlobalSection(sc, m); err != nil {
				return nil, err
			}
		case sectionExport:
			if err := decodeExportSection(sc, m); err != nil {
				return nil, err
			}
		case sectionStart:
			idx, err := sc.readU32()
			if err != nil {
				return nil, err
			}
			m.Start = &idx
		case sectionElement:
			// Not in scope; call_indirect is rejected regardless.
		case sectionCode:
			if err := decodeCodeSection(sc, m); err != nil {
				return nil, err
			}
		case sectionData:
			// Data segments initialize linear memory contents, which
			// this translator materializes as a storage buffer whose
			// initial contents are the host's concern (spec.md §4.2);
			// parsed here only to preserve section framing.
		default:
			return nil, fmt.Errorf("unknown section id %d", id)
		}
	}

	return m, nil
}

func decodeValType(c *cursor) (ValType, error) {
	b, err := c.readByte()
	if err != nil {
		return 0, err
	}
	switch ValType(b) {
	case ValTypeI32, ValTypeI64, ValTypeF32, ValTypeF64:
		return ValType(b), nil
	default:
		return 0, fmt.Errorf("invalid value type byte %#x", b)
	}
}

func decodeTypeSection(c *cursor, m *Module) error {
	count, err := c.readU32()
	if err != nil {
		return err
	}
	m.Types = make([]FunctionType, 0, count)
	for i := uint32(0); i < count; i++ {
		form, err := c.readByte()
		if err != nil {
			return err
		}
		if form != 0x60 {
			return fmt.Errorf("type %d: expected func type form 0x60, got %#x", i, form)
		}
		paramCount, err := c.readU32()
		if err != nil {
			return err
		}
		params := make([]ValType, paramCount)
		for p := range params {
			if params[p], err = decodeValType(c); err != nil {
				return err
			}
		}
		resultCount, err := c.readU32()
		if err != nil {
			return err
		}
		results := make([]ValType, resultCount)
		for r := range results {
			if results[r], err = decodeValType(c); err != nil {
				return err
			}
		}
		m.Types = append(m.Types, FunctionType{Params: params, Results: results})
	}
	return nil
}

func decodeLimits(c *cursor) (Limits, error) {
	flags, err := c.readByte()
	if err != nil {
		return Limits{}, err
	}
	min, err := c.readU32()
	if err != nil {
		return Limits{}, err
	}
	lim := Limits{Min: min}
	if flags&0x1 != 0 {
		max, err := c.readU32()
		if err != nil {
			return Limits{}, err
		}
		lim.Max = &max
	}
	return lim, nil
}

func decodeImportSection(c *cursor, m *Module) error {
	count, err := c.readU32()
	if err != nil {
		return err
	}
	m.Imports = make([]Import, 0, count)
	for i := uint32(0); i < count; i++ {
		modName, err := c.readName()
		if err != nil {
			return err
		}
		fieldName, err := c.readName()
		if err != nil {
			return err
		}
		kindByte, err := c.readByte()
		if err != nil {
			return err
		}
		imp := Import{Module: modName, Name: fieldName, Kind: ExternKind(kindByte)}
		switch imp.Kind {
		case ExternKindFunc:
			if imp.DescFunc, err = c.readU32(); err != nil {
				return err
			}
		case ExternKindTable:
			if _, err := c.readByte(); err != nil { // elem type
				return err
			}
			if _, err := decodeLimits(c); err != nil {
				return err
			}
		case ExternKindMemory:
			lim, err := decodeLimits(c)
			if err != nil {
				return err
			}
			imp.DescMemory = &lim
		case ExternKindGlobal:
			if _, err := decodeValType(c); err != nil {
				return err
			}
			if _, err := c.readByte(); err != nil { // mutability
				return err
			}
		default:
			return fmt.Errorf("import %d: unknown extern kind %d", i, kindByte)
		}
		m.Imports = append(m.Imports, imp)
	}
	return nil
}

func decodeFunctionSection(c *cursor, m *Module) error {
	count, err := c.readU32()
	if err != nil {
		return err
	}
	m.Functions = make([]Index, count)
	for i := range m.Functions {
		if m.Functions[i], err = c.readU32(); err != nil {
			return err
		}
	}
	return nil
}

func decodeMemorySection(c *cursor, m *Module) error {
	count, err := c.readU32()
	if err != nil {
		return err
	}
	if count > 1 {
		return fmt.Errorf("multiple memories not supported (MVP restriction)")
	}
	if count == 1 {
		lim, err := decodeLimits(c)
		if err != nil {
			return err
		}
		m.Memory = &lim
	}
	return nil
}

func decodeConstExpr(c *cursor) (ConstExpr, error) {
	op, err := c.readByte()
	if err != nil {
		return ConstExpr{}, err
	}
	var expr ConstExpr
	switch Opcode(op) {
	case OpI32Const:
		v, err := c.readI32()
		if err != nil {
			return ConstExpr{}, err
		}
		expr.I32Const = &v
	case OpI64Const:
		v, err := c.readI64()
		if err != nil {
			return ConstExpr{}, err
		}
		expr.I64Const = &v
	case OpF32Const:
		v, err := c.readF32()
		if err != nil {
			return ConstExpr{}, err
		}
		expr.F32ConstHex = &v
	case OpF64Const:
		v, err := c.readF64()
		if err != nil {
			return ConstExpr{}, err
		}
		expr.F64ConstHex = &v
	case OpGlobalGet:
		v, err := c.readU32()
		if err != nil {
			return ConstExpr{}, err
		}
		expr.GlobalGet = &v
	default:
		return ConstExpr{}, fmt.Errorf("unsupported constant expression opcode %#x", op)
	}
	end, err := c.readByte()
	if err != nil {
		return ConstExpr{}, err
	}
	if Opcode(end) != OpEnd {
		return ConstExpr{}, fmt.Errorf("constant expression missing end opcode, got %#x", end)
	}
	return expr, nil
}

func decodeGlobalSection(c *cursor, m *Module) error {
	count, err := c.readU32()
	if err != nil {
		return err
	}
	m.Globals = make([]Global, 0, count)
	for i := uint32(0); i < count; i++ {
		vt, err := decodeValType(c)
		if err != nil {
			return err
		}
		mutByte, err := c.readByte()
		if err != nil {
			return err
		}
		init, err := decodeConstExpr(c)
		if err != nil {
			return err
		}
		m.Globals = append(m.Globals, Global{Type: vt, Mutable: mutByte != 0, Init: init})
	}
	return nil
}

func decodeExportSection(c *cursor, m *Module) error {
	count, err := c.readU32()
	if err != nil {
		return err
	}
	m.Exports = make([]Export, 0, count)
	for i := uint32(0); i < count; i++ {
		name, err := c.readName()
		if err != nil {
			return err
		}
		kindByte, err := c.readByte()
		if err != nil {
			return err
		}
		idx, err := c.readU32()
		if err != nil {
			return err
		}
		m.Exports = append(m.Exports, Export{Name: name, Kind: ExternKind(kindByte), Index: idx})
	}
	return nil
}

func decodeCodeSection(c *cursor, m *Module) error {
	count, err := c.readU32()
	if err != nil {
		return err
	}
	m.Code = make([]Code, 0, count)
	for i := uint32(0); i < count; i++ {
		bodySize, err := c.readU32()
		if err != nil {
			return err
		}
		bodyBytes, err := c.readBytes(int(bodySize))
		if err != nil {
			return err
		}
		bc := &cursor{buf: bodyBytes}

		localGroupCount, err := bc.readU32()
		if err != nil {
			return err
		}
		var locals []ValType
		for g := uint32(0); g < localGroupCount; g++ {
			n, err := bc.readU32()
			if err != nil {
				return err
			}
			vt, err := decodeValType(bc)
			if err != nil {
				return err
			}
			for j := uint32(0); j < n; j++ {
				locals = append(locals, vt)
			}
		}

		body := bodyBytes[bc.pos:]
		m.Code = append(m.Code, Code{Locals: locals, Body: body})
	}
	return nil
}
