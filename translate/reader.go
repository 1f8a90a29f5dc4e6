package translate

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/gogpu/wasm2spirv/wasmfront"
)

var (
	errUnexpectedEOF   = errors.New("translate: unexpected end of function body")
	errMalformedLEB128 = errors.New("translate: malformed LEB128 immediate")
)

// bytecodeReader walks one function body's instruction stream.
// wasmfront.Code.Body is already locals-stripped raw bytes; nothing in
// wasmfront exports a per-instruction cursor, so the translator reads
// the MVP's LEB128/immediate encodings itself, the same way
// wasmfront's own (unexported) cursor does for section bodies.
type bytecodeReader struct {
	buf []byte
	pos int
}

func newBytecodeReader(body []byte) *bytecodeReader {
	return &bytecodeReader{buf: body}
}

func (r *bytecodeReader) done() bool {
	return r.pos >= len(r.buf)
}

func (r *bytecodeReader) offset() int {
	return r.pos
}

func (r *bytecodeReader) readByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, errUnexpectedEOF
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *bytecodeReader) readOpcode() (wasmfront.Opcode, error) {
	b, err := r.readByte()
	return wasmfront.Opcode(b), err
}

func (r *bytecodeReader) readVarU32() (uint32, error) {
	var result uint32
	var shift uint
	for {
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 35 {
			return 0, errMalformedLEB128
		}
	}
}

func (r *bytecodeReader) readVarI32() (int32, error) {
	var result int64
	var shift uint
	for {
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < 32 && b&0x40 != 0 {
				result |= -1 << shift
			}
			return int32(result), nil
		}
		if shift >= 35 {
			return 0, errMalformedLEB128
		}
	}
}

func (r *bytecodeReader) readVarI64() (int64, error) {
	var result int64
	var shift uint
	for {
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < 64 && b&0x40 != 0 {
				result |= -1 << shift
			}
			return result, nil
		}
		if shift >= 70 {
			return 0, errMalformedLEB128
		}
	}
}

func (r *bytecodeReader) readF32() (float32, error) {
	if r.pos+4 > len(r.buf) {
		return 0, errUnexpectedEOF
	}
	bits := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return math.Float32frombits(bits), nil
}

func (r *bytecodeReader) readF64() (float64, error) {
	if r.pos+8 > len(r.buf) {
		return 0, errUnexpectedEOF
	}
	bits := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return math.Float64frombits(bits), nil
}

// memArg is a load/store instruction's alignment hint and byte offset.
type memArg struct {
	Align  uint32
	Offset uint32
}

func (r *bytecodeReader) readMemArg() (memArg, error) {
	align, err := r.readVarU32()
	if err != nil {
		return memArg{}, err
	}
	offset, err := r.readVarU32()
	if err != nil {
		return memArg{}, err
	}
	return memArg{Align: align, Offset: offset}, nil
}

// readBlockType decodes a block/loop/if signature: the single byte
// 0x40 (empty), a value type byte, or an sleb128-encoded non-negative
// type-section index (the Wasm multi-value encoding, disambiguated
// from a ValType byte by its sign).
func (r *bytecodeReader) readBlockType() (wasmfront.BlockType, error) {
	save := r.pos
	b, err := r.readByte()
	if err != nil {
		return wasmfront.BlockType{}, err
	}
	if b == 0x40 {
		return wasmfront.BlockType{Empty: true}, nil
	}
	switch wasmfront.ValType(b) {
	case wasmfront.ValTypeI32, wasmfront.ValTypeI64, wasmfront.ValTypeF32, wasmfront.ValTypeF64:
		return wasmfront.BlockType{Val: wasmfront.ValType(b)}, nil
	}
	r.pos = save
	idx, err := r.readVarI32()
	if err != nil {
		return wasmfront.BlockType{}, err
	}
	typeIndex := wasmfront.Index(idx)
	return wasmfront.BlockType{TypeIndex: &typeIndex}, nil
}
