package wasmfront

import "fmt"

// A cursor tracks the read position in a Wasm binary. All decode
// helpers advance it and return an error on truncation or malformed
// LEB128 rather than panicking — decode errors are data, not bugs.
type cursor struct {
	buf []byte
	pos int
}

func (c *cursor) done() bool {
	return c.pos >= len(c.buf)
}

func (c *cursor) remaining() int {
	return len(c.buf) - c.pos
}

func (c *cursor) readByte() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, fmt.Errorf("unexpected end of input at offset %d", c.pos)
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

func (c *cursor) readBytes(n int) ([]byte, error) {
	if c.remaining() < n {
		return nil, fmt.Errorf("unexpected end of input: need %d bytes at offset %d, have %d", n, c.pos, c.remaining())
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// readU32 decodes an unsigned LEB128 value, truncated to 32 bits (the
// widest index/count Wasm's MVP binary format uses).
func (c *cursor) readU32() (uint32, error) {
	var result uint32
	var shift uint
	for {
		b, err := c.readByte()
		if err != nil {
			return 0, err
		}
		if shift >= 35 {
			return 0, fmt.Errorf("LEB128 u32 overflow at offset %d", c.pos)
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
}

// readU64 decodes an unsigned LEB128 value up to 64 bits. Nothing in
// the decoder calls it.
func (c *cursor) readU64() (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := c.readByte()
		if err != nil {
			return 0, err
		}
		if shift >= 70 {
			return 0, fmt.Errorf("LEB128 u64 overflow at offset %d", c.pos)
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
}

// readI32 decodes a signed LEB128 value, sign-extended to 32 bits.
func (c *cursor) readI32() (int32, error) {
	var result int64
	var shift uint
	var b byte
	var err error
	for {
		b, err = c.readByte()
		if err != nil {
			return 0, err
		}
		if shift >= 35 {
			return 0, fmt.Errorf("LEB128 i32 overflow at offset %d", c.pos)
		}
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	if shift < 32 && b&0x40 != 0 {
		result |= -1 << shift
	}
	return int32(result), nil
}

// readI64 decodes a signed LEB128 value, sign-extended to 64 bits.
func (c *cursor) readI64() (int64, error) {
	var result int64
	var shift uint
	var b byte
	var err error
	for {
		b, err = c.readByte()
		if err != nil {
			return 0, err
		}
		if shift >= 70 {
			return 0, fmt.Errorf("LEB128 i64 overflow at offset %d", c.pos)
		}
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	if shift < 64 && b&0x40 != 0 {
		result |= -1 << shift
	}
	return result, nil
}

// readF32 decodes an IEEE 754 single-precision float (little-endian,
// per the binary format's fixed-width encoding for floats).
func (c *cursor) readF32() (uint32, error) {
	b, err := c.readBytes(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// readF64 decodes an IEEE 754 double-precision float, bits preserved
// exactly so NaN payloads round-trip into ir.ScalarValue.Bits.
func (c *cursor) readF64() (uint64, error) {
	b, err := c.readBytes(8)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v, nil
}

// readName decodes a length-prefixed UTF-8 string, as used for import
// module/field names, export names, and the custom "name" section.
func (c *cursor) readName() (string, error) {
	n, err := c.readU32()
	if err != nil {
		return "", err
	}
	b, err := c.readBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
