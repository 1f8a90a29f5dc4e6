package wasmfront

import (
	"bytes"
	"testing"
)

func u32leb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			break
		}
	}
	return out
}

func section(id sectionID, body []byte) []byte {
	var out []byte
	out = append(out, byte(id))
	out = append(out, u32leb(uint32(len(body)))...)
	out = append(out, body...)
	return out
}

func header() []byte {
	return []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}
}

func TestDecode_EmptyModule(t *testing.T) {
	m, err := Decode(header())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Types) != 0 || len(m.Functions) != 0 {
		t.Error("expected an empty module")
	}
}

func TestDecode_BadMagic(t *testing.T) {
	_, err := Decode([]byte{0, 0, 0, 0, 1, 0, 0, 0})
	if err == nil {
		t.Error("expected error for bad magic")
	}
}

func TestDecode_TruncatedInput(t *testing.T) {
	_, err := Decode([]byte{0x00, 0x61, 0x73})
	if err == nil {
		t.Error("expected error for truncated input")
	}
}

func TestDecode_TypeFunctionCodeSections(t *testing.T) {
	// type section: one func type (i32, f32, i32, i32) -> ()
	typeBody := append(u32leb(1),
		append([]byte{0x60}, append(u32leb(4), byte(ValTypeI32), byte(ValTypeF32), byte(ValTypeI32), byte(ValTypeI32))...)...)
	typeBody = append(typeBody, u32leb(0)...) // 0 results

	funcBody := append(u32leb(1), u32leb(0)...) // one function, type index 0

	// code section: one function, no locals, body: i32.const 0, end
	body := append([]byte{}, u32leb(0)...) // 0 local groups
	body = append(body, byte(OpI32Const))
	body = append(body, u32leb(0)...)
	body = append(body, byte(OpEnd))
	codeEntry := append(u32leb(uint32(len(body))), body...)
	codeBody := append(u32leb(1), codeEntry...)

	src := header()
	src = append(src, section(sectionType, typeBody)...)
	src = append(src, section(sectionFunction, funcBody)...)
	src = append(src, section(sectionCode, codeBody)...)

	m, err := Decode(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Types) != 1 {
		t.Fatalf("expected 1 type, got %d", len(m.Types))
	}
	if len(m.Types[0].Params) != 4 {
		t.Errorf("expected 4 params, got %d", len(m.Types[0].Params))
	}
	if len(m.Functions) != 1 || m.Functions[0] != 0 {
		t.Errorf("expected 1 function with type index 0, got %v", m.Functions)
	}
	if len(m.Code) != 1 {
		t.Fatalf("expected 1 code entry, got %d", len(m.Code))
	}
	if !bytes.Equal(m.Code[0].Body, []byte{byte(OpI32Const), 0x00, byte(OpEnd)}) {
		t.Errorf("unexpected code body: %v", m.Code[0].Body)
	}
}

func TestDecode_MemoryAndExportSections(t *testing.T) {
	memBody := append(u32leb(1), []byte{0x01}...) // 1 memory, flags=1 (has max)
	memBody = append(memBody, u32leb(1)...)        // min
	memBody = append(memBody, u32leb(4)...)        // max

	exportBody := append(u32leb(1), u32leb(uint32(len("memory")))...)
	exportBody = append(exportBody, []byte("memory")...)
	exportBody = append(exportBody, byte(ExternKindMemory))
	exportBody = append(exportBody, u32leb(0)...)

	src := header()
	src = append(src, section(sectionMemory, memBody)...)
	src = append(src, section(sectionExport, exportBody)...)

	m, err := Decode(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Memory == nil || m.Memory.Min != 1 || m.Memory.Max == nil || *m.Memory.Max != 4 {
		t.Errorf("unexpected memory limits: %+v", m.Memory)
	}
	if len(m.Exports) != 1 || m.Exports[0].Name != "memory" {
		t.Errorf("unexpected exports: %+v", m.Exports)
	}
}

func TestDecode_SectionsOutOfOrderRejected(t *testing.T) {
	src := header()
	src = append(src, section(sectionCode, u32leb(0))...)
	src = append(src, section(sectionType, u32leb(0))...)

	if _, err := Decode(src); err == nil {
		t.Error("expected error for out-of-order sections")
	}
}

func TestLEB128_SignedRoundTrip(t *testing.T) {
	cases := []int32{0, 1, -1, 127, -128, 300000, -300000}
	for _, want := range cases {
		var buf []byte
		v := want
		for {
			b := byte(v & 0x7f)
			v >>= 7
			signBitSet := b&0x40 != 0
			if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
				buf = append(buf, b)
				break
			}
			buf = append(buf, b|0x80)
		}
		c := &cursor{buf: buf}
		got, err := c.readI32()
		if err != nil {
			t.Fatalf("unexpected error decoding %d: %v", want, err)
		}
		if got != want {
			t.Errorf("readI32 round-trip: want %d, got %d", want, got)
		}
	}
}
