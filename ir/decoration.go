package ir

import "fmt"

// DecorationID is a SPIR-V Decoration enumerant value (mirrors
// spirv.Decoration without importing the spirv package — the registry
// has no business knowing about word encoding).
type DecorationID uint32

// Well-known decoration ids this registry treats specially for
// conflict detection. Mirrored from spirv.DecorationBlock /
// spirv.DecorationBufferBlock; kept in sync by hand since ir does not
// import spirv.
const (
	decorationBlock       DecorationID = 2
	decorationBufferBlock DecorationID = 3
)

// decorationEntry is one (target, decoration) application, plus any
// literal operands (e.g. Location's operand is a literal number,
// BuiltIn's operand is the BuiltIn enumerant).
type decorationEntry struct {
	Decoration DecorationID
	Operands   []uint32
}

// DecorationTargetKind distinguishes the handle spaces a decoration can
// target. TypeHandle and GlobalVariableHandle are both dense, zero-based
// counters, so the same raw uint32 value names a different object
// depending which registry allocated it; the table key must carry the
// kind alongside the raw value or a type and a global variable sharing a
// handle number would silently share decorations too.
type DecorationTargetKind uint8

const (
	DecorationTargetType DecorationTargetKind = iota
	DecorationTargetGlobal
)

type decorationTarget struct {
	kind DecorationTargetKind
	id   uint32
}

// DecorationTable tracks which decorations have been applied to which
// ids, enforcing spec.md §4.1's "add_decoration: idempotent" operation
// and its Block/BufferBlock conflict rule.
type DecorationTable struct {
	byTarget map[decorationTarget][]decorationEntry
}

// NewDecorationTable creates an empty decoration table.
func NewDecorationTable() *DecorationTable {
	return &DecorationTable{byTarget: make(map[decorationTarget][]decorationEntry)}
}

// Add applies a decoration to target, idempotently: a repeat of an
// identical (target, decoration, operands) triple is a no-op. Applying
// both Block and BufferBlock to the same target is a fatal conflict
// per spec.md §4.1's stated failure condition.
func (d *DecorationTable) Add(kind DecorationTargetKind, target uint32, decoration DecorationID, operands ...uint32) error {
	key := decorationTarget{kind: kind, id: target}
	existing := d.byTarget[key]

	if decoration == decorationBlock || decoration == decorationBufferBlock {
		other := decorationBufferBlock
		if decoration == decorationBufferBlock {
			other = decorationBlock
		}
		for _, e := range existing {
			if e.Decoration == other {
				return fmt.Errorf("decoration conflict on id %d: Block and BufferBlock are mutually exclusive", target)
			}
		}
	}

	for _, e := range existing {
		if e.Decoration == decoration && sameOperands(e.Operands, operands) {
			return nil // idempotent repeat
		}
	}

	d.byTarget[key] = append(existing, decorationEntry{Decoration: decoration, Operands: operands})
	return nil
}

// For returns the decorations applied to target, in application order.
func (d *DecorationTable) For(kind DecorationTargetKind, target uint32) []decorationEntry {
	return d.byTarget[decorationTarget{kind: kind, id: target}]
}

func sameOperands(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
