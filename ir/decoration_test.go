package ir

import "testing"

func TestDecorationTable_Idempotent(t *testing.T) {
	d := NewDecorationTable()

	if err := d.Add(DecorationTargetType, 10,decorationBlock); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.Add(DecorationTargetType, 10,decorationBlock); err != nil {
		t.Fatalf("repeat of identical decoration should be a no-op, got %v", err)
	}
	if len(d.For(DecorationTargetType, 10)) != 1 {
		t.Errorf("expected 1 decoration entry after idempotent repeat, got %d", len(d.For(DecorationTargetType, 10)))
	}
}

func TestDecorationTable_BlockBufferBlockConflict(t *testing.T) {
	d := NewDecorationTable()

	if err := d.Add(DecorationTargetType, 10,decorationBlock); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.Add(DecorationTargetType, 10,decorationBufferBlock); err == nil {
		t.Error("expected conflict error applying BufferBlock after Block to the same id")
	}
}

func TestDecorationTable_DistinctOperandsAreDistinctEntries(t *testing.T) {
	d := NewDecorationTable()

	if err := d.Add(DecorationTargetType, 20,DecorationID(30), 0); err != nil { // Location 0
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.Add(DecorationTargetType, 20,DecorationID(30), 1); err != nil { // Location 1 -- distinct operand
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.For(DecorationTargetType, 20)) != 2 {
		t.Errorf("expected 2 distinct decoration entries, got %d", len(d.For(DecorationTargetType, 20)))
	}
}
