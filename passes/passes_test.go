package passes

import (
	"errors"
	"testing"
)

func TestRun_CachesSuccessfulResult(t *testing.T) {
	cache := NewCache()
	calls := 0
	adapter := func(spirvWords []byte) (Result, error) {
		calls++
		return Result{Text: "disassembled"}, nil
	}

	words := []byte{0x03, 0x02, 0x23, 0x07}
	first, err := Run(cache, "disasm", adapter, words)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Run(cache, "disasm", adapter, words)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected the adapter to run once, got %d calls", calls)
	}
	if first.Text != second.Text {
		t.Errorf("cached result diverged: %q vs %q", first.Text, second.Text)
	}
}

func TestRun_DistinctInputsBypassCache(t *testing.T) {
	cache := NewCache()
	calls := 0
	adapter := func(spirvWords []byte) (Result, error) {
		calls++
		return Result{Bytes: spirvWords}, nil
	}

	if _, err := Run(cache, "opt", adapter, []byte{0x01}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Run(cache, "opt", adapter, []byte{0x02}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 2 {
		t.Errorf("expected the adapter to run once per distinct input, got %d calls", calls)
	}
}

func TestRun_FailureNotCachedAndCarriesDiagnostic(t *testing.T) {
	cache := NewCache()
	calls := 0
	adapter := func(spirvWords []byte) (Result, error) {
		calls++
		return Result{Diagnostic: "line 3: unknown opcode"}, errors.New("validation failed")
	}

	words := []byte{0x03, 0x02, 0x23, 0x07}
	_, err := Run(cache, "validate", adapter, words)
	if err == nil {
		t.Fatal("expected an error")
	}
	var passErr *Error
	if !errors.As(err, &passErr) {
		t.Fatalf("expected a *passes.Error, got %T", err)
	}
	if passErr.Diagnostic == "" {
		t.Error("expected the captured diagnostic to be attached to the error")
	}

	if _, err := Run(cache, "validate", adapter, words); err == nil {
		t.Fatal("expected the second call to also fail (not served from cache)")
	}
	if calls != 2 {
		t.Errorf("expected a failing adapter call to never be cached, got %d calls", calls)
	}
}

func TestRun_NilCacheAlwaysInvokesAdapter(t *testing.T) {
	calls := 0
	adapter := func(spirvWords []byte) (Result, error) {
		calls++
		return Result{Text: "ok"}, nil
	}

	words := []byte{0x03, 0x02, 0x23, 0x07}
	if _, err := Run(nil, "disasm", adapter, words); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Run(nil, "disasm", adapter, words); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected a nil cache to never memoize, got %d calls", calls)
	}
}
