package generation

import "testing"

func TestCredentialPool_Empty(t *testing.T) {
	for _, keys := range [][]string{nil, {}, {"", "  "}} {
		p := NewCredentialPool(keys)
		if _, ok := p.Current(); ok {
			t.Errorf("Expected no current credential for %q", keys)
		}
		if p.Rotate() {
			t.Errorf("Expected Rotate to fail for %q", keys)
		}
	}
}

func TestCredentialPool_RotateIsMonotonic(t *testing.T) {
	p := NewCredentialPool([]string{"k1", "", " k2 ", "k3"})
	if p.Len() != 3 {
		t.Fatalf("Expected 3 keys, got %d", p.Len())
	}

	want := []string{"k1", "k2", "k3"}
	for i, w := range want {
		got, ok := p.Current()
		if !ok || got != w {
			t.Fatalf("step %d: expected %q, got %q (ok=%v)", i, w, got, ok)
		}
		if p.Index() != i {
			t.Errorf("step %d: expected index %d, got %d", i, i, p.Index())
		}
		rotated := p.Rotate()
		if rotated != (i < len(want)-1) {
			t.Errorf("step %d: unexpected Rotate result %v", i, rotated)
		}
	}

	if got, _ := p.Current(); got != "k3" {
		t.Errorf("Expected cursor to stay on last key, got %q", got)
	}
}
