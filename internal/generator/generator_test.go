package generator

import "testing"

func TestBetweenStaysInRange(t *testing.T) {
	g := NewWithSeed(7)
	seen := map[float64]bool{}
	for i := 0; i < 500; i++ {
		v := g.Between(1, 6)
		if v < 1 || v > 6 || v != float64(int(v)) {
			t.Fatalf("unexpected value %v", v)
		}
		seen[v] = true
	}
	if len(seen) != 6 {
		t.Fatalf("expected every face, got %v", seen)
	}
}

func TestBetweenSingleValue(t *testing.T) {
	g := NewWithSeed(1)
	if v := g.Between(-3, -3); v != -3 {
		t.Fatalf("expected -3, got %v", v)
	}
}

func TestSequenceDeterministic(t *testing.T) {
	keys := []string{"1", "2", "+", "="}
	a := NewWithSeed(42).Sequence(keys, 20)
	b := NewWithSeed(42).Sequence(keys, 20)
	if len(a) != 20 || len(b) != 20 {
		t.Fatalf("unexpected lengths %d %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sequences diverge at %d: %q vs %q", i, a[i], b[i])
		}
	}
	if got := NewWithSeed(1).Sequence(nil, 3); got != nil {
		t.Fatalf("expected nil for empty keys, got %v", got)
	}
}
