package sim_test

import (
	"testing"

	"github.com/Nimos95/product-sandbox/internal/sim"
)

func TestSource_SameSeedSameSequence(t *testing.T) {
	a := sim.NewSource(42)
	b := sim.NewSource(42)

	for i := 0; i < 100; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("draw %d differs for identical seeds", i)
		}
	}
}

func TestSource_DifferentSeedsDiffer(t *testing.T) {
	a := sim.NewSource(1)
	b := sim.NewSource(2)

	same := true
	for i := 0; i < 20; i++ {
		if a.Float64() != b.Float64() {
			same = false
		}
	}
	if same {
		t.Error("expected different sequences for different seeds")
	}
}

func TestSource_UniformBounds(t *testing.T) {
	src := sim.NewSource(7)
	for i := 0; i < 1000; i++ {
		v := src.Uniform(10, 20)
		if v < 10 || v >= 20 {
			t.Fatalf("uniform draw %f out of [10, 20)", v)
		}
	}
}

func TestSource_IntBetweenInclusive(t *testing.T) {
	src := sim.NewSource(7)
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		v := src.IntBetween(1, 5)
		if v < 1 || v > 5 {
			t.Fatalf("draw %d out of [1, 5]", v)
		}
		seen[v] = true
	}
	for v := 1; v <= 5; v++ {
		if !seen[v] {
			t.Errorf("value %d never drawn in 1000 tries", v)
		}
	}
}
