package stats_test

import (
	"testing"

	"github.com/Nimos95/product-sandbox/internal/stats"
)

func TestSolveMDEAndSampleSize(t *testing.T) {
	// Baseline 10%, detecting a 20% relative lift at alpha 0.05 and power
	// 0.8 needs roughly 3840 users per group by the two-proportion formula.
	mde, n := stats.SolveMDEAndSampleSize(0.10, 0.05, 0.8, 1.0, 20)
	if n < 3700 || n > 3950 {
		t.Errorf("sample size = %d, want around 3840", n)
	}
	// At the 1000-per-group reference the detectable relative effect is
	// about 40%.
	if mde < 38 || mde > 43 {
		t.Errorf("MDE = %g%%, want around 40.6%%", mde)
	}
}

func TestSolveMDEAndSampleSize_Floor(t *testing.T) {
	// An enormous effect over a high baseline needs almost nobody; the
	// recommendation still floors at 30 per group.
	_, n := stats.SolveMDEAndSampleSize(0.5, 0.05, 0.8, 1.0, 100)
	if n != 30 {
		t.Errorf("sample size = %d, want the 30 floor", n)
	}
}

func TestSolveMDEAndSampleSize_Guards(t *testing.T) {
	for _, p := range []float64{0, -0.1, 1, 1.5} {
		mde, n := stats.SolveMDEAndSampleSize(p, 0.05, 0.8, 1.0, 20)
		if mde != 0 || n != 0 {
			t.Errorf("pControl %g: got (%g, %d), want (0, 0)", p, mde, n)
		}
	}
}

func TestSolveMDE(t *testing.T) {
	mde := stats.SolveMDE(1000, 0.10, 0.05, 0.8, 1.0)
	if mde < 38 || mde > 43 {
		t.Errorf("MDE at n=1000 = %g%%, want around 40.6%%", mde)
	}

	// More users means a smaller detectable effect.
	if big := stats.SolveMDE(10000, 0.10, 0.05, 0.8, 1.0); big >= mde {
		t.Errorf("MDE should shrink with n: %g at 10000 vs %g at 1000", big, mde)
	}
}

func TestSolveMDE_FallbackWhenNoRoom(t *testing.T) {
	// A 99.9% baseline leaves no effect interval to search, so the solver
	// reports the 50% sentinel.
	if got := stats.SolveMDE(1000, 0.999, 0.05, 0.8, 1.0); got != 50 {
		t.Errorf("MDE = %g, want the 50%% fallback", got)
	}
}

func TestSolveMDE_Guards(t *testing.T) {
	if got := stats.SolveMDE(0, 0.1, 0.05, 0.8, 1.0); got != 0 {
		t.Errorf("n=0 should yield 0, got %g", got)
	}
	if got := stats.SolveMDE(1000, 0, 0.05, 0.8, 1.0); got != 0 {
		t.Errorf("pControl=0 should yield 0, got %g", got)
	}
}
