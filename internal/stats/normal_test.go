package stats

import (
	"math"
	"testing"
)

func TestNormalCDF(t *testing.T) {
	cases := []struct {
		x, want float64
	}{
		{0, 0.5},
		{1.959963985, 0.975},
		{-1.959963985, 0.025},
		{3, 0.99865},
	}
	for _, c := range cases {
		if got := normalCDF(c.x); math.Abs(got-c.want) > 1e-4 {
			t.Errorf("normalCDF(%g) = %g, want %g", c.x, got, c.want)
		}
	}
}

func TestNormalQuantile(t *testing.T) {
	cases := []struct {
		p, want float64
	}{
		{0.5, 0},
		{0.975, 1.959964},
		{0.025, -1.959964},
		{0.8, 0.841621},
		{0.001, -3.090232}, // below the central branch split
	}
	for _, c := range cases {
		if got := normalQuantile(c.p); math.Abs(got-c.want) > 1e-4 {
			t.Errorf("normalQuantile(%g) = %g, want %g", c.p, got, c.want)
		}
	}
}

func TestNormalQuantileRoundTrip(t *testing.T) {
	for _, p := range []float64{0.01, 0.1, 0.3, 0.5, 0.8, 0.95, 0.999} {
		if got := normalCDF(normalQuantile(p)); math.Abs(got-p) > 1e-6 {
			t.Errorf("cdf(quantile(%g)) = %g", p, got)
		}
	}
}

func TestChiSquaredSF1(t *testing.T) {
	// 3.841 is the 5% critical value at one degree of freedom.
	if got := chiSquaredSF1(3.841459); math.Abs(got-0.05) > 1e-4 {
		t.Errorf("chiSquaredSF1(3.841) = %g, want 0.05", got)
	}
	if got := chiSquaredSF1(0); got != 1 {
		t.Errorf("chiSquaredSF1(0) = %g, want 1", got)
	}
	if got := chiSquaredSF1(6.634897); math.Abs(got-0.01) > 1e-4 {
		t.Errorf("chiSquaredSF1(6.635) = %g, want 0.01", got)
	}
}

func TestStudentTSF2(t *testing.T) {
	// Tabulated two-sided critical values: t = 2.228 at df 10 and
	// t = 2.042 at df 30 both sit at p = 0.05.
	if got := studentTSF2(2.228139, 10); math.Abs(got-0.05) > 1e-4 {
		t.Errorf("studentTSF2(2.228, 10) = %g, want 0.05", got)
	}
	if got := studentTSF2(2.042272, 30); math.Abs(got-0.05) > 1e-4 {
		t.Errorf("studentTSF2(2.042, 30) = %g, want 0.05", got)
	}
	if got := studentTSF2(0, 10); math.Abs(got-1) > 1e-9 {
		t.Errorf("studentTSF2(0, 10) = %g, want 1", got)
	}
}

func TestStudentTApproachesNormal(t *testing.T) {
	// At large df the t tail converges on the normal tail.
	normal := 2 * (1 - normalCDF(1.96))
	if got := studentTSF2(1.96, 1e6); math.Abs(got-normal) > 1e-4 {
		t.Errorf("studentTSF2(1.96, 1e6) = %g, want ~%g", got, normal)
	}
}

func TestRegIncBeta(t *testing.T) {
	// I_x(1, 1) is the identity and I_x(a, b) + I_{1-x}(b, a) = 1.
	if got := regIncBeta(1, 1, 0.3); math.Abs(got-0.3) > 1e-10 {
		t.Errorf("regIncBeta(1, 1, 0.3) = %g, want 0.3", got)
	}
	sum := regIncBeta(2.5, 0.5, 0.4) + regIncBeta(0.5, 2.5, 0.6)
	if math.Abs(sum-1) > 1e-10 {
		t.Errorf("symmetry violated: sum = %g", sum)
	}
	if got := regIncBeta(3, 2, 0); got != 0 {
		t.Errorf("regIncBeta at x=0 = %g, want 0", got)
	}
	if got := regIncBeta(3, 2, 1); got != 1 {
		t.Errorf("regIncBeta at x=1 = %g, want 1", got)
	}
}
