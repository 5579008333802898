// Package stats is the A/B statistical engine: significance testing over
// the simulated population and power/sample-size solving. Degenerate inputs
// (one variant, empty groups, zero variance) always come back as neutral
// results, never as errors, so A/B output stays displayable regardless of
// how thin the data is.
package stats

import (
	"math"

	"github.com/Nimos95/product-sandbox/internal/sim"
)

// GroupSummary holds the per-variant rollup of an A/B comparison.
type GroupSummary struct {
	Name          string
	Users         int
	Conversions   int
	ConversionPct float64
	Revenue       float64
	ARPU          float64
}

// Result is the outcome of Compare. A zero Result (no groups) means the
// comparison was not applicable.
type Result struct {
	Groups        []GroupSummary
	PValue        float64 // chi-squared test on conversion
	RevenuePValue float64 // Welch t-test on per-user revenue
	UpliftPct     float64 // relative conversion change, test vs control
	Significant   bool    // PValue < 0.05
}

// Applicable reports whether both variants were present.
func (r Result) Applicable() bool {
	return len(r.Groups) == 2
}

// Compare runs the A/B analysis: a chi-squared test of independence on the
// conversion counts drives significance, and a Welch t-test on per-user
// revenue totals (zero for non-payers) is reported alongside without
// affecting the verdict. Both variant labels must be present with at least
// one member each; otherwise the zero Result comes back.
func Compare(users []sim.User, payments []sim.Payment) Result {
	var control, test []sim.User
	for _, u := range users {
		switch u.Variant {
		case sim.VariantControl:
			control = append(control, u)
		case sim.VariantTest:
			test = append(test, u)
		}
	}
	if len(control) == 0 || len(test) == 0 {
		return Result{}
	}

	convControl := countConverted(control)
	convTest := countConverted(test)

	pValue := chiSquaredP(convControl, len(control)-convControl, convTest, len(test)-convTest)

	crControl := float64(convControl) / float64(len(control)) * 100
	crTest := float64(convTest) / float64(len(test)) * 100
	uplift := 0.0
	if crControl != 0 {
		uplift = (crTest - crControl) / crControl * 100
	}

	revByUser := make(map[int]float64, len(payments))
	for _, p := range payments {
		revByUser[p.UserID] += p.Amount
	}
	revControl := groupRevenues(control, revByUser)
	revTest := groupRevenues(test, revByUser)

	return Result{
		Groups: []GroupSummary{
			summarize("control", control, convControl, revControl),
			summarize("test", test, convTest, revTest),
		},
		PValue:        pValue,
		RevenuePValue: welchP(revControl, revTest),
		UpliftPct:     uplift,
		Significant:   pValue < 0.05,
	}
}

func countConverted(users []sim.User) int {
	n := 0
	for _, u := range users {
		if u.Converted {
			n++
		}
	}
	return n
}

func groupRevenues(users []sim.User, revByUser map[int]float64) []float64 {
	out := make([]float64, len(users))
	for i, u := range users {
		out[i] = revByUser[u.ID] // zero for non-payers
	}
	return out
}

func summarize(name string, users []sim.User, conversions int, revenues []float64) GroupSummary {
	total := 0.0
	for _, r := range revenues {
		total += r
	}
	return GroupSummary{
		Name:          name,
		Users:         len(users),
		Conversions:   conversions,
		ConversionPct: float64(conversions) / float64(len(users)) * 100,
		Revenue:       total,
		ARPU:          total / float64(len(users)),
	}
}

// chiSquaredP is the p-value of the chi-squared test of independence on a
// 2×2 contingency table, with the Yates continuity correction (clamped at
// zero). A zero marginal makes the test inapplicable and yields 1.
func chiSquaredP(a, b, c, d int) float64 {
	row1 := float64(a + b)
	row2 := float64(c + d)
	col1 := float64(a + c)
	col2 := float64(b + d)
	n := row1 + row2
	if row1 == 0 || row2 == 0 || col1 == 0 || col2 == 0 {
		return 1
	}
	obs := []float64{float64(a), float64(b), float64(c), float64(d)}
	exp := []float64{row1 * col1 / n, row1 * col2 / n, row2 * col1 / n, row2 * col2 / n}
	chi2 := 0.0
	for i := range obs {
		diff := math.Abs(obs[i]-exp[i]) - 0.5
		if diff < 0 {
			diff = 0
		}
		chi2 += diff * diff / exp[i]
	}
	return chiSquaredSF1(chi2)
}

func meanVar(xs []float64) (mean, variance float64) {
	n := float64(len(xs))
	for _, x := range xs {
		mean += x
	}
	mean /= n
	for _, x := range xs {
		variance += (x - mean) * (x - mean)
	}
	variance /= n - 1 // sample variance
	return mean, variance
}

// welchP is the two-sided p-value of the two-sample t-test for unequal
// variances. Groups smaller than two members, or a zero pooled variance,
// give the neutral 1.
func welchP(xs, ys []float64) float64 {
	if len(xs) < 2 || len(ys) < 2 {
		return 1
	}
	m1, v1 := meanVar(xs)
	m2, v2 := meanVar(ys)
	n1 := float64(len(xs))
	n2 := float64(len(ys))

	se2 := v1/n1 + v2/n2
	if se2 <= 0 {
		return 1
	}
	t := (m1 - m2) / math.Sqrt(se2)

	// Welch–Satterthwaite degrees of freedom.
	df := se2 * se2 / ((v1*v1)/(n1*n1*(n1-1)) + (v2*v2)/(n2*n2*(n2-1)))

	return studentTSF2(t, df)
}
