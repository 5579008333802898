package stats

import (
	"errors"
	"math"
)

// referenceGroupSize is the fixed per-group size MDE is quoted at when
// solving jointly with the recommended sample size.
const referenceGroupSize = 1000

// mdeFallbackPct is reported when the root-finder cannot bracket an effect
// size, e.g. because the baseline leaves no room for a detectable lift.
const mdeFallbackPct = 50.0

// requiredN is the standard two-proportion power formula: the per-group
// sample size needed to detect an absolute effect on top of pControl at the
// given z-critical values.
func requiredN(pControl, effectAbs, zAlpha, zBeta, ratio float64) float64 {
	p2 := math.Min(0.99, pControl+effectAbs)
	v1 := pControl * (1 - pControl)
	v2 := p2 * (1 - p2)
	return (zAlpha + zBeta) * (zAlpha + zBeta) * (v1 + v2/ratio) / (effectAbs * effectAbs)
}

var errNoBracket = errors.New("root not bracketed")

// bisect finds a root of f on [lo, hi] by bisection. The interval must
// bracket a sign change.
func bisect(f func(float64) float64, lo, hi float64) (float64, error) {
	if lo >= hi {
		return 0, errNoBracket
	}
	flo, fhi := f(lo), f(hi)
	if flo == 0 {
		return lo, nil
	}
	if fhi == 0 {
		return hi, nil
	}
	if flo*fhi > 0 {
		return 0, errNoBracket
	}
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		fm := f(mid)
		if fm == 0 || hi-lo < 1e-12 {
			return mid, nil
		}
		if flo*fm < 0 {
			hi = mid
		} else {
			lo, flo = mid, fm
		}
	}
	return (lo + hi) / 2, nil
}

// solveMDE finds the absolute effect size whose required sample size equals
// nPerGroup, searched on (0.001, min(0.5, 1−pControl−0.001)), and reports it
// relative to pControl in percent. Falls back to the 50% sentinel when no
// root can be bracketed.
func solveMDE(nPerGroup float64, pControl, zAlpha, zBeta, ratio float64) float64 {
	f := func(effectAbs float64) float64 {
		return requiredN(pControl, effectAbs, zAlpha, zBeta, ratio) - nPerGroup
	}
	effectAbs, err := bisect(f, 0.001, math.Min(0.5, 1-pControl-0.001))
	if err != nil {
		return mdeFallbackPct
	}
	return math.Round(effectAbs/pControl*1000) / 10
}

// SolveMDEAndSampleSize returns the minimum detectable effect (relative %,
// at the fixed reference of 1000 users per group) and the per-group sample
// size recommended to detect targetLiftPct relative lift over pControl.
// pControl outside (0, 1) is not applicable and yields (0, 0).
func SolveMDEAndSampleSize(pControl, alpha, power, ratio, targetLiftPct float64) (mdePct float64, nPerGroup int) {
	if pControl <= 0 || pControl >= 1 {
		return 0, 0
	}
	zAlpha := normalQuantile(1 - alpha/2)
	zBeta := normalQuantile(power)

	p2 := math.Min(0.99, pControl*(1+targetLiftPct/100))
	n := int(math.Ceil(requiredN(pControl, p2-pControl, zAlpha, zBeta, ratio)))
	if n < 30 {
		n = 30
	}

	return solveMDE(referenceGroupSize, pControl, zAlpha, zBeta, ratio), n
}

// SolveMDE returns the minimum detectable relative effect (%) at a supplied
// per-group sample size. Non-positive n or pControl outside (0, 1) is not
// applicable and yields 0.
func SolveMDE(nPerGroup int, pControl, alpha, power, ratio float64) float64 {
	if nPerGroup <= 0 || pControl <= 0 || pControl >= 1 {
		return 0
	}
	zAlpha := normalQuantile(1 - alpha/2)
	zBeta := normalQuantile(power)
	return solveMDE(float64(nPerGroup), pControl, zAlpha, zBeta, ratio)
}
