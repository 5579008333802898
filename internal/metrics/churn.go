package metrics

import (
	"fmt"
	"sort"
	"time"

	"github.com/Nimos95/product-sandbox/internal/sim"
)

func lastPayments(payments []sim.Payment) map[int]time.Time {
	last := make(map[int]time.Time)
	for _, p := range payments {
		if cur, ok := last[p.UserID]; !ok || p.PaidAt.After(cur) {
			last[p.UserID] = p.PaidAt
		}
	}
	return last
}

func addDays(t time.Time, days int) time.Time {
	return t.Add(time.Duration(days) * 24 * time.Hour)
}

// ChurnRate is the backward-looking point-in-time churn: among payers active
// at the start of the period (last payment ≥ reference − periodDays −
// inactiveDays), the share whose last payment predates reference −
// inactiveDays. A zero reference time anchors to the latest payment. For a
// transactional model this single number can run high; ChurnRateByMonth
// shows the trend instead.
func ChurnRate(payments []sim.Payment, inactiveDays, periodDays int, reference time.Time) float64 {
	if len(payments) == 0 {
		return 0
	}
	if reference.IsZero() {
		for _, p := range payments {
			if p.PaidAt.After(reference) {
				reference = p.PaidAt
			}
		}
	}
	last := lastPayments(payments)
	activeCutoff := addDays(reference, -periodDays-inactiveDays)
	churnCutoff := addDays(reference, -inactiveDays)

	active, churned := 0, 0
	for _, ts := range last {
		if ts.Before(activeCutoff) {
			continue
		}
		active++
		if ts.Before(churnCutoff) {
			churned++
		}
	}
	if active == 0 {
		return 0
	}
	return float64(churned) / float64(active) * 100
}

// MonthValue is one month of a churn series, keyed "YYYY-MM".
type MonthValue struct {
	Month string
	Pct   float64
}

// ChurnRateByMonth computes the churn series from the second observed
// payment month onward. For month M: active-at-start are payers with a last
// payment ≥ start(M) − inactiveDays; churned are those of them whose last
// payment still precedes start(M). Months with nobody active are skipped,
// and fewer than two distinct payment months yield an empty series.
func ChurnRateByMonth(payments []sim.Payment, inactiveDays int) []MonthValue {
	if len(payments) < 2 {
		return nil
	}
	monthSet := make(map[string]time.Time)
	for _, p := range payments {
		start := time.Date(p.PaidAt.Year(), p.PaidAt.Month(), 1, 0, 0, 0, 0, time.UTC)
		monthSet[fmt.Sprintf("%04d-%02d", start.Year(), int(start.Month()))] = start
	}
	if len(monthSet) < 2 {
		return nil
	}
	keys := make([]string, 0, len(monthSet))
	for k := range monthSet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	last := lastPayments(payments)
	var out []MonthValue
	for _, k := range keys[1:] {
		start := monthSet[k]
		activeCutoff := addDays(start, -inactiveDays)
		active, churned := 0, 0
		for _, ts := range last {
			if ts.Before(activeCutoff) {
				continue
			}
			active++
			if ts.Before(start) {
				churned++
			}
		}
		if active == 0 {
			continue
		}
		out = append(out, MonthValue{Month: k, Pct: float64(churned) / float64(active) * 100})
	}
	return out
}

// ChurnRateMonthly averages the by-month churn series into one number.
func ChurnRateMonthly(payments []sim.Payment, inactiveDays int) float64 {
	series := ChurnRateByMonth(payments, inactiveDays)
	if len(series) == 0 {
		return 0
	}
	sum := 0.0
	for _, mv := range series {
		sum += mv.Pct
	}
	return sum / float64(len(series))
}
