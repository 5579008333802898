// Package metrics computes scalar and time-series product metrics from the
// simulated datasets. Every function is pure and returns a zero or
// explicitly-undefined result on empty input; nothing here errors on
// degenerate data.
package metrics

import (
	"math"

	"github.com/Nimos95/product-sandbox/internal/cohort"
	"github.com/Nimos95/product-sandbox/internal/sim"
)

// ConversionRate is the share of users who did the target action, percent.
func ConversionRate(users []sim.User) float64 {
	if len(users) == 0 {
		return 0
	}
	converted := 0
	for _, u := range users {
		if u.Converted {
			converted++
		}
	}
	return float64(converted) / float64(len(users)) * 100
}

func totalRevenue(payments []sim.Payment) float64 {
	sum := 0.0
	for _, p := range payments {
		sum += p.Amount
	}
	return sum
}

func distinctPayers(payments []sim.Payment) int {
	seen := make(map[int]bool)
	for _, p := range payments {
		seen[p.UserID] = true
	}
	return len(seen)
}

// ARPU is total revenue over all users, payers or not.
func ARPU(users []sim.User, payments []sim.Payment) float64 {
	if len(users) == 0 {
		return 0
	}
	return totalRevenue(payments) / float64(len(users))
}

// ARPPU is total revenue over distinct paying users.
func ARPPU(payments []sim.Payment) float64 {
	payers := distinctPayers(payments)
	if payers == 0 {
		return 0
	}
	return totalRevenue(payments) / float64(payers)
}

// PayersCount is the number of distinct paying users.
func PayersCount(payments []sim.Payment) int {
	return distinctPayers(payments)
}

// LTVNMonths is the average revenue per user over the first n months of
// life: payments with month-of-life < n, divided by the total user count.
func LTVNMonths(users []sim.User, payments []sim.Payment, n int) float64 {
	if len(users) == 0 || len(payments) == 0 {
		return 0
	}
	reg := make(map[int]int, len(users)) // user -> absolute registration month
	for _, u := range users {
		reg[u.ID] = u.RegisteredAt.Year()*12 + int(u.RegisteredAt.Month())
	}
	sum := 0.0
	for _, p := range payments {
		r, ok := reg[p.UserID]
		if !ok {
			continue
		}
		month := p.PaidAt.Year()*12 + int(p.PaidAt.Month()) - r
		if month < 0 {
			month = 0
		}
		if month < n {
			sum += p.Amount
		}
	}
	return sum / float64(len(users))
}

// PayingShare is the distinct payer count as a percentage of all users.
func PayingShare(users []sim.User, payments []sim.Payment) float64 {
	if len(users) == 0 {
		return 0
	}
	return float64(distinctPayers(payments)) / float64(len(users)) * 100
}

// AvgRepeatCheck is the mean amount across payments made strictly after the
// owner's first payment.
func AvgRepeatCheck(payments []sim.Payment) float64 {
	if len(payments) == 0 {
		return 0
	}
	first := make(map[int]int64) // user -> earliest paid_at, unix nanos
	for _, p := range payments {
		ts := p.PaidAt.UnixNano()
		if cur, ok := first[p.UserID]; !ok || ts < cur {
			first[p.UserID] = ts
		}
	}
	sum, count := 0.0, 0
	for _, p := range payments {
		if p.PaidAt.UnixNano() > first[p.UserID] {
			sum += p.Amount
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// PaybackMonths is CAC divided by monthly ARPU. The second return is false
// when monthly ARPU is not positive, in which case payback is undefined
// rather than zero or infinite.
func PaybackMonths(cac, monthlyARPU float64) (float64, bool) {
	if monthlyARPU <= 0 {
		return 0, false
	}
	return cac / monthlyARPU, true
}

// CohortValue is one entry of a per-cohort series, in cohort order.
type CohortValue struct {
	Cohort string
	Value  float64
}

// ROIByCohort computes (LTV − CAC) / CAC × 100 per cohort from a cumulative
// LTV table. The LTV column used is lastNMonths−1, falling back to the last
// available column. Empty when the table is empty or CAC is not positive.
func ROIByCohort(ltv *cohort.Table, cac float64, lastNMonths int) []CohortValue {
	if ltv == nil || ltv.Empty() || cac <= 0 || len(ltv.Months) == 0 {
		return nil
	}
	col := ltv.Months[len(ltv.Months)-1]
	for _, m := range ltv.Months {
		if m == lastNMonths-1 {
			col = m
			break
		}
	}
	out := make([]CohortValue, 0, len(ltv.Cohorts))
	for _, c := range ltv.Cohorts {
		roi := (ltv.Value(c, col) - cac) / cac * 100
		out = append(out, CohortValue{Cohort: c, Value: math.Round(roi*10) / 10})
	}
	return out
}
