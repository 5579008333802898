// Package cohort reshapes raw users and payments into cohort ×
// month-of-life tables. A cohort is the set of users registered in the same
// calendar month; month-of-life is the whole-month distance between a user's
// registration month and a payment's month, clamped to zero. Tables are
// derived on every call and hold no state of their own.
package cohort

import (
	"fmt"
	"sort"
	"time"

	"github.com/Nimos95/product-sandbox/internal/sim"
)

// Table is a pivot keyed by cohort (rows, chronological) and month-of-life
// (columns, ascending). Absent cells read as 0.
type Table struct {
	Cohorts []string
	Months  []int
	cells   map[string]map[int]float64
}

// Value returns the cell for (cohort, month), 0 when absent.
func (t *Table) Value(cohort string, month int) float64 {
	return t.cells[cohort][month]
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return len(t.Cohorts) == 0
}

func (t *Table) set(cohort string, month int, v float64) {
	row, ok := t.cells[cohort]
	if !ok {
		row = make(map[int]float64)
		t.cells[cohort] = row
	}
	row[month] = v
}

func (t *Table) add(cohort string, month int, v float64) {
	t.set(cohort, month, t.cells[cohort][month]+v)
}

func newTable() *Table {
	return &Table{cells: make(map[string]map[int]float64)}
}

// finalize fixes the row and column order from whatever cells were written.
func (t *Table) finalize() *Table {
	monthSet := make(map[int]bool)
	for c, row := range t.cells {
		t.Cohorts = append(t.Cohorts, c)
		for m := range row {
			monthSet[m] = true
		}
	}
	sort.Strings(t.Cohorts) // YYYY-MM keys sort chronologically
	for m := range monthSet {
		t.Months = append(t.Months, m)
	}
	sort.Ints(t.Months)
	return t
}

// Key formats a timestamp's calendar month as a cohort label, e.g. "2025-03".
func Key(ts time.Time) string {
	return fmt.Sprintf("%04d-%02d", ts.Year(), int(ts.Month()))
}

// MonthOfLife returns the whole-calendar-month distance from registration to
// payment, clamped to ≥ 0.
func MonthOfLife(registered, paid time.Time) int {
	n := (paid.Year()*12 + int(paid.Month())) - (registered.Year()*12 + int(registered.Month()))
	if n < 0 {
		return 0
	}
	return n
}

// joined is one payment annotated with its owner's cohort.
type joined struct {
	userID int
	cohort string
	month  int
	amount float64
}

func join(users []sim.User, payments []sim.Payment) []joined {
	reg := make(map[int]time.Time, len(users))
	for _, u := range users {
		reg[u.ID] = u.RegisteredAt
	}
	out := make([]joined, 0, len(payments))
	for _, p := range payments {
		r, ok := reg[p.UserID]
		if !ok {
			continue
		}
		out = append(out, joined{
			userID: p.UserID,
			cohort: Key(r),
			month:  MonthOfLife(r, p.PaidAt),
			amount: p.Amount,
		})
	}
	return out
}

// Revenue sums payment amounts per (cohort, month-of-life).
func Revenue(users []sim.User, payments []sim.Payment) *Table {
	t := newTable()
	for _, j := range join(users, payments) {
		t.add(j.cohort, j.month, j.amount)
	}
	return t.finalize()
}

// payerSets groups the distinct payers per (cohort, month-of-life).
func payerSets(rows []joined) map[string]map[int]map[int]bool {
	sets := make(map[string]map[int]map[int]bool)
	for _, j := range rows {
		byMonth, ok := sets[j.cohort]
		if !ok {
			byMonth = make(map[int]map[int]bool)
			sets[j.cohort] = byMonth
		}
		payers, ok := byMonth[j.month]
		if !ok {
			payers = make(map[int]bool)
			byMonth[j.month] = payers
		}
		payers[j.userID] = true
	}
	return sets
}

func observedMonths(rows []joined) []int {
	seen := make(map[int]bool)
	for _, j := range rows {
		seen[j.month] = true
	}
	months := make([]int, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Ints(months)
	return months
}

// Retention gives, per cohort, the percentage of month-0 payers who paid
// again in each month-of-life. Cohorts with no month-0 payers are dropped
// entirely rather than divided by zero.
func Retention(users []sim.User, payments []sim.Payment) *Table {
	rows := join(users, payments)
	sets := payerSets(rows)
	months := observedMonths(rows)

	t := newTable()
	for c, byMonth := range sets {
		base := byMonth[0]
		if len(base) == 0 {
			continue
		}
		for _, m := range months {
			returned := 0
			for uid := range byMonth[m] {
				if base[uid] {
					returned++
				}
			}
			t.set(c, m, float64(returned)/float64(len(base))*100)
		}
	}
	return t.finalize()
}

// ActivePayers counts distinct payers per (cohort, month-of-life).
func ActivePayers(users []sim.User, payments []sim.Payment) *Table {
	rows := join(users, payments)
	sets := payerSets(rows)
	months := observedMonths(rows)

	t := newTable()
	for c, byMonth := range sets {
		for _, m := range months {
			t.set(c, m, float64(len(byMonth[m])))
		}
	}
	return t.finalize()
}

// Churn is the complement of Retention: 100 − retention% per cell, with the
// same cohorts excluded.
func Churn(users []sim.User, payments []sim.Payment) *Table {
	ret := Retention(users, payments)
	t := newTable()
	for _, c := range ret.Cohorts {
		for _, m := range ret.Months {
			t.set(c, m, 100-ret.Value(c, m))
		}
	}
	return t.finalize()
}

// LTV is the cumulative revenue per cohort member: the revenue table summed
// along month-of-life and divided by the cohort's total user count (not just
// its payers).
func LTV(users []sim.User, payments []sim.Payment) *Table {
	rev := Revenue(users, payments)

	sizes := make(map[string]int)
	for _, u := range users {
		sizes[Key(u.RegisteredAt)]++
	}

	t := newTable()
	for _, c := range rev.Cohorts {
		n := sizes[c]
		if n == 0 {
			continue
		}
		cum := 0.0
		for _, m := range rev.Months {
			cum += rev.Value(c, m)
			t.set(c, m, cum/float64(n))
		}
	}
	return t.finalize()
}
