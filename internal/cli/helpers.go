package cli

import (
	"context"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/Nimos95/product-sandbox/internal/metrics"
	"github.com/Nimos95/product-sandbox/internal/sim"
	"github.com/Nimos95/product-sandbox/internal/store"
)

// withStore opens the database, executes the function, and handles cleanup.
func withStore(fn func(*store.SQLiteStore) error) error {
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer s.Close()

	return fn(s)
}

// scenarioFlags registers the full scenario parameter set on a command and
// resolves it back into sim.Params, optionally starting from a stored
// scenario. Explicitly set flags always win over stored values.
type scenarioFlags struct {
	scenarioName string
	p            sim.Params
	randomSeed   bool
}

func (f *scenarioFlags) register(cmd *cobra.Command) {
	f.p = sim.DefaultParams()

	cmd.Flags().StringVar(&f.scenarioName, "scenario", "", "start from a saved scenario")
	cmd.Flags().IntVar(&f.p.Users, "users", f.p.Users, "population size")
	cmd.Flags().Float64Var(&f.p.ConversionPct, "conversion", f.p.ConversionPct, "base conversion to the target action, %")
	cmd.Flags().Float64Var(&f.p.PctAds, "ads", f.p.PctAds, "ads channel share")
	cmd.Flags().Float64Var(&f.p.PctOrganic, "organic", f.p.PctOrganic, "organic channel share")
	cmd.Flags().Float64Var(&f.p.PctReferral, "referral", f.p.PctReferral, "referral channel share")
	cmd.Flags().BoolVar(&f.p.Seasonality, "seasonality", f.p.Seasonality, "apply seasonal conversion multipliers")
	cmd.Flags().Float64Var(&f.p.MinAmount, "min-amount", f.p.MinAmount, "minimum repeat payment amount")
	cmd.Flags().Float64Var(&f.p.MaxAmount, "max-amount", f.p.MaxAmount, "maximum payment amount")
	cmd.Flags().Float64Var(&f.p.FirstPaymentMin, "first-min", f.p.FirstPaymentMin, "minimum first payment amount")
	cmd.Flags().Float64Var(&f.p.FirstPaymentMax, "first-max", f.p.FirstPaymentMax, "maximum first payment amount")
	cmd.Flags().Float64Var(&f.p.ChurnMonths, "churn-months", f.p.ChurnMonths, "months without a payment before churn")
	cmd.Flags().Float64Var(&f.p.PayRate, "pay-rate", f.p.PayRate, "share of users who ever pay")
	cmd.Flags().Float64Var(&f.p.RepeatRate, "repeat-rate", f.p.RepeatRate, "share of payers with repeat payments")
	cmd.Flags().BoolVar(&f.p.ABTest, "ab", f.p.ABTest, "split users into A/B variants")
	cmd.Flags().Float64Var(&f.p.CAC, "cac", f.p.CAC, "customer acquisition cost")
	cmd.Flags().IntVar(&f.p.InactiveDays, "inactive-days", f.p.InactiveDays, "churn inactivity window, days")
	cmd.Flags().Int64Var(&f.p.Seed, "seed", f.p.Seed, "random seed")
	cmd.Flags().BoolVar(&f.randomSeed, "random-seed", false, "ignore --seed and use a non-reproducible seed")
}

func (f *scenarioFlags) resolve(cmd *cobra.Command) (sim.Params, error) {
	params := f.p

	if f.scenarioName != "" {
		err := withStore(func(s *store.SQLiteStore) error {
			sc, err := s.GetScenario(context.Background(), f.scenarioName)
			if err != nil {
				if err == store.ErrNotFound {
					return fmt.Errorf("scenario '%s' not found", f.scenarioName)
				}
				return fmt.Errorf("failed to load scenario: %w", err)
			}
			stored := sc.Params
			overrideParams(cmd, &stored, f.p)
			params = stored
			return nil
		})
		if err != nil {
			return sim.Params{}, err
		}
	}

	params.RandomSeed = f.randomSeed
	if err := params.Validate(); err != nil {
		return sim.Params{}, err
	}
	return params, nil
}

// overrideParams copies flag values the user explicitly set on top of a
// stored scenario.
func overrideParams(cmd *cobra.Command, dst *sim.Params, flags sim.Params) {
	set := func(name string) bool { return cmd.Flags().Changed(name) }

	if set("users") {
		dst.Users = flags.Users
	}
	if set("conversion") {
		dst.ConversionPct = flags.ConversionPct
	}
	if set("ads") {
		dst.PctAds = flags.PctAds
	}
	if set("organic") {
		dst.PctOrganic = flags.PctOrganic
	}
	if set("referral") {
		dst.PctReferral = flags.PctReferral
	}
	if set("seasonality") {
		dst.Seasonality = flags.Seasonality
	}
	if set("min-amount") {
		dst.MinAmount = flags.MinAmount
	}
	if set("max-amount") {
		dst.MaxAmount = flags.MaxAmount
	}
	if set("first-min") {
		dst.FirstPaymentMin = flags.FirstPaymentMin
	}
	if set("first-max") {
		dst.FirstPaymentMax = flags.FirstPaymentMax
	}
	if set("churn-months") {
		dst.ChurnMonths = flags.ChurnMonths
	}
	if set("pay-rate") {
		dst.PayRate = flags.PayRate
	}
	if set("repeat-rate") {
		dst.RepeatRate = flags.RepeatRate
	}
	if set("ab") {
		dst.ABTest = flags.ABTest
	}
	if set("cac") {
		dst.CAC = flags.CAC
	}
	if set("inactive-days") {
		dst.InactiveDays = flags.InactiveDays
	}
	if set("seed") {
		dst.Seed = flags.Seed
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// snapshot computes the rounded metric summary recorded with experiments
// and rendered in reports.
func snapshot(users []sim.User, payments []sim.Payment, p sim.Params) store.Snapshot {
	return store.Snapshot{
		TotalUsers:     len(users),
		Payers:         metrics.PayersCount(payments),
		ConversionPct:  round2(metrics.ConversionRate(users)),
		ARPU:           round2(metrics.ARPU(users, payments)),
		ARPPU:          round2(metrics.ARPPU(payments)),
		LTV3:           round2(metrics.LTVNMonths(users, payments, 3)),
		LTV6:           round2(metrics.LTVNMonths(users, payments, 6)),
		PayingSharePct: round2(metrics.PayingShare(users, payments)),
		ChurnRatePct:   round2(metrics.ChurnRateMonthly(payments, p.InactiveDays)),
	}
}
