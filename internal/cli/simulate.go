package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Nimos95/product-sandbox/internal/metrics"
	"github.com/Nimos95/product-sandbox/internal/sim"
	"github.com/Nimos95/product-sandbox/internal/store"
)

func init() {
	rootCmd.AddCommand(newSimulateCmd())
}

func newSimulateCmd() *cobra.Command {
	var (
		flags  scenarioFlags
		record bool
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a scenario and print its metrics",
		Long: `Generate the user and payment datasets for a scenario and print the
product-metrics summary.

Examples:
  product-sandbox simulate --users 5000 --conversion 10 --seed 7
  product-sandbox simulate --scenario baseline --record
  product-sandbox simulate --random-seed`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.resolve(cmd)
			if err != nil {
				return err
			}

			var bar *progressbar.ProgressBar
			if !quiet {
				bar = progressbar.Default(2, "simulating")
			}

			users, payments, err := sim.Generate(p)
			if err != nil {
				return fmt.Errorf("failed to generate datasets: %w", err)
			}
			if bar != nil {
				_ = bar.Add(1)
			}

			snap := snapshot(users, payments, p)
			if bar != nil {
				_ = bar.Add(1)
				fmt.Println()
			}

			printSummary(cmd, users, payments, p, snap)

			if record {
				return withStore(func(s *store.SQLiteStore) error {
					if err := s.AppendExperiment(context.Background(), flags.scenarioName, p, snap); err != nil {
						return fmt.Errorf("failed to record experiment: %w", err)
					}
					fmt.Println("Recorded run in experiment history.")
					return nil
				})
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&record, "record", false, "append this run to the experiment history")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress the progress bar")

	return cmd
}

func printSummary(cmd *cobra.Command, users []sim.User, payments []sim.Payment, p sim.Params, snap store.Snapshot) {
	fmt.Printf("Generated %d users and %d payments (seed=%d)\n\n", len(users), len(payments), p.Seed)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	fmt.Fprintf(w, "Total users\t%d\n", snap.TotalUsers)
	fmt.Fprintf(w, "Paying users\t%d\n", snap.Payers)
	fmt.Fprintf(w, "Conversion rate\t%.1f%%\n", snap.ConversionPct)
	fmt.Fprintf(w, "ARPU\t%.2f\n", snap.ARPU)
	fmt.Fprintf(w, "ARPPU\t%.2f\n", snap.ARPPU)
	fmt.Fprintf(w, "LTV 3 months\t%.2f\n", snap.LTV3)
	fmt.Fprintf(w, "LTV 6 months\t%.2f\n", snap.LTV6)
	fmt.Fprintf(w, "Avg repeat check\t%.2f\n", metrics.AvgRepeatCheck(payments))
	fmt.Fprintf(w, "Paying share\t%.1f%%\n", snap.PayingSharePct)
	fmt.Fprintf(w, "Churn rate (monthly avg, %dd window)\t%.1f%%\n", p.InactiveDays, snap.ChurnRatePct)
	if payback, ok := metrics.PaybackMonths(p.CAC, monthlyARPU(snap)); ok {
		fmt.Fprintf(w, "Payback\t%.1f months\n", payback)
	} else {
		fmt.Fprintf(w, "Payback\tn/a\n")
	}
	w.Flush()
}

// monthlyARPU estimates the monthly revenue per user from accumulated LTV,
// preferring the longer horizon, and falls back to spreading ARPU over six
// months when no LTV has accrued yet.
func monthlyARPU(snap store.Snapshot) float64 {
	switch {
	case snap.LTV6 > 0:
		return snap.LTV6 / 6
	case snap.LTV3 > 0:
		return snap.LTV3 / 3
	default:
		return snap.ARPU / 6
	}
}
