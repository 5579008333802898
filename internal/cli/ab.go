package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Nimos95/product-sandbox/internal/sim"
	"github.com/Nimos95/product-sandbox/internal/stats"
)

func init() {
	rootCmd.AddCommand(newABCmd())
}

func newABCmd() *cobra.Command {
	var (
		flags      scenarioFlags
		alpha      float64
		power      float64
		targetLift float64
	)

	cmd := &cobra.Command{
		Use:   "ab",
		Short: "Run the A/B significance analysis",
		Long: `Generate a scenario's datasets and compare the control and test groups:
conversion significance (chi-squared), revenue comparison (Welch t-test),
uplift, and the MDE / sample-size calculator.

Examples:
  product-sandbox ab --seed 42
  product-sandbox ab --scenario baseline --target-lift 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			users, payments, err := sim.Generate(p)
			if err != nil {
				return fmt.Errorf("failed to generate datasets: %w", err)
			}

			result := stats.Compare(users, payments)
			if !result.Applicable() {
				fmt.Println("A/B analysis not applicable: both variants need at least one user.")
				fmt.Println("Run with --ab to split the population.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "GROUP\tUSERS\tCONVERSIONS\tRATE\tREVENUE\tARPU")
			for _, g := range result.Groups {
				fmt.Fprintf(w, "%s\t%d\t%d\t%.2f%%\t%.2f\t%.2f\n",
					g.Name, g.Users, g.Conversions, g.ConversionPct, g.Revenue, g.ARPU)
			}
			w.Flush()

			fmt.Println()
			fmt.Printf("p-value (conversion, chi-squared): %.4f\n", result.PValue)
			fmt.Printf("p-value (revenue, Welch t-test):   %.4f\n", result.RevenuePValue)
			fmt.Printf("Uplift: %+.1f%%\n", result.UpliftPct)
			if result.Significant {
				fmt.Println("Verdict: statistically significant (α=0.05)")
			} else {
				fmt.Println("Verdict: not significant (α=0.05)")
			}

			control := result.Groups[0]
			pControl := control.ConversionPct / 100
			mdePct, nRecommend := stats.SolveMDEAndSampleSize(pControl, alpha, power, 1.0, targetLift)
			mdeActual := stats.SolveMDE(control.Users, pControl, alpha, power, 1.0)

			fmt.Println()
			fmt.Printf("MDE at n=1000 per group: %.1f%%\n", mdePct)
			fmt.Printf("Recommended n per group for %.0f%% lift: %d\n", targetLift, nRecommend)
			fmt.Printf("MDE at current control size (n=%d): %.1f%%\n", control.Users, mdeActual)
			fmt.Printf("(power %.0f%%, alpha %.2f, two-sided)\n", power*100, alpha)

			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "significance level")
	cmd.Flags().Float64Var(&power, "power", 0.8, "statistical power")
	cmd.Flags().Float64Var(&targetLift, "target-lift", 20, "target relative lift for the sample-size calculator, %")

	return cmd
}
