package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nimos95/product-sandbox/internal/cohort"
	"github.com/Nimos95/product-sandbox/internal/report"
	"github.com/Nimos95/product-sandbox/internal/sim"
	"github.com/Nimos95/product-sandbox/internal/stats"
)

func init() {
	rootCmd.AddCommand(newReportCmd())
}

func newReportCmd() *cobra.Command {
	var (
		flags scenarioFlags
		out   string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a self-contained HTML report",
		Long: `Generate a scenario's datasets and write an HTML report with the
scenario parameters, key metrics, A/B results and cohort tables.

Examples:
  product-sandbox report --scenario baseline
  product-sandbox report --seed 42 --out baseline.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			users, payments, err := sim.Generate(p)
			if err != nil {
				return fmt.Errorf("failed to generate datasets: %w", err)
			}

			html, err := report.Build(report.Data{
				ScenarioName: flags.scenarioName,
				Params:       p,
				Metrics:      snapshot(users, payments, p),
				AB:           stats.Compare(users, payments),
				LTV:          cohort.LTV(users, payments),
				Retention:    cohort.Retention(users, payments),
				GeneratedAt:  time.Now(),
			})
			if err != nil {
				return err
			}

			if out == "" {
				out = fmt.Sprintf("report_%s.html", time.Now().Format("20060102_150405"))
			}
			if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			fmt.Printf("Wrote report to %s\n", out)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default report_<timestamp>.html)")

	return cmd
}
