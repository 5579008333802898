package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Nimos95/product-sandbox/internal/cohort"
	"github.com/Nimos95/product-sandbox/internal/metrics"
	"github.com/Nimos95/product-sandbox/internal/sim"
)

func init() {
	rootCmd.AddCommand(newCohortsCmd())
}

func newCohortsCmd() *cobra.Command {
	var (
		flags scenarioFlags
		table string
		roiN  int
	)

	cmd := &cobra.Command{
		Use:   "cohorts",
		Short: "Print a cohort × month-of-life table",
		Long: `Generate a scenario's datasets and print one of the cohort tables:
revenue, retention, churn, payers, ltv or roi.

Examples:
  product-sandbox cohorts --table retention --seed 42
  product-sandbox cohorts --table ltv --scenario baseline
  product-sandbox cohorts --table roi --cac 400`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			users, payments, err := sim.Generate(p)
			if err != nil {
				return fmt.Errorf("failed to generate datasets: %w", err)
			}

			switch table {
			case "revenue":
				printPivot(cmd, cohort.Revenue(users, payments), "%.2f")
			case "retention":
				printPivot(cmd, cohort.Retention(users, payments), "%.1f")
			case "churn":
				printPivot(cmd, cohort.Churn(users, payments), "%.1f")
			case "payers":
				printPivot(cmd, cohort.ActivePayers(users, payments), "%.0f")
			case "ltv":
				printPivot(cmd, cohort.LTV(users, payments), "%.2f")
			case "roi":
				printROI(cmd, metrics.ROIByCohort(cohort.LTV(users, payments), p.CAC, roiN))
			default:
				return fmt.Errorf("invalid table: must be revenue, retention, churn, payers, ltv or roi")
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&table, "table", "t", "revenue", "table to print (revenue, retention, churn, payers, ltv, roi)")
	cmd.Flags().IntVar(&roiN, "roi-months", 6, "LTV horizon in months for the ROI table")

	return cmd
}

func printPivot(cmd *cobra.Command, t *cohort.Table, format string) {
	if t.Empty() {
		fmt.Println("No data.")
		return
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	header := []string{"COHORT"}
	for _, m := range t.Months {
		header = append(header, fmt.Sprintf("M%d", m))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, c := range t.Cohorts {
		row := []string{c}
		for _, m := range t.Months {
			row = append(row, fmt.Sprintf(format, t.Value(c, m)))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}

func printROI(cmd *cobra.Command, series []metrics.CohortValue) {
	if len(series) == 0 {
		fmt.Println("No data (ROI needs cohort LTV and a positive CAC).")
		return
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COHORT\tROI %")
	for _, cv := range series {
		fmt.Fprintf(w, "%s\t%.1f\n", cv.Cohort, cv.Value)
	}
	w.Flush()
}
