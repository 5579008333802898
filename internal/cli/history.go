package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Nimos95/product-sandbox/internal/store"
)

func init() {
	rootCmd.AddCommand(newHistoryCmd())
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the experiment history",
		Long:  `List recorded simulation runs (parameters plus metric snapshot), newest first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(s *store.SQLiteStore) error {
				experiments, err := s.ListExperiments(context.Background(), limit)
				if err != nil {
					return fmt.Errorf("failed to list experiments: %w", err)
				}
				if len(experiments) == 0 {
					fmt.Println("No recorded experiments yet. Run 'simulate --record' to append one.")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "WHEN\tSCENARIO\tUSERS\tCONV %\tARPU\tARPPU\tLTV3\tLTV6\tPAYING %\tCHURN %")
				for _, e := range experiments {
					name := e.ScenarioName
					if name == "" {
						name = "-"
					}
					fmt.Fprintf(w, "%s\t%s\t%d\t%.1f\t%.2f\t%.2f\t%.2f\t%.2f\t%.1f\t%.1f\n",
						e.CreatedAt.Format("2006-01-02 15:04"),
						name,
						e.Metrics.TotalUsers,
						e.Metrics.ConversionPct,
						e.Metrics.ARPU,
						e.Metrics.ARPPU,
						e.Metrics.LTV3,
						e.Metrics.LTV6,
						e.Metrics.PayingSharePct,
						e.Metrics.ChurnRatePct,
					)
				}
				w.Flush()
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries to show (0 for all)")

	return cmd
}
