package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Nimos95/product-sandbox/internal/store"
)

func init() {
	scenarioCmd := &cobra.Command{
		Use:   "scenario",
		Short: "Manage saved scenarios",
	}
	scenarioCmd.AddCommand(newScenarioSaveCmd())
	scenarioCmd.AddCommand(newScenarioListCmd())
	scenarioCmd.AddCommand(newScenarioShowCmd())
	scenarioCmd.AddCommand(newScenarioDeleteCmd())
	rootCmd.AddCommand(scenarioCmd)
}

func newScenarioSaveCmd() *cobra.Command {
	var (
		flags     scenarioFlags
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save a scenario parameter set under a name",
		Long: `Save the scenario described by the flags under a name for later replay.

Examples:
  product-sandbox scenario save baseline
  product-sandbox scenario save promo --conversion 18 --seasonality=false
  product-sandbox scenario save baseline --users 5000 --overwrite`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			p, err := flags.resolve(cmd)
			if err != nil {
				return err
			}

			return withStore(func(s *store.SQLiteStore) error {
				sc, err := s.SaveScenario(context.Background(), name, p, overwrite)
				if err != nil {
					if errors.Is(err, store.ErrExists) {
						return fmt.Errorf("scenario '%s' already exists, pass --overwrite to replace it", name)
					}
					return fmt.Errorf("failed to save scenario: %w", err)
				}
				fmt.Printf("Saved scenario '%s' (%d users, seed %d)\n", sc.Name, sc.Params.Users, sc.Params.Seed)
				return nil
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing scenario with the same name")

	return cmd
}

func newScenarioListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(s *store.SQLiteStore) error {
				scenarios, err := s.ListScenarios(context.Background())
				if err != nil {
					return fmt.Errorf("failed to list scenarios: %w", err)
				}
				if len(scenarios) == 0 {
					fmt.Println("No saved scenarios yet. Save one with 'scenario save <name>'.")
					return nil
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tUSERS\tCONVERSION\tA/B\tSEED\tUPDATED")
				for _, sc := range scenarios {
					ab := "off"
					if sc.Params.ABTest {
						ab = "on"
					}
					fmt.Fprintf(w, "%s\t%d\t%.1f%%\t%s\t%d\t%s\n",
						sc.Name, sc.Params.Users, sc.Params.ConversionPct, ab, sc.Params.Seed,
						sc.UpdatedAt.Format("2006-01-02"))
				}
				w.Flush()
				return nil
			})
		},
	}
}

func newScenarioShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a saved scenario's parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			return withStore(func(s *store.SQLiteStore) error {
				sc, err := s.GetScenario(context.Background(), name)
				if err != nil {
					if err == store.ErrNotFound {
						return fmt.Errorf("scenario '%s' not found", name)
					}
					return fmt.Errorf("failed to get scenario: %w", err)
				}

				p := sc.Params
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "Users\t%d\n", p.Users)
				fmt.Fprintf(w, "Base conversion\t%.1f%%\n", p.ConversionPct)
				fmt.Fprintf(w, "Channels (ads/organic/referral)\t%.0f/%.0f/%.0f\n", p.PctAds, p.PctOrganic, p.PctReferral)
				fmt.Fprintf(w, "Seasonality\t%t\n", p.Seasonality)
				fmt.Fprintf(w, "Payment range\t%.0f – %.0f\n", p.MinAmount, p.MaxAmount)
				fmt.Fprintf(w, "First payment range\t%.0f – %.0f\n", p.FirstPaymentMin, p.FirstPaymentMax)
				fmt.Fprintf(w, "Churn window\t%.0f months\n", p.ChurnMonths)
				fmt.Fprintf(w, "Pay / repeat rate\t%.2f / %.2f\n", p.PayRate, p.RepeatRate)
				fmt.Fprintf(w, "A/B test\t%t\n", p.ABTest)
				fmt.Fprintf(w, "CAC\t%.0f\n", p.CAC)
				fmt.Fprintf(w, "Inactivity window\t%d days\n", p.InactiveDays)
				fmt.Fprintf(w, "Seed\t%d\n", p.Seed)
				w.Flush()
				return nil
			})
		},
	}
}

func newScenarioDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			if !yes {
				prompt := promptui.Prompt{
					Label:     fmt.Sprintf("Delete scenario '%s'", name),
					IsConfirm: true,
				}
				if _, err := prompt.Run(); err != nil {
					if err == promptui.ErrInterrupt {
						os.Exit(0)
					}
					fmt.Println("Aborted.")
					return nil
				}
			}

			return withStore(func(s *store.SQLiteStore) error {
				if err := s.DeleteScenario(context.Background(), name); err != nil {
					if err == store.ErrNotFound {
						return fmt.Errorf("scenario '%s' not found", name)
					}
					return fmt.Errorf("failed to delete scenario: %w", err)
				}
				fmt.Printf("Deleted scenario '%s'\n", name)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
