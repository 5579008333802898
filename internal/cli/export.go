package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nimos95/product-sandbox/internal/sim"
)

func init() {
	rootCmd.AddCommand(newExportCmd())
}

func newExportCmd() *cobra.Command {
	var (
		flags  scenarioFlags
		format string
	)

	cmd := &cobra.Command{
		Use:   "export <users|payments>",
		Short: "Export a raw generated dataset",
		Long: `Generate a scenario's datasets and write one of them to stdout
in CSV or JSON format.

Examples:
  product-sandbox export users --seed 42 > users.csv
  product-sandbox export payments --format json --scenario baseline > payments.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset := args[0]
			if dataset != "users" && dataset != "payments" {
				return fmt.Errorf("invalid dataset: must be 'users' or 'payments'")
			}
			if format != "csv" && format != "json" {
				return fmt.Errorf("invalid format: must be 'csv' or 'json'")
			}

			p, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			users, payments, err := sim.Generate(p)
			if err != nil {
				return fmt.Errorf("failed to generate datasets: %w", err)
			}

			switch {
			case dataset == "users" && format == "csv":
				return exportUsersCSV(users)
			case dataset == "users":
				return exportJSON(map[string][]sim.User{"users": users})
			case format == "csv":
				return exportPaymentsCSV(payments)
			default:
				return exportJSON(map[string][]sim.Payment{"payments": payments})
			}
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format (csv or json)")

	return cmd
}

func exportUsersCSV(users []sim.User) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"user_id", "registered_at", "converted", "variant", "channel"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, u := range users {
		row := []string{
			strconv.Itoa(u.ID),
			u.RegisteredAt.Format(time.RFC3339),
			strconv.FormatBool(u.Converted),
			u.Variant,
			u.Channel,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

func exportPaymentsCSV(payments []sim.Payment) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"payment_id", "user_id", "amount", "paid_at"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, p := range payments {
		row := []string{
			strconv.Itoa(p.PaymentID),
			strconv.Itoa(p.UserID),
			strconv.FormatFloat(p.Amount, 'f', 2, 64),
			p.PaidAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

func exportJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
