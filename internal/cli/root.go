package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	dbPath string
)

var rootCmd = &cobra.Command{
	Use:   "product-sandbox",
	Short: "Product Sandbox - a synthetic product-analytics simulator",
	Long: `Product Sandbox simulates a cohort of product users and their payments,
then derives conversion, revenue, LTV, churn/retention and unit-economics
metrics, and runs A/B significance analysis over the simulated population.

Datasets are regenerated from scenario parameters (deterministic for a fixed
seed), so only parameters and metric snapshots are ever persisted.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", getEnvOrDefault("PSBX_DB_PATH", "./sandbox.db"), "database path")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
