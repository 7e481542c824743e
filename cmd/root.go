package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshestein/csv-invoice-generator/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "invoicegen",
	Short: "Generate medical billing invoices from a CSV file",
	Long: `invoicegen reads medical billing line items from a CSV file, groups
them by patient and billing month, assigns sequential invoice numbers
and writes one PDF invoice per patient per month.

Practice identity and banking details are read from the environment
(or a .env file in the working directory); see .env.example for the
full list of keys.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Use 'invoicegen generate' to produce invoices, or --help for details.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}
