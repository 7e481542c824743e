package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshestein/csv-invoice-generator/internal/batch"
	"github.com/joshestein/csv-invoice-generator/internal/config"
	"github.com/joshestein/csv-invoice-generator/internal/counter"
	"github.com/joshestein/csv-invoice-generator/internal/logger"
	"github.com/joshestein/csv-invoice-generator/internal/render"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate PDF invoices for one billing month",
	Long: `Read billing line items from a CSV file, group them by patient and
calendar month, and write one numbered PDF invoice per group.

Invoice numbers are allocated from a counter file in the working
directory, one consecutive number per invoice, and the counter is
persisted only after the whole batch succeeds. A failed run therefore
reuses the same numbers on retry, overwriting any PDFs it already
wrote.

Rasterization requires the wkhtmltopdf binary on the PATH.`,
	Example: `  # Generate invoices for the current month
  invoicegen generate

  # Generate invoices for November 2025 from a specific file
  invoicegen generate --month 2025-11 --csv invoices/november.csv

  # Preview numbering and filenames without writing anything
  invoicegen generate --month 2025-11 --dry-run`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("month", time.Now().Format("2006-01"), "Billing month to generate (YYYY-MM)")
	generateCmd.Flags().String("csv", "invoices/test.csv", "Path to the billing CSV file")
	generateCmd.Flags().StringP("output", "o", "output", "Directory for generated PDFs")
	generateCmd.Flags().String("template", "templates/invoice.html", "Path to the invoice HTML template")
	generateCmd.Flags().String("counter-file", "invoice_counter.txt", "Path to the invoice counter file")
	generateCmd.Flags().Bool("dry-run", false, "Run the pipeline without writing PDFs or the counter")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("generate")

	month, _ := cmd.Flags().GetString("month")
	csvPath, _ := cmd.Flags().GetString("csv")
	outputDir, _ := cmd.Flags().GetString("output")
	templatePath, _ := cmd.Flags().GetString("template")
	counterPath, _ := cmd.Flags().GetString("counter-file")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	log.Info().
		Str("month", month).
		Str("csv", csvPath).
		Str("output", outputDir).
		Bool("dry_run", dryRun).
		Msg("Starting invoice generation")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	emitter, err := render.NewEmitter(templatePath, cfg.PracticeFields(), render.NewWKHTMLToPDF())
	if err != nil {
		return err
	}

	runner := batch.NewRunner(counter.NewStore(counterPath), emitter)

	summary, err := runner.Run(context.Background(), batch.Options{
		CSVPath:   csvPath,
		OutputDir: outputDir,
		Month:     month,
		DryRun:    dryRun,
	})
	if err != nil {
		return err
	}

	if summary.GroupsWritten == 0 {
		log.Info().
			Str("month", month).
			Msg("No invoices matched the requested month")
		return nil
	}

	log.Info().
		Int("invoices", summary.GroupsWritten).
		Int("next_invoice_number", summary.NextCounter).
		Msg("Invoice generation finished")

	return nil
}
