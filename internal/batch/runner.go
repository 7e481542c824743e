// Package batch ties the invoice pipeline together: read, group, filter,
// number, build, emit, then persist the counter.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/joshestein/csv-invoice-generator/internal/billing"
	"github.com/joshestein/csv-invoice-generator/internal/counter"
	"github.com/joshestein/csv-invoice-generator/internal/logger"
	"github.com/joshestein/csv-invoice-generator/pkg/models"
)

// Emitter writes one invoice record as a PDF artifact.
type Emitter interface {
	Emit(ctx context.Context, record *models.InvoiceRecord, outputPath string) error
}

// Options controls one batch run.
type Options struct {
	// CSVPath is the source file of billing line items.
	CSVPath string

	// OutputDir receives one PDF per group; created if missing.
	OutputDir string

	// Month filters groups to one YYYY-MM period. Empty means no filter.
	Month string

	// DryRun runs the full pipeline, numbering included, but writes no
	// PDFs and leaves the counter file untouched.
	DryRun bool
}

// Summary reports what a run produced.
type Summary struct {
	GroupsWritten int
	NextCounter   int
	Files         []string
}

// Runner executes the invoice batch.
type Runner struct {
	reader  *billing.Reader
	builder *billing.Builder
	counter *counter.Store
	emitter Emitter
	log     zerolog.Logger
}

// NewRunner assembles a runner from its collaborators.
func NewRunner(store *counter.Store, emitter Emitter) *Runner {
	return &Runner{
		reader:  billing.NewReader(),
		builder: billing.NewBuilder(),
		counter: store,
		emitter: emitter,
		log:     logger.WithComponent("batch"),
	}
}

// Run executes one batch. Invoice numbers are allocated consecutively from
// the stored counter, one per group in group order, and the counter file is
// rewritten exactly once after every group succeeded. Any failure aborts the
// whole batch before the counter write; already-written PDFs are left in
// place and the next run reuses the same numbers.
func (r *Runner) Run(ctx context.Context, opts Options) (*Summary, error) {
	const op = "Run"

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("batch: %s failed to create output dir: %w", op, err)
	}

	rows, err := r.reader.ReadCSV(opts.CSVPath)
	if err != nil {
		return nil, err
	}

	groups, err := billing.GroupByPatientMonth(rows)
	if err != nil {
		return nil, err
	}

	groups = billing.FilterByMonth(groups, opts.Month)
	if len(groups) == 0 {
		r.log.Info().
			Str("month", opts.Month).
			Str("csv", opts.CSVPath).
			Msg("No invoice groups matched; nothing to do")
		return &Summary{}, nil
	}

	start, err := r.counter.Next()
	if err != nil {
		return nil, err
	}

	summary := &Summary{NextCounter: start}
	for i, group := range groups {
		number := billing.FormatInvoiceNumber(start + i)

		record, err := r.builder.BuildRecord(group, number)
		if err != nil {
			return nil, err
		}

		outputPath := filepath.Join(opts.OutputDir, OutputFilename(group.Key))

		if opts.DryRun {
			r.log.Info().
				Str("patient", group.Key.PatientName).
				Str("period", record.Period).
				Str("invoice_number", number).
				Str("output", outputPath).
				Msg("Dry run: invoice not written")
		} else {
			if err := r.emitter.Emit(ctx, record, outputPath); err != nil {
				return nil, err
			}
		}

		summary.GroupsWritten++
		summary.Files = append(summary.Files, outputPath)
	}

	summary.NextCounter = start + len(groups)
	if !opts.DryRun {
		if err := r.counter.Save(summary.NextCounter); err != nil {
			return nil, err
		}
	}

	r.log.Info().
		Int("invoices", summary.GroupsWritten).
		Int("next_counter", summary.NextCounter).
		Bool("dry_run", opts.DryRun).
		Msg("Batch complete")

	return summary, nil
}

var nameSanitizer = strings.NewReplacer(" ", "_", "/", "-", "\\", "-")

// OutputFilename derives the PDF filename for a group: the patient name with
// spaces replaced by underscores and slashes by hyphens, plus the year-month
// with its hyphen replaced by an underscore.
func OutputFilename(key models.GroupKey) string {
	name := nameSanitizer.Replace(key.PatientName)
	yearMonth := strings.ReplaceAll(key.YearMonth, "-", "_")
	return fmt.Sprintf("invoice_%s_%s.pdf", name, yearMonth)
}
