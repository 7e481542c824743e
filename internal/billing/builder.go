package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/joshestein/csv-invoice-generator/internal/logger"
	"github.com/joshestein/csv-invoice-generator/pkg/models"
)

// invoiceNumberPrefix is the literal prefix on every invoice number.
const invoiceNumberPrefix = "INV-"

// FormatInvoiceNumber renders a counter value as an invoice number string,
// zero-padded to four digits (e.g. 7 -> "INV-0007").
func FormatInvoiceNumber(n int) string {
	return fmt.Sprintf("%s%04d", invoiceNumberPrefix, n)
}

// Builder converts a patient-month group into a rendering-ready record.
type Builder struct {
	// now supplies the generation timestamp; replaceable in tests.
	now func() time.Time
	log zerolog.Logger
}

// NewBuilder creates a builder using wall-clock time for invoice dates.
func NewBuilder() *Builder {
	return &Builder{
		now: time.Now,
		log: logger.WithComponent("billing-builder"),
	}
}

// BuildRecord flattens one group into an InvoiceRecord.
//
// Identity and contact fields come from the group's first row only; if later
// rows disagree they are silently ignored (first row wins). The medical aid
// block is included iff the first row names a medical aid, and the two
// next-of-kin blocks are each included iff their name field is set. The
// invoice date is the generation timestamp, not a service date.
func (b *Builder) BuildRecord(group models.PatientMonthGroup, invoiceNumber string) (*models.InvoiceRecord, error) {
	const op = "BuildRecord"

	if len(group.Rows) == 0 {
		return nil, NewBillingError(op, fmt.Errorf("group %s/%s has no rows", group.Key.PatientName, group.Key.YearMonth), "")
	}

	first := group.Rows[0]

	period, err := periodLabel(group.Key.YearMonth)
	if err != nil {
		return nil, NewBillingError(op, err, group.Key.YearMonth)
	}

	record := &models.InvoiceRecord{
		PatientName:    first.PatientName,
		PatientAddress: breakLines(first.PatientAddress),
		CellNumber:     first.CellNumber,
		Email:          first.Email,
		InvoiceNumber:  invoiceNumber,
		InvoiceDate:    b.now().Format("2 January 2006"),
		Period:         period,
	}

	if first.MedicalAidName != "" {
		record.MedicalAid = &models.MedicalAid{
			Name:   first.MedicalAidName,
			Number: first.MedicalAidNumber,
		}
	}

	if first.NextOfKinName != "" {
		record.NextOfKin = &models.NextOfKin{
			Name:      first.NextOfKinName,
			Cellphone: first.NextOfKinCell,
			Email:     first.NextOfKinEmail,
		}
	}

	if first.SecondNextOfKinName != "" {
		record.SecondNextOfKin = &models.NextOfKin{
			Name:      first.SecondNextOfKinName,
			Cellphone: first.SecondNextOfKinCell,
			Email:     first.SecondNextOfKinEmail,
		}
	}

	record.LineItems = make([]models.LineItem, 0, len(group.Rows))
	for _, row := range group.Rows {
		record.LineItems = append(record.LineItems, models.LineItem{
			Date:          row.Date,
			ProcedureCode: row.ProcedureCode,
			ICDCode:       row.ICDCode,
		})
	}

	b.log.Debug().
		Str("patient", group.Key.PatientName).
		Str("period", group.Key.YearMonth).
		Int("line_items", len(record.LineItems)).
		Str("invoice_number", invoiceNumber).
		Msg("Invoice record built")

	return record, nil
}

// periodLabel converts a YYYY-MM key into its long form, e.g.
// "2025-11" -> "November 2025".
func periodLabel(yearMonth string) (string, error) {
	t, err := time.Parse("2006-01", yearMonth)
	if err != nil {
		return "", fmt.Errorf("invalid year-month %q: %w", yearMonth, err)
	}
	return t.Format("January 2006"), nil
}

// breakLines converts newlines in a multi-line address to the template's
// line-break marker.
func breakLines(address string) string {
	address = strings.ReplaceAll(address, "\r\n", "\n")
	return strings.ReplaceAll(address, "\n", "<br />")
}
