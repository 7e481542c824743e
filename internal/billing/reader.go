// Package billing implements the invoice pipeline: reading billing line
// items from CSV, grouping them by patient and calendar month, and building
// rendering-ready invoice records.
//
// All CSV fields are carried as raw text end to end. Cellphone numbers,
// medical aid numbers and postal codes carry leading zeros that a numeric
// conversion would destroy.
package billing

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/joshestein/csv-invoice-generator/internal/logger"
	"github.com/joshestein/csv-invoice-generator/pkg/models"
)

// Column names as they appear in the CSV header row.
const (
	colDate             = "Date"
	colPatientName      = "Patient name"
	colPatientAddress   = "Patient address"
	colCellNumber       = "Cell number"
	colEmail            = "Email"
	colMedicalAidName   = "Medical aid name"
	colMedicalAidNumber = "Medical aid number"
	colKinName          = "Next of kin name"
	colKinCell          = "Next of kin cellphone number"
	colKinEmail         = "Next of kin email"
	colSecondKinName    = "Second next of kin name"
	colSecondKinCell    = "Second next of kin cellphone number"
	colSecondKinEmail   = "Second next of kin email"
	colProcedureCode    = "P. Code"
	colICDCode          = "ICD Code"
)

// requiredColumns must all be present in the header row. The next-of-kin
// email columns are optional and default to blank when absent.
var requiredColumns = []string{
	colDate,
	colPatientName,
	colPatientAddress,
	colCellNumber,
	colEmail,
	colMedicalAidName,
	colMedicalAidNumber,
	colKinName,
	colKinCell,
	colSecondKinName,
	colSecondKinCell,
	colProcedureCode,
	colICDCode,
}

// Reader loads billing line items from a CSV file.
type Reader struct {
	log zerolog.Logger
}

// NewReader creates a new CSV reader.
func NewReader() *Reader {
	return &Reader{
		log: logger.WithComponent("billing-reader"),
	}
}

// ReadCSV reads the file at path and returns its line items in file order.
// No deduplication and no field-format validation is performed; the only
// schema rule enforced is the presence of the required columns.
func (r *Reader) ReadCSV(path string) ([]models.InvoiceRow, error) {
	const op = "ReadCSV"

	r.log.Info().Str("file", path).Msg("Reading invoice CSV")

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open %s: %w", op, path, err)
	}
	defer file.Close()

	csvReader := csv.NewReader(file)
	// Rows may legitimately vary in trailing blanks; enforce per-field
	// lookup through the header map instead.
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse %s: %w", op, path, err)
	}

	if len(records) == 0 {
		return nil, NewBillingError(op, ErrEmptyCSV, path)
	}

	header := records[0]
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, NewBillingError(op, ErrMissingColumn, name)
		}
	}

	rows := make([]models.InvoiceRow, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, models.InvoiceRow{
			Date:                 field(record, index, colDate),
			PatientName:          field(record, index, colPatientName),
			PatientAddress:       field(record, index, colPatientAddress),
			CellNumber:           field(record, index, colCellNumber),
			Email:                field(record, index, colEmail),
			MedicalAidName:       field(record, index, colMedicalAidName),
			MedicalAidNumber:     field(record, index, colMedicalAidNumber),
			NextOfKinName:        field(record, index, colKinName),
			NextOfKinCell:        field(record, index, colKinCell),
			NextOfKinEmail:       field(record, index, colKinEmail),
			SecondNextOfKinName:  field(record, index, colSecondKinName),
			SecondNextOfKinCell:  field(record, index, colSecondKinCell),
			SecondNextOfKinEmail: field(record, index, colSecondKinEmail),
			ProcedureCode:        field(record, index, colProcedureCode),
			ICDCode:              field(record, index, colICDCode),
		})
	}

	r.log.Info().
		Int("rows", len(rows)).
		Str("file", path).
		Msg("Invoice CSV read successfully")

	return rows, nil
}

// field safely extracts a column value from a record, returning "" when the
// column is absent from the header or the record is short.
func field(record []string, index map[string]int, column string) string {
	i, ok := index[column]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}
