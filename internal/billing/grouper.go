package billing

import (
	"fmt"
	"time"

	"github.com/joshestein/csv-invoice-generator/pkg/models"
)

// serviceDateLayout is the source date format, day first.
const serviceDateLayout = "02/01/2006"

// ParseServiceDate parses a row's service date (DD/MM/YYYY). An unparseable
// date is fatal for the whole run.
func ParseServiceDate(value string) (time.Time, error) {
	t, err := time.Parse(serviceDateLayout, value)
	if err != nil {
		return time.Time{}, NewBillingError("ParseServiceDate", ErrBadDate, value)
	}
	return t, nil
}

// GroupByPatientMonth partitions rows into (patient name, YYYY-MM) buckets.
// Groups are returned in first-seen order of their key, and each group keeps
// its rows in the original file order, so the result is deterministic for a
// given input. Patient names are matched exactly; the day of the service date
// is discarded.
func GroupByPatientMonth(rows []models.InvoiceRow) ([]models.PatientMonthGroup, error) {
	groups := make([]models.PatientMonthGroup, 0)
	byKey := make(map[models.GroupKey]int)

	for i, row := range rows {
		date, err := ParseServiceDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		key := models.GroupKey{
			PatientName: row.PatientName,
			YearMonth:   date.Format("2006-01"),
		}

		idx, ok := byKey[key]
		if !ok {
			idx = len(groups)
			byKey[key] = idx
			groups = append(groups, models.PatientMonthGroup{Key: key})
		}
		groups[idx].Rows = append(groups[idx].Rows, row)
	}

	return groups, nil
}

// FilterByMonth keeps only groups whose YYYY-MM key equals month, preserving
// group order. An empty month keeps everything.
func FilterByMonth(groups []models.PatientMonthGroup, month string) []models.PatientMonthGroup {
	if month == "" {
		return groups
	}
	filtered := make([]models.PatientMonthGroup, 0, len(groups))
	for _, g := range groups {
		if g.Key.YearMonth == month {
			filtered = append(filtered, g)
		}
	}
	return filtered
}
