package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshestein/csv-invoice-generator/pkg/models"
)

func row(patient, date, code string) models.InvoiceRow {
	return models.InvoiceRow{PatientName: patient, Date: date, ProcedureCode: code}
}

func TestParseServiceDate(t *testing.T) {
	date, err := ParseServiceDate("05/11/2025")
	require.NoError(t, err)
	assert.Equal(t, 2025, date.Year())
	assert.Equal(t, "November", date.Month().String())
	assert.Equal(t, 5, date.Day())
}

func TestParseServiceDateRejectsOtherFormats(t *testing.T) {
	for _, value := range []string{"2025-11-05", "11/05/2025 10:00", "5 Nov 2025", ""} {
		_, err := ParseServiceDate(value)
		assert.ErrorIs(t, err, ErrBadDate, "value %q", value)
	}
}

func TestGroupByPatientMonthSplitsOnMonth(t *testing.T) {
	rows := []models.InvoiceRow{
		row("Jane Doe", "01/11/2025", "A"),
		row("Jane Doe", "15/11/2025", "B"),
		row("Jane Doe", "02/12/2025", "C"),
	}

	groups, err := GroupByPatientMonth(rows)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	november := groups[0]
	assert.Equal(t, models.GroupKey{PatientName: "Jane Doe", YearMonth: "2025-11"}, november.Key)
	require.Len(t, november.Rows, 2)
	assert.Equal(t, "A", november.Rows[0].ProcedureCode)
	assert.Equal(t, "B", november.Rows[1].ProcedureCode)

	december := groups[1]
	assert.Equal(t, "2025-12", december.Key.YearMonth)
	require.Len(t, december.Rows, 1)
	assert.Equal(t, "C", december.Rows[0].ProcedureCode)
}

func TestGroupByPatientMonthInterleavedRowsKeepFirstSeenOrder(t *testing.T) {
	rows := []models.InvoiceRow{
		row("Jane Doe", "01/11/2025", "A"),
		row("Bob Smith", "03/11/2025", "X"),
		row("Jane Doe", "15/11/2025", "B"),
	}

	groups, err := GroupByPatientMonth(rows)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Jane Doe", groups[0].Key.PatientName)
	assert.Equal(t, "Bob Smith", groups[1].Key.PatientName)
	require.Len(t, groups[0].Rows, 2)
	assert.Equal(t, "A", groups[0].Rows[0].ProcedureCode)
	assert.Equal(t, "B", groups[0].Rows[1].ProcedureCode)
}

func TestGroupByPatientMonthMatchesNamesExactly(t *testing.T) {
	rows := []models.InvoiceRow{
		row("Jane Doe", "01/11/2025", "A"),
		row("jane doe", "02/11/2025", "B"),
	}

	groups, err := GroupByPatientMonth(rows)
	require.NoError(t, err)
	assert.Len(t, groups, 2)
}

func TestGroupByPatientMonthFailsOnBadDate(t *testing.T) {
	rows := []models.InvoiceRow{
		row("Jane Doe", "01/11/2025", "A"),
		row("Jane Doe", "November 2nd", "B"),
	}

	_, err := GroupByPatientMonth(rows)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadDate)
}

func TestFilterByMonth(t *testing.T) {
	groups, err := GroupByPatientMonth([]models.InvoiceRow{
		row("Jane Doe", "01/11/2025", "A"),
		row("Jane Doe", "02/12/2025", "B"),
	})
	require.NoError(t, err)

	november := FilterByMonth(groups, "2025-11")
	require.Len(t, november, 1)
	assert.Equal(t, "2025-11", november[0].Key.YearMonth)

	assert.Empty(t, FilterByMonth(groups, "2026-01"))
	assert.Len(t, FilterByMonth(groups, ""), 2)
}
