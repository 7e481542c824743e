package models

// InvoiceRow is one billing line item as read from the source CSV.
//
// Every field is kept as raw text: cellphone numbers, medical aid numbers and
// procedure codes routinely carry leading zeros and must never round-trip
// through a numeric type.
type InvoiceRow struct {
	// Service details
	Date          string // Service date as written in the source (DD/MM/YYYY)
	ProcedureCode string // Procedure/location code ("P. Code" column)
	ICDCode       string // Diagnosis code ("ICD Code" column)

	// Patient identity
	PatientName    string
	PatientAddress string // May span multiple lines
	CellNumber     string
	Email          string

	// Medical aid (both empty when the patient is a private payer)
	MedicalAidName   string
	MedicalAidNumber string

	// Next of kin, primary and secondary. A blank name means the block
	// was not supplied.
	NextOfKinName        string
	NextOfKinCell        string
	NextOfKinEmail       string
	SecondNextOfKinName  string
	SecondNextOfKinCell  string
	SecondNextOfKinEmail string
}

// GroupKey identifies one invoice: a patient's line items within one
// calendar month.
type GroupKey struct {
	PatientName string
	YearMonth   string // YYYY-MM
}

// PatientMonthGroup is the ordered set of rows sharing one GroupKey.
// Row order is the original CSV row order.
type PatientMonthGroup struct {
	Key  GroupKey
	Rows []InvoiceRow
}

// MedicalAid is the optional medical aid block on an invoice.
type MedicalAid struct {
	Name   string
	Number string
}

// NextOfKin is an optional next-of-kin block on an invoice. Email may be
// blank even when the block is present.
type NextOfKin struct {
	Name      string
	Cellphone string
	Email     string
}

// LineItem is one rendered invoice line. Absent codes render as empty
// strings, never as a null marker.
type LineItem struct {
	Date          string // As originally formatted in the source
	ProcedureCode string
	ICDCode       string
}

// InvoiceRecord is the rendering-ready representation of one group,
// flattened for template substitution.
type InvoiceRecord struct {
	PatientName    string
	PatientAddress string // Newlines already converted to <br /> markers
	CellNumber     string
	Email          string

	// Optional blocks; nil means the block is omitted from the invoice.
	MedicalAid      *MedicalAid
	NextOfKin       *NextOfKin
	SecondNextOfKin *NextOfKin

	InvoiceNumber string // e.g. INV-0007
	InvoiceDate   string // Generation date, e.g. "5 November 2025"
	Period        string // e.g. "November 2025"

	LineItems []LineItem
}
