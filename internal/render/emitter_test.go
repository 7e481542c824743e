package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshestein/csv-invoice-generator/pkg/models"
)

const testTemplate = `<html><body>
<p>{{.DoctorName}} ({{.PracticeNumber}})</p>
<p>{{.InvoiceNumber}} {{.InvoiceDate}} {{.Period}}</p>
<p>{{.PatientName}}</p>
<p>{{.PatientAddress}}</p>
{{if .MedicalAid}}<p>Aid: {{.MedicalAid.Name}} {{.MedicalAid.Number}}</p>{{end}}
{{if .NextOfKin}}<p>Kin: {{.NextOfKin.Name}}</p>{{end}}
{{range .LineItems}}<li>{{.Date}} {{.ProcedureCode}} {{.ICDCode}}</li>{{end}}
</body></html>`

type fakeRasterizer struct {
	err  error
	html []byte
}

func (f *fakeRasterizer) Rasterize(_ context.Context, html []byte) ([]byte, error) {
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

func writeTemplate(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "invoice.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testRecord() *models.InvoiceRecord {
	return &models.InvoiceRecord{
		PatientName:    "Jane Doe",
		PatientAddress: "7 Elm Street<br />Plumstead",
		InvoiceNumber:  "INV-0007",
		InvoiceDate:    "3 December 2025",
		Period:         "November 2025",
		MedicalAid:     &models.MedicalAid{Name: "Discovery", Number: "0045678"},
		LineItems: []models.LineItem{
			{Date: "05/11/2025", ProcedureCode: "0190", ICDCode: "J06.9"},
		},
	}
}

func testPractice() map[string]string {
	return map[string]string{
		"DoctorName":     "Dr. Test",
		"PracticeNumber": "0123456",
	}
}

func TestNewEmitterMissingTemplate(t *testing.T) {
	_, err := NewEmitter(filepath.Join(t.TempDir(), "nope.html"), testPractice(), &fakeRasterizer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTemplate)
}

func TestNewEmitterMalformedTemplate(t *testing.T) {
	path := writeTemplate(t, "{{if}}")

	_, err := NewEmitter(path, testPractice(), &fakeRasterizer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTemplate)
}

func TestRenderHTMLSubstitutesRecordAndPracticeFields(t *testing.T) {
	emitter, err := NewEmitter(writeTemplate(t, testTemplate), testPractice(), &fakeRasterizer{})
	require.NoError(t, err)

	html, err := emitter.RenderHTML(testRecord())
	require.NoError(t, err)

	out := string(html)
	assert.Contains(t, out, "Dr. Test (0123456)")
	assert.Contains(t, out, "INV-0007 3 December 2025 November 2025")
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "Aid: Discovery 0045678")
	assert.Contains(t, out, "05/11/2025 0190 J06.9")
	// Address line breaks must survive as HTML, not be escaped.
	assert.Contains(t, out, "7 Elm Street<br />Plumstead")
	// Absent optional blocks render nothing.
	assert.NotContains(t, out, "Kin:")
}

func TestRenderHTMLUnknownFieldFails(t *testing.T) {
	emitter, err := NewEmitter(writeTemplate(t, "{{.NoSuchField}}"), testPractice(), &fakeRasterizer{})
	require.NoError(t, err)

	_, err = emitter.RenderHTML(testRecord())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRender)
}

func TestEmitWritesAndOverwritesPDF(t *testing.T) {
	rasterizer := &fakeRasterizer{}
	emitter, err := NewEmitter(writeTemplate(t, testTemplate), testPractice(), rasterizer)
	require.NoError(t, err)

	outputPath := filepath.Join(t.TempDir(), "invoice_Jane_Doe_2025_11.pdf")
	require.NoError(t, os.WriteFile(outputPath, []byte("stale"), 0644))

	require.NoError(t, emitter.Emit(context.Background(), testRecord(), outputPath))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(data))
	assert.NotEmpty(t, rasterizer.html)
}

func TestEmitRasterizationFailure(t *testing.T) {
	rasterizer := &fakeRasterizer{err: errors.New("wkhtmltopdf exploded")}
	emitter, err := NewEmitter(writeTemplate(t, testTemplate), testPractice(), rasterizer)
	require.NoError(t, err)

	outputPath := filepath.Join(t.TempDir(), "invoice.pdf")
	err = emitter.Emit(context.Background(), testRecord(), outputPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRasterize)
	assert.NoFileExists(t, outputPath)
}

func TestEmitDoesNotCreateDirectories(t *testing.T) {
	emitter, err := NewEmitter(writeTemplate(t, testTemplate), testPractice(), &fakeRasterizer{})
	require.NoError(t, err)

	outputPath := filepath.Join(t.TempDir(), "missing", "invoice.pdf")
	err = emitter.Emit(context.Background(), testRecord(), outputPath)
	require.Error(t, err)
}
