// Package render turns invoice records into PDF artifacts: an HTML template
// is executed with the record and practice fields, and the resulting document
// is rasterized to PDF.
package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/joshestein/csv-invoice-generator/internal/logger"
	"github.com/joshestein/csv-invoice-generator/pkg/models"
)

// Rasterizer converts a rendered HTML document into a binary PDF.
type Rasterizer interface {
	Rasterize(ctx context.Context, html []byte) ([]byte, error)
}

// Emitter renders invoice records through an HTML template and writes PDF
// files. The template is parsed once at construction and reused for every
// invoice in the batch.
type Emitter struct {
	tmpl       *template.Template
	practice   map[string]string
	rasterizer Rasterizer
	log        zerolog.Logger
}

// NewEmitter parses the template at templatePath and returns an emitter
// that merges every record with the given practice fields. A missing or
// malformed template fails here, before any invoice is attempted.
func NewEmitter(templatePath string, practice map[string]string, rasterizer Rasterizer) (*Emitter, error) {
	const op = "NewEmitter"

	tmpl, err := template.New(filepath.Base(templatePath)).
		Option("missingkey=error").
		ParseFiles(templatePath)
	if err != nil {
		return nil, fmt.Errorf("render: %s failed: %w: %v", op, ErrTemplate, err)
	}

	return &Emitter{
		tmpl:       tmpl,
		practice:   practice,
		rasterizer: rasterizer,
		log:        logger.WithComponent("render-emitter"),
	}, nil
}

// RenderHTML executes the template with the record merged over the practice
// fields and returns the rendered document.
func (e *Emitter) RenderHTML(record *models.InvoiceRecord) ([]byte, error) {
	const op = "RenderHTML"

	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, e.templateData(record)); err != nil {
		return nil, fmt.Errorf("render: %s failed: %w: %v", op, ErrRender, err)
	}
	return buf.Bytes(), nil
}

// Emit renders record and writes the PDF to outputPath, overwriting any
// existing file. The parent directory must already exist.
func (e *Emitter) Emit(ctx context.Context, record *models.InvoiceRecord, outputPath string) error {
	const op = "Emit"

	html, err := e.RenderHTML(record)
	if err != nil {
		return err
	}

	pdf, err := e.rasterizer.Rasterize(ctx, html)
	if err != nil {
		return fmt.Errorf("render: %s failed: %w: %v", op, ErrRasterize, err)
	}

	if err := os.WriteFile(outputPath, pdf, 0644); err != nil {
		return fmt.Errorf("render: %s failed to write %s: %w", op, outputPath, err)
	}

	e.log.Info().
		Str("invoice_number", record.InvoiceNumber).
		Str("output", outputPath).
		Int("bytes", len(pdf)).
		Msg("Invoice PDF written")

	return nil
}

// templateData flattens the record and practice fields into one substitution
// map. Practice keys come first so a record field of the same name wins.
// The address is marked as safe HTML because the builder already converted
// its newlines to <br /> markers.
func (e *Emitter) templateData(record *models.InvoiceRecord) map[string]any {
	data := make(map[string]any, len(e.practice)+12)
	for key, value := range e.practice {
		data[key] = value
	}

	data["PatientName"] = record.PatientName
	data["PatientAddress"] = template.HTML(record.PatientAddress)
	data["CellNumber"] = record.CellNumber
	data["Email"] = record.Email
	data["MedicalAid"] = record.MedicalAid
	data["NextOfKin"] = record.NextOfKin
	data["SecondNextOfKin"] = record.SecondNextOfKin
	data["InvoiceNumber"] = record.InvoiceNumber
	data["InvoiceDate"] = record.InvoiceDate
	data["Period"] = record.Period
	data["LineItems"] = record.LineItems

	return data
}
