package render

import (
	"bytes"
	"context"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
)

// WKHTMLToPDF rasterizes HTML documents with the wkhtmltopdf binary, which
// must be installed and on the PATH.
type WKHTMLToPDF struct {
	// PageSize is the output page size, e.g. "A4".
	PageSize string
}

// NewWKHTMLToPDF returns a rasterizer producing A4 pages.
func NewWKHTMLToPDF() *WKHTMLToPDF {
	return &WKHTMLToPDF{PageSize: wkhtmltopdf.PageSizeA4}
}

// Rasterize converts the HTML document to a PDF. A fresh generator is built
// per call; generators are single-use.
func (w *WKHTMLToPDF) Rasterize(ctx context.Context, html []byte) ([]byte, error) {
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, err
	}

	pdfg.PageSize.Set(w.PageSize)
	pdfg.AddPage(wkhtmltopdf.NewPageReader(bytes.NewReader(html)))

	if err := pdfg.CreateContext(ctx); err != nil {
		return nil, err
	}

	return pdfg.Bytes(), nil
}
