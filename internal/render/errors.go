package render

import "errors"

// Common rendering errors
var (
	// ErrTemplate is returned when the invoice template is missing or
	// cannot be parsed. The template is loaded once, so this aborts the
	// batch before any invoice is produced.
	ErrTemplate = errors.New("invoice template is missing or malformed")

	// ErrRender is returned when template execution fails, e.g. the
	// template references a field that does not exist.
	ErrRender = errors.New("template rendering failed")

	// ErrRasterize is returned when the rendered document cannot be
	// converted to PDF.
	ErrRasterize = errors.New("PDF rasterization failed")
)
