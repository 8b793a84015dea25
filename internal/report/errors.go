package report

import (
	"errors"
	"fmt"
)

var (
	// ErrLayout is returned when the PDF library rejects an operation.
	ErrLayout = errors.New("pdf layout error")

	// ErrUnknownFormat is returned for an unrecognized report format name.
	ErrUnknownFormat = errors.New("unknown report format: use pdf, markdown or json")

	// ErrUnsupportedElement is returned when a writer receives an element
	// variant it cannot draw.
	ErrUnsupportedElement = errors.New("unsupported element")
)

// IOError reports a failure to create, write or move the output file.
type IOError struct {
	// Op is the failed operation, e.g. "create directory" or "rename".
	Op string
	// Path is the file or directory involved.
	Path string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// ErrNotPDF is returned when inspected content does not start with a PDF header.
var ErrNotPDF = errors.New("not a PDF document")

// ErrMalformedPDF is returned when the cross-reference table, the trailer or
// an object it references cannot be read.
var ErrMalformedPDF = errors.New("malformed PDF document")
