package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/nao1215/gdpreport/internal/document"
)

// Format is an output format.
type Format string

const (
	// FormatPDF is a PDF document. This is the default.
	FormatPDF Format = "pdf"
	// FormatMarkdown is GitHub Flavored Markdown.
	FormatMarkdown Format = "markdown"
	// FormatJSON is the element list as JSON.
	FormatJSON Format = "json"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatPDF, FormatMarkdown, FormatJSON}
}

// ParseFormat converts a name into a Format. Matching is case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf":
		return FormatPDF, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return FormatPDF, true
	case ".md", ".markdown":
		return FormatMarkdown, true
	case ".json":
		return FormatJSON, true
	default:
		return "", false
	}
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	default:
		return ".pdf"
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "application/pdf"
	}
}

// NewWriter creates a document writer for the format.
// PDF options are ignored by the other formats.
func NewWriter(f Format, out io.Writer, pdfOpts ...PDFOption) (document.Writer, error) {
	switch f {
	case FormatPDF:
		return NewPDFWriter(out, pdfOpts...), nil
	case FormatMarkdown:
		return NewMarkdownWriter(out), nil
	case FormatJSON:
		return NewJSONWriter(out, WithPrettyPrint()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}
