package report

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/nao1215/gdpreport/internal/document"
	"github.com/nao1215/gdpreport/internal/model"
)

// Page geometry in points. The margins and the blank line height follow the
// defaults of classic PDF layout libraries so the report keeps its look.
const (
	pdfMargin       = 36
	blankLineHeight = 16
	cellPadding     = 2
	leadingFactor   = 4.0 / 3.0
)

// DefaultPageSize is the page format used unless WithPageSize is given.
const DefaultPageSize = "A4"

// pdfCreator is written into the document information dictionary.
const pdfCreator = "gdpreport"

// PDFWriter lays out elements on A4 pages with go-pdf/fpdf.
//
// Design decision: We use the PDF core fonts (Helvetica, Times, Courier)
// so no font files need to be shipped. Core fonts use the Windows-1252
// encoding, so text is transcoded with golang.org/x/text before drawing.
type PDFWriter struct {
	lc document.Lifecycle

	out io.Writer
	pdf *fpdf.Fpdf
	enc *encoding.Encoder

	pageSize     string
	compress     bool
	creationDate time.Time
	title        string
}

// PDFOption configures a PDFWriter.
type PDFOption func(*PDFWriter)

// WithPageSize sets the page format, e.g. "A4" or "Letter".
func WithPageSize(size string) PDFOption {
	return func(w *PDFWriter) {
		if size != "" {
			w.pageSize = size
		}
	}
}

// WithCompression enables or disables stream compression.
func WithCompression(compress bool) PDFOption {
	return func(w *PDFWriter) {
		w.compress = compress
	}
}

// WithCreationDate fixes the creation and modification dates recorded in the
// document. Combined with a sorted catalog this makes output byte-identical
// across runs. fpdf writes dates without a zone offset, so the date is
// stored in UTC.
func WithCreationDate(t time.Time) PDFOption {
	return func(w *PDFWriter) {
		w.creationDate = t.UTC()
	}
}

// WithDocumentTitle sets the title in the document properties.
func WithDocumentTitle(title string) PDFOption {
	return func(w *PDFWriter) {
		w.title = title
	}
}

// NewPDFWriter creates a PDFWriter that writes the finished document to out.
func NewPDFWriter(out io.Writer, opts ...PDFOption) *PDFWriter {
	w := &PDFWriter{
		out:      out,
		enc:      encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()),
		pageSize: DefaultPageSize,
		compress: true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Open implements document.Writer. It creates the document and its first page.
func (w *PDFWriter) Open() error {
	if err := w.lc.Begin(); err != nil {
		return err
	}

	pdf := fpdf.New("P", "pt", w.pageSize, "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetCellMargin(cellPadding)
	pdf.SetCompression(w.compress)
	// Info strings use the same single-byte encoding as the page text.
	pdf.SetCreator(pdfCreator, false)
	pdf.SetCatalogSort(true)
	if w.title != "" {
		pdf.SetTitle(w.text(w.title), false)
	}
	if !w.creationDate.IsZero() {
		pdf.SetCreationDate(w.creationDate)
		pdf.SetModificationDate(w.creationDate)
	}
	pdf.AddPage()

	w.pdf = pdf
	return w.layoutErr()
}

// Add implements document.Writer.
func (w *PDFWriter) Add(el model.Element) error {
	if err := w.lc.Check(); err != nil {
		return err
	}

	switch el := el.(type) {
	case model.BlankLine:
		w.pdf.Ln(blankLineHeight)
	case model.Paragraph:
		w.writeParagraph(el)
	case model.Table:
		w.writeTable(el)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedElement, el)
	}

	return w.layoutErr()
}

// Close implements document.Writer. It serializes the document to the output.
func (w *PDFWriter) Close() error {
	if err := w.lc.End(); err != nil {
		return err
	}
	if err := w.pdf.Output(w.out); err != nil {
		return fmt.Errorf("%w: %w", ErrLayout, err)
	}
	return nil
}

// PageCount returns the number of pages laid out so far.
func (w *PDFWriter) PageCount() int {
	if w.pdf == nil {
		return 0
	}
	return w.pdf.PageCount()
}

// writeParagraph draws a text block across the content width.
func (w *PDFWriter) writeParagraph(p model.Paragraph) {
	w.setFont(p.Style)
	w.pdf.MultiCell(0, leading(p.Style.Size), w.text(p.Text), "", alignCode(p.Style.Align), false)
}

// writeTable draws a bordered grid, centered horizontally.
// Rows grow to fit wrapped cell text and never split across pages.
func (w *PDFWriter) writeTable(t model.Table) {
	left, _, right, bottom := w.pdf.GetMargins()
	pageWidth, pageHeight := w.pdf.GetPageSize()

	content := pageWidth - left - right
	tableWidth := content * t.WidthPercent / 100
	x0 := left + (content-tableWidth)/2

	fractions := t.ColumnWidths()
	widths := make([]float64, len(fractions))
	for i, f := range fractions {
		widths[i] = f * tableWidth
	}

	w.setFont(t.CellStyle)
	lineHeight := leading(t.CellStyle.Size)
	align := alignCode(t.CellStyle.Align)

	for _, row := range t.Rows {
		cells := make([]string, len(row))
		lines := 1
		for i, cell := range row {
			cells[i] = w.text(cell)
			if n := len(w.pdf.SplitLines([]byte(cells[i]), widths[i])); n > lines {
				lines = n
			}
		}
		rowHeight := float64(lines)*lineHeight + 2*cellPadding

		if w.pdf.GetY()+rowHeight > pageHeight-bottom {
			w.pdf.AddPage()
			w.setFont(t.CellStyle)
		}

		y := w.pdf.GetY()
		x := x0
		for i, cell := range cells {
			w.pdf.Rect(x, y, widths[i], rowHeight, "D")
			w.pdf.SetXY(x, y+cellPadding)
			w.pdf.MultiCell(widths[i], lineHeight, cell, "", align, false)
			x += widths[i]
		}
		w.pdf.SetXY(left, y+rowHeight)
	}
}

// setFont applies family, size, style flags and color.
func (w *PDFWriter) setFont(s model.TextStyle) {
	w.pdf.SetFont(s.FontFamily(), styleCode(s.Style), s.Size)
	w.pdf.SetTextColor(int(s.Color.R), int(s.Color.G), int(s.Color.B))
}

// text transcodes UTF-8 into the core font encoding.
// Characters outside Windows-1252 are replaced rather than failing the build.
func (w *PDFWriter) text(s string) string {
	out, err := w.enc.String(s)
	if err != nil {
		return s
	}
	return out
}

// layoutErr converts the sticky fpdf error into ErrLayout.
func (w *PDFWriter) layoutErr() error {
	if w.pdf != nil && w.pdf.Err() {
		return fmt.Errorf("%w: %w", ErrLayout, w.pdf.Error())
	}
	return nil
}

// leading returns the line height for a font size.
func leading(size float64) float64 {
	return size * leadingFactor
}

// alignCode maps an alignment to the fpdf alignment string.
func alignCode(a model.Alignment) string {
	switch a {
	case model.AlignCenter:
		return "C"
	case model.AlignRight:
		return "R"
	case model.AlignJustify:
		return "J"
	default:
		return "L"
	}
}

// styleCode maps style flags to the fpdf style string.
func styleCode(s model.FontStyle) string {
	var code string
	if s.Has(model.FontBold) {
		code += "B"
	}
	if s.Has(model.FontItalic) {
		code += "I"
	}
	if s.Has(model.FontUnderline) {
		code += "U"
	}
	return code
}
