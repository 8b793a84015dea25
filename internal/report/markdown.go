package report

import (
	"fmt"
	"io"

	"github.com/nao1215/markdown"

	"github.com/nao1215/gdpreport/internal/document"
	"github.com/nao1215/gdpreport/internal/model"
)

// MarkdownWriter outputs the report as GitHub Flavored Markdown.
// This format is designed for README files, wikis and pull requests.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation. Markdown has no notion of font size, color or alignment, so
// only the bold and italic flags survive; the first table row becomes the
// table header.
type MarkdownWriter struct {
	lc document.Lifecycle

	output io.Writer
	md     *markdown.Markdown
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// Open implements document.Writer.
func (w *MarkdownWriter) Open() error {
	if err := w.lc.Begin(); err != nil {
		return err
	}
	w.md = markdown.NewMarkdown(w.output)
	return nil
}

// Add implements document.Writer.
func (w *MarkdownWriter) Add(el model.Element) error {
	if err := w.lc.Check(); err != nil {
		return err
	}

	switch el := el.(type) {
	case model.BlankLine:
		w.md.PlainText("")
	case model.Paragraph:
		w.md.PlainText(emphasize(el.Text, el.Style.Style))
	case model.Table:
		w.md.Table(markdown.TableSet{
			Header: el.Header(),
			Rows:   el.Body(),
		})
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedElement, el)
	}
	return nil
}

// Close implements document.Writer. It flushes the markdown to the output.
func (w *MarkdownWriter) Close() error {
	if err := w.lc.End(); err != nil {
		return err
	}
	return w.md.Build()
}

// emphasize wraps text in bold and/or italic markers.
func emphasize(text string, style model.FontStyle) string {
	if text == "" {
		return text
	}
	switch {
	case style.Has(model.FontBold | model.FontItalic):
		return markdown.BoldItalic(text)
	case style.Has(model.FontBold):
		return markdown.Bold(text)
	case style.Has(model.FontItalic):
		return markdown.Italic(text)
	default:
		return text
	}
}
