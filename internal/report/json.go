package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nao1215/gdpreport/internal/document"
	"github.com/nao1215/gdpreport/internal/model"
)

// JSONWriter outputs the element list in JSON format.
// This format is designed for tool integration and for checking what a
// report contains without parsing a PDF.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because it is sufficient for a small document and the style
// types already implement encoding.TextMarshaler.
type JSONWriter struct {
	lc document.Lifecycle

	output io.Writer

	// indent enables pretty-printed JSON output.
	indent       bool
	indentPrefix string
	indentString string

	elements []JSONElement
}

// JSONDocument is the top-level JSON object.
type JSONDocument struct {
	Elements []JSONElement `json:"elements"`
}

// JSONElement is the JSON form of a model.Element.
type JSONElement struct {
	Type  string           `json:"type"`
	Text  string           `json:"text,omitempty"`
	Style *model.TextStyle `json:"style,omitempty"`
	Table *model.Table     `json:"table,omitempty"`
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{output: output}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Open implements document.Writer.
func (w *JSONWriter) Open() error {
	if err := w.lc.Begin(); err != nil {
		return err
	}
	w.elements = make([]JSONElement, 0)
	return nil
}

// Add implements document.Writer.
func (w *JSONWriter) Add(el model.Element) error {
	if err := w.lc.Check(); err != nil {
		return err
	}

	je := JSONElement{Type: el.Kind().String()}
	switch el := el.(type) {
	case model.BlankLine:
	case model.Paragraph:
		style := el.Style
		je.Text = el.Text
		je.Style = &style
	case model.Table:
		table := el.Clone()
		je.Table = &table
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedElement, el)
	}

	w.elements = append(w.elements, je)
	return nil
}

// Close implements document.Writer. It encodes every element at once.
func (w *JSONWriter) Close() error {
	if err := w.lc.End(); err != nil {
		return err
	}

	enc := json.NewEncoder(w.output)
	if w.indent {
		enc.SetIndent(w.indentPrefix, w.indentString)
	}
	if err := enc.Encode(JSONDocument{Elements: w.elements}); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
