package document

import (
	"fmt"

	"github.com/nao1215/gdpreport/internal/model"
)

// Writer serializes elements into a document.
//
// Open must be called once before any Add, and Close once after the last
// Add. Implementations return a *StateError when this order is violated.
type Writer interface {
	// Open starts the document.
	Open() error

	// Add appends one element.
	Add(el model.Element) error

	// Close finishes the document and flushes it to its destination.
	Close() error
}

// Render opens w, adds every element in order and closes w.
//
// If an Add fails, w is still closed so the underlying resources are
// released, and the Add error is returned.
func Render(w Writer, elements []model.Element) error {
	if err := w.Open(); err != nil {
		return err
	}

	for i, el := range elements {
		if err := w.Add(el); err != nil {
			_ = w.Close() //nolint:errcheck // the add error is the one worth reporting
			return fmt.Errorf("failed to add element %d (%s): %w", i, el.Kind(), err)
		}
	}

	return w.Close()
}

// Recorder is a Writer that keeps every element it receives.
type Recorder struct {
	lc Lifecycle

	elements []model.Element
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Open implements Writer.
func (r *Recorder) Open() error {
	return r.lc.Begin()
}

// Add implements Writer.
func (r *Recorder) Add(el model.Element) error {
	if err := r.lc.Check(); err != nil {
		return err
	}
	r.elements = append(r.elements, el)
	return nil
}

// Close implements Writer.
func (r *Recorder) Close() error {
	return r.lc.End()
}

// State returns the lifecycle state of the recording.
func (r *Recorder) State() State {
	return r.lc.State()
}

// Elements returns the recorded elements in the order they were added.
func (r *Recorder) Elements() []model.Element {
	out := make([]model.Element, len(r.elements))
	copy(out, r.elements)
	return out
}

// Count returns the number of elements of the given kind.
func (r *Recorder) Count(kind model.ElementKind) int {
	var n int
	for _, el := range r.elements {
		if el.Kind() == kind {
			n++
		}
	}
	return n
}
