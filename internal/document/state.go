package document

import (
	"errors"
	"fmt"
)

// ErrDocumentState is matched by every *StateError via errors.Is.
var ErrDocumentState = errors.New("document state error")

// State is the lifecycle position of a document.
type State int

const (
	// StateNew is a document that has not been opened yet.
	StateNew State = iota
	// StateOpen is a document accepting elements.
	StateOpen
	// StateClosed is a finished document.
	StateClosed
)

// String returns the lower-case name of the state.
func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// StateError reports an operation attempted in the wrong lifecycle state.
// It indicates a programming error in the caller, not a runtime condition.
type StateError struct {
	// Op is the attempted operation ("open", "add" or "close").
	Op string
	// State is the state the document was in.
	State State
}

// Error implements the error interface.
func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s a %s document", e.Op, e.State)
}

// Is reports whether target is ErrDocumentState.
func (e *StateError) Is(target error) bool {
	return target == ErrDocumentState
}

// Lifecycle tracks the state of a document. The zero value is a new document.
// It is not safe for concurrent use; a document has a single owner.
type Lifecycle struct {
	state State
}

// State returns the current state.
func (l *Lifecycle) State() State {
	return l.state
}

// Begin moves a new document to the open state.
func (l *Lifecycle) Begin() error {
	if l.state != StateNew {
		return &StateError{Op: "open", State: l.state}
	}
	l.state = StateOpen
	return nil
}

// Check returns an error unless the document is open.
func (l *Lifecycle) Check() error {
	if l.state != StateOpen {
		return &StateError{Op: "add to", State: l.state}
	}
	return nil
}

// End moves an open document to the closed state.
func (l *Lifecycle) End() error {
	if l.state != StateOpen {
		return &StateError{Op: "close", State: l.state}
	}
	l.state = StateClosed
	return nil
}
