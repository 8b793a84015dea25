// Package document defines the writer abstraction that turns an ordered list
// of model.Element values into an output document.
//
// A document moves through three states: new, open and closed. Elements may
// only be added while the document is open, and a closed document can never
// be reopened. Writers hold an unexported Lifecycle to enforce this contract
// and return a *StateError when it is violated.
//
// Render drives a Writer through a complete element list. Recorder is a
// Writer that keeps the elements in memory so callers can inspect exactly
// what a builder emitted.
package document
