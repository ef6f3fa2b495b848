// Package instrument - error types for instrumentation.
//
// Instrumentation errors carry the source position they refer to and,
// when there is something actionable, a suggestion:
//
//	server.go:42:1: function server.handleAll does not fit in the 28-bit ID space
//
//	Suggestion: split the instrumentation into separate passes or exclude packages with an attribute list
package instrument

import (
	"fmt"
	"go/token"
)

// InstrumentError is an instrumentation failure tied to a source position.
//
//nolint:revive // the package-qualified name reads fine at call sites
type InstrumentError struct {
	File       string // source file path
	Line       int    // 1-indexed
	Column     int    // 1-indexed
	Message    string
	Suggestion string // optional hint, empty if none
}

// Error formats the error as file:line:column: message, with the
// suggestion on its own paragraph when present.
func (e *InstrumentError) Error() string {
	s := fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
	if e.Suggestion != "" {
		s += fmt.Sprintf("\n\nSuggestion: %s", e.Suggestion)
	}
	return s
}

// NewInstrumentError creates an error positioned at pos.
func NewInstrumentError(fset *token.FileSet, pos token.Pos, msg string) *InstrumentError {
	p := fset.Position(pos)
	return &InstrumentError{
		File:    p.Filename,
		Line:    p.Line,
		Column:  p.Column,
		Message: msg,
	}
}

// NewInstrumentErrorWithSuggestion creates a positioned error carrying an
// actionable hint.
func NewInstrumentErrorWithSuggestion(fset *token.FileSet, pos token.Pos, msg, suggestion string) *InstrumentError {
	err := NewInstrumentError(fset, pos, msg)
	err.Suggestion = suggestion
	return err
}
