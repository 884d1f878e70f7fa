package diagnostic

import (
	stderrors "errors"
	"fmt"
)

// Error is the distinguished failure of an aborted run. It carries the
// diagnostic tree describing the abort cause.
type Error struct {
	Diagnostic *Diagnostic
	cause      error
}

// Fail builds an Error whose tree holds a FAIL entry for cause.
func Fail(root *Diagnostic, message string, cause error) *Error {
	if root == nil {
		root = New(StatusOK, "Run")
	}
	text := message
	if cause != nil {
		text = fmt.Sprintf("%s: %v", message, cause)
	}
	root.AddChild(StatusFail, text, nil)
	return &Error{Diagnostic: root, cause: cause}
}

// Error implements error.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("diagnostic failed (%s): %v", e.Diagnostic.Status(), e.cause)
	}
	return fmt.Sprintf("diagnostic failed (%s)", e.Diagnostic.Status())
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// AsError finds an *Error in err's chain.
func AsError(err error) (*Error, bool) {
	var de *Error
	if stderrors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// WithRoot returns a copy of e carrying root as its tree. Callers that nest
// e's tree under a larger run tree use it so the reporter sees the whole run.
func (e *Error) WithRoot(root *Diagnostic) *Error {
	return &Error{Diagnostic: root, cause: e.cause}
}
