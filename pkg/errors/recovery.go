// This file contains panic recovery utilities. The column fit driver uses
// them to shield itself from panics in caller-supplied model and guess
// functions, so one misbehaving callback fails its column instead of
// crashing the batch.

package errors

import (
	"fmt"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// PanicError is an error created from a recovered panic. It keeps the
// original panic value and the stack trace captured at recovery time.
type PanicError struct {
	// PanicValue is the original value passed to panic()
	PanicValue interface{}

	// StackTrace contains the stack trace at the time of panic
	StackTrace string

	// Operation identifies where the panic was recovered
	Operation string
}

// Error implements the error interface for PanicError.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Operation, e.PanicValue)
}

// Unwrap returns nil; a PanicError is always the root of its chain.
func (e *PanicError) Unwrap() error {
	return nil
}

// String returns the message together with the captured stack trace.
func (e *PanicError) String() string {
	return fmt.Sprintf("panic in %s: %v\nStack trace:\n%s",
		e.Operation, e.PanicValue, e.StackTrace)
}

// MarshalZerologObject adds the structured panic fields to a zerolog event.
// The stack trace is left out of the event; use String for the full trace.
func (e *PanicError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Operation).
		Str("panic_value", fmt.Sprintf("%v", e.PanicValue)).
		Str("type", "PanicError")
}

// NewPanicError creates a PanicError for the given operation and panic value,
// capturing the current stack.
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

// Recover converts a panic into an error. Use it with defer and a pointer to
// the function's named error return:
//
//	func solveColumn() (err error) {
//	    defer Recover(&err, "solveColumn")
//	    // evaluate caller-supplied model
//	    return nil
//	}
//
// If the function already set an error before panicking, the panic message
// wraps it so neither is lost.
func Recover(err *error, operation string) {
	if r := recover(); r != nil {
		panicErr := NewPanicError(operation, r)

		if *err != nil {
			*err = fmt.Errorf("panic in %s: %v (original error: %w)",
				operation, r, *err)
		} else {
			*err = panicErr
		}
	}
}

// SafeExecute runs fn and converts any panic into a PanicError. The fit
// drivers wrap every call into user code with it:
//
//	err := SafeExecute("NLS.solveColumn", func() error {
//	    return fitOneColumn(col)
//	})
//
// It returns fn's own error when no panic occurs.
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}
