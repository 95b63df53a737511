package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		kind     string
		err      error
		wantMsg  string
		hasStack bool
	}{
		{
			name:     "with original error",
			op:       "NLS",
			kind:     "empty data",
			err:      ErrEmptyData,
			wantMsg:  "fitgo: NLS: empty data: empty data",
			hasStack: true,
		},
		{
			name:     "without original error",
			op:       "PowerLaw",
			kind:     "no columns",
			err:      nil,
			wantMsg:  "fitgo: PowerLaw: no columns",
			hasStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			if tt.hasStack {
				formatted := fmt.Sprintf("%+v", err)
				if !strings.Contains(formatted, "errors_test.go") {
					t.Error("Expected stack trace to contain test file name")
				}
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("NLS", 10, 7, 0)

	want := "fitgo: NLS: dimension mismatch on axis 0 (rows). Expected 10, got 7"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionError")
	}
	if dimErr.Expected != 10 || dimErr.Got != 7 {
		t.Errorf("DimensionError fields = (%d, %d), want (10, 7)", dimErr.Expected, dimErr.Got)
	}
}

func TestNewValueError(t *testing.T) {
	err := NewValueError("NLS", "column 'trial1' has no usable rows")

	want := "fitgo: NLS: column 'trial1' has no usable rows"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var valErr *ValueError
	if !As(err, &valErr) {
		t.Error("Error should be castable to *ValueError")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("A", "min must be less than max", 3.0)

	want := "fitgo: validation failed for parameter 'A': min must be less than max (got: 3)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var validationErr *ValidationError
	if !As(err, &validationErr) {
		t.Error("Error should be castable to *ValidationError")
	}
}

func TestNewDomainError(t *testing.T) {
	err := NewDomainError("PowerLaw", "log of non-positive value in column 'trial2'", -1.5)

	want := "fitgo: PowerLaw: log of non-positive value in column 'trial2' (got: -1.5)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var domErr *DomainError
	if !As(err, &domErr) {
		t.Error("Error should be castable to *DomainError")
	}
	if domErr.Value != -1.5 {
		t.Errorf("DomainError.Value = %v, want -1.5", domErr.Value)
	}
}

func TestNewNumericalInstabilityError(t *testing.T) {
	values := []float64{1.0, 2.0, 3.0, 4.0, 5.0, 6.0, 7.0}
	err := NewNumericalInstabilityError("Minimize", values, 100)

	msg := err.Error()
	if !strings.Contains(msg, "Minimize") {
		t.Errorf("Error message should name the operation: %s", msg)
	}
	if !strings.Contains(msg, "...") {
		t.Errorf("Error message should truncate long value lists: %s", msg)
	}

	var numErr *NumericalInstabilityError
	if !As(err, &numErr) {
		t.Error("Error should be castable to *NumericalInstabilityError")
	}
}

func TestNewConvergenceWarning(t *testing.T) {
	warn := NewConvergenceWarning("LevenbergMarquardt", 100, "chi-square is not finite")

	want := "LevenbergMarquardt failed to converge after 100 iterations: chi-square is not finite"
	if warn.Error() != want {
		t.Errorf("Error() = %v, want %v", warn.Error(), want)
	}

	var convWarn *ConvergenceWarning
	if !As(warn, &convWarn) {
		t.Error("Warning should be castable to *ConvergenceWarning")
	}
}

func TestWarnHandler(t *testing.T) {
	var captured []error
	SetWarningHandler(func(w error) {
		captured = append(captured, w)
	})
	defer SetWarningHandler(nil)

	w := NewConvergenceWarning("LevenbergMarquardt", 50, "")
	Warn(w)

	if len(captured) != 1 {
		t.Fatalf("Expected 1 captured warning, got %d", len(captured))
	}
	if captured[0] != w {
		t.Errorf("Captured warning = %v, want %v", captured[0], w)
	}
}

func TestWrapAndIs(t *testing.T) {
	baseErr := ErrEmptyData

	wrapped := Wrap(baseErr, "in NLS validation")

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}

	if !strings.Contains(wrapped.Error(), "in NLS validation") {
		t.Error("Expected wrapped error to contain wrapping message")
	}
}

func TestWrapf(t *testing.T) {
	baseErr := ErrSingularMatrix

	wrapped := Wrapf(baseErr, "in %s: covariance for %d parameters", "Minimize", 3)

	if !Is(wrapped, ErrSingularMatrix) {
		t.Error("Expected Is(wrapped, ErrSingularMatrix) to be true")
	}

	expectedMsg := "in Minimize: covariance for 3 parameters"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}

func TestErrorChaining(t *testing.T) {
	err1 := fmt.Errorf("base error")
	err2 := Wrap(err1, "wrapped once")
	err3 := NewModelError("Operation", "failed", err2)

	if !strings.Contains(err3.Error(), "base error") {
		t.Error("Expected error chain to contain base error")
	}

	formatted := fmt.Sprintf("%+v", err3)
	if !strings.Contains(formatted, "errors_test.go") {
		t.Error("Expected detailed error to contain stack trace")
	}
}
