package errors

import "math"

// CheckNumericalStability returns a NumericalInstabilityError if any value is
// NaN or infinite. Solvers call it on their solution vectors so a diverged
// run surfaces as a structured error instead of silent NaN results.
func CheckNumericalStability(operation string, values []float64, iteration int) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewNumericalInstabilityError(operation, values, iteration)
		}
	}
	return nil
}

// CheckScalar is CheckNumericalStability for a single value, such as the
// chi-square of a finished fit.
func CheckScalar(operation string, value float64, iteration int) error {
	return CheckNumericalStability(operation, []float64{value}, iteration)
}

// ClipValue clamps value to [min, max]. Parameter start values are clipped to
// their bounds before a fit begins.
func ClipValue(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
