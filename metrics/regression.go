// Package metrics provides regression quality metrics for fitted curves.
// All functions take plain float64 slices, validate their inputs, and return
// an error instead of a silent NaN when the metric is undefined.
package metrics

import (
	"math"

	"github.com/YuminosukeSato/fitgo/pkg/errors"
)

// MSE computes the mean squared error between observed and predicted values.
func MSE(yTrue, yPred []float64) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("MSE", "empty slice")
	}
	if len(yPred) != n {
		return 0, errors.NewDimensionError("MSE", n, len(yPred), 0)
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue[i] - yPred[i]
		sum += diff * diff
	}

	return sum / float64(n), nil
}

// RMSE computes the root mean squared error.
func RMSE(yTrue, yPred []float64) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE computes the mean absolute error.
func MAE(yTrue, yPred []float64) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("MAE", "empty slice")
	}
	if len(yPred) != n {
		return 0, errors.NewDimensionError("MAE", n, len(yPred), 0)
	}

	// MAE = (1/n) * Σ|yTrue - yPred|
	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue[i] - yPred[i])
	}

	return sum / float64(n), nil
}

// R2Score computes the coefficient of determination R².
// It returns an error when yTrue has no variance, since R² is undefined then.
func R2Score(yTrue, yPred []float64) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("R2Score", "empty slice")
	}
	if len(yPred) != n {
		return 0, errors.NewDimensionError("R2Score", n, len(yPred), 0)
	}

	var yMean float64
	for i := 0; i < n; i++ {
		yMean += yTrue[i]
	}
	yMean /= float64(n)

	// Total sum of squares and residual sum of squares.
	var tss, rss float64
	for i := 0; i < n; i++ {
		tss += (yTrue[i] - yMean) * (yTrue[i] - yMean)
		rss += (yTrue[i] - yPred[i]) * (yTrue[i] - yPred[i])
	}

	if tss == 0 {
		return 0, errors.Newf("R2Score: total sum of squares is zero (no variance in yTrue)")
	}

	// R² = 1 - RSS/TSS
	return 1 - rss/tss, nil
}

// MAPE computes the mean absolute percentage error. Entries where yTrue is
// zero are skipped to avoid dividing by zero; if every entry is zero the
// metric is undefined and an error is returned.
func MAPE(yTrue, yPred []float64) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("MAPE", "empty slice")
	}
	if len(yPred) != n {
		return 0, errors.NewDimensionError("MAPE", n, len(yPred), 0)
	}

	var sum float64
	validCount := 0
	for i := 0; i < n; i++ {
		if yTrue[i] != 0 {
			sum += math.Abs(yTrue[i]-yPred[i]) / math.Abs(yTrue[i])
			validCount++
		}
	}

	if validCount == 0 {
		return 0, errors.Newf("MAPE: all yTrue values are zero")
	}

	return (sum / float64(validCount)) * 100, nil
}

// ExplainedVarianceScore computes 1 - Var(yTrue - yPred) / Var(yTrue).
func ExplainedVarianceScore(yTrue, yPred []float64) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("ExplainedVarianceScore", "empty slice")
	}
	if len(yPred) != n {
		return 0, errors.NewDimensionError("ExplainedVarianceScore", n, len(yPred), 0)
	}

	var yTrueMean, diffMean float64
	for i := 0; i < n; i++ {
		yTrueMean += yTrue[i]
		diffMean += yTrue[i] - yPred[i]
	}
	yTrueMean /= float64(n)
	diffMean /= float64(n)

	var varYTrue, varDiff float64
	for i := 0; i < n; i++ {
		diff := yTrue[i] - yPred[i]
		varYTrue += (yTrue[i] - yTrueMean) * (yTrue[i] - yTrueMean)
		varDiff += (diff - diffMean) * (diff - diffMean)
	}
	varYTrue /= float64(n)
	varDiff /= float64(n)

	if varYTrue == 0 {
		return 0, errors.Newf("ExplainedVarianceScore: no variance in yTrue")
	}

	return 1 - varDiff/varYTrue, nil
}
