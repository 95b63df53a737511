// Package models provides ready-made model functions for fit.NLS together
// with guess factories that derive per-column starting values from the data.
//
// Each model evaluates a closed-form curve over named parameters. Each guess
// runs a linear regression on transformed data and falls back to neutral
// defaults when the transform leaves too few usable points, so a guess never
// fails on odd data; the solver decides whether the fit converges. A pair
// always emits the same parameter names, which keeps batch result tables
// consistent across columns.
package models

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/fitgo/fit"
	"github.com/YuminosukeSato/fitgo/params"
)

// The pairs satisfy the fit package contracts.
var (
	_ fit.ModelFunc = PowerLaw
	_ fit.Guess     = GuessPowerLaw
	_ fit.ModelFunc = Exponential
	_ fit.Guess     = GuessExponential
	_ fit.ModelFunc = Logarithmic
	_ fit.Guess     = GuessLogarithmic
	_ fit.ModelFunc = Hyperbolic
	_ fit.Guess     = GuessHyperbolic
	_ fit.ModelFunc = Linear
	_ fit.Guess     = GuessLinear
)

// PowerLaw evaluates A·xⁿ with parameters "A" and "n".
func PowerLaw(x float64, p *params.Parameters) float64 {
	return p.Value("A") * math.Pow(x, p.Value("n"))
}

// GuessPowerLaw estimates "A" and "n" by regressing log(y) on log(x).
// Non-positive points are excluded from the regression.
func GuessPowerLaw(x, y []float64) (*params.Parameters, error) {
	a, n := 1.0, 1.0
	if alpha, beta, ok := regress(x, y, logOf, logOf); ok {
		a, n = math.Exp(alpha), beta
	}
	return build("A", a, "n", n)
}

// Exponential evaluates A·e^(k·x) with parameters "A" and "k".
func Exponential(x float64, p *params.Parameters) float64 {
	return p.Value("A") * math.Exp(p.Value("k")*x)
}

// GuessExponential estimates "A" and "k" by regressing log(y) on x.
// Non-positive y values are excluded from the regression.
func GuessExponential(x, y []float64) (*params.Parameters, error) {
	a, k := 1.0, 0.0
	if alpha, beta, ok := regress(x, y, identity, logOf); ok {
		a, k = math.Exp(alpha), beta
	}
	return build("A", a, "k", k)
}

// Logarithmic evaluates a + b·ln(x) with parameters "a" and "b".
func Logarithmic(x float64, p *params.Parameters) float64 {
	return p.Value("a") + p.Value("b")*math.Log(x)
}

// GuessLogarithmic estimates "a" and "b" by regressing y on log(x).
func GuessLogarithmic(x, y []float64) (*params.Parameters, error) {
	a, b := 0.0, 1.0
	if alpha, beta, ok := regress(x, y, logOf, identity); ok {
		a, b = alpha, beta
	}
	return build("a", a, "b", b)
}

// Hyperbolic evaluates a + b/x with parameters "a" and "b".
func Hyperbolic(x float64, p *params.Parameters) float64 {
	return p.Value("a") + p.Value("b")/x
}

// GuessHyperbolic estimates "a" and "b" by regressing y on 1/x.
func GuessHyperbolic(x, y []float64) (*params.Parameters, error) {
	a, b := 0.0, 1.0
	if alpha, beta, ok := regress(x, y, invOf, identity); ok {
		a, b = alpha, beta
	}
	return build("a", a, "b", b)
}

// Linear evaluates a + b·x with parameters "a" and "b".
func Linear(x float64, p *params.Parameters) float64 {
	return p.Value("a") + p.Value("b")*x
}

// GuessLinear estimates "a" and "b" by ordinary linear regression, which on
// clean linear data is already the optimum.
func GuessLinear(x, y []float64) (*params.Parameters, error) {
	a, b := 0.0, 1.0
	if alpha, beta, ok := regress(x, y, identity, identity); ok {
		a, b = alpha, beta
	}
	return build("a", a, "b", b)
}

func identity(v float64) float64 { return v }

func logOf(v float64) float64 {
	if v <= 0 {
		return math.NaN()
	}
	return math.Log(v)
}

func invOf(v float64) float64 {
	if v == 0 {
		return math.NaN()
	}
	return 1 / v
}

// regress fits y' = alpha + beta·x' over the points whose transformed
// coordinates are both finite. ok is false when fewer than two points
// survive the transforms or the regression degenerates.
func regress(x, y []float64, tx, ty func(float64) float64) (alpha, beta float64, ok bool) {
	n := min(len(x), len(y))
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		xv, yv := tx(x[i]), ty(y[i])
		if !isFinite(xv) || !isFinite(yv) {
			continue
		}
		xs = append(xs, xv)
		ys = append(ys, yv)
	}
	if len(xs) < 2 {
		return 0, 0, false
	}
	alpha, beta = stat.LinearRegression(xs, ys, nil, false)
	if !isFinite(alpha) || !isFinite(beta) {
		return 0, 0, false
	}
	return alpha, beta, true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func build(name1 string, v1 float64, name2 string, v2 float64) (*params.Parameters, error) {
	p := params.New()
	if err := p.Add(name1, v1); err != nil {
		return nil, err
	}
	if err := p.Add(name2, v2); err != nil {
		return nil, err
	}
	return p, nil
}
