// Package fit provides per-column least-squares curve fitting over a data
// frame: a Levenberg-Marquardt batch fit for arbitrary models (NLS) and a
// closed-form power-law fit in log space (PowerLaw). Each column of the frame
// is fitted independently against the shared index; results are collected
// into labeled tables with one row per column.
package fit

import (
	"math"

	"github.com/YuminosukeSato/fitgo/optimize"
	"github.com/YuminosukeSato/fitgo/params"
	"github.com/YuminosukeSato/fitgo/pkg/errors"
)

// ModelFunc evaluates a model at one point for the given parameter values.
// Parameters are read by name, e.g. p.Value("A") * math.Exp(p.Value("k")*x).
type ModelFunc func(x float64, p *params.Parameters) float64

// Guess produces starting parameters for one column from that column's
// cleaned data. It is invoked once per column, so data-dependent starting
// values see exactly the points the solver will see.
type Guess func(x, y []float64) (*params.Parameters, error)

// Fixed adapts a static parameter set to the Guess interface. Every column
// starts from a clone of p, so per-column solves stay independent.
func Fixed(p *params.Parameters) Guess {
	return func(x, y []float64) (*params.Parameters, error) {
		if p == nil {
			return nil, errors.NewValueError("fit.Fixed", "parameter set must not be nil")
		}
		return p.Clone(), nil
	}
}

// ResidualFilter transforms a residual vector in place before weights are
// applied.
type ResidualFilter func(residual []float64)

// ReplaceNonFiniteWithMean substitutes NaN and ±Inf residual entries with the
// mean of the finite entries. It keeps the minimizer from diverging when the
// model is undefined at isolated points, at the cost of some bias; callers
// who prefer a hard failure can disable it with WithResidualFilter(nil).
// A vector with no finite entry is left unchanged.
func ReplaceNonFiniteWithMean(residual []float64) {
	var sum float64
	finite := 0
	for _, v := range residual {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			sum += v
			finite++
		}
	}
	if finite == 0 || finite == len(residual) {
		return
	}
	mean := sum / float64(finite)
	for i, v := range residual {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			residual[i] = mean
		}
	}
}

// Residual assembles the least-squares objective for one column.
//
// The residual is Y - f(X), or log(Y) - log(f(X)) when LogSpace is set.
// Filter runs next, and Weights multiply elementwise last, so weighting is
// never distorted by the filter's mean substitution.
type Residual struct {
	Model    ModelFunc
	X        []float64 // independent variable samples
	Y        []float64 // observed values, same length as X
	Weights  []float64 // optional, same length as X
	LogSpace bool
	Filter   ResidualFilter // nil leaves non-finite entries in place
}

// Build validates the definition and returns the solver objective. The
// objective is a pure function over copies of the input slices; it allocates
// a fresh residual vector per call.
func (r Residual) Build() (optimize.Objective, error) {
	if r.Model == nil {
		return nil, errors.NewValueError("fit.Residual", "model must not be nil")
	}
	if len(r.X) == 0 {
		return nil, errors.NewModelError("fit.Residual", "empty data", errors.ErrEmptyData)
	}
	if len(r.Y) != len(r.X) {
		return nil, errors.NewDimensionError("fit.Residual", len(r.X), len(r.Y), 0)
	}
	if r.Weights != nil && len(r.Weights) != len(r.X) {
		return nil, errors.NewDimensionError("fit.Residual", len(r.X), len(r.Weights), 0)
	}

	x := append([]float64(nil), r.X...)
	y := append([]float64(nil), r.Y...)
	var w []float64
	if r.Weights != nil {
		w = append([]float64(nil), r.Weights...)
	}
	model, logSpace, filter := r.Model, r.LogSpace, r.Filter

	return func(p *params.Parameters) []float64 {
		res := make([]float64, len(x))
		for i := range x {
			f := model(x[i], p)
			if logSpace {
				res[i] = math.Log(y[i]) - math.Log(f)
			} else {
				res[i] = y[i] - f
			}
		}
		if filter != nil {
			filter(res)
		}
		if w != nil {
			for i := range res {
				res[i] *= w[i]
			}
		}
		return res
	}, nil
}
