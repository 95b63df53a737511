// Package optimize adapts the Levenberg-Marquardt solver from
// github.com/maorshutman/lm to the named-parameter model used throughout this
// module: parameters can carry bounds or be frozen, convergence failures are
// reported as errors, and standard errors are estimated from the numeric
// Jacobian at the optimum.
package optimize

import (
	"math"

	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/fitgo/params"
	"github.com/YuminosukeSato/fitgo/pkg/errors"
)

// Objective evaluates the residual vector at the given parameter values.
// The returned slice must have the same length on every call.
type Objective func(p *params.Parameters) []float64

// Settings holds the solver configuration.
type Settings struct {
	MaxIterations int     // iteration budget
	Tau           float64 // initial damping scale
	GradientTol   float64 // gradient norm stopping tolerance
	StepTol       float64 // step size stopping tolerance
	ObjectiveTol  float64 // objective value stopping tolerance
}

// NewSettings returns solver settings with defaults applied.
func NewSettings(opts ...Option) *Settings {
	s := &Settings{
		MaxIterations: 100,
		Tau:           1e-6,
		GradientTol:   1e-8,
		StepTol:       1e-8,
		ObjectiveTol:  1e-16,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option configures the solver.
type Option func(*Settings)

// WithMaxIterations sets the iteration budget.
func WithMaxIterations(n int) Option {
	return func(s *Settings) {
		s.MaxIterations = n
	}
}

// WithTau sets the initial damping scale.
func WithTau(tau float64) Option {
	return func(s *Settings) {
		s.Tau = tau
	}
}

// WithGradientTol sets the gradient norm stopping tolerance.
func WithGradientTol(tol float64) Option {
	return func(s *Settings) {
		s.GradientTol = tol
	}
}

// WithStepTol sets the step size stopping tolerance.
func WithStepTol(tol float64) Option {
	return func(s *Settings) {
		s.StepTol = tol
	}
}

// WithObjectiveTol sets the objective value stopping tolerance.
func WithObjectiveTol(tol float64) Option {
	return func(s *Settings) {
		s.ObjectiveTol = tol
	}
}

// MinimizeResult holds the outcome of a successful minimization.
type MinimizeResult struct {
	Params   *params.Parameters // fitted values with standard errors populated
	Residual []float64          // residual vector at the optimum
	Chisqr   float64            // sum of squared residuals
	RedChi   float64            // Chisqr / (NData - NVarys), NaN when NData <= NVarys
	NData    int                // number of residual entries
	NVarys   int                // number of varying parameters
	NFev     int                // objective evaluations, Jacobian columns included
}

// Minimize runs a Levenberg-Marquardt least-squares minimization of the
// objective over the varying parameters in p. Bounded parameters are handled
// with MINUIT-style variable transforms so the solver itself is unconstrained;
// fixed parameters keep their value and get a NaN standard error. The input
// set is never mutated: fitted values land on a clone returned in the result.
//
// A solve that does not converge returns a non-nil error: either the solver's
// own error, or a NumericalInstabilityError when the solution vector or the
// final χ² is not finite.
func Minimize(obj Objective, p *params.Parameters, opts ...Option) (*MinimizeResult, error) {
	if obj == nil {
		return nil, errors.NewValueError("Minimize", "objective must not be nil")
	}
	if p == nil || p.Len() == 0 {
		return nil, errors.NewModelError("Minimize", "empty parameter set", errors.ErrEmptyData)
	}

	settings := NewSettings(opts...)

	work := p.Clone()
	var varying []*params.Param
	for _, name := range work.Names() {
		prm := work.Get(name)
		prm.Stderr = math.NaN()
		if prm.Vary {
			varying = append(varying, prm)
		}
	}
	nVarys := len(varying)
	if nVarys == 0 {
		return nil, errors.NewValueError("Minimize", "no varying parameters")
	}

	trs := make([]transform, nVarys)
	u0 := make([]float64, nVarys)
	for i, prm := range varying {
		trs[i] = newTransform(prm.Min, prm.Max)
		u0[i] = trs[i].internal(errors.ClipValue(prm.Value, prm.Min, prm.Max))
	}

	nfev := 0
	eval := func(u []float64) []float64 {
		for i, prm := range varying {
			prm.Value = trs[i].external(u[i])
		}
		nfev++
		return obj(work)
	}

	// One evaluation at the start fixes the residual length.
	r0 := eval(u0)
	nData := len(r0)
	if nData == 0 {
		return nil, errors.NewValueError("Minimize", "objective returned an empty residual vector")
	}
	if nData < nVarys {
		return nil, errors.NewValueError("Minimize", "fewer residuals than varying parameters")
	}

	fn := func(dst, u []float64) {
		copy(dst, eval(u))
	}
	numJac := lm.NumJac{Func: fn}

	prob := lm.LMProblem{
		Dim:        nVarys,
		Size:       nData,
		Func:       fn,
		Jac:        numJac.Jac,
		InitParams: u0,
		Tau:        settings.Tau,
		Eps1:       settings.GradientTol,
		Eps2:       settings.StepTol,
	}

	solution, err := lm.LM(prob, &lm.Settings{
		Iterations:   settings.MaxIterations,
		ObjectiveTol: settings.ObjectiveTol,
	})
	if err != nil {
		return nil, errors.Wrap(err, "Minimize: solver failed")
	}

	uOpt := solution.X
	if err := errors.CheckNumericalStability("Minimize", uOpt, settings.MaxIterations); err != nil {
		return nil, err
	}

	// Re-evaluate at the optimum; this also writes the fitted values into work.
	residual := make([]float64, nData)
	copy(residual, eval(uOpt))

	var chisqr float64
	for _, r := range residual {
		chisqr += r * r
	}
	if err := errors.CheckScalar("Minimize", chisqr, settings.MaxIterations); err != nil {
		return nil, err
	}

	redChi := math.NaN()
	dof := nData - nVarys
	if dof > 0 {
		redChi = chisqr / float64(dof)
	}

	stderr := stderrEstimate(&numJac, trs, uOpt, nData, redChi)
	for i, prm := range varying {
		prm.Stderr = stderr[i]
	}

	return &MinimizeResult{
		Params:   work,
		Residual: residual,
		Chisqr:   chisqr,
		RedChi:   redChi,
		NData:    nData,
		NVarys:   nVarys,
		NFev:     nfev,
	}, nil
}

// stderrEstimate computes per-parameter standard errors from the numeric
// Jacobian at the optimum: cov = (JᵀJ)⁻¹ · redχ², scaled through the bounds
// transform derivative to express them on the parameter axes. Failure to
// estimate (singular JᵀJ, zero degrees of freedom) yields NaN entries rather
// than an error, matching the resulting Stderr contract.
func stderrEstimate(numJac *lm.NumJac, trs []transform, uOpt []float64, nData int, redChi float64) []float64 {
	nVarys := len(trs)
	stderr := make([]float64, nVarys)
	for i := range stderr {
		stderr[i] = math.NaN()
	}
	if math.IsNaN(redChi) {
		return stderr
	}

	jacobian := mat.NewDense(nData, nVarys, nil)
	numJac.Jac(jacobian, uOpt)

	var jtj mat.Dense
	jtj.Mul(jacobian.T(), jacobian)

	var cov mat.Dense
	if err := cov.Inverse(&jtj); err != nil {
		// An ill-conditioned matrix still carries usable values; a singular
		// one does not.
		if _, ok := err.(mat.Condition); !ok {
			return stderr
		}
	}

	for i := range stderr {
		v := cov.At(i, i) * redChi
		if v < 0 {
			continue
		}
		stderr[i] = math.Sqrt(v) * math.Abs(trs[i].gradient(uOpt[i]))
	}
	return stderr
}
