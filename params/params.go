// Package params defines the named fit parameters consumed by the optimizers
// in this module. A Parameters set is an ordered collection of Param values;
// each parameter carries an initial value, optional bounds, a Vary flag that
// can freeze it during optimization, and the standard error a solver reports
// back after a fit.
//
// Example:
//
//	p := params.New()
//	_ = p.Add("A", 2.0, params.WithMin(0))
//	_ = p.Add("k", -0.5)
//	_ = p.Add("offset", 0.0, params.WithVary(false))
package params

import (
	"math"

	"github.com/YuminosukeSato/fitgo/pkg/errors"
)

// Param is a single named fit parameter.
type Param struct {
	Name   string
	Value  float64
	Min    float64 // lower bound, -Inf when unbounded
	Max    float64 // upper bound, +Inf when unbounded
	Vary   bool    // false freezes the parameter at Value during a fit
	Stderr float64 // standard error, NaN until a solver populates it
}

// Bounded reports whether the parameter has at least one finite bound.
func (p *Param) Bounded() bool {
	return !math.IsInf(p.Min, -1) || !math.IsInf(p.Max, 1)
}

// Parameters is an ordered set of fit parameters. Insertion order is
// preserved and determines the column order of result tables.
//
// The zero value is not usable; construct with New.
type Parameters struct {
	order  []string
	byName map[string]*Param
}

// New creates an empty parameter set.
func New() *Parameters {
	return &Parameters{byName: make(map[string]*Param)}
}

// ParamOption configures a parameter as it is added.
type ParamOption func(*Param)

// WithMin sets the lower bound.
func WithMin(min float64) ParamOption {
	return func(p *Param) {
		p.Min = min
	}
}

// WithMax sets the upper bound.
func WithMax(max float64) ParamOption {
	return func(p *Param) {
		p.Max = max
	}
}

// WithVary sets whether the parameter is adjusted during a fit.
// Parameters vary by default; WithVary(false) freezes one at its value.
func WithVary(vary bool) ParamOption {
	return func(p *Param) {
		p.Vary = vary
	}
}

// Add appends a parameter to the set. The name must be non-empty and unique,
// the value finite, and the bounds must satisfy Min < Max. An initial value
// outside the bounds is clipped into them.
func (ps *Parameters) Add(name string, value float64, opts ...ParamOption) error {
	if name == "" {
		return errors.NewValidationError(name, "parameter name must not be empty", value)
	}
	if _, exists := ps.byName[name]; exists {
		return errors.NewValidationError(name, "duplicate parameter name", value)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return errors.NewValidationError(name, "initial value must be finite", value)
	}

	p := &Param{
		Name:   name,
		Value:  value,
		Min:    math.Inf(-1),
		Max:    math.Inf(1),
		Vary:   true,
		Stderr: math.NaN(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if math.IsNaN(p.Min) || math.IsNaN(p.Max) {
		return errors.NewValidationError(name, "bounds must not be NaN", value)
	}
	if p.Min >= p.Max {
		return errors.NewValidationError(name, "lower bound must be strictly below upper bound", p.Min)
	}
	p.Value = errors.ClipValue(p.Value, p.Min, p.Max)

	ps.order = append(ps.order, name)
	ps.byName[name] = p
	return nil
}

// Len returns the number of parameters.
func (ps *Parameters) Len() int {
	return len(ps.order)
}

// NVarys returns the number of varying parameters.
func (ps *Parameters) NVarys() int {
	n := 0
	for _, name := range ps.order {
		if ps.byName[name].Vary {
			n++
		}
	}
	return n
}

// Names returns the parameter names in insertion order.
func (ps *Parameters) Names() []string {
	names := make([]string, len(ps.order))
	copy(names, ps.order)
	return names
}

// Has reports whether a parameter with the given name exists.
func (ps *Parameters) Has(name string) bool {
	_, ok := ps.byName[name]
	return ok
}

// Get returns the parameter with the given name, or nil if it does not
// exist. The returned pointer aliases the stored parameter, so writes to
// Value or Stderr through it are visible to later reads; the Name field
// must not be changed.
func (ps *Parameters) Get(name string) *Param {
	return ps.byName[name]
}

// Value returns the current value of the named parameter, or NaN if no such
// parameter exists. Model functions read parameters through Value inside
// solver callbacks, so an unknown name poisons the fit instead of panicking
// mid-iteration.
func (ps *Parameters) Value(name string) float64 {
	p, ok := ps.byName[name]
	if !ok {
		return math.NaN()
	}
	return p.Value
}

// SetValue sets the current value of the named parameter.
func (ps *Parameters) SetValue(name string, value float64) error {
	p, ok := ps.byName[name]
	if !ok {
		return errors.NewValidationError(name, "unknown parameter", value)
	}
	p.Value = value
	return nil
}

// SetStderr sets the standard error of the named parameter.
func (ps *Parameters) SetStderr(name string, stderr float64) error {
	p, ok := ps.byName[name]
	if !ok {
		return errors.NewValidationError(name, "unknown parameter", stderr)
	}
	p.Stderr = stderr
	return nil
}

// Clone returns a deep copy of the parameter set. Solvers operate on a clone
// so the caller's set is never mutated.
func (ps *Parameters) Clone() *Parameters {
	out := New()
	out.order = make([]string, len(ps.order))
	copy(out.order, ps.order)
	for name, p := range ps.byName {
		cp := *p
		out.byName[name] = &cp
	}
	return out
}
