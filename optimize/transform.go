package optimize

import "math"

// transform maps one bounded parameter axis onto the unconstrained axis the
// solver iterates over, using the MINUIT-style change of variables:
// a sine transform for two-sided bounds and a sqrt(u²+1) shift for one-sided
// bounds. Fixed parameters never reach the solver, so a transform always
// belongs to a varying parameter.
type transform struct {
	min, max float64
}

func newTransform(min, max float64) transform {
	return transform{min: min, max: max}
}

// external maps a solver coordinate to the bounded parameter value.
func (t transform) external(u float64) float64 {
	switch {
	case math.IsInf(t.min, -1) && math.IsInf(t.max, 1):
		return u
	case math.IsInf(t.max, 1):
		return t.min - 1 + math.Sqrt(u*u+1)
	case math.IsInf(t.min, -1):
		return t.max + 1 - math.Sqrt(u*u+1)
	default:
		return t.min + (math.Sin(u)+1)*(t.max-t.min)/2
	}
}

// internal maps a parameter value inside the bounds to the solver coordinate.
// The value must already lie within [min, max]; callers clip it first.
func (t transform) internal(x float64) float64 {
	switch {
	case math.IsInf(t.min, -1) && math.IsInf(t.max, 1):
		return x
	case math.IsInf(t.max, 1):
		v := x - t.min + 1
		s := v*v - 1
		if s < 0 {
			s = 0
		}
		return math.Sqrt(s)
	case math.IsInf(t.min, -1):
		v := t.max - x + 1
		s := v*v - 1
		if s < 0 {
			s = 0
		}
		return math.Sqrt(s)
	default:
		arg := 2*(x-t.min)/(t.max-t.min) - 1
		if arg < -1 {
			arg = -1
		} else if arg > 1 {
			arg = 1
		}
		return math.Asin(arg)
	}
}

// gradient is d(external)/d(internal) at u. Standard errors estimated on the
// solver axes are scaled by |gradient| to express them on the parameter axes.
func (t transform) gradient(u float64) float64 {
	switch {
	case math.IsInf(t.min, -1) && math.IsInf(t.max, 1):
		return 1
	case math.IsInf(t.max, 1):
		return u / math.Sqrt(u*u+1)
	case math.IsInf(t.min, -1):
		return -u / math.Sqrt(u*u+1)
	default:
		return math.Cos(u) * (t.max - t.min) / 2
	}
}
