package rules

import "math"

// Resolve applies precedence layers over a default, lowest first:
// defaults, then stored config, then per-call overrides. A nil layer or one
// holding NaN/Inf is skipped, so corrupted values never win.
func Resolve(def float64, layers ...*float64) float64 {
	out := def
	for _, l := range layers {
		if Finite(l) {
			out = *l
		}
	}
	return out
}

// ResolveOptional is Resolve for nullable parameters such as pay caps. The
// result never aliases any argument.
func ResolveOptional(def *float64, layers ...*float64) *float64 {
	out := def
	for _, l := range layers {
		if Finite(l) {
			out = l
		}
	}
	return copyFloat(out)
}

// Finite reports whether p is set and holds a finite number.
func Finite(p *float64) bool {
	return p != nil && !math.IsNaN(*p) && !math.IsInf(*p, 0)
}

// Float returns a pointer to v, for building override layers.
func Float(v float64) *float64 { return &v }
