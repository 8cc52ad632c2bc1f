// Package art provides the domain entities for the adaptive resonance
// engines: patterns, categories, the category store, rule parameters and
// component configuration.
package art

import (
	"fmt"
	"math"
)

// Pattern is a fixed-length vector of real values, each component normalized
// to [0,1]. Patterns are immutable by convention: constructors copy their
// input and no method mutates the receiver.
type Pattern []float64

// NewPattern validates values and returns a copied Pattern. Components must
// be finite and within [0,1].
func NewPattern(values []float64) (Pattern, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: empty pattern", ErrInvalidArgument)
	}
	p := make(Pattern, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: component %d is not finite", ErrInvalidArgument, i)
		}
		if v < 0 || v > 1 {
			return nil, fmt.Errorf("%w: component %d = %v outside [0,1]", ErrInvalidArgument, i, v)
		}
		p[i] = v
	}
	return p, nil
}

// ComplementCode returns the complement-coded pattern [v..., 1-v...],
// doubling the dimension. Complement coding keeps the fuzzy intersection
// norm bounded away from zero so that match values stay well-defined.
func ComplementCode(values []float64) (Pattern, error) {
	base, err := NewPattern(values)
	if err != nil {
		return nil, err
	}
	coded := make(Pattern, 2*len(base))
	copy(coded, base)
	for i, v := range base {
		coded[len(base)+i] = 1 - v
	}
	return coded, nil
}

// Dim returns the pattern dimension.
func (p Pattern) Dim() int { return len(p) }

// Norm returns the L1 norm of the pattern.
func (p Pattern) Norm() float64 {
	var sum float64
	for _, v := range p {
		sum += v
	}
	return sum
}

// Clone returns an independent copy.
func (p Pattern) Clone() Pattern {
	out := make(Pattern, len(p))
	copy(out, p)
	return out
}

// FuzzyAnd returns the elementwise minimum of p and w. Lengths must match;
// callers on the hot path should prefer FuzzyAndNorm, which avoids the
// allocation.
func (p Pattern) FuzzyAnd(w []float64) (Pattern, error) {
	if len(p) != len(w) {
		return nil, fmt.Errorf("%w: pattern dim %d vs %d", ErrDimensionMismatch, len(p), len(w))
	}
	out := make(Pattern, len(p))
	for i, v := range p {
		out[i] = math.Min(v, w[i])
	}
	return out, nil
}

// FuzzyAndNorm returns |p ∧ w|, the L1 norm of the elementwise minimum,
// without allocating the intermediate vector.
func FuzzyAndNorm(p, w []float64) float64 {
	var sum float64
	for i, v := range p {
		if w[i] < v {
			sum += w[i]
		} else {
			sum += v
		}
	}
	return sum
}
