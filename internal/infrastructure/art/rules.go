// Package art provides the adaptive resonance engine infrastructure: the
// learning rules, the resonance search engine and the supervised ARTMAP
// module with match tracking.
package art

import (
	"fmt"

	domainART "github.com/blackms/artflow-go/internal/domain/art"
)

// LearningRule updates a category's weight vector in place from a presented
// pattern. Implementations are pure functions of their declared inputs,
// except BCM and the gradient hybrid, which read and write the per-category
// rule state owned by the category store.
//
// Concurrency contract: updates to the same category must be externally
// serialized; updates to distinct categories are independent.
type LearningRule interface {
	// Name returns the rule identifier.
	Name() string

	// Update applies the rule to weights in place. rate must be in [0,1];
	// input and weights must have equal length.
	Update(input domainART.Pattern, weights []float64, state *domainART.RuleState, rate float64) error
}

// checkUpdateArgs is the shared entry validation for every rule.
func checkUpdateArgs(input domainART.Pattern, weights []float64, rate float64) error {
	if len(input) == 0 {
		return fmt.Errorf("%w: empty input pattern", domainART.ErrInvalidArgument)
	}
	if len(input) != len(weights) {
		return fmt.Errorf("%w: input dim %d, weights dim %d", domainART.ErrDimensionMismatch, len(input), len(weights))
	}
	if rate < 0 || rate > 1 {
		return fmt.Errorf("%w: rate %v outside [0,1]", domainART.ErrInvalidParameter, rate)
	}
	return nil
}

// clamp bounds v to [lo,hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// dot returns the inner product of equal-length vectors.
func dot(a domainART.Pattern, b []float64) float64 {
	var sum float64
	for i, v := range a {
		sum += v * b[i]
	}
	return sum
}
