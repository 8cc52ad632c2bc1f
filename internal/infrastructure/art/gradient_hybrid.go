package art

import (
	domainART "github.com/blackms/artflow-go/internal/domain/art"
)

// GradientHybridRule mixes a Hebbian term with a gradient-descent error term
// (the derivative of the squared prototype error), smoothed by per-category
// momentum. The momentum buffer lives in the store's rule-state side array
// and is allocated lazily on first update.
type GradientHybridRule struct {
	params domainART.GradientHybridParams
}

// NewGradientHybridRule constructs the rule, validating its parameters.
func NewGradientHybridRule(params domainART.GradientHybridParams) (*GradientHybridRule, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &GradientHybridRule{params: params}, nil
}

// Name returns the rule identifier.
func (r *GradientHybridRule) Name() string { return string(domainART.RuleGradientHybrid) }

// Update applies v ← momentum·v + (1-momentum)·g, w ← w + rate·v, where
// g_i = hebbMix·x_i·y + (1-hebbMix)·(x_i - w_i).
func (r *GradientHybridRule) Update(input domainART.Pattern, weights []float64, state *domainART.RuleState, rate float64) error {
	if err := checkUpdateArgs(input, weights, rate); err != nil {
		return err
	}
	if len(state.Velocity) != len(weights) {
		state.Velocity = make([]float64, len(weights))
	}
	y := dot(input, weights)
	m := r.params.Momentum
	for i := range weights {
		grad := r.params.HebbMix*input[i]*y + (1-r.params.HebbMix)*(input[i]-weights[i])
		state.Velocity[i] = m*state.Velocity[i] + (1-m)*grad
		weights[i] += rate * state.Velocity[i]
	}
	return nil
}
