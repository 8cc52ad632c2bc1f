package art

import (
	domainART "github.com/blackms/artflow-go/internal/domain/art"
)

// BCMRule implements Bienenstock-Cooper-Munro plasticity. Each category
// carries a sliding modification threshold θ in the store's rule-state side
// array:
//
//	θ ← (1-τ)θ + τ·y²
//	φ(y,θ) = y(y-θ)
//	Δw_i = rate·φ·x_i
//
// followed by weight decay and clamping to the configured bounds. Activity
// above the threshold potentiates, activity below it depresses, and the
// threshold itself chases the square of recent activity.
type BCMRule struct {
	params domainART.BCMParams
}

// NewBCMRule constructs the rule, validating its parameters.
func NewBCMRule(params domainART.BCMParams) (*BCMRule, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &BCMRule{params: params}, nil
}

// Name returns the rule identifier.
func (r *BCMRule) Name() string { return string(domainART.RuleBCM) }

// Update advances the sliding threshold, then applies the BCM update.
func (r *BCMRule) Update(input domainART.Pattern, weights []float64, state *domainART.RuleState, rate float64) error {
	if err := checkUpdateArgs(input, weights, rate); err != nil {
		return err
	}
	y := dot(input, weights)

	theta := (1-r.params.Tau)*state.Threshold + r.params.Tau*y*y
	state.Threshold = theta

	phi := y * (y - theta)
	for i := range weights {
		w := weights[i] + rate*phi*input[i]
		w -= r.params.Decay * w
		weights[i] = clamp(w, r.params.WeightMin, r.params.WeightMax)
	}
	return nil
}
