package art

import (
	domainART "github.com/blackms/artflow-go/internal/domain/art"
)

// HebbianRule implements plain Hebbian learning: the postsynaptic activation
// is the input/weight inner product and each weight grows in proportion to
// the product of its input component and that activation, followed by weight
// decay and clamping.
type HebbianRule struct {
	params domainART.HebbianParams
}

// NewHebbianRule constructs the rule, validating its parameters.
func NewHebbianRule(params domainART.HebbianParams) (*HebbianRule, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &HebbianRule{params: params}, nil
}

// Name returns the rule identifier.
func (r *HebbianRule) Name() string { return string(domainART.RuleHebbian) }

// Update applies Δw_i = rate·x_i·y with y = <x,w>, then decay and clamp.
func (r *HebbianRule) Update(input domainART.Pattern, weights []float64, _ *domainART.RuleState, rate float64) error {
	if err := checkUpdateArgs(input, weights, rate); err != nil {
		return err
	}
	y := dot(input, weights)
	for i := range weights {
		w := weights[i] + rate*input[i]*y
		w -= r.params.Decay * w
		weights[i] = clamp(w, r.params.WeightMin, r.params.WeightMax)
	}
	return nil
}
