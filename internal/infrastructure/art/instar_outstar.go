package art

import (
	domainART "github.com/blackms/artflow-go/internal/domain/art"
)

// InstarOutstarRule blends Grossberg's instar and outstar updates. The instar
// component moves weights toward the input pattern directly; the outstar
// component does the same gated by the postsynaptic activation, so weakly
// activating patterns imprint more slowly.
type InstarOutstarRule struct {
	params domainART.InstarOutstarParams
}

// NewInstarOutstarRule constructs the rule, validating its parameters.
func NewInstarOutstarRule(params domainART.InstarOutstarParams) (*InstarOutstarRule, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &InstarOutstarRule{params: params}, nil
}

// Name returns the rule identifier.
func (r *InstarOutstarRule) Name() string { return string(domainART.RuleInstarOutstar) }

// Update applies Δw_i = rate·((1-mix) + mix·y)·(x_i - w_i) with y the
// normalized pattern activity.
func (r *InstarOutstarRule) Update(input domainART.Pattern, weights []float64, _ *domainART.RuleState, rate float64) error {
	if err := checkUpdateArgs(input, weights, rate); err != nil {
		return err
	}
	y := input.Norm() / float64(len(input))
	gain := (1-r.params.OutstarMix) + r.params.OutstarMix*y
	for i := range weights {
		weights[i] += rate * gain * (input[i] - weights[i])
	}
	return nil
}
