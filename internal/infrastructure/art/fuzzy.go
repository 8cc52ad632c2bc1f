package art

import (
	domainART "github.com/blackms/artflow-go/internal/domain/art"
)

// FuzzyARTRule implements the fuzzy-ART weight update
//
//	w' = β(p ∧ w) + (1-β)w
//
// where β is the per-call rate. With β=1 (fast learning) the update is the
// plain fuzzy intersection. The update only ever shrinks weights toward
// p ∧ w, which is what makes learned categories stable.
type FuzzyARTRule struct {
	params domainART.FuzzyParams
}

// NewFuzzyARTRule constructs the rule, validating its parameters.
func NewFuzzyARTRule(params domainART.FuzzyParams) (*FuzzyARTRule, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &FuzzyARTRule{params: params}, nil
}

// Name returns the rule identifier.
func (r *FuzzyARTRule) Name() string { return string(domainART.RuleFuzzyART) }

// Update applies the fuzzy-ART update in place.
func (r *FuzzyARTRule) Update(input domainART.Pattern, weights []float64, _ *domainART.RuleState, rate float64) error {
	if err := checkUpdateArgs(input, weights, rate); err != nil {
		return err
	}
	for i, w := range weights {
		m := input[i]
		if w < m {
			m = w
		}
		weights[i] = rate*m + (1-rate)*w
	}
	return nil
}
