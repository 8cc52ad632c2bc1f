package art

import "fmt"

// RuleKind identifies a learning-rule variant.
type RuleKind string

const (
	RuleFuzzyART       RuleKind = "fuzzy-art"
	RuleHebbian        RuleKind = "hebbian"
	RuleBCM            RuleKind = "bcm"
	RuleInstarOutstar  RuleKind = "instar-outstar"
	RuleGradientHybrid RuleKind = "gradient-hybrid"
)

// Rule parameters form a closed, tagged set with one variant per learning
// rule. Each variant is validated once, when the rule is constructed, so the
// per-update hot path never re-checks configuration.

// FuzzyParams parameterizes the fuzzy-ART update w' = β(p ∧ w) + (1-β)w.
// The β used per update is the engine learning rate; the variant carries no
// additional state.
type FuzzyParams struct{}

// Validate always succeeds; fuzzy-ART has no free parameters beyond the
// engine learning rate.
func (FuzzyParams) Validate() error { return nil }

// HebbianParams parameterizes the plain Hebbian rule with decay and clamping.
type HebbianParams struct {
	Decay     float64 `json:"decay" yaml:"decay"`
	WeightMin float64 `json:"weightMin" yaml:"weightMin"`
	WeightMax float64 `json:"weightMax" yaml:"weightMax"`
}

// DefaultHebbianParams returns the usual decay/clamp settings.
func DefaultHebbianParams() HebbianParams {
	return HebbianParams{Decay: 0.001, WeightMin: 0, WeightMax: 1}
}

// Validate checks decay and weight bounds.
func (p HebbianParams) Validate() error {
	if p.Decay < 0 || p.Decay > 1 {
		return fmt.Errorf("%w: hebbian decay %v outside [0,1]", ErrInvalidParameter, p.Decay)
	}
	if p.WeightMin >= p.WeightMax {
		return fmt.Errorf("%w: weight bounds [%v,%v] inverted", ErrInvalidParameter, p.WeightMin, p.WeightMax)
	}
	return nil
}

// BCMParams parameterizes the BCM rule with its sliding-threshold time
// constant. The threshold itself lives in the category store's rule-state
// side array.
type BCMParams struct {
	Tau       float64 `json:"tau" yaml:"tau"`
	Decay     float64 `json:"decay" yaml:"decay"`
	WeightMin float64 `json:"weightMin" yaml:"weightMin"`
	WeightMax float64 `json:"weightMax" yaml:"weightMax"`
}

// DefaultBCMParams returns the usual BCM settings.
func DefaultBCMParams() BCMParams {
	return BCMParams{Tau: 0.1, Decay: 0.001, WeightMin: 0, WeightMax: 1}
}

// Validate checks tau, decay and weight bounds.
func (p BCMParams) Validate() error {
	if p.Tau <= 0 || p.Tau > 1 {
		return fmt.Errorf("%w: bcm tau %v outside (0,1]", ErrInvalidParameter, p.Tau)
	}
	if p.Decay < 0 || p.Decay > 1 {
		return fmt.Errorf("%w: bcm decay %v outside [0,1]", ErrInvalidParameter, p.Decay)
	}
	if p.WeightMin >= p.WeightMax {
		return fmt.Errorf("%w: weight bounds [%v,%v] inverted", ErrInvalidParameter, p.WeightMin, p.WeightMax)
	}
	return nil
}

// InstarOutstarParams blends the instar (weights track input) and outstar
// (weights track scaled output) components.
type InstarOutstarParams struct {
	// OutstarMix is the fraction of the update attributed to the outstar
	// component, in [0,1].
	OutstarMix float64 `json:"outstarMix" yaml:"outstarMix"`
}

// DefaultInstarOutstarParams returns an even instar/outstar blend.
func DefaultInstarOutstarParams() InstarOutstarParams {
	return InstarOutstarParams{OutstarMix: 0.5}
}

// Validate checks the blend fraction.
func (p InstarOutstarParams) Validate() error {
	if p.OutstarMix < 0 || p.OutstarMix > 1 {
		return fmt.Errorf("%w: outstarMix %v outside [0,1]", ErrInvalidParameter, p.OutstarMix)
	}
	return nil
}

// GradientHybridParams blends a Hebbian term with a gradient-descent error
// term, smoothed by momentum kept per category.
type GradientHybridParams struct {
	Momentum float64 `json:"momentum" yaml:"momentum"`

	// HebbMix is the fraction of the update attributed to the Hebbian term.
	HebbMix float64 `json:"hebbMix" yaml:"hebbMix"`
}

// DefaultGradientHybridParams returns the usual momentum/mix settings.
func DefaultGradientHybridParams() GradientHybridParams {
	return GradientHybridParams{Momentum: 0.9, HebbMix: 0.3}
}

// Validate checks momentum and mix.
func (p GradientHybridParams) Validate() error {
	if p.Momentum < 0 || p.Momentum >= 1 {
		return fmt.Errorf("%w: momentum %v outside [0,1)", ErrInvalidParameter, p.Momentum)
	}
	if p.HebbMix < 0 || p.HebbMix > 1 {
		return fmt.Errorf("%w: hebbMix %v outside [0,1]", ErrInvalidParameter, p.HebbMix)
	}
	return nil
}
