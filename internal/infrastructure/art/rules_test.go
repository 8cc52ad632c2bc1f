package art

import (
	"errors"
	"math"
	"testing"

	domainART "github.com/blackms/artflow-go/internal/domain/art"
)

func TestRuleArgumentValidation(t *testing.T) {
	fuzzy, err := NewFuzzyARTRule(domainART.FuzzyParams{})
	if err != nil {
		t.Fatal(err)
	}
	hebbian, err := NewHebbianRule(domainART.DefaultHebbianParams())
	if err != nil {
		t.Fatal(err)
	}
	bcm, err := NewBCMRule(domainART.DefaultBCMParams())
	if err != nil {
		t.Fatal(err)
	}
	instar, err := NewInstarOutstarRule(domainART.DefaultInstarOutstarParams())
	if err != nil {
		t.Fatal(err)
	}
	hybrid, err := NewGradientHybridRule(domainART.DefaultGradientHybridParams())
	if err != nil {
		t.Fatal(err)
	}

	rules := []LearningRule{fuzzy, hebbian, bcm, instar, hybrid}
	input := domainART.Pattern{0.5, 0.5}
	state := &domainART.RuleState{}

	for _, rule := range rules {
		t.Run(rule.Name(), func(t *testing.T) {
			weights := []float64{0.5, 0.5, 0.5}
			if err := rule.Update(input, weights, state, 0.5); !errors.Is(err, domainART.ErrDimensionMismatch) {
				t.Fatalf("mismatched dims error = %v, expected ErrDimensionMismatch", err)
			}
			if err := rule.Update(input, []float64{0.5, 0.5}, state, 1.5); !errors.Is(err, domainART.ErrInvalidParameter) {
				t.Fatalf("rate 1.5 error = %v, expected ErrInvalidParameter", err)
			}
			if err := rule.Update(input, []float64{0.5, 0.5}, state, -0.1); !errors.Is(err, domainART.ErrInvalidParameter) {
				t.Fatalf("rate -0.1 error = %v, expected ErrInvalidParameter", err)
			}
		})
	}
}

func TestFuzzyARTContraction(t *testing.T) {
	rule, err := NewFuzzyARTRule(domainART.FuzzyParams{})
	if err != nil {
		t.Fatal(err)
	}

	input := domainART.Pattern{0.9, 0.1, 0.5}
	old := []float64{0.7, 0.3, 0.6}
	weights := append([]float64(nil), old...)

	if err := rule.Update(input, weights, nil, 1.0); err != nil {
		t.Fatal(err)
	}

	// Fast learning: w' = p ∧ w, never above min(old, input) componentwise.
	for i := range weights {
		bound := math.Min(old[i], input[i])
		if weights[i] > bound+1e-12 {
			t.Fatalf("weights[%d] = %v above contraction bound %v", i, weights[i], bound)
		}
	}
	expected := []float64{0.7, 0.1, 0.5}
	for i := range expected {
		if math.Abs(weights[i]-expected[i]) > 1e-12 {
			t.Fatalf("weights[%d] = %v, expected %v", i, weights[i], expected[i])
		}
	}
}

func TestFuzzyARTSlowLearning(t *testing.T) {
	rule, _ := NewFuzzyARTRule(domainART.FuzzyParams{})

	input := domainART.Pattern{0.0, 1.0}
	weights := []float64{1.0, 1.0}
	if err := rule.Update(input, weights, nil, 0.5); err != nil {
		t.Fatal(err)
	}
	// w' = 0.5·(p ∧ w) + 0.5·w
	expected := []float64{0.5, 1.0}
	for i := range expected {
		if math.Abs(weights[i]-expected[i]) > 1e-12 {
			t.Fatalf("weights[%d] = %v, expected %v", i, weights[i], expected[i])
		}
	}
}

func TestBCMSlidingThreshold(t *testing.T) {
	params := domainART.BCMParams{Tau: 0.5, Decay: 0, WeightMin: 0, WeightMax: 1}
	rule, err := NewBCMRule(params)
	if err != nil {
		t.Fatal(err)
	}

	input := domainART.Pattern{1.0, 0.0}
	weights := []float64{0.5, 0.5}
	state := &domainART.RuleState{}

	// y = 0.5, so θ moves from 0 to τ·y² = 0.125.
	if err := rule.Update(input, weights, state, 0.1); err != nil {
		t.Fatal(err)
	}
	if math.Abs(state.Threshold-0.125) > 1e-12 {
		t.Fatalf("threshold = %v, expected 0.125", state.Threshold)
	}

	// Activity above threshold potentiates the active synapse.
	if weights[0] <= 0.5 {
		t.Fatalf("active weight = %v, expected potentiation above 0.5", weights[0])
	}
	// The inactive synapse is untouched (x=0, no decay configured).
	if weights[1] != 0.5 {
		t.Fatalf("inactive weight = %v, expected 0.5", weights[1])
	}
}

func TestBCMClampsToBounds(t *testing.T) {
	params := domainART.BCMParams{Tau: 0.9, Decay: 0, WeightMin: 0, WeightMax: 0.6}
	rule, _ := NewBCMRule(params)

	input := domainART.Pattern{1.0}
	weights := []float64{0.6}
	state := &domainART.RuleState{}

	for i := 0; i < 50; i++ {
		if err := rule.Update(input, weights, state, 1.0); err != nil {
			t.Fatal(err)
		}
		if weights[0] < 0 || weights[0] > 0.6 {
			t.Fatalf("weight %v escaped bounds [0,0.6] at step %d", weights[0], i)
		}
	}
}

func TestHebbianClampsToBounds(t *testing.T) {
	params := domainART.HebbianParams{Decay: 0, WeightMin: 0, WeightMax: 1}
	rule, _ := NewHebbianRule(params)

	input := domainART.Pattern{1.0, 1.0}
	weights := []float64{0.9, 0.9}
	for i := 0; i < 20; i++ {
		if err := rule.Update(input, weights, nil, 1.0); err != nil {
			t.Fatal(err)
		}
	}
	for i, w := range weights {
		if w > 1 {
			t.Fatalf("weights[%d] = %v above clamp", i, w)
		}
	}
}

func TestInstarOutstarMovesTowardInput(t *testing.T) {
	rule, _ := NewInstarOutstarRule(domainART.DefaultInstarOutstarParams())

	input := domainART.Pattern{1.0, 0.0}
	weights := []float64{0.2, 0.8}
	before := append([]float64(nil), weights...)

	if err := rule.Update(input, weights, nil, 0.5); err != nil {
		t.Fatal(err)
	}
	if weights[0] <= before[0] {
		t.Fatalf("weights[0] = %v, expected movement up toward input 1.0", weights[0])
	}
	if weights[1] >= before[1] {
		t.Fatalf("weights[1] = %v, expected movement down toward input 0.0", weights[1])
	}
}

func TestGradientHybridMomentumState(t *testing.T) {
	rule, _ := NewGradientHybridRule(domainART.DefaultGradientHybridParams())

	input := domainART.Pattern{1.0, 0.0}
	weights := []float64{0.5, 0.5}
	state := &domainART.RuleState{}

	if err := rule.Update(input, weights, state, 0.5); err != nil {
		t.Fatal(err)
	}
	if len(state.Velocity) != len(weights) {
		t.Fatalf("velocity dim = %d, expected %d", len(state.Velocity), len(weights))
	}

	// A second update reuses the velocity buffer.
	buf := &state.Velocity[0]
	if err := rule.Update(input, weights, state, 0.5); err != nil {
		t.Fatal(err)
	}
	if &state.Velocity[0] != buf {
		t.Fatal("velocity buffer reallocated on second update")
	}
}
