package art

import (
	"errors"
	"math"
	"testing"

	domainART "github.com/blackms/artflow-go/internal/domain/art"
)

// labelL1 and labelL2 are one-hot output patterns standing in for two
// distinct labels.
var (
	labelL1 = []float64{1, 0}
	labelL2 = []float64{0, 1}
)

func newTestARTMAP(t *testing.T, inputVigilance float64) *ARTMAP {
	t.Helper()
	cfg := domainART.MapConfig{
		Input: domainART.EngineConfig{
			InputDim:         2,
			Vigilance:        inputVigilance,
			Choice:           0.001,
			LearningRate:     1.0,
			MaxCategories:    50,
			ComplementCoding: false,
		},
		Output: domainART.EngineConfig{
			InputDim:         2,
			Vigilance:        0.9,
			Choice:           0.001,
			LearningRate:     1.0,
			MaxCategories:    50,
			ComplementCoding: false,
		},
		MaxVigilance:  1.0,
		VigilanceStep: 1e-6,
	}
	inputRule, err := NewFuzzyARTRule(domainART.FuzzyParams{})
	if err != nil {
		t.Fatal(err)
	}
	outputRule, err := NewFuzzyARTRule(domainART.FuzzyParams{})
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewARTMAP(cfg, inputRule, outputRule)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestARTMAPNewAssociation(t *testing.T) {
	m := newTestARTMAP(t, 0.7)

	res, err := m.Learn([]float64{1, 0}, labelL1)
	if err != nil {
		t.Fatal(err)
	}
	if !res.NewInputCategory {
		t.Fatal("first pattern did not commit a new input category")
	}
	if res.MatchTrackingEvents != 0 {
		t.Fatalf("match-tracking events = %d, expected 0", res.MatchTrackingEvents)
	}
	if got := m.MapField()[res.InputCategory]; got != res.OutputCategory {
		t.Fatalf("mapField[%d] = %d, expected %d", res.InputCategory, got, res.OutputCategory)
	}
}

func TestARTMAPReinforcement(t *testing.T) {
	m := newTestARTMAP(t, 0.7)

	first, err := m.Learn([]float64{1, 0}, labelL1)
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.Learn([]float64{0.95, 0.05}, labelL1)
	if err != nil {
		t.Fatal(err)
	}
	if second.NewInputCategory {
		t.Fatal("consistent pattern created a new category instead of reinforcing")
	}
	if second.InputCategory != first.InputCategory {
		t.Fatalf("reinforced category %d, expected %d", second.InputCategory, first.InputCategory)
	}
	if m.Stats().Reinforcements != 1 {
		t.Fatalf("reinforcements = %d, expected 1", m.Stats().Reinforcements)
	}
}

func TestARTMAPMatchTracking(t *testing.T) {
	m := newTestARTMAP(t, 0.7)

	// Category a resonates for both inputs, but the second pair carries a
	// different label: vigilance must be raised above M_a and a new input
	// category committed, leaving mapField[a] untouched.
	first, err := m.Learn([]float64{1, 0}, labelL1)
	if err != nil {
		t.Fatal(err)
	}
	a := first.InputCategory
	weightsBefore := append([]float64(nil), m.InputModule().Store().Weights(a)...)

	second, err := m.Learn([]float64{0.9, 0.1}, labelL2)
	if err != nil {
		t.Fatal(err)
	}
	if second.MatchTrackingEvents != 1 {
		t.Fatalf("match-tracking events = %d, expected 1", second.MatchTrackingEvents)
	}
	if !second.NewInputCategory {
		t.Fatal("conflict did not commit a new input category")
	}
	if second.InputCategory == a {
		t.Fatal("conflicting pattern landed in the original category")
	}

	mapField := m.MapField()
	if mapField[a] != first.OutputCategory {
		t.Fatalf("mapField[%d] changed to %d after conflict", a, mapField[a])
	}
	if mapField[second.InputCategory] != second.OutputCategory {
		t.Fatalf("new category mapped to %d, expected %d", mapField[second.InputCategory], second.OutputCategory)
	}

	// The disqualified category's weights were not updated on the
	// conflicting presentation.
	weightsAfter := m.InputModule().Store().Weights(a)
	for i := range weightsBefore {
		if math.Abs(weightsBefore[i]-weightsAfter[i]) > 1e-12 {
			t.Fatalf("category %d weights changed during a rejected presentation", a)
		}
	}

	if m.Stats().MatchTrackingEvents != 1 {
		t.Fatalf("stats match-tracking events = %d, expected 1", m.Stats().MatchTrackingEvents)
	}
}

func TestARTMAPMapFieldSingleValued(t *testing.T) {
	m := newTestARTMAP(t, 0.6)

	pairs := []struct {
		input []float64
		label []float64
	}{
		{[]float64{1, 0}, labelL1},
		{[]float64{0.9, 0.1}, labelL1},
		{[]float64{0.8, 0.2}, labelL2},
		{[]float64{0, 1}, labelL2},
		{[]float64{0.1, 0.9}, labelL1},
		{[]float64{0.85, 0.15}, labelL2},
	}

	seen := make(map[int]int)
	for i, pair := range pairs {
		res, err := m.Learn(pair.input, pair.label)
		if err != nil {
			t.Fatalf("pair %d: %v", i, err)
		}
		if prev, ok := seen[res.InputCategory]; ok && prev != res.OutputCategory {
			t.Fatalf("pair %d: category %d remapped %d -> %d", i, res.InputCategory, prev, res.OutputCategory)
		}
		seen[res.InputCategory] = res.OutputCategory

		// The live map field must agree with every assignment seen so far.
		for a, b := range m.MapField() {
			if expected, ok := seen[a]; ok && expected != b {
				t.Fatalf("pair %d: mapField[%d] = %d, expected %d", i, a, b, expected)
			}
		}
	}
}

func TestARTMAPPredict(t *testing.T) {
	m := newTestARTMAP(t, 0.7)

	learned, err := m.Learn([]float64{1, 0}, labelL1)
	if err != nil {
		t.Fatal(err)
	}

	res, err := m.Predict([]float64{0.95, 0.05})
	if err != nil {
		t.Fatal(err)
	}
	if res.Unmapped {
		t.Fatal("prediction unexpectedly unmapped")
	}
	if res.InputCategory != learned.InputCategory || res.OutputCategory != learned.OutputCategory {
		t.Fatalf("predicted (%d,%d), expected (%d,%d)",
			res.InputCategory, res.OutputCategory, learned.InputCategory, learned.OutputCategory)
	}

	// Prediction never creates categories.
	if m.InputModule().CategoryCount() != 1 {
		t.Fatalf("predict changed category count to %d", m.InputModule().CategoryCount())
	}
}

func TestARTMAPPredictUnmapped(t *testing.T) {
	m := newTestARTMAP(t, 0.7)

	// A category learned directly on the input module has no map-field
	// entry; predicting it reports Unmapped, not an error.
	if _, _, err := m.InputModule().Learn([]float64{0, 1}); err != nil {
		t.Fatal(err)
	}

	res, err := m.Predict([]float64{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Unmapped {
		t.Fatal("expected an unmapped prediction")
	}
}

func TestARTMAPPredictBeforeLearning(t *testing.T) {
	m := newTestARTMAP(t, 0.7)
	if _, err := m.Predict([]float64{1, 0}); !errors.Is(err, domainART.ErrIllegalState) {
		t.Fatalf("predict on empty module error = %v, expected ErrIllegalState", err)
	}
}

func TestARTMAPSnapshotCarriesMapField(t *testing.T) {
	m := newTestARTMAP(t, 0.7)
	if _, err := m.Learn([]float64{1, 0}, labelL1); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Learn([]float64{0, 1}, labelL2); err != nil {
		t.Fatal(err)
	}

	snap := m.Snapshot()
	if len(snap.MapField) != 2 {
		t.Fatalf("snapshot map field size = %d, expected 2", len(snap.MapField))
	}

	restored := newTestARTMAP(t, 0.7)
	if err := restored.InputModule().Restore(snap); err != nil {
		t.Fatal(err)
	}
	restored.RestoreMapField(snap.MapField)

	res, err := restored.Predict([]float64{1, 0})
	if err != nil {
		t.Fatal(err)
	}
	if res.Unmapped || res.OutputCategory != snap.MapField[res.InputCategory] {
		t.Fatalf("restored prediction = %+v", res)
	}
}

func TestARTMAPSourcesFor(t *testing.T) {
	m := newTestARTMAP(t, 0.95)

	// High vigilance keeps these inputs in separate categories sharing one
	// label.
	if _, err := m.Learn([]float64{1, 0}, labelL1); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Learn([]float64{0.2, 0.8}, labelL1); err != nil {
		t.Fatal(err)
	}

	sources := m.SourcesFor(0)
	if len(sources) != 2 {
		t.Fatalf("sources for label category 0 = %v, expected two entries", sources)
	}
}

func TestARTMAPReset(t *testing.T) {
	m := newTestARTMAP(t, 0.7)
	if _, err := m.Learn([]float64{1, 0}, labelL1); err != nil {
		t.Fatal(err)
	}

	m.Reset()
	if m.InputModule().CategoryCount() != 0 || m.OutputModule().CategoryCount() != 0 {
		t.Fatal("Reset left categories behind")
	}
	if len(m.MapField()) != 0 {
		t.Fatal("Reset left map-field entries behind")
	}
}
