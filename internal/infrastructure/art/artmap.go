package art

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	domainART "github.com/blackms/artflow-go/internal/domain/art"
)

// MapStats accumulates supervised-learning statistics for an ARTMAP
// instance. Match-tracking conflicts are normal control flow and are only
// observable here.
type MapStats struct {
	LearnCalls          int64   `json:"learnCalls"`
	Predictions         int64   `json:"predictions"`
	MatchTrackingEvents int64   `json:"matchTrackingEvents"`
	NewAssociations     int64   `json:"newAssociations"`
	Reinforcements      int64   `json:"reinforcements"`
	AvgLatencyMs        float64 `json:"avgLatencyMs"`
}

// LearnResult reports the outcome of one supervised learn call.
type LearnResult struct {
	InputCategory    int  `json:"inputCategory"`
	OutputCategory   int  `json:"outputCategory"`
	NewInputCategory bool `json:"newInputCategory"`

	// MatchTrackingEvents counts vigilance raises taken during this call.
	MatchTrackingEvents int `json:"matchTrackingEvents"`
}

// PredictResult reports the outcome of a prediction. Unmapped is a
// legitimate "don't know" result, not an error: the winning input category
// has never been associated with an output category.
type PredictResult struct {
	InputCategory  int     `json:"inputCategory"`
	OutputCategory int     `json:"outputCategory"`
	Confidence     float64 `json:"confidence"`
	Unmapped       bool    `json:"unmapped"`
}

// ARTMAP couples an input-side and an output-side resonance engine through a
// map field and arbitrates label conflicts by match tracking: when the
// resonant input category is already mapped to a different output category,
// the input vigilance is raised just above the conflicting match value and
// the search is rerun, excluding categories already disqualified in the
// call.
//
// Single-writer contract: Learn must not be called concurrently on the same
// ARTMAP instance.
type ARTMAP struct {
	mu        sync.Mutex
	id        string
	config    domainART.MapConfig
	inputMod  *ResonanceEngine
	outputMod *ResonanceEngine

	// mapField is the forward association, at most one target per source.
	// inverse is its multimap for introspection.
	mapField map[int]int
	inverse  map[int][]int

	stats MapStats
}

// NewARTMAP validates the configuration and constructs the paired modules.
// Input and output modules use the same learning-rule variant.
func NewARTMAP(config domainART.MapConfig, inputRule, outputRule LearningRule) (*ARTMAP, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	inputMod, err := NewResonanceEngine(config.Input, inputRule)
	if err != nil {
		return nil, fmt.Errorf("input module: %w", err)
	}
	outputMod, err := NewResonanceEngine(config.Output, outputRule)
	if err != nil {
		return nil, fmt.Errorf("output module: %w", err)
	}
	return &ARTMAP{
		id:        uuid.New().String(),
		config:    config,
		inputMod:  inputMod,
		outputMod: outputMod,
		mapField:  make(map[int]int),
		inverse:   make(map[int][]int),
	}, nil
}

// ID returns the instance identifier.
func (m *ARTMAP) ID() string { return m.id }

// InputModule returns the input-side engine.
func (m *ARTMAP) InputModule() *ResonanceEngine { return m.inputMod }

// OutputModule returns the output-side engine.
func (m *ARTMAP) OutputModule() *ResonanceEngine { return m.outputMod }

// Learn presents a supervised (input, output) pair. The output pattern is
// learned first to obtain the target category, then the input module is
// searched under match tracking until a consistent mapping is found or a new
// input category is committed. The loop is bounded by the input category
// count plus one: every conflict permanently disqualifies one category for
// this call, and a brand-new category always has no prior mapping.
func (m *ARTMAP) Learn(input, output []float64) (LearnResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := time.Now()
	m.stats.LearnCalls++

	codedIn, err := m.inputMod.encode(input)
	if err != nil {
		return LearnResult{}, fmt.Errorf("input pattern: %w", err)
	}

	b, _, err := m.outputMod.Learn(output)
	if err != nil {
		return LearnResult{}, fmt.Errorf("output module: %w", err)
	}

	result := LearnResult{OutputCategory: b}
	vigilance := m.config.Input.Vigilance
	excluded := make(map[int]bool)

	// Each iteration either terminates or adds one entry to excluded, so the
	// loop runs at most Len()+1 times.
	for {
		a, match, found := m.inputMod.search(codedIn, vigilance, excluded)
		if !found {
			a, err = m.inputMod.commitNew(codedIn)
			if err != nil {
				return result, err
			}
			m.bind(a, b)
			result.InputCategory = a
			result.NewInputCategory = true
			break
		}

		mapped, ok := m.mapField[a]
		if !ok {
			if err := m.inputMod.resonate(codedIn, a); err != nil {
				return result, err
			}
			m.bind(a, b)
			result.InputCategory = a
			break
		}
		if mapped == b {
			if err := m.inputMod.resonate(codedIn, a); err != nil {
				return result, err
			}
			m.stats.Reinforcements++
			result.InputCategory = a
			break
		}

		// Map-field mismatch: raise vigilance just above the conflicting
		// match value and redo the search without this category.
		m.stats.MatchTrackingEvents++
		result.MatchTrackingEvents++
		vigilance = match + m.config.VigilanceStep
		if vigilance > m.config.MaxVigilance {
			vigilance = m.config.MaxVigilance
		}
		excluded[a] = true
	}

	m.observeLatency(time.Since(start))
	return result, nil
}

// bind records a new forward association and its inverse entry.
func (m *ARTMAP) bind(a, b int) {
	m.mapField[a] = b
	m.inverse[b] = append(m.inverse[b], a)
	m.stats.NewAssociations++
}

// Predict runs a pure arg-max search on the input module with no vigilance
// gate and no category creation. When the winning category has no map-field
// entry the result is Unmapped, not an error.
func (m *ARTMAP) Predict(input []float64) (PredictResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.Predictions++

	a, choice, err := m.inputMod.BestMatch(input)
	if err != nil {
		return PredictResult{}, err
	}

	b, ok := m.mapField[a]
	if !ok {
		return PredictResult{InputCategory: a, Confidence: choice, Unmapped: true}, nil
	}
	return PredictResult{InputCategory: a, OutputCategory: b, Confidence: choice}, nil
}

// MapField returns a copy of the forward mapping.
func (m *ARTMAP) MapField() map[int]int {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[int]int, len(m.mapField))
	for k, v := range m.mapField {
		out[k] = v
	}
	return out
}

// SourcesFor returns the input categories associated with an output
// category, from the inverse multimap.
func (m *ARTMAP) SourcesFor(outputCategory int) []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.inverse[outputCategory]...)
}

// Stats returns a copy of the supervised-learning statistics.
func (m *ARTMAP) Stats() MapStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// ResetCounters zeroes the statistics, including both module counters.
func (m *ARTMAP) ResetCounters() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = MapStats{}
	m.inputMod.ResetCounters()
	m.outputMod.ResetCounters()
}

// Reset clears both modules and the map field.
func (m *ARTMAP) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputMod.Reset()
	m.outputMod.Reset()
	m.mapField = make(map[int]int)
	m.inverse = make(map[int][]int)
}

// Snapshot captures the input module's categories together with the map
// field.
func (m *ARTMAP) Snapshot() domainART.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.inputMod.Snapshot()
	snap.ModuleID = m.id
	snap.MapField = make(map[int]int, len(m.mapField))
	for k, v := range m.mapField {
		snap.MapField[k] = v
	}
	return snap
}

// RestoreMapField replaces the map field from a snapshot and rebuilds the
// inverse multimap. Category restoration happens separately through the
// input module's Restore.
func (m *ARTMAP) RestoreMapField(mapField map[int]int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.mapField = make(map[int]int, len(mapField))
	m.inverse = make(map[int][]int)
	for a, b := range mapField {
		m.mapField[a] = b
		m.inverse[b] = append(m.inverse[b], a)
	}
}

// observeLatency folds one learn latency into the EMA. The caller holds
// m.mu.
func (m *ARTMAP) observeLatency(d time.Duration) {
	ms := float64(d.Microseconds()) / 1000.0
	if m.stats.AvgLatencyMs == 0 {
		m.stats.AvgLatencyMs = ms
		return
	}
	m.stats.AvgLatencyMs = (1-latencyEMAWeight)*m.stats.AvgLatencyMs + latencyEMAWeight*ms
}
