package art

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domainART "github.com/blackms/artflow-go/internal/domain/art"
)

// latencyEMAWeight is the smoothing factor for the per-search latency EMA.
const latencyEMAWeight = 0.1

// Counters accumulates per-engine operation statistics. Lifecycle is tied to
// the engine instance; reset only by ResetCounters.
type Counters struct {
	Searches     int64   `json:"searches"`
	Resonances   int64   `json:"resonances"`
	Commits      int64   `json:"commits"`
	Resets       int64   `json:"resets"`
	AvgLatencyMs float64 `json:"avgLatencyMs"`
}

// ResonanceEngine performs the vigilance-gated category search over a
// category store and applies the configured learning rule on resonance.
//
// The engine is single-writer per store instance: Learn must not be called
// concurrently on the same engine. Distinct engines are fully independent.
type ResonanceEngine struct {
	mu       sync.Mutex
	id       string
	config   domainART.EngineConfig
	store    *domainART.CategoryStore
	rule     LearningRule
	counters Counters
}

// candidate pairs a category index with its choice and match values for one
// search call.
type candidate struct {
	index  int
	choice float64
	match  float64
}

// NewResonanceEngine validates the configuration and constructs an engine
// with an empty category store.
func NewResonanceEngine(config domainART.EngineConfig, rule LearningRule) (*ResonanceEngine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, fmt.Errorf("%w: nil learning rule", domainART.ErrInvalidArgument)
	}
	store, err := domainART.NewCategoryStore(config.StoreDim(), config.MaxCategories)
	if err != nil {
		return nil, err
	}
	return &ResonanceEngine{
		id:     uuid.New().String(),
		config: config,
		store:  store,
		rule:   rule,
	}, nil
}

// ID returns the engine's unique identifier.
func (e *ResonanceEngine) ID() string { return e.id }

// Config returns the engine configuration.
func (e *ResonanceEngine) Config() domainART.EngineConfig { return e.config }

// Store returns the engine's category store. The store follows the engine's
// single-writer contract.
func (e *ResonanceEngine) Store() *domainART.CategoryStore { return e.store }

// Rule returns the configured learning rule.
func (e *ResonanceEngine) Rule() LearningRule { return e.rule }

// CategoryCount returns the number of committed categories.
func (e *ResonanceEngine) CategoryCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Len()
}

// encode validates a raw input against the declared dimension and applies
// complement coding when configured.
func (e *ResonanceEngine) encode(values []float64) (domainART.Pattern, error) {
	if len(values) != e.config.InputDim {
		return nil, fmt.Errorf("%w: input dim %d, engine dim %d",
			domainART.ErrDimensionMismatch, len(values), e.config.InputDim)
	}
	if e.config.ComplementCoding {
		return domainART.ComplementCode(values)
	}
	return domainART.NewPattern(values)
}

// Learn presents a pattern at the engine's base vigilance. It returns the
// resonant or newly committed category index and whether a new category was
// created.
func (e *ResonanceEngine) Learn(values []float64) (int, bool, error) {
	return e.LearnWithVigilance(values, e.config.Vigilance)
}

// LearnWithVigilance presents a pattern at an explicit vigilance. The
// vigilance applies to this call only and is never persisted.
func (e *ResonanceEngine) LearnWithVigilance(values []float64, vigilance float64) (int, bool, error) {
	if vigilance < 0 || vigilance > 1 {
		return 0, false, fmt.Errorf("%w: vigilance %v outside [0,1]", domainART.ErrInvalidArgument, vigilance)
	}
	coded, err := e.encode(values)
	if err != nil {
		return 0, false, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	idx, committed, _, err := e.learnLocked(coded, vigilance, nil)
	e.observeLatency(time.Since(start))
	return idx, committed, err
}

// learnLocked runs one full search-and-commit cycle. The caller holds e.mu.
func (e *ResonanceEngine) learnLocked(coded domainART.Pattern, vigilance float64, excluded map[int]bool) (int, bool, float64, error) {
	if idx, match, found := e.searchLocked(coded, vigilance, excluded); found {
		if err := e.resonateLocked(coded, idx); err != nil {
			return 0, false, 0, err
		}
		return idx, false, match, nil
	}
	idx, err := e.commitNewLocked(coded)
	if err != nil {
		return 0, false, 0, err
	}
	return idx, true, 1.0, nil
}

// searchLocked ranks all non-excluded categories by the choice function
//
//	T_j = |p ∧ w_j| / (α + |w_j|)
//
// descending, ties broken by ascending index, and returns the first whose
// match value M_j = |p ∧ w_j| / |p| clears the vigilance. Categories that
// fail the match test count as resets for this call. The caller holds e.mu.
func (e *ResonanceEngine) searchLocked(coded domainART.Pattern, vigilance float64, excluded map[int]bool) (int, float64, bool) {
	e.counters.Searches++

	n := e.store.Len()
	if n == 0 {
		return 0, 0, false
	}

	pNorm := coded.Norm()
	candidates := make([]candidate, 0, n)
	for j := 0; j < n; j++ {
		if excluded[j] {
			continue
		}
		w := e.store.Weights(j)
		andNorm := domainART.FuzzyAndNorm(coded, w)
		var wNorm float64
		for _, v := range w {
			wNorm += v
		}
		c := candidate{index: j, choice: andNorm / (e.config.Choice + wNorm)}
		if pNorm > 0 {
			c.match = andNorm / pNorm
		} else {
			// Zero pattern matches everything vacuously.
			c.match = 1.0
		}
		candidates = append(candidates, c)
	}

	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].choice != candidates[b].choice {
			return candidates[a].choice > candidates[b].choice
		}
		return candidates[a].index < candidates[b].index
	})

	for _, c := range candidates {
		if c.match >= vigilance {
			return c.index, c.match, true
		}
		e.counters.Resets++
	}
	return 0, 0, false
}

// resonateLocked applies the learning rule to the winning category in place.
// The caller holds e.mu.
func (e *ResonanceEngine) resonateLocked(coded domainART.Pattern, index int) error {
	err := e.rule.Update(coded, e.store.Weights(index), e.store.RuleState(index), e.config.LearningRate)
	if err != nil {
		return err
	}
	e.store.Touch(index)
	e.counters.Resonances++
	return nil
}

// commitNewLocked appends a new category initialized from the coded pattern.
// The caller holds e.mu.
func (e *ResonanceEngine) commitNewLocked(coded domainART.Pattern) (int, error) {
	idx, err := e.store.Append(coded)
	if err != nil {
		return 0, err
	}
	e.store.Touch(idx)
	e.counters.Commits++
	return idx, nil
}

// search runs a vigilance-gated search without committing anything. Used by
// the map field, which decides separately whether to resonate or reset.
func (e *ResonanceEngine) search(coded domainART.Pattern, vigilance float64, excluded map[int]bool) (int, float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.searchLocked(coded, vigilance, excluded)
}

// resonate applies the learning rule to a previously found category.
func (e *ResonanceEngine) resonate(coded domainART.Pattern, index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resonateLocked(coded, index)
}

// commitNew appends a category initialized from the coded pattern.
func (e *ResonanceEngine) commitNew(coded domainART.Pattern) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commitNewLocked(coded)
}

// BestMatch returns the category with the highest choice value for the
// input, with no vigilance gate and no category creation. Returns
// ErrIllegalState when no category has been learned yet.
func (e *ResonanceEngine) BestMatch(values []float64) (int, float64, error) {
	coded, err := e.encode(values)
	if err != nil {
		return 0, 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	n := e.store.Len()
	if n == 0 {
		return 0, 0, fmt.Errorf("%w: no categories learned", domainART.ErrIllegalState)
	}

	best, bestChoice := 0, -1.0
	for j := 0; j < n; j++ {
		w := e.store.Weights(j)
		andNorm := domainART.FuzzyAndNorm(coded, w)
		var wNorm float64
		for _, v := range w {
			wNorm += v
		}
		choice := andNorm / (e.config.Choice + wNorm)
		if choice > bestChoice {
			best, bestChoice = j, choice
		}
	}
	return best, bestChoice, nil
}

// observeLatency folds one search latency into the EMA. The caller holds
// e.mu.
func (e *ResonanceEngine) observeLatency(d time.Duration) {
	ms := float64(d.Microseconds()) / 1000.0
	if e.counters.AvgLatencyMs == 0 {
		e.counters.AvgLatencyMs = ms
		return
	}
	e.counters.AvgLatencyMs = (1-latencyEMAWeight)*e.counters.AvgLatencyMs + latencyEMAWeight*ms
}

// Counters returns a copy of the engine's operation counters.
func (e *ResonanceEngine) Counters() Counters {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.counters
}

// ResetCounters zeroes the operation counters.
func (e *ResonanceEngine) ResetCounters() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.counters = Counters{}
}

// Reset clears the category store. Counters are kept until ResetCounters.
func (e *ResonanceEngine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.Clear()
}

// Snapshot captures the engine's learned categories for persistence.
func (e *ResonanceEngine) Snapshot() domainART.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := domainART.Snapshot{
		ModuleID:   e.id,
		Dimension:  e.store.Dim(),
		Vigilance:  e.config.Vigilance,
		Categories: make([]domainART.CategorySnapshot, e.store.Len()),
	}
	for j := 0; j < e.store.Len(); j++ {
		c, _ := e.store.Category(j)
		snap.Categories[j] = domainART.CategorySnapshot{
			Weights:    c.Weights,
			UsageCount: c.UsageCount,
			Threshold:  e.store.RuleState(j).Threshold,
		}
	}
	return snap
}

// Restore replaces the engine's categories with the snapshot contents.
func (e *ResonanceEngine) Restore(snap domainART.Snapshot) error {
	if snap.Dimension != e.store.Dim() {
		return fmt.Errorf("%w: snapshot dim %d, store dim %d",
			domainART.ErrDimensionMismatch, snap.Dimension, e.store.Dim())
	}
	if len(snap.Categories) > e.store.Max() {
		return fmt.Errorf("%w: snapshot has %d categories, store capacity %d",
			domainART.ErrCapacityExceeded, len(snap.Categories), e.store.Max())
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.store.Clear()
	for _, cs := range snap.Categories {
		idx, err := e.store.Append(cs.Weights)
		if err != nil {
			return err
		}
		e.store.RuleState(idx).Threshold = cs.Threshold
		e.store.SetUsage(idx, cs.UsageCount)
	}
	return nil
}
