// Package artflow provides the public API for artflow-go.
//
// This package provides a high-level interface for building adaptive
// resonance modules: unsupervised category formation, supervised
// category-to-label mapping with match tracking, and the batched processing
// substrate.
//
// Example:
//
//	module, err := artflow.NewModule(artflow.ModuleConfig{
//	    Engine: artflow.DefaultEngineConfig(4),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer module.Close()
//
//	category, created, err := module.Learn([]float64{0.2, 0.9, 0.1, 0.5})
package artflow

import (
	"fmt"

	domainART "github.com/blackms/artflow-go/internal/domain/art"
	artinfra "github.com/blackms/artflow-go/internal/infrastructure/art"
	"github.com/blackms/artflow-go/internal/infrastructure/batch"
	"github.com/blackms/artflow-go/internal/infrastructure/pool"
	"github.com/blackms/artflow-go/internal/infrastructure/store"
	"github.com/blackms/artflow-go/internal/infrastructure/worker"
)

// Re-export types for the public API.
type (
	// Domain types
	Pattern          = domainART.Pattern
	Category         = domainART.Category
	CategoryStore    = domainART.CategoryStore
	Snapshot         = domainART.Snapshot
	CategorySnapshot = domainART.CategorySnapshot

	// Configuration
	EngineConfig = domainART.EngineConfig
	MapConfig    = domainART.MapConfig
	PoolConfig   = domainART.PoolConfig
	BatchConfig  = domainART.BatchConfig
	WorkerConfig = domainART.WorkerConfig

	// Rule parameters
	RuleKind             = domainART.RuleKind
	FuzzyParams          = domainART.FuzzyParams
	HebbianParams        = domainART.HebbianParams
	BCMParams            = domainART.BCMParams
	InstarOutstarParams  = domainART.InstarOutstarParams
	GradientHybridParams = domainART.GradientHybridParams

	// Engines
	LearningRule    = artinfra.LearningRule
	ResonanceEngine = artinfra.ResonanceEngine
	ARTMAP          = artinfra.ARTMAP
	Counters        = artinfra.Counters
	MapStats        = artinfra.MapStats
	LearnResult     = artinfra.LearnResult
	PredictResult   = artinfra.PredictResult

	// Substrate
	VectorPool     = pool.VectorPool
	WorkerPool     = worker.Pool
	BatchProcessor = batch.Processor
	SnapshotStore  = store.SnapshotStore
	StoreConfig    = store.Config
)

// Re-export the error taxonomy.
var (
	ErrInvalidArgument   = domainART.ErrInvalidArgument
	ErrDimensionMismatch = domainART.ErrDimensionMismatch
	ErrInvalidParameter  = domainART.ErrInvalidParameter
	ErrIllegalState      = domainART.ErrIllegalState
	ErrCapacityExceeded  = domainART.ErrCapacityExceeded
	ErrPoolClosed        = domainART.ErrPoolClosed
)

// Rule kinds.
const (
	RuleFuzzyART       = domainART.RuleFuzzyART
	RuleHebbian        = domainART.RuleHebbian
	RuleBCM            = domainART.RuleBCM
	RuleInstarOutstar  = domainART.RuleInstarOutstar
	RuleGradientHybrid = domainART.RuleGradientHybrid
)

// Default configurations.
var (
	DefaultEngineConfig = domainART.DefaultEngineConfig
	DefaultMapConfig    = domainART.DefaultMapConfig
	DefaultPoolConfig   = domainART.DefaultPoolConfig
	DefaultBatchConfig  = domainART.DefaultBatchConfig
	DefaultWorkerConfig = domainART.DefaultWorkerConfig
)

// Rule constructors.
var (
	NewFuzzyARTRule       = artinfra.NewFuzzyARTRule
	NewHebbianRule        = artinfra.NewHebbianRule
	NewBCMRule            = artinfra.NewBCMRule
	NewInstarOutstarRule  = artinfra.NewInstarOutstarRule
	NewGradientHybridRule = artinfra.NewGradientHybridRule
)

// Engine constructors.
var (
	NewResonanceEngine = artinfra.NewResonanceEngine
	NewARTMAP          = artinfra.NewARTMAP
	NewVectorPool      = pool.New
	NewWorkerPool      = worker.New
	NewBatchProcessor  = batch.New
	NewSnapshotStore   = store.New
)

// NewRule constructs the learning rule named by kind with default
// parameters.
func NewRule(kind RuleKind) (LearningRule, error) {
	switch kind {
	case RuleFuzzyART:
		return NewFuzzyARTRule(FuzzyParams{})
	case RuleHebbian:
		return NewHebbianRule(domainART.DefaultHebbianParams())
	case RuleBCM:
		return NewBCMRule(domainART.DefaultBCMParams())
	case RuleInstarOutstar:
		return NewInstarOutstarRule(domainART.DefaultInstarOutstarParams())
	case RuleGradientHybrid:
		return NewGradientHybridRule(domainART.DefaultGradientHybridParams())
	default:
		return nil, fmt.Errorf("%w: unknown rule kind %q", ErrInvalidArgument, kind)
	}
}

// ModuleConfig assembles a full module: the engine, an optional supervised
// map, and the batch substrate.
type ModuleConfig struct {
	Engine EngineConfig `json:"engine" yaml:"engine"`

	// Map, when set, makes the module supervised (ARTMAP) and its Input
	// engine config supersedes Engine.
	Map *MapConfig `json:"map,omitempty" yaml:"map,omitempty"`

	// Rule selects the learning-rule variant; defaults to fuzzy ART.
	Rule RuleKind `json:"rule" yaml:"rule"`

	Batch   BatchConfig  `json:"batch" yaml:"batch"`
	Workers WorkerConfig `json:"workers" yaml:"workers"`
}

// Module bundles an engine (or ARTMAP), a scratch pool, a worker pool and a
// batch processor behind one handle. The module owns its worker pool and
// tears it down on Close.
type Module struct {
	engine     *ResonanceEngine
	supervised *ARTMAP
	scratch    *VectorPool
	workers    *WorkerPool
	processor  *BatchProcessor
}

// NewModule validates the configuration and wires the module together.
func NewModule(config ModuleConfig) (*Module, error) {
	if config.Rule == "" {
		config.Rule = RuleFuzzyART
	}
	rule, err := NewRule(config.Rule)
	if err != nil {
		return nil, err
	}

	m := &Module{}
	if config.Map != nil {
		outputRule, err := NewRule(config.Rule)
		if err != nil {
			return nil, err
		}
		m.supervised, err = NewARTMAP(*config.Map, rule, outputRule)
		if err != nil {
			return nil, err
		}
		m.engine = m.supervised.InputModule()
	} else {
		m.engine, err = NewResonanceEngine(config.Engine, rule)
		if err != nil {
			return nil, err
		}
	}

	if config.Workers == (WorkerConfig{}) {
		config.Workers = DefaultWorkerConfig()
	}
	m.workers, err = NewWorkerPool(config.Workers)
	if err != nil {
		return nil, err
	}

	m.scratch, err = NewVectorPool(DefaultPoolConfig(m.engine.Store().Dim()))
	if err != nil {
		return nil, err
	}

	if config.Batch == (BatchConfig{}) {
		config.Batch = DefaultBatchConfig()
	}
	m.processor, err = NewBatchProcessor(config.Batch, m.scratch, m.workers)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Engine returns the underlying resonance engine (the input module for
// supervised instances).
func (m *Module) Engine() *ResonanceEngine { return m.engine }

// Supervised returns the ARTMAP instance, or nil for unsupervised modules.
func (m *Module) Supervised() *ARTMAP { return m.supervised }

// Learn presents one pattern unsupervised.
func (m *Module) Learn(values []float64) (int, bool, error) {
	return m.engine.Learn(values)
}

// LearnSupervised presents an (input, output) pair. Requires a Map config.
func (m *Module) LearnSupervised(input, output []float64) (LearnResult, error) {
	if m.supervised == nil {
		return LearnResult{}, fmt.Errorf("%w: module is unsupervised", ErrIllegalState)
	}
	return m.supervised.Learn(input, output)
}

// Predict returns the supervised prediction for an input.
func (m *Module) Predict(input []float64) (PredictResult, error) {
	if m.supervised == nil {
		return PredictResult{}, fmt.Errorf("%w: module is unsupervised", ErrIllegalState)
	}
	return m.supervised.Predict(input)
}

// ProcessBatch learns a batch of patterns and returns their category
// indices.
func (m *Module) ProcessBatch(patterns [][]float64) ([]int, error) {
	return m.processor.LearnBatch(m.engine, patterns)
}

// Processor exposes the batch processor for dynamics operations.
func (m *Module) Processor() *BatchProcessor { return m.processor }

// Snapshot captures the module's learned state.
func (m *Module) Snapshot() Snapshot {
	if m.supervised != nil {
		return m.supervised.Snapshot()
	}
	return m.engine.Snapshot()
}

// Close tears down the module's worker pool and scratch pool.
func (m *Module) Close() error {
	m.scratch.Close()
	return m.workers.Close()
}
