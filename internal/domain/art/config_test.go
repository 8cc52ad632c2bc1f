package art

import (
	"errors"
	"testing"
)

func TestEngineConfigValidate(t *testing.T) {
	valid := DefaultEngineConfig(4)

	tests := []struct {
		name   string
		mutate func(*EngineConfig)
		ok     bool
	}{
		{name: "defaults", mutate: func(*EngineConfig) {}, ok: true},
		{name: "zero dim", mutate: func(c *EngineConfig) { c.InputDim = 0 }},
		{name: "vigilance low", mutate: func(c *EngineConfig) { c.Vigilance = -0.1 }},
		{name: "vigilance high", mutate: func(c *EngineConfig) { c.Vigilance = 1.1 }},
		{name: "negative choice", mutate: func(c *EngineConfig) { c.Choice = -1 }},
		{name: "rate high", mutate: func(c *EngineConfig) { c.LearningRate = 1.5 }},
		{name: "zero capacity", mutate: func(c *EngineConfig) { c.MaxCategories = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("Validate() error = %v, expected ErrInvalidArgument", err)
			}
		})
	}
}

func TestEngineConfigStoreDim(t *testing.T) {
	cfg := DefaultEngineConfig(8)
	if got := cfg.StoreDim(); got != 16 {
		t.Fatalf("complement-coded StoreDim = %d, expected 16", got)
	}
	cfg.ComplementCoding = false
	if got := cfg.StoreDim(); got != 8 {
		t.Fatalf("raw StoreDim = %d, expected 8", got)
	}
}

func TestMapConfigValidate(t *testing.T) {
	cfg := DefaultMapConfig(4, 2)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default map config invalid: %v", err)
	}

	bad := cfg
	bad.MaxVigilance = cfg.Input.Vigilance - 0.1
	if err := bad.Validate(); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("maxVigilance below base error = %v, expected ErrInvalidArgument", err)
	}

	bad = cfg
	bad.VigilanceStep = 0
	if err := bad.Validate(); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("zero vigilanceStep error = %v, expected ErrInvalidArgument", err)
	}

	bad = cfg
	bad.Output.InputDim = 0
	if err := bad.Validate(); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("bad output module error = %v, expected ErrInvalidArgument", err)
	}
}

func TestRuleParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		params interface{ Validate() error }
		ok     bool
	}{
		{name: "fuzzy defaults", params: FuzzyParams{}, ok: true},
		{name: "hebbian defaults", params: DefaultHebbianParams(), ok: true},
		{name: "hebbian inverted bounds", params: HebbianParams{Decay: 0.1, WeightMin: 1, WeightMax: 0}},
		{name: "bcm defaults", params: DefaultBCMParams(), ok: true},
		{name: "bcm zero tau", params: BCMParams{Tau: 0, WeightMin: 0, WeightMax: 1}},
		{name: "bcm decay high", params: BCMParams{Tau: 0.1, Decay: 2, WeightMin: 0, WeightMax: 1}},
		{name: "instar defaults", params: DefaultInstarOutstarParams(), ok: true},
		{name: "instar mix high", params: InstarOutstarParams{OutstarMix: 1.5}},
		{name: "hybrid defaults", params: DefaultGradientHybridParams(), ok: true},
		{name: "hybrid momentum one", params: GradientHybridParams{Momentum: 1, HebbMix: 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.ok && err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidParameter) {
				t.Fatalf("Validate() error = %v, expected ErrInvalidParameter", err)
			}
		})
	}
}

func TestSubstrateConfigValidate(t *testing.T) {
	if err := DefaultPoolConfig(8).Validate(); err != nil {
		t.Fatalf("default pool config invalid: %v", err)
	}
	if err := (PoolConfig{Dimension: 0, MaxSize: 4}).Validate(); !errors.Is(err, ErrInvalidArgument) {
		t.Fatal("zero pool dimension accepted")
	}
	if err := DefaultBatchConfig().Validate(); err != nil {
		t.Fatalf("default batch config invalid: %v", err)
	}
	bad := DefaultBatchConfig()
	bad.DecayRate = 1.5
	if err := bad.Validate(); !errors.Is(err, ErrInvalidArgument) {
		t.Fatal("decayRate above 1 accepted")
	}
	if err := DefaultWorkerConfig().Validate(); err != nil {
		t.Fatalf("default worker config invalid: %v", err)
	}
	if err := (WorkerConfig{Size: 0}).Validate(); !errors.Is(err, ErrInvalidArgument) {
		t.Fatal("zero worker size accepted")
	}
}
