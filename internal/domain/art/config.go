package art

import "fmt"

// EngineConfig configures a resonance search engine.
type EngineConfig struct {
	// InputDim is the raw input dimension before complement coding.
	InputDim int `json:"inputDim" yaml:"inputDim"`

	// Vigilance is the base match threshold in [0,1].
	Vigilance float64 `json:"vigilance" yaml:"vigilance"`

	// Choice is the alpha parameter of the choice function.
	Choice float64 `json:"choice" yaml:"choice"`

	// LearningRate is the rule update rate in [0,1].
	LearningRate float64 `json:"learningRate" yaml:"learningRate"`

	// MaxCategories bounds the category store.
	MaxCategories int `json:"maxCategories" yaml:"maxCategories"`

	// ComplementCoding doubles the stored dimension to [v, 1-v].
	ComplementCoding bool `json:"complementCoding" yaml:"complementCoding"`
}

// DefaultEngineConfig returns sensible defaults for a resonance engine.
func DefaultEngineConfig(inputDim int) EngineConfig {
	return EngineConfig{
		InputDim:         inputDim,
		Vigilance:        0.75,
		Choice:           0.001,
		LearningRate:     1.0,
		MaxCategories:    1000,
		ComplementCoding: true,
	}
}

// Validate checks all fields once, at construction time.
func (c EngineConfig) Validate() error {
	if c.InputDim <= 0 {
		return fmt.Errorf("%w: inputDim must be positive, got %d", ErrInvalidArgument, c.InputDim)
	}
	if c.Vigilance < 0 || c.Vigilance > 1 {
		return fmt.Errorf("%w: vigilance %v outside [0,1]", ErrInvalidArgument, c.Vigilance)
	}
	if c.Choice < 0 {
		return fmt.Errorf("%w: choice alpha %v must be non-negative", ErrInvalidArgument, c.Choice)
	}
	if c.LearningRate < 0 || c.LearningRate > 1 {
		return fmt.Errorf("%w: learningRate %v outside [0,1]", ErrInvalidArgument, c.LearningRate)
	}
	if c.MaxCategories <= 0 {
		return fmt.Errorf("%w: maxCategories must be positive, got %d", ErrInvalidArgument, c.MaxCategories)
	}
	return nil
}

// StoreDim returns the stored weight dimension after optional complement
// coding.
func (c EngineConfig) StoreDim() int {
	if c.ComplementCoding {
		return 2 * c.InputDim
	}
	return c.InputDim
}

// MapConfig configures a supervised ARTMAP module pair.
type MapConfig struct {
	// Input configures the input-side (A) engine.
	Input EngineConfig `json:"input" yaml:"input"`

	// Output configures the output-side (B) engine.
	Output EngineConfig `json:"output" yaml:"output"`

	// MaxVigilance caps match-tracking vigilance raises.
	MaxVigilance float64 `json:"maxVigilance" yaml:"maxVigilance"`

	// VigilanceStep is the epsilon added above the conflicting match value.
	VigilanceStep float64 `json:"vigilanceStep" yaml:"vigilanceStep"`
}

// DefaultMapConfig returns defaults for an ARTMAP with the given raw input
// and output dimensions.
func DefaultMapConfig(inputDim, outputDim int) MapConfig {
	out := DefaultEngineConfig(outputDim)
	out.Vigilance = 0.95
	return MapConfig{
		Input:         DefaultEngineConfig(inputDim),
		Output:        out,
		MaxVigilance:  1.0,
		VigilanceStep: 1e-6,
	}
}

// Validate checks both engine configs and the match-tracking parameters.
func (c MapConfig) Validate() error {
	if err := c.Input.Validate(); err != nil {
		return fmt.Errorf("input module: %w", err)
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output module: %w", err)
	}
	if c.MaxVigilance < c.Input.Vigilance || c.MaxVigilance > 1 {
		return fmt.Errorf("%w: maxVigilance %v outside [baseVigilance,1]", ErrInvalidArgument, c.MaxVigilance)
	}
	if c.VigilanceStep <= 0 || c.VigilanceStep >= 1 {
		return fmt.Errorf("%w: vigilanceStep %v outside (0,1)", ErrInvalidArgument, c.VigilanceStep)
	}
	return nil
}

// PoolConfig configures a weight-vector pool.
type PoolConfig struct {
	// Dimension is the buffer length the pool serves.
	Dimension int `json:"dimension" yaml:"dimension"`

	// MaxSize bounds the number of retained buffers. Returns beyond the
	// bound drop the buffer silently.
	MaxSize int `json:"maxSize" yaml:"maxSize"`
}

// DefaultPoolConfig returns defaults for the given buffer dimension.
func DefaultPoolConfig(dimension int) PoolConfig {
	return PoolConfig{Dimension: dimension, MaxSize: 64}
}

// Validate checks the pool configuration.
func (c PoolConfig) Validate() error {
	if c.Dimension <= 0 {
		return fmt.Errorf("%w: pool dimension must be positive, got %d", ErrInvalidArgument, c.Dimension)
	}
	if c.MaxSize <= 0 {
		return fmt.Errorf("%w: pool maxSize must be positive, got %d", ErrInvalidArgument, c.MaxSize)
	}
	return nil
}

// BatchConfig configures the vectorized batch processor.
type BatchConfig struct {
	// MinBatchSize is the smallest batch worth transposing; smaller batches
	// take the scalar path.
	MinBatchSize int `json:"minBatchSize" yaml:"minBatchSize"`

	// MinDimension is the smallest feature dimension worth transposing.
	MinDimension int `json:"minDimension" yaml:"minDimension"`

	// DecayRate is the per-step activation decay in [0,1].
	DecayRate float64 `json:"decayRate" yaml:"decayRate"`

	// IntegrationRate scales input integration in [0,1].
	IntegrationRate float64 `json:"integrationRate" yaml:"integrationRate"`

	// Saturation is the activation ceiling.
	Saturation float64 `json:"saturation" yaml:"saturation"`
}

// DefaultBatchConfig returns defaults for the batch processor.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		MinBatchSize:    16,
		MinDimension:    8,
		DecayRate:       0.1,
		IntegrationRate: 1.0,
		Saturation:      1.0,
	}
}

// Validate checks the batch configuration.
func (c BatchConfig) Validate() error {
	if c.MinBatchSize <= 0 {
		return fmt.Errorf("%w: minBatchSize must be positive, got %d", ErrInvalidArgument, c.MinBatchSize)
	}
	if c.MinDimension <= 0 {
		return fmt.Errorf("%w: minDimension must be positive, got %d", ErrInvalidArgument, c.MinDimension)
	}
	if c.DecayRate < 0 || c.DecayRate > 1 {
		return fmt.Errorf("%w: decayRate %v outside [0,1]", ErrInvalidArgument, c.DecayRate)
	}
	if c.IntegrationRate < 0 || c.IntegrationRate > 1 {
		return fmt.Errorf("%w: integrationRate %v outside [0,1]", ErrInvalidArgument, c.IntegrationRate)
	}
	if c.Saturation <= 0 {
		return fmt.Errorf("%w: saturation must be positive, got %v", ErrInvalidArgument, c.Saturation)
	}
	return nil
}

// WorkerConfig configures a bounded worker pool.
type WorkerConfig struct {
	// Size is the fixed parallelism level.
	Size int `json:"size" yaml:"size"`
}

// DefaultWorkerConfig returns a worker pool sized for light parallelism.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{Size: 4}
}

// Validate checks the worker pool configuration.
func (c WorkerConfig) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: worker pool size must be positive, got %d", ErrInvalidArgument, c.Size)
	}
	return nil
}
