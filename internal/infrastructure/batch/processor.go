// Package batch re-expresses the per-pattern layer dynamics over
// dimension-major buffers so that a whole batch advances one feature lane at
// a time. Batching is purely a performance transform: every operation is
// numerically equivalent to running the scalar path per pattern.
package batch

import (
	"fmt"

	domainART "github.com/blackms/artflow-go/internal/domain/art"
	artinfra "github.com/blackms/artflow-go/internal/infrastructure/art"
	"github.com/blackms/artflow-go/internal/infrastructure/pool"
	"github.com/blackms/artflow-go/internal/infrastructure/worker"
)

// Batch holds N patterns laid out dimension-major: Lanes[d][i] is component
// d of pattern i. One contiguous array per feature dimension keeps the inner
// loops lane-parallel.
type Batch struct {
	N     int
	Dim   int
	Lanes [][]float64
}

// Processor applies layer dynamics to batches, falling back to the scalar
// per-pattern path below the profitability thresholds.
type Processor struct {
	config  domainART.BatchConfig
	scratch *pool.VectorPool
	workers *worker.Pool
}

// New validates the configuration and constructs a processor. The worker
// pool is optional; with a nil pool lanes run inline.
func New(config domainART.BatchConfig, scratch *pool.VectorPool, workers *worker.Pool) (*Processor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Processor{config: config, scratch: scratch, workers: workers}, nil
}

// Transpose lays out row-major patterns dimension-major. All patterns must
// share one dimension.
func Transpose(patterns [][]float64) (*Batch, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%w: empty batch", domainART.ErrInvalidArgument)
	}
	dim := len(patterns[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: empty pattern", domainART.ErrInvalidArgument)
	}
	for i, p := range patterns {
		if len(p) != dim {
			return nil, fmt.Errorf("%w: pattern %d dim %d, batch dim %d",
				domainART.ErrDimensionMismatch, i, len(p), dim)
		}
	}

	lanes := make([][]float64, dim)
	backing := make([]float64, dim*len(patterns))
	for d := 0; d < dim; d++ {
		lane := backing[d*len(patterns) : (d+1)*len(patterns)]
		for i, p := range patterns {
			lane[i] = p[d]
		}
		lanes[d] = lane
	}
	return &Batch{N: len(patterns), Dim: dim, Lanes: lanes}, nil
}

// Untranspose converts back to row-major patterns.
func (b *Batch) Untranspose() [][]float64 {
	out := make([][]float64, b.N)
	backing := make([]float64, b.N*b.Dim)
	for i := 0; i < b.N; i++ {
		row := backing[i*b.Dim : (i+1)*b.Dim]
		for d := 0; d < b.Dim; d++ {
			row[d] = b.Lanes[d][i]
		}
		out[i] = row
	}
	return out
}

// DecayIntegrate advances the layer activation dynamics
//
//	a ← clamp((1-decay)·a + integration·x, 0, saturation)
//
// for the given number of steps, in place over activations. activations and
// inputs are row-major [N][dim]. Small or narrow batches take the scalar
// path; the result is identical either way within 1e-10 per element.
func (p *Processor) DecayIntegrate(activations, inputs [][]float64, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", domainART.ErrInvalidArgument, steps)
	}
	if len(activations) == 0 || len(activations) != len(inputs) {
		return fmt.Errorf("%w: %d activation rows, %d input rows",
			domainART.ErrInvalidArgument, len(activations), len(inputs))
	}
	dim := len(activations[0])
	for i := range activations {
		if len(activations[i]) != dim || len(inputs[i]) != dim {
			return fmt.Errorf("%w: row %d", domainART.ErrDimensionMismatch, i)
		}
	}

	if len(activations) < p.config.MinBatchSize || dim < p.config.MinDimension {
		p.decayIntegrateScalar(activations, inputs, steps)
		return nil
	}
	return p.decayIntegrateLanes(activations, inputs, steps)
}

// decayIntegrateScalar is the reference per-pattern path.
func (p *Processor) decayIntegrateScalar(activations, inputs [][]float64, steps int) {
	decay := p.config.DecayRate
	integ := p.config.IntegrationRate
	sat := p.config.Saturation
	for i := range activations {
		a := activations[i]
		x := inputs[i]
		for s := 0; s < steps; s++ {
			for d := range a {
				v := (1-decay)*a[d] + integ*x[d]
				if v < 0 {
					v = 0
				} else if v > sat {
					v = sat
				}
				a[d] = v
			}
		}
	}
}

// decayIntegrateLanes runs the same dynamics dimension-major, one lane per
// feature dimension, parallelized across lanes when a worker pool is
// configured.
func (p *Processor) decayIntegrateLanes(activations, inputs [][]float64, steps int) error {
	actB, err := Transpose(activations)
	if err != nil {
		return err
	}
	inB, err := Transpose(inputs)
	if err != nil {
		return err
	}

	decay := p.config.DecayRate
	integ := p.config.IntegrationRate
	sat := p.config.Saturation

	advance := func(d int) {
		a := actB.Lanes[d]
		x := inB.Lanes[d]
		for s := 0; s < steps; s++ {
			for i := range a {
				v := (1-decay)*a[i] + integ*x[i]
				if v < 0 {
					v = 0
				} else if v > sat {
					v = sat
				}
				a[i] = v
			}
		}
	}

	if p.workers == nil {
		for d := 0; d < actB.Dim; d++ {
			advance(d)
		}
	} else {
		for d := 0; d < actB.Dim; d++ {
			d := d
			if err := p.workers.Submit(func() error {
				advance(d)
				return nil
			}); err != nil {
				return err
			}
		}
		if err := p.workers.Wait(); err != nil {
			return err
		}
	}

	// Write lanes back into the caller's row-major buffers.
	for i, row := range actB.Untranspose() {
		copy(activations[i], row)
	}
	return nil
}

// LearnBatch presents patterns to the engine in order and returns the
// resulting category indices. Category search-and-commit is inherently
// order-dependent, so patterns run sequentially; a fatal error aborts
// between pattern boundaries and already-committed categories are not rolled
// back.
func (p *Processor) LearnBatch(engine *artinfra.ResonanceEngine, patterns [][]float64) ([]int, error) {
	if engine == nil {
		return nil, fmt.Errorf("%w: nil engine", domainART.ErrInvalidArgument)
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%w: empty batch", domainART.ErrInvalidArgument)
	}

	indices := make([]int, 0, len(patterns))
	for i, values := range patterns {
		idx, _, err := engine.Learn(values)
		if err != nil {
			return indices, fmt.Errorf("pattern %d: %w", i, err)
		}
		indices = append(indices, idx)
	}
	return indices, nil
}

// Normalize scales every pattern component into [0,1] by the batch-wide
// per-dimension min and max, using pooled scratch lanes. Dimensions with no
// spread map to zero.
func (p *Processor) Normalize(patterns [][]float64) error {
	if len(patterns) == 0 {
		return fmt.Errorf("%w: empty batch", domainART.ErrInvalidArgument)
	}
	dim := len(patterns[0])
	for i := range patterns {
		if len(patterns[i]) != dim {
			return fmt.Errorf("%w: pattern %d", domainART.ErrDimensionMismatch, i)
		}
	}

	lo, hi, err := p.rentMinMax(dim)
	if err != nil {
		return err
	}
	defer p.returnScratch(lo, hi)

	for d := 0; d < dim; d++ {
		lo[d] = patterns[0][d]
		hi[d] = patterns[0][d]
	}
	for _, row := range patterns[1:] {
		for d, v := range row {
			if v < lo[d] {
				lo[d] = v
			}
			if v > hi[d] {
				hi[d] = v
			}
		}
	}
	for _, row := range patterns {
		for d := range row {
			spread := hi[d] - lo[d]
			if spread == 0 {
				row[d] = 0
				continue
			}
			row[d] = (row[d] - lo[d]) / spread
		}
	}
	return nil
}

// rentMinMax rents two scratch lanes, falling back to fresh allocations when
// the pool dimension does not match.
func (p *Processor) rentMinMax(dim int) ([]float64, []float64, error) {
	if p.scratch == nil || p.scratch.Dimension() != dim {
		return make([]float64, dim), make([]float64, dim), nil
	}
	lo, err := p.scratch.Rent()
	if err != nil {
		return nil, nil, err
	}
	hi, err := p.scratch.Rent()
	if err != nil {
		return nil, nil, err
	}
	return lo, hi, nil
}

func (p *Processor) returnScratch(bufs ...[]float64) {
	if p.scratch == nil {
		return
	}
	for _, buf := range bufs {
		if len(buf) == p.scratch.Dimension() {
			// Drop-on-full and post-close returns are fine here; scratch
			// buffers are disposable.
			_ = p.scratch.Return(buf)
		}
	}
}
