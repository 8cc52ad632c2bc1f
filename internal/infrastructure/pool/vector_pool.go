// Package pool provides a bounded pool of pre-allocated, dimension-matched
// weight-vector buffers for allocation-light search and batch cycles.
package pool

import (
	"fmt"
	"sync/atomic"

	domainART "github.com/blackms/artflow-go/internal/domain/art"
)

// Stats reports pool activity counters.
type Stats struct {
	Rents   int64 `json:"rents"`
	Returns int64 `json:"returns"`

	// Allocs counts buffers allocated fresh because the pool was empty.
	Allocs int64 `json:"allocs"`

	// Drops counts buffers discarded on return because the pool was full.
	// Dropping silently is the documented policy, not an error.
	Drops int64 `json:"drops"`
}

// VectorPool is a bounded multiset of []float64 buffers of one fixed
// dimension. Rent and Return are safe for concurrent use from multiple
// goroutines and never block; there is no ordering guarantee between
// concurrent renters.
//
// A rented buffer is temporarily owned by the caller and must be returned at
// most once. Rent contents are undefined; callers must not assume zeroed
// memory.
type VectorPool struct {
	config  domainART.PoolConfig
	buffers chan []float64
	closed  atomic.Bool

	rents   atomic.Int64
	returns atomic.Int64
	allocs  atomic.Int64
	drops   atomic.Int64
}

// New validates the configuration and constructs an empty pool.
func New(config domainART.PoolConfig) (*VectorPool, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &VectorPool{
		config:  config,
		buffers: make(chan []float64, config.MaxSize),
	}, nil
}

// Dimension returns the buffer length the pool serves.
func (p *VectorPool) Dimension() int { return p.config.Dimension }

// Rent returns a pooled buffer when one is available, otherwise a fresh
// allocation. Contents are undefined.
func (p *VectorPool) Rent() ([]float64, error) {
	if p.closed.Load() {
		return nil, fmt.Errorf("%w: rent", domainART.ErrPoolClosed)
	}
	p.rents.Add(1)
	select {
	case buf := <-p.buffers:
		return buf, nil
	default:
		p.allocs.Add(1)
		return make([]float64, p.config.Dimension), nil
	}
}

// RentZeroed returns a buffer with all components set to zero.
func (p *VectorPool) RentZeroed() ([]float64, error) {
	buf, err := p.Rent()
	if err != nil {
		return nil, err
	}
	for i := range buf {
		buf[i] = 0
	}
	return buf, nil
}

// Return gives a buffer back to the pool. A buffer of the wrong dimension is
// rejected; a buffer returned while the pool is full is silently dropped.
func (p *VectorPool) Return(buf []float64) error {
	if p.closed.Load() {
		return fmt.Errorf("%w: return", domainART.ErrPoolClosed)
	}
	if len(buf) != p.config.Dimension {
		return fmt.Errorf("%w: buffer dim %d, pool dim %d",
			domainART.ErrDimensionMismatch, len(buf), p.config.Dimension)
	}
	p.returns.Add(1)
	select {
	case p.buffers <- buf:
	default:
		p.drops.Add(1)
	}
	return nil
}

// Prewarm allocates up to n buffers into the pool, bounded by the pool's
// capacity.
func (p *VectorPool) Prewarm(n int) {
	if p.closed.Load() {
		return
	}
	for i := 0; i < n; i++ {
		select {
		case p.buffers <- make([]float64, p.config.Dimension):
		default:
			return
		}
	}
}

// Available returns the number of buffers currently held by the pool.
func (p *VectorPool) Available() int { return len(p.buffers) }

// Stats returns a copy of the activity counters.
func (p *VectorPool) Stats() Stats {
	return Stats{
		Rents:   p.rents.Load(),
		Returns: p.returns.Load(),
		Allocs:  p.allocs.Load(),
		Drops:   p.drops.Load(),
	}
}

// Close releases pooled buffers. Subsequent Rent and Return calls fail with
// ErrPoolClosed.
func (p *VectorPool) Close() {
	if p.closed.Swap(true) {
		return
	}
	for {
		select {
		case <-p.buffers:
		default:
			return
		}
	}
}
