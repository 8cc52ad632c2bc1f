package art

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Category is a learned prototype: a weight vector plus bookkeeping metadata.
// Categories are owned exclusively by the CategoryStore that created them and
// are referenced by integer index everywhere else.
type Category struct {
	Index      int       `json:"index"`
	Weights    []float64 `json:"weights"`
	UsageCount int       `json:"usageCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RuleState holds per-category learning-rule state, stored in a side array
// indexed by category index so its lifetime matches the category's own.
type RuleState struct {
	// Threshold is the BCM sliding modification threshold.
	Threshold float64 `json:"threshold"`

	// Velocity is the gradient-hybrid momentum buffer, allocated lazily.
	Velocity []float64 `json:"velocity,omitempty"`
}

// CategoryStore is an append-only arena of categories up to a fixed maximum.
// Indices are stable once assigned; the only mutators are Append and Clear.
// The store is not safe for concurrent writers: callers serialize access per
// store instance.
type CategoryStore struct {
	id            string
	dim           int
	maxCategories int
	categories    []Category
	ruleState     []RuleState
}

// NewCategoryStore creates an empty store for weight vectors of the given
// dimension.
func NewCategoryStore(dim, maxCategories int) (*CategoryStore, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", ErrInvalidArgument, dim)
	}
	if maxCategories <= 0 {
		return nil, fmt.Errorf("%w: maxCategories must be positive, got %d", ErrInvalidArgument, maxCategories)
	}
	return &CategoryStore{
		id:            uuid.New().String(),
		dim:           dim,
		maxCategories: maxCategories,
		categories:    make([]Category, 0, min(maxCategories, 64)),
		ruleState:     make([]RuleState, 0, min(maxCategories, 64)),
	}, nil
}

// ID returns the store's unique identifier.
func (s *CategoryStore) ID() string { return s.id }

// Dim returns the weight-vector dimension.
func (s *CategoryStore) Dim() int { return s.dim }

// Max returns the category capacity.
func (s *CategoryStore) Max() int { return s.maxCategories }

// Len returns the number of committed categories.
func (s *CategoryStore) Len() int { return len(s.categories) }

// Append commits a new category initialized from the given weights and
// returns its index. The weights are copied.
func (s *CategoryStore) Append(weights []float64) (int, error) {
	if len(weights) != s.dim {
		return 0, fmt.Errorf("%w: weights dim %d, store dim %d", ErrDimensionMismatch, len(weights), s.dim)
	}
	if len(s.categories) >= s.maxCategories {
		return 0, fmt.Errorf("%w: store at %d categories", ErrCapacityExceeded, s.maxCategories)
	}
	idx := len(s.categories)
	w := make([]float64, s.dim)
	copy(w, weights)
	s.categories = append(s.categories, Category{
		Index:     idx,
		Weights:   w,
		CreatedAt: time.Now(),
	})
	s.ruleState = append(s.ruleState, RuleState{})
	return idx, nil
}

// Category returns a copy of the category at index for introspection.
func (s *CategoryStore) Category(index int) (Category, error) {
	if index < 0 || index >= len(s.categories) {
		return Category{}, fmt.Errorf("%w: index %d of %d", ErrInvalidArgument, index, len(s.categories))
	}
	c := s.categories[index]
	c.Weights = append([]float64(nil), c.Weights...)
	return c, nil
}

// Weights returns the mutable weight slice for in-place rule updates.
// Single-writer contract: concurrent updates to the same category must be
// externally serialized.
func (s *CategoryStore) Weights(index int) []float64 {
	return s.categories[index].Weights
}

// RuleState returns the mutable per-category learning-rule state.
func (s *CategoryStore) RuleState(index int) *RuleState {
	return &s.ruleState[index]
}

// SetUsage overwrites the usage counter, used when restoring snapshots.
func (s *CategoryStore) SetUsage(index, count int) {
	if index >= 0 && index < len(s.categories) {
		s.categories[index].UsageCount = count
	}
}

// Touch increments the usage counter of a category.
func (s *CategoryStore) Touch(index int) {
	if index >= 0 && index < len(s.categories) {
		s.categories[index].UsageCount++
	}
}

// Clear removes all categories. Indices restart from zero.
func (s *CategoryStore) Clear() {
	s.categories = s.categories[:0]
	s.ruleState = s.ruleState[:0]
}
