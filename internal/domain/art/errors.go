package art

import "errors"

// Error taxonomy shared by all engine components. Call sites wrap these with
// fmt.Errorf and %w so callers can match with errors.Is.
var (
	// ErrInvalidArgument indicates a nil/empty pattern or an out-of-range
	// configuration value. Never retried.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDimensionMismatch indicates a pattern or buffer whose length does
	// not match the declared module dimension.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrInvalidParameter indicates a learning-rule parameter outside its
	// valid range (for example a learning rate outside [0,1]).
	ErrInvalidParameter = errors.New("parameter out of range")

	// ErrIllegalState indicates an operation on a module in the wrong state,
	// such as predicting before any category has been learned.
	ErrIllegalState = errors.New("illegal state")

	// ErrCapacityExceeded indicates the category store is full and a commit
	// was required. Surfaced to the caller, never absorbed.
	ErrCapacityExceeded = errors.New("category capacity exceeded")

	// ErrPoolClosed indicates a rent or return against a closed pool.
	ErrPoolClosed = errors.New("pool is closed")
)
