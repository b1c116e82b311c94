package transition

import "errors"

// Sentinel errors for transition model calls. Every rejected call leaves the
// model untouched, so callers may match with errors.Is and retry with fixed input.
var (
	// ErrInvalidCapacity is returned when a model is built with no feature slots.
	ErrInvalidCapacity = errors.New("max feature count must be positive")

	// ErrInputTooLong is returned when a feature vector exceeds model capacity.
	ErrInputTooLong = errors.New("feature input longer than model capacity")

	// ErrInvalidActivity is returned for feature activity outside [0,1] or NaN.
	ErrInvalidActivity = errors.New("feature activity must be within [0,1]")

	// ErrRewardOutOfRange is returned for rewards outside [0,1].
	ErrRewardOutOfRange = errors.New("reward must be within [0,1]")

	// ErrShapeMismatch is returned when a flattened transition vector is not N*N long.
	ErrShapeMismatch = errors.New("transition vector does not match model shape")

	// ErrNoProjections is returned when Projections is called with an empty batch.
	ErrNoProjections = errors.New("no projections to decode")

	// ErrInvalidParams is returned when model parameters are out of range.
	ErrInvalidParams = errors.New("invalid model parameters")
)
