package sim

import "errors"

var (
	// ErrInvalidConfig is returned for world settings outside their valid range.
	ErrInvalidConfig = errors.New("invalid simulation config")

	// ErrWorldTooLarge is returned when the world has more features than the model can hold.
	ErrWorldTooLarge = errors.New("world has more features than model capacity")
)
