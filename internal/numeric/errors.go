package numeric

import "errors"

// Sentinel errors for numeric helpers.
var (
	// ErrPadTooShort is returned when the pad target is shorter than the input.
	ErrPadTooShort = errors.New("pad target shorter than input")

	// ErrLengthMismatch is returned when elementwise inputs differ in length.
	ErrLengthMismatch = errors.New("input lengths differ")
)
