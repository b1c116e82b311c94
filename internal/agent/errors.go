package agent

import "errors"

var (
	// ErrNilModel is returned when a nil model is registered or stepped.
	ErrNilModel = errors.New("nil model")

	// ErrDuplicateModel is returned when two models share a name in one hub.
	ErrDuplicateModel = errors.New("model name already registered")

	// ErrUnknownModel is returned when an input names a model the hub does not hold.
	ErrUnknownModel = errors.New("unknown model")
)
