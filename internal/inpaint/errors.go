package inpaint

import "errors"

var (
	// ErrConfiguration is returned when the model artifact is missing or unreadable.
	ErrConfiguration = errors.New("configuration error")

	// ErrInput is returned when the source image cannot be decoded.
	ErrInput = errors.New("input error")

	// ErrInvalidRegion is returned for regions or padding that fail the planner's preconditions.
	ErrInvalidRegion = errors.New("invalid region")

	// ErrModelOutput is returned when the model answers with an unexpected tensor.
	ErrModelOutput = errors.New("model output anomaly")
)
