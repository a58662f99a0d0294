package dynamo

import "errors"

// Domain errors. Physics operations themselves never fail; these come from
// validation and from the handle-checked helpers.
var (
	// ErrUnknownBody indicates a handle that does not index the world's bodies.
	ErrUnknownBody = errors.New("dynamo: unknown body")

	// ErrNotKinematic indicates an external drive of a dynamic body.
	ErrNotKinematic = errors.New("dynamo: body is not kinematic")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrInvalidState indicates a frame with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)
