package amortization

import "errors"

var (
	// ErrInvalidArgument reports loan terms, extra payments or options that
	// fall outside their allowed range.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnimplementedMode reports a reserved calculation mode or payment
	// timing that the engine does not support.
	ErrUnimplementedMode = errors.New("unimplemented calculation mode")
)
