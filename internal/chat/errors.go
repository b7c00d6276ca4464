package chat

import "errors"

var (
	// ErrAlreadyRegistered is returned when a connection identifier is
	// registered twice. The lifecycle controller registers each connection
	// exactly once, so hitting this indicates a programming error upstream.
	ErrAlreadyRegistered = errors.New("connection already registered")

	// ErrNotRegistered is returned when a lookup references a connection
	// identifier that is not (or no longer) in the registry.
	ErrNotRegistered = errors.New("connection not registered")
)
