package core

import "errors"

var (
	// ErrEndpointNotFound is returned by endpoint stores for unknown names.
	ErrEndpointNotFound = errors.New("endpoint not found")

	// ErrAuthentication marks a handler failure whose response message is
	// taken from Call.Message instead of the error text.
	ErrAuthentication = errors.New("authentication failed")

	ErrHandlerNotFound    = errors.New("handler not registered")
	ErrModelNotRegistered = errors.New("model not registered")
	ErrArguments          = errors.New("invalid handler arguments")
	ErrHandlerPanic       = errors.New("handler panicked")

	// ErrPanic wraps a panic raised while building the handler input.
	ErrPanic = errors.New("dispatch panicked")
)
