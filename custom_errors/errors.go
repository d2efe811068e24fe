package custom_errors

import "errors"

var (
	// ErrInvalidPayload marks missing or malformed client input.
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrCorruptJob marks a stored job that can no longer be decoded.
	ErrCorruptJob = errors.New("corrupt job")
	// ErrTransport marks a failed delivery attempt.
	ErrTransport = errors.New("transport error")
	// ErrBackendUnavailable is returned when the store or tracker is not configured.
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrUnauthorized       = errors.New("unauthorized")
	// ErrNoDestination is returned by the planner when no push subscription is available.
	ErrNoDestination = errors.New("no destination")
	// ErrTransportUnavailable is returned when no dispatch strategy can accept jobs.
	ErrTransportUnavailable = errors.New("transport unavailable")
)
