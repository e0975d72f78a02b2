package protocol

import "errors"

// Sentinel errors for protocol operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrChannelClosed is returned when the underlying link has been closed.
	ErrChannelClosed = errors.New("protocol: channel closed")

	// ErrUnknownMode is returned when a node is asked to dispatch on a mode
	// byte that is not part of the vocabulary.
	ErrUnknownMode = errors.New("protocol: unknown mode")

	// ErrInvalidPassword is returned when a password does not have exactly
	// PasswordLength characters or contains the terminator.
	ErrInvalidPassword = errors.New("protocol: invalid password")
)
