package domain

import "errors"

var (
	ErrMissingCredential      = errors.New("missing credential")
	ErrRegistrationFailed     = errors.New("command registration failed")
	ErrUnknownCommand         = errors.New("unknown command")
	ErrResponseDeliveryFailed = errors.New("failed to deliver response")
	ErrAlreadyResponded       = errors.New("interaction already responded to")
	ErrEmptyPlace             = errors.New("empty place")
	ErrRegistryFrozen         = errors.New("command registry is frozen")
)
