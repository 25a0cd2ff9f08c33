package domain

import (
	"fmt"
)

// Stage names the step of the weather lookup an error originated from.
type Stage string

const (
	StageResolve Stage = "resolve"
	StageFetch   Stage = "fetch"
)

// LocationNotFoundError is returned when the location search yields no results.
type LocationNotFoundError struct {
	Place string
}

func (e *LocationNotFoundError) Error() string {
	return fmt.Sprintf("could not find location '%s'", e.Place)
}

// TransportError covers requests that could not be sent, unreachable backends and
// non-2xx responses. StatusCode is zero when no response was received.
type TransportError struct {
	Stage      Stage
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed with status %d: %v", e.Stage, e.StatusCode, e.Err)
	}

	return fmt.Sprintf("%s request failed: %v", e.Stage, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a response body does not have the expected shape.
type DecodeError struct {
	Stage Stage
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode %s response: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
