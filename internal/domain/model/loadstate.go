package model

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a load state change is not allowed.
var ErrInvalidTransition = errors.New("invalid load state transition")

// LoadState is the lifecycle state of a remotely loaded resource or list.
type LoadState int

const (
	LoadStateNotLoaded LoadState = iota
	LoadStateLoading
	LoadStateLoaded
	LoadStateLoadedWithError
)

// String returns the snake_case name used in logs and API responses.
func (s LoadState) String() string {
	switch s {
	case LoadStateNotLoaded:
		return "not_loaded"
	case LoadStateLoading:
		return "loading"
	case LoadStateLoaded:
		return "loaded"
	case LoadStateLoadedWithError:
		return "loaded_with_error"
	default:
		return "unknown"
	}
}

// Next returns to if the transition s -> to is allowed. A load may start from
// any state, including Loading when a newer load supersedes an older one.
// Only a Loading state may complete.
func (s LoadState) Next(to LoadState) (LoadState, error) {
	switch to {
	case LoadStateLoading:
		if s >= LoadStateNotLoaded && s <= LoadStateLoadedWithError {
			return to, nil
		}
	case LoadStateLoaded, LoadStateLoadedWithError:
		if s == LoadStateLoading {
			return to, nil
		}
	}
	return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, to)
}

// IsLoading returns true while a load is in flight.
func (s LoadState) IsLoading() bool {
	return s == LoadStateLoading
}

// HasLoaded returns true once at least one load has completed.
func (s LoadState) HasLoaded() bool {
	return s == LoadStateLoaded || s == LoadStateLoadedWithError
}
