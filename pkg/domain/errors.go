package domain

import "errors"

// ErrThreadNotFound is returned when a thread ID cannot be found in the store.
var ErrThreadNotFound = errors.New("thread not found")

// ErrOracleFailure wraps a decision-step fault. It is the one condition the
// loop cannot absorb into data.
var ErrOracleFailure = errors.New("oracle failure")
