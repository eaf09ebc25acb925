package domain

import "errors"

// ErrUndefinedStart is returned when an operation requires a start state but none was set.
var ErrUndefinedStart = errors.New("start state has not been defined")

// ErrUnknownState is returned when a transition references a state absent from the automaton.
var ErrUnknownState = errors.New("unknown state")

// ErrStateNotFound is returned when a lookup by identity code finds no live state.
var ErrStateNotFound = errors.New("state not found")

// ErrNoTraces is returned when a prefix tree is requested from an empty collection of traces.
var ErrNoTraces = errors.New("no positive traces")

// ErrRunNotFound is returned when a run ID cannot be found in the store.
var ErrRunNotFound = errors.New("run not found")
