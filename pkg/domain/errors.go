package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrFlowNotLoaded is returned when the engine is used before a flow was loaded.
var ErrFlowNotLoaded = errors.New("flow not loaded")

// ErrNodeNotFound is returned when a node ID is absent from the flow.
var ErrNodeNotFound = errors.New("node not found")
