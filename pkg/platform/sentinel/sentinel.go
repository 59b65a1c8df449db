package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about stored data, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrInvalidInterval: a history window does not resolve to an ordered pair of times
// - ErrInconsistent: the store returned rows that violate a store invariant
// - ErrUnavailable: service or resource temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidInterval = errors.New("invalid history interval")
	ErrInconsistent    = errors.New("inconsistent store data")
	ErrInvalidState    = errors.New("invalid state")
	ErrUnavailable     = errors.New("unavailable")
)
