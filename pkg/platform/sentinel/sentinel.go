package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: record does not exist in store under the active visibility
// - ErrConflict: record is in the wrong lifecycle state for the requested transition
// - ErrAlreadyUsed: a unique value (e.g. invoice number) is already taken
// - ErrUnavailable: service or resource temporarily unavailable
//
// For validation errors (bad input, broken field rules), use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrAlreadyUsed = errors.New("already used")
	ErrUnavailable = errors.New("unavailable")
)
