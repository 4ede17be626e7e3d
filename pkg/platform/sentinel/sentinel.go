package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers
// return these (optionally wrapped) so services can translate them into coded
// domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: token record does not exist in the ledger
// - ErrConflict: concurrent mutation lost, or uniqueness violated
// - ErrInvalidState: ledger row in a shape the store cannot act on
// - ErrUnavailable: backing service (postgres, redis, broker) unreachable
//
// For validation failures (bad input, precondition violations), use
// pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
