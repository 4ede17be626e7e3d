package models

import (
	id "tokenhome/pkg/domain"
)

// DefaultBaseExtension is the extension appended to resolved metadata URIs
// until an administrator overrides it.
const DefaultBaseExtension = ".json"

// Token is one live record in the ledger: an identifier and its current
// holder. Existence is boolean; there is no soft-delete state.
type Token struct {
	ID     id.TokenID
	Holder id.Address
}

// State is the registry's mutable configuration and supply counters.
//
// Invariants the store implementations maintain:
//   - NextID starts at 1, advances by exactly 1 per successful mint, and is
//     never reused or decremented.
//   - LiveCount equals the number of live token records at every observable
//     point.
type State struct {
	NextID        id.TokenID
	LiveCount     uint64
	BaseURI       string
	BaseExtension string
}

// NewState returns the initial registry state.
func NewState() State {
	return State{
		NextID:        1,
		BaseExtension: DefaultBaseExtension,
	}
}
