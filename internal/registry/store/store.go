// Package store owns the identity and supply ledger: the monotonic next-id
// counter, the live-token count, and the base URI/extension configuration.
//
// Mutating operations take an accept/allow callback that runs inside the
// store's atomicity boundary (mutex for the in-memory ledger, transaction for
// postgres). A callback error aborts the whole mutation with no observable
// state change, which is what gives mint its receiver-safety rollback and
// burn its holder-gated rollback.
package store

import (
	"context"

	"tokenhome/internal/registry/models"
	id "tokenhome/pkg/domain"
)

// Ledger is the storage contract for the registry.
//
// Stores return sentinel errors (pkg/platform/sentinel); coded domain errors
// raised by callbacks pass through unchanged.
type Ledger interface {
	// MintNext allocates the next identifier, records holder against it, and
	// advances the supply counters. accept runs with the allocated id inside
	// the atomicity boundary; if it errors, nothing is committed and the
	// counter does not advance.
	MintNext(ctx context.Context, holder id.Address, accept func(id.TokenID) error) (id.TokenID, error)

	// Burn removes the record permanently and decrements the live count.
	// allow runs with the current holder inside the atomicity boundary; if it
	// errors, the record survives untouched. Returns sentinel.ErrNotFound for
	// a dead or never-minted id.
	Burn(ctx context.Context, tokenID id.TokenID, allow func(holder id.Address) error) error

	// Holder returns the current holder of a live token, or
	// sentinel.ErrNotFound.
	Holder(ctx context.Context, tokenID id.TokenID) (id.Address, error)

	// State returns a snapshot of counters and configuration.
	State(ctx context.Context) (models.State, error)

	// SetBaseURI replaces the base URI and returns the previous value.
	SetBaseURI(ctx context.Context, uri string) (old string, err error)

	// SetBaseExtension replaces the base extension and returns the previous
	// value.
	SetBaseExtension(ctx context.Context, ext string) (old string, err error)
}
