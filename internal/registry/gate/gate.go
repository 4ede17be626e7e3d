// Package gate implements the ownership gate: the capability the service
// consults before burn and before any administrative mutation.
package gate

import (
	"context"

	id "tokenhome/pkg/domain"
)

// Gate answers the two authorization questions the registry asks. Implemented
// here as a plain precondition check rather than inherited dispatch, so it
// composes in front of mutating operations and swaps cleanly in tests.
type Gate interface {
	IsAdministrator(ctx context.Context, caller id.Address) (bool, error)
	IsHolder(ctx context.Context, tokenID id.TokenID, caller id.Address) (bool, error)
}

// HolderLookup is the slice of the ledger the gate needs.
type HolderLookup interface {
	Holder(ctx context.Context, tokenID id.TokenID) (id.Address, error)
}

// Single authorizes exactly one administrator address and answers holder
// checks from the ledger.
type Single struct {
	admin   id.Address
	holders HolderLookup
}

// NewSingle builds a gate with one administrator. A zero admin address
// disables the administrative surface entirely (no caller can pass).
func NewSingle(admin id.Address, holders HolderLookup) *Single {
	return &Single{admin: admin, holders: holders}
}

func (g *Single) IsAdministrator(ctx context.Context, caller id.Address) (bool, error) {
	if g.admin.IsZero() {
		return false, nil
	}
	return caller == g.admin, nil
}

// IsHolder reports whether caller currently holds the token. Lookup errors
// (including not-found) propagate so the service can distinguish a missing
// token from a wrong caller.
func (g *Single) IsHolder(ctx context.Context, tokenID id.TokenID, caller id.Address) (bool, error) {
	holder, err := g.holders.Holder(ctx, tokenID)
	if err != nil {
		return false, err
	}
	return holder == caller, nil
}
