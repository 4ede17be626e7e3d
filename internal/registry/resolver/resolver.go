// Package resolver composes metadata URIs for tokens.
//
// The composed URI encodes the token's home chain (the network whose state
// this registry mirrors), not the registry's own location. A holder following
// the URI lands on the authoritative record, with the registry acting as a
// projection of it.
package resolver

import (
	"context"
	"fmt"
	"os"
	"strconv"

	id "tokenhome/pkg/domain"
)

// ChainIDProvider yields the numeric identifier of the home network. It is an
// environment fact queried at resolution time, never stored registry state.
type ChainIDProvider interface {
	ChainID(ctx context.Context) (uint64, error)
}

// EnvChainID reads the home chain id from TOKENHOME_CHAIN_ID on every call,
// so a re-homed process resolves against its new environment immediately.
type EnvChainID struct{}

func (EnvChainID) ChainID(ctx context.Context) (uint64, error) {
	raw := os.Getenv("TOKENHOME_CHAIN_ID")
	if raw == "" {
		return 0, fmt.Errorf("TOKENHOME_CHAIN_ID is not set")
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse TOKENHOME_CHAIN_ID: %w", err)
	}
	return n, nil
}

// StaticChainID pins the chain id. Used in tests and single-network deployments.
type StaticChainID uint64

func (c StaticChainID) ChainID(ctx context.Context) (uint64, error) {
	return uint64(c), nil
}

// Compose renders the metadata URI for a token.
//
// With a non-empty base: base + "eip155:" + chainID + "/" + decimal id + ext.
// With an empty base the result collapses to just ext, dropping the
// eip155-scoped path entirely. That collapse looks like an oversight in the
// original contract but is load-bearing for deployed consumers, so it is
// reproduced exactly. See DESIGN.md.
func Compose(base string, chainID uint64, tokenID id.TokenID, ext string) string {
	if base == "" {
		return ext
	}
	return fmt.Sprintf("%seip155:%d/%s%s", base, chainID, tokenID, ext)
}
