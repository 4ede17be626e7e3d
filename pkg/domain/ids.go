// Package domain defines the typed identifiers shared across the registry.
//
// TokenID and Address are distinct types rather than bare integers/strings so
// the compiler rejects cross-assignment at trust boundaries (handlers, stores).
package domain

import (
	"encoding/hex"
	"strconv"
	"strings"

	dErrors "tokenhome/pkg/domain-errors"
)

// TokenID identifies one minted token. IDs are assigned sequentially starting
// at 1 and are never reused, so 0 doubles as the invalid/unset value.
type TokenID uint64

// String renders the identifier in its canonical decimal form, the same form
// embedded in resolved metadata URIs.
func (id TokenID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseTokenID parses a decimal token identifier from an API path segment.
func ParseTokenID(s string) (TokenID, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "token id must be a decimal integer")
	}
	if n == 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "token id must be positive")
	}
	return TokenID(n), nil
}

// AddressLen is the byte length of a holder address.
const AddressLen = 20

// Address is an opaque address-like holder identity. The zero value is the
// null identity and is never a valid holder.
type Address [AddressLen]byte

// ZeroAddress is the null identity.
var ZeroAddress Address

// IsZero reports whether the address is the null identity.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// String renders the address as 0x-prefixed lowercase hex.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// ParseAddress parses a 0x-prefixed hex address. The zero address parses
// successfully; callers that require a live identity check IsZero themselves,
// because "reject zero" is an operation-level rule (mint), not a parse rule.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return Address{}, dErrors.New(dErrors.CodeInvalidInput, "address must be 0x-prefixed hex")
	}
	raw, err := hex.DecodeString(s[2:])
	if err != nil || len(raw) != AddressLen {
		return Address{}, dErrors.New(dErrors.CodeInvalidInput, "address must be 20 bytes of hex")
	}
	var a Address
	copy(a[:], raw)
	return a, nil
}
