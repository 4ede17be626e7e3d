package gate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenhome/internal/registry/store"
	id "tokenhome/pkg/domain"
	"tokenhome/pkg/platform/sentinel"
)

func TestSingleGate(t *testing.T) {
	ctx := context.Background()
	admin := id.Address{0xAD}
	alice := id.Address{0x0A}

	ledger := store.NewInMemory()
	tokenID, err := ledger.MintNext(ctx, alice, nil)
	require.NoError(t, err)

	g := NewSingle(admin, ledger)

	t.Run("recognizes the administrator", func(t *testing.T) {
		ok, err := g.IsAdministrator(ctx, admin)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = g.IsAdministrator(ctx, alice)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("zero admin address disables the administrative surface", func(t *testing.T) {
		disabled := NewSingle(id.ZeroAddress, ledger)
		ok, err := disabled.IsAdministrator(ctx, id.ZeroAddress)
		require.NoError(t, err)
		assert.False(t, ok, "the null identity must never pass, even against a null admin")
	})

	t.Run("answers holder checks from the ledger", func(t *testing.T) {
		ok, err := g.IsHolder(ctx, tokenID, alice)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = g.IsHolder(ctx, tokenID, admin)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing token surfaces not-found, not false", func(t *testing.T) {
		_, err := g.IsHolder(ctx, 999, alice)
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
