package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "tokenhome/pkg/domain-errors"
)

func TestParseTokenID(t *testing.T) {
	t.Run("accepts decimal ids", func(t *testing.T) {
		id, err := ParseTokenID("42")
		require.NoError(t, err)
		assert.Equal(t, TokenID(42), id)
		assert.Equal(t, "42", id.String())
	})

	t.Run("rejects zero", func(t *testing.T) {
		_, err := ParseTokenID("0")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects non-decimal input", func(t *testing.T) {
		for _, bad := range []string{"", "abc", "-1", "1.5", "0x10"} {
			_, err := ParseTokenID(bad)
			require.Error(t, err, "input %q", bad)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		}
	})
}

func TestParseAddress(t *testing.T) {
	t.Run("round-trips a valid address", func(t *testing.T) {
		raw := "0x00000000000000000000000000000000000000ad"
		addr, err := ParseAddress(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, addr.String())
		assert.False(t, addr.IsZero())
	})

	t.Run("the zero address parses but reports IsZero", func(t *testing.T) {
		addr, err := ParseAddress("0x0000000000000000000000000000000000000000")
		require.NoError(t, err)
		assert.True(t, addr.IsZero())
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, bad := range []string{
			"",
			"alice",
			"0x",
			"0x1234",
			"00000000000000000000000000000000000000ad",
			"0xzz000000000000000000000000000000000000ad",
			"0x00000000000000000000000000000000000000ad00",
		} {
			_, err := ParseAddress(bad)
			require.Error(t, err, "input %q", bad)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		}
	})
}
