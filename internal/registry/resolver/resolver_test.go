package resolver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "tokenhome/pkg/domain"
)

func TestCompose(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		chainID uint64
		tokenID id.TokenID
		ext     string
		want    string
	}{
		{
			name:    "standard composition",
			base:    "https://x/",
			chainID: 1,
			tokenID: 5,
			ext:     ".json",
			want:    "https://x/eip155:1/5.json",
		},
		{
			name:    "non-mainnet chain id",
			base:    "ipfs://bafy/",
			chainID: 137,
			tokenID: 123456,
			ext:     ".json",
			want:    "ipfs://bafy/eip155:137/123456.json",
		},
		{
			name:    "custom extension",
			base:    "https://meta.example/v2/",
			chainID: 1,
			tokenID: 9,
			ext:     "",
			want:    "https://meta.example/v2/eip155:1/9",
		},
		{
			// The empty-base collapse discards the eip155 path entirely.
			// Compatibility behavior; see DESIGN.md before changing it.
			name:    "empty base collapses to the bare extension",
			base:    "",
			chainID: 1,
			tokenID: 5,
			ext:     ".json",
			want:    ".json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compose(tt.base, tt.chainID, tt.tokenID, tt.ext))
		})
	}
}

func TestEnvChainID(t *testing.T) {
	t.Run("reads the environment on every call", func(t *testing.T) {
		t.Setenv("TOKENHOME_CHAIN_ID", "1")
		provider := EnvChainID{}

		got, err := provider.ChainID(context.Background())
		require.NoError(t, err)
		assert.Equal(t, uint64(1), got)

		t.Setenv("TOKENHOME_CHAIN_ID", "8453")
		got, err = provider.ChainID(context.Background())
		require.NoError(t, err)
		assert.Equal(t, uint64(8453), got, "re-homing must be visible without restart")
	})

	t.Run("unset variable is an error", func(t *testing.T) {
		t.Setenv("TOKENHOME_CHAIN_ID", "")
		_, err := EnvChainID{}.ChainID(context.Background())
		require.Error(t, err)
	})

	t.Run("non-numeric value is an error", func(t *testing.T) {
		t.Setenv("TOKENHOME_CHAIN_ID", "mainnet")
		_, err := EnvChainID{}.ChainID(context.Background())
		require.Error(t, err)
	})
}

func TestHTTPResolver(t *testing.T) {
	t.Run("fetches the uri for a token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/7", r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]string{"uri": "https://elsewhere/7"})
		}))
		defer srv.Close()

		uri, err := NewHTTPResolver(srv.URL).TokenURI(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "https://elsewhere/7", uri)
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := NewHTTPResolver(srv.URL).TokenURI(context.Background(), 7)
		require.Error(t, err)
	})
}
