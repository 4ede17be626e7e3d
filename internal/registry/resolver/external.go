package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	id "tokenhome/pkg/domain"
)

// TokenURIResolver is the external resolver capability. When a deployment
// delegates resolution, the capability owns validation end to end; the
// registry performs no existence check on this path.
type TokenURIResolver interface {
	TokenURI(ctx context.Context, tokenID id.TokenID) (string, error)
}

// HTTPResolver delegates resolution to a remote resolver service exposing
// GET {endpoint}/{id} returning {"uri": "..."}.
type HTTPResolver struct {
	endpoint string
	client   *http.Client
}

// NewHTTPResolver builds a resolver client against the given endpoint.
func NewHTTPResolver(endpoint string) *HTTPResolver {
	return &HTTPResolver{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *HTTPResolver) TokenURI(ctx context.Context, tokenID id.TokenID) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint+"/"+tokenID.String(), nil)
	if err != nil {
		return "", fmt.Errorf("build resolver request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call external resolver: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("external resolver returned %d for token %s", resp.StatusCode, tokenID)
	}

	var payload struct {
		URI string `json:"uri"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode resolver response: %w", err)
	}
	return payload.URI, nil
}
