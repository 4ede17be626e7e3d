// Package request provides middleware for request-scoped metadata: a
// correlation ID, the request time, and the caller identity. All operations
// within a single HTTP request see the same values, keeping event payloads
// and logs consistent.
package request

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	id "tokenhome/pkg/domain"
	"tokenhome/pkg/requestcontext"
)

// CallerHeader names the header carrying the caller's address. The registry
// trusts the fronting proxy to authenticate it; the registry itself only
// enforces holder/administrator checks against it.
const CallerHeader = "X-Caller-Address"

// Middleware stamps each request with a correlation ID and a request time,
// and extracts the caller address when the header is present and well formed.
// A malformed caller header is left unset rather than rejected here; the
// operations that require a caller fail with their own coded errors.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = requestcontext.WithRequestID(ctx, uuid.NewString())
		ctx = requestcontext.WithTime(ctx, time.Now())
		if raw := r.Header.Get(CallerHeader); raw != "" {
			if caller, err := id.ParseAddress(raw); err == nil {
				ctx = requestcontext.WithCaller(ctx, caller)
			}
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the correlation ID from the context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
