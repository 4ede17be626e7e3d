package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	request "tokenhome/pkg/platform/middleware/request"
)

// TokenHeader carries the shared admin token.
const TokenHeader = "X-Admin-Token"

// RequireAdminToken guards the administrative surface (base URI/extension
// changes). The domain-level administrator check still runs inside the
// service; this middleware keeps unauthenticated traffic off the admin routes
// entirely.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(TokenHeader)
			// Use constant-time comparison to prevent timing attacks. An
			// empty expected token never matches; it would otherwise accept
			// requests with no token at all.
			if expectedToken == "" ||
				subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				ctx := r.Context()
				requestID := request.GetRequestID(ctx)
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", requestID,
				)
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"not_authorized","error_description":"admin token required"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
