package admin

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireAdminToken(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	cases := []struct {
		name       string
		configured string
		header     string
		want       int
	}{
		{"matching token passes", "secret", "secret", http.StatusNoContent},
		{"wrong token rejected", "secret", "guess", http.StatusUnauthorized},
		{"missing token rejected", "secret", "", http.StatusUnauthorized},
		{"empty configured token rejects everything", "", "", http.StatusUnauthorized},
		{"empty configured token rejects non-empty header", "", "anything", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			guarded := RequireAdminToken(tc.configured, logger)(next)

			req := httptest.NewRequest(http.MethodPut, "/admin/base-uri", nil)
			if tc.header != "" {
				req.Header.Set(TokenHeader, tc.header)
			}
			rec := httptest.NewRecorder()
			guarded.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}
