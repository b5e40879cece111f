package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestIDKeepsTerminalIDs(t *testing.T) {
	var seen string
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pos/checkout", nil)
	req.Header.Set(requestIDHeader, "caixa-01.sale_42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "caixa-01.sale_42" || rec.Header().Get(requestIDHeader) != seen {
		t.Fatalf("expected terminal id kept, got ctx=%q header=%q", seen, rec.Header().Get(requestIDHeader))
	}
}

func TestRequestIDReplacesUnsafeIDs(t *testing.T) {
	for _, supplied := range []string{"", "line\nbreak", "a b", strings.Repeat("x", maxRequestIDLen+1)} {
		handler := RequestID(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
		if supplied != "" {
			req.Header[requestIDHeader] = []string{supplied}
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		got := rec.Header().Get(requestIDHeader)
		if got == "" || got == supplied || !validRequestID(got) {
			t.Fatalf("supplied %q: expected a generated id, got %q", supplied, got)
		}
	}
}
